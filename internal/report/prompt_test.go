// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arborsearch/recall/internal/model"
	"github.com/arborsearch/recall/internal/searchtree"
)

func TestSummarizeFetchedPages(t *testing.T) {
	t.Run("skips pages with no extracted text", func(t *testing.T) {
		pages := []model.FetchedPage{
			{Title: "Has Text", Text: "content", TextPreview: "content"},
			{Title: "Empty", Text: ""},
		}
		out := SummarizeFetchedPages(pages)
		assert.Contains(t, out, "Has Text")
		assert.NotContains(t, out, "Empty")
	})

	t.Run("empty input yields an empty string", func(t *testing.T) {
		assert.Equal(t, "", SummarizeFetchedPages(nil))
	})
}

func TestBuildFinalPrompt(t *testing.T) {
	root := searchtree.NewNode("what happened to svb", 1)
	root.RelevanceScore = 0.9

	prompt := BuildFinalPrompt(PromptInputs{
		Query:        "what happened to svb",
		TOCRoots:     []*searchtree.Node{root},
		WebSummary:   "svb collapsed in March 2023",
		LocalSummary: "no local documents",
		DomainGroups: map[string][]searchtree.DomainGroup{
			"fed.gov": {{URL: "https://fed.gov/report", Title: "Report", SourceEngine: "duckduckgo"}},
		},
	})

	assert.Contains(t, prompt, "# Research Query")
	assert.Contains(t, prompt, "what happened to svb")
	assert.Contains(t, prompt, "# Table of Contents")
	assert.Contains(t, prompt, "svb collapsed in March 2023")
	assert.Contains(t, prompt, "fed.gov")
}
