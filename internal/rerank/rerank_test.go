// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package rerank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborsearch/recall/internal/model"
)

func TestRerank(t *testing.T) {
	t.Run("dedupes by URL, keeping first occurrence", func(t *testing.T) {
		raw := []model.SearchResult{
			{Title: "First", URL: "https://example.com/a", Body: "svb"},
			{Title: "Second", URL: "https://example.com/a", Body: "svb"},
		}
		out := Rerank(raw, "svb", Options{})
		require.Len(t, out, 1)
		assert.Equal(t, "First", out[0].Title)
	})

	t.Run("sorts descending by score and favors trusted domains", func(t *testing.T) {
		now := time.Now()
		raw := []model.SearchResult{
			{Title: "unrelated", URL: "https://pinterest.com/x", Body: "nothing"},
			{Title: "svb collapse analysis", URL: "https://fed.gov/report", Body: "svb", Published: &now},
		}
		out := Rerank(raw, "svb", Options{})
		require.Len(t, out, 2)
		assert.Equal(t, "https://fed.gov/report", out[0].URL)
	})

	t.Run("caps results per domain", func(t *testing.T) {
		raw := make([]model.SearchResult, 0, 5)
		for i := 0; i < 5; i++ {
			raw = append(raw, model.SearchResult{
				Title: "svb",
				URL:   "https://example.com/" + string(rune('a'+i)),
				Body:  "svb",
			})
		}
		out := Rerank(raw, "svb", Options{PerDomainCap: 2})
		assert.Len(t, out, 2)
	})

	t.Run("TopN truncates the final list", func(t *testing.T) {
		raw := []model.SearchResult{
			{Title: "a", URL: "https://a.com", Body: "svb"},
			{Title: "b", URL: "https://b.com", Body: "svb"},
			{Title: "c", URL: "https://c.com", Body: "svb"},
		}
		out := Rerank(raw, "svb", Options{TopN: 2})
		assert.Len(t, out, 2)
	})

	t.Run("empty URL results are dropped", func(t *testing.T) {
		raw := []model.SearchResult{{Title: "no url", URL: "", Body: "svb"}}
		out := Rerank(raw, "svb", Options{})
		assert.Empty(t, out)
	})
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "example.com", hostOf("https://EXAMPLE.com/path"))
	assert.Equal(t, "", hostOf("://not a url"))
}
