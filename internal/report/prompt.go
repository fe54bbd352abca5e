// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package report

import (
	"fmt"
	"sort"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
	"github.com/arborsearch/recall/internal/model"
	"github.com/arborsearch/recall/internal/searchtree"
)

// maxPromptTokens bounds the final synthesis prompt so it fits comfortably
// in a typical chat-completion context window. An over-long prompt is cut at
// this many tokens from its start, so the reference-links section, which
// comes last, is the first to be cut.
const maxPromptTokens = 12000

// PromptInputs bundles everything the final prompt assembles from.
type PromptInputs struct {
	Query        string
	TOCRoots     []*searchtree.Node
	WebSummary   string
	LocalSummary string
	DomainGroups map[string][]searchtree.DomainGroup
}

// BuildFinalPrompt assembles the long-form synthesis prompt: a table of
// contents, summarized web and local results, and a deduplicated reference
// links section, token-bounded against maxPromptTokens.
func BuildFinalPrompt(in PromptInputs) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research Query\n\n%s\n\n", in.Query)

	b.WriteString("# Table of Contents\n\n")
	b.WriteString(searchtree.BuildTOCString(in.TOCRoots))
	b.WriteString("\n")

	b.WriteString("# Summarized Web Results\n\n")
	b.WriteString(in.WebSummary)
	b.WriteString("\n\n")

	b.WriteString("# Summarized Local Results\n\n")
	b.WriteString(in.LocalSummary)
	b.WriteString("\n\n")

	b.WriteString("# Reference Links\n\n")
	b.WriteString(renderReferenceLinks(in.DomainGroups))

	return boundToTokenLimit(b.String(), maxPromptTokens)
}

func renderReferenceLinks(groups map[string][]searchtree.DomainGroup) string {
	domains := make([]string, 0, len(groups))
	for d := range groups {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	var b strings.Builder
	for _, d := range domains {
		fmt.Fprintf(&b, "## %s\n", d)
		seen := make(map[string]bool)
		for _, g := range groups[d] {
			if seen[g.URL] {
				continue
			}
			seen[g.URL] = true
			fmt.Fprintf(&b, "- [%s](%s) (%s)\n", g.Title, g.URL, g.SourceEngine)
		}
	}
	return b.String()
}

// boundToTokenLimit keeps the first maxTokens tokens of text (cl100k
// encoding) and appends a truncation marker; whatever lies past that point
// is dropped, which is the reference-links tail and, for a long enough
// prompt, earlier sections too. If the tokenizer can't
// be loaded, the full text is returned unmodified rather than failing the
// session over a token-counting problem.
func boundToTokenLimit(text string, maxTokens int) string {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return text
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}

	truncated := enc.Decode(tokens[:maxTokens])
	return truncated + "\n\n[...reference links truncated to fit context window...]"
}

// SummarizeFetchedPages concatenates each page's text for a naive
// local-executor-dispatched summarization step; callers typically feed this
// through an llm.Client to produce a condensed summary instead of using the
// raw concatenation directly.
func SummarizeFetchedPages(pages []model.FetchedPage) string {
	var b strings.Builder
	for _, p := range pages {
		if p.Text == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s\n%s\n\n", p.Title, p.Text)
	}
	return b.String()
}
