// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package searchtree

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/arborsearch/recall/internal/embed"
	"github.com/arborsearch/recall/internal/engine"
	"github.com/arborsearch/recall/internal/extract"
	"github.com/arborsearch/recall/internal/fetch"
	"github.com/arborsearch/recall/internal/fsutil"
	"github.com/arborsearch/recall/internal/llm"
	"github.com/arborsearch/recall/internal/model"
	"github.com/arborsearch/recall/internal/montecarlo"
	"github.com/arborsearch/recall/internal/rerank"
)

// DomainGroup is one entry in the domain->results grouping built at the top
// level of expansion, for the final report's reference-links section.
type DomainGroup struct {
	URL          string
	FilePath     string
	ContentType  string
	Title        string
	SourceEngine string
}

// Expander recursively explores sub-queries, gated by relevance to the
// session's enhanced query, building a search tree (TOC) as it goes.
type Expander struct {
	Manager        *engine.Manager
	RerankOptions  rerank.Options
	Fetcher        *fetch.Fetcher
	Embedder       model.Embedder
	LLM            llm.Client
	MinRelevance   float64
	MaxDepth       int
	WebSearchLimit int
	OutDirBase     string
	Logger         *slog.Logger
}

var cleanQueryPattern = regexp.MustCompile("[*_`]")
var whitespacePattern = regexp.MustCompile(`\s+`)

// CleanQuery strips markdown-style emphasis characters and collapses
// whitespace, matching the original prototype's query normalization.
func CleanQuery(q string) string {
	stripped := cleanQueryPattern.ReplaceAllString(q, "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(stripped, " "))
}

// Expand processes each sub-query at depth, returning the resulting TOC
// nodes (one per non-gated-out sub-query), the accumulated fetched pages,
// and the accumulated corpus entries. The domain-grouped view of the pages
// for the final report is built separately by GroupByDomain. mcResults
// carries the Monte-Carlo sampling outcome for any sub-query that was
// resampled, keyed by query text; a nil map or missing entry leaves a node's
// Metrics.MonteCarloSelected/MonteCarloWeight at their zero values.
func (e *Expander) Expand(ctx context.Context, subqueries []string, depth int, enhancedQueryVec []float32, mcResults map[string]montecarlo.Result) ([]*Node, []model.FetchedPage, []model.CorpusEntry) {
	var nodes []*Node
	var allPages []model.FetchedPage
	var allEntries []model.CorpusEntry

	for _, raw := range subqueries {
		query := CleanQuery(raw)
		if query == "" {
			continue
		}

		node := NewNode(query, depth)
		if r, ok := mcResults[query]; ok {
			node.Metrics.MonteCarloSelected = r.Selected
			node.Metrics.MonteCarloWeight = r.Weight
		}

		relevance := 1.0
		if queryVec, err := e.Embedder.Embed(query); err == nil {
			relevance = dot(enhancedQueryVec, queryVec)
		}
		node.RelevanceScore = relevance
		node.AddSimilarityScore(relevance)

		if relevance < e.MinRelevance {
			e.logger().Debug("searchtree: gating out sub-query", "query", query, "relevance", relevance, "min_relevance", e.MinRelevance)
			continue
		}

		start := time.Now()
		node.Timestamps.WebSearchStart = start

		rawResults := e.Manager.Search(ctx, query, e.WebSearchLimit)
		reranked := rerank.Rerank(rawResults, query, rerank.Options{PerDomainCap: e.RerankOptions.PerDomainCap, TopN: e.WebSearchLimit})

		outDir := filepath.Join(e.OutDirBase, fsutil.SanitizeFilename("web_"+query))
		pages := e.Fetcher.DownloadMany(ctx, query, reranked, outDir)

		node.Timestamps.WebSearchEnd = time.Now()

		var branchText strings.Builder
		for i := range pages {
			text, err := extract.ParseAny(pages[i].FilePath, pages[i].URL)
			if err != nil {
				continue
			}
			pages[i].Text = text
			if err := fetch.WriteSidecar(pages[i].FilePath, &pages[i]); err != nil {
				e.logger().Warn("searchtree: could not rewrite sidecar", "file", pages[i].FilePath, "error", err)
			}

			vec, err := embed.EmbedLongText(text, e.Embedder)
			if err != nil {
				continue
			}
			entry := model.CorpusEntry{
				ID:     fmt.Sprintf("%s-%d", node.NodeID, i),
				Text:   text,
				Vector: vec,
				Metadata: model.CorpusMetadata{
					FilePath:      pages[i].FilePath,
					Type:          pageType(),
					Snippet:       truncateRunes(text, 280),
					URL:           pages[i].URL,
					SourceEngine:  pages[i].SourceEngine,
					ContentType:   pages[i].ContentType,
					Size:          pages[i].Size,
					DownloadedAt:  pages[i].DownloadedAt.Format(time.RFC3339),
				},
			}
			node.CorpusEntries = append(node.CorpusEntries, entry)
			node.Metrics.TotalContentLength += len(text)
			branchText.WriteString(truncateRunes(text, 2048))
			branchText.WriteString("\n")
		}
		node.WebResults = pages
		node.Metrics.WebResultsCount = len(pages)
		node.Metrics.CorpusEntriesCount = len(node.CorpusEntries)

		if e.LLM != nil && branchText.Len() > 0 {
			if summary, err := e.LLM.Generate(ctx, branchText.String(), "Summarize the following research notes concisely."); err == nil {
				node.Summary = summary
			}
		}
		node.Timestamps.SummaryGenerated = time.Now()

		if depth < e.MaxDepth {
			enhanced := query
			if e.LLM != nil {
				if out, err := e.LLM.Generate(ctx, query, "Expand this research question into a more specific follow-up question."); err == nil && out != "" {
					enhanced = out
				}
			}
			childQueries := SplitQuery(enhanced, 200)
			children, childPages, childEntries := e.Expand(ctx, childQueries, depth+1, enhancedQueryVec, nil)
			for _, c := range children {
				node.AddChild(c)
			}
			allPages = append(allPages, childPages...)
			allEntries = append(allEntries, childEntries...)
			node.Metrics.SubqueryExpansionCount = len(childQueries)
		}

		node.Timestamps.Completed = time.Now()
		node.Metrics.ProcessingTimeMS = time.Since(start).Milliseconds()

		nodes = append(nodes, node)
		allPages = append(allPages, pages...)
		allEntries = append(allEntries, node.CorpusEntries...)
	}

	return nodes, allPages, allEntries
}

// GroupByDomain groups fetched pages by URL host, for the final report's
// reference-links section.
func GroupByDomain(pages []model.FetchedPage) map[string][]DomainGroup {
	groups := make(map[string][]DomainGroup)
	for _, p := range pages {
		host := hostOf(p.URL)
		groups[host] = append(groups[host], DomainGroup{
			URL:          p.URL,
			FilePath:     p.FilePath,
			ContentType:  p.ContentType,
			Title:        p.Title,
			SourceEngine: p.SourceEngine,
		})
	}
	return groups
}

func (e *Expander) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// pageType is the sentinel applied to every fetched web entry's
// CorpusMetadata.Type, regardless of the page's actual content type.
func pageType() string {
	return "webhtml"
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
