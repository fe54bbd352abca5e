// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

// Package rerank dedupes, scores, and diversity-caps a raw aggregate of
// search results before they are handed to the fetcher.
package rerank

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/arborsearch/recall/internal/model"
)

var goodDomainSuffixes = []string{".gov", ".edu", "arxiv.org", "acm.org", "ieee.org", "who.int", "un.org"}

var badHints = []string{"pinterest.", "quora.", "/tag/", "/category/"}

// Options configures the diversity pass.
type Options struct {
	PerDomainCap int
	TopN         int
}

// Rerank dedupes raw by URL (keeping first occurrence), scores each result,
// sorts descending by score, and admits at most opts.PerDomainCap results
// per domain, truncating to opts.TopN.
func Rerank(raw []model.SearchResult, keyword string, opts Options) []model.SearchResult {
	deduped := dedupeByURL(raw)

	for i := range deduped {
		deduped[i].Score = score(deduped[i], keyword)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Score > deduped[j].Score
	})

	cap := opts.PerDomainCap
	if cap <= 0 {
		cap = 3
	}

	counts := make(map[string]int)
	result := make([]model.SearchResult, 0, len(deduped))
	for _, r := range deduped {
		domain := hostOf(r.URL)
		if counts[domain] >= cap {
			continue
		}
		counts[domain]++
		result = append(result, r)
		if opts.TopN > 0 && len(result) >= opts.TopN {
			break
		}
	}
	return result
}

func dedupeByURL(raw []model.SearchResult) []model.SearchResult {
	seen := make(map[string]bool, len(raw))
	out := make([]model.SearchResult, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" || seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		out = append(out, r)
	}
	return out
}

func score(r model.SearchResult, keyword string) float64 {
	var s float64
	kw := strings.ToLower(keyword)

	if strings.Contains(strings.ToLower(r.Title), kw) {
		s += 2
	}
	if strings.Contains(strings.ToLower(r.Body), kw) {
		s += 1
	}
	domain := hostOf(r.URL)
	for _, suffix := range goodDomainSuffixes {
		if strings.HasSuffix(domain, suffix) {
			s += 2
			break
		}
	}
	s += recencyScore(r)
	for _, hint := range badHints {
		if strings.Contains(strings.ToLower(r.URL), hint) {
			s -= 2
			break
		}
	}
	return s
}

// recencyScore takes the date from Published, falling back to parsing the
// body then the title, and scores how recent it is. The fallbacks parse the
// whole string with dateparse.ParseAny, so they only succeed when the body
// or title is itself a date; a date embedded in surrounding text is not
// found.
func recencyScore(r model.SearchResult) float64 {
	published := r.Published
	if published == nil {
		if t, ok := parseFuzzyDate(r.Body); ok {
			published = &t
		}
	}
	if published == nil {
		if t, ok := parseFuzzyDate(r.Title); ok {
			published = &t
		}
	}
	if published == nil {
		return 0
	}

	age := time.Since(*published)
	switch {
	case age <= 30*24*time.Hour:
		return 2
	case age <= 180*24*time.Hour:
		return 1
	default:
		return 0
	}
}

func parseFuzzyDate(s string) (time.Time, bool) {
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
