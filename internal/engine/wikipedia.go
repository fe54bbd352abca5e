// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/arborsearch/recall/internal/httpclient"
	"github.com/arborsearch/recall/internal/model"
)

// Wikipedia queries the MediaWiki search API. Optional, enabled by config.
type Wikipedia struct {
	client *httpclient.Client
}

// NewWikipedia builds a Wikipedia adapter over client.
func NewWikipedia(client *httpclient.Client) *Wikipedia {
	return &Wikipedia{client: client}
}

func (w *Wikipedia) Name() string { return "wikipedia" }

type mediaWikiResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			PageID  int    `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
}

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func (w *Wikipedia) Search(ctx context.Context, keyword string, maxResults int) ([]model.SearchResult, error) {
	reqURL := "https://en.wikipedia.org/w/api.php?" + url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {keyword},
		"format":   {"json"},
		"srlimit":  {strconv.Itoa(maxSrLimit(maxResults))},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed mediaWikiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(parsed.Query.Search))
	for _, hit := range parsed.Query.Search {
		pageURL := "https://en.wikipedia.org/wiki/" + url.PathEscape(hit.Title)
		results = append(results, model.SearchResult{
			Title: hit.Title,
			URL:   pageURL,
			Body:  htmlTagPattern.ReplaceAllString(hit.Snippet, ""),
		})
	}
	return results, nil
}

func maxSrLimit(n int) int {
	if n <= 0 {
		return 10
	}
	return n
}
