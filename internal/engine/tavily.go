// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/arborsearch/recall/internal/httpclient"
	"github.com/arborsearch/recall/internal/model"
)

// Tavily calls the Tavily search API, keyed by an environment-sourced
// token. Used first among configured engines, per the priority chain.
type Tavily struct {
	client *httpclient.Client
	apiKey string
}

// NewTavily builds a Tavily adapter. apiKey is required; construction is the
// caller's decision to make — Tavily is omitted from the manager's engine
// list entirely when no key is configured.
func NewTavily(client *httpclient.Client, apiKey string) *Tavily {
	return &Tavily{client: client, apiKey: apiKey}
}

func (t *Tavily) Name() string { return "tavily" }

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (t *Tavily) Search(ctx context.Context, keyword string, maxResults int) ([]model.SearchResult, error) {
	if t.apiKey == "" {
		return nil, fmt.Errorf("tavily: no api key configured")
	}

	body, err := json.Marshal(tavilyRequest{APIKey: t.apiKey, Query: keyword, MaxResults: maxSrLimit(maxResults)})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.tavily.com/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(parsed.Results))
	for _, hit := range parsed.Results {
		results = append(results, model.SearchResult{Title: hit.Title, URL: hit.URL, Body: hit.Content})
	}
	return results, nil
}
