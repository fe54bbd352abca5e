// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/arborsearch/recall/internal/httpclient"
	"github.com/arborsearch/recall/internal/model"
)

// Brave queries the Brave Search API using a subscription token header.
// Optional; only constructed when a token is configured.
type Brave struct {
	client *httpclient.Client
	token  string
}

// NewBrave builds a Brave adapter. token is sent as X-Subscription-Token.
func NewBrave(client *httpclient.Client, token string) *Brave {
	return &Brave{client: client, token: token}
}

func (b *Brave) Name() string { return "brave" }

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Age         string `json:"age"`
		} `json:"results"`
	} `json:"web"`
}

func (b *Brave) Search(ctx context.Context, keyword string, maxResults int) ([]model.SearchResult, error) {
	if b.token == "" {
		return nil, fmt.Errorf("brave: no subscription token configured")
	}

	reqURL := "https://api.search.brave.com/res/v1/web/search?" + url.Values{
		"q":     {keyword},
		"count": {strconv.Itoa(maxSrLimit(maxResults))},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Subscription-Token", b.token)
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(parsed.Web.Results))
	for _, hit := range parsed.Web.Results {
		results = append(results, model.SearchResult{Title: hit.Title, URL: hit.URL, Body: hit.Description})
	}
	return results, nil
}
