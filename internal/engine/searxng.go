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
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/arborsearch/recall/internal/httpclient"
	"github.com/arborsearch/recall/internal/model"
	"golang.org/x/sync/errgroup"
)

// recallVariants are the recall-widening query rewrites fanned out against
// the chosen SearxNG endpoint, alongside the original keyword.
var recallVariants = []func(string) string{
	func(q string) string { return q },
	func(q string) string { return fmt.Sprintf("%q", q) },
	func(q string) string { return q + " filetype:pdf" },
	func(q string) string { return q + " site:gov" },
	func(q string) string { return q + " site:edu" },
}

// recencyWindows are the time-range filters fanned out per variant.
var recencyWindows = []string{"day", "week", "month"}

// goodEndpoint caches the process's one known-healthy SearxNG endpoint.
var (
	goodEndpointMu sync.Mutex
	goodEndpoint   string
)

// SearxNG fans a query out across recall variants and recency windows
// against a single probed-healthy public instance.
type SearxNG struct {
	client    *httpclient.Client
	endpoints []string
}

// NewSearxNG builds a SearxNG adapter with a pool of candidate endpoints.
func NewSearxNG(client *httpclient.Client, endpoints []string) *SearxNG {
	return &SearxNG{client: client, endpoints: endpoints}
}

func (s *SearxNG) Name() string { return "searxng" }

func (s *SearxNG) Search(ctx context.Context, keyword string, maxResults int) ([]model.SearchResult, error) {
	endpoint, err := s.pickEndpoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("searxng: no healthy endpoint: %w", err)
	}

	type fanoutResult struct {
		results []model.SearchResult
	}

	g, gctx := errgroup.WithContext(ctx)
	outputs := make([][]model.SearchResult, len(recallVariants)*len(recencyWindows))

	idx := 0
	for _, variant := range recallVariants {
		for _, window := range recencyWindows {
			i := idx
			q := variant(keyword)
			w := window
			idx++
			g.Go(func() error {
				results, err := s.query(gctx, endpoint, q, w)
				if err != nil {
					return nil // a single fanout leg failing does not fail the adapter
				}
				outputs[i] = results
				return nil
			})
		}
	}
	_ = g.Wait()

	var aggregate []model.SearchResult
	for _, out := range outputs {
		aggregate = append(aggregate, out...)
		if len(aggregate) >= maxResults*2 {
			break
		}
	}
	return aggregate, nil
}

func (s *SearxNG) pickEndpoint(ctx context.Context) (string, error) {
	goodEndpointMu.Lock()
	cached := goodEndpoint
	goodEndpointMu.Unlock()
	if cached != "" {
		return cached, nil
	}

	shuffled := append([]string(nil), s.endpoints...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	for _, ep := range shuffled {
		probeURL := ep + "/search?" + url.Values{"q": {"test"}, "format": {"json"}, "categories": {"general"}}.Encode()
		probeCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
		req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, probeURL, nil)
		if err != nil {
			cancel()
			continue
		}
		resp, err := s.client.Do(req)
		cancel()
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			goodEndpointMu.Lock()
			goodEndpoint = ep
			goodEndpointMu.Unlock()
			return ep, nil
		}
	}
	return "", fmt.Errorf("no candidate endpoint responded 200 OK")
}

type searxngResponse struct {
	Results []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Content     string `json:"content"`
		PublishedAt string `json:"publishedDate"`
	} `json:"results"`
}

func (s *SearxNG) query(ctx context.Context, endpoint, q, window string) ([]model.SearchResult, error) {
	reqURL := endpoint + "/search?" + url.Values{
		"q":          {q},
		"format":     {"json"},
		"categories": {"general"},
		"time_range": {window},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed searxngResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, model.SearchResult{Title: r.Title, URL: r.URL, Body: r.Content})
	}
	return results, nil
}
