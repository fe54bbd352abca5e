// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/arborsearch/recall/internal/httpclient"
	"github.com/arborsearch/recall/internal/model"
)

// DuckDuckGo scrapes the HTML-only result endpoint (no API key required).
// Considered rate-limit-prone; callers should expect occasional failures.
type DuckDuckGo struct {
	client *httpclient.Client
}

// NewDuckDuckGo builds a DuckDuckGo adapter over client.
func NewDuckDuckGo(client *httpclient.Client) *DuckDuckGo {
	return &DuckDuckGo{client: client}
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search makes up to three attempts, sleeping 2^attempt seconds between
// them, and returns on the first attempt that yields a non-empty result set.
func (d *DuckDuckGo) Search(ctx context.Context, keyword string, maxResults int) ([]model.SearchResult, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(1<<attempt) * time.Second):
			}
		}

		results, err := d.searchOnce(ctx, keyword, maxResults)
		if err != nil {
			lastErr = err
			continue
		}
		if len(results) > 0 {
			return results, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("duckduckgo: %w", lastErr)
	}
	return nil, nil
}

func (d *DuckDuckGo) searchOnce(ctx context.Context, keyword string, maxResults int) ([]model.SearchResult, error) {
	reqURL := "https://html.duckduckgo.com/html/?" + url.Values{"q": {keyword}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var results []model.SearchResult
	doc.Find(".result").Each(func(_ int, s *goquery.Selection) {
		if len(results) >= maxResults {
			return
		}
		link := s.Find(".result__a").First()
		href, _ := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		body := strings.TrimSpace(s.Find(".result__snippet").First().Text())
		if href == "" || title == "" {
			return
		}
		results = append(results, model.SearchResult{Title: title, URL: href, Body: body})
	})
	return results, nil
}
