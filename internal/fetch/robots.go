// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package fetch

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/arborsearch/recall/internal/httpclient"
)

// robotsCache fetches and memoizes each origin's robots.txt at most once
// per process. The standard library has no robots.txt parser, and none of
// the retrieved example repos import one either — this is a deliberate
// minimal hand-rolled implementation (disallow-prefix matching only, no
// wildcard/crawl-delay support), the same scope as Python's stdlib
// urllib.robotparser used by the original prototype.
type robotsCache struct {
	client *httpclient.Client
	mu     *sync.Mutex
	rules  map[string][]string // origin -> list of Disallow prefixes for "*"
}

// processRobotsRules is the origin -> Disallow-prefix map shared by every
// robotsCache, so the cache outlives any single Fetcher.
var (
	processRobotsMu    sync.Mutex
	processRobotsRules = make(map[string][]string)
)

func newRobotsCache(client *httpclient.Client) *robotsCache {
	return &robotsCache{client: client, mu: &processRobotsMu, rules: processRobotsRules}
}

// Allowed reports whether rawURL may be fetched under the origin's
// robots.txt for user-agent "*". Unfetchable or missing robots files are
// treated as permissive.
func (c *robotsCache) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	origin := u.Scheme + "://" + u.Host

	c.mu.Lock()
	disallow, known := c.rules[origin]
	c.mu.Unlock()
	if !known {
		disallow = c.fetchRules(ctx, origin)
		c.mu.Lock()
		c.rules[origin] = disallow
		c.mu.Unlock()
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	for _, prefix := range disallow {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

func (c *robotsCache) fetchRules(ctx context.Context, origin string) []string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	return parseDisallowForAllAgents(resp.Body)
}
