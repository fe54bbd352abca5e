// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

// Package engine implements the search back-end adapters and the manager
// that aggregates their results with a fallback/priority chain.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/arborsearch/recall/internal/metrics"
	"github.com/arborsearch/recall/internal/model"
)

// Engine is a single search back-end.
type Engine interface {
	// Name identifies the engine; SearchResult.Source is set to this value.
	Name() string
	// Search returns up to maxResults hits for keyword. A failed engine
	// returns a nil slice and an error; the Manager treats any error as an
	// empty result set rather than aborting.
	Search(ctx context.Context, keyword string, maxResults int) ([]model.SearchResult, error)
}

// Manager iterates an ordered list of engines, concatenating their results
// and terminating early once enough have accumulated.
type Manager struct {
	engines []Engine
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewManager builds a Manager over the given engines, tried in order.
func NewManager(logger *slog.Logger, engines ...Engine) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{engines: engines, logger: logger}
}

// WithMetrics attaches a metrics recorder, returning the Manager for chaining.
func (m *Manager) WithMetrics(mt *metrics.Metrics) *Manager {
	m.metrics = mt
	return m
}

// Search queries every configured engine in order, concatenating hits and
// tagging each with its source engine. A running aggregate of at least
// 2*maxResults ends the scan early; remaining engines are skipped. No engine
// failure aborts the call.
func (m *Manager) Search(ctx context.Context, keyword string, maxResults int) []model.SearchResult {
	var aggregate []model.SearchResult
	earlyStop := 2 * maxResults

	for _, eng := range m.engines {
		if earlyStop > 0 && len(aggregate) >= earlyStop {
			m.logger.Debug("engine manager: early termination", "keyword", keyword, "aggregate", len(aggregate))
			break
		}

		start := time.Now()
		results, err := eng.Search(ctx, keyword, maxResults)
		m.metrics.RecordEngineSearch(eng.Name(), time.Since(start), err)
		if err != nil {
			m.logger.Warn("engine search failed", "engine", eng.Name(), "keyword", keyword, "error", err)
			continue
		}
		for i := range results {
			results[i].Source = eng.Name()
		}
		aggregate = append(aggregate, results...)
	}
	return aggregate
}
