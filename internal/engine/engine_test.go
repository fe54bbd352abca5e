// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arborsearch/recall/internal/model"
)

type fakeEngine struct {
	name    string
	results []model.SearchResult
	err     error
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Search(ctx context.Context, keyword string, maxResults int) ([]model.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func TestManager_Search(t *testing.T) {
	t.Run("tags results with the source engine", func(t *testing.T) {
		e := &fakeEngine{name: "fake", results: []model.SearchResult{{Title: "a", URL: "https://a.com"}}}
		m := NewManager(nil, e)
		out := m.Search(context.Background(), "q", 5)
		assert.Len(t, out, 1)
		assert.Equal(t, "fake", out[0].Source)
	})

	t.Run("a failing engine is skipped, not fatal", func(t *testing.T) {
		bad := &fakeEngine{name: "bad", err: errors.New("boom")}
		good := &fakeEngine{name: "good", results: []model.SearchResult{{Title: "a", URL: "https://a.com"}}}
		m := NewManager(nil, bad, good)
		out := m.Search(context.Background(), "q", 5)
		assert.Len(t, out, 1)
		assert.Equal(t, "good", out[0].Source)
	})

	t.Run("stops early once aggregate reaches 2x maxResults", func(t *testing.T) {
		many := make([]model.SearchResult, 10)
		for i := range many {
			many[i] = model.SearchResult{Title: "x", URL: "https://x.com"}
		}
		first := &fakeEngine{name: "first", results: many}
		second := &fakeEngine{name: "second", results: []model.SearchResult{{Title: "y", URL: "https://y.com"}}}
		m := NewManager(nil, first, second)

		out := m.Search(context.Background(), "q", 5)
		assert.Len(t, out, 10)
		for _, r := range out {
			assert.Equal(t, "first", r.Source)
		}
	})
}
