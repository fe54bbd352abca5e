// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package searchtree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	t.Run("empty forest yields a zero-valued analysis", func(t *testing.T) {
		a := Analyze(nil, time.Now())
		assert.Equal(t, 0, a.TreeStructure.TotalNodes)
		assert.NotEmpty(t, a.GeneratedAt)
	})

	t.Run("aggregates across a two-level tree", func(t *testing.T) {
		root := NewNode("root query", 1)
		root.RelevanceScore = 0.8
		root.Metrics.MonteCarloSelected = true

		child := NewNode("child query", 2)
		child.RelevanceScore = 0.4
		root.AddChild(child)

		a := Analyze([]*Node{root}, time.Now())

		assert.Equal(t, 2, a.TreeStructure.TotalNodes)
		assert.Equal(t, 2, a.TreeStructure.MaxDepth)
		assert.Equal(t, 1, a.TreeStructure.NodesWithChildren)
		assert.InDelta(t, 0.6, a.RelevanceMetrics.AvgRelevance, 1e-9)
		assert.Equal(t, 1, a.MonteCarloMetrics.SelectedNodes)
		assert.InDelta(t, 50.0, a.MonteCarloMetrics.SelectionPercentage, 1e-9)
	})
}

func TestBuildTOCString(t *testing.T) {
	root := NewNode("root query", 1)
	root.RelevanceScore = 0.75
	child := NewNode("child query", 2)
	child.RelevanceScore = 0.5
	root.AddChild(child)

	toc := BuildTOCString([]*Node{root})
	assert.Contains(t, toc, "root query (relevance=0.75)")
	assert.Contains(t, toc, "  - child query (relevance=0.50)")
}
