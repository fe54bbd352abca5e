// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package montecarlo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample_WithReplacement(t *testing.T) {
	t.Run("draws exactly k results even with few candidates", func(t *testing.T) {
		sampler := New(rand.New(rand.NewSource(42)))
		candidates := []Candidate{
			{Query: "a", Weight: 1},
			{Query: "b", Weight: 1},
		}
		results := sampler.Sample(candidates, 5)
		require.Len(t, results, 5)
		for _, r := range results {
			assert.True(t, r.Selected)
			assert.Contains(t, []string{"a", "b"}, r.Query)
		}
	})

	t.Run("zero-weight candidates are never selected", func(t *testing.T) {
		sampler := New(rand.New(rand.NewSource(7)))
		candidates := []Candidate{
			{Query: "heavy", Weight: 10},
			{Query: "light", Weight: 0},
		}
		results := sampler.Sample(candidates, 50)
		for _, r := range results {
			assert.Equal(t, "heavy", r.Query)
		}
	})

	t.Run("all-zero weights returns candidates unselected", func(t *testing.T) {
		sampler := New(rand.New(rand.NewSource(1)))
		candidates := []Candidate{{Query: "a", Weight: 0}, {Query: "b", Weight: 0}}
		results := sampler.Sample(candidates, 3)
		require.Len(t, results, 2)
		for _, r := range results {
			assert.False(t, r.Selected)
		}
	})

	t.Run("k<=0 defaults to 3", func(t *testing.T) {
		sampler := New(rand.New(rand.NewSource(3)))
		results := sampler.Sample([]Candidate{{Query: "a", Weight: 1}}, 0)
		assert.Len(t, results, 3)
	})
}

func TestRelevanceWeight(t *testing.T) {
	t.Run("identical vectors score highest", func(t *testing.T) {
		v := []float32{0.6, 0.8}
		assert.InDelta(t, 1.0, RelevanceWeight(v, v), 1e-6)
	})

	t.Run("orthogonal vectors score zero", func(t *testing.T) {
		a := []float32{1, 0}
		b := []float32{0, 1}
		assert.InDelta(t, 0, RelevanceWeight(a, b), 1e-6)
	})

	t.Run("mismatched lengths truncate to the shorter vector", func(t *testing.T) {
		a := []float32{1, 1, 1}
		b := []float32{1, 1}
		assert.InDelta(t, 2.0, RelevanceWeight(a, b), 1e-6)
	})
}
