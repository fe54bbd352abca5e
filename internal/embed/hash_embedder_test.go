// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package embed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedder(t *testing.T) {
	t.Run("is deterministic for identical input", func(t *testing.T) {
		e := NewHashEmbedder(64, 3)
		a, err := e.Embed("silicon valley bank collapse")
		require.NoError(t, err)
		b, err := e.Embed("silicon valley bank collapse")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("produces a unit-norm vector for non-empty text", func(t *testing.T) {
		e := NewHashEmbedder(64, 3)
		v, err := e.Embed("bank run")
		require.NoError(t, err)
		var sumSq float64
		for _, x := range v {
			sumSq += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sumSq), 1e-6)
	})

	t.Run("empty text yields the zero vector at the configured dimension", func(t *testing.T) {
		e := NewHashEmbedder(32, 3)
		v, err := e.Embed("")
		require.NoError(t, err)
		assert.Len(t, v, 32)
		for _, x := range v {
			assert.Zero(t, x)
		}
	})

	t.Run("Dimension reflects the configured size", func(t *testing.T) {
		e := NewHashEmbedder(128, 3)
		assert.Equal(t, 128, e.Dimension())
	})

	t.Run("non-positive dimension and ngram fall back to defaults", func(t *testing.T) {
		e := NewHashEmbedder(0, 0)
		assert.Equal(t, 256, e.Dimension())
	})

	t.Run("similar texts score higher cosine similarity than unrelated ones", func(t *testing.T) {
		e := NewHashEmbedder(256, 3)
		a, _ := e.Embed("silicon valley bank collapse")
		b, _ := e.Embed("silicon valley bank failure")
		c, _ := e.Embed("recipe for chocolate cake")

		simAB := dotProduct(a, b)
		simAC := dotProduct(a, c)
		assert.Greater(t, simAB, simAC)
	})
}

func dotProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
