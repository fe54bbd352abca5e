// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package embed

import (
	"math"
	"strings"
)

// HashEmbedder is a deterministic, offline text embedder: it hashes
// character n-grams into a fixed-size bucket vector and L2-normalizes the
// result. It requires no network access or model weights, making it usable
// in tests and as a zero-configuration default.
type HashEmbedder struct {
	dimension int
	ngram     int
}

// NewHashEmbedder builds a HashEmbedder producing vectors of the given
// dimension using character n-grams of size ngram (3 is a reasonable
// default).
func NewHashEmbedder(dimension, ngram int) *HashEmbedder {
	if dimension <= 0 {
		dimension = 256
	}
	if ngram <= 0 {
		ngram = 3
	}
	return &HashEmbedder{dimension: dimension, ngram: ngram}
}

func (e *HashEmbedder) Dimension() int { return e.dimension }

// Embed hashes each n-gram of the lowercased text into a bucket, accumulates
// counts, and L2-normalizes the resulting vector so cosine similarity
// reduces to a dot product, per the knowledge base's invariant.
func (e *HashEmbedder) Embed(text string) ([]float32, error) {
	vec := make([]float32, e.dimension)
	runes := []rune(strings.ToLower(strings.TrimSpace(text)))

	if len(runes) == 0 {
		return vec, nil
	}

	n := e.ngram
	if len(runes) < n {
		n = len(runes)
	}
	for i := 0; i+n <= len(runes); i++ {
		gram := string(runes[i : i+n])
		bucket := fnv32(gram) % uint32(e.dimension)
		vec[bucket]++
	}

	return l2Normalize(vec), nil
}

func fnv32(s string) uint32 {
	const prime = 16777619
	hash := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= prime
	}
	return hash
}

func l2Normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return v
	}
	norm := float32(math.Sqrt(sumSq))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
