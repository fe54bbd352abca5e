// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

// Package montecarlo implements weighted sub-query sampling with
// replacement, using relevance scores against the enhanced query as
// weights.
package montecarlo

import (
	"math/rand"
)

// Sampler draws a weighted-with-replacement sample of candidate sub-queries
// using an injectable RNG so selection is reproducible in tests.
type Sampler struct {
	rng *rand.Rand
}

// New builds a Sampler. Pass rand.New(rand.NewSource(seed)) for
// deterministic tests, or rand.New(rand.NewSource(time.Now().UnixNano()))
// in production.
func New(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Sampler{rng: rng}
}

// Candidate is a sub-query paired with its relevance weight.
type Candidate struct {
	Query  string
	Weight float64
}

// Result is a sampled sub-query annotated with the weight it was drawn
// with, so the caller's TOCNode can record monte_carlo_selected/weight.
type Result struct {
	Query    string
	Weight   float64
	Selected bool
}

// Sample draws up to k candidates with replacement, weighted by Weight. If
// no candidate has a positive weight, every candidate is returned
// unmodified (Selected=false, Weight=0), matching the fallback behavior of
// the scheme this sampler implements.
func (s *Sampler) Sample(candidates []Candidate, k int) []Result {
	var totalWeight float64
	for _, c := range candidates {
		if c.Weight > 0 {
			totalWeight += c.Weight
		}
	}
	if totalWeight <= 0 {
		out := make([]Result, len(candidates))
		for i, c := range candidates {
			out[i] = Result{Query: c.Query}
		}
		return out
	}

	if k <= 0 {
		k = 3
	}

	out := make([]Result, 0, k)
	for i := 0; i < k; i++ {
		idx := s.weightedIndex(candidates, totalWeight)
		out = append(out, Result{Query: candidates[idx].Query, Weight: candidates[idx].Weight, Selected: true})
	}
	return out
}

func (s *Sampler) weightedIndex(candidates []Candidate, totalWeight float64) int {
	target := s.rng.Float64() * totalWeight
	var cumulative float64
	for i, c := range candidates {
		if c.Weight <= 0 {
			continue
		}
		cumulative += c.Weight
		if target <= cumulative {
			return i
		}
	}
	return len(candidates) - 1
}

// RelevanceWeight scores a candidate sub-query's embedding against the
// enhanced query's embedding using a dot product over L2-normalized
// vectors, matching the knowledge base's cosine-similarity convention.
func RelevanceWeight(queryVec, candidateVec []float32) float64 {
	var dot float64
	n := len(queryVec)
	if len(candidateVec) < n {
		n = len(candidateVec)
	}
	for i := 0; i < n; i++ {
		dot += float64(queryVec[i]) * float64(candidateVec[i])
	}
	return dot
}
