// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package searchtree

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TreeStructure summarizes the shape of the tree.
type TreeStructure struct {
	TotalNodes        int     `json:"total_nodes"`
	MaxDepth          int     `json:"max_depth"`
	AvgDepth          float64 `json:"avg_depth"`
	NodesWithChildren int     `json:"nodes_with_children"`
	AvgBranchingFactor float64 `json:"avg_branching_factor"`
}

// RelevanceMetrics summarizes relevance scores across all nodes.
type RelevanceMetrics struct {
	AvgRelevance float64 `json:"avg_relevance"`
	MaxRelevance float64 `json:"max_relevance"`
	MinRelevance float64 `json:"min_relevance"`
	RelevanceStd float64 `json:"relevance_std"`
}

// MonteCarloMetrics summarizes Monte-Carlo selection across all nodes.
type MonteCarloMetrics struct {
	SelectedNodes       int     `json:"selected_nodes"`
	SelectionPercentage float64 `json:"selection_percentage"`
	TotalCandidates     int     `json:"total_candidates"`
}

// ContentMetrics summarizes gathered content volume.
type ContentMetrics struct {
	TotalWebResults        int     `json:"total_web_results"`
	TotalCorpusEntries     int     `json:"total_corpus_entries"`
	TotalContentLength     int     `json:"total_content_length"`
	AvgWebResultsPerNode   float64 `json:"avg_web_results_per_node"`
}

// TimingMetrics summarizes per-node processing time.
type TimingMetrics struct {
	TotalProcessingTimeMS int64   `json:"total_processing_time_ms"`
	AvgProcessingTimeMS   float64 `json:"avg_processing_time_ms"`
	MaxProcessingTimeMS   int64   `json:"max_processing_time_ms"`
	MinProcessingTimeMS   int64   `json:"min_processing_time_ms"`
}

// Analysis is the full analytics payload computed over a tree.
type Analysis struct {
	TreeStructure     TreeStructure     `json:"tree_structure"`
	RelevanceMetrics  RelevanceMetrics  `json:"relevance_metrics"`
	MonteCarloMetrics MonteCarloMetrics `json:"monte_carlo_metrics"`
	ContentMetrics    ContentMetrics    `json:"content_metrics"`
	TimingMetrics     TimingMetrics     `json:"timing_metrics"`
	GeneratedAt       string            `json:"generated_at"`
}

// Analyze walks roots and computes aggregate statistics over every node in
// the forest.
func Analyze(roots []*Node, generatedAt time.Time) Analysis {
	var all []*Node
	for _, r := range roots {
		collect(r, &all)
	}

	var a Analysis
	a.GeneratedAt = generatedAt.UTC().Format(time.RFC3339)
	if len(all) == 0 {
		return a
	}

	var depths []int
	var relevances []float64
	var procTimes []int64
	monteCarloSelected := 0
	nodesWithChildren := 0
	totalChildren := 0

	for _, n := range all {
		depths = append(depths, n.Depth)
		relevances = append(relevances, n.RelevanceScore)
		procTimes = append(procTimes, n.Metrics.ProcessingTimeMS)
		if n.Metrics.MonteCarloSelected {
			monteCarloSelected++
		}
		if len(n.Children) > 0 {
			nodesWithChildren++
			totalChildren += len(n.Children)
		}
		a.ContentMetrics.TotalWebResults += len(n.WebResults)
		a.ContentMetrics.TotalCorpusEntries += len(n.CorpusEntries)
		a.ContentMetrics.TotalContentLength += n.Metrics.TotalContentLength
	}

	a.TreeStructure = TreeStructure{
		TotalNodes:         len(all),
		MaxDepth:           maxInt(depths),
		AvgDepth:           avgInt(depths),
		NodesWithChildren:  nodesWithChildren,
		AvgBranchingFactor: divIntSafe(totalChildren, nodesWithChildren),
	}
	a.RelevanceMetrics = RelevanceMetrics{
		AvgRelevance: avgFloat(relevances),
		MaxRelevance: maxFloat(relevances),
		MinRelevance: minFloat(relevances),
		RelevanceStd: stddev(relevances),
	}
	a.MonteCarloMetrics = MonteCarloMetrics{
		SelectedNodes:       monteCarloSelected,
		SelectionPercentage: 100 * divIntSafe(monteCarloSelected, len(all)),
		TotalCandidates:     len(all),
	}
	a.ContentMetrics.AvgWebResultsPerNode = divIntSafe(a.ContentMetrics.TotalWebResults, len(all))

	var totalProc int64
	for _, p := range procTimes {
		totalProc += p
	}
	a.TimingMetrics = TimingMetrics{
		TotalProcessingTimeMS: totalProc,
		AvgProcessingTimeMS:   float64(totalProc) / float64(len(procTimes)),
		MaxProcessingTimeMS:   maxInt64(procTimes),
		MinProcessingTimeMS:   minInt64(procTimes),
	}
	return a
}

func collect(n *Node, out *[]*Node) {
	if n == nil {
		return
	}
	*out = append(*out, n)
	for _, c := range n.Children {
		collect(c, out)
	}
}

// BuildTOCString renders roots as a recursive indented outline, useful for
// embedding a table-of-contents section directly into the final LLM prompt.
func BuildTOCString(roots []*Node) string {
	var b strings.Builder
	for _, r := range roots {
		writeNode(&b, r, 0)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, indent int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(fmt.Sprintf("- %s (relevance=%.2f)\n", n.QueryText, n.RelevanceScore))
	for _, c := range n.Children {
		writeNode(b, c, indent+1)
	}
}

func maxInt(xs []int) int {
	m := xs[0]
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

func avgInt(xs []int) float64 {
	var sum int
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

func maxFloat(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

func minFloat(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs {
		if x < m {
			m = x
		}
	}
	return m
}

func avgFloat(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	mean := avgFloat(xs)
	var sumSq float64
	for _, x := range xs {
		sumSq += (x - mean) * (x - mean)
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

func divIntSafe(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func maxInt64(xs []int64) int64 {
	m := xs[0]
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

func minInt64(xs []int64) int64 {
	m := xs[0]
	for _, x := range xs {
		if x < m {
			m = x
		}
	}
	return m
}
