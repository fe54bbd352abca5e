// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

// Package report builds the final synthesis prompt and persists the TOC
// analysis and aggregated markdown report to disk.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/arborsearch/recall/internal/fsutil"
	"github.com/arborsearch/recall/internal/searchtree"
)

type tocExport struct {
	TOCTree  []any          `json:"toc_tree"`
	Metadata tocMetadata    `json:"metadata"`
	Analytics searchtree.Analysis `json:"analytics"`
}

type tocMetadata struct {
	TotalNodes int    `json:"total_nodes"`
	ExportedAt string `json:"exported_at"`
	Version    int    `json:"version"`
}

// SaveTOCToJSON writes roots and their computed analytics to
// <dir>/toc_analysis.json.
func SaveTOCToJSON(roots []*searchtree.Node, dir string) (string, error) {
	if err := os.MkdirAll(fsutil.SanitizePath(dir), 0o755); err != nil {
		return "", err
	}

	tree := make([]any, 0, len(roots))
	totalNodes := 0
	for _, r := range roots {
		tree = append(tree, r.ToJSON())
		totalNodes += countNodes(r)
	}

	now := time.Now().UTC()
	export := tocExport{
		TOCTree: tree,
		Metadata: tocMetadata{
			TotalNodes: totalNodes,
			ExportedAt: now.Format(time.RFC3339),
			Version:    1,
		},
		Analytics: searchtree.Analyze(roots, now),
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(fsutil.SanitizePath(dir), "toc_analysis.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func countNodes(n *searchtree.Node) int {
	count := 1
	for _, c := range n.Children {
		count += countNodes(c)
	}
	return count
}
