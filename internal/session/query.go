// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

// Package session orchestrates one user query end to end: enhance, split,
// optionally Monte-Carlo resample, recursively expand, retrieve locally,
// summarize, synthesize a final answer, and persist the result.
package session

import "github.com/arborsearch/recall/internal/searchtree"

// CleanQuery re-exports searchtree.CleanQuery; query cleaning is shared
// between the top-level query and every recursively-generated sub-query.
func CleanQuery(q string) string { return searchtree.CleanQuery(q) }

// SplitQuery re-exports searchtree.SplitQuery.
func SplitQuery(q string, maxLen int) []string { return searchtree.SplitQuery(q, maxLen) }
