// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arborsearch/recall/internal/fsutil"
)

// SaveMarkdown writes the final synthesized answer, plus the prompt that
// produced it, as a markdown report under dir.
func SaveMarkdown(dir, query, answer, prompt string) (string, error) {
	if err := os.MkdirAll(fsutil.SanitizePath(dir), 0o755); err != nil {
		return "", err
	}

	content := fmt.Sprintf("# Research Report: %s\n\n%s\n\n---\n\n<details>\n<summary>Synthesis prompt</summary>\n\n```\n%s\n```\n</details>\n", query, answer, prompt)

	path := filepath.Join(fsutil.SanitizePath(dir), "report.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
