// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package extract

import (
	"os"
	"strings"
)

// ParseAny routes a downloaded or local-corpus file to the extractor
// matching its extension, returning plain text. Unsupported extensions
// return an empty string rather than an error.
func ParseAny(path string, sourceURL string) (string, error) {
	switch strings.ToLower(extOf(path)) {
	case ".pdf":
		return PDF(path)
	case ".html", ".htm":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return HTML(content, sourceURL), nil
	case ".docx":
		return DOCX(path)
	case ".xlsx", ".xls":
		return XLSX(path)
	case ".txt":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(content), nil
	default:
		return "", nil
	}
}

func extOf(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ""
	}
	return path[idx:]
}
