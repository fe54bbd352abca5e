// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

// Package fsutil provides shared filename and path sanitization used when
// persisting fetched pages and reports to disk.
package fsutil

import (
	"os"
	"strings"
)

// SanitizeFilename replaces any character that is not alphanumeric, '.',
// '_', or '-' with '_'.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isAlnum(r) || r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// SanitizePath sanitizes each path component individually and rejoins them,
// avoiding characters invalid on Windows filesystems in any directory name.
func SanitizePath(path string) string {
	absolute := strings.HasPrefix(path, string(os.PathSeparator))
	parts := strings.Split(path, string(os.PathSeparator))
	sanitized := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		sanitized = append(sanitized, SanitizeFilename(part))
	}
	joined := strings.Join(sanitized, string(os.PathSeparator))
	if absolute {
		return string(os.PathSeparator) + joined
	}
	return joined
}

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
