// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package fsutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "report.md", SanitizeFilename("report.md"))
	assert.Equal(t, "what_happened_to_svb_", SanitizeFilename("what happened to svb?"))
	assert.Equal(t, "a-b_c.txt", SanitizeFilename("a-b_c.txt"))
}

func TestSanitizePath(t *testing.T) {
	t.Run("preserves leading separator", func(t *testing.T) {
		assert.Equal(t, "/results/query_id", SanitizePath("/results/query id"))
	})

	t.Run("sanitizes relative paths without adding a leading separator", func(t *testing.T) {
		assert.Equal(t, "results/query_id", SanitizePath("results/query id"))
	})
}
