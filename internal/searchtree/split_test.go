// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package searchtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitQuery(t *testing.T) {
	t.Run("joins sentences that fit within maxLen into one chunk", func(t *testing.T) {
		chunks := SplitQuery("What caused the bank run. Why did regulators act slowly.", 200)
		assert.Equal(t, []string{"What caused the bank run. Why did regulators act slowly"}, chunks)
	})

	t.Run("flushes when accumulated length would exceed maxLen", func(t *testing.T) {
		chunks := SplitQuery("first sentence here. second sentence here. third sentence here", 30)
		assert.Len(t, chunks, 3)
	})

	t.Run("drops fragments with no alphanumeric content", func(t *testing.T) {
		chunks := SplitQuery("real question. . ...", 200)
		assert.Equal(t, []string{"real question"}, chunks)
	})

	t.Run("empty input yields no chunks", func(t *testing.T) {
		assert.Empty(t, SplitQuery("", 200))
	})
}

func TestCleanQuery(t *testing.T) {
	assert.Equal(t, "what happened", CleanQuery("  *what*  happened_  "))
	assert.Equal(t, "a b", CleanQuery("a   b"))
}
