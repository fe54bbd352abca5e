// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDisallowForAllAgents(t *testing.T) {
	t.Run("collects disallow rules under the wildcard block", func(t *testing.T) {
		body := `
User-agent: *
Disallow: /private/
Disallow: /admin/

User-agent: SomeBot
Disallow: /everything/
`
		rules := parseDisallowForAllAgents(strings.NewReader(body))
		assert.Equal(t, []string{"/private/", "/admin/"}, rules)
	})

	t.Run("ignores comments and blank lines", func(t *testing.T) {
		body := "# comment\nUser-agent: *\n\nDisallow: /x/\n"
		rules := parseDisallowForAllAgents(strings.NewReader(body))
		assert.Equal(t, []string{"/x/"}, rules)
	})

	t.Run("empty body yields no rules", func(t *testing.T) {
		rules := parseDisallowForAllAgents(strings.NewReader(""))
		assert.Empty(t, rules)
	})
}
