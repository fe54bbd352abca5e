// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads YAML, expands env vars, applies defaults", func(t *testing.T) {
		t.Setenv("RECALL_LLM_KEY", "sk-test-123")

		dir := t.TempDir()
		path := filepath.Join(dir, "recall.yaml")
		content := `
llm:
  base_url: https://api.openai.com/v1
  model: gpt-4o
  api_key: ${RECALL_LLM_KEY}
session:
  max_depth: 2
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "sk-test-123", cfg.LLM.APIKey)
		assert.Equal(t, 2, cfg.Session.MaxDepth)
		assert.Equal(t, 5, cfg.Fetch.Concurrency) // default still applied
	})

	t.Run("missing file returns an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid config fails validation", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "recall.yaml")
		content := "embedding:\n  provider: bogus\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestExpandEnvString(t *testing.T) {
	t.Setenv("RECALL_FOO", "bar")

	assert.Equal(t, "bar", expandEnvString("${RECALL_FOO}"))
	assert.Equal(t, "bar", expandEnvString("$RECALL_FOO"))
	assert.Equal(t, "fallback", expandEnvString("${RECALL_MISSING:-fallback}"))
	assert.Equal(t, "prefix-bar-suffix", expandEnvString("prefix-${RECALL_FOO}-suffix"))
}
