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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	assert.Equal(t, 5, cfg.Fetch.Concurrency)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, int64(25*1024*1024), cfg.Fetch.MaxContentSize)
	assert.Equal(t, "hash", cfg.Embedding.Provider)
	assert.Equal(t, 256, cfg.Embedding.Dimension)
	assert.Equal(t, 1, cfg.Session.MaxDepth)
	assert.Equal(t, 0.5, cfg.Session.MinRelevance)
	assert.True(t, cfg.Session.MonteCarloSearch)
	assert.Equal(t, 3, cfg.Session.MonteCarloSamples)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Len(t, cfg.Engines.SearxNGEndpoints, 5)
}

func TestSetDefaults_DoesNotOverrideExplicitValues(t *testing.T) {
	cfg := &Config{Fetch: FetchConfig{Concurrency: 10}}
	cfg.SetDefaults()
	assert.Equal(t, 10, cfg.Fetch.Concurrency)
}

func TestValidate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		cfg := &Config{}
		cfg.SetDefaults()
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects non-positive concurrency", func(t *testing.T) {
		cfg := &Config{}
		cfg.SetDefaults()
		cfg.Fetch.Concurrency = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects out-of-range min_relevance", func(t *testing.T) {
		cfg := &Config{}
		cfg.SetDefaults()
		cfg.Session.MinRelevance = 1.5
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown embedding provider", func(t *testing.T) {
		cfg := &Config{}
		cfg.SetDefaults()
		cfg.Embedding.Provider = "bogus"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects remote provider without a URL", func(t *testing.T) {
		cfg := &Config{}
		cfg.SetDefaults()
		cfg.Embedding.Provider = "remote"
		cfg.Embedding.RemoteURL = ""
		assert.Error(t, cfg.Validate())
	})
}
