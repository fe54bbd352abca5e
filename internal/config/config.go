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

// Package config loads the research session configuration from a YAML file,
// expanding environment variable references and applying defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for a research session.
type Config struct {
	Engines      EnginesConfig   `yaml:"engines"`
	Fetch        FetchConfig     `yaml:"fetch"`
	Rerank       RerankConfig    `yaml:"rerank"`
	Embedding    EmbeddingConfig `yaml:"embedding"`
	Session      SessionConfig   `yaml:"session"`
	LLM          LLMConfig       `yaml:"llm"`
	LogLevel     string          `yaml:"log_level"`
	LogFormat    string          `yaml:"log_format"`
	ResultDir    string          `yaml:"result_dir"`
}

// EnginesConfig selects and configures the search back-ends.
type EnginesConfig struct {
	TavilyAPIKey      string   `yaml:"tavily_api_key"`
	BraveAPIKey       string   `yaml:"brave_api_key"`
	SearxNGEndpoints  []string `yaml:"searxng_endpoints"`
	IncludeWikipedia  bool     `yaml:"include_wikipedia"`
	PerEngineTimeout  time.Duration `yaml:"per_engine_timeout"`
}

// FetchConfig controls the polite downloader.
type FetchConfig struct {
	Concurrency    int           `yaml:"concurrency"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	MaxContentSize int64         `yaml:"max_content_size"`
	RespectRobots  bool          `yaml:"respect_robots"`
	UserAgent      string        `yaml:"user_agent"`
}

// RerankConfig controls result scoring and diversity capping.
type RerankConfig struct {
	PerDomainCap int `yaml:"per_domain_cap"`
}

// EmbeddingConfig selects the embedding backend.
type EmbeddingConfig struct {
	Provider    string `yaml:"provider"` // "hash" or "remote"
	RemoteURL   string `yaml:"remote_url"`
	RemoteModel string `yaml:"remote_model"`
	Dimension   int    `yaml:"dimension"`
}

// SessionConfig controls the recursive expansion.
type SessionConfig struct {
	MaxDepth            int     `yaml:"max_depth"`
	WebSearchLimit       int     `yaml:"web_search_limit"`
	MinRelevance         float64 `yaml:"min_relevance"`
	MonteCarloSearch     bool    `yaml:"monte_carlo_search"`
	MonteCarloSamples    int     `yaml:"monte_carlo_samples"`
	ParallelSubqueries   bool    `yaml:"parallel_subqueries"`
	CorpusDir            string  `yaml:"corpus_dir"`
}

// LLMConfig configures the consumed LLM HTTP endpoint.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
}

// SetDefaults fills zero-valued fields with production defaults, mirroring
// the original prototype's constructor defaults.
func (c *Config) SetDefaults() {
	if c.Engines.PerEngineTimeout == 0 {
		c.Engines.PerEngineTimeout = 30 * time.Second
	}
	if len(c.Engines.SearxNGEndpoints) == 0 {
		c.Engines.SearxNGEndpoints = []string{
			"https://searx.be",
			"https://search.marginalia.nu",
			"https://searx.tiekoetter.com",
			"https://priv.au",
			"https://search.inetol.net",
		}
	}
	if c.Fetch.Concurrency == 0 {
		c.Fetch.Concurrency = 5
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 20 * time.Second
	}
	if c.Fetch.MaxRetries == 0 {
		c.Fetch.MaxRetries = 3
	}
	if c.Fetch.MaxContentSize == 0 {
		c.Fetch.MaxContentSize = 25 * 1024 * 1024
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "Mozilla/5.0 (compatible; recall/1.0; +https://github.com/arborsearch/recall)"
	}
	if !c.Fetch.RespectRobots {
		c.Fetch.RespectRobots = true
	}
	if c.Rerank.PerDomainCap == 0 {
		c.Rerank.PerDomainCap = 3
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "hash"
	}
	if c.Embedding.Dimension == 0 {
		c.Embedding.Dimension = 256
	}
	if c.Session.MaxDepth == 0 {
		c.Session.MaxDepth = 1
	}
	if c.Session.WebSearchLimit == 0 {
		c.Session.WebSearchLimit = 8
	}
	if c.Session.MinRelevance == 0 {
		c.Session.MinRelevance = 0.5
	}
	if !c.Session.MonteCarloSearch {
		c.Session.MonteCarloSearch = true
	}
	if c.Session.MonteCarloSamples == 0 {
		c.Session.MonteCarloSamples = 3
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.ResultDir == "" {
		c.ResultDir = "./results"
	}
}

// Validate checks for inconsistent or unusable values.
func (c *Config) Validate() error {
	if c.Fetch.Concurrency <= 0 {
		return fmt.Errorf("fetch.concurrency must be positive")
	}
	if c.Session.MaxDepth < 0 {
		return fmt.Errorf("session.max_depth must be >= 0")
	}
	if c.Session.MinRelevance < 0 || c.Session.MinRelevance > 1 {
		return fmt.Errorf("session.min_relevance must be in [0,1]")
	}
	switch c.Embedding.Provider {
	case "hash", "remote":
	default:
		return fmt.Errorf("embedding.provider must be 'hash' or 'remote', got %q", c.Embedding.Provider)
	}
	if c.Embedding.Provider == "remote" && c.Embedding.RemoteURL == "" {
		return fmt.Errorf("embedding.remote_url is required when embedding.provider is 'remote'")
	}
	return nil
}
