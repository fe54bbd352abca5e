// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/arborsearch/recall/internal/config"
	"github.com/arborsearch/recall/internal/embed"
	"github.com/arborsearch/recall/internal/engine"
	"github.com/arborsearch/recall/internal/fetch"
	"github.com/arborsearch/recall/internal/httpclient"
	"github.com/arborsearch/recall/internal/llm"
	"github.com/arborsearch/recall/internal/metrics"
	"github.com/arborsearch/recall/internal/model"
	"github.com/arborsearch/recall/internal/montecarlo"
	"github.com/arborsearch/recall/internal/report"
	"github.com/arborsearch/recall/internal/rerank"
	"github.com/arborsearch/recall/internal/searchtree"
	"github.com/google/uuid"
)

// Result is the outcome of a completed session: the final synthesized
// answer plus the paths of everything persisted to disk.
type Result struct {
	QueryID     string
	Answer      string
	ReportPath  string
	TOCJSONPath string
	ResultDir   string
}

// Session binds configuration and collaborators for a single user query.
type Session struct {
	cfg       *config.Config
	llmClient llm.Client
	embedder  model.Embedder
	kb        *embed.Store
	manager   *engine.Manager
	fetcher   *fetch.Fetcher
	expander  *searchtree.Expander
	logger    *slog.Logger
	rng       *rand.Rand
}

// New builds a Session, wiring the engine manager's adapters from cfg and
// constructing the shared HTTP client, embedder, and knowledge base. A nil
// m disables metrics collection for this session's collaborators.
func New(cfg *config.Config, llmClient llm.Client, logger *slog.Logger, m *metrics.Metrics) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := httpclient.New(
		httpclient.WithMaxRetries(cfg.Fetch.MaxRetries),
		httpclient.WithUserAgent(cfg.Fetch.UserAgent),
	)

	var embedder model.Embedder
	switch cfg.Embedding.Provider {
	case "remote":
		embedder = embed.NewRemoteEmbedder(client, cfg.Embedding.RemoteURL, cfg.Embedding.RemoteModel, "", cfg.Embedding.Dimension)
	default:
		embedder = embed.NewHashEmbedder(cfg.Embedding.Dimension, 3)
	}

	kb, err := embed.NewStore(embedder)
	if err != nil {
		return nil, fmt.Errorf("session: building knowledge base: %w", err)
	}
	kb.WithMetrics(m)

	var engines []engine.Engine
	if cfg.Engines.TavilyAPIKey != "" {
		engines = append(engines, engine.NewTavily(client, cfg.Engines.TavilyAPIKey))
	}
	engines = append(engines, engine.NewDuckDuckGo(client))
	engines = append(engines, engine.NewSearxNG(client, cfg.Engines.SearxNGEndpoints))
	if cfg.Engines.IncludeWikipedia {
		engines = append(engines, engine.NewWikipedia(client))
	}
	if cfg.Engines.BraveAPIKey != "" {
		engines = append(engines, engine.NewBrave(client, cfg.Engines.BraveAPIKey))
	}
	manager := engine.NewManager(logger, engines...).WithMetrics(m)

	fetcher := fetch.New(client, fetch.Options{
		Concurrency:    cfg.Fetch.Concurrency,
		MaxContentSize: cfg.Fetch.MaxContentSize,
		RespectRobots:  cfg.Fetch.RespectRobots,
		UserAgent:      cfg.Fetch.UserAgent,
		Logger:         logger,
	}).WithMetrics(m)

	s := &Session{
		cfg:       cfg,
		llmClient: llmClient,
		embedder:  embedder,
		kb:        kb,
		manager:   manager,
		fetcher:   fetcher,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	s.expander = &searchtree.Expander{
		Manager:        manager,
		RerankOptions:  rerank.Options{PerDomainCap: cfg.Rerank.PerDomainCap},
		Fetcher:        fetcher,
		Embedder:       embedder,
		LLM:            llmClient,
		MinRelevance:   cfg.Session.MinRelevance,
		MaxDepth:       cfg.Session.MaxDepth,
		WebSearchLimit: cfg.Session.WebSearchLimit,
		Logger:         logger,
	}

	return s, nil
}

// Run executes the full enhance -> split -> Monte-Carlo -> recurse ->
// retrieve -> summarize -> synthesize -> persist pipeline for query. Any
// failure below the final synthesis call is logged and the affected branch
// is dropped; only a failure of the final LLM call returns a non-nil error.
// The knowledge base searched for the final prompt holds the local-corpus
// entries only; the web-page corpus entries built during expansion stay on
// their search-tree nodes and are not added to it.
func (s *Session) Run(ctx context.Context, query string) (*Result, error) {
	queryID := uuid.New().String()[:8]
	resultDir := filepath.Join(s.cfg.ResultDir, queryID)

	enhancedQuery := s.enhanceQuery(ctx, query)
	enhancedQueryVec, err := s.embedder.Embed(enhancedQuery)
	if err != nil {
		s.logger.Warn("session: embedding enhanced query failed", "error", err)
	}

	subqueries := SplitQuery(CleanQuery(enhancedQuery), 200)
	subqueries, mcResults := s.maybeMonteCarloResample(subqueries, enhancedQueryVec)

	s.expander.OutDirBase = resultDir
	roots, webPages, _ := s.expander.Expand(ctx, subqueries, 1, enhancedQueryVec, mcResults)

	if s.cfg.Session.CorpusDir != "" {
		localEntries, err := embed.LoadCorpusFromDir(s.cfg.Session.CorpusDir, s.embedder, nil)
		if err != nil {
			s.logger.Warn("session: loading local corpus failed", "error", err)
		} else if err := s.kb.Add(localEntries...); err != nil {
			s.logger.Warn("session: indexing local corpus failed", "error", err)
		}
	}

	localResults, err := s.kb.Search(enhancedQuery, 5)
	if err != nil {
		s.logger.Warn("session: local retrieval failed", "error", err)
	}

	webSummary, _ := runInPool(func() (string, error) {
		return s.summarize(ctx, report.SummarizeFetchedPages(webPages), "Summarize these web search findings."), nil
	})
	localSummary, _ := runInPool(func() (string, error) {
		return s.summarizeEntries(ctx, localResults), nil
	})

	prompt := report.BuildFinalPrompt(report.PromptInputs{
		Query:        query,
		TOCRoots:     roots,
		WebSummary:   webSummary,
		LocalSummary: localSummary,
		DomainGroups: searchtree.GroupByDomain(webPages),
	})

	answer, err := s.llmClient.Generate(ctx, prompt, "You are a research assistant. Write a thorough, cited, long-form answer.")
	if err != nil {
		return nil, fmt.Errorf("session: final synthesis failed: %w", err)
	}

	tocPath, err := report.SaveTOCToJSON(roots, resultDir)
	if err != nil {
		s.logger.Warn("session: saving toc analysis failed", "error", err)
	}
	reportPath, err := report.SaveMarkdown(resultDir, query, answer, prompt)
	if err != nil {
		s.logger.Warn("session: saving markdown report failed", "error", err)
	}

	return &Result{
		QueryID:     queryID,
		Answer:      answer,
		ReportPath:  reportPath,
		TOCJSONPath: tocPath,
		ResultDir:   resultDir,
	}, nil
}

// enhanceQuery asks the LLM to enhance the raw query; any failure produces
// "no enhancement" and the raw query is used as-is.
func (s *Session) enhanceQuery(ctx context.Context, query string) string {
	if s.llmClient == nil {
		return query
	}
	enhanced, err := s.llmClient.Generate(ctx, query, "Rewrite this research question to be more specific and searchable.")
	if err != nil || enhanced == "" {
		s.logger.Debug("session: query enhancement failed, using raw query", "error", err)
		return query
	}
	return enhanced
}

// maybeMonteCarloResample draws Session.MonteCarloSamples sub-queries
// weighted by relevance to enhancedQueryVec whenever Session.MonteCarloSearch
// is enabled, returning the resampled sub-queries alongside the per-query
// montecarlo.Result so the caller can stamp selection/weight onto the
// matching TOC node. If sampling is disabled or yields nothing, subqueries is
// returned unchanged with a nil result map.
func (s *Session) maybeMonteCarloResample(subqueries []string, enhancedQueryVec []float32) ([]string, map[string]montecarlo.Result) {
	if !s.cfg.Session.MonteCarloSearch {
		return subqueries, nil
	}

	var candidates []montecarlo.Candidate
	for _, q := range subqueries {
		vec, err := s.embedder.Embed(q)
		if err != nil {
			continue
		}
		candidates = append(candidates, montecarlo.Candidate{Query: q, Weight: montecarlo.RelevanceWeight(enhancedQueryVec, vec)})
	}
	if len(candidates) == 0 {
		return subqueries, nil
	}

	sampler := montecarlo.New(s.rng)
	results := sampler.Sample(candidates, s.cfg.Session.MonteCarloSamples)

	out := make([]string, 0, len(results))
	byQuery := make(map[string]montecarlo.Result, len(results))
	for _, r := range results {
		out = append(out, r.Query)
		byQuery[r.Query] = r
	}
	return out, byQuery
}

func (s *Session) summarize(ctx context.Context, text, instruction string) string {
	if s.llmClient == nil || text == "" {
		return text
	}
	summary, err := s.llmClient.Generate(ctx, text, instruction)
	if err != nil {
		s.logger.Warn("session: summarization failed", "error", err)
		return text
	}
	return summary
}

func (s *Session) summarizeEntries(ctx context.Context, entries []model.CorpusEntry) string {
	var text string
	for _, e := range entries {
		text += e.Text + "\n\n"
	}
	return s.summarize(ctx, text, "Summarize these locally retrieved documents.")
}
