// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/arborsearch/recall/internal/api"
	"github.com/arborsearch/recall/internal/config"
	"github.com/arborsearch/recall/internal/httpclient"
	"github.com/arborsearch/recall/internal/llm"
	"github.com/arborsearch/recall/internal/logging"
	"github.com/arborsearch/recall/internal/metrics"
	"github.com/arborsearch/recall/internal/session"
)

// QueryCmd runs a single research query end to end and prints the result.
type QueryCmd struct {
	Text string `arg:"" help:"The research question to answer."`
}

func (c *QueryCmd) Run(ctx context.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	initLogging(cfg)

	m := metrics.New("recall")
	sess, err := session.New(cfg, newLLMClient(cfg, m), logging.Get(), m)
	if err != nil {
		return fmt.Errorf("building session: %w", err)
	}

	result, err := sess.Run(ctx, c.Text)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}

	fmt.Println(result.Answer)
	fmt.Printf("\n(report: %s, toc: %s)\n", result.ReportPath, result.TOCJSONPath)
	return nil
}

// ServeCmd starts the HTTP API server.
type ServeCmd struct {
	Port int `help:"Port to listen on." default:"8080"`
}

func (c *ServeCmd) Run(ctx context.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	initLogging(cfg)
	logger := logging.Get()
	m := metrics.New("recall")

	factory := func() (*session.Session, error) {
		return session.New(cfg, newLLMClient(cfg, m), logger, m)
	}

	srv := api.NewServer(factory, logger, m)
	addr := fmt.Sprintf(":%d", c.Port)
	logger.Info("recall API server listening", "addr", addr)
	return http.ListenAndServe(addr, srv.Routes())
}

func loadConfig(cli *CLI) (*config.Config, error) {
	if cli.Config == "" {
		cfg := &config.Config{}
		cfg.SetDefaults()
		if cli.LogLevel != "" {
			cfg.LogLevel = cli.LogLevel
		}
		if cli.LogFormat != "" {
			cfg.LogFormat = cli.LogFormat
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("default config invalid: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", cli.Config, err)
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.LogFormat = cli.LogFormat
	}
	return cfg, nil
}

func initLogging(cfg *config.Config) {
	level := logging.ParseLevel(cfg.LogLevel)
	logging.Init(level, os.Stderr, cfg.LogFormat)
}

func newLLMClient(cfg *config.Config, m *metrics.Metrics) llm.Client {
	if cfg.LLM.BaseURL == "" {
		return nil
	}
	client := httpclient.New(httpclient.WithMaxRetries(cfg.Fetch.MaxRetries))
	return llm.NewHTTPClient(client, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.APIKey).WithMetrics(m)
}
