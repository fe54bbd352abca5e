// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

// Package llm defines the consumed language-model interface used by the
// session orchestrator for query enhancement and final answer synthesis. No
// vendor SDK is wired into the core recursion; a minimal HTTP-based
// implementation against an OpenAI-compatible chat-completions endpoint is
// provided for standalone use.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/arborsearch/recall/internal/httpclient"
	"github.com/arborsearch/recall/internal/metrics"
)

// Client generates text completions. Implementations must be safe for
// concurrent use.
type Client interface {
	Generate(ctx context.Context, prompt, systemMessage string) (string, error)
}

// HTTPClient implements Client against an OpenAI-compatible
// /chat/completions endpoint.
type HTTPClient struct {
	client  *httpclient.Client
	baseURL string
	model   string
	apiKey  string
	metrics *metrics.Metrics
}

// NewHTTPClient builds an HTTPClient. baseURL is the API root (e.g.
// "https://api.openai.com/v1").
func NewHTTPClient(client *httpclient.Client, baseURL, model, apiKey string) *HTTPClient {
	return &HTTPClient{client: client, baseURL: baseURL, model: model, apiKey: apiKey}
}

// WithMetrics attaches a metrics recorder, returning the client for chaining.
func (c *HTTPClient) WithMetrics(m *metrics.Metrics) *HTTPClient {
	c.metrics = m
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends prompt (and an optional system message) to the configured
// chat-completions endpoint and returns the first choice's content.
func (c *HTTPClient) Generate(ctx context.Context, prompt, systemMessage string) (string, error) {
	start := time.Now()
	text, err := c.generate(ctx, prompt, systemMessage)
	c.metrics.RecordLLMCall(c.model, time.Since(start), err)
	return text, err
}

func (c *HTTPClient) generate(ctx context.Context, prompt, systemMessage string) (string, error) {
	var messages []chatMessage
	if systemMessage != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemMessage})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return parsed.Choices[0].Message.Content, nil
}
