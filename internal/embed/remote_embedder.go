// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package embed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/arborsearch/recall/internal/httpclient"
)

// RemoteEmbedder calls an OpenAI-compatible /embeddings HTTP endpoint. It is
// consumed the same way the LLM client is consumed: never wired to a
// specific vendor inside the recursive expander.
type RemoteEmbedder struct {
	client    *httpclient.Client
	baseURL   string
	model     string
	apiKey    string
	dimension int
}

// NewRemoteEmbedder builds a RemoteEmbedder against baseURL (e.g.
// "https://api.openai.com/v1"), requesting model and expecting dimension
// back from the endpoint.
func NewRemoteEmbedder(client *httpclient.Client, baseURL, model, apiKey string, dimension int) *RemoteEmbedder {
	return &RemoteEmbedder{client: client, baseURL: baseURL, model: model, apiKey: apiKey, dimension: dimension}
}

func (e *RemoteEmbedder) Dimension() int { return e.dimension }

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed requests a single embedding vector for text and L2-normalizes it,
// preserving the uniform cosine-search invariant regardless of the vendor's
// own normalization behavior.
func (e *RemoteEmbedder) Embed(text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: e.model, Input: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("remote embedder: empty response")
	}
	return l2Normalize(parsed.Data[0].Embedding), nil
}
