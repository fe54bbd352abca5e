// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborsearch/recall/internal/httpclient"
	"github.com/arborsearch/recall/internal/metrics"
)

func TestHTTPClient_Generate(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(httpclient.New(), srv.URL, "test-model", "secret-key").
		WithMetrics(metrics.New("recall_test_llm"))

	out, err := client.Generate(context.Background(), "say hi", "be terse")
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Contains(t, gotBody, "say hi")
	assert.Contains(t, gotBody, "be terse")
}

func TestHTTPClient_Generate_EmptyChoicesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(httpclient.New(httpclient.WithMaxRetries(0)), srv.URL, "test-model", "")
	_, err := client.Generate(context.Background(), "say hi", "")
	assert.Error(t, err)
}
