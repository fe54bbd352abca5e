// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborsearch/recall/internal/httpclient"
	"github.com/arborsearch/recall/internal/metrics"
	"github.com/arborsearch/recall/internal/model"
)

func TestDownloadMany_WritesPageAndSidecar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", "11")
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>hi</html>"))
	}))
	defer srv.Close()

	client := httpclient.New(httpclient.WithMaxRetries(0))
	f := New(client, Options{RespectRobots: false}).WithMetrics(metrics.New("recall_test_fetch"))

	outDir := t.TempDir()
	pages := f.DownloadMany(context.Background(), "test query", []model.SearchResult{
		{URL: srv.URL, Title: "Example", Source: "duckduckgo"},
	}, outDir)

	require.Len(t, pages, 1)
	assert.Equal(t, "Example", pages[0].Title)
	assert.Equal(t, filepath.Dir(pages[0].FilePath), filepath.Clean(outDir))
}

func TestDownloadMany_SkipsFailedURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := httpclient.New(httpclient.WithMaxRetries(0))
	f := New(client, Options{RespectRobots: false})

	pages := f.DownloadMany(context.Background(), "q", []model.SearchResult{
		{URL: srv.URL},
	}, t.TempDir())

	assert.Empty(t, pages)
}
