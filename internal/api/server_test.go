// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborsearch/recall/internal/metrics"
	"github.com/arborsearch/recall/internal/session"
)

func failingFactory() (*session.Session, error) {
	return nil, errors.New("no llm configured")
}

func TestHandleHealth(t *testing.T) {
	srv := NewServer(failingFactory, nil, metrics.New("recall_test_health"))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestHandleSubmit_RequiresQuery(t *testing.T) {
	srv := NewServer(failingFactory, nil, metrics.New("recall_test_submit"))
	req := httptest.NewRequest(http.MethodPost, "/queries/", strings.NewReader(`{"query":""}`))
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGet_UnknownID(t *testing.T) {
	srv := NewServer(failingFactory, nil, metrics.New("recall_test_get"))
	req := httptest.NewRequest(http.MethodGet, "/queries/does-not-exist", nil)
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSubmit_FailingFactoryMarksQueryFailed(t *testing.T) {
	srv := NewServer(failingFactory, nil, metrics.New("recall_test_fail"))
	rec := &queryRecord{ID: "abc"}
	srv.queries["abc"] = rec

	srv.run(rec)

	require.Equal(t, StatusFailed, rec.Status)
	assert.Contains(t, rec.Error, "no llm configured")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(failingFactory, nil, metrics.New("recall_test_metrics"))
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(200))
	assert.Equal(t, "4xx", statusClass(404))
	assert.Equal(t, "5xx", statusClass(500))
}
