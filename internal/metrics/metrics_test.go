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

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMethodsDoNotPanicOnNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordEngineSearch("duckduckgo", time.Millisecond, nil)
		m.RecordFetch("ok", "text/html", time.Millisecond, 100)
		m.RecordLLMCall("gpt-test", time.Millisecond, errors.New("boom"))
		m.RecordKBSearch("default", time.Millisecond)
		m.RecordHTTPRequest("GET", "/health", "2xx", time.Millisecond)
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	m := New("recall_test")
	m.RecordEngineSearch("duckduckgo", 10*time.Millisecond, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "recall_test_engine_searches_total")
}

func TestNilMetricsHandlerReturnsServiceUnavailable(t *testing.T) {
	var m *Metrics
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
