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

// Package metrics collects Prometheus counters and histograms for the
// search engines, fetcher, embedding store, LLM client, and HTTP facade.
// A nil *Metrics is valid and every Record/Observe method on it is a
// no-op, so callers never need to guard on whether metrics are enabled.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for a running recall instance.
type Metrics struct {
	registry *prometheus.Registry

	engineSearches     *prometheus.CounterVec
	engineSearchErrors *prometheus.CounterVec
	engineSearchDur    *prometheus.HistogramVec

	fetchAttempts *prometheus.CounterVec
	fetchBytes    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec

	llmCalls    *prometheus.CounterVec
	llmDuration *prometheus.HistogramVec
	llmErrors   *prometheus.CounterVec

	kbSearches  *prometheus.CounterVec
	kbSearchDur *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a registered set of collectors. Namespace prefixes every
// metric name, e.g. "recall_engine_searches_total".
func New(namespace string) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.engineSearches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "engine", Name: "searches_total",
		Help: "Total number of search engine queries issued.",
	}, []string{"engine"})
	m.engineSearchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "engine", Name: "search_errors_total",
		Help: "Total number of search engine queries that returned an error.",
	}, []string{"engine"})
	m.engineSearchDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "engine", Name: "search_duration_seconds",
		Help:    "Search engine query latency in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"engine"})

	m.fetchAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "fetch", Name: "attempts_total",
		Help: "Total number of page fetch attempts, labeled by outcome.",
	}, []string{"outcome"})
	m.fetchBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "fetch", Name: "bytes_total",
		Help: "Total bytes downloaded by the fetcher.",
	}, []string{"content_type"})
	m.fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "fetch", Name: "duration_seconds",
		Help:    "Page fetch latency in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	}, []string{"outcome"})

	m.llmCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "llm", Name: "calls_total",
		Help: "Total number of LLM synthesis calls.",
	}, []string{"model"})
	m.llmDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "llm", Name: "call_duration_seconds",
		Help:    "LLM synthesis call latency in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	}, []string{"model"})
	m.llmErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "llm", Name: "errors_total",
		Help: "Total number of LLM synthesis call failures.",
	}, []string{"model"})

	m.kbSearches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "kb", Name: "searches_total",
		Help: "Total number of knowledge base similarity searches.",
	}, []string{"collection"})
	m.kbSearchDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "kb", Name: "search_duration_seconds",
		Help:    "Knowledge base similarity search latency in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"collection"})

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "http", Name: "requests_total",
		Help: "Total number of HTTP requests served by the API facade.",
	}, []string{"method", "route", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.registry.MustRegister(
		m.engineSearches, m.engineSearchErrors, m.engineSearchDur,
		m.fetchAttempts, m.fetchBytes, m.fetchDuration,
		m.llmCalls, m.llmDuration, m.llmErrors,
		m.kbSearches, m.kbSearchDur,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// RecordEngineSearch records a search engine query's latency and outcome.
func (m *Metrics) RecordEngineSearch(engine string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.engineSearches.WithLabelValues(engine).Inc()
	m.engineSearchDur.WithLabelValues(engine).Observe(duration.Seconds())
	if err != nil {
		m.engineSearchErrors.WithLabelValues(engine).Inc()
	}
}

// RecordFetch records a single page fetch attempt.
func (m *Metrics) RecordFetch(outcome, contentType string, duration time.Duration, bytes int) {
	if m == nil {
		return
	}
	m.fetchAttempts.WithLabelValues(outcome).Inc()
	m.fetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if bytes > 0 {
		m.fetchBytes.WithLabelValues(contentType).Add(float64(bytes))
	}
}

// RecordLLMCall records a synthesis call to the LLM endpoint.
func (m *Metrics) RecordLLMCall(model string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.llmCalls.WithLabelValues(model).Inc()
	m.llmDuration.WithLabelValues(model).Observe(duration.Seconds())
	if err != nil {
		m.llmErrors.WithLabelValues(model).Inc()
	}
}

// RecordKBSearch records a knowledge base similarity search.
func (m *Metrics) RecordKBSearch(collection string, duration time.Duration) {
	if m == nil {
		return
	}
	m.kbSearches.WithLabelValues(collection).Inc()
	m.kbSearchDur.WithLabelValues(collection).Observe(duration.Seconds())
}

// RecordHTTPRequest records a completed HTTP request served by the API facade.
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
