// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

// Package api exposes a thin HTTP facade over the research session
// orchestrator: submit a query, poll its progress, fetch its result.
// There is no streaming transport here; progress is a polled snapshot.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/arborsearch/recall/internal/metrics"
	"github.com/arborsearch/recall/internal/session"
)

// Status is the lifecycle state of a submitted query.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// queryRecord tracks one submitted query's progress and eventual result.
type queryRecord struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Status      Status    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	Answer      string    `json:"answer,omitempty"`
	ReportPath  string    `json:"report_path,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// SessionFactory builds a fresh Session for each query, since a Session
// carries per-query state (knowledge base, expander output dir).
type SessionFactory func() (*session.Session, error)

// Server is the in-memory query registry and chi router.
type Server struct {
	factory SessionFactory
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	queries map[string]*queryRecord
}

// NewServer builds a Server backed by factory. A nil m disables metrics.
func NewServer(factory SessionFactory, logger *slog.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		factory: factory,
		logger:  logger,
		metrics: m,
		queries: make(map[string]*queryRecord),
	}
}

// Routes builds the chi router for this server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.metricsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())
	r.Route("/queries", func(r chi.Router) {
		r.Post("/", s.handleSubmit)
		r.Get("/{id}", s.handleGet)
		r.Get("/{id}/progress", s.handleProgress)
	})

	return r
}

// metricsMiddleware records request counts and latency per route pattern.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.RecordHTTPRequest(r.Method, route, statusClass(status), time.Since(start))
	})
}

// statusClass buckets an HTTP status code into its class, e.g. "2xx".
func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type submitRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	id := uuid.New().String()[:8]
	rec := &queryRecord{ID: id, Query: req.Query, Status: StatusRunning, SubmittedAt: time.Now()}

	s.mu.Lock()
	s.queries[id] = rec
	s.mu.Unlock()

	go s.run(rec)

	writeJSON(w, http.StatusAccepted, rec)
}

func (s *Server) run(rec *queryRecord) {
	sess, err := s.factory()
	if err != nil {
		s.fail(rec, err)
		return
	}

	result, err := sess.Run(context.Background(), rec.Query)
	if err != nil {
		s.fail(rec, err)
		return
	}

	s.mu.Lock()
	rec.Status = StatusCompleted
	rec.Answer = result.Answer
	rec.ReportPath = result.ReportPath
	s.mu.Unlock()
}

func (s *Server) fail(rec *queryRecord, err error) {
	s.logger.Error("query failed", "id", rec.ID, "error", err)
	s.mu.Lock()
	rec.Status = StatusFailed
	rec.Error = err.Error()
	s.mu.Unlock()
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.RLock()
	rec, ok := s.queries[id]
	s.mu.RUnlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown query id"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.RLock()
	rec, ok := s.queries[id]
	s.mu.RUnlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown query id"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(rec.Status)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
