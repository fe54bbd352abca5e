// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

// Package fetch implements the polite concurrent downloader: robots.txt
// checks, HEAD pre-flight size filtering, retrying GETs, and content-type
// routed persistence with a JSON sidecar per page.
package fetch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arborsearch/recall/internal/fsutil"
	"github.com/arborsearch/recall/internal/httpclient"
	"github.com/arborsearch/recall/internal/metrics"
	"github.com/arborsearch/recall/internal/model"
	"golang.org/x/sync/semaphore"
)

// Options configures a Fetcher.
type Options struct {
	Concurrency    int
	MaxContentSize int64 // default 8 MiB, per spec default
	RespectRobots  bool
	UserAgent      string
	Logger         *slog.Logger
}

// Fetcher downloads a set of URLs concurrently, bounded by a semaphore, and
// persists each successful page plus a JSON sidecar to outDir.
type Fetcher struct {
	client  *httpclient.Client
	robots  *robotsCache
	sem     *semaphore.Weighted
	opts    Options
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// WithMetrics attaches a metrics recorder, returning the Fetcher for chaining.
func (f *Fetcher) WithMetrics(m *metrics.Metrics) *Fetcher {
	f.metrics = m
	return f
}

// New builds a Fetcher. client is shared with the engine adapters so retry
// policy stays consistent across the whole download path.
func New(client *httpclient.Client, opts Options) *Fetcher {
	if opts.MaxContentSize <= 0 {
		opts.MaxContentSize = 8 * 1024 * 1024
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: client,
		robots: newRobotsCache(client),
		sem:    semaphore.NewWeighted(int64(opts.Concurrency)),
		opts:   opts,
		logger: logger,
	}
}

// DownloadMany fetches each result's URL concurrently, writing successful
// pages (and their sidecar JSON) under outDir. Failures of any kind are
// logged and the URL is skipped; DownloadMany never returns an error.
func (f *Fetcher) DownloadMany(ctx context.Context, keyword string, results []model.SearchResult, outDir string) []model.FetchedPage {
	if err := os.MkdirAll(fsutil.SanitizePath(outDir), 0o755); err != nil {
		f.logger.Warn("fetch: could not create output dir", "dir", outDir, "error", err)
		return nil
	}

	type slot struct {
		page *model.FetchedPage
	}
	slots := make([]slot, len(results))

	done := make(chan struct{}, len(results))
	for i, r := range results {
		i, r := i, r
		if err := f.sem.Acquire(ctx, 1); err != nil {
			done <- struct{}{}
			continue
		}
		go func() {
			defer f.sem.Release(1)
			defer func() { done <- struct{}{} }()
			page, err := f.fetchOne(ctx, keyword, r, outDir)
			if err != nil {
				f.logger.Debug("fetch: skipping url", "url", r.URL, "error", err)
				return
			}
			slots[i].page = page
		}()
	}
	for range results {
		<-done
	}

	pages := make([]model.FetchedPage, 0, len(results))
	for _, s := range slots {
		if s.page != nil {
			pages = append(pages, *s.page)
		}
	}
	return pages
}

func (f *Fetcher) fetchOne(ctx context.Context, keyword string, r model.SearchResult, outDir string) (*model.FetchedPage, error) {
	start := time.Now()
	page, err := f.doFetchOne(ctx, keyword, r, outDir)
	if err != nil {
		f.metrics.RecordFetch("error", "", time.Since(start), 0)
		return nil, err
	}
	f.metrics.RecordFetch("ok", page.ContentType, time.Since(start), int(page.Size))
	return page, nil
}

func (f *Fetcher) doFetchOne(ctx context.Context, keyword string, r model.SearchResult, outDir string) (*model.FetchedPage, error) {
	if f.opts.RespectRobots && !f.robots.Allowed(ctx, r.URL) {
		return nil, fmt.Errorf("disallowed by robots.txt")
	}

	if size, ok := f.headContentLength(ctx, r.URL); ok && size > f.opts.MaxContentSize {
		return nil, fmt.Errorf("content-length %d exceeds max %d", size, f.opts.MaxContentSize)
	}

	var lastErr error
	delay := 250 * time.Millisecond
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			jitter := time.Duration(float64(delay) * 0.2)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay + jitter):
			}
			delay *= 2
		}

		page, err := f.getOnce(ctx, keyword, r, outDir)
		if err == nil {
			return page, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("fetch: all attempts failed: %w", lastErr)
}

func (f *Fetcher) headContentLength(ctx context.Context, rawURL string) (int64, bool) {
	headCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(headCtx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, false
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()
	if resp.ContentLength <= 0 {
		return 0, false
	}
	return resp.ContentLength, true
}

func (f *Fetcher) getOnce(ctx context.Context, keyword string, r model.SearchResult, outDir string) (*model.FetchedPage, error) {
	getCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(getCtx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxContentSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.opts.MaxContentSize {
		return nil, fmt.Errorf("response exceeds max content size %d", f.opts.MaxContentSize)
	}

	contentType := resp.Header.Get("Content-Type")
	ext := ".html"
	if strings.Contains(contentType, "application/pdf") || strings.HasSuffix(strings.ToLower(r.URL), ".pdf") {
		ext = ".pdf"
	}

	hash := sha1.Sum([]byte(r.URL))
	filename := hex.EncodeToString(hash[:])[:12] + ext
	filePath := filepath.Join(fsutil.SanitizePath(outDir), filename)

	if err := os.WriteFile(filePath, body, 0o644); err != nil {
		return nil, err
	}

	page := &model.FetchedPage{
		Keyword:      keyword,
		SourceEngine: r.Source,
		Title:        r.Title,
		URL:          r.URL,
		FilePath:     filePath,
		ContentType:  contentType,
		Size:         int64(len(body)),
		DownloadedAt: time.Now().UTC(),
	}
	if err := WriteSidecar(filePath, page); err != nil {
		f.logger.Warn("fetch: could not write sidecar", "file", filePath, "error", err)
	}
	return page, nil
}

type sidecar struct {
	Keyword       string `json:"keyword"`
	SourceEngine  string `json:"source_engine"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	FilePath      string `json:"file_path"`
	ContentType   string `json:"content_type"`
	Size          int64  `json:"size"`
	DownloadedAt  string `json:"downloaded_at"`
	PublishedHint string `json:"published_hint"`
	TextPreview   string `json:"text_preview"`
	Version       int    `json:"version"`
}

// WriteSidecar writes (or overwrites) the JSON sidecar for a downloaded
// page. Called once immediately after download with page.Text still empty,
// and again by the caller once extraction has populated it, so the
// persisted text_preview reflects the extracted content rather than being
// permanently blank.
func WriteSidecar(filePath string, page *model.FetchedPage) error {
	sc := sidecar{
		Keyword:       page.Keyword,
		SourceEngine:  page.SourceEngine,
		Title:         page.Title,
		URL:           page.URL,
		FilePath:      page.FilePath,
		ContentType:   page.ContentType,
		Size:          page.Size,
		DownloadedAt:  page.DownloadedAt.Format("2006-01-02T15:04:05Z"),
		PublishedHint: page.PublishedHint,
		TextPreview:   previewOf(page.Text),
		Version:       1,
	}
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath+".json", data, 0o644)
}

func previewOf(text string) string {
	const max = 800
	if len(text) <= max {
		return text
	}
	return text[:max] + "…"
}
