// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

// Package model holds the data types shared across the engine, reranker,
// fetcher, extractor, embedding, and search-tree packages.
package model

import "time"

// SearchResult is a single hit returned by a search engine adapter, before
// reranking or download.
type SearchResult struct {
	Title     string
	URL       string
	Body      string
	Source    string // engine name that produced this result
	Published *time.Time
	Score     float64 // set by the reranker; zero until scored
}

// FetchedPage is the outcome of downloading and extracting a SearchResult's URL.
type FetchedPage struct {
	Keyword      string
	SourceEngine string
	Title        string
	URL          string
	FilePath     string
	ContentType  string
	Size         int64
	DownloadedAt time.Time
	PublishedHint string
	Text         string
	TextPreview  string
}

// CorpusMetadata describes the provenance of a CorpusEntry.
type CorpusMetadata struct {
	FilePath     string `json:"file_path"`
	Type         string `json:"type"` // "webhtml", "local"
	Snippet      string `json:"snippet,omitempty"`
	URL          string `json:"url,omitempty"`
	SourceEngine string `json:"source_engine,omitempty"`
	ContentType  string `json:"content_type,omitempty"`
	Size         int64  `json:"size,omitempty"`
	PublishedHint string `json:"published_hint,omitempty"`
	DownloadedAt string `json:"downloaded_at,omitempty"`
}

// CorpusEntry is an embedded unit of content — either a local corpus
// document or a fetched-and-extracted web page. Local-corpus entries are held
// in the knowledge base; web-page entries are held on their search-tree node.
type CorpusEntry struct {
	ID       string
	Text     string
	Vector   []float32
	Metadata CorpusMetadata
}

// Embedder produces a fixed-dimension vector for a piece of text. All
// embedders used within a single knowledge base must share a dimension;
// violating this breaks cosine search, per the uniform-dimension invariant.
type Embedder interface {
	Embed(text string) ([]float32, error)
	Dimension() int
}

// KnowledgeBase holds embedded CorpusEntry vectors and serves nearest-
// neighbor search by cosine similarity (vectors are expected L2-normalized).
type KnowledgeBase interface {
	Add(entries ...CorpusEntry) error
	Search(query string, topK int) ([]CorpusEntry, error)
}
