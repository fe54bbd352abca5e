// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package embed

import (
	"context"
	"fmt"
	"time"

	"github.com/arborsearch/recall/internal/metrics"
	"github.com/arborsearch/recall/internal/model"
	chromem "github.com/philippgille/chromem-go"
)

const collectionName = "corpus"

// Store is a model.KnowledgeBase backed by an in-process chromem-go
// collection. Vectors are pre-computed by a model.Embedder and handed to
// chromem-go directly; chromem-go's identity embedding function is a
// required placeholder since it never computes vectors itself here.
type Store struct {
	embedder   model.Embedder
	db         *chromem.DB
	collection *chromem.Collection
	metrics    *metrics.Metrics
}

// WithMetrics attaches a metrics recorder, returning the Store for chaining.
func (s *Store) WithMetrics(m *metrics.Metrics) *Store {
	s.metrics = m
	return s
}

// NewStore builds a Store, embedding future queries with embedder.
func NewStore(embedder model.Embedder) (*Store, error) {
	db := chromem.NewDB()
	identity := func(ctx context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("store: embeddings must be pre-computed")
	}
	col, err := db.GetOrCreateCollection(collectionName, nil, identity)
	if err != nil {
		return nil, fmt.Errorf("embed: creating collection: %w", err)
	}
	return &Store{embedder: embedder, db: db, collection: col}, nil
}

// Add inserts pre-embedded entries into the collection.
func (s *Store) Add(entries ...model.CorpusEntry) error {
	docs := make([]chromem.Document, 0, len(entries))
	for _, e := range entries {
		if len(e.Vector) != s.embedder.Dimension() {
			return fmt.Errorf("embed: entry %q has dimension %d, want %d", e.ID, len(e.Vector), s.embedder.Dimension())
		}
		docs = append(docs, chromem.Document{
			ID:        e.ID,
			Content:   e.Text,
			Embedding: e.Vector,
			Metadata:  metadataToStrings(e.Metadata),
		})
	}
	if len(docs) == 0 {
		return nil
	}
	return s.collection.AddDocuments(context.Background(), docs, 1)
}

// Search embeds query with the configured embedder and returns the topK
// nearest entries by cosine similarity.
func (s *Store) Search(query string, topK int) ([]model.CorpusEntry, error) {
	start := time.Now()
	defer func() { s.metrics.RecordKBSearch(collectionName, time.Since(start)) }()

	vec, err := s.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("embed: embedding query: %w", err)
	}

	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := s.collection.QueryEmbedding(context.Background(), vec, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("embed: query: %w", err)
	}

	entries := make([]model.CorpusEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, model.CorpusEntry{
			ID:       r.ID,
			Text:     r.Content,
			Vector:   r.Embedding,
			Metadata: metadataFromStrings(r.Metadata),
		})
	}
	return entries, nil
}

func metadataToStrings(m model.CorpusMetadata) map[string]string {
	return map[string]string{
		"file_path":      m.FilePath,
		"type":           m.Type,
		"snippet":        m.Snippet,
		"url":            m.URL,
		"source_engine":  m.SourceEngine,
		"content_type":   m.ContentType,
		"published_hint": m.PublishedHint,
		"downloaded_at":  m.DownloadedAt,
	}
}

func metadataFromStrings(m map[string]string) model.CorpusMetadata {
	return model.CorpusMetadata{
		FilePath:      m["file_path"],
		Type:          m["type"],
		Snippet:       m["snippet"],
		URL:           m["url"],
		SourceEngine:  m["source_engine"],
		ContentType:   m["content_type"],
		PublishedHint: m["published_hint"],
		DownloadedAt:  m["downloaded_at"],
	}
}
