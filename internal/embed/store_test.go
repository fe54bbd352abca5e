// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package embed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborsearch/recall/internal/model"
)

func TestStore_AddAndSearch(t *testing.T) {
	embedder := NewHashEmbedder(32, 3)
	store, err := NewStore(embedder)
	require.NoError(t, err)

	svbVec, err := embedder.Embed("silicon valley bank collapse")
	require.NoError(t, err)
	cakeVec, err := embedder.Embed("recipe for chocolate cake")
	require.NoError(t, err)

	err = store.Add(
		model.CorpusEntry{ID: "1", Text: "svb doc", Vector: svbVec, Metadata: model.CorpusMetadata{Type: "text"}},
		model.CorpusEntry{ID: "2", Text: "cake doc", Vector: cakeVec, Metadata: model.CorpusMetadata{Type: "text"}},
	)
	require.NoError(t, err)

	results, err := store.Search("silicon valley bank failure", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "svb doc", results[0].Text)
}

func TestStore_Add_RejectsWrongDimension(t *testing.T) {
	embedder := NewHashEmbedder(32, 3)
	store, err := NewStore(embedder)
	require.NoError(t, err)

	err = store.Add(model.CorpusEntry{ID: "1", Text: "x", Vector: make([]float32, 8)})
	assert.Error(t, err)
}

func TestStore_Search_EmptyCollectionReturnsNil(t *testing.T) {
	embedder := NewHashEmbedder(32, 3)
	store, err := NewStore(embedder)
	require.NoError(t, err)

	results, err := store.Search("anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
