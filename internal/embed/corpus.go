// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package embed

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arborsearch/recall/internal/extract"
	"github.com/arborsearch/recall/internal/model"
)

// supportedLocalExtensions lists the local-corpus file types this loader
// reads text from. Image files (.png/.jpg/.jpeg) are recognized but skipped
// unless an OCR hook is wired, preserving the uniform-dimension invariant
// rather than embedding a zero vector.
var supportedLocalExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".docx": true,
	".xlsx": true,
	".xls":  true,
}

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// TextOCR optionally converts an image file to text. When nil, image-only
// local-corpus files are skipped. No OCR library appears anywhere in the
// retrieved example corpus, so no concrete implementation is wired here.
type TextOCR func(path string) (string, error)

// LoadCorpusFromDir walks dir non-recursively, extracts text from every
// supported file, embeds it with embedder, and returns the resulting
// CorpusEntry set ready to hand to a Store.
func LoadCorpusFromDir(dir string, embedder model.Embedder, ocr TextOCR) ([]model.CorpusEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("embed: reading corpus dir: %w", err)
	}

	var result []model.CorpusEntry
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		path := filepath.Join(dir, de.Name())
		ext := strings.ToLower(filepath.Ext(path))

		var text string
		switch {
		case supportedLocalExtensions[ext]:
			text, err = extractLocal(path, ext)
			if err != nil {
				continue
			}
		case imageExtensions[ext]:
			if ocr == nil {
				continue
			}
			text, err = ocr(path)
			if err != nil || strings.TrimSpace(text) == "" {
				continue
			}
		default:
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		vec, err := EmbedLongText(text, embedder)
		if err != nil {
			continue
		}

		result = append(result, model.CorpusEntry{
			ID:     contentID(path),
			Text:   text,
			Vector: vec,
			Metadata: model.CorpusMetadata{
				FilePath: path,
				Type:     "local",
			},
		})
	}
	return result, nil
}

func extractLocal(path, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extract.PDF(path)
	case ".docx":
		return extract.DOCX(path)
	case ".xlsx", ".xls":
		return extract.XLSX(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// EmbedLongText chunks text per the TextMaxLen/TextStride constants and
// mean-pools the chunk vectors, renormalizing the result, so documents
// longer than a single embedding window still produce one vector. Used for
// both local-corpus documents and fetched web-page text, so the two
// ingestion paths share one chunking policy.
func EmbedLongText(text string, embedder model.Embedder) ([]float32, error) {
	chunks := ChunkText(text, TextMaxLen, TextStride)
	if len(chunks) == 1 {
		return embedder.Embed(chunks[0])
	}

	dim := embedder.Dimension()
	sum := make([]float32, dim)
	for _, chunk := range chunks {
		vec, err := embedder.Embed(chunk)
		if err != nil {
			return nil, err
		}
		for i := 0; i < dim && i < len(vec); i++ {
			sum[i] += vec[i]
		}
	}
	for i := range sum {
		sum[i] /= float32(len(chunks))
	}
	return l2Normalize(sum), nil
}

func contentID(path string) string {
	sum := sha1.Sum([]byte(path))
	return hex.EncodeToString(sum[:])[:16]
}
