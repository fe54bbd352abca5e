// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

// Package embed implements the text embedders, the long-text chunking used
// for both web-page and local-corpus text, and the chromem-go backed
// knowledge base used for similarity search.
package embed

// Chunking constants preserved verbatim from the multi-modal retrieval
// model this package's embedding strategy is descended from. Only the
// "other text models" family (1200/800) is reachable through the text-only
// model.Embedder implementations today; siglip/clip/colpali chunk sizes are kept defined and documented for
// a future vision-capable embedder rather than deleted.
const (
	SiglipClipMaxLen = 200
	SiglipClipStride = 150

	ColPaliMaxLen = 400
	ColPaliStride = 300

	TextMaxLen = 1200
	TextStride = 800
)

// ChunkText splits text into overlapping windows of maxLen runes with the
// given stride, matching the original chunked-embedding strategy for long
// documents.
func ChunkText(text string, maxLen, stride int) []string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for start := 0; start < len(runes); start += stride {
		end := start + maxLen
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
