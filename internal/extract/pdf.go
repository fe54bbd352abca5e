// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPDFPages bounds how many pages are read per document, matching the
// original prototype's page cap for time/cost control.
const maxPDFPages = 10

// PDF extracts text from up to the first maxPDFPages pages of a PDF file,
// concatenated with newlines. An empty result is returned as-is; rendering
// pages to images for OCR is optional and not implemented here.
func PDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	pages := r.NumPage()
	if pages > maxPDFPages {
		pages = maxPDFPages
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			text = blocksFallback(page)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}

// blocksFallback re-reads a page's text by content row when GetPlainText
// returns empty (e.g. pages laid out as disjoint text blocks rather than a
// continuous stream), mirroring the original's "blocks" extraction mode.
func blocksFallback(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}
	var b bytes.Buffer
	for _, row := range rows {
		for _, word := range row.Content {
			b.WriteString(word.S)
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return b.String()
}
