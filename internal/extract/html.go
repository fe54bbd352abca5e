// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

// Package extract implements layered text extraction from HTML and PDF
// files, plus local-corpus docx/xlsx readers.
package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
)

// HTML extracts text from an HTML document using a three-layer fallback:
// article extraction, then readability with a script/style/noscript strip,
// then a raw text strip. Returns on the first layer that yields non-empty
// output.
func HTML(content []byte, pageURL string) string {
	if text := extractWithTrafilatura(content, pageURL); text != "" {
		return text
	}
	if text := extractWithReadability(content, pageURL); text != "" {
		return text
	}
	return extractRawText(content)
}

func extractWithTrafilatura(content []byte, pageURL string) string {
	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			opts.OriginalURL = u
		}
	}
	result, err := trafilatura.Extract(bytes.NewReader(content), opts)
	if err != nil || result == nil || result.ContentText == "" {
		return ""
	}
	return strings.TrimSpace(result.ContentText)
}

func extractWithReadability(content []byte, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}
	article, err := readability.FromReader(bytes.NewReader(content), u)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return strings.TrimSpace(article.TextContent)
	}
	doc.Find("script, style, noscript").Remove()
	return strings.TrimSpace(doc.Text())
}

func extractRawText(content []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	return strings.TrimSpace(doc.Text())
}
