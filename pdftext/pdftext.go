// Copyright (c) 2024 BVK Chaitanya

// Package pdftext extracts the embedded text layer of PDF files page by page.
// Scanned (image only) PDFs have no text layer and yield no lines.
package pdftext

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageFunc receives the text lines of one page. Page numbers start at one.
type PageFunc func(page int, lines []string) error

// Extractor extracts text from the PDF files.
type Extractor struct{}

// Extract calls fn with the lines of every page of the PDF file, starting at
// page startPage (one based). Pages without any text are skipped. Extraction
// stops early when fn fails or the context is canceled.
func (Extractor) Extract(ctx context.Context, path string, startPage int, fn PageFunc) error {
	if startPage < 1 {
		return fmt.Errorf("start page must be at least 1, got %d: %w", startPage, os.ErrInvalid)
	}

	fp, r, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("could not open pdf file %q: %w", path, err)
	}
	defer fp.Close()

	fonts := make(map[string]*pdf.Font)
	for i := startPage; i <= r.NumPage(); i++ {
		if err := context.Cause(ctx); err != nil {
			return err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return fmt.Errorf("could not read pdf page %d of %q: %w", i, path, err)
		}
		lines := SplitLines(text)
		if len(lines) == 0 {
			continue
		}
		if err := fn(i, lines); err != nil {
			return err
		}
	}
	return nil
}

// SplitLines splits page text into lines. Empty text gives no lines; a
// trailing newline does not produce an empty last line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if len(text) == 0 {
		return nil
	}
	return strings.Split(text, "\n")
}
