// Copyright (c) 2024 BVK Chaitanya

// Package scrape converts the PDF files of a directory into CSV files with
// one row per line of extracted text.
package scrape

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bvk/pdfscrape/linelog"
	"github.com/bvk/pdfscrape/pdftext"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Extractor reads the text lines of a PDF file page by page.
type Extractor interface {
	Extract(ctx context.Context, path string, startPage int, fn pdftext.PageFunc) error
}

type Options struct {
	// Dir is the directory with the PDF files. CSV files are written next to
	// their PDF files.
	Dir string

	// Pattern selects the PDF files relative to Dir; "**" matches across
	// directories. Default is "*.pdf".
	Pattern string

	// StartPage is the first page (one based) copied into the CSV files.
	StartPage int

	// Workers is the number of PDF files converted concurrently.
	Workers int

	// Extractor defaults to pdftext.Extractor.
	Extractor Extractor
}

func (v *Options) setDefaults() {
	if len(v.Pattern) == 0 {
		v.Pattern = "*.pdf"
	}
	if v.StartPage == 0 {
		v.StartPage = 1
	}
	if v.Workers == 0 {
		v.Workers = 1
	}
	if v.Extractor == nil {
		v.Extractor = pdftext.Extractor{}
	}
}

func (v *Options) check() error {
	if len(v.Dir) == 0 {
		return fmt.Errorf("pdf directory cannot be empty: %w", os.ErrInvalid)
	}
	if v.StartPage < 1 {
		return fmt.Errorf("start page must be at least 1, got %d: %w", v.StartPage, os.ErrInvalid)
	}
	if v.Workers < 1 {
		return fmt.Errorf("number of workers must be positive, got %d: %w", v.Workers, os.ErrInvalid)
	}
	if !doublestar.ValidatePattern(v.Pattern) {
		return fmt.Errorf("invalid file pattern %q: %w", v.Pattern, os.ErrInvalid)
	}
	return nil
}

// Result lists the outcome of a Run.
type Result struct {
	RunID string

	// Converted maps PDF file paths to the CSV files written for them.
	Converted map[string]string

	// Failed maps PDF file paths to their conversion errors.
	Failed map[string]error
}

// FindPDFs returns the sorted paths of the files under dir matching the
// pattern.
func FindPDFs(dir, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("could not list pdf files in %q: %w", dir, err)
	}
	var paths []string
	for _, m := range matches {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	slices.Sort(paths)
	return paths, nil
}

// CSVPath returns the CSV file path for a PDF file path.
func CSVPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".csv"
}

// Run converts every matching PDF file into a CSV file. A file that cannot be
// converted is logged and skipped; the errors for all such files are joined
// into the returned error. Logging failures never stop the conversion.
func Run(ctx context.Context, log *linelog.Logger, opts *Options) (*Result, error) {
	var sopts Options
	if opts != nil {
		sopts = *opts
	}
	sopts.setDefaults()
	if err := sopts.check(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:     uuid.New().String(),
		Converted: make(map[string]string),
		Failed:    make(map[string]error),
	}
	log.Debugf("scrape run %s: pattern=%q start-page=%d workers=%d", res.RunID, sopts.Pattern, sopts.StartPage, sopts.Workers)
	log.Infof("Searching for PDF files in directory: %s", sopts.Dir)

	pdfs, err := FindPDFs(sopts.Dir, sopts.Pattern)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if len(pdfs) == 0 {
		log.Info("No PDF files found in the specified directory.")
		return res, nil
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(sopts.Workers)
	for _, pdfPath := range pdfs {
		g.Go(func() error {
			if err := context.Cause(ctx); err != nil {
				return err
			}
			log.Infof("Processing PDF file: %s", pdfPath)
			csvPath, err := Convert(ctx, log, sopts.Extractor, pdfPath, sopts.StartPage)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				log.Errorf("Could not convert PDF file %s: %v", pdfPath, err)
				res.Failed[pdfPath] = err
				return nil
			}
			log.Infof("Successfully wrote extracted data to CSV: %s", csvPath)
			res.Converted[pdfPath] = csvPath
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	var errs []error
	for _, pdfPath := range pdfs {
		if err, ok := res.Failed[pdfPath]; ok {
			errs = append(errs, fmt.Errorf("%s: %w", pdfPath, err))
		}
	}
	log.Debugf("scrape run %s: %d converted, %d failed", res.RunID, len(res.Converted), len(res.Failed))
	return res, errors.Join(errs...)
}

// Convert writes the text lines of the PDF file, from startPage onwards, into
// the CSV file next to it and returns the CSV file path. The CSV file is only
// replaced when the whole PDF file is converted.
func Convert(ctx context.Context, log *linelog.Logger, x Extractor, pdfPath string, startPage int) (_ string, status error) {
	csvPath := CSVPath(pdfPath)

	fp, err := os.CreateTemp(filepath.Dir(csvPath), ".csv*")
	if err != nil {
		return "", fmt.Errorf("could not create temp file: %w", err)
	}
	defer func() {
		if status != nil {
			os.Remove(fp.Name())
		}
		fp.Close()
	}()

	w := csv.NewWriter(fp)
	page := func(page int, lines []string) error {
		for _, line := range lines {
			if err := w.Write([]string{line}); err != nil {
				return fmt.Errorf("could not write csv row: %w", err)
			}
		}
		log.Debugf("Wrote %d lines from page %d of %s", len(lines), page, pdfPath)
		return nil
	}
	if err := x.Extract(ctx, pdfPath, startPage, page); err != nil {
		return "", err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("could not flush csv data: %w", err)
	}
	if err := fp.Chmod(0644); err != nil {
		return "", fmt.Errorf("could not set csv file mode: %w", err)
	}
	if err := fp.Sync(); err != nil {
		return "", fmt.Errorf("could not sync the csv file: %w", err)
	}
	if err := os.Rename(fp.Name(), csvPath); err != nil {
		return "", fmt.Errorf("could not rename temp file to %q: %w", csvPath, err)
	}
	return csvPath, nil
}
