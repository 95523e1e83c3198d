// Copyright (c) 2024 BVK Chaitanya

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
	"testing"

	"github.com/bvk/pdfscrape/linelog"
	"github.com/bvk/pdfscrape/pdftext"
)

// fakeExtractor serves page texts from memory, keyed by the PDF file name.
type fakeExtractor struct {
	pages map[string][][]string
	fail  map[string]error
}

func (x *fakeExtractor) Extract(ctx context.Context, path string, startPage int, fn pdftext.PageFunc) error {
	name := filepath.Base(path)
	if err, ok := x.fail[name]; ok {
		return err
	}
	for i, lines := range x.pages[name] {
		page := i + 1
		if page < startPage || len(lines) == 0 {
			continue
		}
		if err := fn(page, lines); err != nil {
			return err
		}
	}
	return nil
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("%PDF-1.4\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func readCSV(t *testing.T, path string) []string {
	t.Helper()
	fp, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()

	records, err := csv.NewReader(fp).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	var rows []string
	for _, r := range records {
		if len(r) != 1 {
			t.Fatalf("csv row %q must have exactly one column", r)
		}
		rows = append(rows, r[0])
	}
	return rows
}

func newLogger(t *testing.T, maxLines int) (*linelog.Logger, string) {
	t.Helper()
	r := linelog.NewRegistry()
	t.Cleanup(func() { r.Close() })

	path := filepath.Join(t.TempDir(), "pdf_to_csv.log")
	log, err := r.Logger(path, &linelog.Options{Level: linelog.LevelDebug, MaxLines: maxLines})
	if err != nil {
		t.Fatal(err)
	}
	return log, path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf", "b.pdf", "notes.txt", "sub/c.pdf")

	x := &fakeExtractor{
		pages: map[string][][]string{
			"a.pdf": {{"cover"}, {"Name, Amount", `He said "hi"`}, nil, {"last page"}},
			"b.pdf": {{"only cover"}},
		},
	}
	log, logPath := newLogger(t, 100)

	res, err := Run(context.Background(), log, &Options{Dir: dir, StartPage: 2, Extractor: x})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.RunID) == 0 {
		t.Errorf("run id is empty")
	}
	if len(res.Converted) != 2 || len(res.Failed) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	if got, want := readCSV(t, filepath.Join(dir, "a.csv")), []string{"Name, Amount", `He said "hi"`, "last page"}; !slices.Equal(got, want) {
		t.Errorf("a.csv rows = %q, want %q", got, want)
	}
	if got := readCSV(t, filepath.Join(dir, "b.csv")); len(got) != 0 {
		t.Errorf("b.csv must be empty, got %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "sub", "c.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("default pattern must not descend into subdirectories")
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, msg := range []string{
		"Searching for PDF files in directory: " + dir,
		"Processing PDF file: " + filepath.Join(dir, "a.pdf"),
		"Successfully wrote extracted data to CSV: " + filepath.Join(dir, "a.csv"),
		"Successfully wrote extracted data to CSV: " + filepath.Join(dir, "b.csv"),
	} {
		if !strings.Contains(string(data), msg) {
			t.Errorf("log does not contain %q", msg)
		}
	}
}

func TestRunRecursivePattern(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf", "sub/deeper/c.pdf")

	x := &fakeExtractor{pages: map[string][][]string{"c.pdf": {{"deep"}}}}
	log, _ := newLogger(t, 100)

	res, err := Run(context.Background(), log, &Options{Dir: dir, Pattern: "**/*.pdf", Extractor: x})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Converted) != 2 {
		t.Fatalf("want 2 converted files, got %v", res.Converted)
	}
	if got := readCSV(t, filepath.Join(dir, "sub", "deeper", "c.csv")); !slices.Equal(got, []string{"deep"}) {
		t.Errorf("c.csv rows = %q", got)
	}
}

func TestRunNoFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.txt")
	log, logPath := newLogger(t, 100)

	res, err := Run(context.Background(), log, &Options{Dir: dir, Extractor: &fakeExtractor{}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Converted) != 0 {
		t.Errorf("nothing must be converted: %v", res.Converted)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "No PDF files found in the specified directory.") {
		t.Errorf("missing files were not logged: %q", data)
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf", "bad.pdf", "c.pdf")

	errBroken := errors.New("broken xref table")
	x := &fakeExtractor{
		pages: map[string][][]string{"a.pdf": {{"a"}}, "c.pdf": {{"c"}}},
		fail:  map[string]error{"bad.pdf": errBroken},
	}
	log, logPath := newLogger(t, 100)

	res, err := Run(context.Background(), log, &Options{Dir: dir, Extractor: x})
	if !errors.Is(err, errBroken) {
		t.Fatalf("want the conversion error, got %v", err)
	}
	if len(res.Converted) != 2 || len(res.Failed) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("failed conversion must not leave a csv file")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".csv") {
			t.Errorf("temporary file %q left behind", e.Name())
		}
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ERROR | ") {
		t.Errorf("failure was not logged at error level")
	}
}

func TestRunConcurrentWorkers(t *testing.T) {
	const nfiles = 20
	dir := t.TempDir()

	x := &fakeExtractor{pages: make(map[string][][]string)}
	for i := 0; i < nfiles; i++ {
		name := fmt.Sprintf("doc%02d.pdf", i)
		touch(t, dir, name)
		x.pages[name] = [][]string{{name, "line two"}, {"page two"}}
	}
	log, logPath := newLogger(t, 15)

	res, err := Run(context.Background(), log, &Options{Dir: dir, Workers: 4, Extractor: x})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Converted) != nfiles {
		t.Fatalf("want %d converted files, got %d", nfiles, len(res.Converted))
	}
	for pdfPath, csvPath := range res.Converted {
		rows := readCSV(t, csvPath)
		if want := []string{filepath.Base(pdfPath), "line two", "page two"}; !slices.Equal(rows, want) {
			t.Errorf("%s rows = %q, want %q", csvPath, rows, want)
		}
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 15 {
		t.Errorf("log file must be capped at 15 lines, got %d", n)
	}
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	log, _ := newLogger(t, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, log, &Options{Dir: dir, Extractor: &fakeExtractor{}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestInvalidOptions(t *testing.T) {
	log, _ := newLogger(t, 100)
	tests := []*Options{
		{},
		{Dir: t.TempDir(), StartPage: -1},
		{Dir: t.TempDir(), Workers: -2},
		{Dir: t.TempDir(), Pattern: "[a-"},
	}
	for i, opts := range tests {
		if _, err := Run(context.Background(), log, opts); !errors.Is(err, os.ErrInvalid) {
			t.Errorf("%d: want os.ErrInvalid, got %v", i, err)
		}
	}
}

func TestCSVPath(t *testing.T) {
	tests := map[string]string{
		"/data/report.pdf":     "/data/report.csv",
		"/data/report.v2.PDF":  "/data/report.v2.csv",
		"relative/noextension": "relative/noextension.csv",
	}
	for in, want := range tests {
		if got := CSVPath(in); got != want {
			t.Errorf("CSVPath(%q) = %q, want %q", in, got, want)
		}
	}
}
