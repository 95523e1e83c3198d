// Copyright (c) 2024 BVK Chaitanya

package linelog

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"
)

func TestLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.log")

	r := NewRegistry()
	defer r.Close()

	log, err := r.Logger(path, &Options{Level: LevelWarning})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("x")
	log.Info("y")
	log.Warning("z")

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("want 1 line, got %d: %q", len(lines), lines)
	}
	if got := messageOf(t, lines[0]); got != "z" {
		t.Errorf("message = %q, want %q", got, "z")
	}
}

func TestLineFormat(t *testing.T) {
	dir := t.TempDir()

	r := NewRegistry()
	defer r.Close()

	tests := []struct {
		at   time.Time
		want string
	}{
		{
			at:   time.Date(2024, 3, 1, 10, 15, 30, 123456789, time.UTC),
			want: "INFO | 2024-03-01T10:15:30.123456+00:00 | logger_%s | Searching for PDF files in directory: /data",
		},
		{
			at:   time.Date(2024, 12, 31, 23, 5, 9, 0, time.FixedZone("", -(5*3600 + 30*60))),
			want: "INFO | 2024-12-31T23:05:09.000000-05:30 | logger_%s | Searching for PDF files in directory: /data",
		},
		{
			at:   time.Date(2025, 7, 4, 1, 2, 3, 4000, time.FixedZone("", 9*3600)),
			want: "INFO | 2025-07-04T01:02:03.000004+09:00 | logger_%s | Searching for PDF files in directory: /data",
		},
	}
	for i, test := range tests {
		path := filepath.Join(dir, fmt.Sprintf("format%d.log", i))
		r.now = func() time.Time { return test.at }

		log, err := r.Logger(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := log.Infof("Searching for PDF files in directory: %s", "/data"); err != nil {
			t.Fatal(err)
		}
		lines := readLines(t, path)
		if want := fmt.Sprintf(test.want, path); len(lines) != 1 || lines[0] != want {
			t.Errorf("%d: got %q, want %q", i, lines, want)
		}
	}
}

func TestLoggerName(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	path := filepath.Join(t.TempDir(), "pdf_to_csv.log")
	log, err := r.Logger(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := "logger_" + path; log.Name() != want {
		t.Errorf("logger name = %q, want %q", log.Name(), want)
	}
}

func TestLevelNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.log")

	r := NewRegistry()
	defer r.Close()

	log, err := r.Logger(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("m")
	log.Info("m")
	log.Warning("m")
	log.Error("m")
	log.Critical("m")

	lines := readLines(t, path)
	want := []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}
	if len(lines) != len(want) {
		t.Fatalf("want %d lines, got %d", len(want), len(lines))
	}
	for i, level := range want {
		if got := lines[i][:len(level)+3]; got != level+" | " {
			t.Errorf("line %d starts with %q, want %q", i, got, level+" | ")
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		fail  bool
	}{
		{name: "debug", level: LevelDebug},
		{name: "INFO", level: LevelInfo},
		{name: "Warn", level: LevelWarning},
		{name: "warning", level: LevelWarning},
		{name: " error ", level: LevelError},
		{name: "CRITICAL", level: LevelCritical},
		{name: "fatal", fail: true},
		{name: "", fail: true},
	}
	for _, test := range tests {
		level, err := ParseLevel(test.name)
		if test.fail {
			if err == nil {
				t.Errorf("ParseLevel(%q) must fail", test.name)
			}
			continue
		}
		if err != nil || level != test.level {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", test.name, level, err, test.level)
		}
		if again, err := ParseLevel(level.String()); err != nil || again != level {
			t.Errorf("level %v does not parse back from its name", level)
		}
	}
}

func TestAttachIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attach.log")

	r := NewRegistry()
	defer r.Close()

	log, err := r.Logger(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := r.Sink(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if log.Attach(s) {
		t.Fatalf("sink was already attached by Logger")
	}
	log.Info("once")
	if lines := readLines(t, path); len(lines) != 1 {
		t.Fatalf("want 1 line, got %d", len(lines))
	}
}

func TestConcurrentEmission(t *testing.T) {
	const (
		maxLines   = 20
		goroutines = 8
		messages   = 50
	)
	path := filepath.Join(t.TempDir(), "concurrent.log")

	r := NewRegistry()
	defer r.Close()

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			log, err := r.Logger(path, &Options{Level: LevelDebug, MaxLines: maxLines})
			if err != nil {
				t.Error(err)
				return
			}
			for i := 0; i < messages; i++ {
				if err := log.Infof("goroutine %d message %d", g, i); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	lineRe := regexp.MustCompile(`^INFO \| \d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{6}[+-]\d{2}:\d{2} \| logger_.* \| goroutine \d+ message \d+$`)
	lines := readLines(t, path)
	if len(lines) != maxLines {
		t.Fatalf("want %d lines, got %d", maxLines, len(lines))
	}
	for i, line := range lines {
		if !lineRe.MatchString(line) {
			t.Errorf("line %d is malformed: %q", i, line)
		}
	}
}
