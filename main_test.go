// Copyright (c) 2023 BVK Chaitanya

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bvk/pdfscrape/linelog"
	"github.com/visvasity/cli"
)

func TestCommandTree(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.ini")
	logFile := filepath.Join(dir, "pdfscrape.log")
	pdfDir := filepath.Join(dir, "pdfs")
	if err := os.Mkdir(pdfDir, 0755); err != nil {
		t.Fatal(err)
	}

	reg := linelog.NewRegistry()
	defer reg.Close()
	cmds := commands(reg)

	ctx := context.Background()
	args := []string{"config", "set", "-config", configFile, "-log-file", logFile, "Paths", "PDFDirectoryPath", pdfDir}
	if err := cli.Run(ctx, cmds, args); err != nil {
		t.Fatalf("config set: %v", err)
	}
	data, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if want := "[Paths]\npdfdirectorypath = " + pdfDir + "\n\n"; string(data) != want {
		t.Fatalf("config file = %q, want %q", data, want)
	}

	args = []string{"scrape", "-config", configFile, "-log-file", logFile, "-mirror=false"}
	if err := cli.Run(ctx, cmds, args); err != nil {
		t.Fatalf("scrape: %v", err)
	}
	logs, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(logs), "No PDF files found in the specified directory.") {
		t.Errorf("scrape did not run against the configured directory:\n%s", logs)
	}
}
