// Copyright (c) 2024 BVK Chaitanya

package subcmds

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/bvk/pdfscrape/dirlock"
	"github.com/bvk/pdfscrape/inifile"
	"github.com/bvk/pdfscrape/linelog"
	"github.com/bvk/pdfscrape/scrape"
	"github.com/bvk/pdfscrape/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

// Config file section and options read by the scrape command.
const (
	PathsSection     = "Paths"
	PDFDirectoryPath = "PDFDirectoryPath"
	StartPage        = "StartPage"
)

type Scrape struct {
	cmdutil.ConfigFlags

	Registry *linelog.Registry

	dir       string
	startPage int
	pattern   string
	workers   int

	lockTimeout time.Duration
}

func (c *Scrape) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("scrape", flag.ContinueOnError)
	c.ConfigFlags.SetFlags(fset, true /* mirror */)
	fset.StringVar(&c.dir, "dir", "", "PDF directory; overrides the config file value")
	fset.IntVar(&c.startPage, "start-page", 0, "First page (one based) to extract; overrides the config file value")
	fset.StringVar(&c.pattern, "pattern", "*.pdf", "Pattern for the PDF files relative to the PDF directory")
	fset.IntVar(&c.workers, "workers", 1, "Number of PDF files converted concurrently")
	fset.DurationVar(&c.lockTimeout, "lock-timeout", 0, "How long to wait for another scrape of the same directory to finish")
	return "scrape", fset, cli.CmdFunc(c.run)
}

func (c *Scrape) Purpose() string {
	return "Extracts text lines of PDF files into CSV files"
}

func (c *Scrape) Description() string {
	return `

Command "scrape" converts every PDF file in a directory into a CSV file with
the same base name. Each line of text on the pages, starting at the configured
start page, becomes one single-column CSV row.

CONFIG FILE

The PDF directory and the start page are read from the config file unless they
are given on the command line:

    [Paths]
    PDFDirectoryPath = /data/pdfs
    StartPage = 1

LOG FILE

Progress is logged to the log file, which is trimmed to its most recent
-max-lines lines after every message.

`
}

func (c *Scrape) run(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}
	if c.Registry == nil {
		c.Registry = linelog.Default()
	}

	config, log, err := c.GetConfig(c.Registry)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(log.Handler()))

	dir, startPage, err := c.resolve(config)
	if err != nil {
		log.Errorf("Invalid configuration: %v", err)
		return err
	}

	lockPath := filepath.Join(dir, ".pdfscrape.lock")
	flock, err := dirlock.Acquire(ctx, lockPath, c.lockTimeout)
	if err != nil {
		log.Errorf("Another scrape is running on %s: %v", dir, err)
		return err
	}
	defer flock.Unlock()

	opts := &scrape.Options{
		Dir:       dir,
		Pattern:   c.pattern,
		StartPage: startPage,
		Workers:   c.workers,
	}
	res, err := scrape.Run(ctx, log, opts)
	if res != nil {
		slog.InfoContext(ctx, "scrape finished", "run", res.RunID, "converted", len(res.Converted), "failed", len(res.Failed))
	}
	return err
}

// resolve returns the PDF directory and start page from the flags, falling
// back to the config file.
func (c *Scrape) resolve(config *inifile.File) (string, int, error) {
	dir := c.dir
	if len(dir) == 0 {
		v, err := config.Get(PathsSection, PDFDirectoryPath)
		if err != nil {
			return "", 0, fmt.Errorf("pdf directory is not configured: %w", err)
		}
		dir = v
	}
	if finfo, err := os.Stat(dir); err != nil {
		return "", 0, fmt.Errorf("could not stat pdf directory %q: %w", dir, err)
	} else if !finfo.IsDir() {
		return "", 0, fmt.Errorf("pdf directory %q is not a directory: %w", dir, os.ErrInvalid)
	}

	startPage := c.startPage
	if startPage == 0 {
		v, err := config.Get(PathsSection, StartPage)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return "", 0, err
			}
			v = "1"
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", 0, fmt.Errorf("invalid start page %q: %w", v, os.ErrInvalid)
		}
		startPage = n
	}
	if startPage < 1 {
		return "", 0, fmt.Errorf("start page must be at least 1, got %d: %w", startPage, os.ErrInvalid)
	}
	return dir, startPage, nil
}
