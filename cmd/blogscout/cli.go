package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/jeongsoo1975/blogscout"
	"github.com/jeongsoo1975/blogscout/sqlite"
)

// BatchRunner runs collection batches. Satisfied by *crawl.Pipeline.
type BatchRunner interface {
	Collect(ctx context.Context, keywords []string, limit int) (*blogscout.BatchResult, error)
	Run(ctx context.Context, keyword string, urls []string) (*blogscout.BatchResult, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	DB      *sqlite.DB
	Records blogscout.RecordService
	Runner  BatchRunner
	Writer  blogscout.BatchWriter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Collect CollectCmd `cmd:"" help:"Search for blogs by keyword and collect their metadata"`
	Run     RunCmd     `cmd:"" help:"Collect metadata for explicitly listed blog URLs"`
	Records RecordsCmd `cmd:"" help:"List previously collected blog records"`
}

// CollectCmd is the "collect" subcommand.
type CollectCmd struct {
	Keywords []string `arg:"" help:"Search keywords, searched concurrently"`
	Limit    int      `short:"n" default:"10" help:"Maximum search results to visit per keyword"`
	PageFlags
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	URLs    []string `arg:"" help:"Blog post URLs to visit"`
	Keyword string   `short:"k" help:"Keyword label recorded with the batch"`
	PageFlags
}

// PageFlags are the page-visit settings shared by collect and run.
type PageFlags struct {
	Out      string        `short:"o" default:"output" env:"BLOGSCOUT_OUT" help:"Directory for batch output files"`
	Settle   time.Duration `default:"5s" env:"BLOGSCOUT_SETTLE" help:"Post-navigation settle delay"`
	Deadline time.Duration `default:"30s" env:"BLOGSCOUT_DEADLINE" help:"Per-page readiness deadline"`
	MinChars int           `default:"50" env:"BLOGSCOUT_MIN_CHARS" help:"Minimum accepted content length"`
	MaxChars int           `default:"6000" env:"BLOGSCOUT_MAX_CHARS" help:"Content length ceiling before truncation"`
}

// RecordsCmd is the "records" subcommand.
type RecordsCmd struct {
	Blog    string `short:"b" help:"Filter by blog ID"`
	Keyword string `short:"k" help:"Filter by source keyword"`
	Limit   int    `short:"n" default:"20" help:"Maximum records to show"`
	Full    bool   `help:"Show the stored summary for each record"`
}
