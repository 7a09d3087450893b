package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/jeongsoo1975/blogscout"
	"github.com/jeongsoo1975/blogscout/bloom"
	"github.com/jeongsoo1975/blogscout/crawl"
	"github.com/jeongsoo1975/blogscout/extract"
	"github.com/jeongsoo1975/blogscout/fs"
	"github.com/jeongsoo1975/blogscout/gemini"
	"github.com/jeongsoo1975/blogscout/goquery"
	bshttp "github.com/jeongsoo1975/blogscout/http"
	"github.com/jeongsoo1975/blogscout/readability"
	"github.com/jeongsoo1975/blogscout/rod"
	bslog "github.com/jeongsoo1975/blogscout/slog"
	"github.com/jeongsoo1975/blogscout/sqlite"
	"github.com/jeongsoo1975/blogscout/tool"
	"github.com/jeongsoo1975/blogscout/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RecordService blogscout.RecordService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("blogscout"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'blogscout --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Verbose)
	deps.Logger = logger

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set BLOGSCOUT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.RecordService = sqlite.NewRecordService(m.DB)
	deps.DB = m.DB
	deps.Records = m.RecordService

	// Browser and model wiring only for the commands that visit pages.
	if cmd == "collect" || cmd == "run" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		tokenCounter, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}

		page := cli.Run.PageFlags
		if cmd == "collect" {
			page = cli.Collect.PageFlags
		}

		gate := crawl.NewGate(logger)
		gate.Settle = page.Settle
		gate.Deadline = page.Deadline

		normalizer := extract.NewNormalizer(logger)
		normalizer.Min = page.MinChars
		normalizer.Max = page.MaxChars

		manager := rod.NewLoggingSessionManager(rod.NewManager(), logger)
		article := extract.ArticleChain{trafilatura.NewExtractor(), readability.NewExtractor()}
		engine := extract.NewEngine(goquery.NewDetector(), article, logger, extract.WithMinLength(page.MinChars))
		transport := bslog.NewLoggingTransport(gemini.NewTransport(client), logger)
		searcher := bslog.NewLoggingSearcher(bshttp.NewSearcher(), logger)
		catalog := tool.DefaultCatalog()

		deps.Runner = crawl.NewPipeline(
			manager,
			gate,
			engine,
			normalizer,
			transport,
			tool.NewInterpreter(catalog, logger),
			catalog,
			logger,
			crawl.WithSearcher(searcher),
			crawl.WithFeedProber(bshttp.NewFeedProber(nil)),
			crawl.WithDeduper(bloom.NewFilter(dedupeCapacity, dedupeFPRate)),
			crawl.WithRecordService(m.RecordService),
			crawl.WithTokenCounter(tokenCounter, promptTokenBudget),
		)
		deps.Writer = fs.NewWriter(page.Out)
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for token counting; it must be a model the
// local tokenizer in google.golang.org/genai/tokenizer supports.
const tokenizerModel = "gemini-2.5-flash"

// promptTokenBudget is the soft limit checked before each model round
// trip. Overages are logged, not rejected.
const promptTokenBudget = 8192

// Bloom filter sizing for in-process URL deduplication.
const (
	dedupeCapacity = 100_000
	dedupeFPRate   = 0.01
)

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("BLOGSCOUT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "blogscout.db"
	}
	dir := filepath.Join(home, ".blogscout")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "blogscout.db")
}
