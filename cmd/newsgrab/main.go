package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"newsgrab"
	"newsgrab/csv"
	"newsgrab/goquery"
	"newsgrab/openrouter"
	"newsgrab/pipeline"
	"newsgrab/rod"
	"newsgrab/sqlite"
	"newsgrab/trafilatura"
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
	// Config path. Set before calling Run().
	ConfigPath string

	// SQLite database used by the article service.
	DB *sqlite.DB

	// Service for end-to-end testing.
	ArticleService newsgrab.ArticleService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: defaultConfigPath(),
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
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("newsgrab"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'newsgrab --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	configPath := m.ConfigPath
	if cli.Config != "" {
		configPath = cli.Config
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	deps.Config = cfg

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	m.DB = sqlite.NewDB(cfg.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set NEWSGRAB_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cfg.DBPath, err)
	}
	defer m.Close()

	m.ArticleService = sqlite.NewArticleService(m.DB)
	deps.DB = m.DB
	deps.Articles = m.ArticleService
	deps.Exporter = csv.NewExporter()

	if cmd == "scrape" {
		extractor, err := newExtractor(ctx, cfg, deps.Logger, cli.Scrape.DiscoverModels)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set OPENROUTER_API_KEY. Get a key at https://openrouter.ai/")
			return err
		}

		managerOpts := []rod.ManagerOption{}
		if cfg.Headless != nil {
			managerOpts = append(managerOpts, rod.WithHeadless(*cfg.Headless))
		}
		manager, err := rod.NewBrowserManager(managerOpts...)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher := rod.NewLoggingFetcher(rod.NewFetcher(manager), deps.Logger)
		defer fetcher.Close()

		deps.Pipeline = &pipeline.Pipeline{
			Fetcher:     fetcher,
			Reducer:     newReducer(cfg),
			Extractor:   extractor,
			Articles:    m.ArticleService,
			RateLimiter: pipeline.NewDomainLimiter(cfg.RateLimitRPS),
			Logger:      deps.Logger,
			Concurrency: resolveConcurrency(cfg, cli.Scrape.Concurrency),
		}
	}

	return kongCtx.Run(deps)
}

// newExtractor builds the OpenRouter extractor from config, optionally
// refreshing the model list from the live catalog.
func newExtractor(ctx context.Context, cfg *Config, logger *slog.Logger, discover bool) (*openrouter.Extractor, error) {
	opts := []openrouter.Option{openrouter.WithLogger(logger)}
	if len(cfg.Models) > 0 {
		opts = append(opts, openrouter.WithModels(cfg.Models))
	}
	extractor, err := openrouter.NewExtractor(cfg.APIKey, opts...)
	if err != nil {
		return nil, err
	}
	if discover {
		extractor, err = openrouter.NewExtractor(cfg.APIKey,
			openrouter.WithLogger(logger),
			openrouter.WithModels(extractor.DiscoverFreeModels(ctx)))
		if err != nil {
			return nil, err
		}
	}
	return extractor, nil
}

// resolveConcurrency picks the scrape concurrency: the flag beats the
// config file, and zero falls through to the pipeline default.
func resolveConcurrency(cfg *Config, flag int) int {
	if flag > 0 {
		return flag
	}
	return cfg.Concurrency
}

// newReducer picks the content reduction strategy from config.
func newReducer(cfg *Config) newsgrab.Reducer {
	switch cfg.Reducer {
	case "trafilatura":
		return trafilatura.NewReducer()
	case "candidates":
		return goquery.NewCandidateReducer()
	default:
		return goquery.NewReducer()
	}
}
