// Command distill crawls a documentation site and streams distilled
// markdown sections to a single output file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	"github.com/fwojciec/distill/fs"
	"github.com/fwojciec/distill/gemini"
	"github.com/fwojciec/distill/goquery"
	"github.com/fwojciec/distill/htmltomarkdown"
	dhttp "github.com/fwojciec/distill/http"
	"github.com/fwojciec/distill/markdown"
	dslog "github.com/fwojciec/distill/slog"
	"github.com/fwojciec/distill/trafilatura"
	"github.com/joho/godotenv"
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
	// NewDistiller builds the distillation stage. Overridable in tests so
	// the CLI can be exercised without a Gemini API key.
	NewDistiller func(ctx context.Context) (distill.Distiller, error)
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{NewDistiller: newGeminiDistiller}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("distill"),
		kong.Description("Crawl a documentation site and distill it to a single markdown file"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	var file *ConfigFile
	if path := FindConfigFile(cli.Config); path != "" {
		file, err = LoadConfigFile(path)
		if err != nil {
			return fmt.Errorf("load config file %q: %w", path, err)
		}
	} else if cli.Config != "" {
		return fmt.Errorf("config file %q: %w", cli.Config, ErrConfigNotFound)
	}

	cfg, name, err := BuildConfig(cli, file)
	if err != nil {
		return err
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if !cli.Verbose {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	distiller, err := m.NewDistiller(ctx)
	if err != nil {
		return err
	}

	fetcher := dslog.NewLoggingFetcher(
		dhttp.NewFetcher(goquery.NewLinkExtractor()),
		logger,
	)
	defer fetcher.Close()

	writer, err := fs.NewStreamWriter(cli.Out, name, name)
	if err != nil {
		return err
	}
	defer writer.Close()

	crawler := &crawl.Crawler{
		Fetcher:     fetcher,
		Extractor:   trafilatura.NewExtractor(),
		Converter:   htmltomarkdown.NewConverter(),
		Distiller:   dslog.NewLoggingDistiller(distiller, logger),
		Writer:      writer,
		RateLimiter: crawl.NewDomainLimiter(cfg.RequestsPerSecond),
		Sitemaps:    dslog.NewLoggingSitemapService(dhttp.NewSitemapService(nil), logger),
	}

	begin := time.Now()
	stats, runErr := crawler.Run(ctx, cfg, func(event crawl.ProgressEvent) {
		printProgress(stdout, event)
	})

	if stats != nil {
		summary, err := markdown.NewSummaryWriter().Render(markdown.Summary{
			SeedURL:    cfg.SeedURL,
			OutputPath: writer.Path(),
			Visited:    stats.Visited,
			Extracted:  stats.Extracted,
			Failed:     stats.Failed,
			Skipped:    stats.Skipped,
			Bytes:      stats.Bytes,
			Elapsed:    time.Since(begin),
		})
		if err == nil {
			fmt.Fprintln(stdout)
			fmt.Fprint(stdout, summary)
			if werr := writer.WriteSummary(summary); werr != nil && runErr == nil {
				runErr = werr
			}
		}
	}

	return runErr
}

// printProgress writes one line per page event.
func printProgress(w io.Writer, event crawl.ProgressEvent) {
	switch event.Type {
	case crawl.ProgressStarted:
		fmt.Fprintf(w, "crawling %s\n", event.URL)
	case crawl.ProgressCompleted:
		fmt.Fprintf(w, "  ok      depth=%d %s\n", event.Depth, event.URL)
	case crawl.ProgressFailed:
		fmt.Fprintf(w, "  failed  depth=%d %s: %v\n", event.Depth, event.URL, event.Error)
	case crawl.ProgressSkipped:
		fmt.Fprintf(w, "  skipped depth=%d %s\n", event.Depth, event.URL)
	case crawl.ProgressFinished:
		fmt.Fprintf(w, "done\n")
	}
}

// newGeminiDistiller builds the production distiller. The API key is read
// from the environment, with .env as a fallback source.
func newGeminiDistiller(ctx context.Context) (distill.Distiller, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set (export it or add it to .env)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return gemini.NewDistiller(client), nil
}
