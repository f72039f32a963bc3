package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/spotter/internal/wikidump"
	"github.com/cognicore/spotter/pkg/spotter"
	"github.com/cognicore/spotter/pkg/spotter/article"
	"github.com/cognicore/spotter/pkg/spotter/config"
	"github.com/cognicore/spotter/pkg/spotter/internalerr"
	"github.com/cognicore/spotter/pkg/spotter/store"
	"github.com/cognicore/spotter/pkg/spotter/store/sqlite"
)

// progressEvery controls how often indexing progress is logged.
const progressEvery = 1000

func main() {
	var (
		dbPath       = flag.String("db", "", "Database path (required)")
		inputPath    = flag.String("input", "", "Input JSONL file of articles")
		htmlDir      = flag.String("html-dir", "", "Directory of rendered article pages (*.html)")
		configPath   = flag.String("config", "", "Cleaner config file (optional)")
		stoplistPath = flag.String("stoplist", "", "Stoplist file (optional, overrides config)")
		lexiconPath  = flag.String("lexicon", "", "Lexicon file (optional, overrides config)")
		workers      = flag.Int("workers", 4, "Concurrent indexing workers")
		verbose      = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	logger := newLogger(*verbose)

	if *dbPath == "" {
		fatal(logger, "--db required")
	}
	if (*inputPath == "") == (*htmlDir == "") {
		fatal(logger, "exactly one of --input or --html-dir required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := indexerOptions{
		dbPath:  *dbPath,
		input:   *inputPath,
		htmlDir: *htmlDir,
		loader: config.Loader{
			ConfigPath:   *configPath,
			StoplistPath: *stoplistPath,
			LexiconPath:  *lexiconPath,
			Logger:       logger,
		},
		workers: *workers,
	}
	if err := runIndexer(ctx, opts, logger); err != nil {
		fatal(logger, "Indexing failed", "error", err)
	}
}

type indexerOptions struct {
	dbPath  string
	input   string
	htmlDir string
	loader  config.Loader
	workers int
}

// runIndexer wires config, store and spotter together and indexes one source.
func runIndexer(ctx context.Context, opts indexerOptions, logger *slog.Logger) error {
	components, err := opts.loader.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	st, err := sqlite.OpenSQLite(ctx, opts.dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	sp, err := spotter.New(spotter.Options{Store: st, Cleaner: components.Cleaner, Logger: logger})
	if err != nil {
		st.Close()
		return err
	}
	defer sp.Close()

	src := htmlSource(opts.htmlDir, logger)
	if opts.input != "" {
		src = jsonlSource(opts.input, logger)
	}

	run, err := sp.StartRun(ctx)
	if err != nil {
		return err
	}

	indexErr := indexAll(ctx, sp, run, src, opts.workers, logger)
	// Record the run even when indexing aborted, so partial counts survive.
	if err := sp.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Error("Failed to finish run", "run", run.ID, "error", err)
	}
	if indexErr != nil {
		return fmt.Errorf("run %s: %w", run.ID, indexErr)
	}
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func fatal(logger *slog.Logger, msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}

// source feeds articles to fn until exhausted or fn fails.
type source func(fn func(article.Article) error) error

func jsonlSource(path string, logger *slog.Logger) source {
	return func(fn func(article.Article) error) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("read file %s: %w", path, err)
		}
		defer f.Close()

		n, err := wikidump.ScanJSONL(f, path, logger, fn)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("no valid articles found in %s", path)
		}
		return nil
	}
}

func htmlSource(dir string, logger *slog.Logger) source {
	return func(fn func(article.Article) error) error {
		articles, err := wikidump.LoadHTMLDir(dir, logger)
		if err != nil {
			return err
		}
		for _, a := range articles {
			if err := fn(a); err != nil {
				return err
			}
		}
		return nil
	}
}

// indexAll indexes every article from src on a bounded worker pool.
// Invalid articles and store errors are logged and counted on the run;
// tokenizer failures abort the whole pass.
func indexAll(ctx context.Context, sp *spotter.Spotter, run *store.Run, src source, workers int, logger *slog.Logger) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var processed atomic.Int64
	srcErr := src(func(a article.Article) error {
		if err := gctx.Err(); err != nil {
			return err
		}
		g.Go(func() error {
			n, err := sp.IndexArticle(gctx, run, &a)
			if done := processed.Add(1); done%progressEvery == 0 {
				logger.Info("Indexing progress", "run", run.ID, "articles", done)
			}
			switch {
			case err == nil:
				logger.Debug("Indexed article", "title", a.Title, "spots", n)
				return nil
			case errors.Is(err, internalerr.ErrTokenize):
				return err
			default:
				logger.Warn("Failed to index article", "title", a.Title, "error", err)
				return nil
			}
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if srcErr != nil {
		return srcErr
	}
	logger.Info("Indexing complete", "run", run.ID, "articles", processed.Load())
	return nil
}
