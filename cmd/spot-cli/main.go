package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cognicore/spotter/pkg/spotter"
	"github.com/cognicore/spotter/pkg/spotter/config"
	"github.com/cognicore/spotter/pkg/spotter/internalerr"
	"github.com/cognicore/spotter/pkg/spotter/spot"
	"github.com/cognicore/spotter/pkg/spotter/store/sqlite"
)

const usage = `usage: spot-cli <command> [flags] [spot...]

commands:
  clean    print the cleaned form of each spot ("" when rejected)
  enrich   print the enrichment set of each spot, one member per line
  lookup   print the titles of articles registering each spot (needs -db)
  spots    print the spots an article title registered with their df (needs -db)
  run      print the counters of an indexing run by ID (needs -db)

Without spot arguments, spots are read from stdin, one per line.
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("command required")
	}
	cmd, args := args[0], args[1:]

	fs := flag.NewFlagSet("spot-cli "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath   = fs.String("config", "", "Cleaner config file (optional)")
		stoplistPath = fs.String("stoplist", "", "Stoplist file (optional)")
		lexiconPath  = fs.String("lexicon", "", "Lexicon file (optional)")
		dbPath       = fs.String("db", "", "Database path (lookup only)")
		limit        = fs.Int("limit", 20, "Maximum titles per lookup")
		verbose      = fs.Bool("v", false, "Debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	loader := config.Loader{
		ConfigPath:   *configPath,
		StoplistPath: *stoplistPath,
		LexiconPath:  *lexiconPath,
		Logger:       logger,
	}
	components, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var handle func(string) error
	switch cmd {
	case "clean":
		handle = func(raw string) error {
			return executeClean(components.Cleaner, raw, stdout)
		}
	case "enrich":
		handle = func(raw string) error {
			return executeEnrich(components.Cleaner, raw, stdout)
		}
	case "lookup", "spots", "run":
		if *dbPath == "" {
			return fmt.Errorf("%s: --db required", cmd)
		}
		sp, cleanup, err := buildSpotter(ctx, *dbPath, components.Cleaner, logger)
		if err != nil {
			return err
		}
		defer cleanup()
		switch cmd {
		case "lookup":
			handle = func(surface string) error {
				return executeLookup(ctx, sp, surface, *limit, stdout)
			}
		case "spots":
			handle = func(title string) error {
				return executeSpots(ctx, sp, title, stdout)
			}
		default:
			handle = func(id string) error {
				return executeRun(ctx, sp, id, stdout)
			}
		}
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	if fs.NArg() > 0 {
		for _, s := range fs.Args() {
			if err := handle(s); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := handle(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func executeClean(c *spot.Cleaner, raw string, w io.Writer) error {
	cleaned, err := c.Clean(raw)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%q\t%q\n", raw, cleaned)
	return nil
}

func executeEnrich(c *spot.Cleaner, raw string, w io.Writer) error {
	set, err := c.Enrich(raw)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%q (%d)\n", raw, set.Len())
	for _, s := range set.Sorted() {
		fmt.Fprintf(w, "  %s\n", s)
	}
	return nil
}

func executeLookup(ctx context.Context, sp *spotter.Spotter, surface string, limit int, w io.Writer) error {
	titles, err := sp.Lookup(ctx, surface, limit)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	if len(titles) == 0 {
		fmt.Fprintf(w, "%q: no articles found\n", surface)
		return nil
	}
	fmt.Fprintf(w, "%q (%d)\n", surface, len(titles))
	for _, t := range titles {
		fmt.Fprintf(w, "  %s\n", t)
	}
	return nil
}

func executeSpots(ctx context.Context, sp *spotter.Spotter, title string, w io.Writer) error {
	a, err := sp.ArticleSpots(ctx, title)
	if errors.Is(err, internalerr.ErrNotFound) {
		fmt.Fprintf(w, "%q: not indexed\n", title)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%q (%d, run %s)\n", a.Title, len(a.Spots), a.RunID)
	if a.Redirect != "" {
		fmt.Fprintf(w, "  -> %s\n", a.Redirect)
	}
	for _, s := range a.Spots {
		df, err := sp.SpotDF(ctx, s)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s\tdf=%d\n", s, df)
	}
	return nil
}

func executeRun(ctx context.Context, sp *spotter.Spotter, id string, w io.Writer) error {
	r, err := sp.Run(ctx, id)
	if errors.Is(err, internalerr.ErrNotFound) {
		fmt.Fprintf(w, "run %s: not found\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	state := "open"
	if r.Finished() {
		state = "finished"
	}
	fmt.Fprintf(w, "run %s: %s, %d articles, %d spots, %d failed\n", r.ID, state, r.Articles, r.Spots, r.Failed)
	return nil
}

func buildSpotter(ctx context.Context, dbPath string, cleaner *spot.Cleaner, logger *slog.Logger) (*spotter.Spotter, func(), error) {
	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	sp, err := spotter.New(spotter.Options{Store: st, Cleaner: cleaner, Logger: logger})
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	cleanup := func() {
		sp.Close()
	}
	return sp, cleanup, nil
}
