package spotter

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/spotter/pkg/spotter/article"
	"github.com/cognicore/spotter/pkg/spotter/internalerr"
	"github.com/cognicore/spotter/pkg/spotter/spot"
	"github.com/cognicore/spotter/pkg/spotter/store"
)

// Spotter is the indexing facade: it cleans and enriches article spots and
// persists them, grouped into runs.
type Spotter struct {
	store   store.Store
	cleaner *spot.Cleaner
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex // guards entropy and run counters
	entropy *ulid.MonotonicEntropy
}

// Options configures a Spotter instance
type Options struct {
	Store   store.Store
	Cleaner *spot.Cleaner // nil -> spot.New(spot.Options{})
	Logger  *slog.Logger
}

// New creates a Spotter with the given dependencies
func New(opts Options) (*Spotter, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("spotter: nil store: %w", internalerr.ErrInvalidConfig)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cleaner := opts.Cleaner
	if cleaner == nil {
		var err error
		if cleaner, err = spot.New(spot.Options{Logger: logger}); err != nil {
			return nil, err
		}
	}
	return &Spotter{
		store:   opts.Store,
		cleaner: cleaner,
		logger:  logger,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close cleanly shuts down the Spotter instance
func (s *Spotter) Close() error {
	return s.store.Close()
}

// Cleaner returns the cleaner used for indexing and lookups.
func (s *Spotter) Cleaner() *spot.Cleaner { return s.cleaner }

// StartRun opens a new indexing run and persists it.
func (s *Spotter) StartRun(ctx context.Context) (*store.Run, error) {
	now := s.now()

	s.mu.Lock()
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("run id: %w", err)
	}

	run := &store.Run{ID: id.String(), StartedAt: now.UTC()}
	if err := s.store.UpsertRun(ctx, *run); err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	s.logger.Info("run started", "run", run.ID)
	return run, nil
}

// IndexArticle registers every spot of a under run and returns how many were
// stored. Invalid articles and tokenizer failures count as failed.
func (s *Spotter) IndexArticle(ctx context.Context, run *store.Run, a *article.Article) (int, error) {
	if run == nil {
		return 0, fmt.Errorf("index article: nil run: %w", internalerr.ErrInvalidInput)
	}
	if err := a.Validate(); err != nil {
		s.recordFailure(run)
		return 0, err
	}

	spots, err := s.cleaner.AllSpots(a)
	if err != nil {
		s.recordFailure(run)
		return 0, fmt.Errorf("index %q: %w", a.Title, err)
	}

	rec := store.ArticleSpots{
		Title: a.Title,
		RunID: run.ID,
		Spots: spots.Sorted(),
	}
	if a.IsRedirect {
		rec.Redirect = a.RedirectNoAnchor()
	}
	if err := s.store.UpsertArticleSpots(ctx, rec); err != nil {
		s.recordFailure(run)
		return 0, fmt.Errorf("store %q: %w", a.Title, err)
	}

	s.mu.Lock()
	run.Articles++
	run.Spots += int64(len(rec.Spots))
	s.mu.Unlock()

	s.logger.Debug("article indexed", "title", a.Title, "spots", len(rec.Spots), "redirect", a.IsRedirect)
	return len(rec.Spots), nil
}

func (s *Spotter) recordFailure(run *store.Run) {
	s.mu.Lock()
	run.Failed++
	s.mu.Unlock()
}

// FinishRun stamps the run's end time and persists its counters.
func (s *Spotter) FinishRun(ctx context.Context, run *store.Run) error {
	s.mu.Lock()
	run.FinishedAt = s.now().UTC()
	snapshot := *run
	s.mu.Unlock()

	if err := s.store.UpsertRun(ctx, snapshot); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	s.logger.Info("run finished",
		"run", snapshot.ID,
		"articles", snapshot.Articles,
		"spots", snapshot.Spots,
		"failed", snapshot.Failed,
		"elapsed", snapshot.FinishedAt.Sub(snapshot.StartedAt))
	return nil
}

// Lookup returns the titles of articles registering surface. Both the
// cleaned form and, when it differs, the surface as given are queried, since
// raw baselines are stored uncleaned.
func (s *Spotter) Lookup(ctx context.Context, surface string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = store.DefaultLimit
	}
	cleaned, err := s.cleaner.Clean(surface)
	if err != nil {
		return nil, err
	}

	keys := spot.NewSet(cleaned, surface)
	seen := make(map[string]struct{})
	var titles []string
	for _, key := range keys.Sorted() {
		found, err := s.store.ArticlesForSpot(ctx, key, limit)
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", key, err)
		}
		for _, t := range found {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			titles = append(titles, t)
		}
	}

	sort.Strings(titles)
	if len(titles) > limit {
		titles = titles[:limit]
	}
	return titles, nil
}

// ArticleSpots returns what title registered. Unknown titles yield
// internalerr.ErrNotFound.
func (s *Spotter) ArticleSpots(ctx context.Context, title string) (store.ArticleSpots, error) {
	a, found, err := s.store.GetArticleSpots(ctx, title)
	if err != nil {
		return store.ArticleSpots{}, fmt.Errorf("article %q: %w", title, err)
	}
	if !found {
		return store.ArticleSpots{}, fmt.Errorf("article %q: %w", title, internalerr.ErrNotFound)
	}
	return a, nil
}

// SpotDF returns how many articles registered spot, as stored.
func (s *Spotter) SpotDF(ctx context.Context, spot string) (int64, error) {
	df, err := s.store.SpotDF(ctx, spot)
	if err != nil {
		return 0, fmt.Errorf("df %q: %w", spot, err)
	}
	return df, nil
}

// Run returns the stored state of an indexing run. Unknown IDs yield
// internalerr.ErrNotFound.
func (s *Spotter) Run(ctx context.Context, id string) (store.Run, error) {
	run, found, err := s.store.GetRun(ctx, id)
	if err != nil {
		return store.Run{}, fmt.Errorf("run %s: %w", id, err)
	}
	if !found {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return run, nil
}
