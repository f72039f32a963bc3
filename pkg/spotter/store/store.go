package store

import (
	"context"
	"time"
)

// Store is the main interface for persisting and querying spot registrations
type Store interface {
	Close() error

	// Articles & spots
	UpsertArticleSpots(ctx context.Context, a ArticleSpots) error
	GetArticleSpots(ctx context.Context, title string) (ArticleSpots, bool, error)
	ArticlesForSpot(ctx context.Context, spot string, limit int) ([]string, error)
	SpotDF(ctx context.Context, spot string) (int64, error)

	// Indexing runs
	UpsertRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
}

// ArticleSpots is the set of spots one article registers. Upserting replaces
// the previous set for the same title.
type ArticleSpots struct {
	Title    string
	Redirect string // empty unless the article is a redirect
	RunID    string
	Spots    []string
}

// Run records one indexing pass.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero while running
	Articles   int64
	Spots      int64
	Failed     int64
}

// Finished reports whether the run has been closed.
func (r Run) Finished() bool { return !r.FinishedAt.IsZero() }

// DefaultLimit caps ArticlesForSpot when the caller passes limit <= 0.
const DefaultLimit = 20
