package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/spotter/pkg/spotter/internalerr"
	"github.com/cognicore/spotter/pkg/spotter/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	articles map[string]store.ArticleSpots
	bySpot   map[string]map[string]struct{} // spot -> titles
	runs     map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		articles: make(map[string]store.ArticleSpots),
		bySpot:   make(map[string]map[string]struct{}),
		runs:     make(map[string]store.Run),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertArticleSpots replaces the spot set registered for a.Title.
func (s *Store) UpsertArticleSpots(ctx context.Context, a store.ArticleSpots) error {
	if a.Title == "" {
		return fmt.Errorf("upsert article spots: empty title: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.articles[a.Title]; ok {
		for _, sp := range old.Spots {
			titles := s.bySpot[sp]
			delete(titles, a.Title)
			if len(titles) == 0 {
				delete(s.bySpot, sp)
			}
		}
	}

	a.Spots = store.UniqueSpots(a.Spots)
	for _, sp := range a.Spots {
		titles, ok := s.bySpot[sp]
		if !ok {
			titles = make(map[string]struct{})
			s.bySpot[sp] = titles
		}
		titles[a.Title] = struct{}{}
	}
	s.articles[a.Title] = a
	return nil
}

// GetArticleSpots returns the spots registered for title.
func (s *Store) GetArticleSpots(ctx context.Context, title string) (store.ArticleSpots, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[title]
	if !ok {
		return store.ArticleSpots{}, false, nil
	}
	return copyArticle(a), true, nil
}

// ArticlesForSpot returns the titles registering spot, sorted.
func (s *Store) ArticlesForSpot(ctx context.Context, spot string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = store.DefaultLimit
	}
	titles := make([]string, 0, len(s.bySpot[spot]))
	for t := range s.bySpot[spot] {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	if len(titles) > limit {
		titles = titles[:limit]
	}
	return titles, nil
}

// SpotDF returns the number of articles registering spot.
func (s *Store) SpotDF(ctx context.Context, spot string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.bySpot[spot])), nil
}

// UpsertRun stores r, keyed by ID.
func (s *Store) UpsertRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("upsert run: empty id: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = r
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	return r, ok, nil
}

func copyArticle(a store.ArticleSpots) store.ArticleSpots {
	spots := make([]string, len(a.Spots))
	copy(spots, a.Spots)
	a.Spots = spots
	return a
}
