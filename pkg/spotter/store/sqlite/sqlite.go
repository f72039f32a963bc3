package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/spotter/pkg/spotter/internalerr"
	"github.com/cognicore/spotter/pkg/spotter/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, internalerr.ErrStoreUnavailable, err)
	}
	// Pragmas are per connection; a single connection also serializes writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w: %w", p, internalerr.ErrStoreUnavailable, err)
		}
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT UNIQUE NOT NULL,
	redirect TEXT NOT NULL DEFAULT '',
	run_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS article_spots (
	article_id INTEGER NOT NULL,
	spot TEXT NOT NULL,
	UNIQUE(article_id, spot),
	FOREIGN KEY(article_id) REFERENCES articles(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_article_spots_spot ON article_spots(spot);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL DEFAULT '',
	articles INTEGER NOT NULL DEFAULT 0,
	spots INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertArticleSpots inserts or updates an article and replaces its spots
func (s *sqliteStore) UpsertArticleSpots(ctx context.Context, a store.ArticleSpots) error {
	if a.Title == "" {
		return fmt.Errorf("upsert article spots: empty title: %w", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO articles (title, redirect, run_id)
VALUES (?, ?, ?)
ON CONFLICT(title) DO UPDATE SET
	redirect=excluded.redirect,
	run_id=excluded.run_id
RETURNING id;
`

	var articleID int64
	if err := tx.QueryRowContext(ctx, stmt, a.Title, a.Redirect, a.RunID).Scan(&articleID); err != nil {
		return err
	}

	if err := replaceArticleSpots(ctx, tx, articleID, store.UniqueSpots(a.Spots)); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceArticleSpots(ctx context.Context, tx *sql.Tx, articleID int64, spots []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM article_spots WHERE article_id=?`, articleID); err != nil {
		return err
	}
	if len(spots) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO article_spots (article_id, spot) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, sp := range spots {
		if _, err := stmt.ExecContext(ctx, articleID, sp); err != nil {
			return err
		}
	}
	return nil
}

// GetArticleSpots retrieves an article and its spots by title
func (s *sqliteStore) GetArticleSpots(ctx context.Context, title string) (store.ArticleSpots, bool, error) {
	var (
		id int64
		a  = store.ArticleSpots{Title: title}
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, redirect, run_id FROM articles WHERE title=?`, title,
	).Scan(&id, &a.Redirect, &a.RunID)
	if err == sql.ErrNoRows {
		return store.ArticleSpots{}, false, nil
	}
	if err != nil {
		return store.ArticleSpots{}, false, err
	}

	spots, err := s.loadStringColumn(ctx,
		`SELECT spot FROM article_spots WHERE article_id=? ORDER BY spot`, id)
	if err != nil {
		return store.ArticleSpots{}, false, err
	}
	a.Spots = spots
	return a, true, nil
}

// ArticlesForSpot returns the titles of articles registering spot, sorted
func (s *sqliteStore) ArticlesForSpot(ctx context.Context, spot string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = store.DefaultLimit
	}
	return s.loadStringColumn(ctx, `
SELECT a.title
FROM articles a
JOIN article_spots sp ON a.id = sp.article_id
WHERE sp.spot = ?
ORDER BY a.title
LIMIT ?;
`, spot, limit)
}

// SpotDF counts the articles registering spot
func (s *sqliteStore) SpotDF(ctx context.Context, spot string) (int64, error) {
	var df int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM article_spots WHERE spot=?`, spot).Scan(&df)
	return df, err
}

// UpsertRun inserts or updates an indexing run
func (s *sqliteStore) UpsertRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("upsert run: empty id: %w", internalerr.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, started_at, finished_at, articles, spots, failed)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	started_at=excluded.started_at,
	finished_at=excluded.finished_at,
	articles=excluded.articles,
	spots=excluded.spots,
	failed=excluded.failed;
`, r.ID, formatTime(r.StartedAt), formatTime(r.FinishedAt), r.Articles, r.Spots, r.Failed)
	return err
}

// GetRun retrieves a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	var (
		r                 = store.Run{ID: id}
		started, finished string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT started_at, finished_at, articles, spots, failed FROM runs WHERE id=?`, id,
	).Scan(&started, &finished, &r.Articles, &r.Spots, &r.Failed)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}

	if r.StartedAt, err = parseTime(started); err != nil {
		return store.Run{}, false, fmt.Errorf("run %s started_at: %w", id, err)
	}
	if r.FinishedAt, err = parseTime(finished); err != nil {
		return store.Run{}, false, fmt.Errorf("run %s finished_at: %w", id, err)
	}
	return r, true, nil
}

func (s *sqliteStore) loadStringColumn(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
