package spotter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cognicore/spotter/pkg/spotter/article"
	"github.com/cognicore/spotter/pkg/spotter/internalerr"
	"github.com/cognicore/spotter/pkg/spotter/store/memstore"
)

func newSpotter(t *testing.T) (*Spotter, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	sp, err := New(Options{Store: st})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { sp.Close() })
	return sp, st
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("New without store err = %v", err)
	}
}

func TestIndexArticle(t *testing.T) {
	ctx := context.Background()
	sp, st := newSpotter(t)

	run, err := sp.StartRun(ctx)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	a := &article.Article{
		Title: "Paris",
		Links: []article.Link{{Description: "Seine"}, {Description: "Paris, Texas"}},
	}
	n, err := sp.IndexArticle(ctx, run, a)
	if err != nil {
		t.Fatalf("IndexArticle: %v", err)
	}
	// Paris, Seine, "Paris, Texas", paris
	if n != 4 {
		t.Errorf("IndexArticle stored %d spots, want 4", n)
	}

	got, found, _ := st.GetArticleSpots(ctx, "Paris")
	if !found {
		t.Fatal("article not stored")
	}
	if got.RunID != run.ID || got.Redirect != "" {
		t.Errorf("unexpected record %+v", got)
	}
	if run.Articles != 1 || run.Spots != 4 || run.Failed != 0 {
		t.Errorf("run counters = %+v", *run)
	}
}

func TestIndexRedirect(t *testing.T) {
	ctx := context.Background()
	sp, st := newSpotter(t)
	run, _ := sp.StartRun(ctx)

	a := &article.Article{
		Title:      "Paree",
		IsRedirect: true,
		Redirect:   "Paris#Names",
		Links:      []article.Link{{Description: "Seine"}},
	}
	if _, err := sp.IndexArticle(ctx, run, a); err != nil {
		t.Fatalf("IndexArticle: %v", err)
	}

	got, _, _ := st.GetArticleSpots(ctx, "Paree")
	if got.Redirect != "Paris" {
		t.Errorf("Redirect = %q, want anchor stripped", got.Redirect)
	}
	for _, s := range got.Spots {
		if s == "Seine" {
			t.Error("redirect page registered a link spot")
		}
	}
}

func TestIndexInvalidArticleCountsFailure(t *testing.T) {
	ctx := context.Background()
	sp, _ := newSpotter(t)
	run, _ := sp.StartRun(ctx)

	_, err := sp.IndexArticle(ctx, run, &article.Article{Title: " "})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if run.Failed != 1 || run.Articles != 0 {
		t.Errorf("run counters = %+v", *run)
	}

	if _, err := sp.IndexArticle(ctx, nil, &article.Article{Title: "Paris"}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("nil run err = %v", err)
	}
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	sp, st := newSpotter(t)

	first, err := sp.StartRun(ctx)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	second, _ := sp.StartRun(ctx)
	if first.ID == second.ID {
		t.Fatal("run IDs must be unique")
	}
	if first.ID > second.ID {
		t.Errorf("run IDs not monotonic: %s > %s", first.ID, second.ID)
	}

	sp.IndexArticle(ctx, first, &article.Article{Title: "Lyon"})
	if err := sp.FinishRun(ctx, first); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	stored, found, _ := st.GetRun(ctx, first.ID)
	if !found || !stored.Finished() {
		t.Fatalf("stored run = %+v, found=%v", stored, found)
	}
	if stored.Articles != 1 {
		t.Errorf("stored Articles = %d, want 1", stored.Articles)
	}
	if open, _, _ := st.GetRun(ctx, second.ID); open.Finished() {
		t.Error("second run should still be open")
	}
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	sp, _ := newSpotter(t)
	run, _ := sp.StartRun(ctx)

	articles := []*article.Article{
		{Title: "Paris"},
		{Title: "Paris, Texas"},
		{Title: "Lyon", Links: []article.Link{{Description: "Paris, France"}}},
		{Title: "Marseille"},
	}
	for _, a := range articles {
		if _, err := sp.IndexArticle(ctx, run, a); err != nil {
			t.Fatalf("IndexArticle(%s): %v", a.Title, err)
		}
	}

	tests := []struct {
		surface string
		want    []string
	}{
		// Raw baseline "Paris" plus the cleaned city variant "paris".
		{"Paris", []string{"Lyon", "Paris", "Paris, Texas"}},
		{"paris", []string{"Lyon", "Paris, Texas"}},
		{"Marseille", []string{"Marseille"}},
		{"Toulouse", nil},
	}
	for _, tt := range tests {
		got, err := sp.Lookup(ctx, tt.surface, 0)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tt.surface, err)
		}
		if fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Errorf("Lookup(%q) = %q, want %q", tt.surface, got, tt.want)
		}
	}

	limited, _ := sp.Lookup(ctx, "Paris", 1)
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %q", limited)
	}
}

func TestIndexConcurrent(t *testing.T) {
	ctx := context.Background()
	sp, st := newSpotter(t)
	run, _ := sp.StartRun(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := &article.Article{
				Title: fmt.Sprintf("Article %d", i),
				Links: []article.Link{{Description: "Shared Link"}},
			}
			if _, err := sp.IndexArticle(ctx, run, a); err != nil {
				t.Errorf("IndexArticle: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if run.Articles != 32 {
		t.Errorf("run.Articles = %d, want 32", run.Articles)
	}
	if df, _ := st.SpotDF(ctx, "Shared Link"); df != 32 {
		t.Errorf("SpotDF = %d, want 32", df)
	}
}

func TestArticleSpots(t *testing.T) {
	ctx := context.Background()
	sp, _ := newSpotter(t)
	run, _ := sp.StartRun(ctx)
	sp.IndexArticle(ctx, run, &article.Article{Title: "Lyon", Links: []article.Link{{Description: "Rhône"}}})

	got, err := sp.ArticleSpots(ctx, "Lyon")
	if err != nil {
		t.Fatalf("ArticleSpots: %v", err)
	}
	if len(got.Spots) != 2 || got.RunID != run.ID {
		t.Errorf("ArticleSpots = %+v", got)
	}

	if _, err := sp.ArticleSpots(ctx, "Nice"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("unknown title err = %v, want ErrNotFound", err)
	}
}

func TestSpotDF(t *testing.T) {
	ctx := context.Background()
	sp, _ := newSpotter(t)
	run, _ := sp.StartRun(ctx)
	sp.IndexArticle(ctx, run, &article.Article{Title: "Lyon", Links: []article.Link{{Description: "Rhône"}}})
	sp.IndexArticle(ctx, run, &article.Article{Title: "Avignon", Links: []article.Link{{Description: "Rhône"}}})

	if df, err := sp.SpotDF(ctx, "Rhône"); err != nil || df != 2 {
		t.Errorf("SpotDF(Rhône) = %d, %v, want 2", df, err)
	}
	if df, err := sp.SpotDF(ctx, "Marseille"); err != nil || df != 0 {
		t.Errorf("SpotDF(Marseille) = %d, %v, want 0", df, err)
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	sp, _ := newSpotter(t)
	run, _ := sp.StartRun(ctx)
	sp.IndexArticle(ctx, run, &article.Article{Title: "Lyon"})
	if err := sp.FinishRun(ctx, run); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, err := sp.Run(ctx, run.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !got.Finished() || got.Articles != 1 {
		t.Errorf("Run = %+v", got)
	}

	if _, err := sp.Run(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("unknown run err = %v, want ErrNotFound", err)
	}
}
