package wikidump

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/spotter/pkg/spotter/article"
)

func TestLoadJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.jsonl")
	content := `{"title": "Paris", "links": [{"anchor": "Seine", "target": "Seine"}, {"anchor": "Louvre"}]}

{not json}
{"title": "Paree", "redirect": "Paris#Names"}
{"title": "Lyon", "is_redirect": false}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	articles, err := LoadJSONL(path, nil)
	if err != nil {
		t.Fatalf("LoadJSONL: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(articles))
	}

	paris := articles[0]
	if paris.Title != "Paris" || len(paris.Links) != 2 {
		t.Errorf("unexpected first article %+v", paris)
	}
	if paris.Links[0].Description != "Seine" || paris.Links[0].Target != "Seine" {
		t.Errorf("link = %+v", paris.Links[0])
	}

	paree := articles[1]
	if !paree.IsRedirect || paree.RedirectNoAnchor() != "Paris" {
		t.Errorf("redirect field should imply a redirect: %+v", paree)
	}
	if articles[2].IsRedirect {
		t.Error("Lyon is not a redirect")
	}
}

func TestLoadJSONLNothingValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	if err := os.WriteFile(path, []byte("{oops}\n\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadJSONL(path, nil); err == nil {
		t.Error("Should error when no line is valid")
	}
}

func TestLoadJSONLMissingFile(t *testing.T) {
	if _, err := LoadJSONL("/nonexistent/articles.jsonl", nil); err == nil {
		t.Error("Should error on nonexistent file")
	}
}

func TestScanJSONLStopsOnCallbackError(t *testing.T) {
	input := strings.NewReader(`{"title": "A"}
{"title": "B"}
{"title": "C"}
`)
	stop := errors.New("stop")
	var seen []string
	n, err := ScanJSONL(input, "stdin", nil, func(a article.Article) error {
		seen = append(seen, a.Title)
		if a.Title == "B" {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("err = %v, want callback error", err)
	}
	if n != 2 || len(seen) != 2 {
		t.Errorf("scanned %d articles (%v), want 2", n, seen)
	}
}

func TestLoadJSONLFixture(t *testing.T) {
	articles, err := LoadJSONL(filepath.Join("..", "..", "testdata", "wiki", "articles.jsonl"), nil)
	if err != nil {
		t.Fatalf("LoadJSONL: %v", err)
	}
	if len(articles) != 5 {
		t.Fatalf("Expected 5 articles, got %d", len(articles))
	}
	for _, a := range articles {
		if err := a.Validate(); err != nil {
			t.Errorf("fixture article %q invalid: %v", a.Title, err)
		}
	}
}
