package config

import (
	"path/filepath"
	"testing"
)

func TestLoaderAllEmpty(t *testing.T) {
	loader := Loader{}

	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}
	if comp.Cleaner == nil {
		t.Fatal("Should have cleaner")
	}
	if comp.Stoplist != nil || comp.Lexicon != nil {
		t.Error("No stoplist or lexicon expected")
	}

	got, err := comp.Cleaner.Clean("Paris")
	if err != nil || got != "paris" {
		t.Errorf("Clean(Paris) = %q, %v", got, err)
	}
}

func TestLoaderNonExistentStoplist(t *testing.T) {
	loader := Loader{StoplistPath: "/nonexistent/stoplist.yaml"}
	if _, err := loader.Load(); err == nil {
		t.Error("Should error on nonexistent stoplist")
	}
}

func TestLoaderNonExistentLexicon(t *testing.T) {
	loader := Loader{LexiconPath: "/nonexistent/lexicon.yaml"}
	if _, err := loader.Load(); err == nil {
		t.Error("Should error on nonexistent lexicon")
	}
}

func TestLoaderNonExistentConfig(t *testing.T) {
	loader := Loader{ConfigPath: "/nonexistent/spotter.yaml"}
	if _, err := loader.Load(); err == nil {
		t.Error("Should error on nonexistent config")
	}
}

func TestLoaderValidFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stoplist.yaml", "terms: [the, of]\n")
	writeFile(t, dir, "lexicon.yaml", `synonyms:
  - canonical: new york city
    variants: [nyc]
`)
	cfgPath := writeFile(t, dir, "spotter.yaml", `max_spot_length: 3
stoplist: stoplist.yaml
lexicon: lexicon.yaml
`)

	comp, err := (&Loader{ConfigPath: cfgPath}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Stoplist == nil || comp.Lexicon == nil {
		t.Fatal("stoplist and lexicon should be loaded from config paths")
	}
	c := comp.Cleaner

	if got, _ := c.Clean("of the"); got != "" {
		t.Errorf("Clean(of the) = %q, want stop word rejection", got)
	}
	if got, _ := c.Clean("one two three four"); got != "" {
		t.Errorf("Clean over max length = %q, want rejection", got)
	}
	set, err := c.Enrich("NYC")
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if !set.Contains("new york city") {
		t.Errorf("Enrich(NYC) = %q, want lexicon variant", set.Sorted())
	}
}

func TestLoaderFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "spotter.yaml", "stoplist: missing.yaml\n")
	override := writeFile(t, dir, "other.yaml", "terms: [paris]\n")

	comp, err := (&Loader{ConfigPath: cfgPath, StoplistPath: override}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Config.Stoplist != override {
		t.Errorf("Stoplist = %s, want %s", comp.Config.Stoplist, filepath.Base(override))
	}
	if got, _ := comp.Cleaner.Clean("Paris"); got != "" {
		t.Errorf("Clean(Paris) = %q, want override stop list to apply", got)
	}
}

func TestLoaderRepoFixtures(t *testing.T) {
	comp, err := (&Loader{ConfigPath: filepath.Join("..", "..", "..", "testdata", "config", "spotter.yaml")}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Stoplist == nil || comp.Lexicon == nil {
		t.Fatal("fixture config should load stoplist and lexicon")
	}
	set, err := comp.Cleaner.Enrich("NYC")
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	for _, want := range []string{"NYC", "new york city", "big apple"} {
		if !set.Contains(want) {
			t.Errorf("Enrich(NYC) = %q, missing %q", set.Sorted(), want)
		}
	}
}
