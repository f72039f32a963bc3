package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/spotter/pkg/spotter/filter"
	"github.com/cognicore/spotter/pkg/spotter/internalerr"
	"github.com/cognicore/spotter/pkg/spotter/mapper"
	"github.com/cognicore/spotter/pkg/spotter/spot"
)

// Config is the cleaner configuration file.
type Config struct {
	MaxSpotLength int      `yaml:"max_spot_length"`
	Baseline      string   `yaml:"baseline"`
	FoldAccents   bool     `yaml:"fold_accents"`
	CacheSize     int      `yaml:"cache_size"`
	Filters       []string `yaml:"filters"`
	Mappers       []string `yaml:"mappers"`
	Stoplist      string   `yaml:"stoplist"`
	Lexicon       string   `yaml:"lexicon"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		MaxSpotLength: spot.DefaultMaxSpotLength,
		Baseline:      spot.BaselineRaw.String(),
		Filters:       filter.Default().Names(),
		Mappers:       mapper.Default().Names(),
	}
}

// Load reads a YAML config. Unset keys keep their defaults; relative stoplist
// and lexicon paths are resolved against the config file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, internalerr.ErrInvalidConfig, err)
	}
	if cfg.MaxSpotLength == 0 {
		cfg.MaxSpotLength = spot.DefaultMaxSpotLength
	}

	dir := filepath.Dir(path)
	cfg.Stoplist = resolve(dir, cfg.Stoplist)
	cfg.Lexicon = resolve(dir, cfg.Lexicon)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.MaxSpotLength < 0 {
		return fmt.Errorf("max_spot_length %d: %w", c.MaxSpotLength, internalerr.ErrInvalidConfig)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size %d: %w", c.CacheSize, internalerr.ErrInvalidConfig)
	}
	if _, err := spot.ParseBaseline(c.Baseline); err != nil {
		return err
	}
	if _, err := filter.Lookup(c.Filters...); err != nil {
		return err
	}
	if _, err := mapper.Lookup(c.Mappers...); err != nil {
		return err
	}
	return nil
}

// CleanerOptions turns the config into spot.Options. A non-nil stop list is
// appended to the filter chain and a non-nil lexicon to the mapper chain.
func (c *Config) CleanerOptions(stop *filter.Stopwords, lex *mapper.Lexicon) (spot.Options, error) {
	baseline, err := spot.ParseBaseline(c.Baseline)
	if err != nil {
		return spot.Options{}, err
	}
	filters, err := filter.Lookup(c.Filters...)
	if err != nil {
		return spot.Options{}, err
	}
	mappers, err := mapper.Lookup(c.Mappers...)
	if err != nil {
		return spot.Options{}, err
	}
	if stop != nil {
		filters = append(filters, stop)
	}
	if lex != nil {
		mappers = append(mappers, lex)
	}

	return spot.Options{
		MaxSpotLength: c.MaxSpotLength,
		Filters:       filters,
		Mappers:       mappers,
		FoldAccents:   c.FoldAccents,
		Baseline:      baseline,
		CacheSize:     c.CacheSize,
	}, nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*filter.Stopwords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, internalerr.ErrInvalidConfig, err)
	}

	return filter.NewStopwords(sl.Terms), nil
}

// LoadLexicon loads synonym groups from a YAML file.
//
// Expected format:
//
//	synonyms:
//	  - canonical: new york city
//	    variants: [nyc, big apple]
//	  - canonical: united kingdom
//	    variants: [uk, great britain]
func LoadLexicon(path string) (*mapper.Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file struct {
		Synonyms []struct {
			Canonical string   `yaml:"canonical"`
			Variants  []string `yaml:"variants"`
		} `yaml:"synonyms"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, internalerr.ErrInvalidConfig, err)
	}

	lex := mapper.NewLexicon()
	for _, entry := range file.Synonyms {
		if err := lex.AddGroup(entry.Canonical, entry.Variants); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return lex, nil
}
