package config

import (
	"fmt"
	"log/slog"

	"github.com/cognicore/spotter/pkg/spotter/filter"
	"github.com/cognicore/spotter/pkg/spotter/mapper"
	"github.com/cognicore/spotter/pkg/spotter/spot"
)

// Loader loads all configuration files and constructs components.
// StoplistPath and LexiconPath, when set, override the config file's values.
type Loader struct {
	ConfigPath   string
	StoplistPath string
	LexiconPath  string
	Logger       *slog.Logger
}

// Components holds all loaded configuration components
type Components struct {
	Config   *Config
	Stoplist *filter.Stopwords
	Lexicon  *mapper.Lexicon
	Cleaner  *spot.Cleaner
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	comp := &Components{}

	// Load config
	if l.ConfigPath != "" {
		cfg, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		comp.Config = cfg
	} else {
		comp.Config = Default()
	}
	if l.StoplistPath != "" {
		comp.Config.Stoplist = l.StoplistPath
	}
	if l.LexiconPath != "" {
		comp.Config.Lexicon = l.LexiconPath
	}

	// Load stoplist
	if comp.Config.Stoplist != "" {
		stop, err := LoadStoplist(comp.Config.Stoplist)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stoplist = stop
	}

	// Load lexicon
	if comp.Config.Lexicon != "" {
		lex, err := LoadLexicon(comp.Config.Lexicon)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	}

	opts, err := comp.Config.CleanerOptions(comp.Stoplist, comp.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("cleaner options: %w", err)
	}
	opts.Logger = logger
	cleaner, err := spot.New(opts)
	if err != nil {
		return nil, fmt.Errorf("build cleaner: %w", err)
	}
	comp.Cleaner = cleaner

	logger.Debug("cleaner configured",
		"max_spot_length", cleaner.MaxSpotLength(),
		"filters", opts.Filters.Names(),
		"mappers", opts.Mappers.Names(),
		"baseline", opts.Baseline.String())
	return comp, nil
}
