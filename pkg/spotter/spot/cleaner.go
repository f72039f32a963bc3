package spot

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/spotter/pkg/spotter/analysis"
	"github.com/cognicore/spotter/pkg/spotter/filter"
	"github.com/cognicore/spotter/pkg/spotter/internalerr"
	"github.com/cognicore/spotter/pkg/spotter/mapper"
)

// DefaultMaxSpotLength is the largest number of tokens an accepted spot may have.
const DefaultMaxSpotLength = 6

// Spots this short or shorter keep their case: they are likely acronyms.
const caseFoldMinLength = 4

// Baseline selects what Enrich seeds its result with.
type Baseline int

const (
	// BaselineRaw seeds the set with the input exactly as given.
	BaselineRaw Baseline = iota
	// BaselineCleaned seeds the set with the cleaned input, if accepted.
	BaselineCleaned
)

// ParseBaseline maps a config value ("raw", "cleaned") to a Baseline.
func ParseBaseline(s string) (Baseline, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw":
		return BaselineRaw, nil
	case "cleaned":
		return BaselineCleaned, nil
	}
	return BaselineRaw, fmt.Errorf("unknown baseline %q: %w", s, internalerr.ErrInvalidConfig)
}

func (b Baseline) String() string {
	if b == BaselineCleaned {
		return "cleaned"
	}
	return "raw"
}

// Options configures a Cleaner. Zero values select the defaults.
type Options struct {
	MaxSpotLength int
	Filters       filter.Chain // nil -> filter.Default()
	Mappers       mapper.Chain // nil -> mapper.Default()
	Analyzer      analysis.Factory
	FoldAccents   bool // only used when Analyzer is nil
	Baseline      Baseline
	CacheSize     int // memoize Clean results; 0 disables
	Logger        *slog.Logger
}

// Cleaner turns raw spots into canonical cleaned spots and expands them into
// variant sets. It keeps no per-call state and is safe for concurrent use.
type Cleaner struct {
	maxSpotLength int
	filters       filter.Chain
	mappers       mapper.Chain
	newAnalyzer   analysis.Factory
	baseline      Baseline
	cache         *lru.Cache[string, string]
	logger        *slog.Logger
}

// New creates a Cleaner from opts.
func New(opts Options) (*Cleaner, error) {
	if opts.MaxSpotLength < 0 {
		return nil, fmt.Errorf("max spot length %d: %w", opts.MaxSpotLength, internalerr.ErrInvalidConfig)
	}
	if opts.MaxSpotLength == 0 {
		opts.MaxSpotLength = DefaultMaxSpotLength
	}
	if opts.Filters == nil {
		opts.Filters = filter.Default()
	}
	if opts.Mappers == nil {
		opts.Mappers = mapper.Default()
	}
	if opts.Analyzer == nil {
		var aopts []analysis.Option
		if opts.FoldAccents {
			aopts = append(aopts, analysis.WithAccentFolding())
		}
		opts.Analyzer = analysis.NewFactory(aopts...)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Cleaner{
		maxSpotLength: opts.MaxSpotLength,
		filters:       opts.Filters,
		mappers:       opts.Mappers,
		newAnalyzer:   opts.Analyzer,
		baseline:      opts.Baseline,
		logger:        opts.Logger,
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, string](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("clean cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// MaxSpotLength returns the configured token limit.
func (c *Cleaner) MaxSpotLength() int { return c.maxSpotLength }

// Clean decodes, tokenizes and filters a raw spot. It returns "" when the
// spot is rejected: too many tokens, or flagged by a filter. The only error
// is a failure of the token stream.
func (c *Cleaner) Clean(raw string) (string, error) {
	if c.cache != nil {
		if cleaned, ok := c.cache.Get(raw); ok {
			return cleaned, nil
		}
	}

	cleaned, err := c.clean(raw)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		c.cache.Add(raw, cleaned)
	}
	return cleaned, nil
}

func (c *Cleaner) clean(raw string) (string, error) {
	spot := decode(raw)

	analyzer := c.newAnalyzer(utf8.RuneCountInString(spot) > caseFoldMinLength)
	ts := analyzer.TokenStream(strings.NewReader(spot))
	defer ts.Close()

	var sb strings.Builder
	tokens := 0
	for ts.Next() {
		tokens++
		if tokens > c.maxSpotLength {
			c.logger.Debug("spot rejected", "spot", raw, "reason", "too_long", "max", c.maxSpotLength)
			return "", nil
		}
		if tokens > 1 {
			sb.WriteByte(' ')
		}
		sb.WriteString(ts.Token())
	}
	if err := ts.Err(); err != nil {
		return "", fmt.Errorf("clean %q: %w: %w", raw, internalerr.ErrTokenize, err)
	}

	cleaned := sb.String()
	if f, rejected := c.filters.Reject(cleaned); rejected {
		c.logger.Debug("spot rejected", "spot", raw, "reason", f.Name())
		return "", nil
	}
	return cleaned, nil
}

// decode percent-decodes s and returns it in NFC, so the case rule counts
// the same characters the analyzer emits. Malformed escapes leave s
// undecoded; bytes that are not valid UTF-8 become U+FFFD.
func decode(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		decoded = s
	}
	return norm.NFC.String(strings.ToValidUTF8(decoded, "\uFFFD"))
}
