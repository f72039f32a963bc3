package analysis

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Analyzer turns a reader into a lazy stream of normalized tokens.
type Analyzer interface {
	TokenStream(r io.Reader) TokenStream
}

// TokenStream yields tokens one at a time, in the manner of bufio.Scanner.
// Close must be called once the caller is done with the stream, including
// when it stops early.
type TokenStream interface {
	Next() bool
	Token() string
	Err() error
	Close() error
}

// Factory builds an analyzer for a single call. The lowercase flag decides
// whether tokens are case-folded.
type Factory func(lowercase bool) Analyzer

// Option configures a SpotAnalyzer.
type Option func(*SpotAnalyzer)

// WithAccentFolding strips combining marks from every token (café -> cafe).
func WithAccentFolding() Option {
	return func(a *SpotAnalyzer) { a.fold = true }
}

// SpotAnalyzer splits text on Unicode word boundaries and normalizes each
// token to NFC, optionally folding accents and case.
type SpotAnalyzer struct {
	lowercase bool
	fold      bool
}

// NewSpotAnalyzer creates an analyzer with the given case folding flag.
func NewSpotAnalyzer(lowercase bool, opts ...Option) *SpotAnalyzer {
	a := &SpotAnalyzer{lowercase: lowercase}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFactory returns a Factory producing SpotAnalyzers with opts applied.
func NewFactory(opts ...Option) Factory {
	return func(lowercase bool) Analyzer {
		return NewSpotAnalyzer(lowercase, opts...)
	}
}

var readerPool = sync.Pool{
	New: func() any { return bufio.NewReaderSize(nil, 256) },
}

// TokenStream implements Analyzer.
func (a *SpotAnalyzer) TokenStream(r io.Reader) TokenStream {
	in := readerPool.Get().(*bufio.Reader)
	in.Reset(r)

	ts := &tokenStream{in: in, lowercase: a.lowercase}
	if a.fold {
		// transform.Chain keeps internal state, so each stream gets its own.
		ts.fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	}
	return ts
}

type tokenStream struct {
	in        *bufio.Reader
	lowercase bool
	fold      transform.Transformer

	buf   strings.Builder
	token string
	err   error
	done  bool
}

func (ts *tokenStream) Next() bool {
	if ts.done || ts.in == nil {
		return false
	}
	ts.buf.Reset()

	var prev rune
	for {
		r, _, err := ts.in.ReadRune()
		if err != nil {
			ts.finish(err)
			break
		}

		if isWordRune(r) {
			ts.buf.WriteRune(r)
			prev = r
			continue
		}

		if ts.buf.Len() > 0 && isConnector(r) {
			next, _, err := ts.in.ReadRune()
			if err != nil {
				ts.finish(err)
				break
			}
			if joins(prev, r, next) {
				ts.buf.WriteRune(r)
				ts.buf.WriteRune(next)
				prev = next
				continue
			}
			_ = ts.in.UnreadRune()
		}

		if ts.buf.Len() > 0 {
			break
		}
	}

	if ts.err != nil || ts.buf.Len() == 0 {
		return false
	}
	ts.token = ts.normalize(ts.buf.String())
	return true
}

// finish records the end of input; io.EOF is not an error.
func (ts *tokenStream) finish(err error) {
	ts.done = true
	if err != io.EOF {
		ts.err = err
	}
}

func (ts *tokenStream) normalize(tok string) string {
	tok = norm.NFC.String(tok)
	if ts.fold != nil {
		if folded, _, err := transform.String(ts.fold, tok); err == nil {
			tok = folded
		}
	}
	if ts.lowercase {
		tok = strings.ToLower(tok)
	}
	return tok
}

func (ts *tokenStream) Token() string { return ts.token }

func (ts *tokenStream) Err() error { return ts.err }

// Close returns the read buffer to the pool. Safe to call more than once.
func (ts *tokenStream) Close() error {
	if ts.in == nil {
		return nil
	}
	ts.in.Reset(nil)
	readerPool.Put(ts.in)
	ts.in = nil
	ts.done = true
	return nil
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r) || r == '_'
}

func isConnector(r rune) bool {
	switch r {
	case '.', ',', ':', '\'', '’':
		return true
	}
	return false
}

// joins reports whether sep between prev and next stays inside one token:
// "u.s.a", "3.14", "1,000", "o'neil", "file:foo".
func joins(prev, sep, next rune) bool {
	switch sep {
	case '.':
		return isWordRune(prev) && isWordRune(next)
	case ',':
		return unicode.IsDigit(prev) && unicode.IsDigit(next)
	case ':', '\'', '’':
		return unicode.IsLetter(prev) && unicode.IsLetter(next)
	}
	return false
}
