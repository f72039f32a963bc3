package wikidump

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cognicore/spotter/pkg/spotter/article"
)

// maxLineSize bounds one JSONL record; long articles carry thousands of links.
const maxLineSize = 16 << 20

// ScanJSONL decodes one article per line from r and hands each to fn.
// Malformed lines are logged and skipped. A non-nil error from fn stops the
// scan. It returns the number of articles decoded.
func ScanJSONL(r io.Reader, name string, logger *slog.Logger, fn func(article.Article) error) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n, lineNo := 0, 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var a article.Article
		if err := json.Unmarshal([]byte(line), &a); err != nil {
			logger.Warn("skipping malformed JSON", "file", name, "line", lineNo, "error", err)
			continue
		}
		if a.Redirect != "" {
			a.IsRedirect = true
		}
		n++
		if err := fn(a); err != nil {
			return n, err
		}
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("read %s: %w", name, err)
	}
	return n, nil
}

// LoadJSONL loads articles from a JSONL file with proper error handling
func LoadJSONL(path string, logger *slog.Logger) ([]article.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	var articles []article.Article
	_, err = ScanJSONL(f, path, logger, func(a article.Article) error {
		articles = append(articles, a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(articles) == 0 {
		return nil, fmt.Errorf("no valid articles found in %s", path)
	}
	return articles, nil
}
