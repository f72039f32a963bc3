package wikidump

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/cognicore/spotter/pkg/spotter/article"
)

const wikiPrefix = "/wiki/"

// ParseHTML extracts an article from a rendered MediaWiki page.
//
// The title comes from h1#firstHeading, falling back to <title> without its
// " - Wikipedia" suffix. A ul.redirectText link marks the page as a redirect.
// Every other /wiki/ link inside #mw-content-text (or the whole page when
// that element is missing) becomes a Link with its text as anchor.
func ParseHTML(r io.Reader) (article.Article, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return article.Article{}, fmt.Errorf("parse html: %w", err)
	}

	var a article.Article
	if h1 := findElement(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.H1 && attr(n, "id") == "firstHeading"
	}); h1 != nil {
		a.Title = textContent(h1)
	}
	if a.Title == "" {
		if t := findElement(doc, func(n *html.Node) bool { return n.DataAtom == atom.Title }); t != nil {
			a.Title = strings.TrimSuffix(textContent(t), " - Wikipedia")
		}
	}

	if redirect := findElement(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Ul && hasClass(n, "redirectText")
	}); redirect != nil {
		if link := findElement(redirect, func(n *html.Node) bool { return n.DataAtom == atom.A }); link != nil {
			a.IsRedirect = true
			a.Redirect = linkTarget(link)
			if a.Redirect == "" {
				a.Redirect = textContent(link)
			}
		}
	}

	root := findElement(doc, func(n *html.Node) bool { return attr(n, "id") == "mw-content-text" })
	if root == nil {
		root = doc
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.DataAtom == atom.Ul && hasClass(n, "redirectText") {
				return
			}
			if n.DataAtom == atom.A && strings.HasPrefix(attr(n, "href"), wikiPrefix) {
				if anchor := textContent(n); anchor != "" {
					a.Links = append(a.Links, article.Link{Description: anchor, Target: linkTarget(n)})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return a, nil
}

// LoadHTMLDir parses every *.html file in dir, in name order. Pages without
// a title are logged and skipped.
func LoadHTMLDir(dir string, logger *slog.Logger) ([]article.Article, error) {
	if logger == nil {
		logger = slog.Default()
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var articles []article.Article
	for _, path := range paths {
		a, err := parseHTMLFile(path)
		if err != nil {
			logger.Warn("skipping unreadable page", "file", path, "error", err)
			continue
		}
		if a.Title == "" {
			logger.Warn("skipping page without title", "file", path)
			continue
		}
		articles = append(articles, a)
	}

	if len(articles) == 0 {
		return nil, fmt.Errorf("no valid pages found in %s", dir)
	}
	return articles, nil
}

func parseHTMLFile(path string) (article.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return article.Article{}, err
	}
	defer f.Close()
	return ParseHTML(f)
}

// linkTarget prefers the title attribute, then the decoded /wiki/ path.
func linkTarget(n *html.Node) string {
	if t := strings.TrimSpace(attr(n, "title")); t != "" {
		return t
	}
	href := attr(n, "href")
	if !strings.HasPrefix(href, wikiPrefix) {
		return ""
	}
	page := strings.TrimPrefix(href, wikiPrefix)
	if unescaped, err := url.PathUnescape(page); err == nil {
		page = unescaped
	}
	return strings.ReplaceAll(page, "_", " ")
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// textContent joins the text below n with runs of whitespace collapsed.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}
