package filter

import (
	"regexp"
	"strings"
)

// Namespaces whose pages are never entity mentions.
var templateNamespaces = []string{
	"template:", "category:", "portal:", "wikipedia:", "wp:", "help:",
	"user:", "talk:", "special:", "mediawiki:", "module:", "draft:",
}

var templateKeywords = map[string]struct{}{
	"infobox": {},
	"navbox":  {},
	"reflist": {},
	"cite":    {},
	"coord":   {},
}

// markup only reaches a filter through an analyzer that keeps punctuation;
// the default analyzer splits these runes away.
var markup = []string{"{{", "}}", "[[", "]]", "|", "="}

// Template rejects wiki template and markup artifacts.
func Template() Filter {
	return New("template", func(spot string) bool {
		lower := strings.ToLower(spot)
		for _, m := range markup {
			if strings.Contains(lower, m) {
				return true
			}
		}
		first := firstToken(lower)
		if hasAnyPrefix(first, templateNamespaces) {
			return true
		}
		_, ok := templateKeywords[first]
		return ok
	})
}

var mediaNamespaces = []string{"file:", "image:", "media:"}

var mediaExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".tif", ".tiff", ".bmp", ".webp",
	".ogg", ".ogv", ".oga", ".webm", ".mp3", ".mp4", ".wav", ".flac", ".pdf", ".djvu",
}

var captionKeywords = map[string]struct{}{
	"thumb":     {},
	"thumbnail": {},
	"frameless": {},
	"upright":   {},
}

var pixelSize = regexp.MustCompile(`^(\d+)?(x\d+)?px$`)

// Image rejects references to embedded media: file links, file names,
// pixel sizes and caption layout keywords.
func Image() Filter {
	return New("image", func(spot string) bool {
		lower := strings.ToLower(spot)
		if _, ok := captionKeywords[lower]; ok {
			return true
		}
		tokens := strings.Fields(lower)
		if len(tokens) == 0 {
			return false
		}
		if hasAnyPrefix(tokens[0], mediaNamespaces) {
			return true
		}
		for _, tok := range tokens {
			if hasAnySuffix(tok, mediaExtensions) {
				return true
			}
			if tok != "px" && pixelSize.MatchString(tok) {
				return true
			}
		}
		return false
	})
}

func firstToken(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
