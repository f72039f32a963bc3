package article

import (
	"fmt"
	"strings"

	"github.com/cognicore/spotter/pkg/spotter/internalerr"
)

// Article is an encyclopedia page as seen by the spot extractor.
type Article struct {
	Title      string `json:"title"`
	IsRedirect bool   `json:"is_redirect"`
	Redirect   string `json:"redirect,omitempty"` // target title, may carry a #section anchor
	Links      []Link `json:"links,omitempty"`
}

// Link is an outbound link with its anchor text
type Link struct {
	Description string `json:"anchor"`
	Target      string `json:"target,omitempty"`
}

// Validate checks if the article has required fields
func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("article title is required: %w", internalerr.ErrInvalidInput)
	}
	if a.IsRedirect && strings.TrimSpace(a.RedirectNoAnchor()) == "" {
		return fmt.Errorf("redirect target of %q is required: %w", a.Title, internalerr.ErrInvalidInput)
	}
	return nil
}

// RedirectNoAnchor returns the redirect target without its #section anchor.
func (a *Article) RedirectNoAnchor() string {
	target := a.Redirect
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	return strings.TrimSpace(target)
}

// Anchors returns the anchor text of every outbound link, in link order.
func (a *Article) Anchors() []string {
	anchors := make([]string, 0, len(a.Links))
	for _, l := range a.Links {
		anchors = append(anchors, l.Description)
	}
	return anchors
}
