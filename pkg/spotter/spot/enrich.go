package spot

import (
	"github.com/cognicore/spotter/pkg/spotter/article"
)

// Enrich expands raw into the set of surface forms to register for it: a
// baseline entry plus every mapper variant that survives cleaning.
//
// With BaselineRaw the baseline is raw itself, uncleaned, while mapper
// variants are always cleaned before insertion.
func (c *Cleaner) Enrich(raw string) (Set, error) {
	spots := NewSet()

	switch c.baseline {
	case BaselineCleaned:
		cleaned, err := c.Clean(raw)
		if err != nil {
			return nil, err
		}
		spots.Add(cleaned)
	default:
		spots.Add(raw)
	}

	for _, m := range c.mappers {
		for _, variant := range m.Map(raw) {
			cleaned, err := c.Clean(variant)
			if err != nil {
				return nil, err
			}
			spots.Add(cleaned)
		}
	}
	return spots, nil
}

// AllSpots collects every spot an article contributes: its title, and either
// its redirect target or the anchors of its outbound links. Links of a
// redirect page are ignored.
func (c *Cleaner) AllSpots(a *article.Article) (Set, error) {
	spots := NewSet()

	title, err := c.Enrich(a.Title)
	if err != nil {
		return nil, err
	}
	spots.AddAll(title)

	if a.IsRedirect {
		target, err := c.Enrich(a.RedirectNoAnchor())
		if err != nil {
			return nil, err
		}
		spots.AddAll(target)
		return spots, nil
	}

	for _, text := range a.Anchors() {
		anchor, err := c.Enrich(text)
		if err != nil {
			return nil, err
		}
		spots.AddAll(anchor)
	}
	return spots, nil
}
