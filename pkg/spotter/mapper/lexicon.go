package mapper

import (
	"fmt"
	"strings"

	"github.com/cognicore/spotter/pkg/spotter/internalerr"
)

// Lexicon stores synonym groups of surface forms:
// - Variants: alternate spellings (color ↔ colour)
// - Acronyms: abbreviations (nyc ↔ new york city)
// - Aliases: other names of the same entity (big apple ↔ new york city)
//
// Every member of a group expands to all other members. Lookups are
// case-insensitive and ignore repeated whitespace.
type Lexicon struct {
	// canonical -> all variants (including canonical itself)
	groups map[string][]string

	// variant -> canonical
	reverseIndex map[string]string
}

// NewLexicon creates an empty lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		groups:       make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// AddGroup adds a synonym group with a canonical form and its variants.
// The canonical form is always the first entry of the group.
// If the group already exists it is replaced. A member that already belongs
// to another group is rejected and the lexicon is left unchanged.
func (l *Lexicon) AddGroup(canonical string, variants []string) error {
	canonical = lexKey(canonical)
	if canonical == "" {
		return nil
	}

	group := make([]string, 0, len(variants)+1)
	seen := map[string]bool{canonical: true}
	group = append(group, canonical)
	for _, v := range variants {
		v = lexKey(v)
		if v != "" && !seen[v] {
			group = append(group, v)
			seen[v] = true
		}
	}

	for _, v := range group {
		if owner, ok := l.reverseIndex[v]; ok && owner != canonical {
			return fmt.Errorf("lexicon: %q in group %q already belongs to %q: %w",
				v, canonical, owner, internalerr.ErrInvalidConfig)
		}
	}

	for _, v := range l.groups[canonical] {
		delete(l.reverseIndex, v)
	}
	l.groups[canonical] = group
	for _, v := range group {
		l.reverseIndex[v] = canonical
	}
	return nil
}

// Variants returns the whole group a spot belongs to, canonical first.
// Unknown spots return nil.
func (l *Lexicon) Variants(spot string) []string {
	canonical, ok := l.reverseIndex[lexKey(spot)]
	if !ok {
		return nil
	}
	return l.groups[canonical]
}

// Len returns the number of synonym groups.
func (l *Lexicon) Len() int { return len(l.groups) }

// Name implements Mapper.
func (l *Lexicon) Name() string { return "lexicon" }

// Map implements Mapper: every other member of the spot's group.
func (l *Lexicon) Map(spot string) []string {
	key := lexKey(spot)
	group := l.Variants(key)
	if len(group) == 0 {
		return nil
	}
	out := make([]string, 0, len(group)-1)
	for _, v := range group {
		if v != key {
			out = append(out, v)
		}
	}
	return out
}

func lexKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
