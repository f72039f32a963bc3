package spot

import "sort"

// Set is an unordered collection of unique spots. The empty string is never
// a member.
type Set map[string]struct{}

// NewSet creates a set holding spots.
func NewSet(spots ...string) Set {
	s := make(Set, len(spots))
	for _, sp := range spots {
		s.Add(sp)
	}
	return s
}

// Add inserts spot, ignoring the empty string.
func (s Set) Add(spot string) {
	if spot == "" {
		return
	}
	s[spot] = struct{}{}
}

// AddAll merges other into s.
func (s Set) AddAll(other Set) {
	for sp := range other {
		s[sp] = struct{}{}
	}
}

// Contains reports whether spot is in the set.
func (s Set) Contains(spot string) bool {
	_, ok := s[spot]
	return ok
}

// Len returns the number of spots.
func (s Set) Len() int { return len(s) }

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for sp := range s {
		out = append(out, sp)
	}
	sort.Strings(out)
	return out
}
