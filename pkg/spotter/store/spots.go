package store

import "sort"

// UniqueSpots returns the non-empty members of spots, deduplicated and sorted.
func UniqueSpots(spots []string) []string {
	seen := make(map[string]struct{}, len(spots))
	out := make([]string, 0, len(spots))
	for _, sp := range spots {
		if sp == "" {
			continue
		}
		if _, ok := seen[sp]; ok {
			continue
		}
		seen[sp] = struct{}{}
		out = append(out, sp)
	}
	sort.Strings(out)
	return out
}
