package mapper

import "strings"

// City strips the region qualifier from compound place names:
//
//	"Paris, Texas"           -> "Paris"
//	"Springfield (Illinois)" -> "Springfield"
//
// Both the name and the qualifier must be non-empty.
func City() Mapper {
	return New("city", mapCity)
}

func mapCity(spot string) []string {
	var out []string
	if name, ok := beforeComma(spot); ok {
		out = append(out, name)
	}
	if name, ok := beforeParens(spot); ok && !contains(out, name) {
		out = append(out, name)
	}
	return out
}

func beforeComma(spot string) (string, bool) {
	i := strings.IndexByte(spot, ',')
	if i < 0 {
		return "", false
	}
	name := strings.TrimSpace(spot[:i])
	region := strings.TrimSpace(spot[i+1:])
	if name == "" || region == "" {
		return "", false
	}
	return name, true
}

func beforeParens(spot string) (string, bool) {
	trimmed := strings.TrimSpace(spot)
	if !strings.HasSuffix(trimmed, ")") {
		return "", false
	}
	open := strings.LastIndexByte(trimmed, '(')
	if open < 0 {
		return "", false
	}
	name := strings.TrimSpace(trimmed[:open])
	qualifier := strings.TrimSpace(trimmed[open+1 : len(trimmed)-1])
	if name == "" || qualifier == "" {
		return "", false
	}
	return name, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
