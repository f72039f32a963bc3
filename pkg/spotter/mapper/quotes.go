package mapper

import (
	"strings"
	"unicode"
)

var quotePairs = map[rune]rune{
	'"':  '"',
	'“':  '”',
	'„':  '“',
	'«':  '»',
	'‹':  '›',
	'「':  '」',
	'‘':  '’',
	'\'': '\'',
}

// Apostrophe-like quotes only count on a word boundary, so "O'Neil" and
// "Castel Sant'Angelo" are left alone.
func needsBoundary(r rune) bool {
	return r == '\'' || r == '‘' || r == '’'
}

// Quotes emits the inner text of every balanced quoted segment:
// `"Weird Al" Yankovic` -> `Weird Al`.
func Quotes() Mapper {
	return New("quotes", mapQuotes)
}

func mapQuotes(spot string) []string {
	rs := []rune(spot)
	var out []string
	for i := 0; i < len(rs); i++ {
		closer, ok := quotePairs[rs[i]]
		if !ok {
			continue
		}
		if needsBoundary(rs[i]) && i > 0 && isWordChar(rs[i-1]) {
			continue
		}
		end := findCloser(rs, i+1, closer)
		if end < 0 {
			continue
		}
		inner := strings.TrimSpace(string(rs[i+1 : end]))
		if inner != "" && !contains(out, inner) {
			out = append(out, inner)
		}
		i = end
	}
	return out
}

func findCloser(rs []rune, from int, closer rune) int {
	for j := from; j < len(rs); j++ {
		if rs[j] != closer {
			continue
		}
		if needsBoundary(closer) && j+1 < len(rs) && isWordChar(rs[j+1]) {
			continue
		}
		return j
	}
	return -1
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
