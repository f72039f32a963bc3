package filter

import (
	"strings"
	"unicode"
)

// Number rejects spots made only of digits and numeric punctuation
// ("1990", "1,000", "3.14", "1990 1995", "12/05/2001").
func Number() Filter {
	return New("number", isNumeric)
}

func isNumeric(spot string) bool {
	digits := 0
	for _, r := range spot {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsSpace(r):
		case strings.ContainsRune(".,:/-+%", r):
		default:
			return false
		}
	}
	return digits > 0
}
