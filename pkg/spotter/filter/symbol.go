package filter

import "unicode"

// Symbol rejects spots with no letter or digit at all. The empty string
// counts as garbage.
func Symbol() Filter {
	return New("symbol", func(spot string) bool {
		for _, r := range spot {
			if unicode.IsLetter(r) || unicode.IsNumber(r) {
				return false
			}
		}
		return true
	})
}
