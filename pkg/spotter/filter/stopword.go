package filter

import "strings"

// Stopwords is a case-insensitive stop list.
type Stopwords struct {
	words map[string]struct{}
}

// NewStopwords builds a stop list from words.
func NewStopwords(words []string) *Stopwords {
	s := &Stopwords{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Add adds a word to the stop list
func (s *Stopwords) Add(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word != "" {
		s.words[word] = struct{}{}
	}
}

// Remove removes a word from the stop list
func (s *Stopwords) Remove(word string) {
	delete(s.words, strings.ToLower(word))
}

// IsStop checks if a single token is a stop word
func (s *Stopwords) IsStop(token string) bool {
	_, ok := s.words[strings.ToLower(token)]
	return ok
}

// Len returns the number of stop words.
func (s *Stopwords) Len() int { return len(s.words) }

// Name implements Filter.
func (s *Stopwords) Name() string { return "stopword" }

// IsGarbage rejects spots made only of stop words ("the", "of the").
// A spot with no tokens is left to the other filters.
func (s *Stopwords) IsGarbage(spot string) bool {
	tokens := strings.Fields(spot)
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !s.IsStop(tok) {
			return false
		}
	}
	return true
}
