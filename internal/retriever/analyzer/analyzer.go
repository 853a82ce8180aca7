// Package analyzer normalises free text into index terms. It lower-cases
// input and splits on non-alphanumeric boundaries; stop-word removal and a
// simple suffix-based stemmer can be enabled per analyzer. The same analyzer
// instance must be applied to both corpus documents and queries so that the
// two sides share a vocabulary.
package analyzer

import (
	"strings"
	"unicode"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {}, "this": {}, "but": {}, "they": {},
	"have": {}, "had": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "which": {}, "their": {}, "if": {}, "each": {},
	"do": {}, "not": {}, "no": {}, "so": {}, "can": {},
}

// Options controls optional normalisation steps beyond lower-casing and
// boundary splitting. The zero value keeps every token as-is.
type Options struct {
	RemoveStopWords bool
	Stem            bool
	MinTokenLength  int
}

// Analyzer converts raw text into a slice of terms.
type Analyzer struct {
	opts Options
}

// New creates an Analyzer with the given Options. MinTokenLength values
// below 1 are treated as 1.
func New(opts Options) *Analyzer {
	if opts.MinTokenLength < 1 {
		opts.MinTokenLength = 1
	}
	return &Analyzer{opts: opts}
}

// Analyze breaks text into normalised terms. Terms are returned in document
// order; repeated terms appear once per occurrence.
func (a *Analyzer) Analyze(text string) []string {
	text = strings.ToLower(text)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) < a.opts.MinTokenLength {
			continue
		}
		if a.opts.RemoveStopWords {
			if _, isStop := stopWords[word]; isStop {
				continue
			}
		}
		if a.opts.Stem {
			word = stem(word)
			if word == "" {
				continue
			}
		}
		terms = append(terms, word)
	}
	return terms
}

// stem applies a simple suffix-stripping stemmer to the given word.
func stem(word string) string {
	suffixes := []struct {
		suffix      string
		replacement string
		minLen      int
	}{
		{"ational", "ate", 2},
		{"tional", "tion", 2},
		{"encies", "ence", 2},
		{"ances", "ance", 2},
		{"ments", "ment", 2},
		{"izing", "ize", 2},
		{"ating", "ate", 2},
		{"iness", "y", 2},
		{"ously", "ous", 2},
		{"ively", "ive", 2},
		{"eness", "ene", 2},
		{"tion", "t", 3},
		{"sion", "s", 3},
		{"ying", "y", 2},
		{"ling", "l", 3},
		{"ies", "y", 2},
		{"ing", "", 3},
		{"ers", "er", 2},
		{"est", "", 3},
		{"ful", "", 3},
		{"ous", "", 3},
		{"ess", "", 3},
		{"ble", "", 3},
		{"ed", "", 3},
		{"er", "", 3},
		{"ly", "", 3},
		{"es", "", 3},
		{"ss", "ss", 2},
		{"s", "", 3},
	}
	for _, rule := range suffixes {
		if strings.HasSuffix(word, rule.suffix) {
			newWord := word[:len(word)-len(rule.suffix)] + rule.replacement
			if len(newWord) >= rule.minLen {
				return newWord
			}
		}
	}
	return word
}
