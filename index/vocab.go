package index

import (
	"strings"
	"unicode"

	"github.com/poiesic/marginalia/core"
)

// stopWords are common English words that carry no retrieval signal.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "his": {}, "has": {}, "have": {},
	"this": {}, "that": {}, "with": {}, "they": {}, "from": {}, "she": {},
	"will": {}, "would": {}, "there": {}, "their": {}, "what": {},
	"about": {}, "which": {}, "when": {}, "them": {}, "than": {},
	"then": {}, "some": {}, "into": {}, "more": {}, "other": {},
	"were": {}, "been": {},
}

// stemSuffixes ordered longest first so the longest match wins.
var stemSuffixes = []string{"ation", "tion", "ing", "est", "ed", "es", "er", "ly", "s"}

// stem strips the longest matching suffix, provided the remaining
// stem is longer than two characters. At most one suffix is removed.
func stem(term string) string {
	for _, suffix := range stemSuffixes {
		if strings.HasSuffix(term, suffix) {
			root := term[:len(term)-len(suffix)]
			if len(root) > 2 {
				return root
			}
		}
	}
	return term
}

func isNumeric(term string) bool {
	for _, r := range term {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(term) > 0
}

// Tokenize lowercases the text, strips punctuation, splits on whitespace,
// and returns stemmed terms with short, numeric, and stop words removed.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, text)

	var terms []string
	for _, token := range strings.Fields(cleaned) {
		if len(token) <= 2 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if isNumeric(token) {
			continue
		}
		terms = append(terms, stem(token))
	}
	return terms
}

// Vocabulary holds term postings and per-fragment term counts for the
// whole corpus. It is built in one pass and never mutated afterwards.
type Vocabulary struct {
	postings   map[string]map[core.ID]struct{}
	termCounts map[core.ID]map[string]int
	docCount   int
}

// NewVocabulary builds the vocabulary index from the given fragments.
// Terms are drawn from each fragment's title, text, and note.
func NewVocabulary(fragments []*core.Fragment) *Vocabulary {
	v := &Vocabulary{
		postings:   make(map[string]map[core.ID]struct{}),
		termCounts: make(map[core.ID]map[string]int),
		docCount:   len(fragments),
	}

	for _, fragment := range fragments {
		counts := make(map[string]int)
		for _, field := range []string{fragment.Title, fragment.Text, fragment.Note} {
			for _, term := range Tokenize(field) {
				counts[term]++
			}
		}
		v.termCounts[fragment.Id] = counts

		for term := range counts {
			ids, ok := v.postings[term]
			if !ok {
				ids = make(map[core.ID]struct{})
				v.postings[term] = ids
			}
			ids[fragment.Id] = struct{}{}
		}
	}

	return v
}

// Postings returns the fragment ids containing the given term.
func (v *Vocabulary) Postings(term string) []core.ID {
	ids := make([]core.ID, 0, len(v.postings[term]))
	for id := range v.postings[term] {
		ids = append(ids, id)
	}
	return ids
}

// DocFreq returns the number of fragments containing the term.
func (v *Vocabulary) DocFreq(term string) int {
	return len(v.postings[term])
}

// DocCount returns the total number of indexed fragments.
func (v *Vocabulary) DocCount() int {
	return v.docCount
}

// TermCounts returns the raw term frequencies for one fragment.
// Returns nil for unknown fragments.
func (v *Vocabulary) TermCounts(id core.ID) map[string]int {
	return v.termCounts[id]
}

// TermCount returns the number of distinct terms in the vocabulary.
func (v *Vocabulary) TermCount() int {
	return len(v.postings)
}
