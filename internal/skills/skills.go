// Package skills finds a fixed vocabulary of skill keywords in resume text.
package skills

import (
	"regexp"
	"strings"
)

// Vocabulary is the ordered list of skills the extractor looks for.
var Vocabulary = []string{
	"python",
	"django",
	"sql",
	"machine learning",
	"teamwork",
	"communication",
	"java",
	"html",
	"css",
	"javascript",
}

// Extractor matches whole-word occurrences of each vocabulary term.
type Extractor struct {
	terms    []string
	patterns []*regexp.Regexp
}

// A term must not touch a letter, digit or underscore on either side. Unlike
// \b this also holds for non-ASCII letters.
const (
	leftEdge  = `(?:^|[^\p{L}\p{N}_])`
	rightEdge = `(?:$|[^\p{L}\p{N}_])`
)

// NewExtractor compiles one whole-word pattern per term. Terms are lower-cased.
func NewExtractor(vocabulary []string) *Extractor {
	e := &Extractor{
		terms:    make([]string, 0, len(vocabulary)),
		patterns: make([]*regexp.Regexp, 0, len(vocabulary)),
	}
	for _, term := range vocabulary {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		e.terms = append(e.terms, term)
		e.patterns = append(e.patterns, regexp.MustCompile(leftEdge+regexp.QuoteMeta(term)+rightEdge))
	}
	return e
}

var defaultExtractor = NewExtractor(Vocabulary)

// Extract returns the vocabulary terms present in text, in vocabulary order.
func (e *Extractor) Extract(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0, len(e.terms))
	for i, re := range e.patterns {
		if re.MatchString(lower) {
			found = append(found, e.terms[i])
		}
	}
	return found
}

// Extract runs the default vocabulary over text.
func Extract(text string) []string {
	return defaultExtractor.Extract(text)
}
