package preview

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SummaryPair is one labelled line of the preview summary.
type SummaryPair struct {
	Label string
	Value string
}

// String formats the pair the way the info list shows it, with the first
// letter of the label upper-cased and the rest lower-cased.
func (p SummaryPair) String() string {
	return fmt.Sprintf("%s: %s", capitalize(p.Label), p.Value)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Summary is an insertion-ordered label/value list.
type Summary struct {
	pairs []SummaryPair
}

// Set replaces the value of label in place, or appends it.
func (s *Summary) Set(label, value string) {
	for i := range s.pairs {
		if s.pairs[i].Label == label {
			s.pairs[i].Value = value
			return
		}
	}
	s.pairs = append(s.pairs, SummaryPair{Label: label, Value: value})
}

// Get returns the value stored for label.
func (s Summary) Get(label string) (string, bool) {
	for _, p := range s.pairs {
		if p.Label == label {
			return p.Value, true
		}
	}
	return "", false
}

func (s *Summary) Clear() {
	s.pairs = nil
}

func (s Summary) Len() int {
	return len(s.pairs)
}

// Pairs returns a copy of the entries in insertion order, or nil when empty.
func (s Summary) Pairs() []SummaryPair {
	if len(s.pairs) == 0 {
		return nil
	}
	return append([]SummaryPair(nil), s.pairs...)
}

// Lines returns the entries formatted with SummaryPair.String.
func (s Summary) Lines() []string {
	lines := make([]string, 0, len(s.pairs))
	for _, p := range s.pairs {
		lines = append(lines, p.String())
	}
	return lines
}
