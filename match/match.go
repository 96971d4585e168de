package match

import (
	"sort"
	"strings"

	"github.com/revelaction/terms/pattern"
	sent "github.com/revelaction/terms/sentence"
)

// Matcher matchs a Span against a Library of rules.
// The same Matcher can be used for any number of spans: it keeps no state
// between calls.
type Matcher struct {
	Library pattern.Library
}

// Match is a rule occurrence in a span.
//
// the following rule
//
//	{"label": "ADJ-NOUN", "pattern": [[{"POS": "ADJ", "OP": "+"}, {"POS": "NOUN"}]]}
//
// will produce two Matches for the span "large old house":
//
//	Match 1) [0, 3) large old house
//	Match 2) [1, 3) old house
type Match struct {
	Label string

	// RuleIndex is the position of the rule in the library. Used to sort.
	RuleIndex int

	// Start and End are token offsets relative to the matched span.
	Start int
	End   int
}

// NewMatcher validates the library and returns a Matcher for it.
func NewMatcher(lib pattern.Library) (*Matcher, error) {
	if err := lib.Validate(); err != nil {
		return nil, err
	}

	return &Matcher{Library: lib}, nil
}

// Labels returns the rule labels of the Matcher.
func (m *Matcher) Labels() []string {
	return m.Library.Labels()
}

// Match returns all the rule occurrences in the span, sorted by start, end
// and rule order. A (label, start, end) triple is reported once even if
// several sequences of the rule produce it. Empty matches are never
// reported.
func (m *Matcher) Match(span sent.Span) []Match {
	tokens := span.Tokens()

	type key struct {
		label      string
		start, end int
	}
	seen := map[key]bool{}

	var matches []Match
	for ruleIdx, rule := range m.Library {
		for _, seq := range rule.Pattern {
			for start := range tokens {
				for _, end := range ends(tokens, seq, 0, start, false) {
					if end == start {
						continue
					}

					k := key{rule.Label, start, end}
					if seen[k] {
						continue
					}
					seen[k] = true

					matches = append(matches, Match{
						Label:     rule.Label,
						RuleIndex: ruleIdx,
						Start:     start,
						End:       end,
					})
				}
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Start != matches[j].Start {
			return matches[i].Start < matches[j].Start
		}
		if matches[i].End != matches[j].End {
			return matches[i].End < matches[j].End
		}
		return matches[i].RuleIndex < matches[j].RuleIndex
	})

	return matches
}

// ends returns the token positions where the sequence seq[pi:] can end when
// it starts at the token ti. repeating is true when seq[pi] already consumed
// at least one token.
func ends(tokens []sent.Token, seq []pattern.TokenPattern, pi, ti int, repeating bool) []int {
	if pi == len(seq) {
		return []int{ti}
	}

	item := seq[pi]
	hasToken := ti < len(tokens)

	var res []int
	switch item.Op {
	case pattern.OpOne:
		if hasToken && isTokenMatch(tokens[ti], item) {
			res = ends(tokens, seq, pi+1, ti+1, false)
		}

	case pattern.OpNegate:
		if hasToken && !isTokenMatch(tokens[ti], item) {
			res = ends(tokens, seq, pi+1, ti+1, false)
		}

	case pattern.OpOptional:
		res = ends(tokens, seq, pi+1, ti, false)
		if hasToken && isTokenMatch(tokens[ti], item) {
			res = append(res, ends(tokens, seq, pi+1, ti+1, false)...)
		}

	case pattern.OpZeroMore, pattern.OpOneMore:
		if item.Op == pattern.OpZeroMore || repeating {
			res = ends(tokens, seq, pi+1, ti, false)
		}
		if hasToken && isTokenMatch(tokens[ti], item) {
			res = append(res, ends(tokens, seq, pi, ti+1, true)...)
		}
	}

	return res
}

func isTokenMatch(t sent.Token, item pattern.TokenPattern) bool {
	if !item.Pos.Accepts(t.Pos) {
		return false
	}

	// The Tag is compared whole. A Tag string from spacy may contain
	// morphology: DET__Definite=Def|Gender=Fem
	if !item.Tag.Accepts(t.Tag) {
		return false
	}

	if !item.Dep.Accepts(t.Dep) {
		return false
	}

	if !item.Lemma.Accepts(t.Lemma) {
		return false
	}

	if !item.Lower.IsZero() && !item.Lower.Accepts(strings.ToLower(t.Text)) {
		return false
	}

	if !item.Text.Accepts(t.Text) || !item.Orth.Accepts(t.Text) {
		return false
	}

	if item.IsPunct != nil && *item.IsPunct != t.Punct() {
		return false
	}

	return true
}
