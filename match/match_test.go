package match

import (
	"strings"
	"testing"

	"github.com/revelaction/terms/pattern"
	sent "github.com/revelaction/terms/sentence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doc builds a doc from "text/POS" words.
func doc(words ...string) *sent.Doc {
	d := &sent.Doc{}
	idx := 0
	var texts []string
	for i, w := range words {
		text, pos, _ := strings.Cut(w, "/")
		d.Tokens = append(d.Tokens, sent.Token{
			Id:    i,
			Head:  i,
			Pos:   pos,
			Idx:   idx,
			Text:  text,
			Lemma: strings.ToLower(text),
			Index: i,
		})
		texts = append(texts, text)
		idx += len([]rune(text)) + 1
	}
	d.Text = strings.Join(texts, " ")
	return d
}

func rule(label string, args ...string) pattern.Rule {
	seq, err := pattern.Parse(args)
	if err != nil {
		panic(err)
	}
	return pattern.Rule{Label: label, Pattern: [][]pattern.TokenPattern{seq}}
}

func spans(d *sent.Doc, matches []Match) []string {
	var res []string
	all := d.Span(0, len(d.Tokens))
	for _, m := range matches {
		res = append(res, m.Label+":"+all.Sub(m.Start, m.End).Text())
	}
	return res
}

func TestMatchDefault(t *testing.T) {
	m, err := NewMatcher(pattern.Default())
	require.NoError(t, err)

	d := doc("The/DET", "small/ADJ", "red/ADJ", "brick/NOUN", "house/NOUN")
	got := spans(d, m.Match(d.Span(0, 5)))

	assert.Equal(t, []string{
		"ADJ-ADJ-NOUN:small red brick",
		"ADJ-NOUN:red brick",
		"ADJ-NOUN-NOUN:red brick house",
		"NOUN-NOUN:brick house",
	}, got)
}

func TestMatchRelativeOffsets(t *testing.T) {
	m, err := NewMatcher(pattern.Library{rule("ADJ-NOUN", "ADJ", "NOUN")})
	require.NoError(t, err)

	d := doc("a/DET", "big/ADJ", "dog/NOUN", "saw/VERB", "red/ADJ", "cats/NOUN")
	matches := m.Match(d.Span(3, 6))
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].Start)
	assert.Equal(t, 3, matches[0].End)
}

func TestMatchOperators(t *testing.T) {
	d := doc("very/ADV", "large/ADJ", "old/ADJ", "house/NOUN")
	all := d.Span(0, 4)

	cases := []struct {
		name string
		args []string
		want []string
	}{
		{"one or more", []string{"ADJ+", "NOUN"}, []string{"R:large old house", "R:old house"}},
		{"zero or more", []string{"ADJ*", "NOUN"}, []string{"R:large old house", "R:old house", "R:house"}},
		{"optional", []string{"ADV?", "ADJ"}, []string{"R:very large", "R:large", "R:old"}},
		{"negation", []string{"!ADJ|!NOUN", "ADJ"}, []string{"R:very large"}},
		{"no match", []string{"VERB"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := NewMatcher(pattern.Library{rule("R", tc.args...)})
			require.NoError(t, err)
			assert.Equal(t, tc.want, spans(d, m.Match(all)))
		})
	}
}

func TestMatchNegateOperator(t *testing.T) {
	seq := []pattern.TokenPattern{
		{Pos: pattern.Is("ADJ"), Op: pattern.OpNegate},
		{Pos: pattern.Is("NOUN")},
	}
	m, err := NewMatcher(pattern.Library{{Label: "R", Pattern: [][]pattern.TokenPattern{seq}}})
	require.NoError(t, err)

	d := doc("the/DET", "house/NOUN", "old/ADJ", "barn/NOUN")
	assert.Equal(t, []string{"R:the house"}, spans(d, m.Match(d.Span(0, 4))))
}

func TestMatchDeduplicates(t *testing.T) {
	a, _ := pattern.Parse([]string{"ADJ", "NOUN"})
	b, _ := pattern.Parse([]string{"ADJ", "NOUN|PROPN"})
	m, err := NewMatcher(pattern.Library{{Label: "R", Pattern: [][]pattern.TokenPattern{a, b}}})
	require.NoError(t, err)

	d := doc("old/ADJ", "house/NOUN")
	assert.Len(t, m.Match(d.Span(0, 2)), 1)
}

func TestMatchAttributes(t *testing.T) {
	d := doc("The/DET", "Dogs/NOUN", ",/PUNCT")
	d.Tokens[1].Lemma = "dog"
	d.Tokens[1].Tag = "NNS"
	d.Tokens[1].Dep = "nsubj"

	isPunct := true
	cases := map[string]pattern.TokenPattern{
		"lemma": {Lemma: pattern.Is("dog")},
		"lower": {Lower: pattern.Is("dogs")},
		"text":  {Text: pattern.Is("Dogs")},
		"orth":  {Orth: pattern.Is("Dogs")},
		"tag":   {Tag: pattern.Is("NNS")},
		"dep":   {Dep: pattern.Is("nsubj")},
	}

	for name, tp := range cases {
		t.Run(name, func(t *testing.T) {
			assert.True(t, isTokenMatch(d.Tokens[1], tp))
			assert.False(t, isTokenMatch(d.Tokens[0], tp))
		})
	}

	assert.True(t, isTokenMatch(d.Tokens[2], pattern.TokenPattern{IsPunct: &isPunct}))
	assert.False(t, isTokenMatch(d.Tokens[1], pattern.TokenPattern{IsPunct: &isPunct}))
}

func TestMatchEmptySpan(t *testing.T) {
	m, err := NewMatcher(pattern.Default())
	require.NoError(t, err)

	d := doc()
	assert.Empty(t, m.Match(d.Span(0, 0)))
}

func TestNewMatcherInvalid(t *testing.T) {
	_, err := NewMatcher(pattern.Library{{Label: "R"}})
	assert.ErrorIs(t, err, pattern.ErrInvalidRule)
}
