package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/revelaction/terms/match"
	"github.com/revelaction/terms/normalize"
	"github.com/revelaction/terms/pattern"
	sent "github.com/revelaction/terms/sentence"
	"github.com/revelaction/terms/stat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parsed is a pipeline returning fixed docs by text.
type parsed map[string]sent.Doc

func (p parsed) Name() string { return "parsed" }
func (p parsed) Close() error { return nil }

func (p parsed) Parse(ctx context.Context, text string) (sent.Doc, error) {
	doc, ok := p[text]
	if !ok {
		return sent.Doc{}, fmt.Errorf("cannot parse %q", text)
	}
	doc.Text = text
	return doc, nil
}

const (
	houseText = "The small red brick houses collapsed."
	manText   = "The old man is here."
)

func houseDoc() sent.Doc {
	return sent.Doc{
		Text: houseText,
		Tokens: []sent.Token{
			{Id: 0, Head: 4, Pos: "DET", Dep: "det", Idx: 0, Text: "The", Lemma: "the"},
			{Id: 1, Head: 4, Pos: "ADJ", Dep: "amod", Idx: 4, Text: "small", Lemma: "small"},
			{Id: 2, Head: 4, Pos: "ADJ", Dep: "amod", Idx: 10, Text: "red", Lemma: "red"},
			{Id: 3, Head: 4, Pos: "NOUN", Dep: "compound", Idx: 14, Text: "brick", Lemma: "brick"},
			{Id: 4, Head: 5, Pos: "NOUN", Dep: "nsubj", Idx: 20, Text: "houses", Lemma: "House"},
			{Id: 5, Head: 5, Pos: "VERB", Dep: "ROOT", Idx: 27, Text: "collapsed", Lemma: "collapse"},
			{Id: 6, Head: 5, Pos: "PUNCT", Dep: "punct", Idx: 36, Text: ".", Lemma: ".", IsPunct: true},
		},
	}
}

// the subject head is an auxiliary
func manDoc() sent.Doc {
	return sent.Doc{
		Text: manText,
		Tokens: []sent.Token{
			{Id: 0, Head: 2, Pos: "DET", Dep: "det", Idx: 0, Text: "The", Lemma: "the"},
			{Id: 1, Head: 2, Pos: "ADJ", Dep: "amod", Idx: 4, Text: "old", Lemma: "old"},
			{Id: 2, Head: 3, Pos: "NOUN", Dep: "nsubj", Idx: 8, Text: "man", Lemma: "man"},
			{Id: 3, Head: 3, Pos: "AUX", Dep: "ROOT", Idx: 12, Text: "is", Lemma: "be"},
			{Id: 4, Head: 3, Pos: "ADV", Dep: "advmod", Idx: 15, Text: "here", Lemma: "here"},
			{Id: 5, Head: 3, Pos: "PUNCT", Dep: "punct", Idx: 19, Text: ".", Lemma: ".", IsPunct: true},
		},
	}
}

func testPipeline() parsed {
	return parsed{houseText: houseDoc(), manText: manDoc()}
}

func collect(t *testing.T, e *Extractor, inputs []sent.Input) []Row {
	t.Helper()
	var rows []Row
	err := e.YieldKeyPhrases(context.Background(), inputs, func(r Row) error {
		rows = append(rows, r)
		return nil
	})
	require.NoError(t, err)
	return rows
}

func TestYieldKeyPhrases(t *testing.T) {
	e, err := New(testPipeline())
	require.NoError(t, err)

	rows := collect(t, e, []sent.Input{{Text: houseText, Id: "h1"}, {Text: manText, Id: "m1"}})

	expected := []Row{
		{UUID: "h1", Label: "ADJ-ADJ-NOUN", Phrase: "small red brick", Processed: "small red brick", Location: [2]int{4, 19}},
		{UUID: "h1", Label: "ADJ-NOUN", Phrase: "red brick", Processed: "red brick", Location: [2]int{10, 19}},
		{UUID: "h1", Label: "ADJ-NOUN-NOUN", Phrase: "red brick houses", Processed: "red brick house", Location: [2]int{10, 26}},
		{UUID: "h1", Label: "NOUN-NOUN", Phrase: "brick houses", Processed: "brick house", Location: [2]int{14, 26}},
	}
	assert.Equal(t, expected, rows)
}

func TestYieldKeyPhrasesExclusive(t *testing.T) {
	e, err := New(testPipeline(), WithExclusive(true))
	require.NoError(t, err)

	rows := collect(t, e, []sent.Input{{Text: houseText, Id: "h1"}})

	require.Len(t, rows, 2)
	assert.Equal(t, "red brick houses", rows[0].Phrase)
	assert.Equal(t, "brick houses", rows[1].Phrase)
}

func TestHeadPos(t *testing.T) {
	e, err := New(testPipeline(), WithHeadPos("AUX"))
	require.NoError(t, err)

	rows := collect(t, e, []sent.Input{{Text: houseText, Id: "h1"}, {Text: manText, Id: "m1"}})

	require.Len(t, rows, 1)
	assert.Equal(t, Row{UUID: "m1", Label: "ADJ-NOUN", Phrase: "old man", Processed: "old man", Location: [2]int{4, 11}}, rows[0])
}

func TestSubjectDeps(t *testing.T) {
	e, err := New(testPipeline(), WithSubjectDeps("nsubjpass"))
	require.NoError(t, err)

	rows := collect(t, e, []sent.Input{{Text: houseText, Id: "h1"}})
	assert.Empty(t, rows)
}

// Every row refers to an input and its phrase lies in a subject subtree and
// is matched by its rule.
func TestRowsTraceToInputs(t *testing.T) {
	p := testPipeline()
	e, err := New(p)
	require.NoError(t, err)

	inputs := []sent.Input{{Text: manText, Id: "a"}, {Text: houseText, Id: "b"}, {Text: houseText, Id: "c"}}
	rows := collect(t, e, inputs)
	require.NotEmpty(t, rows)

	texts := map[string]string{}
	for _, in := range inputs {
		texts[in.Id] = in.Text
	}

	lib := pattern.Default()
	for _, r := range rows {
		text, ok := texts[r.UUID]
		require.True(t, ok, r.UUID)
		assert.Equal(t, r.Phrase, string([]rune(text)[r.Location[0]:r.Location[1]]))

		doc := p[text]
		var tokens []sent.Token
		for _, tk := range doc.Tokens {
			if tk.Idx >= r.Location[0] && tk.End() <= r.Location[1] {
				tokens = append(tokens, tk)
			}
		}

		rule, ok := lib.Rule(r.Label)
		require.True(t, ok)
		m, err := match.NewMatcher(pattern.Library{rule})
		require.NoError(t, err)
		span := (&sent.Doc{Tokens: tokens}).Span(0, len(tokens))
		found := false
		for _, mt := range m.Match(span) {
			if mt.Start == 0 && mt.End == len(tokens) {
				found = true
			}
		}
		assert.True(t, found, r.Phrase)
	}

	assert.Equal(t, "b", rows[0].UUID)
	assert.Equal(t, "c", rows[len(rows)-1].UUID)
}

func TestToTable(t *testing.T) {
	e, err := New(testPipeline())
	require.NoError(t, err)

	tb, err := e.ToTable(context.Background(), []sent.Input{{Text: houseText, Id: "h1"}})
	require.NoError(t, err)

	assert.Equal(t, Columns(), tb.Columns)
	assert.Equal(t, 4, tb.Len())

	labels, err := tb.Column(ColLabel)
	require.NoError(t, err)
	assert.Equal(t, []any{"ADJ-ADJ-NOUN", "ADJ-NOUN", "ADJ-NOUN-NOUN", "NOUN-NOUN"}, labels)
	assert.Equal(t, [2]int{4, 19}, tb.Records()[0][ColLocation])
}

func TestToTableEmpty(t *testing.T) {
	e, err := New(testPipeline())
	require.NoError(t, err)

	tb, err := e.ToTable(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tb.Len())
	assert.Equal(t, Columns(), tb.Columns)
}

func TestErrors(t *testing.T) {
	e, err := New(testPipeline())
	require.NoError(t, err)

	_, err = e.ToTable(context.Background(), []sent.Input{{Text: houseText, Id: "h1"}, {Text: "unknown", Id: "u1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `input "u1"`)

	stop := errors.New("stop")
	calls := 0
	err = e.YieldKeyPhrases(context.Background(), []sent.Input{{Text: houseText, Id: "h1"}}, func(Row) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)

	e, err = New(nil)
	require.NoError(t, err)
	assert.Error(t, e.YieldKeyPhrases(context.Background(), nil, func(Row) error { return nil }))
}

func TestYieldParsed(t *testing.T) {
	stats := stat.NewHandler()
	done := 0
	n, err := normalize.New(normalize.ModeStem, "en")
	require.NoError(t, err)

	e, err := New(nil, WithStats(stats), WithNormalizer(n), WithProgress(func(sent.Doc) { done++ }))
	require.NoError(t, err)

	doc := houseDoc()
	doc.Id = "p1"
	tb, err := e.ParsedTable([]sent.Doc{doc, manDoc()})
	require.NoError(t, err)

	assert.Equal(t, 4, tb.Len())
	processed, err := tb.Column(ColProcessed)
	require.NoError(t, err)
	assert.Equal(t, "red brick hous", processed[2])

	s := stats.Get()
	assert.Equal(t, 2, s.NumDocs)
	assert.Equal(t, 1, s.NumSubjects)
	assert.Equal(t, 4, s.NumRows)
	assert.Equal(t, 1, s.RowsPerLabel["NOUN-NOUN"])
	assert.Equal(t, 2, done)
}

func TestMatches(t *testing.T) {
	e, err := New(nil, WithMatcher(mustMatcher(t, "NOUN-NOUN")))
	require.NoError(t, err)

	doc := houseDoc()
	spans := e.Matches(&doc)
	require.Len(t, spans, 1)
	assert.Equal(t, "NOUN-NOUN", spans[0].Label)
	assert.Equal(t, "brick houses", spans[0].Span.Text())
}

func mustMatcher(t *testing.T, labels ...string) *match.Matcher {
	t.Helper()
	var lib pattern.Library
	for _, l := range labels {
		r, ok := pattern.Default().Rule(l)
		require.True(t, ok, l)
		lib = append(lib, r)
	}

	m, err := match.NewMatcher(lib)
	require.NoError(t, err)
	return m
}
