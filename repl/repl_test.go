package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/revelaction/terms/extract"
	"github.com/revelaction/terms/pattern"
	"github.com/revelaction/terms/render"
	sent "github.com/revelaction/terms/sentence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixed sent.Doc

func (f fixed) Name() string { return "fixed" }
func (f fixed) Close() error { return nil }

func (f fixed) Parse(ctx context.Context, text string) (sent.Doc, error) {
	doc := sent.Doc(f)
	doc.Text = text
	return doc, nil
}

const houseText = "The red brick house fell."

func handler(t *testing.T) (*Handler, *bytes.Buffer) {
	t.Helper()
	p := fixed{Tokens: []sent.Token{
		{Id: 0, Head: 3, Pos: "DET", Dep: "det", Idx: 0, Text: "The", Lemma: "the"},
		{Id: 1, Head: 3, Pos: "ADJ", Dep: "amod", Idx: 4, Text: "red", Lemma: "red"},
		{Id: 2, Head: 3, Pos: "NOUN", Dep: "compound", Idx: 8, Text: "brick", Lemma: "brick"},
		{Id: 3, Head: 4, Pos: "NOUN", Dep: "nsubj", Idx: 14, Text: "house", Lemma: "house"},
		{Id: 4, Head: 4, Pos: "VERB", Dep: "ROOT", Idx: 20, Text: "fell", Lemma: "fall"},
		{Id: 5, Head: 4, Pos: "PUNCT", Dep: "punct", Idx: 24, Text: ".", Lemma: "."},
	}}

	e, err := extract.New(p)
	require.NoError(t, err)

	var buf bytes.Buffer
	r := render.NewRenderer(&buf)
	r.HasPrefix = true
	return NewHandler(p, e, pattern.Default(), r), &buf
}

func TestProcess(t *testing.T) {
	h, buf := handler(t)

	require.NoError(t, h.Process(context.Background(), houseText))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "🏷  ADJ-NOUN ✍  The red brick house fell.", lines[0])
	assert.Contains(t, lines[1], "ADJ-NOUN-NOUN")
	assert.Contains(t, lines[2], "NOUN-NOUN")
}

func TestProcessLabel(t *testing.T) {
	h, buf := handler(t)

	require.NoError(t, h.Process(context.Background(), "/NOUN-NOUN "+houseText))
	assert.Equal(t, "🏷  NOUN-NOUN ✍  The red brick house fell.\n", buf.String())

	buf.Reset()
	require.NoError(t, h.Process(context.Background(), "/NOUN-ADP-NOUN "+houseText))
	assert.Equal(t, "no key noun phrases\n", buf.String())

	assert.Error(t, h.Process(context.Background(), "/UNKNOWN "+houseText))
	assert.Error(t, h.Process(context.Background(), "/NOUN-NOUN"))
}

func TestCompleteLabel(t *testing.T) {
	h, _ := handler(t)

	s := h.completeLabel("ADJ-N")
	var texts []string
	for _, sg := range s {
		texts = append(texts, sg.Text)
	}
	assert.Equal(t, []string{"/ADJ-NOUN", "/ADJ-NOUN-NOUN"}, texts)
}

type recorder struct {
	fixed
	texts []string
}

func (r *recorder) Parse(ctx context.Context, text string) (sent.Doc, error) {
	r.texts = append(r.texts, text)
	return r.fixed.Parse(ctx, text)
}

func TestProcessNormalizesText(t *testing.T) {
	h, _ := handler(t)
	rec := &recorder{fixed: h.Pipeline.(fixed)}
	h.Pipeline = rec

	require.NoError(t, h.Process(context.Background(), "The cafe\u0301 house fell."))
	assert.Equal(t, []string{"The caf\u00e9 house fell."}, rec.texts)
}
