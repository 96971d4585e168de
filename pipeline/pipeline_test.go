package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	sent "github.com/revelaction/terms/sentence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fields is a pipeline splitting texts on white space.
type fields struct {
	calls int
	fail  string
}

func (f *fields) Name() string { return "fields" }
func (f *fields) Close() error { return nil }

func (f *fields) Parse(ctx context.Context, text string) (sent.Doc, error) {
	f.calls++
	if f.fail != "" && text == f.fail {
		return sent.Doc{}, errors.New("cannot parse")
	}

	doc := sent.Doc{Text: text}
	for i, w := range strings.Fields(text) {
		doc.Tokens = append(doc.Tokens, sent.Token{Id: i, Head: i, Text: w, Pos: "X", Index: i})
	}
	return doc, nil
}

// batchFields parses all texts of a batch in one call.
type batchFields struct {
	fields
	batches [][]string
}

func (b *batchFields) ParseBatch(ctx context.Context, texts []string) ([]sent.Doc, error) {
	b.batches = append(b.batches, texts)
	docs := make([]sent.Doc, len(texts))
	for i, text := range texts {
		docs[i], _ = b.Parse(ctx, text)
	}
	return docs, nil
}

func inputs(texts ...string) []sent.Input {
	res := make([]sent.Input, len(texts))
	for i, text := range texts {
		res[i] = sent.Input{Id: string(rune('a' + i)), Text: text}
	}
	return res
}

func TestLoadUnknownModel(t *testing.T) {
	for _, name := range []string{"", "en_core_web", "spacy:", "nltk"} {
		_, err := Load(context.Background(), name, Config{})
		assert.ErrorIs(t, err, ErrUnknownModel, name)
	}
}

func TestLoadSpacyWithoutCommand(t *testing.T) {
	_, err := Load(context.Background(), "en_core_web_sm", Config{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownModel)
}

func TestPipeOrderAndIds(t *testing.T) {
	p := &fields{}
	var docs []sent.Doc
	err := Pipe(context.Background(), p, inputs("one two", "three", "four five six"), 2, func(d sent.Doc) error {
		docs = append(docs, d)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, docs, 3)
	assert.Equal(t, "a", docs[0].Id)
	assert.Equal(t, "b", docs[1].Id)
	assert.Equal(t, "c", docs[2].Id)
	assert.Len(t, docs[2].Tokens, 3)
	assert.Equal(t, 3, p.calls)
}

func TestPipeBatches(t *testing.T) {
	p := &batchFields{}
	count := 0
	err := Pipe(context.Background(), p, inputs("a", "b", "c", "d", "e"), 2, func(d sent.Doc) error {
		count++
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 5, count)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, p.batches)
}

func TestPipeNormalizesText(t *testing.T) {
	p := &fields{}
	var got string
	// e + combining acute accent
	err := Pipe(context.Background(), p, inputs("cafe\u0301"), 0, func(d sent.Doc) error {
		got = d.Text
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", got)
	assert.Len(t, []rune(got), 4)
}

func TestPipeErrors(t *testing.T) {
	p := &fields{fail: "bad"}
	err := Pipe(context.Background(), p, inputs("good", "bad"), 10, func(d sent.Doc) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), `input "b"`)

	stop := errors.New("stop")
	err = Pipe(context.Background(), &fields{}, inputs("x", "y"), 10, func(d sent.Doc) error { return stop })
	assert.ErrorIs(t, err, stop)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Pipe(ctx, &fields{}, inputs("x"), 10, func(d sent.Doc) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
