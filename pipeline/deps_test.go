package pipeline

import (
	"testing"

	sent "github.com/revelaction/terms/sentence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tagged builds sentence tokens from word/TAG pairs, as the Prose pipeline
// does before labeling.
func tagged(pairs ...string) []sent.Token {
	words := make([]string, len(pairs))
	tags := make([]string, len(pairs))
	for i, p := range pairs {
		for j := len(p) - 1; j >= 0; j-- {
			if p[j] == '/' {
				words[i], tags[i] = p[:j], p[j+1:]
				break
			}
		}
	}

	tokens := make([]sent.Token, len(pairs))
	for i := range pairs {
		pos := upos(words, tags, i)
		tokens[i] = sent.Token{
			Id:      i,
			Head:    i,
			Pos:     pos,
			Tag:     tags[i],
			Text:    words[i],
			Lemma:   lemma(words[i], tags[i], pos),
			Index:   i,
			IsPunct: pos == "PUNCT",
		}
	}
	return tokens
}

type arc struct {
	Head int
	Dep  string
}

func arcs(tokens []sent.Token) []arc {
	res := make([]arc, len(tokens))
	for i, t := range tokens {
		res[i] = arc{t.Head, t.Dep}
	}
	return res
}

func TestLabelSubjectWithPreposition(t *testing.T) {
	tokens := tagged("The/DT", "owner/NN", "of/IN", "the/DT", "small/JJ", "shop/NN", "opened/VBD", "a/DT", "new/JJ", "store/NN", "./.")
	labelSentence(tokens)

	expected := []arc{
		{1, "det"},
		{6, "nsubj"},
		{1, "prep"},
		{5, "det"},
		{5, "amod"},
		{2, "pobj"},
		{6, "ROOT"},
		{9, "det"},
		{9, "amod"},
		{6, "dobj"},
		{6, "punct"},
	}
	assert.Equal(t, expected, arcs(tokens))

	doc := &sent.Doc{Tokens: tokens}
	assert.Equal(t, 0, doc.LeftEdge(1))
	assert.Equal(t, 5, doc.RightEdge(1))
}

func TestLabelPassive(t *testing.T) {
	tokens := tagged("The/DT", "house/NN", "was/VBD", "built/VBN", "by/IN", "workers/NNS", "./.")
	labelSentence(tokens)

	expected := []arc{
		{1, "det"},
		{3, "nsubjpass"},
		{3, "auxpass"},
		{3, "ROOT"},
		{3, "prep"},
		{4, "pobj"},
		{3, "punct"},
	}
	assert.Equal(t, expected, arcs(tokens))
	assert.Equal(t, "worker", tokens[5].Lemma)
	assert.Equal(t, "be", tokens[2].Lemma)
}

func TestLabelCopula(t *testing.T) {
	tokens := tagged("The/DT", "house/NN", "is/VBZ", "big/JJ", "./.")
	labelSentence(tokens)

	expected := []arc{
		{1, "det"},
		{2, "nsubj"},
		{2, "ROOT"},
		{2, "acomp"},
		{2, "punct"},
	}
	assert.Equal(t, expected, arcs(tokens))
}

func TestLabelCoordination(t *testing.T) {
	tokens := tagged("The/DT", "cat/NN", "and/CC", "the/DT", "dog/NN", "ran/VBD", "./.")
	labelSentence(tokens)

	expected := []arc{
		{1, "det"},
		{5, "nsubj"},
		{1, "cc"},
		{4, "det"},
		{1, "conj"},
		{5, "ROOT"},
		{5, "punct"},
	}
	assert.Equal(t, expected, arcs(tokens))

	doc := &sent.Doc{Tokens: tokens}
	span := doc.Subtree(1)
	assert.Equal(t, 0, span.Start)
	assert.Equal(t, 5, span.End)
}

func TestLabelUsesDocIds(t *testing.T) {
	tokens := tagged("Dogs/NNS", "bark/VBP")
	for i := range tokens {
		tokens[i].Id += 10
	}
	labelSentence(tokens)

	assert.Equal(t, 11, tokens[0].Head)
	assert.Equal(t, "nsubj", tokens[0].Dep)
	assert.Equal(t, 11, tokens[1].Head)
	assert.Equal(t, "ROOT", tokens[1].Dep)
}

func TestLabelNoVerb(t *testing.T) {
	tokens := tagged("A/DT", "red/JJ", "house/NN")
	labelSentence(tokens)

	require.Len(t, tokens, 3)
	assert.Equal(t, "ROOT", tokens[2].Dep)
	assert.Equal(t, 2, tokens[2].Head)
	assert.Equal(t, "amod", tokens[1].Dep)

	labelSentence(nil)
}

func TestUpos(t *testing.T) {
	words := []string{"He", "has", "eaten", "because", "she", "has", "a", "dog"}
	tags := []string{"PRP", "VBZ", "VBN", "IN", "PRP", "VBZ", "DT", "NN"}

	assert.Equal(t, "PRON", upos(words, tags, 0))
	assert.Equal(t, "AUX", upos(words, tags, 1))
	assert.Equal(t, "VERB", upos(words, tags, 2))
	assert.Equal(t, "SCONJ", upos(words, tags, 3))
	assert.Equal(t, "VERB", upos(words, tags, 5))
	assert.Equal(t, "PUNCT", upos([]string{"..."}, []string{"???"}, 0))
	assert.Equal(t, "X", upos([]string{"qq"}, []string{"???"}, 0))
}

func TestLemma(t *testing.T) {
	tests := []struct {
		word, tag, pos, want string
	}{
		{"Houses", "NNS", "NOUN", "house"},
		{"children", "NNS", "NOUN", "child"},
		{"boxes", "NNS", "NOUN", "box"},
		{"cities", "NNS", "NOUN", "city"},
		{"glasses", "NNS", "NOUN", "glass"},
		{"bus", "NN", "NOUN", "bus"},
		{"London", "NNP", "PROPN", "London"},
		{"were", "VBD", "AUX", "be"},
		{"had", "VBD", "AUX", "have"},
		{"runs", "VBZ", "VERB", "run"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, lemma(tt.word, tt.tag, tt.pos), tt.word)
	}
}
