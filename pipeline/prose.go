package pipeline

import (
	"context"
	"strings"
	"unicode"

	"github.com/jdkato/prose/tag"
	"github.com/jdkato/prose/tokenize"
	sent "github.com/revelaction/terms/sentence"
)

// Prose is an in-process english pipeline. Tokenization, sentence
// segmentation and tagging come from prose; lemmas and dependencies are
// assigned by rules over the tags.
type Prose struct {
	sentences *tokenize.PunktSentenceTokenizer
	words     *tokenize.TreebankWordTokenizer
	tagger    *tag.PerceptronTagger
}

var _ Pipeline = (*Prose)(nil)

// NewProse loads the prose models. Loading the tagger weights takes a
// while: reuse the pipeline.
func NewProse() *Prose {
	return &Prose{
		sentences: tokenize.NewPunktSentenceTokenizer(),
		words:     tokenize.NewTreebankWordTokenizer(),
		tagger:    tag.NewPerceptronTagger(),
	}
}

func (p *Prose) Name() string {
	return ProseModel
}

func (p *Prose) Close() error {
	return nil
}

// Parse tokenizes, tags and labels text. The token offsets refer to text.
func (p *Prose) Parse(ctx context.Context, text string) (sent.Doc, error) {
	doc := sent.Doc{Text: text}
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	runes := []rune(text)
	cursor := 0

	for sentId, sentence := range p.sentences.Tokenize(text) {
		words := p.words.Tokenize(sentence)
		if len(words) == 0 {
			continue
		}

		tagged := p.tagger.Tag(words)
		tags := make([]string, len(tagged))
		for i, tk := range tagged {
			tags[i] = tk.Tag
		}

		first := len(doc.Tokens)
		for i, w := range words {
			idx, surface := align(runes, cursor, w)
			cursor = idx + len([]rune(surface))

			pos := upos(words, tags, i)
			doc.Tokens = append(doc.Tokens, sent.Token{
				Id:         first + i,
				Head:       first + i,
				SentenceId: sentId,
				Pos:        pos,
				Tag:        tags[i],
				Idx:        idx,
				Text:       surface,
				Lemma:      lemma(surface, tags[i], pos),
				Index:      i,
				IsPunct:    pos == "PUNCT",
			})
		}

		labelSentence(doc.Tokens[first:])
	}

	return doc, nil
}

// treebank output forms that differ from the input text
var treebankQuotes = map[string]bool{"``": true, "''": true}

// align finds the word in the runes starting at the cursor and returns its
// rune offset and the text as it appears in the input. The treebank
// tokenizer rewrites double quotes; those are matched to the quote in the
// text.
func align(runes []rune, cursor int, word string) (int, string) {
	for cursor < len(runes) && unicode.IsSpace(runes[cursor]) {
		cursor++
	}

	w := []rune(word)
	if hasPrefixAt(runes, cursor, w) {
		return cursor, word
	}

	if treebankQuotes[word] && cursor < len(runes) && strings.ContainsRune("\"“”«»", runes[cursor]) {
		return cursor, string(runes[cursor])
	}

	// search forward, the tokenizer may have dropped characters
	for i := cursor + 1; i+len(w) <= len(runes); i++ {
		if hasPrefixAt(runes, i, w) {
			return i, word
		}
	}

	return cursor, word
}

func hasPrefixAt(runes []rune, at int, w []rune) bool {
	if at+len(w) > len(runes) {
		return false
	}

	for i, r := range w {
		if runes[at+i] != r {
			return false
		}
	}

	return true
}
