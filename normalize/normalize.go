// Package normalize builds the processed form of a phrase: the lower cased
// lemmas (or stems) of its non punctuation tokens.
package normalize

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball"
	sent "github.com/revelaction/terms/sentence"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	ModeLemma = "lemma"
	ModeStem  = "stem"
)

// snowball stemmer names by ISO 639-1 code
var stemmers = map[string]string{
	"en": "english",
	"es": "spanish",
	"fr": "french",
	"ru": "russian",
	"sv": "swedish",
	"no": "norwegian",
	"nb": "norwegian",
	"hu": "hungarian",
}

func SupportedModes() []string {
	return []string{ModeLemma, ModeStem}
}

type Normalizer struct {
	mode    string
	stemmer string
	caser   cases.Caser
}

// New returns a Normalizer for the mode and the language (BCP 47, f.ex. "en"
// or "ru"). The language selects the lower casing rules and, in stem mode,
// the snowball stemmer.
func New(mode, lang string) (*Normalizer, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("invalid language %q: %w", lang, err)
	}

	n := &Normalizer{
		mode:  mode,
		caser: cases.Lower(tag),
	}

	switch mode {
	case ModeLemma:
	case ModeStem:
		base, _ := tag.Base()
		stemmer, ok := stemmers[base.String()]
		if !ok {
			return nil, fmt.Errorf("no stemmer for language %q", lang)
		}
		n.stemmer = stemmer
	default:
		return nil, fmt.Errorf("unknown normalize mode %q, allowed values are %s", mode, strings.Join(SupportedModes(), ", "))
	}

	return n, nil
}

// Phrase joins with a space the normalized form of the non punctuation
// tokens.
func (n *Normalizer) Phrase(tokens []sent.Token) string {
	words := []string{}
	for _, t := range tokens {
		if t.Punct() {
			continue
		}

		words = append(words, n.Word(t))
	}

	return strings.Join(words, " ")
}

// Word returns the normalized form of one token. Tokens without lemma fall
// back to their text.
func (n *Normalizer) Word(t sent.Token) string {
	lemma := t.Lemma
	if lemma == "" {
		lemma = t.Text
	}

	word := n.caser.String(lemma)
	if n.mode != ModeStem {
		return word
	}

	stemmed, err := snowball.Stem(word, n.stemmer, true)
	if err != nil {
		return word
	}

	return stemmed
}
