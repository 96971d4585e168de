package sentence

import (
	"unicode"
)

// Input is a text to be parsed along with the identifier that places the
// extracted phrases back in their context.
type Input struct {
	Text string `json:"text"`
	Id   string `json:"id"`
}

// Doc is a parsed input text.
type Doc struct {
	Id string `json:"id"`

	// The text the token offsets refer to
	Text string `json:"text"`

	Tokens []Token `json:"tokens"`
}

// Token represents a word of the doc, with POS and metadata.
type Token struct {
	// The index of the token in the doc, starting at 0.
	Id int `json:"id"`

	// The doc index of the syntactic head. The root of a sentence is its own head.
	Head       int    `json:"head"`
	SentenceId int    `json:"sent"`
	Pos        string `json:"pos"`
	Dep        string `json:"dep"`

	// A string containing detailed POS data
	Tag string `json:"tag"`

	// the index of the start character (rune) of the token in the original doc (set by spacy, stanza)
	Idx int `json:"idx"`

	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	// The index of the word in the sentence, starting at 0.
	Index int `json:"index"`

	IsPunct bool `json:"is_punct,omitempty"`
}

// Punct reports whether the token is punctuation, either by the parser's flag,
// its POS or its characters.
func (t Token) Punct() bool {
	if t.IsPunct || t.Pos == "PUNCT" {
		return true
	}

	if t.Text == "" {
		return false
	}

	for _, r := range t.Text {
		if !unicode.IsPunct(r) {
			return false
		}
	}

	return true
}

// End returns the rune offset just after the token.
func (t Token) End() int {
	return t.Idx + len([]rune(t.Text))
}

// IsRoot reports whether the token heads its sentence.
func (t Token) IsRoot() bool {
	return t.Head == t.Id
}
