package repl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/revelaction/terms/extract"
	"github.com/revelaction/terms/pattern"
	"github.com/revelaction/terms/pipeline"
	"github.com/revelaction/terms/render"
	sent "github.com/revelaction/terms/sentence"
)

const (
	// labelPrefix is the Character in the prompt that prefixes a rule label
	labelPrefix = "/"
)

type Handler struct {
	Pipeline  pipeline.Pipeline
	Extractor *extract.Extractor
	Library   pattern.Library
	Renderer  *render.Renderer
}

func NewHandler(p pipeline.Pipeline, e *extract.Extractor, l pattern.Library, r *render.Renderer) *Handler {
	return &Handler{
		Pipeline:  p,
		Extractor: e,
		Library:   l,
		Renderer:  r,
	}
}

func (h *Handler) Run(ctx context.Context) error {

	fmt.Println("🔑 Ctrl+X: Toggle prefix, /LABEL text: only LABEL, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {

		in := prompt.Input("      🔖 ", h.completer(),
			prompt.OptionTitle("terms repl"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Println("Prefix set to " + fmt.Sprintf("%t", h.Renderer.HasPrefix))
				}}),
		)

		if in == "quit" {
			return nil
		}

		if strings.TrimSpace(in) == "" {
			continue
		}

		history = append(history, in)

		if err := h.Process(ctx, in); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintf(h.Renderer.W, "❌ %s\n", err)
		}
	}
}

// Process parses the input text and renders each key noun phrase of it
// highlighted in its sentence.
func (h *Handler) Process(ctx context.Context, in string) error {
	label, text, err := h.parse(in)
	if err != nil {
		return err
	}

	var doc sent.Doc
	err = pipeline.Pipe(ctx, h.Pipeline, []sent.Input{{Text: text, Id: "1"}}, 1, func(d sent.Doc) error {
		doc = d
		return nil
	})
	if err != nil {
		return err
	}

	found := 0
	for _, ls := range h.Extractor.Matches(&doc) {
		if label != "" && ls.Label != label {
			continue
		}

		found++
		h.Renderer.Sentence(sentenceOf(&doc, ls.Span), ls.Span.Tokens(), h.Renderer.Label(ls.Label))
	}

	if found == 0 {
		fmt.Fprintln(h.Renderer.W, "no key noun phrases")
	}

	return nil
}

// sentenceOf returns the tokens of the sentence containing the span.
func sentenceOf(doc *sent.Doc, span sent.Span) []sent.Token {
	if span.Len() == 0 {
		return nil
	}

	id := doc.Tokens[span.Start].SentenceId
	var tokens []sent.Token
	for _, t := range doc.Tokens {
		if t.SentenceId == id {
			tokens = append(tokens, t)
		}
	}

	return tokens
}

func (h *Handler) parse(in string) (string, string, error) {
	in = strings.TrimSpace(in)
	if !strings.HasPrefix(in, labelPrefix) {
		return "", in, nil
	}

	label, text, _ := strings.Cut(strings.TrimPrefix(in, labelPrefix), " ")
	if _, ok := h.Library.Rule(label); !ok {
		return "", "", fmt.Errorf("There is no such label: %s.", label)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", errors.New("No text given.")
	}

	return label, text, nil
}

func (h *Handler) completer() func(in prompt.Document) []prompt.Suggest {
	return func(in prompt.Document) []prompt.Suggest {

		s := []prompt.Suggest{}
		befCursor := in.TextBeforeCursor()

		// only the label is completed
		if !strings.HasPrefix(befCursor, labelPrefix) || strings.Contains(befCursor, " ") {
			return s
		}

		return h.completeLabel(strings.TrimPrefix(befCursor, labelPrefix))
	}
}

func (h *Handler) completeLabel(token string) (s []prompt.Suggest) {
	for _, r := range h.Library {
		if strings.HasPrefix(r.Label, token) {
			s = append(s, prompt.Suggest{Text: labelPrefix + r.Label, Description: "🔖 " + r.Label})
		}
	}

	return s
}
