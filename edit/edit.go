package edit

import (
	"errors"
	"fmt"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/revelaction/terms/pattern"
	"github.com/revelaction/terms/storage"
)

const (
	actionAdd    = 1
	actionDelete = 0
)

// Handler edits the rules of a repository. Each input line is a rule label
// followed by a token sequence. The sequence is added to the rule, or, with
// a trailing "/", removed from it:
//
//	ADJ-NOUN ADJ NOUN
//	ADJ-NOUN ADJ NOUN/
//
// A rule without sequences is deleted.
type Handler struct {
	Library pattern.Library

	Repo storage.RuleRepository
}

func NewHandler(r storage.RuleRepository) (*Handler, error) {
	lib, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	return &Handler{
		Library: lib,
		Repo:    r,
	}, nil
}

func (h *Handler) Run() error {

	fmt.Println("🔑 LABEL TOKENS: add, LABEL TOKENS/: delete, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {

		// PromtForEdit
		in := prompt.Input("      🔖 ", h.completer(),
			prompt.OptionTitle("terms edit"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionHistory(history),
		)

		if in == "quit" {
			return nil
		}

		history = append(history, in)
		msg, err := h.Apply(in)
		if err != nil {
			fmt.Printf("❌ %s\n", err)
			continue
		}

		fmt.Printf("✅ %s\n", msg)
	}
}

// Apply executes one edit line and writes the changed rule.
func (h *Handler) Apply(in string) (string, error) {
	r, seq, action, err := h.parse(in)
	if err != nil {
		return "", err
	}

	if action == actionAdd {
		if seqExistInRule(r, seq) {
			return "", errors.New("Sequence already exist.")
		}

		r.Pattern = append(r.Pattern, seq)
		if err := h.Repo.Write(r); err != nil {
			return "", err
		}

		return h.reload(fmt.Sprintf("added to %s", r.Label))
	}

	if !seqExistInRule(r, seq) {
		return "", errors.New("Sequence does not exist.")
	}

	r = removeSeqFromRule(r, seq)
	if len(r.Pattern) == 0 {
		if err := h.Repo.Delete(r.Label); err != nil {
			return "", err
		}

		return h.reload(fmt.Sprintf("deleted rule %s", r.Label))
	}

	if err := h.Repo.Write(r); err != nil {
		return "", err
	}

	return h.reload(fmt.Sprintf("removed from %s", r.Label))
}

// reload the library after write
func (h *Handler) reload(msg string) (string, error) {
	lib, err := h.Repo.ReadAll()
	if err != nil {
		return "", err
	}

	h.Library = lib
	return msg, nil
}

func (h *Handler) completer() func(in prompt.Document) []prompt.Suggest {
	return func(in prompt.Document) []prompt.Suggest {

		s := []prompt.Suggest{}
		befCursor := in.TextBeforeCursor()

		// Only one character in line
		if "" == befCursor {
			return s
		}

		tokens := strings.Split(befCursor, " ")

		if len(tokens) == 1 {
			for _, r := range h.Library {
				if strings.HasPrefix(r.Label, befCursor) {
					s = append(s, prompt.Suggest{Text: r.Label, Description: ""})
				}
			}

			return s
		}

		r, ok := h.Library.Rule(tokens[0])

		// First token must be the label
		if !ok {
			return s
		}

		rest := strings.Join(tokens[1:], " ")

		if rest == "" {
			return s
		}

		for _, seq := range r.Pattern {
			seqStr := seqString(seq)
			if strings.HasPrefix(seqStr, rest) {
				// Do not show sugestion at the end of the text
				if len(rest) < len(seqStr) {
					s = append(s, prompt.Suggest{Text: seqStr, Description: ""})
				}
			}
		}

		return s
	}
}

func seqString(seq []pattern.TokenPattern) string {
	sl := make([]string, len(seq))
	for i, tp := range seq {
		sl[i] = tp.String()
	}

	return strings.Join(sl, " ")
}

func (h *Handler) parse(in string) (pattern.Rule, []pattern.TokenPattern, int, error) {

	tokens := strings.Fields(in)

	action := actionAdd
	if len(tokens) == 0 {
		return pattern.Rule{}, nil, action, errors.New("No rule label given.")
	}

	lastToken := tokens[len(tokens)-1]
	if strings.HasSuffix(lastToken, "/") {
		action = actionDelete
		tokens[len(tokens)-1] = lastToken[:len(lastToken)-1]
		if tokens[len(tokens)-1] == "" {
			tokens = tokens[:len(tokens)-1]
		}
	}

	// First token is the label, a new one for a new rule
	r, ok := h.Library.Rule(tokens[0])
	if !ok {
		if action == actionDelete {
			return r, nil, action, errors.New("There is no such rule: " + tokens[0] + ".")
		}
		r = pattern.Rule{Label: tokens[0]}
	}

	expr := tokens[1:]
	if len(expr) == 0 {
		return r, nil, action, errors.New("No sequence given.")
	}

	seq, parseErr := pattern.Parse(expr)
	if parseErr != nil {
		return r, nil, action, parseErr
	}

	return r, seq, action, nil
}

func seqExistInRule(r pattern.Rule, seq []pattern.TokenPattern) bool {
	for _, s := range r.Pattern {
		if pattern.EqualSequence(s, seq) {
			return true
		}
	}

	return false
}

func removeSeqFromRule(r pattern.Rule, seq []pattern.TokenPattern) pattern.Rule {

	seqs := make([][]pattern.TokenPattern, 0)

	for index, s := range r.Pattern {
		if !pattern.EqualSequence(s, seq) {
			continue
		}

		// Equal: append till index and after index
		seqs = append(seqs, r.Pattern[:index]...)
		seqs = append(seqs, r.Pattern[index+1:]...)
		break
	}

	return pattern.Rule{Label: r.Label, Pattern: seqs}
}
