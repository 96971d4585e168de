package pattern

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// AnyToken is the expression of a token without constraints.
const AnyToken = "_"

// Parse parses the user input and converts it to a token sequence.
//
// Each argument describes one token. Upper case words are POS values, lower
// case words are lemmas, and `key=value` selects another attribute (pos, tag,
// dep, lemma, lower, text, orth, is_punct). Alternatives are separated by
// `|`, a leading `!` negates a value, constraints on the same token are
// joined by `,` and a trailing `?`, `*`, `+` or `!` sets the quantifier. `_`
// is any token:
//
//	ADJ* NOUN|PROPN,dep=!punct _? is_punct=false
func Parse(args []string) ([]TokenPattern, error) {
	if len(args) == 0 {
		return nil, errors.New("empty expression")
	}

	var seq []TokenPattern
	for _, arg := range args {
		tp, err := parseToken(arg)
		if err != nil {
			return nil, err
		}

		seq = append(seq, tp)
	}

	return seq, nil
}

func parseToken(arg string) (TokenPattern, error) {
	var tp TokenPattern

	if len(arg) > 1 {
		switch last := arg[len(arg)-1:]; last {
		case OpOptional, OpZeroMore, OpOneMore, OpNegate:
			tp.Op = last
			arg = arg[:len(arg)-1]
		}
	}

	if arg == "" {
		return tp, errors.New("empty token in expression")
	}

	if arg == AnyToken {
		return tp, nil
	}

	for _, constraint := range strings.Split(arg, ",") {
		key, value, found := strings.Cut(constraint, "=")
		if !found {
			value = key
			bare := strings.TrimPrefix(value, "!")
			if bare == "" {
				return tp, fmt.Errorf("empty constraint in %q", arg)
			}

			key = "lemma"
			if firstChar := []rune(bare)[0]; unicode.IsUpper(firstChar) && unicode.IsLetter(firstChar) {
				key = "pos"
			}
		}

		if strings.EqualFold(key, "is_punct") {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return tp, fmt.Errorf("%s: %w", constraint, err)
			}
			tp.IsPunct = &b
			continue
		}

		v, err := parseValue(value)
		if err != nil {
			return tp, fmt.Errorf("%s: %w", constraint, err)
		}

		switch strings.ToLower(key) {
		case "pos":
			tp.Pos = v
		case "tag":
			tp.Tag = v
		case "dep":
			tp.Dep = v
		case "lemma":
			tp.Lemma = v
		case "lower":
			tp.Lower = v
		case "text":
			tp.Text = v
		case "orth":
			tp.Orth = v
		default:
			return tp, fmt.Errorf("unknown attribute %q", key)
		}
	}

	return tp, nil
}

func parseValue(s string) (Value, error) {
	var v Value
	for _, alt := range strings.Split(s, "|") {
		if neg, ok := strings.CutPrefix(alt, "!"); ok {
			if neg == "" {
				return v, errors.New("empty negated value")
			}
			v.NotIn = append(v.NotIn, neg)
			continue
		}

		if alt == "" {
			return v, errors.New("empty value")
		}
		v.In = append(v.In, alt)
	}

	return v, nil
}

// Label builds a rule label from a sequence, f.ex. ADJ-NOUN.
func Label(seq []TokenPattern) string {
	sl := []string{}
	for _, tp := range seq {
		sl = append(sl, tp.String())
	}

	return strings.Join(sl, "-")
}
