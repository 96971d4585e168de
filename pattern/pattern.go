package pattern

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Quantifier operators of a TokenPattern.
const (
	OpOne      = ""
	OpNegate   = "!"
	OpOptional = "?"
	OpZeroMore = "*"
	OpOneMore  = "+"
)

var ErrInvalidRule = errors.New("invalid rule")

// Rule is a labeled set of token sequences. A span matches the rule if it
// matches any of its sequences.
//
//	{
//	    "label": "ADJ-NOUN",
//	    "pattern": [
//	        [{"POS": "ADJ"}, {"POS": "NOUN"}]
//	    ]
//	}
type Rule struct {
	Label   string           `json:"label" yaml:"label"`
	Pattern [][]TokenPattern `json:"pattern" yaml:"pattern"`
}

// Library is a collection of rules
type Library []Rule

// Labels returns the rule labels of the library, in order
func (l Library) Labels() []string {
	var labels []string
	for _, r := range l {
		labels = append(labels, r.Label)
	}
	return labels
}

// Rule returns the rule with the given label
func (l Library) Rule(label string) (Rule, bool) {
	for _, r := range l {
		if r.Label == label {
			return r, true
		}
	}
	return Rule{}, false
}

// Validate checks that every rule has a label and non empty sequences with
// known operators.
func (l Library) Validate() error {
	seen := map[string]bool{}
	for i, r := range l {
		if r.Label == "" {
			return fmt.Errorf("%w: rule %d has no label", ErrInvalidRule, i)
		}

		if seen[r.Label] {
			return fmt.Errorf("%w: duplicated label %q", ErrInvalidRule, r.Label)
		}
		seen[r.Label] = true

		if err := r.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks the sequences of the rule.
func (r Rule) Validate() error {
	if len(r.Pattern) == 0 {
		return fmt.Errorf("%w: %q has no pattern", ErrInvalidRule, r.Label)
	}

	for _, seq := range r.Pattern {
		if len(seq) == 0 {
			return fmt.Errorf("%w: %q has an empty pattern", ErrInvalidRule, r.Label)
		}

		for _, tp := range seq {
			switch tp.Op {
			case OpOne, OpNegate, OpOptional, OpZeroMore, OpOneMore:
			default:
				return fmt.Errorf("%w: %q unknown operator %q", ErrInvalidRule, r.Label, tp.Op)
			}
		}
	}

	return nil
}

// TokenPattern describes the attributes one token must have. Empty fields
// match any token.
type TokenPattern struct {
	Pos   Value `json:"POS,omitzero" yaml:"POS,omitempty"`
	Tag   Value `json:"TAG,omitzero" yaml:"TAG,omitempty"`
	Dep   Value `json:"DEP,omitzero" yaml:"DEP,omitempty"`
	Lemma Value `json:"LEMMA,omitzero" yaml:"LEMMA,omitempty"`
	Lower Value `json:"LOWER,omitzero" yaml:"LOWER,omitempty"`
	Text  Value `json:"TEXT,omitzero" yaml:"TEXT,omitempty"`

	// ORTH is an alias of TEXT
	Orth Value `json:"ORTH,omitzero" yaml:"ORTH,omitempty"`

	IsPunct *bool `json:"IS_PUNCT,omitempty" yaml:"IS_PUNCT,omitempty"`

	Op string `json:"OP,omitempty" yaml:"OP,omitempty"`
}

// String returns the token in the Parse syntax, so that the output of a
// sequence can be parsed back to the same sequence.
func (tp TokenPattern) String() string {
	sl := []string{}

	if !tp.Pos.IsZero() {
		sl = append(sl, attr("pos", tp.Pos, isPosCased(tp.Pos)))
	}

	for _, kv := range []struct {
		key string
		v   Value
	}{{"tag", tp.Tag}, {"dep", tp.Dep}} {
		if !kv.v.IsZero() {
			sl = append(sl, attr(kv.key, kv.v, false))
		}
	}

	if !tp.Lemma.IsZero() {
		sl = append(sl, attr("lemma", tp.Lemma, !isPosCased(tp.Lemma)))
	}

	for _, kv := range []struct {
		key string
		v   Value
	}{{"lower", tp.Lower}, {"text", tp.Text}, {"orth", tp.Orth}} {
		if !kv.v.IsZero() {
			sl = append(sl, attr(kv.key, kv.v, false))
		}
	}

	if tp.IsPunct != nil {
		sl = append(sl, fmt.Sprintf("is_punct=%t", *tp.IsPunct))
	}

	s := strings.Join(sl, ",")
	if s == "" {
		s = AnyToken
	}

	return s + tp.Op
}

func attr(key string, v Value, bare bool) string {
	if bare && v.String() != AnyToken && !strings.Contains(v.String(), "=") {
		return v.String()
	}
	return key + "=" + v.String()
}

// isPosCased reports whether a bare value is read by Parse as a POS: its
// first character is an upper case letter.
func isPosCased(v Value) bool {
	bare := strings.TrimPrefix(v.String(), "!")
	if bare == "" {
		return false
	}

	first := []rune(bare)[0]
	return unicode.IsUpper(first) && unicode.IsLetter(first)
}

// Value is an attribute constraint. In files it is either a plain string
// (exact match) or an object with IN or NOT_IN lists.
type Value struct {
	In    []string `json:"IN,omitempty" yaml:"IN,omitempty"`
	NotIn []string `json:"NOT_IN,omitempty" yaml:"NOT_IN,omitempty"`
}

// Is returns a Value matching exactly s.
func Is(s string) Value {
	return Value{In: []string{s}}
}

// IsZero reports whether the Value has no constraint.
func (v Value) IsZero() bool {
	return len(v.In) == 0 && len(v.NotIn) == 0
}

// Accepts reports whether s satisfies the Value. A zero Value accepts
// anything.
func (v Value) Accepts(s string) bool {
	if len(v.In) > 0 && !slices.Contains(v.In, s) {
		return false
	}

	if slices.Contains(v.NotIn, s) {
		return false
	}

	return true
}

func (v Value) String() string {
	sl := slices.Clone(v.In)
	for _, n := range v.NotIn {
		sl = append(sl, "!"+n)
	}
	return strings.Join(sl, "|")
}

func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.In) == 1 && len(v.NotIn) == 0 {
		return json.Marshal(v.In[0])
	}

	type plain Value
	return json.Marshal(plain(v))
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Is(s)
		return nil
	}

	type plain Value
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("%w: value must be a string or an IN/NOT_IN object: %s", ErrInvalidRule, b)
	}

	*v = Value(p)
	return nil
}

func (v Value) MarshalYAML() (any, error) {
	if len(v.In) == 1 && len(v.NotIn) == 0 {
		return v.In[0], nil
	}

	type plain Value
	return plain(v), nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*v = Is(node.Value)
		return nil
	}

	type plain Value
	var p plain
	if err := node.Decode(&p); err != nil {
		return fmt.Errorf("%w: value must be a string or an IN/NOT_IN mapping: %w", ErrInvalidRule, err)
	}

	*v = Value(p)
	return nil
}

// EqualRule determines if two rules are the same. The order of the sequences
// matters.
func EqualRule(a, b Rule) bool {
	if a.Label != b.Label || len(a.Pattern) != len(b.Pattern) {
		return false
	}

	for i := range a.Pattern {
		if !EqualSequence(a.Pattern[i], b.Pattern[i]) {
			return false
		}
	}

	return true
}

// EqualSequence determines if two token sequences are the same.
// the Equality requires slice order:
//
//	tokenA, tokenB != tokenB, tokenA
func EqualSequence(a, b []TokenPattern) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}

	return true
}
