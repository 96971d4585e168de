package storage

import (
	"errors"

	"github.com/revelaction/terms/extract"
	"github.com/revelaction/terms/pattern"
)

var ErrRuleNotFound = errors.New("rule not found")

// RuleReader defines read operations for rule storage
type RuleReader interface {
	// ReadAll returns all rules from storage, in storage order
	ReadAll() (pattern.Library, error)

	// Read returns a single rule by label
	Read(label string) (pattern.Rule, error)
}

// RuleWriter defines write operations for rule storage
type RuleWriter interface {
	// Write persists a rule to storage, replacing the rule with the same
	// label
	Write(r pattern.Rule) error

	// Delete removes the rule with the label
	Delete(label string) error
}

// RuleRepository combines read and write operations
type RuleRepository interface {
	RuleReader
	RuleWriter
}

// PhraseWriter exports extracted key noun phrases
type PhraseWriter interface {
	// Write persists the rows in one transaction
	Write(rows []extract.Row) error
}
