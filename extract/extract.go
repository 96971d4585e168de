// Package extract finds the key noun phrases of texts.
//
// A key noun phrase is a phrase matched by a rule inside the subtree of a
// subject token (nsubj, nsubjpass) whose head is a verb. Phrases outside
// subject subtrees are ignored.
package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/revelaction/terms/match"
	"github.com/revelaction/terms/normalize"
	"github.com/revelaction/terms/pattern"
	"github.com/revelaction/terms/pipeline"
	sent "github.com/revelaction/terms/sentence"
	"github.com/revelaction/terms/stat"
	"github.com/revelaction/terms/table"
)

// table columns
const (
	ColUUID      = "uuid"
	ColLabel     = "pos_label"
	ColPhrase    = "key_noun_phrase"
	ColProcessed = "key_noun_phrase_processed"
	ColLocation  = "span_location"
)

func Columns() []string {
	return []string{ColUUID, ColLabel, ColPhrase, ColProcessed, ColLocation}
}

// Row is one key noun phrase.
type Row struct {
	// UUID is the id of the input the phrase was found in.
	UUID string `json:"uuid"`

	// Label is the label of the matching rule.
	Label string `json:"pos_label"`

	// Phrase is the verbatim text of the phrase.
	Phrase string `json:"key_noun_phrase"`

	// Processed is the normalized phrase: lower cased lemmas (or stems) of
	// the non punctuation tokens.
	Processed string `json:"key_noun_phrase_processed"`

	// Location is the [start, end) rune offset of the phrase in the input text.
	Location [2]int `json:"span_location"`
}

func (r Row) Values() []any {
	return []any{r.UUID, r.Label, r.Phrase, r.Processed, r.Location}
}

// DefaultSubjectDeps are the dependency labels of subject tokens in the
// spacy english (nsubj, nsubjpass) and universal (nsubj:pass) schemes.
func DefaultSubjectDeps() []string {
	return []string{"nsubj", "nsubjpass", "nsubj:pass"}
}

const DefaultHeadPos = "VERB"

type Extractor struct {
	pipeline   pipeline.Pipeline
	matcher    *match.Matcher
	normalizer *normalize.Normalizer

	batchSize   int
	exclusive   bool
	subjectDeps map[string]bool
	headPos     string

	logger   *slog.Logger
	progress func(sent.Doc)
	stats    *stat.Handler
}

type Option func(*Extractor)

// WithMatcher replaces the matcher built from the default patterns.
func WithMatcher(m *match.Matcher) Option {
	return func(e *Extractor) {
		e.matcher = m
	}
}

// WithBatchSize sets the number of texts passed to the pipeline at once.
func WithBatchSize(n int) Option {
	return func(e *Extractor) {
		e.batchSize = n
	}
}

// WithExclusive keeps only the phrases that contain the subject token. By
// default any phrase inside the subject subtree is reported.
func WithExclusive(exclusive bool) Option {
	return func(e *Extractor) {
		e.exclusive = exclusive
	}
}

func WithNormalizer(n *normalize.Normalizer) Option {
	return func(e *Extractor) {
		e.normalizer = n
	}
}

// WithSubjectDeps sets the dependency labels of the subject tokens.
func WithSubjectDeps(deps ...string) Option {
	return func(e *Extractor) {
		e.subjectDeps = map[string]bool{}
		for _, d := range deps {
			e.subjectDeps[d] = true
		}
	}
}

// WithHeadPos sets the POS the head of a subject must have.
func WithHeadPos(pos string) Option {
	return func(e *Extractor) {
		e.headPos = pos
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// WithProgress sets a function called after each doc is scanned.
func WithProgress(fn func(sent.Doc)) Option {
	return func(e *Extractor) {
		e.progress = fn
	}
}

// WithStats collects the counts of docs, subjects and rows in h.
func WithStats(h *stat.Handler) Option {
	return func(e *Extractor) {
		e.stats = h
	}
}

// New returns an Extractor for the pipeline p.
func New(p pipeline.Pipeline, opts ...Option) (*Extractor, error) {
	e := &Extractor{
		pipeline:  p,
		batchSize: pipeline.DefaultBatchSize,
		headPos:   DefaultHeadPos,
	}
	WithSubjectDeps(DefaultSubjectDeps()...)(e)

	for _, opt := range opts {
		opt(e)
	}

	if e.matcher == nil {
		m, err := match.NewMatcher(pattern.Default())
		if err != nil {
			return nil, err
		}
		e.matcher = m
	}

	if e.normalizer == nil {
		n, err := normalize.New(normalize.ModeLemma, "und")
		if err != nil {
			return nil, err
		}
		e.normalizer = n
	}

	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return e, nil
}

// YieldKeyPhrases parses the inputs and calls fn for each key noun phrase,
// in input order. An error of fn stops the scan and is returned.
func (e *Extractor) YieldKeyPhrases(ctx context.Context, inputs []sent.Input, fn func(Row) error) error {
	if e.pipeline == nil {
		return fmt.Errorf("extractor has no pipeline")
	}

	e.logger.Debug("extracting", "inputs", len(inputs), "pipeline", e.pipeline.Name(), "batch_size", e.batchSize)

	return pipeline.Pipe(ctx, e.pipeline, inputs, e.batchSize, func(doc sent.Doc) error {
		return e.scan(&doc, fn)
	})
}

// YieldParsed scans already parsed docs.
func (e *Extractor) YieldParsed(docs []sent.Doc, fn func(Row) error) error {
	for i := range docs {
		if err := e.scan(&docs[i], fn); err != nil {
			return err
		}
	}

	return nil
}

// ToTable returns the key noun phrases of the inputs as a table with the
// Columns. Empty inputs produce an empty table.
func (e *Extractor) ToTable(ctx context.Context, inputs []sent.Input) (*table.Table, error) {
	t := table.New(Columns()...)
	err := e.YieldKeyPhrases(ctx, inputs, func(r Row) error {
		return t.Append(r.Values()...)
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

// ParsedTable is ToTable for already parsed docs.
func (e *Extractor) ParsedTable(docs []sent.Doc) (*table.Table, error) {
	t := table.New(Columns()...)
	err := e.YieldParsed(docs, func(r Row) error {
		return t.Append(r.Values()...)
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

// Subjects returns the indexes of the subject tokens of the doc.
func (e *Extractor) Subjects(doc *sent.Doc) []int {
	var subjects []int
	for i, t := range doc.Tokens {
		if !e.subjectDeps[t.Dep] {
			continue
		}

		if t.Head < 0 || t.Head >= len(doc.Tokens) || t.Head == i {
			continue
		}

		if doc.Tokens[t.Head].Pos != e.headPos {
			continue
		}

		subjects = append(subjects, i)
	}

	return subjects
}

// Matches returns the spans of the key noun phrases of the doc with the
// label of their rule. Used by the interactive mode to highlight them.
func (e *Extractor) Matches(doc *sent.Doc) []LabeledSpan {
	var spans []LabeledSpan
	e.each(doc, nil, func(subject int, label string, span sent.Span) error {
		spans = append(spans, LabeledSpan{Label: label, Span: span})
		return nil
	})

	return spans
}

// LabeledSpan is a matched span with its rule label.
type LabeledSpan struct {
	Label string
	Span  sent.Span
}

// each calls fn for every match in the subject subtrees of the doc, and
// onSubject, if not nil, for every subject.
func (e *Extractor) each(doc *sent.Doc, onSubject func(), fn func(subject int, label string, span sent.Span) error) error {
	for _, subject := range e.Subjects(doc) {
		if onSubject != nil {
			onSubject()
		}

		subtree := doc.Subtree(subject)
		for _, m := range e.matcher.Match(subtree) {
			span := subtree.Sub(m.Start, m.End)
			if e.exclusive && !span.Contains(subject) {
				continue
			}

			if err := fn(subject, m.Label, span); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *Extractor) scan(doc *sent.Doc, fn func(Row) error) error {
	var onSubject func()
	if e.stats != nil {
		e.stats.Aggregate(*doc)
		onSubject = e.stats.AddSubject
	}

	err := e.each(doc, onSubject, func(subject int, label string, span sent.Span) error {
		row := Row{
			UUID:      doc.Id,
			Label:     label,
			Phrase:    span.Text(),
			Processed: e.normalizer.Phrase(span.Tokens()),
			Location:  [2]int{span.StartChar(), span.EndChar()},
		}

		if e.stats != nil {
			e.stats.AddRow(label)
		}

		return fn(row)
	})
	if err != nil {
		return err
	}

	if e.progress != nil {
		e.progress(*doc)
	}

	return nil
}
