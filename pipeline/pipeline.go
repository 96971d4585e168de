// Package pipeline runs texts through a linguistic pipeline: tokenization,
// POS tagging and dependency parsing. The pipelines are loaded by name.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	sent "github.com/revelaction/terms/sentence"
	"golang.org/x/text/unicode/norm"
)

const (
	ProseModel = "prose"

	spacyPrefix = "spacy:"

	DefaultBatchSize = 25
)

var (
	ErrUnknownModel = errors.New("unknown model")
	ErrBridgeClosed = errors.New("bridge process is closed")

	// spacy package names: en_core_web_sm, ru_core_news_md, ...
	spacyModel = regexp.MustCompile(`^[a-z]{2,3}_core_(web|news)_(sm|md|lg|trf)$`)
)

// Pipeline parses texts into Docs whose tokens carry POS tags, lemmas and
// dependency relations.
type Pipeline interface {
	Name() string
	Parse(ctx context.Context, text string) (sent.Doc, error)
	Close() error
}

// BatchParser is implemented by pipelines that parse several texts in one
// call more efficiently.
type BatchParser interface {
	ParseBatch(ctx context.Context, texts []string) ([]sent.Doc, error)
}

// Config contains the settings used by Load.
type Config struct {
	// BridgeCommand and BridgeArgs start the external spacy process. The
	// model name is appended to the arguments.
	BridgeCommand string
	BridgeArgs    []string

	// BridgeEnv is added to the environment of the bridge process.
	BridgeEnv []string

	// BridgeStderr receives the stderr of the bridge process. Discarded if nil.
	BridgeStderr io.Writer

	Logger *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// Models returns the names (or name forms) accepted by Load.
func Models() []string {
	return []string{ProseModel, "en_prose", spacyPrefix + "<model>", "<lang>_core_<web|news>_<sm|md|lg|trf>"}
}

// Load returns the pipeline for the model name:
//
//   - prose, en_prose: the in-process english pipeline.
//   - spacy:<model> or a spacy package name (f.ex. ru_core_news_md): an
//     external spacy process.
func Load(ctx context.Context, name string, cfg Config) (Pipeline, error) {
	switch {
	case name == ProseModel || name == "en_prose":
		return NewProse(), nil

	case strings.HasPrefix(name, spacyPrefix):
		model := strings.TrimPrefix(name, spacyPrefix)
		if model == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
		}
		return NewBridge(ctx, model, cfg)

	case spacyModel.MatchString(name):
		return NewBridge(ctx, name, cfg)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
}

// Pipe parses the inputs in batches of batchSize and calls fn for each
// resulting Doc, in input order. The Doc Id is the input Id. Texts are
// normalized to NFC before parsing.
func Pipe(ctx context.Context, p Pipeline, inputs []sent.Input, batchSize int, fn func(sent.Doc) error) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	bp, isBatch := p.(BatchParser)

	for start := 0; start < len(inputs); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+batchSize, len(inputs))
		batch := inputs[start:end]

		texts := make([]string, len(batch))
		for i, in := range batch {
			texts[i] = norm.NFC.String(in.Text)
		}

		var docs []sent.Doc
		if isBatch {
			var err error
			docs, err = bp.ParseBatch(ctx, texts)
			if err != nil {
				return fmt.Errorf("batch starting at input %q: %w", batch[0].Id, err)
			}

			if len(docs) != len(texts) {
				return fmt.Errorf("batch starting at input %q: pipeline returned %d docs for %d texts", batch[0].Id, len(docs), len(texts))
			}
		} else {
			docs = make([]sent.Doc, 0, len(texts))
			for i, text := range texts {
				doc, err := p.Parse(ctx, text)
				if err != nil {
					return fmt.Errorf("input %q: %w", batch[i].Id, err)
				}
				docs = append(docs, doc)
			}
		}

		for i := range docs {
			docs[i].Id = batch[i].Id
			if err := fn(docs[i]); err != nil {
				return err
			}
		}
	}

	return nil
}
