package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/revelaction/terms/config"
	"github.com/revelaction/terms/extract"
	"github.com/revelaction/terms/match"
	"github.com/revelaction/terms/normalize"
	"github.com/revelaction/terms/pattern"
	"github.com/revelaction/terms/pipeline"
	"github.com/revelaction/terms/storage"
	"github.com/revelaction/terms/storage/filesystem"
	"github.com/revelaction/terms/storage/sqlite/zombiezen"
	"github.com/urfave/cli/v2"
)

// isDB reports whether the path names a sqlite database.
func isDB(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// NewRuleRepository returns the rule store of a directory or of a sqlite
// database. A missing directory is created.
func NewRuleRepository(p *Pool, path string) (storage.RuleRepository, error) {
	if isDB(path) {
		pool, err := p.Open(path, zombiezen.RuleSchema)
		if err != nil {
			return nil, err
		}
		return zombiezen.NewRuleStore(pool), nil
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, err
		}
		return filesystem.NewRuleStore(path), nil
	}
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("rule repository %s is not a directory or a sqlite database", path)
	}

	return filesystem.NewRuleStore(path), nil
}

// loadLibrary reads the rules at path: a JSON or YAML rule file, a rule
// directory or a sqlite database. An empty path is the built-in library.
func loadLibrary(p *Pool, path string) (pattern.Library, error) {
	if path == "" {
		return pattern.Default(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("patterns not found: %s", path)
	}

	if info.IsDir() || isDB(path) {
		repo, err := NewRuleRepository(p, path)
		if err != nil {
			return nil, err
		}

		lib, err := repo.ReadAll()
		if err != nil {
			return nil, err
		}

		if len(lib) == 0 {
			return nil, fmt.Errorf("no rules in %s", path)
		}
		return lib, nil
	}

	return pattern.Read(path)
}

// options are the config values a command may override with its flags.
type options struct {
	Model     string
	Patterns  string
	BatchSize int
	Exclusive bool
	Format    string
	Normalize string
	Language  string
}

func modelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "model",
		Aliases: []string{"m"},
		Usage:   "pipeline: prose, spacy:<model> or a spacy package name",
	}
}

func patternsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "patterns",
		Aliases: []string{"p"},
		Usage:   "rule file (.json, .yaml), rule directory or sqlite database",
	}
}

func extractorFlags() []cli.Flag {
	return []cli.Flag{
		modelFlag(),
		patternsFlag(),
		&cli.BoolFlag{
			Name:    "exclusive",
			Aliases: []string{"x"},
			Usage:   "keep only the phrases that contain the subject token",
		},
		&cli.StringFlag{
			Name:  "normalize",
			Usage: "processed phrase form: lemma or stem",
		},
		&cli.StringFlag{
			Name:  "language",
			Usage: "language of the texts (lower casing and stemming)",
		},
	}
}

// resolve returns the config values overridden by the flags set in c.
func resolve(c *cli.Context, cfg *config.Config) options {
	o := options{
		Model:     cfg.Model,
		Patterns:  cfg.Patterns,
		BatchSize: cfg.BatchSize,
		Exclusive: cfg.Exclusive,
		Format:    cfg.Format,
		Normalize: cfg.Normalize,
		Language:  cfg.Language,
	}

	if c.IsSet("model") {
		o.Model = c.String("model")
	}
	if c.IsSet("patterns") {
		o.Patterns = c.String("patterns")
	}
	if c.IsSet("batch-size") {
		o.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("exclusive") {
		o.Exclusive = c.Bool("exclusive")
	}
	if c.IsSet("format") {
		o.Format = c.String("format")
	}
	if c.IsSet("normalize") {
		o.Normalize = c.String("normalize")
	}
	if c.IsSet("language") {
		o.Language = c.String("language")
	}

	return o
}

func (e *env) pipelineConfig() pipeline.Config {
	return pipeline.Config{
		BridgeCommand: e.cfg.Bridge.Command,
		BridgeArgs:    e.cfg.Bridge.Args,
		BridgeEnv:     e.cfg.Bridge.Env,
		BridgeStderr:  e.logOut,
		Logger:        e.logger,
	}
}

// extractorOptions builds the extractor settings shared by the commands.
// The returned library is the one the matcher was built from.
func (e *env) extractorOptions(p *Pool, o options) ([]extract.Option, pattern.Library, error) {
	lib, err := loadLibrary(p, o.Patterns)
	if err != nil {
		return nil, nil, err
	}

	m, err := match.NewMatcher(lib)
	if err != nil {
		return nil, nil, err
	}

	n, err := normalize.New(o.Normalize, o.Language)
	if err != nil {
		return nil, nil, err
	}

	opts := []extract.Option{
		extract.WithMatcher(m),
		extract.WithNormalizer(n),
		extract.WithBatchSize(o.BatchSize),
		extract.WithExclusive(o.Exclusive),
		extract.WithSubjectDeps(e.cfg.SubjectDeps...),
		extract.WithHeadPos(e.cfg.HeadPos),
		extract.WithLogger(e.logger),
	}

	return opts, lib, nil
}
