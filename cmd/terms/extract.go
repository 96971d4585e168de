package main

import (
	"fmt"
	"os"

	"github.com/gosuri/uiprogress"
	"github.com/revelaction/terms/extract"
	"github.com/revelaction/terms/file"
	"github.com/revelaction/terms/pipeline"
	"github.com/revelaction/terms/render"
	sent "github.com/revelaction/terms/sentence"
	"github.com/revelaction/terms/stat"
	"github.com/revelaction/terms/storage/sqlite/zombiezen"
	"github.com/revelaction/terms/table"
	"github.com/urfave/cli/v2"
)

func extractCommand(e *env) *cli.Command {
	flags := append(extractorFlags(),
		&cli.IntFlag{
			Name:    "batch-size",
			Aliases: []string{"b"},
			Usage:   "number of texts passed to the pipeline at once",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "output format: table, csv, json, jsonl or aggr",
		},
		&cli.StringFlag{
			Name:  "conllu",
			Usage: "read already parsed sentences from a CoNLL-U file instead of running a pipeline",
		},
		&cli.StringFlag{
			Name:  "sqlite",
			Usage: "also write the phrases to the key_phrases table of a sqlite database",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "show a progress bar on stderr",
		},
		&cli.BoolFlag{
			Name:  "stats",
			Usage: "print document and phrase counts on stderr",
		},
		&cli.BoolFlag{
			Name:  "no-prefix",
			Usage: "do not print the phrase counts of the aggr format",
		},
	)

	return &cli.Command{
		Name:      "extract",
		Usage:     "extract the key noun phrases of the texts in the files (stdin if none)",
		ArgsUsage: "[FILE.txt|FILE.jsonl|FILE.csv ...]",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			return e.extract(c)
		},
	}
}

func (e *env) extract(c *cli.Context) error {
	o := resolve(c, e.cfg)

	r := render.NewRenderer(e.ui.Out)
	r.Format = o.Format
	r.HasPrefix = !c.Bool("no-prefix")
	if !isFormat(o.Format) {
		return fmt.Errorf("unknown format %q", o.Format)
	}

	p := &Pool{}
	defer p.Close()

	opts, _, err := e.extractorOptions(p, o)
	if err != nil {
		return err
	}

	var hdl *stat.Handler
	if c.Bool("stats") {
		hdl = stat.NewHandler()
		opts = append(opts, extract.WithStats(hdl))
	}

	t := table.New(extract.Columns()...)
	var rows []extract.Row
	collect := func(row extract.Row) error {
		rows = append(rows, row)
		return t.Append(row.Values()...)
	}

	if conllu := c.String("conllu"); conllu != "" {
		docs, err := file.ReadConllu(conllu)
		if err != nil {
			return err
		}

		if pr, bar := e.progressBar(c, len(docs)); bar != nil {
			opts = append(opts, extract.WithProgress(func(sent.Doc) { bar.Incr() }))
			defer pr.Stop()
		}

		ex, err := extract.New(nil, opts...)
		if err != nil {
			return err
		}

		if err := ex.YieldParsed(docs, collect); err != nil {
			return err
		}
	} else {
		inputs, err := readInputs(c.Args().Slice())
		if err != nil {
			return err
		}

		pl, err := pipeline.Load(c.Context, o.Model, e.pipelineConfig())
		if err != nil {
			return err
		}
		defer pl.Close()

		if pr, bar := e.progressBar(c, len(inputs)); bar != nil {
			opts = append(opts, extract.WithProgress(func(sent.Doc) { bar.Incr() }))
			defer pr.Stop()
		}

		ex, err := extract.New(pl, opts...)
		if err != nil {
			return err
		}

		if err := ex.YieldKeyPhrases(c.Context, inputs, collect); err != nil {
			return err
		}
	}

	if path := c.String("sqlite"); path != "" {
		pool, err := p.Open(path, zombiezen.PhraseSchema)
		if err != nil {
			return err
		}

		if err := zombiezen.NewPhraseStore(pool).Write(rows); err != nil {
			return err
		}
		e.logger.Info("phrases exported", "db", path, "rows", len(rows))
	}

	if err := r.Table(t); err != nil {
		return err
	}

	if hdl != nil {
		printStats(e.ui, hdl.Get())
	}

	return nil
}

func isFormat(format string) bool {
	for _, f := range render.SupportedFormats() {
		if f == format {
			return true
		}
	}
	return false
}

// readInputs reads the inputs of all files. Ids are prefixed with the file
// name when more than one file is given. Without files stdin is read as
// text, one input per line.
func readInputs(paths []string) ([]sent.Input, error) {
	if len(paths) == 0 {
		return file.DecodeInputs(os.Stdin, file.FormatTxt)
	}

	var inputs []sent.Input
	for _, path := range paths {
		in, err := file.ReadInputs(path)
		if err != nil {
			return nil, err
		}

		if len(paths) > 1 {
			for i := range in {
				in[i].Id = path + ":" + in[i].Id
			}
		}

		inputs = append(inputs, in...)
	}

	return inputs, nil
}

func (e *env) progressBar(c *cli.Context, n int) (*uiprogress.Progress, *uiprogress.Bar) {
	if !c.Bool("progress") || n == 0 {
		return nil, nil
	}

	// stdout carries the table
	pr := uiprogress.New()
	pr.Out = e.ui.Err
	pr.Start()

	bar := pr.AddBar(n)
	bar.AppendCompleted()
	bar.PrependElapsed()
	return pr, bar
}
