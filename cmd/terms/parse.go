package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/revelaction/terms/extract"
	"github.com/revelaction/terms/pipeline"
	"github.com/revelaction/terms/render"
	sent "github.com/revelaction/terms/sentence"
	"github.com/urfave/cli/v2"
)

func parseCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "print the tokens of a text as parsed by the pipeline, key noun phrases highlighted",
		ArgsUsage: "TEXT",
		Flags: append(extractorFlags(),
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "do not highlight the key noun phrases",
			},
		),
		Action: func(c *cli.Context) error {
			text := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(text) == "" {
				return errors.New("parse needs a text")
			}

			o := resolve(c, e.cfg)

			p := &Pool{}
			defer p.Close()

			opts, _, err := e.extractorOptions(p, o)
			if err != nil {
				return err
			}

			pl, err := pipeline.Load(c.Context, o.Model, e.pipelineConfig())
			if err != nil {
				return err
			}
			defer pl.Close()

			ex, err := extract.New(pl, opts...)
			if err != nil {
				return err
			}

			var doc sent.Doc
			err = pipeline.Pipe(c.Context, pl, []sent.Input{{Text: text, Id: "1"}}, 1, func(d sent.Doc) error {
				doc = d
				return nil
			})
			if err != nil {
				return err
			}

			r := render.NewRenderer(e.ui.Out)
			r.HasColor = !c.Bool("no-color")
			printDoc(e.ui, r, &doc, ex.Matches(&doc))
			return nil
		},
	}
}

// printDoc writes each sentence, its matched tokens highlighted, followed by
// one line per token.
func printDoc(ui UI, r *render.Renderer, doc *sent.Doc, matches []extract.LabeledSpan) {
	var matched []sent.Token
	for _, ls := range matches {
		matched = append(matched, ls.Span.Tokens()...)
	}

	for sentId, s := range doc.Sentences() {
		prefix := fmt.Sprintf("✍  %d ", sentId)
		r.Sentence(s, matched, prefix)
		fmt.Fprintln(ui.Out)

		for _, token := range s {
			fmt.Fprintf(ui.Out, "%20q %15q %8s %6d %6d %8s %s\n", token.Text, token.Lemma, token.Pos, token.Id, token.Head, token.Dep, token.Tag)
		}
		fmt.Fprintln(ui.Out)
	}

	for _, ls := range matches {
		fmt.Fprintf(ui.Out, "🏷  %-20s %q [%d, %d]\n", ls.Label, ls.Span.Text(), ls.Span.StartChar(), ls.Span.EndChar())
	}
}

func modelsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "list the accepted pipeline names",
		Action: func(c *cli.Context) error {
			for _, m := range pipeline.Models() {
				fmt.Fprintln(e.ui.Out, m)
			}
			return nil
		},
	}
}
