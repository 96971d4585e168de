package main

import (
	"github.com/revelaction/terms/extract"
	"github.com/revelaction/terms/pipeline"
	"github.com/revelaction/terms/render"
	"github.com/revelaction/terms/repl"
	"github.com/urfave/cli/v2"
)

func replCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "type texts and see their key noun phrases",
		Flags: append(extractorFlags(),
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "do not highlight the key noun phrases",
			},
			&cli.BoolFlag{
				Name:  "no-prefix",
				Usage: "do not print the rule label before each sentence",
			},
		),
		Action: func(c *cli.Context) error {
			o := resolve(c, e.cfg)

			p := &Pool{}
			defer p.Close()

			opts, lib, err := e.extractorOptions(p, o)
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

			r := render.NewRenderer(e.ui.Out)
			r.HasColor = !c.Bool("no-color")
			r.HasPrefix = !c.Bool("no-prefix")

			return repl.NewHandler(pl, ex, lib, r).Run(c.Context)
		},
	}
}
