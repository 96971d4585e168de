package main

import (
	"fmt"
	"strings"

	"github.com/revelaction/terms/pattern"
	"github.com/urfave/cli/v2"
)

func patternsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "patterns",
		Usage: "list the rules used by extract",
		Flags: []cli.Flag{
			patternsFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the rules as a JSON rule file",
			},
		},
		Action: func(c *cli.Context) error {
			path := e.cfg.Patterns
			if c.IsSet("patterns") {
				path = c.String("patterns")
			}

			p := &Pool{}
			defer p.Close()

			lib, err := loadLibrary(p, path)
			if err != nil {
				return err
			}

			if c.Bool("json") {
				return pattern.Encode(e.ui.Out, lib)
			}

			printLibrary(e.ui, lib)
			return nil
		},
	}
}

func printLibrary(ui UI, lib pattern.Library) {
	for _, r := range lib {
		for _, seq := range r.Pattern {
			sl := make([]string, len(seq))
			for i, tp := range seq {
				sl[i] = tp.String()
			}
			fmt.Fprintf(ui.Out, "🔖 %-20s %s\n", r.Label, strings.Join(sl, " "))
		}
	}
}
