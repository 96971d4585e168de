package main

import (
	"errors"

	"github.com/revelaction/terms/edit"
	"github.com/urfave/cli/v2"
)

func editCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "add and remove token sequences of the rules in a rule directory or sqlite database",
		ArgsUsage: "DIR|FILE.db",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				path = e.cfg.Patterns
			}
			if path == "" {
				return errors.New("edit needs a rule directory or sqlite database")
			}

			p := &Pool{}
			defer p.Close()

			repo, err := NewRuleRepository(p, path)
			if err != nil {
				return err
			}

			h, err := edit.NewHandler(repo)
			if err != nil {
				return err
			}

			return h.Run()
		},
	}
}
