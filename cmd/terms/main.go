package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/revelaction/terms/config"
	"github.com/urfave/cli/v2"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

// env is the state shared by the commands, set up before any of them runs.
type env struct {
	ui UI

	cfg    *config.Config
	logger *slog.Logger

	// logOut receives the log lines and the stderr of the bridge process
	logOut io.Writer
	closer io.Closer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp(ui).RunContext(ctx, os.Args)
	stop()

	if err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "terms: %v\n", err)
}

func newApp(ui UI) *cli.App {
	e := &env{ui: ui}

	return &cli.App{
		Name:                 "terms",
		Usage:                "extract key noun phrases from the subjects of texts",
		Version:              BuildTag,
		Writer:               ui.Out,
		ErrWriter:            ui.Err,
		EnableBashCompletion: true,
		HideVersion:          true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (default ./terms.yaml or the user config dir)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "one of debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write the log to a rotated file instead of stderr",
			},
		},
		Before: func(c *cli.Context) error {
			return e.setup(c)
		},
		After: func(c *cli.Context) error {
			if e.closer != nil {
				return e.closer.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			extractCommand(e),
			parseCommand(e),
			patternsCommand(e),
			replCommand(e),
			editCommand(e),
			modelsCommand(e),
			versionCommand(e),
		},
	}
}

func (e *env) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}

	if c.IsSet("log-file") {
		cfg.Log.File = c.String("log-file")
	}

	logger, out, closer, err := newLogger(cfg.Log, e.ui.Err)
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.logger = logger
	e.logOut = out
	e.closer = closer

	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File)
	}

	return nil
}
