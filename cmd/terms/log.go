package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/revelaction/terms/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger returns a text logger writing to w, or to the rotated file of
// the config. The returned closer is nil when no file is used.
func newLogger(cfg config.Log, w io.Writer) (*slog.Logger, io.Writer, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid log level %q", cfg.Level)
	}

	var closer io.Closer
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		w = lj
		closer = lj
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, w, closer, nil
}
