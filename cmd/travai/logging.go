package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type logConfig struct {
	level  string
	format string
}

func (x *logConfig) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("TRAVAI_LOG_LEVEL"),
			Destination: &x.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       "text",
			Sources:     cli.EnvVars("TRAVAI_LOG_FORMAT"),
			Destination: &x.format,
		},
	}
}

// configure builds the logger, makes it the default and attaches it to ctx.
func (x *logConfig) configure(ctx context.Context, w io.Writer) (context.Context, *slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(x.level)); err != nil {
		return nil, nil, goerr.Wrap(err, "invalid log level", goerr.V("level", x.level))
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(x.format) {
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, nil, goerr.New("invalid log format", goerr.V("format", x.format))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return ctxlog.With(ctx, logger), logger, nil
}
