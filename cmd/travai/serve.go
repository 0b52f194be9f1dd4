package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai/metrics"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		logCfg   logConfig
		pipeline pipelineConfig
		addr     string
		noMetric bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "server listen address",
			Value:       defaultAddr,
			Sources:     cli.EnvVars("TRAVAI_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "no-metrics",
			Usage:       "do not serve /metrics",
			Sources:     cli.EnvVars("TRAVAI_NO_METRICS"),
			Destination: &noMetric,
		},
	}
	flags = append(flags, logCfg.flags()...)
	flags = append(flags, pipeline.flags()...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the planning API over HTTP",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, logger, err := logCfg.configure(ctx, os.Stderr)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := []serverOption{
				withAddr(addr),
				withLogger(logger),
			}

			var p *pipelineResult
			if noMetric {
				p, err = pipeline.build(ctx, logger)
			} else {
				m := metrics.New()
				opts = append(opts, withMetrics(m.HTTPHandler()))
				p, err = pipeline.build(ctx, logger, m)
			}
			if err != nil {
				return goerr.Wrap(err, "failed to build pipeline")
			}
			if p.archive != nil {
				opts = append(opts, withRunStore(p.archive))
			}

			return newServer(p.service, opts...).start(ctx)
		},
	}
}
