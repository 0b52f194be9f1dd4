package main

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	travaimcp "github.com/m-mizutani/travai/mcp"
	"github.com/urfave/cli/v3"
)

func mcpCommand() *cli.Command {
	var (
		logCfg   logConfig
		pipeline pipelineConfig
	)

	flags := append(logCfg.flags(), pipeline.flags()...)

	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the plan_trip tool to an MCP client over stdio",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// stdout carries the protocol, so logs go to stderr.
			ctx, logger, err := logCfg.configure(ctx, os.Stderr)
			if err != nil {
				return err
			}

			p, err := pipeline.build(ctx, logger)
			if err != nil {
				return goerr.Wrap(err, "failed to build pipeline")
			}

			srv, err := travaimcp.NewServer(p.service, travaimcp.WithImplementation("travai", cmd.Root().Version))
			if err != nil {
				return err
			}
			return srv.RunStdio(ctx)
		},
	}
}
