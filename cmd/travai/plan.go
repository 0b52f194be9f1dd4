package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
	"github.com/urfave/cli/v3"
)

func planCommand() *cli.Command {
	var (
		logCfg   logConfig
		pipeline pipelineConfig
		input    travai.TripInput
		output   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "origin",
			Usage:       "city to depart from",
			Required:    true,
			Destination: &input.Origin,
		},
		&cli.StringFlag{
			Name:        "destination",
			Usage:       "city to visit",
			Required:    true,
			Destination: &input.Destination,
		},
		&cli.StringFlag{
			Name:        "start-date",
			Usage:       "first day of the trip (YYYY-MM-DD)",
			Required:    true,
			Destination: &input.StartDate,
		},
		&cli.StringFlag{
			Name:        "end-date",
			Usage:       "last day of the trip (YYYY-MM-DD)",
			Required:    true,
			Destination: &input.EndDate,
		},
		&cli.FloatFlag{
			Name:        "budget",
			Usage:       "total budget in US dollars",
			Required:    true,
			Destination: &input.Budget,
		},
		&cli.BoolFlag{
			Name:        "calendar",
			Usage:       "add the itinerary to Google Calendar",
			Destination: &input.AddToCalendar,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "write the response JSON to this file instead of stdout",
			Destination: &output,
		},
	}
	flags = append(flags, logCfg.flags()...)
	flags = append(flags, pipeline.flags()...)

	return &cli.Command{
		Name:  "plan",
		Usage: "Plan one trip and print the response as JSON",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, logger, err := logCfg.configure(ctx, os.Stderr)
			if err != nil {
				return err
			}

			p, err := pipeline.build(ctx, logger)
			if err != nil {
				return goerr.Wrap(err, "failed to build pipeline")
			}

			w := io.Writer(os.Stdout)
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			return runPlan(ctx, p.service, &input, w)
		},
	}
}

func runPlan(ctx context.Context, r runner, input *travai.TripInput, w io.Writer) error {
	run, err := r.Run(ctx, input)
	if err != nil {
		var verr *travai.ValidationError
		if errors.As(err, &verr) {
			return goerr.New("invalid trip request", goerr.V("field", verr.Field), goerr.V("reason", verr.Reason))
		}
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run.Response); err != nil {
		return goerr.Wrap(err, "failed to write response")
	}
	return nil
}
