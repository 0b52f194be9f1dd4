package main

import (
	"context"
	"io"
	"net/http"

	"github.com/m-mizutani/travai"
)

var (
	NewServer    = newServer
	WithRunStore = withRunStore
	WithMetrics  = withMetrics
	RunPlan      = runPlan
)

// Runner is exported for testing.
type Runner = runner

// ServerOption is exported for testing.
type ServerOption = serverOption

// Handler returns the server's HTTP handler for testing.
func (s *server) Handler() http.Handler {
	return s.handler()
}

// RunFunc adapts a function to the runner interface.
type RunFunc func(ctx context.Context, input *travai.TripInput) (*travai.Run, error)

func (f RunFunc) Run(ctx context.Context, input *travai.TripInput) (*travai.Run, error) {
	return f(ctx, input)
}

// ConfigureLogging runs the logging flag handling with explicit values.
func ConfigureLogging(ctx context.Context, level, format string, w io.Writer) error {
	cfg := logConfig{level: level, format: format}
	_, _, err := cfg.configure(ctx, w)
	return err
}
