// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
)

var testLogger *slog.Logger

func init() {
	testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	if os.Getenv("TRAVAI_TEST_LOG") == "1" {
		testLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
}

// Logger returns the logger used by package tests. Output is discarded unless
// TRAVAI_TEST_LOG=1.
func Logger() *slog.Logger {
	return testLogger
}

// Context returns a background context carrying the test logger.
func Context() context.Context {
	return ctxlog.With(context.Background(), testLogger)
}
