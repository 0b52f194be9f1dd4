package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/travai"
	main "github.com/m-mizutani/travai/cmd/travai"
)

func TestRunPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("writes response", func(t *testing.T) {
		var buf bytes.Buffer
		err := main.RunPlan(ctx, validatingRunner(travai.CalendarNothingToCreate()), &travai.TripInput{
			Origin:        "New York",
			Destination:   "Paris",
			StartDate:     "2025-06-01",
			EndDate:       "2025-06-05",
			Budget:        2500,
			AddToCalendar: true,
		}, &buf)
		gt.NoError(t, err)

		var resp travai.TripResponse
		gt.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		gt.Equal(t, resp.Stay, "Hotel Lumiere")
		gt.Equal(t, resp.Calendar.Status, travai.CalendarNoEvents)
	})

	t.Run("rejects invalid request", func(t *testing.T) {
		var buf bytes.Buffer
		err := main.RunPlan(ctx, validatingRunner(nil), &travai.TripInput{Origin: "New York"}, &buf)
		gt.Error(t, err)
		gt.Equal(t, buf.Len(), 0)
	})
}

func TestConfigureLogging(t *testing.T) {
	ctx := context.Background()
	gt.NoError(t, main.ConfigureLogging(ctx, "debug", "json", io.Discard))
	gt.NoError(t, main.ConfigureLogging(ctx, "info", "text", io.Discard))
	gt.Error(t, main.ConfigureLogging(ctx, "loud", "text", io.Discard))
	gt.Error(t, main.ConfigureLogging(ctx, "info", "xml", io.Discard))
}
