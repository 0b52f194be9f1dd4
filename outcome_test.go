package travai_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/travai"
)

func TestCalendarOutcome(t *testing.T) {
	t.Run("success counts failures", func(t *testing.T) {
		out := travai.CalendarSucceeded([]travai.PublishedEvent{
			{Summary: "Louvre", Link: "https://calendar.example/1"},
			{Summary: "Dinner", Link: "https://calendar.example/2"},
		}, 3)
		gt.Equal(t, out.Status, travai.CalendarSuccess)
		gt.Equal(t, out.Message, "Created 2 of 3 calendar events (1 failed)")
		gt.A(t, out.EventsCreated).Length(2)
	})

	t.Run("success without failures", func(t *testing.T) {
		out := travai.CalendarSucceeded([]travai.PublishedEvent{{Summary: "Louvre", Link: "x"}}, 1)
		gt.Equal(t, out.Message, "Created 1 of 1 calendar events")
	})

	t.Run("non-success outcomes carry an empty event list", func(t *testing.T) {
		for _, out := range []*travai.CalendarOutcome{
			travai.CalendarMissingCredentials(),
			travai.CalendarNothingToCreate(),
			travai.CalendarFailed("boom"),
		} {
			gt.True(t, out.EventsCreated != nil)
			gt.A(t, out.EventsCreated).Length(0)

			raw, err := json.Marshal(out)
			gt.NoError(t, err)
			gt.S(t, string(raw)).Contains(`"events_created":[]`)
		}
	})

	t.Run("status names", func(t *testing.T) {
		gt.Equal(t, travai.CalendarMissingCredentials().Status.String(), "credentials_missing")
		gt.Equal(t, travai.CalendarNothingToCreate().Status.String(), "no_events")
		gt.Equal(t, travai.CalendarFailed("x").Status.String(), "error")
	})
}

func TestCandidateEvent(t *testing.T) {
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	t.Run("defaults end to one hour after start", func(t *testing.T) {
		ev := travai.NewCandidateEvent("Louvre", start, time.Time{})
		gt.Equal(t, ev.End, start.Add(time.Hour))
	})

	t.Run("end before start falls back to default", func(t *testing.T) {
		ev := travai.NewCandidateEvent("Louvre", start, start.Add(-time.Hour))
		gt.Equal(t, ev.End, start.Add(time.Hour))
	})

	t.Run("keeps explicit end", func(t *testing.T) {
		ev := travai.NewCandidateEvent("Louvre", start, start.Add(3*time.Hour))
		gt.Equal(t, ev.End, start.Add(3*time.Hour))
	})

	t.Run("all-day event spans the calendar day", func(t *testing.T) {
		ev := travai.NewAllDayEvent("Check in", start)
		gt.True(t, ev.AllDay)
		gt.Equal(t, ev.Start, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
		gt.Equal(t, ev.End, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	})

	t.Run("dedup keeps first occurrence", func(t *testing.T) {
		a := travai.NewCandidateEvent("Louvre", start, time.Time{})
		b := travai.NewCandidateEvent("Louvre", start, start.Add(2*time.Hour))
		c := travai.NewCandidateEvent("Louvre", start.Add(time.Hour), time.Time{})

		out := travai.DedupEvents([]*travai.CandidateEvent{a, nil, b, c})
		gt.A(t, out).Length(2)
		gt.Equal(t, out[0], a)
		gt.Equal(t, out[1], c)
	})
}
