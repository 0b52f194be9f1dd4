package calendar_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/travai"
	"github.com/m-mizutani/travai/calendar"
	"github.com/m-mizutani/travai/internal/testutil"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

type fakeCredentials struct {
	err         error
	acquired    atomic.Int32
	invalidated atomic.Int32
}

func (x *fakeCredentials) Acquire(ctx context.Context) (*http.Client, error) {
	x.acquired.Add(1)
	if x.err != nil {
		return nil, x.err
	}
	return http.DefaultClient, nil
}

func (x *fakeCredentials) Invalidate() {
	x.invalidated.Add(1)
}

func candidates(t *testing.T, summaries ...string) []*travai.CandidateEvent {
	t.Helper()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	out := make([]*travai.CandidateEvent, 0, len(summaries))
	for i, s := range summaries {
		ev := travai.NewCandidateEvent(s, base.Add(time.Duration(i)*time.Hour), time.Time{})
		ev.Source = travai.ProducerActivities
		out = append(out, ev)
	}
	return out
}

func linkFor(event *gcal.Event) *gcal.Event {
	return &gcal.Event{Summary: event.Summary, HtmlLink: "https://calendar.google.com/event?eid=" + event.Summary}
}

func TestPublishAllSucceed(t *testing.T) {
	ctx := testutil.Context()
	creds := &fakeCredentials{}

	var mu sync.Mutex
	var inserted []*gcal.Event
	p, err := calendar.NewWithInserter(creds, func(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
		gt.Equal(t, calendarID, "trips@example.com")
		mu.Lock()
		inserted = append(inserted, event)
		mu.Unlock()
		return linkFor(event), nil
	}, calendar.WithCalendarID("trips@example.com"), calendar.WithTimeZone("Europe/Paris"))
	gt.NoError(t, err)

	outcome := p.Publish(ctx, candidates(t, "Louvre", "Orsay", "Cruise"))
	gt.Equal(t, outcome.Status, travai.CalendarSuccess)
	gt.Equal(t, outcome.Message, "Created 3 of 3 calendar events")
	gt.A(t, outcome.EventsCreated).Length(3)
	gt.Equal(t, outcome.EventsCreated[0], travai.PublishedEvent{
		Summary: "Louvre",
		Link:    "https://calendar.google.com/event?eid=Louvre",
	})
	gt.Equal(t, outcome.EventsCreated[2].Summary, "Cruise")

	gt.A(t, inserted).Length(3)
	for _, ev := range inserted {
		gt.Equal(t, ev.Start.TimeZone, "Europe/Paris")
		gt.Equal(t, ev.Start.Date, "")
		gt.S(t, ev.Description).Contains("Planned by travai (Activity)")
	}
}

func TestPublishAllDayEvent(t *testing.T) {
	var got *gcal.Event
	p, err := calendar.NewWithInserter(&fakeCredentials{}, func(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
		got = event
		return linkFor(event), nil
	})
	gt.NoError(t, err)

	ev := travai.NewAllDayEvent("Versailles", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	outcome := p.Publish(testutil.Context(), []*travai.CandidateEvent{ev})
	gt.Equal(t, outcome.Status, travai.CalendarSuccess)
	gt.Equal(t, got.Start.Date, "2025-06-03")
	gt.Equal(t, got.End.Date, "2025-06-04")
	gt.Equal(t, got.Start.DateTime, "")
}

func TestPublishPartialFailure(t *testing.T) {
	p, err := calendar.NewWithInserter(&fakeCredentials{}, func(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
		switch event.Summary {
		case "Orsay":
			return nil, &googleapi.Error{Code: http.StatusBadRequest, Message: "bad request"}
		case "Cruise":
			return &gcal.Event{Summary: event.Summary}, nil
		}
		return linkFor(event), nil
	})
	gt.NoError(t, err)

	outcome := p.Publish(testutil.Context(), candidates(t, "Louvre", "Orsay", "Cruise", "Opera"))
	gt.Equal(t, outcome.Status, travai.CalendarSuccess)
	gt.Equal(t, outcome.Message, "Created 2 of 4 calendar events (2 failed)")
	gt.A(t, outcome.EventsCreated).Length(2)
	gt.Equal(t, outcome.EventsCreated[0].Summary, "Louvre")
	gt.Equal(t, outcome.EventsCreated[1].Summary, "Opera")
}

func TestPublishAllFail(t *testing.T) {
	creds := &fakeCredentials{}
	p, err := calendar.NewWithInserter(creds, func(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
		return nil, &googleapi.Error{Code: http.StatusUnauthorized, Message: "Invalid Credentials"}
	})
	gt.NoError(t, err)

	outcome := p.Publish(testutil.Context(), candidates(t, "Louvre", "Orsay"))
	gt.Equal(t, outcome.Status, travai.CalendarError)
	gt.S(t, outcome.Message).Contains("Invalid Credentials")
	gt.True(t, outcome.EventsCreated != nil)
	gt.A(t, outcome.EventsCreated).Length(0)
	gt.N(t, int(creds.invalidated.Load())).Greater(0)
}

func TestPublishCredentialsFirst(t *testing.T) {
	creds := &fakeCredentials{err: travai.ErrCredentialsMissing}
	var calls atomic.Int32
	p, err := calendar.NewWithInserter(creds, func(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
		calls.Add(1)
		return linkFor(event), nil
	})
	gt.NoError(t, err)

	outcome := p.Publish(testutil.Context(), candidates(t, "Louvre"))
	gt.Equal(t, outcome.Status, travai.CalendarCredentialsMissing)
	gt.Equal(t, calls.Load(), int32(0))

	outcome = p.Publish(testutil.Context(), nil)
	gt.Equal(t, outcome.Status, travai.CalendarCredentialsMissing)
}

func TestPublishNoEvents(t *testing.T) {
	p, err := calendar.NewWithInserter(&fakeCredentials{}, func(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
		return nil, errors.New("must not be called")
	})
	gt.NoError(t, err)

	outcome := p.Publish(testutil.Context(), []*travai.CandidateEvent{})
	gt.Equal(t, outcome.Status, travai.CalendarNoEvents)
	gt.Equal(t, outcome.Message, "No events could be extracted from the travel plan")
}

func TestPublishBoundedConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	p, err := calendar.NewWithInserter(&fakeCredentials{}, func(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		return linkFor(event), nil
	}, calendar.WithConcurrency(2))
	gt.NoError(t, err)

	outcome := p.Publish(testutil.Context(), candidates(t, "A1a", "B2b", "C3c", "D4d", "E5e", "F6f"))
	gt.Equal(t, outcome.Status, travai.CalendarSuccess)
	gt.A(t, outcome.EventsCreated).Length(6)
	gt.True(t, peak.Load() <= 2)
	for i, s := range []string{"A1a", "B2b", "C3c", "D4d", "E5e", "F6f"} {
		gt.Equal(t, outcome.EventsCreated[i].Summary, s)
	}
}

func TestPublishCallTimeout(t *testing.T) {
	p, err := calendar.NewWithInserter(&fakeCredentials{}, func(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
		if event.Summary == "Slow" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return linkFor(event), nil
	}, calendar.WithCallTimeout(20*time.Millisecond))
	gt.NoError(t, err)

	outcome := p.Publish(testutil.Context(), candidates(t, "Slow", "Fast"))
	gt.Equal(t, outcome.Status, travai.CalendarSuccess)
	gt.Equal(t, outcome.Message, "Created 1 of 2 calendar events (1 failed)")
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := calendar.New(nil)
	gt.Error(t, err)

	_, err = calendar.New(&fakeCredentials{}, calendar.WithConcurrency(0))
	gt.Error(t, err)

	_, err = calendar.New(&fakeCredentials{}, calendar.WithCallTimeout(0))
	gt.Error(t, err)

	_, err = calendar.New(&fakeCredentials{}, calendar.WithTimeZone("Mars/Olympus"))
	gt.Error(t, err)
}
