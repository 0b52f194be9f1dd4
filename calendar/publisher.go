package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	DefaultCalendarID  = "primary"
	DefaultTimeZone    = "UTC"
	DefaultConcurrency = 4
	DefaultCallTimeout = 15 * time.Second
)

// eventInserter is the part of the Calendar API the publisher needs.
type eventInserter interface {
	Insert(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error)
}

type realEventInserter struct {
	service *gcal.Service
}

func (x *realEventInserter) Insert(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
	return x.service.Events.Insert(calendarID, event).Context(ctx).Do()
}

func newRealEventInserter(ctx context.Context, client *http.Client) (eventInserter, error) {
	service, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create calendar service")
	}
	return &realEventInserter{service: service}, nil
}

// Publisher creates candidate events in one Google Calendar.
type Publisher struct {
	credentials Credentials
	newInserter func(ctx context.Context, client *http.Client) (eventInserter, error)

	calendarID  string
	timeZone    string
	concurrency int
	callTimeout time.Duration
}

var _ travai.Publisher = (*Publisher)(nil)

// Option configures a Publisher.
type Option func(*Publisher)

// WithCalendarID sets the target calendar. Default is the user's primary calendar.
func WithCalendarID(id string) Option {
	return func(p *Publisher) {
		p.calendarID = id
	}
}

// WithTimeZone sets the IANA time zone that event wall-clock times are expressed in.
func WithTimeZone(tz string) Option {
	return func(p *Publisher) {
		p.timeZone = tz
	}
}

// WithConcurrency bounds the number of concurrent insert calls.
func WithConcurrency(n int) Option {
	return func(p *Publisher) {
		p.concurrency = n
	}
}

// WithCallTimeout sets the deadline of a single insert call.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		p.callTimeout = d
	}
}

// New creates a Publisher that obtains its session from credentials.
func New(credentials Credentials, opts ...Option) (*Publisher, error) {
	if credentials == nil {
		return nil, goerr.New("credentials are required")
	}

	p := &Publisher{
		credentials: credentials,
		newInserter: newRealEventInserter,
		calendarID:  DefaultCalendarID,
		timeZone:    DefaultTimeZone,
		concurrency: DefaultConcurrency,
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.concurrency < 1 {
		return nil, goerr.New("concurrency must be positive", goerr.V("concurrency", p.concurrency))
	}
	if p.callTimeout <= 0 {
		return nil, goerr.New("call timeout must be positive", goerr.V("timeout", p.callTimeout))
	}
	if _, err := time.LoadLocation(p.timeZone); err != nil {
		return nil, goerr.Wrap(err, "invalid time zone", goerr.V("time_zone", p.timeZone))
	}

	return p, nil
}

// Publish implements travai.Publisher. Credentials are checked before anything else,
// so a missing session is reported even for an empty candidate list.
func (x *Publisher) Publish(ctx context.Context, events []*travai.CandidateEvent) *travai.CalendarOutcome {
	logger := ctxlog.From(ctx)

	client, err := x.credentials.Acquire(ctx)
	if err != nil {
		logger.Warn("calendar credentials unavailable", slog.Any("error", err))
		return travai.CalendarMissingCredentials()
	}

	if len(events) == 0 {
		return travai.CalendarNothingToCreate()
	}

	inserter, err := x.newInserter(ctx, client)
	if err != nil {
		logger.Error("failed to connect to calendar", slog.Any("error", err))
		return travai.CalendarFailed("Failed to connect to Google Calendar")
	}

	created := make([]*travai.PublishedEvent, len(events))
	failures := make([]error, len(events))

	var eg errgroup.Group
	eg.SetLimit(x.concurrency)
	for i, ev := range events {
		eg.Go(func() error {
			published, err := x.insert(ctx, inserter, ev)
			if err != nil {
				failures[i] = err
				return nil
			}
			created[i] = published
			return nil
		})
	}
	_ = eg.Wait()

	var out []travai.PublishedEvent
	var firstErr error
	for i := range events {
		if created[i] != nil {
			out = append(out, *created[i])
			continue
		}
		if firstErr == nil {
			firstErr = failures[i]
		}
		logger.Warn("failed to create calendar event",
			slog.Any("event", events[i]),
			slog.Any("error", failures[i]),
		)
	}

	if len(out) == 0 {
		return travai.CalendarFailed(fmt.Sprintf("Failed to create calendar events: %s", describe(firstErr)))
	}

	outcome := travai.CalendarSucceeded(out, len(events))
	logger.Info("published calendar events", slog.Any("outcome", outcome))
	return outcome
}

func (x *Publisher) insert(ctx context.Context, inserter eventInserter, ev *travai.CandidateEvent) (*travai.PublishedEvent, error) {
	if ev == nil {
		return nil, goerr.New("nil candidate event")
	}

	ctx, cancel := context.WithTimeout(ctx, x.callTimeout)
	defer cancel()

	result, err := inserter.Insert(ctx, x.calendarID, x.toCalendarEvent(ev))
	if err != nil {
		if isAuthFailure(err) {
			x.credentials.Invalidate()
		}
		return nil, goerr.Wrap(err, "failed to insert calendar event",
			goerr.V("summary", ev.Summary),
			goerr.V("calendar_id", x.calendarID),
		)
	}
	if result == nil || result.HtmlLink == "" {
		return nil, goerr.New("calendar event was created without a link", goerr.V("summary", ev.Summary))
	}

	return &travai.PublishedEvent{Summary: ev.Summary, Link: result.HtmlLink}, nil
}

const wallClockLayout = "2006-01-02T15:04:05"

func (x *Publisher) toCalendarEvent(ev *travai.CandidateEvent) *gcal.Event {
	event := &gcal.Event{
		Summary:     ev.Summary,
		Location:    ev.Location,
		Description: fmt.Sprintf("Planned by travai (%s)", ev.Source.Title()),
	}

	if ev.AllDay {
		event.Start = &gcal.EventDateTime{Date: ev.Start.Format(travai.DateLayout)}
		event.End = &gcal.EventDateTime{Date: ev.End.Format(travai.DateLayout)}
		return event
	}

	event.Start = &gcal.EventDateTime{DateTime: ev.Start.Format(wallClockLayout), TimeZone: x.timeZone}
	event.End = &gcal.EventDateTime{DateTime: ev.End.Format(wallClockLayout), TimeZone: x.timeZone}
	return event
}

func isAuthFailure(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return true
	}
	var retrieveErr *oauth2.RetrieveError
	return errors.As(err, &retrieveErr)
}

// describe returns the innermost message of err, which is what a user can act on.
func describe(err error) string {
	if err == nil {
		return "unknown error"
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return http.StatusText(apiErr.Code)
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
