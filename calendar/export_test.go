package calendar

import (
	"context"
	"net/http"

	gcal "google.golang.org/api/calendar/v3"
)

// EventInserterFunc adapts a function to the Calendar API insert call.
type EventInserterFunc func(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error)

func (f EventInserterFunc) Insert(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
	return f(ctx, calendarID, event)
}

// NewWithInserter creates a Publisher that sends inserts to inserter instead of the API.
func NewWithInserter(credentials Credentials, inserter EventInserterFunc, opts ...Option) (*Publisher, error) {
	p, err := New(credentials, opts...)
	if err != nil {
		return nil, err
	}
	p.newInserter = func(ctx context.Context, client *http.Client) (eventInserter, error) {
		return inserter, nil
	}
	return p, nil
}
