package travai

import (
	"fmt"
	"log/slog"
)

// CalendarStatus is the closed set of calendar pipeline outcomes.
type CalendarStatus string

const (
	CalendarSuccess            CalendarStatus = "success"
	CalendarCredentialsMissing CalendarStatus = "credentials_missing"
	CalendarNoEvents           CalendarStatus = "no_events"
	CalendarError              CalendarStatus = "error"
)

func (x CalendarStatus) String() string {
	return string(x)
}

// CalendarOutcome is the result of one calendar pipeline run. Use the constructors;
// EventsCreated is only populated for CalendarSuccess and is never nil.
type CalendarOutcome struct {
	Status        CalendarStatus   `json:"status"`
	Message       string           `json:"message"`
	EventsCreated []PublishedEvent `json:"events_created"`
}

// CalendarSucceeded reports a run where at least one of attempted events was created.
// failed counts the attempts that did not produce an event.
func CalendarSucceeded(created []PublishedEvent, attempted int) *CalendarOutcome {
	msg := fmt.Sprintf("Created %d of %d calendar events", len(created), attempted)
	if failed := attempted - len(created); failed > 0 {
		msg += fmt.Sprintf(" (%d failed)", failed)
	}

	events := make([]PublishedEvent, len(created))
	copy(events, created)
	return &CalendarOutcome{
		Status:        CalendarSuccess,
		Message:       msg,
		EventsCreated: events,
	}
}

// CalendarMissingCredentials reports that no credential session could be established.
func CalendarMissingCredentials() *CalendarOutcome {
	return &CalendarOutcome{
		Status:        CalendarCredentialsMissing,
		Message:       "Google Calendar credentials not found. Please set up OAuth credentials.",
		EventsCreated: []PublishedEvent{},
	}
}

// CalendarNothingToCreate reports that no event could be extracted from the plan.
func CalendarNothingToCreate() *CalendarOutcome {
	return &CalendarOutcome{
		Status:        CalendarNoEvents,
		Message:       "No events could be extracted from the travel plan",
		EventsCreated: []PublishedEvent{},
	}
}

// CalendarFailed reports a run in which no event could be created.
func CalendarFailed(message string) *CalendarOutcome {
	return &CalendarOutcome{
		Status:        CalendarError,
		Message:       message,
		EventsCreated: []PublishedEvent{},
	}
}

func (x *CalendarOutcome) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("status", string(x.Status)),
		slog.String("message", x.Message),
		slog.Int("events_created", len(x.EventsCreated)),
	)
}
