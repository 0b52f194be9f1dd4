package travai

import (
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// DateLayout is the ISO calendar date layout used on the wire.
const DateLayout = "2006-01-02"

// TripInput is the raw, unvalidated trip request as it arrives from a client.
type TripInput struct {
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Budget        float64 `json:"budget"`
	AddToCalendar bool    `json:"add_to_calendar"`
}

// TripRequest is a validated trip request. It can only be built by Validate and is
// never modified afterwards.
type TripRequest struct {
	origin        string
	destination   string
	startDate     time.Time
	endDate       time.Time
	budget        float64
	addToCalendar bool
}

func (x *TripRequest) Origin() string       { return x.origin }
func (x *TripRequest) Destination() string  { return x.destination }
func (x *TripRequest) StartDate() time.Time { return x.startDate }
func (x *TripRequest) EndDate() time.Time   { return x.endDate }
func (x *TripRequest) Budget() float64      { return x.budget }
func (x *TripRequest) AddToCalendar() bool  { return x.addToCalendar }

// Nights returns the number of nights between start and end date.
func (x *TripRequest) Nights() int {
	return int(x.endDate.Sub(x.startDate).Hours() / 24)
}

// Range returns the trip's inclusive date range.
func (x *TripRequest) Range() DateRange {
	return DateRange{Start: x.startDate, End: x.endDate}
}

// Input converts the request back to its wire form.
func (x *TripRequest) Input() TripInput {
	return TripInput{
		Origin:        x.origin,
		Destination:   x.destination,
		StartDate:     x.startDate.Format(DateLayout),
		EndDate:       x.endDate.Format(DateLayout),
		Budget:        x.budget,
		AddToCalendar: x.addToCalendar,
	}
}

func (x *TripRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("origin", x.origin),
		slog.String("destination", x.destination),
		slog.String("start_date", x.startDate.Format(DateLayout)),
		slog.String("end_date", x.endDate.Format(DateLayout)),
		slog.Float64("budget", x.budget),
		slog.Bool("add_to_calendar", x.addToCalendar),
	)
}

// DateRange is an inclusive range of calendar days. Both ends are midnight UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar day of t lies within the range.
func (x DateRange) Contains(t time.Time) bool {
	day := truncateDay(t)
	return !day.Before(x.Start) && !day.After(x.End)
}

// Widen returns the range extended by the given number of days on both sides.
func (x DateRange) Widen(days int) DateRange {
	return DateRange{
		Start: x.Start.AddDate(0, 0, -days),
		End:   x.End.AddDate(0, 0, days),
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Validate checks the raw input and returns an immutable TripRequest. On failure the
// returned error wraps a *ValidationError describing the first violated constraint;
// an inverted date range is rejected, never swapped.
func Validate(input *TripInput) (*TripRequest, error) {
	if input == nil {
		return nil, invalid("request", "is required")
	}

	origin := strings.TrimSpace(input.Origin)
	if origin == "" {
		return nil, invalid("origin", "is required")
	}

	destination := strings.TrimSpace(input.Destination)
	if destination == "" {
		return nil, invalid("destination", "is required")
	}

	start, err := parseDate("start_date", input.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", input.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, goerr.Wrap(&ValidationError{Field: "end_date", Reason: "must not be before start_date"},
			"invalid trip request",
			goerr.V("start_date", input.StartDate),
			goerr.V("end_date", input.EndDate),
		)
	}

	if math.IsNaN(input.Budget) || math.IsInf(input.Budget, 0) || input.Budget <= 0 {
		return nil, goerr.Wrap(&ValidationError{Field: "budget", Reason: "must be a positive number"},
			"invalid trip request", goerr.V("budget", input.Budget))
	}

	return &TripRequest{
		origin:        origin,
		destination:   destination,
		startDate:     start,
		endDate:       end,
		budget:        input.Budget,
		addToCalendar: input.AddToCalendar,
	}, nil
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, invalid(field, "is required")
	}

	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, goerr.Wrap(&ValidationError{Field: field, Reason: "must be an ISO date (YYYY-MM-DD)"},
			"invalid trip request", goerr.V(field, value))
	}
	return t, nil
}

func invalid(field, reason string) error {
	return goerr.Wrap(&ValidationError{Field: field, Reason: reason}, "invalid trip request")
}
