package travai

import (
	"fmt"
	"log/slog"
	"time"
)

// DefaultEventDuration is used when a candidate event has no explicit end.
const DefaultEventDuration = time.Hour

// CandidateEvent is a provisional calendar entry extracted from plan text.
// Start and End are wall-clock times expressed in UTC; the publisher attaches the
// calendar's time zone. All-day events start at midnight and last 24 hours.
type CandidateEvent struct {
	Summary  string    `json:"summary"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"all_day,omitempty"`
	Location string    `json:"location,omitempty"`
	Source   Producer  `json:"source"`
}

// NewCandidateEvent fills in the default end time (start + 1h) when end is zero or
// not after start.
func NewCandidateEvent(summary string, start, end time.Time) *CandidateEvent {
	if end.IsZero() || !end.After(start) {
		end = start.Add(DefaultEventDuration)
	}
	return &CandidateEvent{
		Summary: summary,
		Start:   start,
		End:     end,
	}
}

// NewAllDayEvent creates an all-day candidate on the calendar day of date.
func NewAllDayEvent(summary string, date time.Time) *CandidateEvent {
	day := truncateDay(date)
	return &CandidateEvent{
		Summary: summary,
		Start:   day,
		End:     day.AddDate(0, 0, 1),
		AllDay:  true,
	}
}

// Key identifies duplicates: candidates with the same summary and start are the same event.
func (x *CandidateEvent) Key() string {
	return fmt.Sprintf("%s\x00%s", x.Summary, x.Start.Format(time.RFC3339))
}

func (x *CandidateEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("summary", x.Summary),
		slog.Time("start", x.Start),
		slog.Time("end", x.End),
		slog.Bool("all_day", x.AllDay),
		slog.String("location", x.Location),
	)
}

// DedupEvents drops candidates whose (summary, start) pair was already seen, keeping
// the first occurrence and the original order.
func DedupEvents(events []*CandidateEvent) []*CandidateEvent {
	seen := make(map[string]struct{}, len(events))
	out := make([]*CandidateEvent, 0, len(events))
	for _, ev := range events {
		if ev == nil {
			continue
		}
		key := ev.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ev)
	}
	return out
}

// PublishedEvent is a calendar entry that was created successfully.
type PublishedEvent struct {
	Summary string `json:"summary"`
	// Link is the externally reachable URL of the calendar entry.
	Link string `json:"link"`
}
