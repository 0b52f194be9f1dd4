// Package extract turns the text of a trip plan into candidate calendar events.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/travai"
)

// RuleBased is the deterministic extractor. It reads every ok fragment line by line:
//
//   - markdown decoration is stripped and each remaining line is a segment
//   - temporal anchors are ISO dates, month-name dates, "Day N", clock times or ranges
//     and the daypart words morning, noon, afternoon, evening and night
//   - a daypart used as a rate ("$220 per night", "$60/night") is not a time of day
//   - a segment starting with a date sets the date context of its fragment, and a
//     segment with only a time of day uses that context (or is dropped without one)
//   - the event name is what is left after removing temporal tokens and filler, and
//     must have at least three letters
//   - date-only segments become all-day events, timed ones last one hour unless a
//     range gives the end
//   - candidates dated outside the trip widened by one day are dropped, and repeated
//     (summary, start) pairs are kept once
//
// The same plan and range always produce the same candidates in the same order.
type RuleBased struct{}

var _ travai.Extractor = (*RuleBased)(nil)

// NewRuleBased creates the rule-based extractor.
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Extract implements travai.Extractor. It never fails.
func (x *RuleBased) Extract(ctx context.Context, plan *travai.TripPlan, span travai.DateRange) ([]*travai.CandidateEvent, error) {
	if plan == nil {
		return []*travai.CandidateEvent{}, nil
	}

	var events []*travai.CandidateEvent
	for _, fragment := range plan.Fragments() {
		if !fragment.OK() {
			continue
		}
		events = append(events, extractFragment(fragment, span)...)
	}

	out := travai.DedupEvents(events)
	ctxlog.From(ctx).Debug("extracted candidate events",
		slog.Int("candidates", len(events)),
		slog.Int("unique", len(out)),
	)
	return out, nil
}

func extractFragment(fragment travai.PlanFragment, span travai.DateRange) []*travai.CandidateEvent {
	window := span.Widen(1)

	var events []*travai.CandidateEvent
	var dateContext *time.Time

	for _, line := range strings.Split(fragment.Content, "\n") {
		text := cleanLine(line)
		if text == "" {
			continue
		}

		seg := newSegment(text)
		anchor, hasDate := seg.findDate(span)
		if hasDate && seg.leadingDate(anchor) {
			d := anchor.date
			dateContext = &d
		}
		tod, hasClock := seg.findClock()

		var date time.Time
		switch {
		case hasDate:
			date = anchor.date
		case hasClock && dateContext != nil:
			date = *dateContext
		default:
			continue
		}

		name, location := seg.summary()
		if countLetters(name) < 3 {
			continue
		}

		var ev *travai.CandidateEvent
		if hasClock {
			start := date.Add(time.Duration(tod.start) * time.Minute)
			var end time.Time
			if tod.end >= 0 {
				end = date.Add(time.Duration(tod.end) * time.Minute)
			}
			ev = travai.NewCandidateEvent(name, start, end)
		} else {
			ev = travai.NewAllDayEvent(name, date)
		}

		if !window.Contains(ev.Start) {
			continue
		}

		ev.Location = location
		ev.Source = fragment.Producer
		events = append(events, ev)
	}

	return events
}
