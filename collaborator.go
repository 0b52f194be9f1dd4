package travai

import (
	"context"
)

// Collaborator is a planning collaborator. It receives the full trip request and
// returns free-text plan content for one travel dimension.
type Collaborator interface {
	Plan(ctx context.Context, req *TripRequest) (string, error)
}

// CollaboratorFunc adapts a function to Collaborator.
type CollaboratorFunc func(ctx context.Context, req *TripRequest) (string, error)

func (f CollaboratorFunc) Plan(ctx context.Context, req *TripRequest) (string, error) {
	return f(ctx, req)
}

// Extractor turns the text of a TripPlan into candidate calendar events. Only ok
// fragments are considered. An empty result is not an error.
type Extractor interface {
	Extract(ctx context.Context, plan *TripPlan, span DateRange) ([]*CandidateEvent, error)
}

// Publisher creates calendar events and reports the aggregate outcome. It never
// returns an error: every failure is expressed as a CalendarOutcome.
type Publisher interface {
	Publish(ctx context.Context, events []*CandidateEvent) *CalendarOutcome
}
