package travai

import (
	"context"
	"time"

	"github.com/m-mizutani/travai/trace"
)

func (x *Orchestrator) PlanWithHandler(ctx context.Context, req *TripRequest, h trace.Handler) *TripPlan {
	return x.plan(ctx, req, h)
}

func (x *Orchestrator) Timeout() time.Duration {
	return x.timeout
}

func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}
