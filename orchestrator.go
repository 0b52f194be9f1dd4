package travai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai/trace"
)

// DefaultPlanTimeout is the shared deadline for the collaborator fan-out.
const DefaultPlanTimeout = 90 * time.Second

// Orchestrator fans a trip request out to the three planning collaborators and
// aggregates their answers into a TripPlan.
type Orchestrator struct {
	collaborators [len(Producers)]Collaborator
	timeout       time.Duration
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithPlanTimeout sets the shared deadline for all three collaborator calls.
// Non-positive values are ignored.
func WithPlanTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// NewOrchestrator creates an Orchestrator. A nil collaborator always yields a failed fragment.
func NewOrchestrator(flights, stay, activities Collaborator, options ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		collaborators: [len(Producers)]Collaborator{flights, stay, activities},
		timeout:       DefaultPlanTimeout,
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

type collaboratorResult struct {
	content string
	err     error
}

// Plan dispatches the request to every collaborator concurrently and waits for all of
// them, bounded by the shared deadline. It never fails: collaborators that return an
// error, panic, return nothing or miss the deadline get a diagnostic fragment, and the
// others are unaffected. The returned plan is always in (flights, stay, activities) order.
func (x *Orchestrator) Plan(ctx context.Context, req *TripRequest) *TripPlan {
	return x.plan(ctx, req, trace.Nop())
}

func (x *Orchestrator) plan(ctx context.Context, req *TripRequest, h trace.Handler) *TripPlan {
	logger := ctxlog.From(ctx)

	ctx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	var spanCtxs [len(Producers)]context.Context
	var results [len(Producers)]chan collaboratorResult

	for _, p := range Producers {
		spanCtxs[p] = h.StartCollaborator(ctx, p.String())
		// Buffered so that a collaborator answering after the deadline never blocks.
		results[p] = make(chan collaboratorResult, 1)

		c := x.collaborators[p]
		if c == nil {
			results[p] <- collaboratorResult{err: goerr.New("collaborator is not configured")}
			continue
		}

		go func(ctx context.Context, p Producer, c Collaborator) {
			results[p] <- callCollaborator(ctx, c, req)
		}(spanCtxs[p], p, c)
	}

	fragments := make([]PlanFragment, 0, len(Producers))
	for _, p := range Producers {
		var fragment PlanFragment
		var err error

		if r, ok := await(ctx, results[p]); ok {
			fragment, err = toFragment(p, r)
		} else {
			err = ctx.Err()
			fragment = interruptedFragment(p, err)
		}

		if err != nil {
			logger.Warn("planning collaborator did not produce a plan",
				slog.String("producer", p.String()),
				slog.String("status", string(fragment.Status)),
				slog.Any("error", err),
			)
		}

		h.EndCollaborator(spanCtxs[p], &trace.CollaboratorData{
			Producer:      p.String(),
			Status:        string(fragment.Status),
			ContentLength: len(fragment.Content),
		}, err)
		fragments = append(fragments, fragment)
	}

	return NewTripPlan(fragments...)
}

func callCollaborator(ctx context.Context, c Collaborator, req *TripRequest) (result collaboratorResult) {
	defer func() {
		if r := recover(); r != nil {
			result = collaboratorResult{err: goerr.New("collaborator panicked", goerr.V("panic", fmt.Sprint(r)))}
		}
	}()

	content, err := c.Plan(ctx, req)
	return collaboratorResult{content: content, err: err}
}

// await returns the collaborator's result, or false once ctx is done. A result that is
// already available wins over an expired deadline.
func await(ctx context.Context, ch <-chan collaboratorResult) (collaboratorResult, bool) {
	select {
	case r := <-ch:
		return r, true
	default:
	}

	select {
	case r := <-ch:
		return r, true
	case <-ctx.Done():
		return collaboratorResult{}, false
	}
}

func toFragment(p Producer, r collaboratorResult) (PlanFragment, error) {
	if r.err != nil {
		// A collaborator that honours the deadline reports it as an error; it is still a timeout.
		if errors.Is(r.err, context.DeadlineExceeded) {
			return timedOutFragment(p), r.err
		}
		if errors.Is(r.err, context.Canceled) {
			return canceledFragment(p), r.err
		}
		return failedFragment(p), r.err
	}

	if strings.TrimSpace(r.content) == "" {
		return emptyFragment(p), goerr.Wrap(ErrEmptyPlan, "collaborator returned no content", goerr.V("producer", p.String()))
	}

	return PlanFragment{
		Producer: p,
		Content:  r.content,
		Status:   FragmentOK,
	}, nil
}

func interruptedFragment(p Producer, err error) PlanFragment {
	if errors.Is(err, context.DeadlineExceeded) {
		return timedOutFragment(p)
	}
	return canceledFragment(p)
}
