package travai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai/trace"
)

// Service runs the whole pipeline: validate, plan, optionally extract and publish
// calendar events, then assemble the response.
type Service struct {
	orchestrator *Orchestrator
	extractor    Extractor
	publisher    Publisher
	handler      trace.Handler
	repository   RunRepository
	now          func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithExtractor sets the event extractor. Without one, no event is ever extracted.
func WithExtractor(e Extractor) ServiceOption {
	return func(s *Service) {
		s.extractor = e
	}
}

// WithPublisher sets the calendar publisher. Without one, every calendar request is
// answered with credentials_missing.
func WithPublisher(p Publisher) ServiceOption {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithTrace sets a trace handler that receives the lifecycle events of every run.
// Use trace.Multi to combine several.
func WithTrace(h trace.Handler) ServiceOption {
	return func(s *Service) {
		s.handler = h
	}
}

// WithRunRepository stores every run after it finishes. Storage failures are logged only.
func WithRunRepository(r RunRepository) ServiceOption {
	return func(s *Service) {
		s.repository = r
	}
}

// NewService creates a Service around an orchestrator.
func NewService(orchestrator *Orchestrator, options ...ServiceOption) *Service {
	s := &Service{
		orchestrator: orchestrator,
		now:          time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Run executes one trip request. The only error it returns is a validation error
// (matchable with errors.Is(err, ErrInvalidTripRequest)), in which case no
// collaborator, extractor or publisher is invoked. Every other failure is expressed
// in the returned response.
func (x *Service) Run(ctx context.Context, input *TripInput) (*Run, error) {
	runID := uuid.Must(uuid.NewV7()).String()
	logger := ctxlog.From(ctx).With(slog.String("run_id", runID))
	ctx = ctxlog.With(ctx, logger)

	recorder := trace.New()
	h := trace.Multi(recorder, x.handler)
	ctx = h.StartRun(ctx, runID)

	req, err := Validate(input)
	if err != nil {
		h.EndRun(ctx, err)
		logger.Info("rejected trip request", slog.Any("error", err))
		return nil, err
	}

	logger.Info("trip planning started", slog.Any("request", req))
	plan := x.orchestrator.plan(ctx, req, h)

	var outcome *CalendarOutcome
	if req.AddToCalendar() {
		outcome = x.calendar(ctx, h, plan, req)
	}

	resp := Assemble(plan, outcome)
	h.EndRun(ctx, nil)

	run := &Run{
		ID:        runID,
		CreatedAt: x.now(),
		Request:   req.Input(),
		Plan:      plan,
		Response:  resp,
		Trace:     recorder.Trace(),
	}

	if x.repository != nil {
		if err := x.repository.Save(ctx, run); err != nil {
			logger.Error("failed to save run", slog.Any("error", err))
		}
	}

	logger.Info("trip planning finished", slog.Any("plan", plan))
	return run, nil
}

func (x *Service) calendar(ctx context.Context, h trace.Handler, plan *TripPlan, req *TripRequest) *CalendarOutcome {
	logger := ctxlog.From(ctx)

	if x.publisher == nil {
		return CalendarMissingCredentials()
	}

	var events []*CandidateEvent
	if x.extractor != nil {
		extractCtx := h.StartExtract(ctx)
		extracted, err := x.extractor.Extract(extractCtx, plan, req.Range())
		h.EndExtract(extractCtx, &trace.ExtractData{
			Extractor:  fmt.Sprintf("%T", x.extractor),
			Candidates: len(extracted),
		}, err)

		if err != nil {
			logger.Error("failed to extract events", slog.Any("error", err))
			return CalendarFailed("Failed to extract events from the travel plan")
		}
		events = DedupEvents(extracted)
	}

	publishCtx := h.StartPublish(ctx, len(events))
	outcome := x.publisher.Publish(publishCtx, events)
	if outcome == nil {
		outcome = CalendarFailed("Calendar publisher returned no outcome")
	}

	for _, created := range outcome.EventsCreated {
		h.AddEvent(publishCtx, "calendar_event_created", created)
	}

	var publishErr error
	if outcome.Status == CalendarError {
		publishErr = goerr.New(outcome.Message)
	}
	h.EndPublish(publishCtx, &trace.PublishData{
		Status:    outcome.Status.String(),
		Attempted: len(events),
		Created:   len(outcome.EventsCreated),
	}, publishErr)

	logger.Info("calendar pipeline finished", slog.Any("outcome", outcome))
	return outcome
}
