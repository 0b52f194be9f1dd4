package travai_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/travai"
	"github.com/m-mizutani/travai/mock"
	"github.com/m-mizutani/travai/internal/testutil"
	"github.com/m-mizutani/travai/trace"
)

func newTestOrchestrator() (*travai.Orchestrator, []*mock.CollaboratorMock) {
	collaborators := []*mock.CollaboratorMock{
		answer("Flight AF007 on 2025-06-01 at 10:00"),
		answer("Hotel Lumiere, check in 2025-06-01"),
		answer("Day 2: Louvre at 10:00"),
	}
	return travai.NewOrchestrator(collaborators[0], collaborators[1], collaborators[2]), collaborators
}

func fixedExtractor(events ...*travai.CandidateEvent) *mock.ExtractorMock {
	return &mock.ExtractorMock{
		ExtractFunc: func(ctx context.Context, plan *travai.TripPlan, span travai.DateRange) ([]*travai.CandidateEvent, error) {
			return events, nil
		},
	}
}

func TestServiceRun(t *testing.T) {
	ctx := testutil.Context()
	louvre := travai.NewCandidateEvent("Louvre", time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), time.Time{})

	t.Run("validation error stops before planning", func(t *testing.T) {
		orch, collaborators := newTestOrchestrator()
		extractor := fixedExtractor(louvre)
		publisher := &mock.PublisherMock{}
		repo := &mock.RunRepositoryMock{}

		svc := travai.NewService(orch,
			travai.WithExtractor(extractor),
			travai.WithPublisher(publisher),
			travai.WithRunRepository(repo),
		)

		in := validInput()
		in.Budget = -1
		run, err := svc.Run(ctx, in)
		gt.Value(t, run).Nil()
		gt.True(t, errors.Is(err, travai.ErrInvalidTripRequest))

		for _, c := range collaborators {
			gt.A(t, c.PlanCalls()).Length(0)
		}
		gt.A(t, extractor.ExtractCalls()).Length(0)
		gt.A(t, publisher.PublishCalls()).Length(0)
		gt.A(t, repo.SaveCalls()).Length(0)
	})

	t.Run("without calendar the pipeline skips extraction", func(t *testing.T) {
		orch, _ := newTestOrchestrator()
		extractor := fixedExtractor(louvre)
		publisher := &mock.PublisherMock{}

		svc := travai.NewService(orch, travai.WithExtractor(extractor), travai.WithPublisher(publisher))

		in := validInput()
		in.AddToCalendar = false
		run, err := svc.Run(ctx, in)
		gt.NoError(t, err)
		gt.Value(t, run.Response.Calendar).Nil()
		gt.Equal(t, run.Response.Activities, "Day 2: Louvre at 10:00")
		gt.A(t, extractor.ExtractCalls()).Length(0)
		gt.A(t, publisher.PublishCalls()).Length(0)
	})

	t.Run("publishes extracted events", func(t *testing.T) {
		orch, _ := newTestOrchestrator()
		extractor := fixedExtractor(louvre, louvre)
		publisher := &mock.PublisherMock{
			PublishFunc: func(ctx context.Context, events []*travai.CandidateEvent) *travai.CalendarOutcome {
				created := make([]travai.PublishedEvent, 0, len(events))
				for _, ev := range events {
					created = append(created, travai.PublishedEvent{Summary: ev.Summary, Link: "https://calendar.example/" + ev.Summary})
				}
				return travai.CalendarSucceeded(created, len(events))
			},
		}
		repo := &mock.RunRepositoryMock{
			SaveFunc: func(ctx context.Context, run *travai.Run) error {
				return nil
			},
		}
		now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

		svc := travai.NewService(orch,
			travai.WithExtractor(extractor),
			travai.WithPublisher(publisher),
			travai.WithRunRepository(repo),
			travai.WithServiceClock(func() time.Time { return now }),
		)

		run, err := svc.Run(ctx, validInput())
		gt.NoError(t, err)
		gt.NotEqual(t, run.ID, "")
		gt.Equal(t, run.CreatedAt, now)
		gt.Equal(t, run.Request, *validInput())

		cal := run.Response.Calendar
		gt.Value(t, cal).NotNil()
		gt.Equal(t, cal.Status, travai.CalendarSuccess)
		gt.A(t, cal.EventsCreated).Length(1)
		gt.Equal(t, cal.EventsCreated[0].Link, "https://calendar.example/Louvre")

		calls := extractor.ExtractCalls()
		gt.A(t, calls).Length(1)
		gt.Equal(t, calls[0].Span.Start, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		gt.Equal(t, calls[0].Span.End, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))

		gt.A(t, repo.SaveCalls()).Length(1)
		gt.Equal(t, repo.SaveCalls()[0].Run, run)

		gt.Value(t, run.Trace).NotNil()
		gt.Equal(t, run.Trace.TraceID, run.ID)
		kinds := []trace.SpanKind{}
		for _, span := range run.Trace.RootSpan.Children {
			kinds = append(kinds, span.Kind)
		}
		gt.Equal(t, kinds, []trace.SpanKind{
			trace.SpanKindCollaborator,
			trace.SpanKindCollaborator,
			trace.SpanKindCollaborator,
			trace.SpanKindExtract,
			trace.SpanKindPublish,
		})

		publishSpan := run.Trace.RootSpan.Children[4]
		gt.A(t, publishSpan.Children).Length(1)
		gt.Equal(t, publishSpan.Children[0].Kind, trace.SpanKindEvent)
		gt.Equal(t, publishSpan.Children[0].Event.Kind, "calendar_event_created")
		gt.Equal(t, publishSpan.Children[0].Event.Data, any(cal.EventsCreated[0]))
	})

	t.Run("inverted dates stop before planning", func(t *testing.T) {
		orch, collaborators := newTestOrchestrator()
		extractor := fixedExtractor(louvre)
		publisher := &mock.PublisherMock{}

		svc := travai.NewService(orch, travai.WithExtractor(extractor), travai.WithPublisher(publisher))

		in := validInput()
		in.StartDate = "2025-06-10"
		in.EndDate = "2025-06-05"
		run, err := svc.Run(ctx, in)
		gt.Value(t, run).Nil()
		gt.True(t, errors.Is(err, travai.ErrInvalidTripRequest))

		var verr *travai.ValidationError
		gt.True(t, errors.As(err, &verr))
		gt.Equal(t, verr.Field, "end_date")
		for _, c := range collaborators {
			gt.A(t, c.PlanCalls()).Length(0)
		}
		gt.A(t, extractor.ExtractCalls()).Length(0)
		gt.A(t, publisher.PublishCalls()).Length(0)
	})

	t.Run("missing publisher reports credentials_missing", func(t *testing.T) {
		orch, _ := newTestOrchestrator()
		extractor := fixedExtractor(louvre)
		svc := travai.NewService(orch, travai.WithExtractor(extractor))

		run, err := svc.Run(ctx, validInput())
		gt.NoError(t, err)
		gt.Equal(t, run.Response.Calendar.Status, travai.CalendarCredentialsMissing)
		gt.A(t, run.Response.Calendar.EventsCreated).Length(0)
		gt.A(t, extractor.ExtractCalls()).Length(0)
	})

	t.Run("extractor failure is a calendar error and keeps the plan", func(t *testing.T) {
		orch, _ := newTestOrchestrator()
		extractor := &mock.ExtractorMock{
			ExtractFunc: func(ctx context.Context, plan *travai.TripPlan, span travai.DateRange) ([]*travai.CandidateEvent, error) {
				return nil, errors.New("model unavailable")
			},
		}
		publisher := &mock.PublisherMock{}
		svc := travai.NewService(orch, travai.WithExtractor(extractor), travai.WithPublisher(publisher))

		run, err := svc.Run(ctx, validInput())
		gt.NoError(t, err)
		gt.Equal(t, run.Response.Calendar.Status, travai.CalendarError)
		gt.Equal(t, run.Response.Flights, "Flight AF007 on 2025-06-01 at 10:00")
		gt.A(t, publisher.PublishCalls()).Length(0)
	})

	t.Run("repository failure does not fail the run", func(t *testing.T) {
		orch, _ := newTestOrchestrator()
		repo := &mock.RunRepositoryMock{
			SaveFunc: func(ctx context.Context, run *travai.Run) error {
				return errors.New("disk full")
			},
		}
		in := validInput()
		in.AddToCalendar = false

		run, err := travai.NewService(orch, travai.WithRunRepository(repo)).Run(ctx, in)
		gt.NoError(t, err)
		gt.Value(t, run).NotNil()
		gt.A(t, repo.SaveCalls()).Length(1)
	})

	t.Run("external trace handler sees the run", func(t *testing.T) {
		orch, _ := newTestOrchestrator()
		rec := trace.New()
		in := validInput()
		in.AddToCalendar = false

		run, err := travai.NewService(orch, travai.WithTrace(rec)).Run(ctx, in)
		gt.NoError(t, err)
		gt.Equal(t, rec.Trace().TraceID, run.ID)
		gt.A(t, rec.Trace().RootSpan.Children).Length(3)
	})
}
