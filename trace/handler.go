package trace

import "context"

// Handler is the interface for trace backends.
// Implementations receive lifecycle events during a trip planning run
// and can record, export, or forward them as needed.
type Handler interface {
	// StartRun starts the root span of a planning run.
	StartRun(ctx context.Context, runID string) context.Context
	// EndRun ends the root span of a planning run.
	EndRun(ctx context.Context, err error)

	// StartCollaborator starts a span for one planning collaborator call.
	StartCollaborator(ctx context.Context, producer string) context.Context
	// EndCollaborator ends a collaborator span with its outcome.
	EndCollaborator(ctx context.Context, data *CollaboratorData, err error)

	// StartExtract starts the event extraction span.
	StartExtract(ctx context.Context) context.Context
	// EndExtract ends the event extraction span.
	EndExtract(ctx context.Context, data *ExtractData, err error)

	// StartPublish starts the calendar publishing span.
	StartPublish(ctx context.Context, candidates int) context.Context
	// EndPublish ends the calendar publishing span with the aggregate outcome.
	EndPublish(ctx context.Context, data *PublishData, err error)

	// AddEvent adds an event to the current span.
	AddEvent(ctx context.Context, kind string, data any)
}

// Nop returns a Handler that ignores every event.
func Nop() Handler {
	return nopHandler{}
}

type nopHandler struct{}

func (nopHandler) StartRun(ctx context.Context, _ string) context.Context {
	return ctx
}

func (nopHandler) EndRun(context.Context, error) {}

func (nopHandler) StartCollaborator(ctx context.Context, _ string) context.Context {
	return ctx
}

func (nopHandler) EndCollaborator(context.Context, *CollaboratorData, error) {}

func (nopHandler) StartExtract(ctx context.Context) context.Context {
	return ctx
}

func (nopHandler) EndExtract(context.Context, *ExtractData, error) {}

func (nopHandler) StartPublish(ctx context.Context, _ int) context.Context {
	return ctx
}

func (nopHandler) EndPublish(context.Context, *PublishData, error) {}

func (nopHandler) AddEvent(context.Context, string, any) {}
