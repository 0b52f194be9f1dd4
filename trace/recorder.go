package trace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Recorder collects tracing data of a single run into an in-memory Trace structure.
// It implements the Handler interface and provides access to the collected Trace via Trace().
// Collaborator spans may be ended from a goroutine other than the one that started them.
type Recorder struct {
	trace *Trace
	mu    sync.Mutex
}

// New creates a new Recorder.
func New() *Recorder {
	return &Recorder{}
}

type currentSpanKey struct{}

func withCurrentSpan(ctx context.Context, span *Span) context.Context {
	return context.WithValue(ctx, currentSpanKey{}, span)
}

func currentSpanFrom(ctx context.Context) *Span {
	s, _ := ctx.Value(currentSpanKey{}).(*Span)
	return s
}

func newSpanID() string {
	return uuid.New().String()
}

// StartRun starts the root run span. runID becomes the trace ID; an empty runID gets a UUID v7.
func (r *Recorder) StartRun(ctx context.Context, runID string) context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	span := &Span{
		SpanID:    newSpanID(),
		Kind:      SpanKindRun,
		Name:      "run",
		StartedAt: now,
		Status:    SpanStatusOK,
	}

	if runID == "" {
		runID = uuid.Must(uuid.NewV7()).String()
	}

	r.trace = &Trace{
		TraceID:   runID,
		RootSpan:  span,
		StartedAt: now,
	}

	return withCurrentSpan(ctx, span)
}

// EndRun ends the root run span.
func (r *Recorder) EndRun(ctx context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := currentSpanFrom(ctx)
	if span == nil || span.Kind != SpanKindRun {
		return
	}

	now := r.endSpan(span, err)
	if r.trace != nil {
		r.trace.EndedAt = now
	}
}

// StartCollaborator starts a collaborator span as a child of the current span.
func (r *Recorder) StartCollaborator(ctx context.Context, producer string) context.Context {
	return r.startChildSpan(ctx, SpanKindCollaborator, producer)
}

// EndCollaborator ends the collaborator span with its outcome.
func (r *Recorder) EndCollaborator(ctx context.Context, data *CollaboratorData, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := currentSpanFrom(ctx)
	if span == nil || span.Kind != SpanKindCollaborator {
		return
	}

	span.Collaborator = data
	r.endSpan(span, err)
}

// StartExtract starts the extract span as a child of the current span.
func (r *Recorder) StartExtract(ctx context.Context) context.Context {
	return r.startChildSpan(ctx, SpanKindExtract, "extract")
}

// EndExtract ends the extract span.
func (r *Recorder) EndExtract(ctx context.Context, data *ExtractData, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := currentSpanFrom(ctx)
	if span == nil || span.Kind != SpanKindExtract {
		return
	}

	span.Extract = data
	r.endSpan(span, err)
}

// StartPublish starts the publish span as a child of the current span.
func (r *Recorder) StartPublish(ctx context.Context, candidates int) context.Context {
	return r.startChildSpan(ctx, SpanKindPublish, "publish")
}

// EndPublish ends the publish span.
func (r *Recorder) EndPublish(ctx context.Context, data *PublishData, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := currentSpanFrom(ctx)
	if span == nil || span.Kind != SpanKindPublish {
		return
	}

	span.Publish = data
	r.endSpan(span, err)
}

// AddEvent adds an event span as a child of the current span.
func (r *Recorder) AddEvent(ctx context.Context, kind string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	parent := currentSpanFrom(ctx)
	if parent == nil {
		return
	}

	now := time.Now()
	parent.Children = append(parent.Children, &Span{
		SpanID:    newSpanID(),
		ParentID:  parent.SpanID,
		Kind:      SpanKindEvent,
		Name:      kind,
		StartedAt: now,
		EndedAt:   now,
		Status:    SpanStatusOK,
		Event: &EventData{
			Kind: kind,
			Data: data,
		},
	})
}

// Trace returns the current trace data. Returns nil if no run was started.
func (r *Recorder) Trace() *Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trace
}

// endSpan must be called with r.mu held.
func (r *Recorder) endSpan(span *Span, err error) time.Time {
	now := time.Now()
	span.EndedAt = now
	span.Duration = now.Sub(span.StartedAt)

	if err != nil {
		span.Status = SpanStatusError
		span.Error = err.Error()
	}
	return now
}

func (r *Recorder) startChildSpan(ctx context.Context, kind SpanKind, name string) context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	parent := currentSpanFrom(ctx)
	if parent == nil {
		return ctx
	}

	span := &Span{
		SpanID:    newSpanID(),
		ParentID:  parent.SpanID,
		Kind:      kind,
		Name:      name,
		StartedAt: time.Now(),
		Status:    SpanStatusOK,
	}

	parent.Children = append(parent.Children, span)
	return withCurrentSpan(ctx, span)
}
