package trace

import (
	"time"
)

// SpanKind represents the type of a span.
type SpanKind string

const (
	SpanKindRun          SpanKind = "run"
	SpanKindCollaborator SpanKind = "collaborator"
	SpanKindExtract      SpanKind = "extract"
	SpanKindPublish      SpanKind = "publish"
	SpanKindEvent        SpanKind = "event"
)

// SpanStatus represents the status of a span.
type SpanStatus string

const (
	SpanStatusOK    SpanStatus = "ok"
	SpanStatusError SpanStatus = "error"
)

// Trace represents the root tracing data for one planning run.
type Trace struct {
	TraceID   string    `json:"trace_id"`
	RootSpan  *Span     `json:"root_span"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Span represents a single unit of operation in the trace hierarchy.
type Span struct {
	SpanID    string        `json:"span_id"`
	ParentID  string        `json:"parent_id,omitempty"`
	Kind      SpanKind      `json:"kind"`
	Name      string        `json:"name"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Duration  time.Duration `json:"duration"`
	Status    SpanStatus    `json:"status"`
	Error     string        `json:"error,omitempty"`
	Children  []*Span       `json:"children,omitempty"`

	// Kind-specific data (only one is non-nil based on Kind)
	Collaborator *CollaboratorData `json:"collaborator,omitempty"`
	Extract      *ExtractData      `json:"extract,omitempty"`
	Publish      *PublishData      `json:"publish,omitempty"`
	Event        *EventData        `json:"event,omitempty"`
}
