package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/travai/trace"
)

// Event represents a trace event type that can be selectively enabled.
type Event int

const (
	// Run enables logging of run start/end.
	Run Event = iota
	// Collaborator enables logging of each planning collaborator outcome.
	Collaborator
	// Extract enables logging of event extraction results.
	Extract
	// Publish enables logging of calendar publishing results.
	Publish
	// CustomEvent enables logging of free-form events.
	CustomEvent

	eventCount // sentinel for iteration
)

type config struct {
	logger *slog.Logger
	events map[Event]bool
}

// Option configures the logger handler.
type Option func(*config)

// WithLogger sets a custom slog.Logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithEvents enables only the specified event types.
// When not specified, all events are enabled.
func WithEvents(events ...Event) Option {
	return func(c *config) {
		c.events = make(map[Event]bool, len(events))
		for _, e := range events {
			c.events[e] = true
		}
	}
}

// handler implements trace.Handler by logging events via slog.
type handler struct {
	cfg config
}

// New creates a new trace.Handler that logs trace events via slog.
// By default, all events are enabled. Use WithEvents to enable only specific events.
func New(opts ...Option) trace.Handler {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.events == nil {
		cfg.events = make(map[Event]bool, eventCount)
		for i := Event(0); i < eventCount; i++ {
			cfg.events[i] = true
		}
	}

	return &handler{cfg: cfg}
}

func (h *handler) logger() *slog.Logger {
	if h.cfg.logger != nil {
		return h.cfg.logger
	}
	return slog.Default()
}

func (h *handler) enabled(e Event) bool {
	return h.cfg.events[e]
}

type startTimeKey struct{}

func withStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func startTimeFrom(ctx context.Context) time.Time {
	t, _ := ctx.Value(startTimeKey{}).(time.Time)
	return t
}

type runIDKey struct{}

func runIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// StartRun logs run start and remembers the run ID for later events.
func (h *handler) StartRun(ctx context.Context, runID string) context.Context {
	ctx = context.WithValue(ctx, runIDKey{}, runID)
	if h.enabled(Run) {
		h.logger().InfoContext(ctx, "trip run started", slog.String("run_id", runID))
	}
	return withStartTime(ctx, time.Now())
}

// EndRun logs run end with duration and error info.
func (h *handler) EndRun(ctx context.Context, err error) {
	if !h.enabled(Run) {
		return
	}

	attrs := []any{
		slog.String("run_id", runIDFrom(ctx)),
		slog.Duration("duration", time.Since(startTimeFrom(ctx))),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	h.logger().InfoContext(ctx, "trip run ended", attrs...)
}

func (h *handler) StartCollaborator(ctx context.Context, _ string) context.Context {
	return withStartTime(ctx, time.Now())
}

// EndCollaborator logs the collaborator outcome. Non-ok outcomes are logged at warn level.
func (h *handler) EndCollaborator(ctx context.Context, data *trace.CollaboratorData, err error) {
	if !h.enabled(Collaborator) || data == nil {
		return
	}

	attrs := []any{
		slog.String("run_id", runIDFrom(ctx)),
		slog.String("producer", data.Producer),
		slog.String("status", data.Status),
		slog.Int("content_length", data.ContentLength),
		slog.Duration("duration", time.Since(startTimeFrom(ctx))),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	level := slog.LevelInfo
	if data.Status != "ok" {
		level = slog.LevelWarn
	}
	h.logger().Log(ctx, level, "collaborator finished", attrs...)
}

func (h *handler) StartExtract(ctx context.Context) context.Context {
	return withStartTime(ctx, time.Now())
}

func (h *handler) EndExtract(ctx context.Context, data *trace.ExtractData, err error) {
	if !h.enabled(Extract) {
		return
	}

	attrs := []any{
		slog.String("run_id", runIDFrom(ctx)),
		slog.Duration("duration", time.Since(startTimeFrom(ctx))),
	}
	if data != nil {
		attrs = append(attrs,
			slog.String("extractor", data.Extractor),
			slog.Int("candidates", data.Candidates),
		)
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	h.logger().InfoContext(ctx, "events extracted", attrs...)
}

func (h *handler) StartPublish(ctx context.Context, _ int) context.Context {
	return withStartTime(ctx, time.Now())
}

func (h *handler) EndPublish(ctx context.Context, data *trace.PublishData, err error) {
	if !h.enabled(Publish) {
		return
	}

	attrs := []any{
		slog.String("run_id", runIDFrom(ctx)),
		slog.Duration("duration", time.Since(startTimeFrom(ctx))),
	}
	if data != nil {
		attrs = append(attrs,
			slog.String("status", data.Status),
			slog.Int("attempted", data.Attempted),
			slog.Int("created", data.Created),
		)
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	h.logger().InfoContext(ctx, "calendar events published", attrs...)
}

// AddEvent logs a free-form event.
func (h *handler) AddEvent(ctx context.Context, kind string, data any) {
	if !h.enabled(CustomEvent) {
		return
	}

	h.logger().InfoContext(ctx, "event",
		slog.String("run_id", runIDFrom(ctx)),
		slog.String("kind", kind),
		slog.Any("data", data),
	)
}
