// Package otel provides an OpenTelemetry trace handler for travai.
//
// It bridges travai's run lifecycle events to OpenTelemetry spans, allowing
// integration with any OTel-compatible backend (Jaeger, Zipkin, OTLP, etc.).
//
// Basic usage with global TracerProvider:
//
//	svc := travai.NewService(orchestrator, travai.WithTrace(otel.New()))
//
// With explicit TracerProvider:
//
//	svc := travai.NewService(orchestrator, travai.WithTrace(
//	    otel.New(otel.WithTracerProvider(tp)),
//	))
package otel

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/travai/trace"
	otelAPI "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/m-mizutani/travai"
)

// Option is a functional option for configuring the OTel handler.
type Option func(*handler)

// WithTracerProvider sets an explicit TracerProvider.
// If not set, the global TracerProvider is used.
func WithTracerProvider(tp otelTrace.TracerProvider) Option {
	return func(h *handler) {
		h.tracerProvider = tp
	}
}

// handler implements trace.Handler by bridging events to OpenTelemetry spans.
type handler struct {
	tracerProvider otelTrace.TracerProvider
	tracer         otelTrace.Tracer
}

// New creates a new OTel trace handler.
// If no TracerProvider is specified via options, the global TracerProvider is used.
func New(opts ...Option) trace.Handler {
	h := &handler{}
	for _, opt := range opts {
		opt(h)
	}

	if h.tracerProvider == nil {
		h.tracerProvider = otelAPI.GetTracerProvider()
	}
	h.tracer = h.tracerProvider.Tracer(tracerName)

	return h
}

func (h *handler) StartRun(ctx context.Context, runID string) context.Context {
	ctx, span := h.tracer.Start(ctx, "trip_run",
		otelTrace.WithSpanKind(otelTrace.SpanKindServer),
	)
	span.SetAttributes(runIDAttr(runID))
	return ctx
}

func (h *handler) EndRun(ctx context.Context, err error) {
	endSpan(ctx, err)
}

func (h *handler) StartCollaborator(ctx context.Context, producer string) context.Context {
	ctx, span := h.tracer.Start(ctx, "collaborator:"+producer,
		otelTrace.WithSpanKind(otelTrace.SpanKindClient),
	)
	span.SetAttributes(producerAttr(producer))
	return ctx
}

func (h *handler) EndCollaborator(ctx context.Context, data *trace.CollaboratorData, err error) {
	span := otelTrace.SpanFromContext(ctx)
	if data != nil {
		span.SetAttributes(
			fragmentStatusAttr(data.Status),
			contentLengthAttr(data.ContentLength),
		)
		if data.Status != "ok" {
			span.SetStatus(codes.Error, data.Status)
		}
	}
	endSpan(ctx, err)
}

func (h *handler) StartExtract(ctx context.Context) context.Context {
	ctx, _ = h.tracer.Start(ctx, "extract_events",
		otelTrace.WithSpanKind(otelTrace.SpanKindInternal),
	)
	return ctx
}

func (h *handler) EndExtract(ctx context.Context, data *trace.ExtractData, err error) {
	span := otelTrace.SpanFromContext(ctx)
	if data != nil {
		span.SetAttributes(candidatesAttr(data.Candidates))
	}
	endSpan(ctx, err)
}

func (h *handler) StartPublish(ctx context.Context, candidates int) context.Context {
	ctx, span := h.tracer.Start(ctx, "publish_events",
		otelTrace.WithSpanKind(otelTrace.SpanKindClient),
	)
	span.SetAttributes(candidatesAttr(candidates))
	return ctx
}

func (h *handler) EndPublish(ctx context.Context, data *trace.PublishData, err error) {
	span := otelTrace.SpanFromContext(ctx)
	if data != nil {
		span.SetAttributes(
			calendarStatusAttr(data.Status),
			createdAttr(data.Created),
		)
	}
	endSpan(ctx, err)
}

func (h *handler) AddEvent(ctx context.Context, kind string, data any) {
	span := otelTrace.SpanFromContext(ctx)
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			span.AddEvent(kind, otelTrace.WithAttributes(eventDataAttr(string(b))))
			return
		}
	}
	span.AddEvent(kind)
}

func endSpan(ctx context.Context, err error) {
	span := otelTrace.SpanFromContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
