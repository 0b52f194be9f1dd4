// Package metrics exposes planning runs as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/m-mizutani/travai/trace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "travai"

// Handler is a trace.Handler that records run, collaborator and calendar metrics.
type Handler struct {
	registry *prometheus.Registry

	runs                 *prometheus.CounterVec
	runDuration          prometheus.Histogram
	collaborators        *prometheus.CounterVec
	collaboratorDuration *prometheus.HistogramVec
	candidates           prometheus.Histogram
	publishes            *prometheus.CounterVec
	eventsCreated        prometheus.Counter
	eventsFailed         prometheus.Counter
}

var _ trace.Handler = (*Handler)(nil)

// New creates a Handler with its own registry, which also carries the Go runtime and
// process collectors.
func New() *Handler {
	h := &Handler{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Planning runs by result.",
		}, []string{"result"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a planning run including calendar publishing.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		collaborators: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collaborator_calls_total",
			Help:      "Collaborator calls by producer and fragment status.",
		}, []string{"producer", "status"}),
		collaboratorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "collaborator_duration_seconds",
			Help:      "Wall time of a collaborator call.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"producer"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extracted_candidates",
			Help:      "Candidate events extracted per run.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_publishes_total",
			Help:      "Calendar pipeline outcomes by status.",
		}, []string{"status"}),
		eventsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_events_created_total",
			Help:      "Calendar events created.",
		}),
		eventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_events_failed_total",
			Help:      "Calendar events that could not be created.",
		}),
	}

	h.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		h.runs,
		h.runDuration,
		h.collaborators,
		h.collaboratorDuration,
		h.candidates,
		h.publishes,
		h.eventsCreated,
		h.eventsFailed,
	)
	return h
}

// Registry returns the registry that holds every travai collector.
func (h *Handler) Registry() *prometheus.Registry {
	return h.registry
}

// HTTPHandler serves the registry in the Prometheus exposition format.
func (h *Handler) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
}

type startKey struct{ name string }

var (
	runStartKey          = startKey{"run"}
	collaboratorStartKey = startKey{"collaborator"}
)

func withStart(ctx context.Context, key startKey) context.Context {
	return context.WithValue(ctx, key, time.Now())
}

func elapsed(ctx context.Context, key startKey) (float64, bool) {
	start, ok := ctx.Value(key).(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start).Seconds(), true
}

func (h *Handler) StartRun(ctx context.Context, _ string) context.Context {
	return withStart(ctx, runStartKey)
}

func (h *Handler) EndRun(ctx context.Context, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	h.runs.WithLabelValues(result).Inc()
	if d, ok := elapsed(ctx, runStartKey); ok {
		h.runDuration.Observe(d)
	}
}

func (h *Handler) StartCollaborator(ctx context.Context, _ string) context.Context {
	return withStart(ctx, collaboratorStartKey)
}

func (h *Handler) EndCollaborator(ctx context.Context, data *trace.CollaboratorData, _ error) {
	if data == nil {
		return
	}
	h.collaborators.WithLabelValues(data.Producer, data.Status).Inc()
	if d, ok := elapsed(ctx, collaboratorStartKey); ok {
		h.collaboratorDuration.WithLabelValues(data.Producer).Observe(d)
	}
}

func (h *Handler) StartExtract(ctx context.Context) context.Context {
	return ctx
}

func (h *Handler) EndExtract(_ context.Context, data *trace.ExtractData, err error) {
	if data == nil || err != nil {
		return
	}
	h.candidates.Observe(float64(data.Candidates))
}

func (h *Handler) StartPublish(ctx context.Context, _ int) context.Context {
	return ctx
}

func (h *Handler) EndPublish(_ context.Context, data *trace.PublishData, _ error) {
	if data == nil {
		return
	}
	h.publishes.WithLabelValues(data.Status).Inc()
	h.eventsCreated.Add(float64(data.Created))
	if failed := data.Attempted - data.Created; failed > 0 {
		h.eventsFailed.Add(float64(failed))
	}
}

func (h *Handler) AddEvent(context.Context, string, any) {}
