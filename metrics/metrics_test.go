package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/travai/metrics"
	"github.com/m-mizutani/travai/trace"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandlerRecordsRun(t *testing.T) {
	h := metrics.New()
	ctx := h.StartRun(context.Background(), "run-1")

	for _, p := range []string{"flights", "stay"} {
		cctx := h.StartCollaborator(ctx, p)
		h.EndCollaborator(cctx, &trace.CollaboratorData{Producer: p, Status: "ok", ContentLength: 10}, nil)
	}
	cctx := h.StartCollaborator(ctx, "activities")
	h.EndCollaborator(cctx, &trace.CollaboratorData{Producer: "activities", Status: "timed-out"}, errors.New("deadline"))

	ectx := h.StartExtract(ctx)
	h.EndExtract(ectx, &trace.ExtractData{Candidates: 3}, nil)

	pctx := h.StartPublish(ctx, 3)
	h.EndPublish(pctx, &trace.PublishData{Status: "success", Attempted: 3, Created: 2}, nil)
	h.EndRun(ctx, nil)

	gt.Equal(t, testutil.CollectAndCount(h.Registry(), "travai_collaborator_calls_total"), 3)

	expected := `
# HELP travai_calendar_events_created_total Calendar events created.
# TYPE travai_calendar_events_created_total counter
travai_calendar_events_created_total 2
# HELP travai_calendar_events_failed_total Calendar events that could not be created.
# TYPE travai_calendar_events_failed_total counter
travai_calendar_events_failed_total 1
# HELP travai_runs_total Planning runs by result.
# TYPE travai_runs_total counter
travai_runs_total{result="ok"} 1
`
	gt.NoError(t, testutil.GatherAndCompare(h.Registry(), strings.NewReader(expected),
		"travai_calendar_events_created_total",
		"travai_calendar_events_failed_total",
		"travai_runs_total",
	))
}

func TestHTTPHandler(t *testing.T) {
	h := metrics.New()
	ctx := h.StartRun(context.Background(), "run-1")
	h.EndRun(ctx, errors.New("invalid request"))

	srv := httptest.NewServer(h.HTTPHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	gt.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	body, err := io.ReadAll(resp.Body)
	gt.NoError(t, err)
	gt.S(t, string(body)).Contains(`travai_runs_total{result="error"} 1`)
	gt.S(t, string(body)).Contains("go_goroutines")
}
