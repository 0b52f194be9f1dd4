package trace_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/travai/trace"
)

func TestMultiHandlerFanOut(t *testing.T) {
	rec1 := trace.New()
	rec2 := trace.New()
	multi := trace.Multi(rec1, rec2)

	ctx := multi.StartRun(context.Background(), "run-multi")

	cctx := multi.StartCollaborator(ctx, "flights")
	multi.EndCollaborator(cctx, &trace.CollaboratorData{Producer: "flights", Status: "ok"}, nil)

	ectx := multi.StartExtract(ctx)
	multi.EndExtract(ectx, &trace.ExtractData{Candidates: 4}, nil)

	multi.AddEvent(ctx, "note", nil)
	multi.EndRun(ctx, nil)

	for _, rec := range []*trace.Recorder{rec1, rec2} {
		tr := rec.Trace()
		gt.Value(t, tr).NotNil()
		gt.Equal(t, tr.TraceID, "run-multi")
		gt.A(t, tr.RootSpan.Children).Length(3)
		gt.Equal(t, tr.RootSpan.Children[0].Kind, trace.SpanKindCollaborator)
		gt.Equal(t, tr.RootSpan.Children[1].Kind, trace.SpanKindExtract)
		gt.Equal(t, tr.RootSpan.Children[2].Kind, trace.SpanKindEvent)
	}
}

func TestMultiHandlerSkipsNil(t *testing.T) {
	rec := trace.New()
	multi := trace.Multi(nil, rec, nil)

	ctx := multi.StartRun(context.Background(), "run-nil")
	pctx := multi.StartPublish(ctx, 1)
	multi.EndPublish(pctx, &trace.PublishData{Status: "no_events"}, nil)
	multi.EndRun(ctx, nil)

	gt.A(t, rec.Trace().RootSpan.Children).Length(1)
}

func TestNopHandler(t *testing.T) {
	h := trace.Nop()
	ctx := context.Background()

	gt.Equal(t, h.StartRun(ctx, "x"), ctx)
	gt.Equal(t, h.StartCollaborator(ctx, "stay"), ctx)
	h.EndCollaborator(ctx, nil, nil)
	h.EndRun(ctx, nil)
}
