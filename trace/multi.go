package trace

import (
	"context"
)

// multiHandler fans out trace events to multiple Handler implementations.
// Each handler receives its own isolated context to prevent interference
// (e.g., two Recorders sharing the same context key).
type multiHandler struct {
	handlers []Handler
}

// Multi creates a Handler that forwards all events to the given handlers.
// nil handlers are skipped.
func Multi(handlers ...Handler) Handler {
	m := &multiHandler{}
	for _, h := range handlers {
		if h != nil {
			m.handlers = append(m.handlers, h)
		}
	}
	return m
}

type multiCtxKey struct{}

// getContexts retrieves per-handler contexts from the context.
// If not found, returns the base context for each handler.
func (m *multiHandler) getContexts(ctx context.Context) []context.Context {
	if v, ok := ctx.Value(multiCtxKey{}).([]context.Context); ok && len(v) == len(m.handlers) {
		return v
	}
	ctxs := make([]context.Context, len(m.handlers))
	for i := range ctxs {
		ctxs[i] = ctx
	}
	return ctxs
}

func (m *multiHandler) wrapContexts(base context.Context, handlerCtxs []context.Context) context.Context {
	return context.WithValue(base, multiCtxKey{}, handlerCtxs)
}

func (m *multiHandler) start(ctx context.Context, fn func(h Handler, ctx context.Context) context.Context) context.Context {
	parentCtxs := m.getContexts(ctx)
	handlerCtxs := make([]context.Context, len(m.handlers))
	for i, h := range m.handlers {
		handlerCtxs[i] = fn(h, parentCtxs[i])
	}
	return m.wrapContexts(ctx, handlerCtxs)
}

func (m *multiHandler) each(ctx context.Context, fn func(h Handler, ctx context.Context)) {
	ctxs := m.getContexts(ctx)
	for i, h := range m.handlers {
		fn(h, ctxs[i])
	}
}

func (m *multiHandler) StartRun(ctx context.Context, runID string) context.Context {
	return m.start(ctx, func(h Handler, ctx context.Context) context.Context {
		return h.StartRun(ctx, runID)
	})
}

func (m *multiHandler) EndRun(ctx context.Context, err error) {
	m.each(ctx, func(h Handler, ctx context.Context) {
		h.EndRun(ctx, err)
	})
}

func (m *multiHandler) StartCollaborator(ctx context.Context, producer string) context.Context {
	return m.start(ctx, func(h Handler, ctx context.Context) context.Context {
		return h.StartCollaborator(ctx, producer)
	})
}

func (m *multiHandler) EndCollaborator(ctx context.Context, data *CollaboratorData, err error) {
	m.each(ctx, func(h Handler, ctx context.Context) {
		h.EndCollaborator(ctx, data, err)
	})
}

func (m *multiHandler) StartExtract(ctx context.Context) context.Context {
	return m.start(ctx, func(h Handler, ctx context.Context) context.Context {
		return h.StartExtract(ctx)
	})
}

func (m *multiHandler) EndExtract(ctx context.Context, data *ExtractData, err error) {
	m.each(ctx, func(h Handler, ctx context.Context) {
		h.EndExtract(ctx, data, err)
	})
}

func (m *multiHandler) StartPublish(ctx context.Context, candidates int) context.Context {
	return m.start(ctx, func(h Handler, ctx context.Context) context.Context {
		return h.StartPublish(ctx, candidates)
	})
}

func (m *multiHandler) EndPublish(ctx context.Context, data *PublishData, err error) {
	m.each(ctx, func(h Handler, ctx context.Context) {
		h.EndPublish(ctx, data, err)
	})
}

func (m *multiHandler) AddEvent(ctx context.Context, kind string, data any) {
	m.each(ctx, func(h Handler, ctx context.Context) {
		h.AddEvent(ctx, kind, data)
	})
}
