package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
	"github.com/m-mizutani/travai/archive"
)

const (
	defaultAddr     = ":8000"
	maxRequestBytes = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// runner executes one planning run. *travai.Service implements it.
type runner interface {
	Run(ctx context.Context, input *travai.TripInput) (*travai.Run, error)
}

// runStore is the read side of the run archive.
type runStore interface {
	Get(ctx context.Context, id string) (*travai.Run, error)
	List(ctx context.Context, req archive.ListRequest) (*archive.ListResponse, error)
}

type serverOption func(*server)

func withAddr(addr string) serverOption {
	return func(s *server) {
		s.addr = addr
	}
}

func withRunStore(store runStore) serverOption {
	return func(s *server) {
		s.store = store
	}
}

func withMetrics(h http.Handler) serverOption {
	return func(s *server) {
		s.metrics = h
	}
}

func withLogger(logger *slog.Logger) serverOption {
	return func(s *server) {
		s.logger = logger
	}
}

type server struct {
	addr    string
	runner  runner
	store   runStore
	metrics http.Handler
	logger  *slog.Logger
	mux     *http.ServeMux
}

func newServer(r runner, opts ...serverOption) *server {
	s := &server{
		addr:   defaultAddr,
		runner: r,
		logger: slog.Default(),
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *server) setupRoutes() {
	s.mux.HandleFunc("POST /run", s.handleRun)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/runs", s.handleListRuns)
	s.mux.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}
}

// handler returns the routes with the server logger attached to every request context.
func (s *server) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlog.With(r.Context(), s.logger.With(
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		))
		s.mux.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return goerr.Wrap(err, "failed to listen", goerr.V("addr", s.addr))
	}

	s.logger.Info("starting travai server", slog.String("addr", listener.Addr().String()))

	srv := &http.Server{
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("graceful shutdown failed", slog.Any("error", err))
			_ = srv.Close()
		}
	}()

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return goerr.Wrap(err, "server error")
	}

	return nil
}
