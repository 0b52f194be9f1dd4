package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/travai"
	"github.com/m-mizutani/travai/archive"
)

const runIDHeader = "X-Travai-Run-Id"

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.From(r.Context())

	var input travai.TripInput
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(&input); err != nil {
		logger.Info("malformed run request", slog.Any("error", err))
		writeError(w, http.StatusBadRequest, "request body must be a JSON trip request")
		return
	}

	run, err := s.runner.Run(r.Context(), &input)
	if err != nil {
		var verr *travai.ValidationError
		if errors.As(err, &verr) {
			logger.Info("rejected run request", slog.String("field", verr.Field), slog.String("reason", verr.Reason))
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		logger.Error("run failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to plan the trip")
		return
	}

	w.Header().Set(runIDHeader, run.ID)
	writeJSON(w, http.StatusOK, run.Response)
}

func (s *server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "run archive is not configured")
		return
	}

	pageSize := 20
	if v := r.URL.Query().Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid page_size parameter")
			return
		}
		pageSize = n
	}

	resp, err := s.store.List(r.Context(), archive.ListRequest{
		PageSize:  pageSize,
		PageToken: r.URL.Query().Get("page_token"),
	})
	if err != nil {
		ctxlog.From(r.Context()).Error("failed to list runs", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "run archive is not configured")
		return
	}

	runID := r.PathValue("id")
	run, err := s.store.Get(r.Context(), runID)
	if err != nil {
		if errors.Is(err, travai.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		ctxlog.From(r.Context()).Error("failed to get run", slog.Any("error", err), slog.String("run_id", runID))
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}

	writeJSON(w, http.StatusOK, run)
}
