package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"fxconverter/internal/application"
	"fxconverter/internal/catalog"
	"fxconverter/internal/domain"
	"fxconverter/internal/infrastructure/eventloop"
	"fxconverter/internal/infrastructure/logx"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Loop is the serialized entry point into the session.
type Loop interface {
	Submit(ctx context.Context, ev eventloop.Event) (application.Render, error)
	Snapshot(ctx context.Context) (application.Snapshot, error)
}

type Server struct {
	loop    Loop
	options []catalog.Meta
	metrics http.Handler
}

func NewServer(loop Loop, options []catalog.Meta) *Server {
	return &Server{loop: loop, options: options}
}

func (s *Server) SetMetricsHandler(h http.Handler) { s.metrics = h }

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type amountRequest struct {
	Value string `json:"value"`
}

type codeRequest struct {
	Code string `json:"code"`
}

func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.loop.Snapshot(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) ListCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"currencies": s.options})
}

func (s *Server) SetAmount(w http.ResponseWriter, r *http.Request) {
	id, ok := rowID(w, r)
	if !ok {
		return
	}
	var body amountRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	s.submit(w, r, eventloop.Event{Kind: eventloop.KindAmount, Row: id, Value: body.Value})
}

func (s *Server) SetCurrency(w http.ResponseWriter, r *http.Request) {
	id, ok := rowID(w, r)
	if !ok {
		return
	}
	var body codeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if body.Code == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "code is required")
		return
	}
	s.submit(w, r, eventloop.Event{Kind: eventloop.KindCurrency, Row: id, Value: body.Code})
}

func (s *Server) ResetRow(w http.ResponseWriter, r *http.Request) {
	id, ok := rowID(w, r)
	if !ok {
		return
	}
	s.submit(w, r, eventloop.Event{Kind: eventloop.KindReset, Row: id})
}

func (s *Server) RecomputeRow(w http.ResponseWriter, r *http.Request) {
	id, ok := rowID(w, r)
	if !ok {
		return
	}
	s.submit(w, r, eventloop.Event{Kind: eventloop.KindRecompute, Row: id})
}

func (s *Server) AddRow(w http.ResponseWriter, r *http.Request) {
	var body codeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if body.Code == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "code is required")
		return
	}
	render, err := s.loop.Submit(r.Context(), eventloop.Event{Kind: eventloop.KindAddRow, Value: body.Code})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, render)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, ev eventloop.Event) {
	render, err := s.loop.Submit(r.Context(), ev)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, render)
}

func rowID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "row id must be a non-negative integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrRowNotFound):
		writeError(w, http.StatusNotFound, "row_not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidCurrency):
		writeError(w, http.StatusBadRequest, "invalid_currency", err.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, domain.ErrReentrant):
		writeError(w, http.StatusConflict, "busy", err.Error())
	case errors.Is(err, domain.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready", application.LoadFailedMessage)
	case errors.Is(err, eventloop.ErrStopped), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		logx.FromContext(r.Context()).Error("http.internal_error", zap.Error(err), zap.String("trace_id", getTraceIDFromContext(r.Context())))
		writeError(w, http.StatusInternalServerError, "internal", http.StatusText(http.StatusInternalServerError))
	}
}
