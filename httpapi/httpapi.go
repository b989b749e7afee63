// Package httpapi provides the HTTP API handler for billforge.
// It delegates all business logic to the engine.
package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/civigen/billforge/engine"
	"github.com/civigen/billforge/model"
)

// Handler provides the HTTP API for billforge.
type Handler struct {
	engine *engine.Engine
	router chi.Router

	// ackTimeout bounds how long a create request waits for the run to
	// reach a terminal state before answering 202.
	ackTimeout time.Duration
}

// Option configures the Handler.
type Option func(*Handler)

// WithAckTimeout sets how long POST /api/runs blocks waiting for the run
// to finish (default 39s).
func WithAckTimeout(d time.Duration) Option {
	return func(h *Handler) { h.ackTimeout = d }
}

// New creates a new HTTP API handler.
func New(eng *engine.Engine, opts ...Option) *Handler {
	h := &Handler{engine: eng, ackTimeout: 39 * time.Second}
	for _, o := range opts {
		o(h)
	}
	h.router = h.buildRouter()
	return h
}

// Router returns the HTTP router.
func (h *Handler) Router() chi.Router {
	return h.router
}

func (h *Handler) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Post("/runs", h.handleCreateRun)
			r.Get("/runs", h.handleListRuns)
			r.Get("/runs/{id}", h.handleGetRun)
			r.Get("/bills/{id}", h.handleGetBill)
		})
		r.Get("/runs/{id}/events", h.handleRunEvents)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return r
}

// --- Request/Response types ---

type createRunRequest struct {
	BillURL      string `json:"bill_url"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	Language     string `json:"language,omitempty"`
}

type createRunResponse struct {
	ID            string       `json:"id"`
	Status        model.Status `json:"status"`
	DiscussionURL string       `json:"discussion_url,omitempty"`
	Error         string       `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// --- Handlers ---

func (h *Handler) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.BillURL = strings.TrimSpace(req.BillURL)
	if req.BillURL == "" {
		writeError(w, http.StatusBadRequest, "bill_url is required")
		return
	}
	jurisdiction := model.Jurisdiction(strings.ToUpper(strings.TrimSpace(req.Jurisdiction)))
	switch jurisdiction {
	case "", model.JurisdictionFL, model.JurisdictionUS:
	default:
		writeError(w, http.StatusBadRequest, "jurisdiction must be FL or US")
		return
	}

	run, err := h.engine.CreateAndRunBill(req.BillURL, jurisdiction, strings.TrimSpace(req.Language))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create run")
		log.Printf("Error creating run: %v", err)
		return
	}

	// Block briefly so short runs can answer with their final state. Long
	// runs get a 202 and the client polls or streams events.
	final := h.waitForTerminal(r, run.ID)
	if final == nil {
		writeJSON(w, http.StatusAccepted, createRunResponse{ID: run.ID, Status: model.StatusRunning})
		return
	}
	status := http.StatusCreated
	if final.Status == model.StatusError {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, createRunResponse{
		ID:            final.ID,
		Status:        final.Status,
		DiscussionURL: final.DiscussionURL,
		Error:         final.Error,
	})
}

// waitForTerminal polls the store until the run finishes, the ack timeout
// elapses, or the client goes away. Returns nil if the run is still going.
func (h *Handler) waitForTerminal(r *http.Request, runID string) *model.Run {
	deadline := time.NewTimer(h.ackTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-r.Context().Done():
			return nil
		case <-deadline.C:
			return nil
		case <-tick.C:
			run, err := h.engine.Store().GetRun(runID)
			if err != nil {
				return nil
			}
			if run.Status.Terminal() {
				return run
			}
		}
	}
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.engine.Store().ListRuns()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		log.Printf("Error listing runs: %v", err)
		return
	}
	if runs == nil {
		runs = []*model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.engine.Store().GetRun(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *Handler) handleGetBill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var billID int64
	if _, err := fmt.Sscanf(id, "%d", &billID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	bill, err := h.engine.Store().GetBill(billID)
	if err != nil {
		writeError(w, http.StatusNotFound, "bill not found")
		return
	}
	meta, err := h.engine.Store().GetBillMeta(billID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load bill meta")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bill": bill, "meta": meta})
}

func (h *Handler) handleRunEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.engine.Store().GetRun(id); err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	events, err := h.engine.Store().GetEvents(id, 0)
	if err != nil {
		log.Printf("failed to load events for run %s: %v", id, err)
		events = nil
	}
	for _, e := range events {
		writeSSE(w, e)
	}
	flusher.Flush()

	ch := h.engine.Bus().Subscribe(id)
	defer h.engine.Bus().Unsubscribe(id, ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, event)
			flusher.Flush()
		}
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeSSE(w http.ResponseWriter, event *model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("writeSSE marshal error: %v", err)
		return
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", event.ID, event.Type, string(data)); err != nil {
		log.Printf("writeSSE write error: %v", err)
	}
}
