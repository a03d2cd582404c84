package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/example/aoc2019/internal/domain"
	"github.com/example/aoc2019/internal/service"
	"github.com/example/aoc2019/internal/storage"
	"github.com/example/aoc2019/pkg/logger"
)

// maxRunsPageSize caps ?limit= on run listings.
const maxRunsPageSize = 200

// Handlers contains the HTTP handlers for the web API.
type Handlers struct {
	gate    *service.GateService
	storage storage.Storage
	log     logger.Logger
}

// NewHandlers creates the API handlers.
func NewHandlers(gate *service.GateService, store storage.Storage, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handlers{gate: gate, storage: store, log: log}
}

// Health handles GET /api/health. It pings the database so a wedged
// store reports unhealthy rather than 200.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.storage.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "storage unavailable: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Time: time.Now().UTC()})
}

// ListRuns handles GET /api/runs. Supports ?state=QUEUED,RUNNING,
// ?limit= and ?offset=.
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := storage.ListOptions{Limit: 50}

	if states := r.URL.Query().Get("state"); states != "" {
		for _, name := range strings.Split(states, ",") {
			state, err := domain.ParseRunState(strings.ToUpper(strings.TrimSpace(name)))
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			opts.States = append(opts.States, state)
		}
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > maxRunsPageSize {
			writeError(w, http.StatusBadRequest, "limit must be 1-"+strconv.Itoa(maxRunsPageSize))
			return
		}
		opts.Limit = n
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "offset must be non-negative")
			return
		}
		opts.Offset = n
	}

	runs, err := h.gate.ListRuns(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := ListRunsResponse{Runs: make([]RunSummary, 0, len(runs))}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, toRunSummary(run))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRun handles GET /api/runs/:id.
func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	run, err := h.gate.GetRun(r.Context(), ps.ByName("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunDetail(run))
}

// EnqueueRun handles POST /api/runs (manual trigger).
func (h *Handlers) EnqueueRun(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req EnqueueRunRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Trigger == "" {
		req.Trigger = "manual"
	}

	run, err := h.gate.Enqueue(r.Context(), service.EnqueueRequest{
		Workflow:  req.Workflow,
		JobID:     req.JobID,
		Trigger:   req.Trigger,
		CommitRef: req.CommitRef,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRunSummary(run))
}

// PushEvent handles POST /api/events/push, the webhook-shaped entry
// point. Every delivery enqueues one run.
func (h *Handlers) PushEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req PushEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	commitRef := req.HeadCommit.ID
	if commitRef == "" {
		commitRef = req.Ref
	}

	run, err := h.gate.Enqueue(r.Context(), service.EnqueueRequest{
		Trigger:   "push",
		CommitRef: commitRef,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.log.Infof("push event for %s enqueued run %s", commitRef, run.ID)
	writeJSON(w, http.StatusAccepted, toRunSummary(run))
}

// CancelRun handles POST /api/runs/:id/cancel.
func (h *Handlers) CancelRun(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	run, err := h.gate.CancelRun(r.Context(), ps.ByName("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunSummary(run))
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
