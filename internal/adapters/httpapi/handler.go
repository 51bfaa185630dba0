// Package httpapi exposes the planner over a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/example/shopplan/internal/core/period"
	"github.com/example/shopplan/internal/core/scenario"
	"github.com/example/shopplan/internal/core/shoperr"
	"github.com/example/shopplan/internal/logger"
	"github.com/example/shopplan/internal/ports/primary"
)

// defaultReportMonths is the width of GET /api/capacity without a "to" bound.
const defaultReportMonths = 6

// Handler holds the services behind the HTTP handlers.
type Handler struct {
	Assignments primary.AssignmentService
	Scenarios   primary.ScenarioService
	Ledger      primary.LedgerService
	Forecasts   primary.ForecastService
	Logger      logger.Logger
	Now         func() time.Time
}

// Envelope wraps every response body.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError is a structured error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AssignBody is the body for POST /api/assignments.
type AssignBody struct {
	WorkItemID string `json:"work_item_id"`
	ResourceID string `json:"resource_id"`
	Period     string `json:"period"`
}

// EvaluateBody is the body for POST /api/scenarios/evaluate.
type EvaluateBody struct {
	Entries []scenario.RawEntry `json:"entries"`
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: map[string]string{"status": "ok"}})
}

// CreateAssignment handles POST /api/assignments.
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var body AssignBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeBadRequest(w, "invalid request body")
		return
	}
	if body.WorkItemID == "" || body.ResourceID == "" {
		h.writeBadRequest(w, "work_item_id and resource_id are required")
		return
	}
	p, err := period.Parse(body.Period)
	if err != nil {
		h.writeBadRequest(w, err.Error())
		return
	}

	resp, err := h.Assignments.Assign(r.Context(), primary.AssignRequest{
		WorkItemID: body.WorkItemID,
		ResourceID: body.ResourceID,
		Period:     p,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, Envelope{Success: true, Data: resp})
}

// ListAssignments handles GET /api/assignments.
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := primary.AssignmentFilters{
		WorkItemID: q.Get("work_item_id"),
		ResourceID: q.Get("resource_id"),
	}
	if raw := q.Get("period"); raw != "" {
		p, err := period.Parse(raw)
		if err != nil {
			h.writeBadRequest(w, err.Error())
			return
		}
		filters.Period = p
	}

	assignments, err := h.Assignments.ListAssignments(r.Context(), filters)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if assignments == nil {
		assignments = []*primary.Assignment{}
	}
	h.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: assignments})
}

// DeleteAssignment handles DELETE /api/assignments/{id}.
func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Assignments.Unassign(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: map[string]string{"id": id}})
}

// Undo handles POST /api/history/undo.
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	state, err := h.Assignments.Undo(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: state})
}

// Redo handles POST /api/history/redo.
func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	state, err := h.Assignments.Redo(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: state})
}

// History handles GET /api/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	state, err := h.Assignments.HistoryState(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: state})
}

// EvaluateScenario handles POST /api/scenarios/evaluate.
func (h *Handler) EvaluateScenario(w http.ResponseWriter, r *http.Request) {
	var body EvaluateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeBadRequest(w, "invalid request body")
		return
	}

	result, err := h.Scenarios.Evaluate(r.Context(), body.Entries)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: result})
}

// CreateScenario handles POST /api/scenarios.
func (h *Handler) CreateScenario(w http.ResponseWriter, r *http.Request) {
	var body primary.CreateScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeBadRequest(w, "invalid request body")
		return
	}

	sc, err := h.Scenarios.CreateScenario(r.Context(), body)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, Envelope{Success: true, Data: sc})
}

// ListScenarios handles GET /api/scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.Scenarios.ListScenarios(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if scenarios == nil {
		scenarios = []*primary.Scenario{}
	}
	h.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: scenarios})
}

// GetScenario handles GET /api/scenarios/{id}.
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := h.Scenarios.GetScenario(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: sc})
}

// ApplyScenario handles POST /api/scenarios/{id}/apply.
func (h *Handler) ApplyScenario(w http.ResponseWriter, r *http.Request) {
	created, err := h.Scenarios.ApplyScenario(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: created})
}

// Forecast handles GET /api/forecast.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	months := 0
	if raw := q.Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeBadRequest(w, "months must be a non-negative integer")
			return
		}
		months = n
	}

	series, err := h.Forecasts.Forecast(r.Context(), q.Get("resource_id"), months)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: series})
}

// Capacity handles GET /api/capacity. Without bounds it reports the current
// month and the five that follow.
func (h *Handler) Capacity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from := period.Normalize(h.now())
	if raw := q.Get("from"); raw != "" {
		p, err := period.Parse(raw)
		if err != nil {
			h.writeBadRequest(w, err.Error())
			return
		}
		from = p
	}
	to := period.Add(from, defaultReportMonths-1)
	if raw := q.Get("to"); raw != "" {
		p, err := period.Parse(raw)
		if err != nil {
			h.writeBadRequest(w, err.Error())
			return
		}
		to = p
	}

	report, err := h.Ledger.Report(r.Context(), from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: report})
}

func (h *Handler) logger() logger.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return logger.NopLogger{}
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger().Errorf("encode response: %v", err)
	}
}

func (h *Handler) writeBadRequest(w http.ResponseWriter, msg string) {
	h.writeJSON(w, http.StatusBadRequest, Envelope{Error: &APIError{Code: "bad_request", Message: msg}})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	kind := shoperr.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		h.logger().Errorf("request failed: %v", err)
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	h.writeJSON(w, status, Envelope{Error: &APIError{Code: string(kind), Message: msg}})
}

func statusFor(kind shoperr.Kind) int {
	switch kind {
	case shoperr.KindNotFound:
		return http.StatusNotFound
	case shoperr.KindDuplicateAssignment, shoperr.KindEmptyHistory:
		return http.StatusConflict
	case shoperr.KindInvalidScenarioData:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
