/*
handlers.go - HTTP API handlers for the punch clock

ENDPOINTS:
  Employees:
    GET    /api/employees                     List employees
    POST   /api/employees                     Create or update employee
    GET    /api/employees/{id}                Employee with punches
    POST   /api/employees/{id}/clock-in       Open a pair
    POST   /api/employees/{id}/clock-out      Close the open pair
    GET    /api/employees/{id}/summary        Worked vs expected for ?from=&to=
    GET    /api/employees/{id}/days           Daily breakdown for ?from=&to=

  Active pointer:
    GET    /api/active                        200 with pointer, 204 when none
    PUT    /api/active                        Set pointer
    DELETE /api/active                        Clear pointer

  Export:
    GET    /api/export/{report}.{format}      report = summary|daily, format = csv|xlsx

  Dev:
    POST   /api/reset                         Wipe storage (dev mode only)
    GET    /api/scenarios                     List demo scenarios
    GET    /api/scenarios/current             Last loaded scenario or null
    POST   /api/scenarios/load                Reset, then seed (dev mode only)

RANGES:
  from and to are YYYY-MM-DD. Missing values default to the current
  week: Sunday through today. Spans longer than MaxRangeDays are 400.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: invalid dates, bodies, ranges
  - 404: unknown employee
  - 409: clock state conflict (already in, not in)
  - 500: storage failures
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/punchclock/export"
	"github.com/warp/punchclock/hours"
	"github.com/warp/punchclock/punch"
	"github.com/warp/punchclock/records"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *records.Service
	Calc    hours.Calculator
	Logger  *slog.Logger

	// MaxRangeDays caps ?from=&to= spans; 0 means hours.DefaultMaxRangeDays.
	MaxRangeDays int

	// Reset wipes storage; nil disables the endpoint and scenarios.
	Reset func(ctx context.Context) error

	scenarioMu      sync.Mutex
	currentScenario string
}

// NewHandler creates a handler over svc using the system clock.
func NewHandler(svc *records.Service, logger *slog.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  logger,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees := h.Service.Employees(r.Context())

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee with punches.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.Employee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EmployeeDetailDTO{
		EmployeeDTO: toEmployeeDTO(emp),
		Punches:     emp.Punches,
	})
}

// UpsertEmployee creates or updates an employee.
func (h *Handler) UpsertEmployee(w http.ResponseWriter, r *http.Request) {
	var req UpsertEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	id, err := h.Service.UpsertEmployee(r.Context(), req.ID, req.Name, req.PIN)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EmployeeDTO{ID: id, Name: req.Name, HasPIN: req.PIN != ""})
}

// ClockIn opens a pair for the employee.
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, h.Service.ClockIn)
}

// ClockOut closes the employee's open pair.
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, h.Service.ClockOut)
}

func (h *Handler) clock(w http.ResponseWriter, r *http.Request, action func(context.Context, string, time.Time) (punch.Pair, error)) {
	id := chi.URLParam(r, "id")

	at, err := h.parseClockRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clock request", err)
		return
	}

	pair, err := action(r.Context(), id, at)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ClockResponseDTO{
		EmployeeID: id,
		Date:       punch.DateToKey(at),
		Pair:       pair,
	})
}

func (h *Handler) parseClockRequest(r *http.Request) (time.Time, error) {
	var req ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return time.Time{}, err
	}
	if req.At == "" {
		return h.Calc.Clock(), nil
	}
	at, err := time.Parse(time.RFC3339, req.At)
	if err != nil {
		return time.Time{}, fmt.Errorf("at must be RFC3339: %w", err)
	}
	return at.In(time.Local), nil
}

// GetSummary returns worked vs expected for a range.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := h.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range", err)
		return
	}

	emp, err := h.Service.Employee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryDTO(h.Calc.Summarize(emp.ID, emp.EmployeeRecord, rng)))
}

// GetDays returns the daily breakdown for a range.
func (h *Handler) GetDays(w http.ResponseWriter, r *http.Request) {
	rng, err := h.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range", err)
		return
	}

	emp, err := h.Service.Employee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDayDTOs(h.Calc.Daily(emp.EmployeeRecord, rng)))
}

// =============================================================================
// ACTIVE POINTER HANDLERS
// =============================================================================

// GetActive returns the active pointer.
func (h *Handler) GetActive(w http.ResponseWriter, r *http.Request) {
	a := h.Service.Store().GetActive(r.Context())
	if a == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, ActiveDTO{EmpID: a.EmpID})
}

// SetActive stores the active pointer.
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req ActiveDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmpID == "" {
		writeError(w, http.StatusBadRequest, "empId is required", nil)
		return
	}

	if err := h.Service.Store().SetActive(r.Context(), &punch.Active{EmpID: req.EmpID}); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// ClearActive removes the active pointer.
func (h *Handler) ClearActive(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Store().SetActive(r.Context(), nil); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// EXPORT HANDLERS
// =============================================================================

// Export renders a report for every employee.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid export format", err)
		return
	}
	rng, err := h.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range", err)
		return
	}

	db := h.Service.Store().ReadDatabase(r.Context())

	var rows [][]string
	report := chi.URLParam(r, "report")
	switch report {
	case "summary":
		rows = export.SummaryRows(h.Calc.SummarizeAll(db, rng))
	case "daily":
		rows = export.DailyRows(h.Calc, db, rng)
	default:
		writeError(w, http.StatusNotFound, "Unknown report", nil)
		return
	}

	filename := fmt.Sprintf("%s_%s_%s.%s", report, rng.Start, rng.End, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.Write(w, format, rows); err != nil {
		h.Logger.Error("export failed", "report", report, "format", format, "error", err)
	}
}

// ResetStorage wipes all data in dev mode.
func (h *Handler) ResetStorage(w http.ResponseWriter, r *http.Request) {
	if h.Reset == nil {
		writeError(w, http.StatusNotFound, "Reset disabled", nil)
		return
	}
	if err := h.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset storage", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// parseRange reads ?from=&to=, defaulting to the current week.
func (h *Handler) parseRange(r *http.Request) (hours.Range, error) {
	rng := h.Calc.CurrentWeek()

	if s := r.URL.Query().Get("from"); s != "" {
		d, err := punch.ParseDay(s)
		if err != nil {
			return hours.Range{}, err
		}
		rng.Start = d
	}
	if s := r.URL.Query().Get("to"); s != "" {
		d, err := punch.ParseDay(s)
		if err != nil {
			return hours.Range{}, err
		}
		rng.End = d
	}
	if err := rng.Validate(h.MaxRangeDays); err != nil {
		return hours.Range{}, err
	}
	return rng, nil
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case punch.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Employee not found", err)
	case punch.IsConflict(err):
		writeError(w, http.StatusConflict, "Clock state conflict", err)
	case punch.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		h.Logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Storage failure", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
