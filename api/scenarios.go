/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate storage with punch data
	that shows one behaviour of the hours policy. Dates are relative to
	the handler clock, so "last week" always means the week before now.

AVAILABLE SCENARIOS:

	full-week:           Sunday..Thursday 7h plus an attended Saturday, balance 0
	open-punch:          Employee clocked in two hours ago, still running
	saturday-attendance: Saturday with an empty pair still expects 3h
	corrupted-blob:      Unparseable stored database, reads degrade to empty

HOW SCENARIOS WORK:
 1. Reset storage (database and active pointer)
 2. Write employees and punches
 3. Optionally clock someone in through the service

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "full-week"}

NOTE:

	Loading resets storage, so it shares the dev-mode gate of /api/reset.

SEE ALSO:
  - handlers.go: ResetStorage
  - records/service.go: ClockIn
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/warp/punchclock/punch"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "full-week",
		Name:        "Full Week",
		Description: "Last week worked Sunday to Thursday plus a Saturday shift, balance zero",
	},
	{
		ID:          "open-punch",
		Name:        "Open Punch",
		Description: "Clocked in two hours ago and not out yet, worked time runs to now",
	},
	{
		ID:          "saturday-attendance",
		Name:        "Saturday Attendance",
		Description: "A Saturday pair with no times still makes Saturday expected",
	},
	{
		ID:          "corrupted-blob",
		Name:        "Corrupted Data",
		Description: "Stored database is not valid JSON, every read starts from empty",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.scenarioMu.Lock()
	current := h.currentScenario
	h.scenarioMu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets storage and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	if h.Reset == nil {
		writeError(w, http.StatusNotFound, "Scenarios disabled", nil)
		return
	}

	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var load func(context.Context) error
	switch req.ScenarioID {
	case "full-week":
		load = h.loadFullWeekScenario
	case "open-punch":
		load = h.loadOpenPunchScenario
	case "saturday-attendance":
		load = h.loadSaturdayAttendanceScenario
	case "corrupted-blob":
		load = h.loadCorruptedBlobScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	h.scenarioMu.Lock()
	defer h.scenarioMu.Unlock()

	ctx := r.Context()
	h.currentScenario = ""
	if err := h.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset storage", err)
		return
	}
	if err := load(ctx); err != nil {
		h.Logger.Error("scenario load failed", "scenario", req.ScenarioID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// lastWeek is the Sunday that starts the week before the handler's today.
func (h *Handler) lastWeek() punch.Day {
	return h.Calc.CurrentWeek().Start.AddDays(-7)
}

func (h *Handler) loadFullWeekScenario(ctx context.Context) error {
	sunday := h.lastWeek()
	punches := punch.DailyPunches{}
	for i := 0; i < 5; i++ { // Sunday..Thursday
		punches[sunday.AddDays(i).Key()] = []punch.Pair{
			{In: "08:00", Out: "12:00"},
			{In: "12:30", Out: "15:30"},
		}
	}
	punches[sunday.AddDays(6).Key()] = []punch.Pair{{In: "09:00", Out: "12:00"}}

	return h.Service.Store().WriteDatabase(ctx, punch.Database{
		"emp-001": {Name: "Sara Haddad", PIN: "1111", Punches: punches},
	})
}

func (h *Handler) loadOpenPunchScenario(ctx context.Context) error {
	if _, err := h.Service.UpsertEmployee(ctx, "emp-002", "Omar Nasser", "2222"); err != nil {
		return err
	}
	_, err := h.Service.ClockIn(ctx, "emp-002", h.Calc.Clock().Add(-2*time.Hour))
	return err
}

func (h *Handler) loadSaturdayAttendanceScenario(ctx context.Context) error {
	sunday := h.lastWeek()
	return h.Service.Store().WriteDatabase(ctx, punch.Database{
		"emp-003": {Name: "Lina Saleh", PIN: "3333", Punches: punch.DailyPunches{
			sunday.AddDays(5).Key(): {{In: "10:00", Out: "11:00"}}, // Friday: worked, not expected
			sunday.AddDays(6).Key(): {{}},                          // Saturday: attended, no times
		}},
	})
}

func (h *Handler) loadCorruptedBlobScenario(ctx context.Context) error {
	return h.Service.Store().WriteDatabaseBlob(ctx, `{"emp-004": {"name": "Rami", "punches": [`)
}
