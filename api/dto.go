/*
dto.go - Data Transfer Objects for API requests and responses

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

PINS:
  PINs are accepted on write and never serialised in responses.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/punchclock/hours"
	"github.com/warp/punchclock/punch"
	"github.com/warp/punchclock/records"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in list responses.
type EmployeeDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	HasPIN bool   `json:"has_pin"`
}

// EmployeeDetailDTO adds the punch history.
type EmployeeDetailDTO struct {
	EmployeeDTO
	Punches punch.DailyPunches `json:"punches"`
}

// UpsertEmployeeRequest creates or updates an employee.
type UpsertEmployeeRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

// ClockRequest is the optional body of clock-in/clock-out.
type ClockRequest struct {
	At string `json:"at,omitempty"` // RFC3339; empty means now
}

// ClockResponseDTO reports the pair touched by a clock action.
type ClockResponseDTO struct {
	EmployeeID string     `json:"employee_id"`
	Date       string     `json:"date"`
	Pair       punch.Pair `json:"pair"`
}

// SummaryDTO is worked vs expected over a range.
type SummaryDTO struct {
	EmployeeID      string `json:"employee_id"`
	Name            string `json:"name"`
	From            string `json:"from"`
	To              string `json:"to"`
	WorkedSeconds   int64  `json:"worked_seconds"`
	ExpectedSeconds int64  `json:"expected_seconds"`
	BalanceSeconds  int64  `json:"balance_seconds"`
	Worked          string `json:"worked"`   // HH:MM
	Expected        string `json:"expected"` // HH:MM
	Balance         string `json:"balance"`  // signed HH:MM
	WorkedHours     string `json:"worked_hours"`
	ExpectedHours   string `json:"expected_hours"`
}

// DayDTO is one day of a breakdown.
type DayDTO struct {
	Date            string       `json:"date"`
	Weekday         string       `json:"weekday"`
	Pairs           []punch.Pair `json:"pairs"`
	WorkedSeconds   int64        `json:"worked_seconds"`
	ExpectedSeconds int64        `json:"expected_seconds"`
}

// ActiveDTO mirrors the persisted active pointer.
type ActiveDTO struct {
	EmpID string `json:"empId"`
}

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(e records.Employee) EmployeeDTO {
	return EmployeeDTO{ID: e.ID, Name: e.Name, HasPIN: e.PIN != ""}
}

func toSummaryDTO(s hours.Summary) SummaryDTO {
	return SummaryDTO{
		EmployeeID:      s.EmployeeID,
		Name:            s.Name,
		From:            s.Range.Start.Key(),
		To:              s.Range.End.Key(),
		WorkedSeconds:   s.WorkedSeconds,
		ExpectedSeconds: s.ExpectedSeconds,
		BalanceSeconds:  s.BalanceSeconds(),
		Worked:          punch.SecondsToHHMM(s.WorkedSeconds),
		Expected:        punch.SecondsToHHMM(s.ExpectedSeconds),
		Balance:         punch.FormatSignedHHMM(s.BalanceSeconds()),
		WorkedHours:     s.WorkedHours().StringFixed(2),
		ExpectedHours:   s.ExpectedHours().StringFixed(2),
	}
}

func toDayDTOs(days []hours.DayReport) []DayDTO {
	dtos := make([]DayDTO, len(days))
	for i, d := range days {
		pairs := d.Pairs
		if pairs == nil {
			pairs = []punch.Pair{}
		}
		dtos[i] = DayDTO{
			Date:            d.Day.Key(),
			Weekday:         d.Day.Weekday().String(),
			Pairs:           pairs,
			WorkedSeconds:   d.WorkedSeconds,
			ExpectedSeconds: d.ExpectedSeconds,
		}
	}
	return dtos
}
