/*
Package punch defines the punch-clock data model.

PURPOSE:
  Holds the shape of everything the punch clock persists: employees,
  their per-day punch pairs, and the single active-employee pointer.
  The types here carry no storage mechanics; records/ persists them and
  hours/ derives worked and expected durations from them.

KEY CONCEPTS:
  - Database:       employee id -> EmployeeRecord, the entire durable state
  - EmployeeRecord: name, pin and DailyPunches for one employee
  - DailyPunches:   "YYYY-MM-DD" -> ordered punch pairs for that day
  - Pair:           one in/out interval, either side may be absent
  - Active:         the employee currently clocked into the UI session

PERSISTED SHAPE:
  {
    "emp-1": {
      "name": "Sara", "pin": "1234",
      "punches": { "2025-03-02": [ {"in": "08:00", "out": "16:00"} ] }
    }
  }

SEE ALSO:
  - codec.go: parse functions for the persisted JSON
  - time.go:  Day and HH:MM helpers
  - hours/:   policy computed over these types
*/
package punch

import "sort"

// =============================================================================
// DATABASE
// =============================================================================

// Database maps employee id to its record.
type Database map[string]EmployeeRecord

// EmployeeRecord is everything stored about one employee.
type EmployeeRecord struct {
	Name    string       `json:"name"`
	PIN     string       `json:"pin"`
	Punches DailyPunches `json:"punches"`
}

// DailyPunches maps a "YYYY-MM-DD" key to that day's pairs in punch order.
type DailyPunches map[string][]Pair

// Pair is one in/out interval within a day. An empty side means absent.
type Pair struct {
	In  string `json:"in,omitempty"`
	Out string `json:"out,omitempty"`
}

// IsOpen reports whether the pair has been punched in but not out.
func (p Pair) IsOpen() bool { return p.In != "" && p.Out == "" }

// Active points at the employee currently clocked into the session.
type Active struct {
	EmpID string `json:"empId"`
}

// EnsureEmployee returns db with a record for id, creating one with empty
// defaults when missing and filling in a nil Punches map. A nil db is
// allocated. Calling it repeatedly for the same id is a no-op.
func EnsureEmployee(db Database, id string) Database {
	if db == nil {
		db = Database{}
	}
	rec, ok := db[id]
	if !ok {
		rec = EmployeeRecord{}
	}
	if rec.Punches == nil {
		rec.Punches = DailyPunches{}
	}
	db[id] = rec
	return db
}

// PairsOn returns the pairs recorded for day, nil when there are none.
func (r EmployeeRecord) PairsOn(day Day) []Pair {
	return r.Punches[day.Key()]
}

// HasPunchOn reports whether at least one pair exists for day,
// regardless of whether its sides are filled in.
func (r EmployeeRecord) HasPunchOn(day Day) bool {
	return len(r.PairsOn(day)) > 0
}

// IDs returns the employee ids in ascending order.
func (db Database) IDs() []string {
	ids := make([]string, 0, len(db))
	for id := range db {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
