package records

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/punchclock/punch"
)

// =============================================================================
// SERVICE - Clock in/out on top of the record store
// =============================================================================

// Service mutates punch records with read-modify-write cycles against a
// Store. Cycles through one Service are serialised.
type Service struct {
	store  *Store
	logger *slog.Logger
	mu     sync.Mutex
}

func NewService(store *Store) *Service {
	return &Service{store: store, logger: store.logger}
}

// Store returns the underlying record store.
func (s *Service) Store() *Store { return s.store }

// Employee is a record with its id.
type Employee struct {
	ID string
	punch.EmployeeRecord
}

// Employees lists every employee ordered by id.
func (s *Service) Employees(ctx context.Context) []Employee {
	db := s.store.ReadDatabase(ctx)
	out := make([]Employee, 0, len(db))
	for _, id := range db.IDs() {
		out = append(out, Employee{ID: id, EmployeeRecord: db[id]})
	}
	return out
}

// Employee returns one employee or punch.ErrEmployeeNotFound.
func (s *Service) Employee(ctx context.Context, id string) (Employee, error) {
	db := s.store.ReadDatabase(ctx)
	rec, ok := db[id]
	if !ok {
		return Employee{}, fmt.Errorf("%w: %s", punch.ErrEmployeeNotFound, id)
	}
	return Employee{ID: id, EmployeeRecord: rec}, nil
}

// UpsertEmployee sets name and pin for id, creating the record when
// needed. An empty id gets a generated one. Punches are left untouched.
func (s *Service) UpsertEmployee(ctx context.Context, id, name, pin string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.store.loadForUpdate(ctx)
	if err != nil {
		return "", err
	}
	db = punch.EnsureEmployee(db, id)
	rec := db[id]
	rec.Name = name
	rec.PIN = pin
	db[id] = rec

	if err := s.store.WriteDatabase(ctx, db); err != nil {
		return "", err
	}
	s.logger.Info("employee saved", "employee", id)
	return id, nil
}

// ClockIn opens a new pair for id on at's local date and makes id the
// active employee.
func (s *Service) ClockIn(ctx context.Context, id string, at time.Time) (punch.Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := punch.DayOf(at)
	db, err := s.store.loadForUpdate(ctx)
	if err != nil {
		return punch.Pair{}, err
	}
	db = punch.EnsureEmployee(db, id)
	rec := db[id]

	pairs := rec.Punches[day.Key()]
	if n := len(pairs); n > 0 && pairs[n-1].IsOpen() {
		return punch.Pair{}, &punch.ClockStateError{EmployeeID: id, Day: day, Err: punch.ErrAlreadyClockedIn}
	}

	pair := punch.Pair{In: punch.NowAsHHMM(at)}
	rec.Punches[day.Key()] = append(pairs, pair)
	db[id] = rec

	if err := s.store.WriteDatabase(ctx, db); err != nil {
		return punch.Pair{}, err
	}
	if err := s.store.SetActive(ctx, &punch.Active{EmpID: id}); err != nil {
		return punch.Pair{}, err
	}

	s.logger.Info("clocked in", "employee", id, "day", day, "at", pair.In)
	return pair, nil
}

// ClockOut closes the last open pair for id on at's local date and
// clears the active pointer if it names id.
func (s *Service) ClockOut(ctx context.Context, id string, at time.Time) (punch.Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := punch.DayOf(at)
	db, err := s.store.loadForUpdate(ctx)
	if err != nil {
		return punch.Pair{}, err
	}
	rec, ok := db[id]
	if !ok {
		return punch.Pair{}, fmt.Errorf("%w: %s", punch.ErrEmployeeNotFound, id)
	}

	pairs := rec.Punches[day.Key()]
	n := len(pairs)
	if n == 0 || !pairs[n-1].IsOpen() {
		return punch.Pair{}, &punch.ClockStateError{EmployeeID: id, Day: day, Err: punch.ErrNotClockedIn}
	}

	pairs[n-1].Out = punch.NowAsHHMM(at)
	rec.Punches[day.Key()] = pairs
	db[id] = rec

	if err := s.store.WriteDatabase(ctx, db); err != nil {
		return punch.Pair{}, err
	}
	if active := s.store.GetActive(ctx); active != nil && active.EmpID == id {
		if err := s.store.SetActive(ctx, nil); err != nil {
			return punch.Pair{}, err
		}
	}

	s.logger.Info("clocked out", "employee", id, "day", day, "at", pairs[n-1].Out)
	return pairs[n-1], nil
}
