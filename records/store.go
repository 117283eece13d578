/*
Package records owns the punch clock's durable state.

PURPOSE:
  Store reads and writes the employee Database and the Active pointer
  through a kv.Storage. Service builds the clock-in/clock-out workflow
  on top of it.

DEGRADE, DON'T FAIL:
  A corrupted or missing blob must never block clocking in. Reads map
  every failure (backend error, absent key, malformed JSON) to the safe
  default: an empty Database or a nil Active. The failure is logged,
  never returned. Writes do return errors: a caller must know when a
  punch was not saved.

  Read-modify-write cycles in Service load through loadForUpdate, which
  returns backend errors instead of degrading. Writing back an empty
  database after a failed read would erase every employee.

WHOLE-VALUE WRITES:
  WriteDatabase replaces the stored blob entirely. Two writers that
  read-modify-write concurrently lose one update; Service serialises
  its own cycles, cross-process races are not handled.

EXAMPLE:
  store := records.New(kv.NewMemory())
  db := store.ReadDatabase(ctx)
  db = store.EnsureEmployee(db, "emp-1")
  if err := store.WriteDatabase(ctx, db); err != nil {
      return err
  }

SEE ALSO:
  - service.go: clock in/out
  - punch/codec.go: parse functions
*/
package records

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/warp/punchclock/kv"
	"github.com/warp/punchclock/punch"
)

const (
	DefaultDatabaseKey = "punchclock:employees"
	DefaultActiveKey   = "punchclock:active"
)

// Store is the record store over a key-value backend.
type Store struct {
	storage     kv.Storage
	databaseKey string
	activeKey   string
	logger      *slog.Logger
}

type Option func(*Store)

func WithDatabaseKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.databaseKey = key
		}
	}
}

func WithActiveKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.activeKey = key
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates a Store on storage.
func New(storage kv.Storage, opts ...Option) *Store {
	s := &Store{
		storage:     storage,
		databaseKey: DefaultDatabaseKey,
		activeKey:   DefaultActiveKey,
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// =============================================================================
// DATABASE
// =============================================================================

// ReadDatabase loads the database. It never fails: backend errors and
// missing or malformed data yield an empty, non-nil Database.
func (s *Store) ReadDatabase(ctx context.Context) punch.Database {
	db, err := s.loadForUpdate(ctx)
	if err != nil {
		s.logger.Warn("reading database failed, using empty", "key", s.databaseKey, "error", err)
		return punch.Database{}
	}
	return db
}

// loadForUpdate is ReadDatabase for read-modify-write cycles. Missing or
// malformed data still degrades to empty, but a backend error is returned
// so the caller never writes an empty database over one it failed to read.
func (s *Store) loadForUpdate(ctx context.Context) (punch.Database, error) {
	raw, ok, err := s.storage.Get(ctx, s.databaseKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read database: %w", err)
	}
	if !ok {
		return punch.Database{}, nil
	}
	db, err := punch.ParseDatabase([]byte(raw))
	if err != nil {
		s.logger.Warn("stored database is malformed, using empty", "key", s.databaseKey, "error", err)
		return punch.Database{}, nil
	}
	return db, nil
}

// WriteDatabase replaces the stored database with db.
func (s *Store) WriteDatabase(ctx context.Context, db punch.Database) error {
	data, err := punch.EncodeDatabase(db)
	if err != nil {
		return fmt.Errorf("failed to encode database: %w", err)
	}
	if err := s.storage.Set(ctx, s.databaseKey, string(data)); err != nil {
		return fmt.Errorf("failed to write database: %w", err)
	}
	return nil
}

// WriteDatabaseBlob stores raw as the database value without encoding it.
// It reproduces damaged data for demos; reads of a bad blob degrade.
func (s *Store) WriteDatabaseBlob(ctx context.Context, raw string) error {
	if err := s.storage.Set(ctx, s.databaseKey, raw); err != nil {
		return fmt.Errorf("failed to write database: %w", err)
	}
	return nil
}

// EnsureEmployee returns db with a record for id. See punch.EnsureEmployee.
func (s *Store) EnsureEmployee(db punch.Database, id string) punch.Database {
	return punch.EnsureEmployee(db, id)
}

// =============================================================================
// ACTIVE POINTER
// =============================================================================

// GetActive loads the active pointer, nil when absent or malformed.
func (s *Store) GetActive(ctx context.Context) *punch.Active {
	raw, ok, err := s.storage.Get(ctx, s.activeKey)
	if err != nil {
		s.logger.Warn("reading active pointer failed", "key", s.activeKey, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	a, err := punch.ParseActive([]byte(raw))
	if err != nil {
		s.logger.Warn("stored active pointer is malformed", "key", s.activeKey, "error", err)
		return nil
	}
	return a
}

// SetActive persists a, or removes the stored pointer when a is nil.
func (s *Store) SetActive(ctx context.Context, a *punch.Active) error {
	if a == nil {
		if err := s.storage.Delete(ctx, s.activeKey); err != nil {
			return fmt.Errorf("failed to clear active pointer: %w", err)
		}
		return nil
	}
	data, err := punch.EncodeActive(*a)
	if err != nil {
		return fmt.Errorf("failed to encode active pointer: %w", err)
	}
	if err := s.storage.Set(ctx, s.activeKey, string(data)); err != nil {
		return fmt.Errorf("failed to write active pointer: %w", err)
	}
	return nil
}

// Reset removes both stored values.
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range []string{s.databaseKey, s.activeKey} {
		if err := s.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}
