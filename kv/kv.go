/*
kv.go - Key-value persistence interface for the record store

PURPOSE:
  The punch clock persists exactly two values: the employee database
  blob and the active-employee pointer. Both are whole-value strings
  under fixed keys. Storage is the seam between records.Store and the
  backend that holds those strings.

CONTRACT:
  - Get reports (value, true, nil) for a present key and ("", false, nil)
    for an absent one. Errors mean the backend itself failed.
  - Set replaces the whole value. There is no merge and no partial write;
    the last writer wins.
  - Delete removes the key. Deleting an absent key is not an error.

IMPLEMENTATIONS:
  - kv/memory.go:          in-process map, for tests and -backend=memory
  - store/sqlite/sqlite.go: single-table SQLite
  - store/redis/redis.go:   Redis strings

EXAMPLE:
  storage := kv.NewMemory()
  _ = storage.Set(ctx, "punchclock:active", `{"empId":"emp-1"}`)
  v, ok, err := storage.Get(ctx, "punchclock:active")
*/
package kv

import "context"

// Storage persists whole string values under string keys.
type Storage interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Absent keys are ignored.
	Delete(ctx context.Context, key string) error
}
