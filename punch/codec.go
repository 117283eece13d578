package punch

import (
	"encoding/json"
	"fmt"
)

// ParseDatabase decodes a persisted database blob. Empty input is an
// empty database; anything that is not a JSON object of records is
// ErrMalformedData. Records missing their punches map get an empty one.
func ParseDatabase(data []byte) (Database, error) {
	if len(data) == 0 {
		return Database{}, nil
	}
	var db Database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	if db == nil {
		// literal "null"
		return Database{}, nil
	}
	for id := range db {
		db = EnsureEmployee(db, id)
	}
	return db, nil
}

// EncodeDatabase encodes the database for persistence.
func EncodeDatabase(db Database) ([]byte, error) {
	if db == nil {
		db = Database{}
	}
	return json.Marshal(db)
}

// ParseActive decodes a persisted active pointer. A missing value, the
// literal null, or a pointer without an employee id all yield nil with no
// error; undecodable input yields ErrMalformedData.
func ParseActive(data []byte) (*Active, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var a *Active
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	if a == nil || a.EmpID == "" {
		return nil, nil
	}
	return a, nil
}

// EncodeActive encodes a non-nil active pointer.
func EncodeActive(a Active) ([]byte, error) {
	return json.Marshal(a)
}
