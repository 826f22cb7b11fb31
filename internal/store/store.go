// Package store provides database access methods for all pressgate
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods. Multi-row effects of one logical write (slug uniqueness,
// reference checks, counter maintenance) run inside a single transaction.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint failure.
// Used as the commit-time backstop for slug collisions that slip past the
// in-transaction existence check.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// stringsJSON marshals a string slice for a JSONB column, normalizing nil
// to an empty array.
func stringsJSON(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode string list: %w", err)
	}
	return raw, nil
}

// stringsFromJSON unmarshals a JSONB column into a string slice,
// normalizing SQL NULL and JSON null to an empty slice.
func stringsFromJSON(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode string list: %w", err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}
