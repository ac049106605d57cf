package repository

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when an operation targets an id that does not
// exist. Point lookups (GetByID and friends) return (nil, nil) instead;
// absence there is not an error.
var ErrNotFound = errors.New("entity not found")

// UnknownFilterError reports a List filter on a field the entity does
// not have.
type UnknownFilterError struct {
	Field string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("unknown filter field %q", e.Field)
}

// IsUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure. Callers use this to retry the read path instead of surfacing
// the raw storage error.
func IsUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsForeignKeyViolation reports whether err is a sqlite FK constraint
// failure (e.g. deleting an edition that cards still reference).
func IsForeignKeyViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
