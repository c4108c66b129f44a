// Package repositories implements data access on top of gorm. Sentinel errors in this
// file let higher layers tell failure scenarios apart without inspecting driver errors.
package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write collides with existing state, such as a duplicate
// unique key or a delete blocked by dependent rows.
var ErrConflict = errors.New("conflict")

// ErrInvalidReference is returned inside a creation transaction when a payload references
// rows that do not exist or do not belong together. The transaction is rolled back.
var ErrInvalidReference = errors.New("invalid reference")

// translate maps gorm errors onto the sentinels above.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s %w", what, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w: %v", what, ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

func invalidReference(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidReference, fmt.Sprintf(format, args...))
}
