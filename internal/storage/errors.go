package storage

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Errors returned by DB operations. Use errors.Is to check them; every
// *NotFound error also matches ErrNotFound.
var (
	ErrNotFound        = errors.New("not found")
	ErrLabelNotFound   = fmt.Errorf("label %w", ErrNotFound)
	ErrContentNotFound = fmt.Errorf("content %w", ErrNotFound)
	ErrReviewNotFound  = fmt.Errorf("pending review %w", ErrNotFound)

	ErrDuplicateName = errors.New("label name already exists")
	ErrLabelInUse    = errors.New("label is in use")
	ErrInvalidInput  = errors.New("invalid input")
)

// LabelInUseError is returned when deleting a label that contents still reference.
type LabelInUseError struct {
	LabelID int64
	Count   int
}

func (e *LabelInUseError) Error() string {
	return fmt.Sprintf("label %d is used by %d content(s)", e.LabelID, e.Count)
}

// Is makes errors.Is(err, ErrLabelInUse) match.
func (e *LabelInUseError) Is(target error) bool {
	return target == ErrLabelInUse
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}
