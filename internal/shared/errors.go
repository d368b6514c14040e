package shared

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("not found")
)

type StorageKind int

const (
	StorageOther StorageKind = iota
	StorageConnectivity
	StorageConstraint
	StorageSchema
)

func (k StorageKind) String() string {
	switch k {
	case StorageConnectivity:
		return "connectivity"
	case StorageConstraint:
		return "constraint"
	case StorageSchema:
		return "schema"
	default:
		return "other"
	}
}

// StorageError wraps a database failure with a coarse classification so logs
// can tell a down database from a broken schema, while callers still collapse
// everything to one user-facing message.
type StorageError struct {
	Kind  StorageKind
	cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failure: %v", e.Kind, e.cause)
}

func (e *StorageError) Unwrap() error {
	return e.cause
}

// ClassifyStorage wraps err in a StorageError. Classification is best-effort:
// gorm exposes duplicate-key and FK errors directly, everything else is
// matched on the driver message.
func ClassifyStorage(err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}

	kind := StorageOther
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		kind = StorageConstraint
	case errors.Is(err, gorm.ErrInvalidDB):
		kind = StorageConnectivity
	default:
		msg := strings.ToLower(err.Error())
		switch {
		case strings.Contains(msg, "connection refused"),
			strings.Contains(msg, "connection reset"),
			strings.Contains(msg, "bad connection"),
			strings.Contains(msg, "timeout"):
			kind = StorageConnectivity
		case strings.Contains(msg, "unique constraint"),
			strings.Contains(msg, "foreign key"),
			strings.Contains(msg, "violates"):
			kind = StorageConstraint
		case strings.Contains(msg, "no such table"),
			strings.Contains(msg, "does not exist"),
			strings.Contains(msg, "no such column"),
			strings.Contains(msg, "undefined column"):
			kind = StorageSchema
		}
	}

	return &StorageError{Kind: kind, cause: err}
}
