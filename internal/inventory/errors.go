package inventory

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrIO                = errors.New("io error")

	// ErrNoSnapshot is returned by a SnapshotStore that holds nothing yet.
	ErrNoSnapshot = errors.New("no snapshot")
)

func notFound(id uint32) error {
	return fmt.Errorf("%w: product %d", ErrNotFound, id)
}

func errIDsExhausted(kind string) error {
	return fmt.Errorf("%w: no %s ids left", ErrInvalidInput, kind)
}

// Kind maps an error returned by the store to a short label for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "error"
	}
}
