// Package catalog defines the error taxonomy shared by the credential,
// session and catalog layers. Handlers match these with errors.Is and turn
// them into user-facing notices.
package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidRating      = errors.New("rating must be a number")
	ErrDuplicateTitle     = errors.New("a book with this title already exists")
	ErrNotFound           = errors.New("not found")
	ErrEmptyComment       = errors.New("comment must not be empty")

	// ErrStoreUnavailable marks failures of the underlying database.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// StoreError wraps a driver failure so that it matches ErrStoreUnavailable
// while keeping the original error in the chain.
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
