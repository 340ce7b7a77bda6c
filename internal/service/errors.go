package service

import (
	"errors"
	"fmt"

	"github.com/jengzang/wifi-coverage-backend/internal/repository"
)

var (
	// ErrValidation marks a request the caller can fix
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is re-exported so handlers need not import the repository
	ErrNotFound = repository.ErrNotFound
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// wrapValidation tags an engine validation error as ErrValidation while
// keeping the original error in the chain.
func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
