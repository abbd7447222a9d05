package core

import (
	"errors"
	"fmt"
)

// GenerationErrorKind separates dependency failure classes so callers can
// apply their own retry policy. This layer never retries.
type GenerationErrorKind string

const (
	// GenerationTransient covers network errors and timeouts.
	GenerationTransient GenerationErrorKind = "transient"
	// GenerationProvider covers quota, auth and other provider-side
	// rejections.
	GenerationProvider GenerationErrorKind = "provider"
)

// GenerationError wraps a failure of the text-generation dependency.
type GenerationError struct {
	Provider string
	Kind     GenerationErrorKind
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation error [%s] from %s: %v", e.Kind, e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// NewTransientError wraps a network/timeout failure.
func NewTransientError(provider string, err error) *GenerationError {
	return &GenerationError{Provider: provider, Kind: GenerationTransient, Err: err}
}

// NewProviderError wraps a quota/auth/provider rejection.
func NewProviderError(provider string, err error) *GenerationError {
	return &GenerationError{Provider: provider, Kind: GenerationProvider, Err: err}
}

// IsTransient reports whether err is a transient generation failure.
func IsTransient(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge) && ge.Kind == GenerationTransient
}
