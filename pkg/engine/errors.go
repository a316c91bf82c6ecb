package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoaded is returned when querying an engine whose collection has not loaded
	ErrNotLoaded = errors.New("dataset not loaded")
	// ErrAlreadyLoaded is returned when loading an engine that is already ready
	ErrAlreadyLoaded = errors.New("dataset already loaded")
	// ErrLoadInProgress is returned when a load is attempted while another is running
	ErrLoadInProgress = errors.New("dataset load already in progress")
	// ErrLoadFailure is matched by every *LoadError
	ErrLoadFailure = errors.New("dataset load failed")
	// ErrNilSource is returned when Load is called without a source
	ErrNilSource = errors.New("data source is required")
)

// LoadError wraps a data source failure. The engine stays unloaded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s from %s: %v", ErrLoadFailure, e.Source, e.Err)
}

// Unwrap returns the source error
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrLoadFailure)
func (e *LoadError) Is(target error) bool {
	return target == ErrLoadFailure
}
