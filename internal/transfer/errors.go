package transfer

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrSourceRead         = errors.New("source read failed")
	ErrDestinationConnect = errors.New("destination connect failed")
	ErrDestinationWrite   = errors.New("destination write failed")
	ErrSourcePurge        = errors.New("source purge failed")

	// ErrRunInProgress is returned by Run when another run holds the lock.
	ErrRunInProgress = errors.New("run already in progress")
)

// PipelineError wraps an error with the phase where it occurred and its kind.
type PipelineError struct {
	Phase string
	Kind  error
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Phase, e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's kind.
func (e *PipelineError) Is(target error) bool {
	return target == e.Kind
}
