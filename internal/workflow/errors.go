package workflow

import (
	"errors"
	"fmt"

	"github.com/mithrel/tally/internal/backend"
	"github.com/mithrel/tally/internal/upload"
)

// UserInputError is a submit rejected before any network call. Reason is
// shown to the user as is.
type UserInputError struct {
	Reason string
	Err    error
}

func (e *UserInputError) Error() string { return e.Reason }

func (e *UserInputError) Unwrap() error { return e.Err }

var (
	ErrNoFile        = upload.ErrNoFile
	ErrNoRun         = errors.New("no run id")
	ErrNoSelection   = errors.New("no entities selected")
	ErrUnknownEntity = errors.New("unknown entity")
	ErrNoReport      = errors.New("no report available")
	ErrBusy          = errors.New("a request is already in flight")
)

// TransportError is a failed prepare or analyze call.
type TransportError = backend.TransportError

// RenderingDependencyError means a chart renderer could not be loaded. The
// report text is still usable.
type RenderingDependencyError struct {
	Component string
}

func (e *RenderingDependencyError) Error() string {
	return fmt.Sprintf("chart renderer %q is not available", e.Component)
}

// IsUserInput reports whether err was rejected locally.
func IsUserInput(err error) bool {
	var ue *UserInputError
	return errors.As(err, &ue)
}
