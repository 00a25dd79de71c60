package backend

import (
	"errors"
	"fmt"
)

// Op names the backend call an error belongs to.
type Op string

const (
	OpPrepare Op = "prepare"
	OpAnalyze Op = "analyze"
)

// Fallback messages used when the server sends no error body.
const (
	FallbackPrepare = "failed to parse the file, check its format"
	FallbackAnalyze = "analysis failed, check the file format"
)

func (o Op) fallback() string {
	if o == OpPrepare {
		return FallbackPrepare
	}
	return FallbackAnalyze
}

// TransportError is a network failure or non-success response. Message is
// what the user sees: the server's error text when it sent one.
type TransportError struct {
	Op      Op
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string { return e.Message }

func (e *TransportError) Unwrap() error { return e.Err }

// ErrInvalidResponse marks a success status whose body could not be used.
var ErrInvalidResponse = errors.New("invalid backend response")

func invalidResponse(op Op, status int, err error) *TransportError {
	return &TransportError{
		Op:      op,
		Status:  status,
		Message: fmt.Sprintf("%s: %v", op.fallback(), err),
		Err:     fmt.Errorf("%w: %w", ErrInvalidResponse, err),
	}
}
