package extract

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrModelCall wraps any failure returned by the Invoker.
	ErrModelCall = errors.New("model call failed")

	// ErrMissingImage is returned by an image-mode regeneration that has no
	// usable image to resend.
	ErrMissingImage = errors.New("image-mode regeneration without image data")

	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("model returned an empty response")

	// ErrRefused is returned when the model declines to answer.
	ErrRefused = errors.New("model refused the request")
)

// AttemptError records why a single attempt failed.
type AttemptError struct {
	State State
	Err   error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

// ExtractionError summarises a run that ended in the fallback state.
type ExtractionError struct {
	Failures []*AttemptError
	// Cause is set when the run was cut short, e.g. by context cancellation.
	Cause error
}

func (e *ExtractionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "extraction fell back after %d failed attempts", len(e.Failures))
	if e.Cause != nil {
		fmt.Fprintf(&b, " (%v)", e.Cause)
	}
	if n := len(e.Failures); n > 0 {
		fmt.Fprintf(&b, ": last error: %v", e.Failures[n-1])
	}
	return b.String()
}

func (e *ExtractionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	for _, failure := range e.Failures {
		errs = append(errs, failure)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
