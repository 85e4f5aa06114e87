package cassowary

import (
	"errors"
	"fmt"
)

// The four sentinel errors callers classify failures against with
// errors.Is, per the error-handling design: RequiredFailure and
// NonLinearResult are caller-recoverable, NotEnoughStays is reserved (the
// base algorithm never raises it), and InternalError signals a broken
// invariant that leaves solver state undefined.
var (
	ErrRequiredFailure = errors.New("cassowary: required constraint is unsatisfiable")
	ErrNonLinearResult = errors.New("cassowary: expression arithmetic produced a nonlinear result")
	ErrNotEnoughStays  = errors.New("cassowary: resolve requires more stays than available")
	ErrInternal        = errors.New("cassowary: internal solver invariant violated")
)

// RequiredFailureError wraps ErrRequiredFailure with the constraint that
// could not be satisfied, for caller diagnostics.
type RequiredFailureError struct {
	Constraint Constraint
	reason     string
}

func (e *RequiredFailureError) Error() string {
	return fmt.Sprintf("%v: %s", ErrRequiredFailure, e.reason)
}

func (e *RequiredFailureError) Unwrap() error { return ErrRequiredFailure }

func newRequiredFailureError(c Constraint, reason string) error {
	return &RequiredFailureError{Constraint: c, reason: reason}
}

// NonLinearResultError wraps ErrNonLinearResult with a short explanation of
// which operation produced the nonlinear form.
type NonLinearResultError struct {
	reason string
}

func (e *NonLinearResultError) Error() string {
	return fmt.Sprintf("%v: %s", ErrNonLinearResult, e.reason)
}

func (e *NonLinearResultError) Unwrap() error { return ErrNonLinearResult }

func newNonLinearResultError(reason string) error {
	return &NonLinearResultError{reason: reason}
}

// InternalError wraps ErrInternal with the invariant that was found broken.
// The solver's state is undefined after this error is returned.
type InternalError struct {
	reason string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInternal, e.reason)
}

func (e *InternalError) Unwrap() error { return ErrInternal }

func newInternalError(reason string) error {
	return &InternalError{reason: reason}
}

// NotEnoughStaysError wraps ErrNotEnoughStays. Reserved for API
// completeness; the base algorithm described here never constructs one.
type NotEnoughStaysError struct {
	reason string
}

func (e *NotEnoughStaysError) Error() string {
	return fmt.Sprintf("%v: %s", ErrNotEnoughStays, e.reason)
}

func (e *NotEnoughStaysError) Unwrap() error { return ErrNotEnoughStays }
