package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected during program execution.
//
// Runtime errors include:
//   - Pointer underflow: a leftward movement would cross below cell 0
//   - Step quota exceeded: the program ran longer than the configured limit
//
// RuntimeError includes structured fields for diagnostics.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Op names the instruction that failed.
	Op string

	// Step is the step count at the time of failure.
	Step int64

	// Err is the underlying cause, when one exists.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnderflow indicates a movement below cell 0.
	ErrCodeUnderflow RuntimeErrorCode = "POINTER_UNDERFLOW"

	// ErrCodeStepQuota indicates the program exceeded the step limit.
	ErrCodeStepQuota RuntimeErrorCode = "STEP_QUOTA_EXCEEDED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (op=%s, step=%d)", e.Code, e.Message, e.Op, e.Step)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsUnderflowError reports whether err is a pointer underflow.
// Uses errors.As to handle wrapped errors.
func IsUnderflowError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeUnderflow
	}
	return false
}

// IsQuotaError reports whether err is a step quota violation.
// Uses errors.As to handle wrapped errors.
func IsQuotaError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeStepQuota
	}
	return false
}

func newUnderflowError(op string, step int64, cause error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnderflow,
		Message: "cannot move pointer to negative cell",
		Op:      op,
		Step:    step,
		Err:     cause,
	}
}

func newQuotaError(op string, step, maxSteps int64) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeStepQuota,
		Message: fmt.Sprintf("program exceeded max steps (%d >= %d)", step, maxSteps),
		Op:      op,
		Step:    step,
	}
}
