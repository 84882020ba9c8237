package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a planning run failed.
type ErrorKind string

const (
	// No matches and no companies: nothing to plan with.
	KindInsufficientData ErrorKind = "InsufficientData"
	// The oracle is not configured or not reachable.
	KindOracleUnavailable ErrorKind = "OracleUnavailable"
	// The oracle call returned a transport or runtime error.
	KindOracleCallFailed ErrorKind = "OracleCallFailed"
	// The oracle's answer is not parseable JSON.
	KindMalformedPlan ErrorKind = "MalformedPlan"
	// The oracle's JSON lacks the required arrays.
	KindInvalidPlanShape ErrorKind = "InvalidPlanShape"
	// A single cargo item could not be placed. Never returned as an error.
	KindItemOverflow ErrorKind = "ItemOverflow"
)

// PlanError terminates a planning run. Detail is a human-readable message;
// Err is the underlying cause, if any.
type PlanError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *PlanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *PlanError) Unwrap() error { return e.Err }

func newPlanError(kind ErrorKind, err error, format string, args ...any) *PlanError {
	return &PlanError{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the ErrorKind of the first PlanError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}
