// Package shoperr defines the typed failures surfaced by the planning core.
// This package has no internal dependencies so adapters and services can share it.
package shoperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers and transport adapters.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindDuplicateAssignment Kind = "duplicate_assignment"
	KindEmptyHistory        Kind = "empty_history"
	KindInvalidScenarioData Kind = "invalid_scenario_data"
	KindInternal            Kind = "internal"
)

// Error is the unified error type for planning operations.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same Kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == string(t.Kind))
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound            = &Error{Kind: KindNotFound, Message: string(KindNotFound)}
	ErrDuplicateAssignment = &Error{Kind: KindDuplicateAssignment, Message: string(KindDuplicateAssignment)}
	ErrEmptyHistory        = &Error{Kind: KindEmptyHistory, Message: string(KindEmptyHistory)}
	ErrInvalidScenarioData = &Error{Kind: KindInvalidScenarioData, Message: string(KindInvalidScenarioData)}
)

// NotFound builds a NotFound error for the given entity.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// DuplicateAssignment builds a DuplicateAssignment error for a car and month.
func DuplicateAssignment(workItemID, period string) *Error {
	return &Error{
		Kind:    KindDuplicateAssignment,
		Message: fmt.Sprintf("car %s already has an assignment for %s", workItemID, period),
	}
}

// EmptyHistory builds an EmptyHistory error for the named stack.
func EmptyHistory(stack string) *Error {
	return &Error{Kind: KindEmptyHistory, Message: fmt.Sprintf("nothing to %s", stack)}
}

// InvalidScenarioData builds an InvalidScenarioData error.
func InvalidScenarioData(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidScenarioData, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
