// Package assignment contains the pure business logic for assignment operations.
// Guards are pure functions that evaluate preconditions without side effects.
package assignment

import (
	"fmt"

	"github.com/example/shopplan/internal/core/shoperr"
)

// Car status values written by the planner.
const (
	StatusUnassigned = "unassigned"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    shoperr.Kind
	Reason  string
}

// Error converts the guard result to a typed error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &shoperr.Error{Kind: r.Kind, Message: r.Reason}
}

// AssignContext provides context for assignment creation guards.
type AssignContext struct {
	WorkItemID     string
	WorkItemExists bool
	ResourceID     string
	ResourceExists bool
}

// CanAssign evaluates whether a car can be assigned to a shop.
// Rules:
// - Car must exist
// - Shop must exist
func CanAssign(ctx AssignContext) GuardResult {
	if !ctx.WorkItemExists {
		return GuardResult{
			Kind:   shoperr.KindNotFound,
			Reason: fmt.Sprintf("car %s not found", ctx.WorkItemID),
		}
	}

	if !ctx.ResourceExists {
		return GuardResult{
			Kind:   shoperr.KindNotFound,
			Reason: fmt.Sprintf("shop %s not found", ctx.ResourceID),
		}
	}

	return GuardResult{Allowed: true}
}

// StatusAfterAssign returns the car status after any successful assignment.
// It is unconditional: an in_progress car assigned to another month becomes assigned.
func StatusAfterAssign() string {
	return StatusAssigned
}

// StatusAfterRemoval returns the status a car should take once one of its
// assignments is removed, or "" when the status must stay as it is.
// A single status covers every month, so a car still holding any assignment keeps its status.
func StatusAfterRemoval(remaining int) string {
	if remaining == 0 {
		return StatusUnassigned
	}
	return ""
}
