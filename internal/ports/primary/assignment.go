package primary

import (
	"context"
	"time"
)

// AssignmentService defines the primary port for assignment operations and
// their undo/redo history.
type AssignmentService interface {
	// Assign binds a car to a shop for a month.
	Assign(ctx context.Context, req AssignRequest) (*AssignResponse, error)

	// AssignBatch assigns every entry in one transaction (all-or-nothing).
	AssignBatch(ctx context.Context, req AssignBatchRequest) (*AssignBatchResponse, error)

	// Unassign removes an assignment.
	Unassign(ctx context.Context, assignmentID string) error

	// Undo reverses the most recent recorded mutation.
	Undo(ctx context.Context) (*HistoryState, error)

	// Redo reapplies the most recently undone mutation.
	Redo(ctx context.Context) (*HistoryState, error)

	// HistoryState reports the undo/redo depths.
	HistoryState(ctx context.Context) (*HistoryState, error)

	// GetAssignment retrieves an assignment by ID.
	GetAssignment(ctx context.Context, assignmentID string) (*Assignment, error)

	// ListAssignments lists assignments with optional filters.
	ListAssignments(ctx context.Context, filters AssignmentFilters) ([]*Assignment, error)
}

// AssignRequest contains parameters for assigning a car.
type AssignRequest struct {
	WorkItemID string    `json:"work_item_id"`
	ResourceID string    `json:"resource_id"`
	Period     time.Time `json:"period"` // normalized to the first day of the month
}

// AssignResponse contains the result of an assignment.
type AssignResponse struct {
	Assignment *Assignment      `json:"assignment"`
	Warning    *CapacityWarning `json:"warning,omitempty"`
}

// AssignBatchRequest contains parameters for an atomic multi-assignment.
type AssignBatchRequest struct {
	Entries []AssignRequest
	// SkipDuplicates treats entries whose car already holds the month as done.
	SkipDuplicates bool
}

// AssignBatchResponse contains the result of a batch assignment.
type AssignBatchResponse struct {
	Created  []*Assignment
	Skipped  int
	Warnings []*CapacityWarning
}

// CapacityWarning flags an assignment that pushed a shop over capacity.
// It never blocks the assignment.
type CapacityWarning struct {
	ResourceID         string  `json:"resource_id"`
	Period             string  `json:"period"`
	Assigned           int     `json:"assigned"`
	Capacity           int     `json:"capacity"`
	UtilizationPercent float64 `json:"utilization_percent"`
	Message            string  `json:"message"`
}

// HistoryState is the read-only view of the undo/redo log.
type HistoryState struct {
	UndoDepth int  `json:"undo_depth"`
	RedoDepth int  `json:"redo_depth"`
	CanUndo   bool `json:"can_undo"`
	CanRedo   bool `json:"can_redo"`
}

// Assignment represents an assignment at the port boundary.
type Assignment struct {
	ID         string `json:"id"`
	WorkItemID string `json:"work_item_id"`
	ResourceID string `json:"resource_id"`
	Period     string `json:"period"` // YYYY-MM
	CreatedAt  string `json:"created_at"`
}

// AssignmentFilters contains filter options for listing assignments.
type AssignmentFilters struct {
	WorkItemID string
	ResourceID string
	Period     time.Time // zero means any month
}
