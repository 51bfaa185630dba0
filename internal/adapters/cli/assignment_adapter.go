package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/example/shopplan/internal/ports/primary"
)

// AssignmentAdapter is a thin adapter that translates CLI operations to AssignmentService calls.
// It depends only on the AssignmentService interface, enabling easy testing with mocks.
type AssignmentAdapter struct {
	service primary.AssignmentService
	out     io.Writer
}

// NewAssignmentAdapter creates a new AssignmentAdapter with the given service.
func NewAssignmentAdapter(service primary.AssignmentService, out io.Writer) *AssignmentAdapter {
	return &AssignmentAdapter{
		service: service,
		out:     out,
	}
}

// Assign binds a car to a shop for a month and prints any capacity warning.
func (a *AssignmentAdapter) Assign(ctx context.Context, carID, shopID string, period time.Time) (*primary.AssignResponse, error) {
	resp, err := a.service.Assign(ctx, primary.AssignRequest{
		WorkItemID: carID,
		ResourceID: shopID,
		Period:     period,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Assigned %s to %s for %s\n", carID, shopID, resp.Assignment.Period)
	fmt.Fprintf(a.out, "  ID: %s\n", resp.Assignment.ID)
	if resp.Warning != nil {
		fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgYellow).Sprint("⚠"), resp.Warning.Message)
	}

	return resp, nil
}

// Unassign removes an assignment.
func (a *AssignmentAdapter) Unassign(ctx context.Context, assignmentID string) error {
	assignment, err := a.service.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}

	if err := a.service.Unassign(ctx, assignmentID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Removed %s (%s at %s for %s)\n",
		assignment.ID, assignment.WorkItemID, assignment.ResourceID, assignment.Period)
	return nil
}

// List lists assignments with optional filters.
func (a *AssignmentAdapter) List(ctx context.Context, filters primary.AssignmentFilters) ([]*primary.Assignment, error) {
	assignments, err := a.service.ListAssignments(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	if len(assignments) == 0 {
		fmt.Fprintln(a.out, "No assignments found.")
		return assignments, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tCAR\tSHOP\tPERIOD\tCREATED")
	fmt.Fprintln(w, "--\t---\t----\t------\t-------")

	for _, as := range assignments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			as.ID,
			as.WorkItemID,
			as.ResourceID,
			as.Period,
			as.CreatedAt,
		)
	}

	w.Flush()
	return assignments, nil
}

// Undo reverses the most recent mutation.
func (a *AssignmentAdapter) Undo(ctx context.Context) (*primary.HistoryState, error) {
	state, err := a.service.Undo(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(a.out, "✓ Undone")
	a.printState(state)
	return state, nil
}

// Redo reapplies the most recently undone mutation.
func (a *AssignmentAdapter) Redo(ctx context.Context) (*primary.HistoryState, error) {
	state, err := a.service.Redo(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(a.out, "✓ Redone")
	a.printState(state)
	return state, nil
}

// History prints the undo/redo depths.
func (a *AssignmentAdapter) History(ctx context.Context) (*primary.HistoryState, error) {
	state, err := a.service.HistoryState(ctx)
	if err != nil {
		return nil, err
	}
	a.printState(state)
	return state, nil
}

func (a *AssignmentAdapter) printState(state *primary.HistoryState) {
	fmt.Fprintf(a.out, "  undo: %d  redo: %d\n", state.UndoDepth, state.RedoDepth)
}
