package secondary

import "context"

// Audit actions stored in audit_logs.action.
const (
	AuditAssign   = "assign"
	AuditUnassign = "unassign"
	AuditStatus   = "status"
)

// LogWriter appends audit entries inside the caller's transaction.
// The actor is read from the context (see ctxutil).
type LogWriter interface {
	// LogAssigned records that a car was booked into a shop for a month.
	LogAssigned(ctx context.Context, a *AssignmentRecord) error

	// LogUnassigned records that a booking was removed.
	LogUnassigned(ctx context.Context, a *AssignmentRecord) error

	// LogStatusChange records a car status move.
	LogStatusChange(ctx context.Context, carID, oldStatus, newStatus string) error
}
