package primary

import "context"

// LogService defines the primary port for the booking audit trail.
type LogService interface {
	// ListLogs retrieves log entries matching the given filters, newest first.
	ListLogs(ctx context.Context, filters LogFilters) ([]*LogEntry, error)

	// PruneLogs deletes log entries older than the given number of days.
	PruneLogs(ctx context.Context, olderThanDays int) (int, error)
}

// LogEntry is one booking change: a car booked into or removed from a shop
// for a month, or a car status move.
type LogEntry struct {
	ID           string
	Timestamp    string
	ActorID      string
	Action       string // "assign", "unassign" or "status"
	WorkItemID   string
	ResourceID   string
	Period       string // YYYY-MM
	AssignmentID string
	OldStatus    string
	NewStatus    string
}

// LogFilters narrows ListLogs. Zero values are ignored.
type LogFilters struct {
	WorkItemID string
	ResourceID string
	Period     string // any form period.Parse accepts
	ActorID    string
	Action     string
	Subject    string // a car, shop or assignment ID
	Limit      int
}
