// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"

	"github.com/example/shopplan/internal/core/history"
)

// AssignmentRepository defines the secondary port for committed assignments.
type AssignmentRepository interface {
	// Create persists a new assignment. The store enforces one assignment per
	// (work item, period) and reports a conflict as a DuplicateAssignment error.
	Create(ctx context.Context, assignment *AssignmentRecord) error

	// GetByID retrieves an assignment by its ID.
	GetByID(ctx context.Context, id string) (*AssignmentRecord, error)

	// Delete removes an assignment.
	Delete(ctx context.Context, id string) error

	// List retrieves assignments matching the given filters.
	List(ctx context.Context, filters AssignmentFilters) ([]*AssignmentRecord, error)

	// CountByResourcePeriod returns the number of assignments for a shop in a month.
	CountByResourcePeriod(ctx context.Context, resourceID string, period time.Time) (int, error)

	// CountByWorkItem returns the number of assignments a car holds across all months.
	CountByWorkItem(ctx context.Context, workItemID string) (int, error)

	// Tallies returns per-(shop, month) counts in one query.
	// Rows are grouped by shop; months keep first-insertion order within a shop.
	Tallies(ctx context.Context, filters TallyFilters) ([]*TallyRecord, error)
}

// AssignmentRecord represents an assignment as stored in persistence.
type AssignmentRecord struct {
	ID         string
	WorkItemID string
	ResourceID string
	Period     time.Time // first day of month, UTC
	CreatedAt  time.Time
}

// AssignmentFilters contains filter options for listing assignments.
// Zero values are ignored.
type AssignmentFilters struct {
	WorkItemID string
	ResourceID string
	From       time.Time
	To         time.Time
}

// TallyRecord is an aggregated assignment count.
type TallyRecord struct {
	ResourceID string
	Period     time.Time
	Count      int
}

// TallyFilters narrows a tally query. Zero values are ignored.
type TallyFilters struct {
	ResourceIDs []string
	From        time.Time
	To          time.Time
}

// WorkItemRepository is the registry port for cars.
type WorkItemRepository interface {
	// Create persists a new car.
	Create(ctx context.Context, item *WorkItemRecord) error

	// GetByID retrieves a car by its ID.
	GetByID(ctx context.Context, id string) (*WorkItemRecord, error)

	// List retrieves cars, optionally filtered by status.
	List(ctx context.Context, status string) ([]*WorkItemRecord, error)

	// Exists checks if a car exists.
	Exists(ctx context.Context, id string) (bool, error)

	// SetStatus rewrites a car's status.
	SetStatus(ctx context.Context, id, status string) error
}

// WorkItemRecord represents a car as stored in persistence.
type WorkItemRecord struct {
	ID        string
	Name      string
	Status    string
	Priority  string
	CreatedAt string
	UpdatedAt string
}

// ResourceRepository is the registry port for shops.
type ResourceRepository interface {
	// Create persists a new shop.
	Create(ctx context.Context, resource *ResourceRecord) error

	// GetByID retrieves a shop by its ID.
	GetByID(ctx context.Context, id string) (*ResourceRecord, error)

	// List retrieves all shops ordered by ID.
	List(ctx context.Context) ([]*ResourceRecord, error)
}

// ResourceRecord represents a shop as stored in persistence.
type ResourceRecord struct {
	ID        string
	Name      string
	Capacity  int
	CreatedAt string
}

// ScenarioRepository defines the secondary port for scenario plans.
type ScenarioRepository interface {
	// Create persists a new scenario plan with any initial entries.
	Create(ctx context.Context, scenario *ScenarioRecord) error

	// GetByID retrieves a scenario plan with its entries in position order.
	GetByID(ctx context.Context, id string) (*ScenarioRecord, error)

	// List retrieves all scenario plans without entries.
	List(ctx context.Context) ([]*ScenarioRecord, error)

	// Delete removes a scenario plan and its entries.
	Delete(ctx context.Context, id string) error

	// AddEntries appends proposed entries to a plan.
	AddEntries(ctx context.Context, scenarioID string, entries []ScenarioEntryRecord) error

	// RemoveEntry removes the entry at the given zero-based position.
	RemoveEntry(ctx context.Context, scenarioID string, position int) error

	// MarkApplied records when the plan was last applied.
	MarkApplied(ctx context.Context, scenarioID string, at time.Time) error
}

// ScenarioRecord represents a scenario plan as stored in persistence.
type ScenarioRecord struct {
	ID            string
	Name          string
	Description   string
	Entries       []ScenarioEntryRecord
	CreatedAt     string
	UpdatedAt     string
	LastAppliedAt string
}

// ScenarioEntryRecord is one proposed assignment of a plan.
type ScenarioEntryRecord struct {
	WorkItemID string
	ResourceID string
	Period     time.Time
}

// AuditLogRepository defines the secondary port for the audit trail.
type AuditLogRepository interface {
	// Create persists a new log entry.
	Create(ctx context.Context, log *AuditLogRecord) error

	// List retrieves log entries matching the given filters, newest first.
	List(ctx context.Context, filters AuditLogFilters) ([]*AuditLogRecord, error)

	// PruneOlderThan deletes log entries older than the given number of days.
	// Returns the number of deleted entries.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// AuditLogRecord is one booking change as stored in persistence.
// Empty strings are stored as null.
type AuditLogRecord struct {
	ID           string
	Timestamp    string
	ActorID      string
	Action       string // AuditAssign, AuditUnassign or AuditStatus
	WorkItemID   string
	ResourceID   string // bookings only
	Period       string // YYYY-MM, bookings only
	AssignmentID string // bookings only
	OldStatus    string // status moves only
	NewStatus    string // status moves only
}

// AuditLogFilters contains filter options for querying logs.
// Zero values are ignored.
type AuditLogFilters struct {
	WorkItemID string
	ResourceID string
	Period     string // YYYY-MM
	ActorID    string
	Action     string
	Subject    string // matches a car, shop or assignment ID
	Limit      int
}

// HistoryStore persists an undo/redo log per session.
type HistoryStore interface {
	// Load returns the stored log for session, or nil when none was saved.
	Load(ctx context.Context, session string) (*history.Dump, error)

	// Save replaces the stored log for session.
	Save(ctx context.Context, session string, dump history.Dump) error
}

// TxRepositories are repositories bound to one transaction.
type TxRepositories struct {
	Assignments AssignmentRepository
	WorkItems   WorkItemRepository
	Resources   ResourceRepository
	Log         LogWriter
}

// Transactor runs a unit of work atomically.
type Transactor interface {
	// WithinTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise; fn's error is returned unchanged.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
