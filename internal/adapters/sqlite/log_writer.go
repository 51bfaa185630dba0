package sqlite

import (
	"context"

	"github.com/example/shopplan/internal/core/period"
	"github.com/example/shopplan/internal/ctxutil"
	"github.com/example/shopplan/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter on top of AuditLogRepository.
type LogWriterAdapter struct {
	logRepo *AuditLogRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(logRepo *AuditLogRepository) *LogWriterAdapter {
	return &LogWriterAdapter{logRepo: logRepo}
}

// LogAssigned records a new booking.
func (w *LogWriterAdapter) LogAssigned(ctx context.Context, a *secondary.AssignmentRecord) error {
	return w.write(ctx, bookingEntry(secondary.AuditAssign, a))
}

// LogUnassigned records a removed booking.
func (w *LogWriterAdapter) LogUnassigned(ctx context.Context, a *secondary.AssignmentRecord) error {
	return w.write(ctx, bookingEntry(secondary.AuditUnassign, a))
}

// LogStatusChange records a car status move.
func (w *LogWriterAdapter) LogStatusChange(ctx context.Context, carID, oldStatus, newStatus string) error {
	return w.write(ctx, &secondary.AuditLogRecord{
		Action:     secondary.AuditStatus,
		WorkItemID: carID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
	})
}

func bookingEntry(action string, a *secondary.AssignmentRecord) *secondary.AuditLogRecord {
	return &secondary.AuditLogRecord{
		Action:       action,
		WorkItemID:   a.WorkItemID,
		ResourceID:   a.ResourceID,
		Period:       period.Key(a.Period),
		AssignmentID: a.ID,
	}
}

func (w *LogWriterAdapter) write(ctx context.Context, record *secondary.AuditLogRecord) error {
	id, err := w.logRepo.GetNextID(ctx)
	if err != nil {
		return err
	}
	record.ID = id
	record.ActorID = ctxutil.ActorFromContext(ctx)
	return w.logRepo.Create(ctx, record)
}

var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
