package app

import (
	"context"
	"fmt"

	"github.com/example/shopplan/internal/core/period"
	"github.com/example/shopplan/internal/ports/primary"
	"github.com/example/shopplan/internal/ports/secondary"
)

// LogServiceImpl implements the LogService interface.
type LogServiceImpl struct {
	logRepo secondary.AuditLogRepository
}

// NewLogService creates a new LogService with injected dependencies.
func NewLogService(logRepo secondary.AuditLogRepository) *LogServiceImpl {
	return &LogServiceImpl{
		logRepo: logRepo,
	}
}

// ListLogs retrieves booking changes matching the given filters. The month
// filter accepts any form period.Parse does.
func (s *LogServiceImpl) ListLogs(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error) {
	repoFilters := secondary.AuditLogFilters{
		WorkItemID: filters.WorkItemID,
		ResourceID: filters.ResourceID,
		ActorID:    filters.ActorID,
		Subject:    filters.Subject,
		Limit:      filters.Limit,
	}

	switch filters.Action {
	case "", secondary.AuditAssign, secondary.AuditUnassign, secondary.AuditStatus:
		repoFilters.Action = filters.Action
	default:
		return nil, fmt.Errorf("unknown log action %q (want assign, unassign or status)", filters.Action)
	}

	if filters.Period != "" {
		p, err := period.Parse(filters.Period)
		if err != nil {
			return nil, err
		}
		repoFilters.Period = period.Key(p)
	}

	records, err := s.logRepo.List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	entries := make([]*primary.LogEntry, len(records))
	for i, r := range records {
		entries[i] = recordToLogEntry(r)
	}
	return entries, nil
}

// PruneLogs deletes log entries older than the given number of days.
func (s *LogServiceImpl) PruneLogs(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays <= 0 {
		return 0, fmt.Errorf("days must be positive, got %d", olderThanDays)
	}
	return s.logRepo.PruneOlderThan(ctx, olderThanDays)
}

func recordToLogEntry(r *secondary.AuditLogRecord) *primary.LogEntry {
	return &primary.LogEntry{
		ID:           r.ID,
		Timestamp:    r.Timestamp,
		ActorID:      r.ActorID,
		Action:       r.Action,
		WorkItemID:   r.WorkItemID,
		ResourceID:   r.ResourceID,
		Period:       r.Period,
		AssignmentID: r.AssignmentID,
		OldStatus:    r.OldStatus,
		NewStatus:    r.NewStatus,
	}
}

var _ primary.LogService = (*LogServiceImpl)(nil)
