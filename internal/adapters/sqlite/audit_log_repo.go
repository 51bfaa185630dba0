package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/shopplan/internal/ports/secondary"
)

// AuditLogRepository implements secondary.AuditLogRepository with SQLite.
type AuditLogRepository struct {
	db DBTX
}

// NewAuditLogRepository creates a new SQLite audit log repository.
func NewAuditLogRepository(db DBTX) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

const auditColumns = "id, timestamp, actor_id, action, car_id, shop_id, period, assignment_id, old_status, new_status"

// Create persists a new audit log entry.
func (r *AuditLogRepository) Create(ctx context.Context, log *secondary.AuditLogRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, actor_id, action, car_id, shop_id, period, assignment_id, old_status, new_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		nullable(log.ActorID),
		log.Action,
		log.WorkItemID,
		nullable(log.ResourceID),
		nullable(log.Period),
		nullable(log.AssignmentID),
		nullable(log.OldStatus),
		nullable(log.NewStatus),
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// List retrieves log entries matching the given filters, newest first.
func (r *AuditLogRepository) List(ctx context.Context, filters secondary.AuditLogFilters) ([]*secondary.AuditLogRecord, error) {
	var where []string
	var args []any
	add := func(clause string, vals ...any) {
		where = append(where, clause)
		args = append(args, vals...)
	}

	if filters.WorkItemID != "" {
		add("car_id = ?", filters.WorkItemID)
	}
	if filters.ResourceID != "" {
		add("shop_id = ?", filters.ResourceID)
	}
	if filters.Period != "" {
		add("period = ?", filters.Period)
	}
	if filters.ActorID != "" {
		add("actor_id = ?", filters.ActorID)
	}
	if filters.Action != "" {
		add("action = ?", filters.Action)
	}
	if filters.Subject != "" {
		add("(car_id = ? OR shop_id = ? OR assignment_id = ?)", filters.Subject, filters.Subject, filters.Subject)
	}

	query := "SELECT " + auditColumns + " FROM audit_logs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []*secondary.AuditLogRecord
	for rows.Next() {
		var (
			timestamp            time.Time
			actorID, shopID      sql.NullString
			period, assignmentID sql.NullString
			oldStatus, newStatus sql.NullString
		)
		record := &secondary.AuditLogRecord{}
		if err := rows.Scan(&record.ID, &timestamp, &actorID, &record.Action, &record.WorkItemID,
			&shopID, &period, &assignmentID, &oldStatus, &newStatus); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		record.Timestamp = timestamp.Format(time.RFC3339)
		record.ActorID = actorID.String
		record.ResourceID = shopID.String
		record.Period = period.String
		record.AssignmentID = assignmentID.String
		record.OldStatus = oldStatus.String
		record.NewStatus = newStatus.String

		logs = append(logs, record)
	}

	return logs, rows.Err()
}

// GetNextID returns the next available log ID.
func (r *AuditLogRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 4) AS INTEGER)), 0) FROM audit_logs",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next audit log ID: %w", err)
	}

	return fmt.Sprintf("AL-%04d", maxID+1), nil
}

// PruneOlderThan deletes log entries older than the given number of days.
func (r *AuditLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM audit_logs WHERE timestamp < datetime('now', ?)",
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit logs: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ secondary.AuditLogRepository = (*AuditLogRepository)(nil)
