package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/shopplan/internal/core/shoperr"
	"github.com/example/shopplan/internal/ports/secondary"
)

// WorkItemRepository implements secondary.WorkItemRepository over the cars table.
type WorkItemRepository struct {
	db DBTX
}

// NewWorkItemRepository creates a new SQLite car repository.
func NewWorkItemRepository(db DBTX) *WorkItemRepository {
	return &WorkItemRepository{db: db}
}

func scanWorkItem(scanner interface {
	Scan(dest ...any) error
}) (*secondary.WorkItemRecord, error) {
	var (
		name      sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.WorkItemRecord{}
	if err := scanner.Scan(&record.ID, &name, &record.Status, &record.Priority, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	record.Name = name.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

const workItemSelectCols = "id, name, status, priority, created_at, updated_at"

// Create persists a new car. Empty status and priority take the table defaults.
func (r *WorkItemRepository) Create(ctx context.Context, item *secondary.WorkItemRecord) error {
	var name sql.NullString
	if item.Name != "" {
		name = sql.NullString{String: item.Name, Valid: true}
	}
	status := item.Status
	if status == "" {
		status = "unassigned"
	}
	priority := item.Priority
	if priority == "" {
		priority = "medium"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO cars (id, name, status, priority) VALUES (?, ?, ?, ?)",
		item.ID, name, status, priority,
	)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}

	return nil
}

// GetByID retrieves a car by its ID.
func (r *WorkItemRepository) GetByID(ctx context.Context, id string) (*secondary.WorkItemRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+workItemSelectCols+" FROM cars WHERE id = ?",
		id,
	)

	record, err := scanWorkItem(row)
	if err == sql.ErrNoRows {
		return nil, shoperr.NotFound("car", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get car: %w", err)
	}

	return record, nil
}

// List retrieves cars, optionally filtered by status, highest priority first.
func (r *WorkItemRepository) List(ctx context.Context, status string) ([]*secondary.WorkItemRecord, error) {
	query := "SELECT " + workItemSelectCols + " FROM cars WHERE 1=1"
	args := []any{}

	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += ` ORDER BY CASE priority
		WHEN 'critical' THEN 0
		WHEN 'high' THEN 1
		WHEN 'medium' THEN 2
		ELSE 3 END, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer rows.Close()

	var items []*secondary.WorkItemRecord
	for rows.Next() {
		record, err := scanWorkItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car: %w", err)
		}
		items = append(items, record)
	}

	return items, rows.Err()
}

// Exists checks if a car exists.
func (r *WorkItemRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cars WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check car existence: %w", err)
	}
	return count > 0, nil
}

// SetStatus rewrites a car's status.
func (r *WorkItemRepository) SetStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE cars SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update car status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return shoperr.NotFound("car", id)
	}

	return nil
}

// Ensure WorkItemRepository implements the interface
var _ secondary.WorkItemRepository = (*WorkItemRepository)(nil)
