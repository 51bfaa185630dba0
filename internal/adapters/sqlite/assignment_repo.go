package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/shopplan/internal/core/period"
	"github.com/example/shopplan/internal/core/shoperr"
	"github.com/example/shopplan/internal/ports/secondary"
)

// AssignmentRepository implements secondary.AssignmentRepository with SQLite.
type AssignmentRepository struct {
	db DBTX
}

// NewAssignmentRepository creates a new SQLite assignment repository.
func NewAssignmentRepository(db DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// scanAssignment scans an assignment row into an AssignmentRecord.
func scanAssignment(scanner interface {
	Scan(dest ...any) error
}) (*secondary.AssignmentRecord, error) {
	var periodStr, createdAt string

	record := &secondary.AssignmentRecord{}
	if err := scanner.Scan(&record.ID, &record.WorkItemID, &record.ResourceID, &periodStr, &createdAt); err != nil {
		return nil, err
	}

	p, err := parsePeriod(periodStr)
	if err != nil {
		return nil, err
	}
	ts, err := parseStamp(createdAt)
	if err != nil {
		return nil, err
	}
	record.Period = p
	record.CreatedAt = ts

	return record, nil
}

const assignmentSelectCols = "id, car_id, shop_id, period, created_at"

// Create persists a new assignment. A second assignment for the same car and
// month violates UNIQUE(car_id, period) and is reported as DuplicateAssignment.
func (r *AssignmentRepository) Create(ctx context.Context, a *secondary.AssignmentRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO assignments (id, car_id, shop_id, period, created_at) VALUES (?, ?, ?, ?, ?)",
		a.ID, a.WorkItemID, a.ResourceID, formatPeriod(a.Period), formatStamp(a.CreatedAt),
	)
	if isUniqueViolation(err, "assignments.car_id") {
		return shoperr.DuplicateAssignment(a.WorkItemID, period.Key(a.Period))
	}
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	return nil
}

// GetByID retrieves an assignment by its ID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*secondary.AssignmentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+assignmentSelectCols+" FROM assignments WHERE id = ?",
		id,
	)

	record, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, shoperr.NotFound("assignment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return record, nil
}

// Delete removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return shoperr.NotFound("assignment", id)
	}

	return nil
}

// List retrieves assignments matching the given filters.
func (r *AssignmentRepository) List(ctx context.Context, filters secondary.AssignmentFilters) ([]*secondary.AssignmentRecord, error) {
	query := "SELECT " + assignmentSelectCols + " FROM assignments WHERE 1=1"
	args := []any{}

	if filters.WorkItemID != "" {
		query += " AND car_id = ?"
		args = append(args, filters.WorkItemID)
	}

	if filters.ResourceID != "" {
		query += " AND shop_id = ?"
		args = append(args, filters.ResourceID)
	}

	query, args = appendPeriodRange(query, args, filters.From, filters.To)

	query += " ORDER BY period ASC, shop_id ASC, rowid ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*secondary.AssignmentRecord
	for rows.Next() {
		record, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, record)
	}

	return assignments, rows.Err()
}

// CountByResourcePeriod returns the number of assignments for a shop in a month.
func (r *AssignmentRepository) CountByResourcePeriod(ctx context.Context, resourceID string, p time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM assignments WHERE shop_id = ? AND period = ?",
		resourceID, formatPeriod(period.Normalize(p)),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return count, nil
}

// CountByWorkItem returns the number of assignments a car holds across all months.
func (r *AssignmentRepository) CountByWorkItem(ctx context.Context, workItemID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM assignments WHERE car_id = ?",
		workItemID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count car assignments: %w", err)
	}
	return count, nil
}

// Tallies returns per-(shop, month) counts in one grouped query. Months keep
// the order in which their first assignment was inserted.
func (r *AssignmentRepository) Tallies(ctx context.Context, filters secondary.TallyFilters) ([]*secondary.TallyRecord, error) {
	query := "SELECT shop_id, period, COUNT(*), MIN(rowid) AS first_seen FROM assignments WHERE 1=1"
	args := []any{}

	if len(filters.ResourceIDs) > 0 {
		query += " AND shop_id IN (?" + strings.Repeat(", ?", len(filters.ResourceIDs)-1) + ")"
		for _, id := range filters.ResourceIDs {
			args = append(args, id)
		}
	}

	query, args = appendPeriodRange(query, args, filters.From, filters.To)

	query += " GROUP BY shop_id, period ORDER BY shop_id ASC, first_seen ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to tally assignments: %w", err)
	}
	defer rows.Close()

	var tallies []*secondary.TallyRecord
	for rows.Next() {
		var (
			periodStr string
			firstSeen int64
		)
		record := &secondary.TallyRecord{}
		if err := rows.Scan(&record.ResourceID, &periodStr, &record.Count, &firstSeen); err != nil {
			return nil, fmt.Errorf("failed to scan tally: %w", err)
		}
		if record.Period, err = parsePeriod(periodStr); err != nil {
			return nil, err
		}
		tallies = append(tallies, record)
	}

	return tallies, rows.Err()
}

func appendPeriodRange(query string, args []any, from, to time.Time) (string, []any) {
	if !from.IsZero() {
		query += " AND period >= ?"
		args = append(args, formatPeriod(period.Normalize(from)))
	}
	if !to.IsZero() {
		query += " AND period <= ?"
		args = append(args, formatPeriod(period.Normalize(to)))
	}
	return query, args
}

// Ensure AssignmentRepository implements the interface
var _ secondary.AssignmentRepository = (*AssignmentRepository)(nil)
