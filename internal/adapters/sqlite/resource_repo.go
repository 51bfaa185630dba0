package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/shopplan/internal/core/shoperr"
	"github.com/example/shopplan/internal/ports/secondary"
)

// ResourceRepository implements secondary.ResourceRepository over the shops table.
type ResourceRepository struct {
	db DBTX
}

// NewResourceRepository creates a new SQLite shop repository.
func NewResourceRepository(db DBTX) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func scanResource(scanner interface {
	Scan(dest ...any) error
}) (*secondary.ResourceRecord, error) {
	var createdAt time.Time

	record := &secondary.ResourceRecord{}
	if err := scanner.Scan(&record.ID, &record.Name, &record.Capacity, &createdAt); err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

// Create persists a new shop.
func (r *ResourceRepository) Create(ctx context.Context, resource *secondary.ResourceRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO shops (id, name, capacity) VALUES (?, ?, ?)",
		resource.ID, resource.Name, resource.Capacity,
	)
	if err != nil {
		return fmt.Errorf("failed to create shop: %w", err)
	}
	return nil
}

// GetByID retrieves a shop by its ID.
func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*secondary.ResourceRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, capacity, created_at FROM shops WHERE id = ?",
		id,
	)

	record, err := scanResource(row)
	if err == sql.ErrNoRows {
		return nil, shoperr.NotFound("shop", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	return record, nil
}

// List retrieves all shops ordered by ID.
func (r *ResourceRepository) List(ctx context.Context) ([]*secondary.ResourceRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, capacity, created_at FROM shops ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	defer rows.Close()

	var shops []*secondary.ResourceRecord
	for rows.Next() {
		record, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops = append(shops, record)
	}

	return shops, rows.Err()
}

// Ensure ResourceRepository implements the interface
var _ secondary.ResourceRepository = (*ResourceRepository)(nil)
