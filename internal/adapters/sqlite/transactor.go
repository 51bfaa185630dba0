package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/shopplan/internal/ports/secondary"
)

// Transactor implements secondary.Transactor over a *sql.DB.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a new SQLite transactor.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx runs fn with repositories bound to one transaction. The transaction
// commits when fn returns nil; otherwise it rolls back and fn's error is returned as is.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos secondary.TxRepositories) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	repos := secondary.TxRepositories{
		Assignments: NewAssignmentRepository(tx),
		WorkItems:   NewWorkItemRepository(tx),
		Resources:   NewResourceRepository(tx),
		Log:         NewLogWriterAdapter(NewAuditLogRepository(tx)),
	}

	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ensure Transactor implements the interface
var _ secondary.Transactor = (*Transactor)(nil)
