package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/shopplan/internal/core/shoperr"
	"github.com/example/shopplan/internal/ports/secondary"
)

// ScenarioRepository implements secondary.ScenarioRepository with SQLite.
type ScenarioRepository struct {
	db *sql.DB
}

// NewScenarioRepository creates a new SQLite scenario repository.
func NewScenarioRepository(db *sql.DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

func (r *ScenarioRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Create persists a new scenario plan together with any entries it carries.
func (r *ScenarioRepository) Create(ctx context.Context, s *secondary.ScenarioRecord) error {
	var desc sql.NullString
	if s.Description != "" {
		desc = sql.NullString{String: s.Description, Valid: true}
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO scenarios (id, name, description) VALUES (?, ?, ?)",
			s.ID, s.Name, desc,
		)
		if err != nil {
			return fmt.Errorf("failed to create scenario: %w", err)
		}
		return insertEntries(ctx, tx, s.ID, 0, s.Entries)
	})
}

func insertEntries(ctx context.Context, tx *sql.Tx, scenarioID string, start int, entries []secondary.ScenarioEntryRecord) error {
	for i, e := range entries {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO scenario_entries (scenario_id, position, car_id, shop_id, period) VALUES (?, ?, ?, ?, ?)",
			scenarioID, start+i, e.WorkItemID, e.ResourceID, formatPeriod(e.Period),
		)
		if err != nil {
			return fmt.Errorf("failed to add scenario entry %d: %w", start+i, err)
		}
	}
	return nil
}

// GetByID retrieves a scenario plan with its entries in position order.
func (r *ScenarioRepository) GetByID(ctx context.Context, id string) (*secondary.ScenarioRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at, updated_at, last_applied_at FROM scenarios WHERE id = ?",
		id,
	)
	record, err := scanScenario(row)
	if err == sql.ErrNoRows {
		return nil, shoperr.NotFound("scenario", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT car_id, shop_id, period FROM scenario_entries WHERE scenario_id = ? ORDER BY position ASC",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenario entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e         secondary.ScenarioEntryRecord
			periodStr string
		)
		if err := rows.Scan(&e.WorkItemID, &e.ResourceID, &periodStr); err != nil {
			return nil, fmt.Errorf("failed to scan scenario entry: %w", err)
		}
		if e.Period, err = parsePeriod(periodStr); err != nil {
			return nil, err
		}
		record.Entries = append(record.Entries, e)
	}

	return record, rows.Err()
}

func scanScenario(scanner interface {
	Scan(dest ...any) error
}) (*secondary.ScenarioRecord, error) {
	var (
		desc          sql.NullString
		createdAt     time.Time
		updatedAt     time.Time
		lastAppliedAt sql.NullTime
	)

	record := &secondary.ScenarioRecord{}
	if err := scanner.Scan(&record.ID, &record.Name, &desc, &createdAt, &updatedAt, &lastAppliedAt); err != nil {
		return nil, err
	}

	record.Description = desc.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	if lastAppliedAt.Valid {
		record.LastAppliedAt = lastAppliedAt.Time.UTC().Format(time.RFC3339)
	}

	return record, nil
}

// List retrieves all scenario plans without entries.
func (r *ScenarioRepository) List(ctx context.Context) ([]*secondary.ScenarioRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, description, created_at, updated_at, last_applied_at FROM scenarios ORDER BY created_at ASC, id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []*secondary.ScenarioRecord
	for rows.Next() {
		record, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		scenarios = append(scenarios, record)
	}

	return scenarios, rows.Err()
}

// Delete removes a scenario plan and its entries.
func (r *ScenarioRepository) Delete(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM scenario_entries WHERE scenario_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete scenario entries: %w", err)
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete scenario: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return shoperr.NotFound("scenario", id)
		}
		return nil
	})
}

// AddEntries appends proposed entries after the current last position.
func (r *ScenarioRepository) AddEntries(ctx context.Context, scenarioID string, entries []secondary.ScenarioEntryRecord) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := touchScenario(ctx, tx, scenarioID); err != nil {
			return err
		}

		var next int
		err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position) + 1, 0) FROM scenario_entries WHERE scenario_id = ?",
			scenarioID,
		).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to get next entry position: %w", err)
		}

		return insertEntries(ctx, tx, scenarioID, next, entries)
	})
}

// RemoveEntry removes the entry at position and closes the gap so positions stay contiguous.
func (r *ScenarioRepository) RemoveEntry(ctx context.Context, scenarioID string, position int) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := touchScenario(ctx, tx, scenarioID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			"DELETE FROM scenario_entries WHERE scenario_id = ? AND position = ?",
			scenarioID, position,
		)
		if err != nil {
			return fmt.Errorf("failed to remove scenario entry: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return shoperr.NotFound("scenario entry", fmt.Sprintf("%s#%d", scenarioID, position))
		}

		// Shift through negative positions to keep the primary key unique mid-update.
		if _, err := tx.ExecContext(ctx,
			"UPDATE scenario_entries SET position = -position WHERE scenario_id = ? AND position > ?",
			scenarioID, position,
		); err != nil {
			return fmt.Errorf("failed to renumber scenario entries: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE scenario_entries SET position = -position - 1 WHERE scenario_id = ? AND position < 0",
			scenarioID,
		); err != nil {
			return fmt.Errorf("failed to renumber scenario entries: %w", err)
		}
		return nil
	})
}

// MarkApplied records when the plan was last applied.
func (r *ScenarioRepository) MarkApplied(ctx context.Context, scenarioID string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE scenarios SET last_applied_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		at.UTC(), scenarioID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark scenario applied: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return shoperr.NotFound("scenario", scenarioID)
	}
	return nil
}

func touchScenario(ctx context.Context, tx *sql.Tx, scenarioID string) error {
	result, err := tx.ExecContext(ctx,
		"UPDATE scenarios SET updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		scenarioID,
	)
	if err != nil {
		return fmt.Errorf("failed to update scenario: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return shoperr.NotFound("scenario", scenarioID)
	}
	return nil
}

// Ensure ScenarioRepository implements the interface
var _ secondary.ScenarioRepository = (*ScenarioRepository)(nil)
