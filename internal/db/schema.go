package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(). If repository code references a column that
// doesn't exist here, tests fail immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `make test` to verify alignment
const SchemaSQL = `
-- Shops (capacity-bounded resources, one capacity per month)
CREATE TABLE IF NOT EXISTS shops (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	capacity INTEGER NOT NULL CHECK(capacity > 0),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Cars (work items)
CREATE TABLE IF NOT EXISTS cars (
	id TEXT PRIMARY KEY,
	name TEXT,
	status TEXT NOT NULL CHECK(status IN ('unassigned', 'assigned', 'in_progress', 'completed')) DEFAULT 'unassigned',
	priority TEXT NOT NULL CHECK(priority IN ('critical', 'high', 'medium', 'low')) DEFAULT 'medium',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Assignments (one car, one shop, one month)
-- period is the first day of the month (YYYY-MM-01); created_at is RFC3339 with nanoseconds.
CREATE TABLE IF NOT EXISTS assignments (
	id TEXT PRIMARY KEY,
	car_id TEXT NOT NULL,
	shop_id TEXT NOT NULL,
	period TEXT NOT NULL,
	created_at TEXT NOT NULL,
	FOREIGN KEY (car_id) REFERENCES cars(id),
	FOREIGN KEY (shop_id) REFERENCES shops(id),
	UNIQUE(car_id, period)
);

CREATE INDEX IF NOT EXISTS idx_assignments_shop_period ON assignments(shop_id, period);
CREATE INDEX IF NOT EXISTS idx_assignments_car ON assignments(car_id);

-- Scenarios (named, uncommitted assignment plans)
CREATE TABLE IF NOT EXISTS scenarios (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	last_applied_at DATETIME
);

CREATE TABLE IF NOT EXISTS scenario_entries (
	scenario_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	car_id TEXT NOT NULL,
	shop_id TEXT NOT NULL,
	period TEXT NOT NULL,
	PRIMARY KEY (scenario_id, position),
	FOREIGN KEY (scenario_id) REFERENCES scenarios(id) ON DELETE CASCADE
);

-- Audit logs (who booked, removed or moved which car)
-- period is the month key (YYYY-MM); shop_id, period and assignment_id are null for status moves.
CREATE TABLE IF NOT EXISTS audit_logs (
	id TEXT PRIMARY KEY,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
	actor_id TEXT,
	action TEXT NOT NULL CHECK(action IN ('assign', 'unassign', 'status')),
	car_id TEXT NOT NULL,
	shop_id TEXT,
	period TEXT,
	assignment_id TEXT,
	old_status TEXT,
	new_status TEXT
);

CREATE INDEX IF NOT EXISTS idx_audit_logs_car ON audit_logs(car_id);
CREATE INDEX IF NOT EXISTS idx_audit_logs_shop_period ON audit_logs(shop_id, period);
CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs(timestamp);

-- History logs (persisted undo/redo log per session)
CREATE TABLE IF NOT EXISTS history_logs (
	session TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// InitSchema creates the database schema
func InitSchema(db *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		// schema_version table exists - run any pending migrations
		return RunMigrations(db)
	}

	var existing int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = 'assignments'").Scan(&existing)
	if err != nil {
		return err
	}
	if existing > 0 {
		// Tables predate version tracking - migrate from the beginning
		return RunMigrations(db)
	}

	// Completely fresh install - create the current schema directly
	if _, err := db.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := ensureVersionTable(db); err != nil {
		return err
	}
	// Mark all migrations as applied for fresh installs
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
