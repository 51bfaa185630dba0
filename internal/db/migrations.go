package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_planner_tables",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_history_logs_table",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_last_applied_at_to_scenarios",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "reshape_audit_logs_for_assignments",
		Up:      migrationV4,
	},
}

func ensureVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// LatestVersion returns the version of the newest known migration.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// RunMigrations executes all pending migrations
func RunMigrations(db *sql.DB) error {
	if err := ensureVersionTable(db); err != nil {
		return err
	}

	currentVersion, err := CurrentVersion(db)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS shops (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			capacity INTEGER NOT NULL CHECK(capacity > 0),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS cars (
			id TEXT PRIMARY KEY,
			name TEXT,
			status TEXT NOT NULL CHECK(status IN ('unassigned', 'assigned', 'in_progress', 'completed')) DEFAULT 'unassigned',
			priority TEXT NOT NULL CHECK(priority IN ('critical', 'high', 'medium', 'low')) DEFAULT 'medium',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

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

		CREATE TABLE IF NOT EXISTS scenarios (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
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

		CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			actor_id TEXT,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			action TEXT NOT NULL CHECK(action IN ('create', 'update', 'delete')),
			field_name TEXT,
			old_value TEXT,
			new_value TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_audit_logs_entity ON audit_logs(entity_type, entity_id);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs(timestamp);
	`)
	return err
}

func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS history_logs (
			session TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func migrationV3(tx *sql.Tx) error {
	var count int
	err := tx.QueryRow("SELECT COUNT(*) FROM pragma_table_info('scenarios') WHERE name = 'last_applied_at'").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = tx.Exec("ALTER TABLE scenarios ADD COLUMN last_applied_at DATETIME")
	return err
}

// migrationV4 replaces the generic entity/field audit columns with the car,
// shop and month of each booking. Old assignment rows take their car, shop and
// month from the assignment when it still exists.
func migrationV4(tx *sql.Tx) error {
	var count int
	err := tx.QueryRow("SELECT COUNT(*) FROM pragma_table_info('audit_logs') WHERE name = 'car_id'").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = tx.Exec(`
		CREATE TABLE audit_logs_new (
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

		INSERT INTO audit_logs_new (id, timestamp, actor_id, action, car_id, shop_id, period, assignment_id)
		SELECT l.id, l.timestamp, l.actor_id,
			CASE l.action WHEN 'create' THEN 'assign' ELSE 'unassign' END,
			COALESCE(a.car_id, ''), a.shop_id, substr(a.period, 1, 7), l.entity_id
		FROM audit_logs l
		LEFT JOIN assignments a ON a.id = l.entity_id
		WHERE l.entity_type = 'assignment' AND l.action IN ('create', 'delete');

		INSERT INTO audit_logs_new (id, timestamp, actor_id, action, car_id, old_status, new_status)
		SELECT id, timestamp, actor_id, 'status', entity_id, old_value, new_value
		FROM audit_logs
		WHERE entity_type = 'car' AND action = 'update' AND field_name = 'status';

		DROP TABLE audit_logs;
		ALTER TABLE audit_logs_new RENAME TO audit_logs;

		CREATE INDEX IF NOT EXISTS idx_audit_logs_car ON audit_logs(car_id);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_shop_period ON audit_logs(shop_id, period);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs(timestamp);
	`)
	return err
}
