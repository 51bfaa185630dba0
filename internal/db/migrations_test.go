package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func columns(t *testing.T, conn *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := conn.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		t.Fatalf("pragma_table_info(%s) failed: %v", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan failed: %v", err)
		}
		cols[name] = true
	}
	return cols
}

func TestInitSchema_FreshInstallMarksAllMigrations(t *testing.T) {
	conn := openTemp(t)

	if err := InitSchema(conn); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	version, err := CurrentVersion(conn)
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != migrations[len(migrations)-1].Version {
		t.Errorf("expected version %d, got %d", migrations[len(migrations)-1].Version, version)
	}

	// Re-running is a no-op
	if err := InitSchema(conn); err != nil {
		t.Fatalf("second InitSchema failed: %v", err)
	}
}

func TestRunMigrations_MatchesSchemaSQL(t *testing.T) {
	fresh := openTemp(t)
	if _, err := fresh.Exec(GetSchemaSQL()); err != nil {
		t.Fatalf("schema exec failed: %v", err)
	}

	migrated := openTemp(t)
	if err := RunMigrations(migrated); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	for _, table := range []string{"shops", "cars", "assignments", "scenarios", "scenario_entries", "audit_logs", "history_logs"} {
		want := columns(t, fresh, table)
		got := columns(t, migrated, table)
		if len(want) == 0 {
			t.Fatalf("table %s missing from schema", table)
		}
		for col := range want {
			if !got[col] {
				t.Errorf("migrated table %s is missing column %s", table, col)
			}
		}
		if len(got) != len(want) {
			t.Errorf("table %s: migrated has %d columns, schema has %d", table, len(got), len(want))
		}
	}
}

func TestSeedFixtures(t *testing.T) {
	conn := openTemp(t)
	if err := InitSchema(conn); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}
	if err := SeedFixtures(conn); err != nil {
		t.Fatalf("SeedFixtures failed: %v", err)
	}

	var shops, cars int
	conn.QueryRow("SELECT COUNT(*) FROM shops").Scan(&shops)
	conn.QueryRow("SELECT COUNT(*) FROM cars").Scan(&cars)
	if shops != 3 || cars != 6 {
		t.Errorf("expected 3 shops and 6 cars, got %d and %d", shops, cars)
	}
}

func TestMigrationV4_ReshapesAuditLogs(t *testing.T) {
	conn := openTemp(t)
	if err := ensureVersionTable(conn); err != nil {
		t.Fatalf("ensureVersionTable failed: %v", err)
	}
	for _, m := range migrations[:3] {
		tx, err := conn.Begin()
		if err != nil {
			t.Fatalf("begin failed: %v", err)
		}
		if err := m.Up(tx); err != nil {
			t.Fatalf("migration %d failed: %v", m.Version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			t.Fatalf("record version failed: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("commit failed: %v", err)
		}
	}

	setup := []string{
		"INSERT INTO shops (id, name, capacity) VALUES ('SHOP-001', 'North Yard', 5)",
		"INSERT INTO cars (id, name, status) VALUES ('CAR-001', 'Tank car', 'assigned')",
		"INSERT INTO assignments (id, car_id, shop_id, period, created_at) VALUES ('ASGN-1', 'CAR-001', 'SHOP-001', '2024-03-01', '2024-02-01T00:00:00Z')",
		"INSERT INTO audit_logs (id, actor_id, entity_type, entity_id, action) VALUES ('AL-0001', 'alice', 'assignment', 'ASGN-1', 'create')",
		"INSERT INTO audit_logs (id, actor_id, entity_type, entity_id, action, field_name, old_value, new_value) VALUES ('AL-0002', 'alice', 'car', 'CAR-001', 'update', 'status', 'unassigned', 'assigned')",
		"INSERT INTO audit_logs (id, entity_type, entity_id, action) VALUES ('AL-0003', 'assignment', 'ASGN-gone', 'delete')",
	}
	for _, stmt := range setup {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("setup %q failed: %v", stmt, err)
		}
	}

	if err := RunMigrations(conn); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	var action, carID, shopID, period string
	err := conn.QueryRow("SELECT action, car_id, shop_id, period FROM audit_logs WHERE id = 'AL-0001'").Scan(&action, &carID, &shopID, &period)
	if err != nil {
		t.Fatalf("query AL-0001 failed: %v", err)
	}
	if action != "assign" || carID != "CAR-001" || shopID != "SHOP-001" || period != "2024-03" {
		t.Errorf("unexpected booking row: %s %s %s %s", action, carID, shopID, period)
	}

	var oldStatus, newStatus string
	err = conn.QueryRow("SELECT action, car_id, old_status, new_status FROM audit_logs WHERE id = 'AL-0002'").Scan(&action, &carID, &oldStatus, &newStatus)
	if err != nil {
		t.Fatalf("query AL-0002 failed: %v", err)
	}
	if action != "status" || carID != "CAR-001" || oldStatus != "unassigned" || newStatus != "assigned" {
		t.Errorf("unexpected status row: %s %s %s %s", action, carID, oldStatus, newStatus)
	}

	var assignmentID string
	err = conn.QueryRow("SELECT action, assignment_id FROM audit_logs WHERE id = 'AL-0003'").Scan(&action, &assignmentID)
	if err != nil {
		t.Fatalf("query AL-0003 failed: %v", err)
	}
	if action != "unassign" || assignmentID != "ASGN-gone" {
		t.Errorf("unexpected removal row: %s %s", action, assignmentID)
	}
}
