// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/shopplan/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
// The pool is pinned to one connection: every :memory: connection is its own database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedShop inserts a test shop and returns its ID.
func seedShop(t *testing.T, db *sql.DB, id string, capacity int) string {
	t.Helper()
	if id == "" {
		id = "SHOP-001"
	}
	if capacity == 0 {
		capacity = 10
	}
	_, err := db.Exec("INSERT INTO shops (id, name, capacity) VALUES (?, ?, ?)", id, "Shop "+id, capacity)
	if err != nil {
		t.Fatalf("failed to seed shop: %v", err)
	}
	return id
}

// seedCar inserts a test car and returns its ID.
func seedCar(t *testing.T, db *sql.DB, id, priority string) string {
	t.Helper()
	if id == "" {
		id = "CAR-001"
	}
	if priority == "" {
		priority = "medium"
	}
	_, err := db.Exec("INSERT INTO cars (id, name, status, priority) VALUES (?, ?, 'unassigned', ?)", id, "Car "+id, priority)
	if err != nil {
		t.Fatalf("failed to seed car: %v", err)
	}
	return id
}

// seedAssignment inserts a test assignment; period is YYYY-MM-DD.
func seedAssignment(t *testing.T, db *sql.DB, id, carID, shopID, period string) string {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO assignments (id, car_id, shop_id, period, created_at) VALUES (?, ?, ?, ?, ?)",
		id, carID, shopID, period, "2024-01-01T00:00:00Z",
	)
	if err != nil {
		t.Fatalf("failed to seed assignment: %v", err)
	}
	return id
}
