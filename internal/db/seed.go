package db

import (
	"database/sql"
	"fmt"
)

// SeedFixtures populates the database with a small demo fleet.
// Shops and cars only; no assignments are created.
func SeedFixtures(database *sql.DB) error {
	shops := []struct {
		id, name string
		capacity int
	}{
		{"SHOP-001", "North Yard", 40},
		{"SHOP-002", "South Yard", 25},
		{"SHOP-003", "Paint Line", 10},
	}
	for _, s := range shops {
		if _, err := database.Exec(
			"INSERT INTO shops (id, name, capacity) VALUES (?, ?, ?)",
			s.id, s.name, s.capacity,
		); err != nil {
			return fmt.Errorf("seed shops: %w", err)
		}
	}

	cars := []struct{ id, name, priority string }{
		{"CAR-001", "Tank car 1001", "high"},
		{"CAR-002", "Tank car 1002", "medium"},
		{"CAR-003", "Hopper 2001", "critical"},
		{"CAR-004", "Hopper 2002", "low"},
		{"CAR-005", "Boxcar 3001", "medium"},
		{"CAR-006", "Boxcar 3002", "medium"},
	}
	for _, c := range cars {
		if _, err := database.Exec(
			"INSERT INTO cars (id, name, status, priority) VALUES (?, ?, 'unassigned', ?)",
			c.id, c.name, c.priority,
		); err != nil {
			return fmt.Errorf("seed cars: %w", err)
		}
	}

	return nil
}
