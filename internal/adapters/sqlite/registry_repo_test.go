package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/shopplan/internal/adapters/sqlite"
	"github.com/example/shopplan/internal/core/shoperr"
	"github.com/example/shopplan/internal/ports/secondary"
)

func TestWorkItemRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewWorkItemRepository(db)
	ctx := context.Background()

	for _, item := range []*secondary.WorkItemRecord{
		{ID: "CAR-001", Name: "Tank car", Priority: "low"},
		{ID: "CAR-002", Priority: "critical"},
		{ID: "CAR-003"},
	} {
		if err := repo.Create(ctx, item); err != nil {
			t.Fatalf("Create %s failed: %v", item.ID, err)
		}
	}

	t.Run("defaults status and priority", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "CAR-003")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Status != "unassigned" {
			t.Errorf("Status = %q, want unassigned", got.Status)
		}
		if got.Priority != "medium" {
			t.Errorf("Priority = %q, want medium", got.Priority)
		}
	})

	t.Run("lists by priority", func(t *testing.T) {
		got, err := repo.List(ctx, "")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		want := []string{"CAR-002", "CAR-003", "CAR-001"}
		for i, id := range want {
			if got[i].ID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
			}
		}
	})

	t.Run("sets status", func(t *testing.T) {
		if err := repo.SetStatus(ctx, "CAR-001", "assigned"); err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}
		assigned, err := repo.List(ctx, "assigned")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(assigned) != 1 || assigned[0].ID != "CAR-001" {
			t.Errorf("expected only CAR-001 assigned, got %d cars", len(assigned))
		}
	})

	t.Run("missing car", func(t *testing.T) {
		if _, err := repo.GetByID(ctx, "CAR-999"); !errors.Is(err, shoperr.ErrNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
		if err := repo.SetStatus(ctx, "CAR-999", "assigned"); !errors.Is(err, shoperr.ErrNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
		exists, err := repo.Exists(ctx, "CAR-999")
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists {
			t.Error("expected CAR-999 to not exist")
		}
	})
}

func TestResourceRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewResourceRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &secondary.ResourceRecord{ID: "SHOP-B", Name: "South", Capacity: 25}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, &secondary.ResourceRecord{ID: "SHOP-A", Name: "North", Capacity: 40}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		if err := repo.Create(ctx, &secondary.ResourceRecord{ID: "SHOP-Z", Name: "Zero", Capacity: 0}); err == nil {
			t.Error("expected capacity check to fail")
		}
	})

	got, err := repo.GetByID(ctx, "SHOP-A")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Capacity != 40 || got.Name != "North" {
		t.Errorf("unexpected shop: %+v", got)
	}

	shops, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(shops) != 2 || shops[0].ID != "SHOP-A" {
		t.Errorf("expected shops ordered by id, got %+v", shops)
	}

	if _, err := repo.GetByID(ctx, "SHOP-X"); !errors.Is(err, shoperr.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}
