package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/shopplan/internal/core/history"
	"github.com/example/shopplan/internal/core/shoperr"
)

func createAction(id string) history.Action {
	return history.Action{
		Kind: history.ActionCreate,
		Assignment: history.Snapshot{
			ID:         id,
			WorkItemID: "CAR-001",
			ResourceID: "SHOP-001",
			Period:     month(2024, 3),
			CreatedAt:  time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
		},
	}
}

func TestHistoryManager_PeekDoesNotMoveCursor(t *testing.T) {
	ctx := context.Background()
	h := NewHistoryManager(10, nil, "default", nil)
	h.Record(ctx, createAction("A1"))

	for i := 0; i < 2; i++ {
		a, err := h.PeekUndo(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if a.Assignment.ID != "A1" {
			t.Errorf("expected A1, got %s", a.Assignment.ID)
		}
	}
	if st := h.State(ctx); st.UndoDepth != 1 {
		t.Errorf("expected undo depth 1, got %d", st.UndoDepth)
	}

	st := h.CommitUndo(ctx)
	if st.UndoDepth != 0 || st.RedoDepth != 1 {
		t.Errorf("expected 0/1 after undo, got %d/%d", st.UndoDepth, st.RedoDepth)
	}
}

func TestHistoryManager_EmptyStacks(t *testing.T) {
	ctx := context.Background()
	h := NewHistoryManager(10, nil, "default", nil)

	if _, err := h.PeekUndo(ctx); !errors.Is(err, shoperr.ErrEmptyHistory) {
		t.Errorf("expected empty history on undo, got %v", err)
	}
	if _, err := h.PeekRedo(ctx); !errors.Is(err, shoperr.ErrEmptyHistory) {
		t.Errorf("expected empty history on redo, got %v", err)
	}
}

func TestHistoryManager_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	store := newMockHistoryStore()

	first := NewHistoryManager(10, store, "planner", nil)
	first.Record(ctx, createAction("A1"), createAction("A2"))
	first.CommitUndo(ctx)

	if store.saves != 2 {
		t.Errorf("expected 2 saves, got %d", store.saves)
	}

	second := NewHistoryManager(10, store, "planner", nil)
	st := second.State(ctx)
	if st.UndoDepth != 1 || st.RedoDepth != 1 {
		t.Fatalf("expected 1/1 after reload, got %d/%d", st.UndoDepth, st.RedoDepth)
	}
	a, err := second.PeekRedo(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a.Assignment.ID != "A2" {
		t.Errorf("expected A2 on redo stack, got %s", a.Assignment.ID)
	}
}

func TestHistoryManager_SessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := newMockHistoryStore()

	NewHistoryManager(10, store, "alpha", nil).Record(ctx, createAction("A1"))

	other := NewHistoryManager(10, store, "beta", nil)
	if st := other.State(ctx); st.UndoDepth != 0 {
		t.Errorf("expected empty beta session, got undo depth %d", st.UndoDepth)
	}
}

func TestHistoryManager_StoreFailuresDoNotBlock(t *testing.T) {
	ctx := context.Background()
	store := newMockHistoryStore()
	store.loadErr = errors.New("disk unavailable")
	store.saveErr = errors.New("disk unavailable")

	h := NewHistoryManager(10, store, "default", nil)
	h.Record(ctx, createAction("A1"))

	if st := h.State(ctx); st.UndoDepth != 1 {
		t.Errorf("expected in-memory log to keep working, got undo depth %d", st.UndoDepth)
	}
}
