package app

import (
	"context"
	"sync"

	"github.com/example/shopplan/internal/core/history"
	"github.com/example/shopplan/internal/core/shoperr"
	"github.com/example/shopplan/internal/logger"
	"github.com/example/shopplan/internal/ports/secondary"
)

// HistoryManager owns the undo/redo log. Callers peek an action, apply it in a
// transaction and only then commit the cursor move, so a failed apply leaves
// the log untouched.
type HistoryManager struct {
	mu      sync.Mutex
	log     *history.Log
	store   secondary.HistoryStore
	session string
	loaded  bool
	logger  logger.Logger
}

// NewHistoryManager creates a history manager. store may be nil, in which case
// the log lives only as long as the process.
func NewHistoryManager(capacity int, store secondary.HistoryStore, session string, l logger.Logger) *HistoryManager {
	if l == nil {
		l = logger.NopLogger{}
	}
	return &HistoryManager{
		log:     history.NewLog(capacity),
		store:   store,
		session: session,
		loaded:  store == nil,
		logger:  l,
	}
}

// ensureLoaded restores the stored log once. Must be called with mu held.
func (h *HistoryManager) ensureLoaded(ctx context.Context) {
	if h.loaded {
		return
	}
	h.loaded = true

	dump, err := h.store.Load(ctx, h.session)
	if err != nil {
		h.logger.Warnf("history: failed to load session %s, starting empty: %v", h.session, err)
		return
	}
	if dump == nil {
		return
	}
	if err := h.log.Restore(*dump); err != nil {
		h.logger.Warnf("history: discarding stored session %s: %v", h.session, err)
	}
}

// persist saves the log. A failed save is logged; the mutation it follows is already committed.
func (h *HistoryManager) persist(ctx context.Context) {
	if h.store == nil {
		return
	}
	if err := h.store.Save(ctx, h.session, h.log.Dump()); err != nil {
		h.logger.Warnf("history: failed to save session %s: %v", h.session, err)
	}
}

// Record appends committed actions in order, clearing the redo tail.
func (h *HistoryManager) Record(ctx context.Context, actions ...history.Action) {
	if len(actions) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ensureLoaded(ctx)
	for _, a := range actions {
		h.log.Record(a)
	}
	h.persist(ctx)
}

// PeekUndo returns the action the next undo would reverse.
func (h *HistoryManager) PeekUndo(ctx context.Context) (history.Action, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ensureLoaded(ctx)
	a, ok := h.log.PeekUndo()
	if !ok {
		return history.Action{}, shoperr.EmptyHistory("undo")
	}
	return a, nil
}

// PeekRedo returns the action the next redo would reapply.
func (h *HistoryManager) PeekRedo(ctx context.Context) (history.Action, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ensureLoaded(ctx)
	a, ok := h.log.PeekRedo()
	if !ok {
		return history.Action{}, shoperr.EmptyHistory("redo")
	}
	return a, nil
}

// CommitUndo moves the cursor back after a successful undo.
func (h *HistoryManager) CommitUndo(ctx context.Context) history.State {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.log.Undo()
	h.persist(ctx)
	return h.log.State()
}

// CommitRedo moves the cursor forward after a successful redo.
func (h *HistoryManager) CommitRedo(ctx context.Context) history.State {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.log.Redo()
	h.persist(ctx)
	return h.log.State()
}

// State reports the undo/redo depths.
func (h *HistoryManager) State(ctx context.Context) history.State {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ensureLoaded(ctx)
	return h.log.State()
}
