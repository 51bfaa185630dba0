package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/shopplan/internal/core/assignment"
	"github.com/example/shopplan/internal/core/capacity"
	"github.com/example/shopplan/internal/core/history"
	"github.com/example/shopplan/internal/core/period"
	"github.com/example/shopplan/internal/core/shoperr"
	"github.com/example/shopplan/internal/logger"
	"github.com/example/shopplan/internal/ports/primary"
	"github.com/example/shopplan/internal/ports/secondary"
)

// AssignmentServiceImpl implements the AssignmentService interface.
// Every mutation holds mu for its full duration, including history bookkeeping.
type AssignmentServiceImpl struct {
	mu          sync.Mutex
	tx          secondary.Transactor
	assignments secondary.AssignmentRepository
	history     *HistoryManager
	logger      logger.Logger
	metrics     secondary.MetricsSink
	now         func() time.Time
}

// NewAssignmentService creates a new AssignmentService with injected dependencies.
func NewAssignmentService(
	tx secondary.Transactor,
	assignments secondary.AssignmentRepository,
	hist *HistoryManager,
	opts ...Option,
) *AssignmentServiceImpl {
	o := applyOptions(opts)
	return &AssignmentServiceImpl{
		tx:          tx,
		assignments: assignments,
		history:     hist,
		logger:      o.logger,
		metrics:     o.metrics,
		now:         o.now,
	}
}

// Assign binds a car to a shop for a month.
func (s *AssignmentServiceImpl) Assign(ctx context.Context, req primary.AssignRequest) (*primary.AssignResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.newRecord(req)

	var warning *primary.CapacityWarning
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos secondary.TxRepositories) error {
		w, err := s.assignInTx(ctx, repos, record)
		warning = w
		return err
	})
	if err != nil {
		s.logger.Debugf("assign %s to %s for %s rejected: %v", req.WorkItemID, req.ResourceID, period.Key(record.Period), err)
		return nil, err
	}

	s.history.Record(ctx, s.action(history.ActionCreate, record))
	s.afterAssign(record, warning)
	s.publishDepth(ctx)

	return &primary.AssignResponse{
		Assignment: recordToAssignment(record),
		Warning:    warning,
	}, nil
}

// AssignBatch assigns every entry in one transaction. With SkipDuplicates an
// entry whose car already holds the month is skipped; any other failure rolls
// back the whole batch.
func (s *AssignmentServiceImpl) AssignBatch(ctx context.Context, req primary.AssignBatchRequest) (*primary.AssignBatchResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := &primary.AssignBatchResponse{}
	var created []*secondary.AssignmentRecord

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos secondary.TxRepositories) error {
		for i, entry := range req.Entries {
			record := s.newRecord(entry)
			w, err := s.assignInTx(ctx, repos, record)
			if err != nil {
				if req.SkipDuplicates && errors.Is(err, shoperr.ErrDuplicateAssignment) {
					resp.Skipped++
					continue
				}
				return fmt.Errorf("entry %d (car %s, shop %s, %s): %w",
					i, entry.WorkItemID, entry.ResourceID, period.Key(record.Period), err)
			}
			created = append(created, record)
			if w != nil {
				resp.Warnings = append(resp.Warnings, w)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warnf("batch of %d assignments rolled back: %v", len(req.Entries), err)
		return nil, err
	}

	actions := make([]history.Action, len(created))
	for i, record := range created {
		actions[i] = s.action(history.ActionCreate, record)
		resp.Created = append(resp.Created, recordToAssignment(record))
	}
	s.history.Record(ctx, actions...)

	for _, record := range created {
		s.metrics.RecordAssignment("assign")
		s.logger.Debugw("assignment created", map[string]any{
			"assignment_id": record.ID,
			"car_id":        record.WorkItemID,
			"shop_id":       record.ResourceID,
			"period":        period.Key(record.Period),
		})
	}
	for _, w := range resp.Warnings {
		s.metrics.RecordCapacityWarning(w.ResourceID)
		s.logger.Warnf("%s", w.Message)
	}
	s.publishDepth(ctx)

	return resp, nil
}

// Unassign removes an assignment.
func (s *AssignmentServiceImpl) Unassign(ctx context.Context, assignmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed *secondary.AssignmentRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos secondary.TxRepositories) error {
		r, err := s.removeInTx(ctx, repos, assignmentID)
		removed = r
		return err
	})
	if err != nil {
		return err
	}

	s.history.Record(ctx, s.action(history.ActionDelete, removed))
	s.metrics.RecordAssignment("unassign")
	s.logger.Infof("assignment %s removed (car %s, shop %s, %s)",
		removed.ID, removed.WorkItemID, removed.ResourceID, period.Key(removed.Period))
	s.publishDepth(ctx)

	return nil
}

// Undo reverses the most recent recorded mutation.
func (s *AssignmentServiceImpl) Undo(ctx context.Context) (*primary.HistoryState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	action, err := s.history.PeekUndo(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.replay(ctx, action.Inverse()); err != nil {
		return nil, fmt.Errorf("failed to undo %s of assignment %s: %w", action.Kind, action.Assignment.ID, err)
	}

	state := s.history.CommitUndo(ctx)
	s.metrics.RecordHistoryOp("undo")
	s.metrics.SetHistoryDepth(state.UndoDepth, state.RedoDepth)
	s.logger.Infof("undid %s of assignment %s", action.Kind, action.Assignment.ID)

	return toHistoryState(state), nil
}

// Redo reapplies the most recently undone mutation.
func (s *AssignmentServiceImpl) Redo(ctx context.Context) (*primary.HistoryState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	action, err := s.history.PeekRedo(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.replay(ctx, action); err != nil {
		return nil, fmt.Errorf("failed to redo %s of assignment %s: %w", action.Kind, action.Assignment.ID, err)
	}

	state := s.history.CommitRedo(ctx)
	s.metrics.RecordHistoryOp("redo")
	s.metrics.SetHistoryDepth(state.UndoDepth, state.RedoDepth)
	s.logger.Infof("redid %s of assignment %s", action.Kind, action.Assignment.ID)

	return toHistoryState(state), nil
}

// HistoryState reports the undo/redo depths.
func (s *AssignmentServiceImpl) HistoryState(ctx context.Context) (*primary.HistoryState, error) {
	return toHistoryState(s.history.State(ctx)), nil
}

// GetAssignment retrieves an assignment by ID.
func (s *AssignmentServiceImpl) GetAssignment(ctx context.Context, assignmentID string) (*primary.Assignment, error) {
	record, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	return recordToAssignment(record), nil
}

// ListAssignments lists assignments with optional filters.
func (s *AssignmentServiceImpl) ListAssignments(ctx context.Context, filters primary.AssignmentFilters) ([]*primary.Assignment, error) {
	f := secondary.AssignmentFilters{
		WorkItemID: filters.WorkItemID,
		ResourceID: filters.ResourceID,
	}
	if !filters.Period.IsZero() {
		f.From = filters.Period
		f.To = filters.Period
	}

	records, err := s.assignments.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	result := make([]*primary.Assignment, len(records))
	for i, r := range records {
		result[i] = recordToAssignment(r)
	}
	return result, nil
}

// replay applies one history action inside its own transaction.
func (s *AssignmentServiceImpl) replay(ctx context.Context, a history.Action) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context, repos secondary.TxRepositories) error {
		switch a.Kind {
		case history.ActionCreate:
			// Restores the exact prior assignment, original ID and timestamp included.
			_, err := s.assignInTx(ctx, repos, snapshotToRecord(a.Assignment))
			return err
		case history.ActionDelete:
			_, err := s.removeInTx(ctx, repos, a.Assignment.ID)
			return err
		default:
			return fmt.Errorf("unknown history action %q", a.Kind)
		}
	})
}

// assignInTx inserts one assignment and applies its side effects: car status,
// audit log and the capacity check. A nil warning means the shop is within capacity.
func (s *AssignmentServiceImpl) assignInTx(ctx context.Context, repos secondary.TxRepositories, record *secondary.AssignmentRecord) (*primary.CapacityWarning, error) {
	carExists, err := repos.WorkItems.Exists(ctx, record.WorkItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate car: %w", err)
	}

	shop, err := repos.Resources.GetByID(ctx, record.ResourceID)
	if err != nil && !errors.Is(err, shoperr.ErrNotFound) {
		return nil, fmt.Errorf("failed to validate shop: %w", err)
	}

	guard := assignment.CanAssign(assignment.AssignContext{
		WorkItemID:     record.WorkItemID,
		WorkItemExists: carExists,
		ResourceID:     record.ResourceID,
		ResourceExists: shop != nil,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	// The UNIQUE(car, period) constraint decides duplicates.
	if err := repos.Assignments.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := s.setStatus(ctx, repos, record.WorkItemID, assignment.StatusAfterAssign()); err != nil {
		return nil, err
	}

	if err := repos.Log.LogAssigned(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to write audit log: %w", err)
	}

	count, err := repos.Assignments.CountByResourcePeriod(ctx, record.ResourceID, record.Period)
	if err != nil {
		return nil, fmt.Errorf("failed to count shop load: %w", err)
	}
	if !capacity.IsOverCapacity(count, shop.Capacity) {
		return nil, nil
	}

	pct := capacity.UtilizationPercent(count, shop.Capacity)
	return &primary.CapacityWarning{
		ResourceID:         shop.ID,
		Period:             period.Key(record.Period),
		Assigned:           count,
		Capacity:           shop.Capacity,
		UtilizationPercent: pct,
		Message: fmt.Sprintf("shop %s is over capacity for %s: %d/%d (%.0f%%)",
			shop.ID, period.Key(record.Period), count, shop.Capacity, pct),
	}, nil
}

// removeInTx deletes one assignment and reverts the car to unassigned when it
// holds no other month.
func (s *AssignmentServiceImpl) removeInTx(ctx context.Context, repos secondary.TxRepositories, assignmentID string) (*secondary.AssignmentRecord, error) {
	record, err := repos.Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if err := repos.Assignments.Delete(ctx, assignmentID); err != nil {
		return nil, err
	}

	remaining, err := repos.Assignments.CountByWorkItem(ctx, record.WorkItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to count car assignments: %w", err)
	}
	if status := assignment.StatusAfterRemoval(remaining); status != "" {
		if err := s.setStatus(ctx, repos, record.WorkItemID, status); err != nil {
			return nil, err
		}
	}

	if err := repos.Log.LogUnassigned(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to write audit log: %w", err)
	}

	return record, nil
}

// setStatus writes a car status and audits the change when it differs.
func (s *AssignmentServiceImpl) setStatus(ctx context.Context, repos secondary.TxRepositories, carID, status string) error {
	car, err := repos.WorkItems.GetByID(ctx, carID)
	if err != nil {
		return err
	}
	if car.Status == status {
		return nil
	}
	if err := repos.WorkItems.SetStatus(ctx, carID, status); err != nil {
		return fmt.Errorf("failed to update car status: %w", err)
	}
	if err := repos.Log.LogStatusChange(ctx, carID, car.Status, status); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *AssignmentServiceImpl) newRecord(req primary.AssignRequest) *secondary.AssignmentRecord {
	return &secondary.AssignmentRecord{
		ID:         "ASGN-" + uuid.NewString(),
		WorkItemID: req.WorkItemID,
		ResourceID: req.ResourceID,
		Period:     period.Normalize(req.Period),
		CreatedAt:  s.now().UTC(),
	}
}

func (s *AssignmentServiceImpl) action(kind history.ActionKind, r *secondary.AssignmentRecord) history.Action {
	return history.Action{
		Kind: kind,
		Assignment: history.Snapshot{
			ID:         r.ID,
			WorkItemID: r.WorkItemID,
			ResourceID: r.ResourceID,
			Period:     r.Period,
			CreatedAt:  r.CreatedAt,
		},
		At: s.now().UTC(),
	}
}

func (s *AssignmentServiceImpl) afterAssign(record *secondary.AssignmentRecord, warning *primary.CapacityWarning) {
	s.metrics.RecordAssignment("assign")
	s.logger.Infof("assigned car %s to shop %s for %s", record.WorkItemID, record.ResourceID, period.Key(record.Period))
	if warning != nil {
		s.metrics.RecordCapacityWarning(warning.ResourceID)
		s.logger.Warnf("%s", warning.Message)
	}
}

func (s *AssignmentServiceImpl) publishDepth(ctx context.Context) {
	state := s.history.State(ctx)
	s.metrics.SetHistoryDepth(state.UndoDepth, state.RedoDepth)
}

// Helper functions

func snapshotToRecord(snap history.Snapshot) *secondary.AssignmentRecord {
	return &secondary.AssignmentRecord{
		ID:         snap.ID,
		WorkItemID: snap.WorkItemID,
		ResourceID: snap.ResourceID,
		Period:     snap.Period,
		CreatedAt:  snap.CreatedAt,
	}
}

func recordToAssignment(r *secondary.AssignmentRecord) *primary.Assignment {
	return &primary.Assignment{
		ID:         r.ID,
		WorkItemID: r.WorkItemID,
		ResourceID: r.ResourceID,
		Period:     period.Key(r.Period),
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toHistoryState(st history.State) *primary.HistoryState {
	return &primary.HistoryState{
		UndoDepth: st.UndoDepth,
		RedoDepth: st.RedoDepth,
		CanUndo:   st.CanUndo,
		CanRedo:   st.CanRedo,
	}
}

// Ensure AssignmentServiceImpl implements the interface
var _ primary.AssignmentService = (*AssignmentServiceImpl)(nil)
