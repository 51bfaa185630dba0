package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/example/shopplan/internal/core/period"
	"github.com/example/shopplan/internal/core/scenario"
	"github.com/example/shopplan/internal/core/shoperr"
	"github.com/example/shopplan/internal/logger"
	"github.com/example/shopplan/internal/metrics"
	"github.com/example/shopplan/internal/ports/primary"
	"github.com/example/shopplan/internal/ports/secondary"
)

// ScenarioServiceImpl implements the ScenarioService interface.
type ScenarioServiceImpl struct {
	scenarios   secondary.ScenarioRepository
	assignments secondary.AssignmentRepository
	resources   secondary.ResourceRepository
	assigner    primary.AssignmentService
	locks       *xsync.Map[string, *sync.Mutex]
	logger      logger.Logger
	metrics     secondary.MetricsSink
	now         func() time.Time
}

// NewScenarioService creates a new ScenarioService with injected dependencies.
// Applies go through assigner so they share its write path and history.
func NewScenarioService(
	scenarios secondary.ScenarioRepository,
	assignments secondary.AssignmentRepository,
	resources secondary.ResourceRepository,
	assigner primary.AssignmentService,
	opts ...Option,
) *ScenarioServiceImpl {
	o := applyOptions(opts)
	return &ScenarioServiceImpl{
		scenarios:   scenarios,
		assignments: assignments,
		resources:   resources,
		assigner:    assigner,
		locks:       xsync.NewMap[string, *sync.Mutex](),
		logger:      o.logger,
		metrics:     o.metrics,
		now:         o.now,
	}
}

// CreateScenario creates a scenario plan, optionally with initial entries.
func (s *ScenarioServiceImpl) CreateScenario(ctx context.Context, req primary.CreateScenarioRequest) (*primary.Scenario, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, shoperr.InvalidScenarioData("scenario name is required")
	}

	entries, err := scenario.ParseEntries(req.Entries)
	if err != nil {
		return nil, err
	}

	id := "SCN-" + uuid.NewString()
	record := &secondary.ScenarioRecord{
		ID:          id,
		Name:        name,
		Description: req.Description,
		Entries:     toEntryRecords(entries),
	}
	if err := s.scenarios.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create scenario: %w", err)
	}

	return s.GetScenario(ctx, id)
}

// GetScenario retrieves a scenario plan with its entries.
func (s *ScenarioServiceImpl) GetScenario(ctx context.Context, scenarioID string) (*primary.Scenario, error) {
	record, err := s.scenarios.GetByID(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	return recordToScenario(record), nil
}

// ListScenarios lists scenario plans.
func (s *ScenarioServiceImpl) ListScenarios(ctx context.Context) ([]*primary.Scenario, error) {
	records, err := s.scenarios.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	result := make([]*primary.Scenario, len(records))
	for i, r := range records {
		result[i] = recordToScenario(r)
	}
	return result, nil
}

// DeleteScenario deletes a scenario plan.
func (s *ScenarioServiceImpl) DeleteScenario(ctx context.Context, scenarioID string) error {
	mu := s.lockFor(scenarioID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.scenarios.Delete(ctx, scenarioID); err != nil {
		return err
	}
	s.locks.Delete(scenarioID)
	return nil
}

// AddEntries appends proposed assignments to a plan.
func (s *ScenarioServiceImpl) AddEntries(ctx context.Context, scenarioID string, raw []scenario.RawEntry) (*primary.Scenario, error) {
	entries, err := scenario.ParseEntries(raw)
	if err != nil {
		return nil, err
	}

	mu := s.lockFor(scenarioID)
	mu.Lock()
	err = s.scenarios.AddEntries(ctx, scenarioID, toEntryRecords(entries))
	mu.Unlock()
	if err != nil {
		return nil, err
	}

	return s.GetScenario(ctx, scenarioID)
}

// RemoveEntry removes a proposed assignment by zero-based position.
func (s *ScenarioServiceImpl) RemoveEntry(ctx context.Context, scenarioID string, position int) (*primary.Scenario, error) {
	if position < 0 {
		return nil, shoperr.InvalidScenarioData("entry position must not be negative, got %d", position)
	}

	mu := s.lockFor(scenarioID)
	mu.Lock()
	err := s.scenarios.RemoveEntry(ctx, scenarioID, position)
	mu.Unlock()
	if err != nil {
		return nil, err
	}

	return s.GetScenario(ctx, scenarioID)
}

// Evaluate scores an ad-hoc proposed list against the committed ledger.
func (s *ScenarioServiceImpl) Evaluate(ctx context.Context, proposed []scenario.RawEntry) (*scenario.Result, error) {
	entries, err := scenario.ParseEntries(proposed)
	if err != nil {
		return nil, err
	}
	return s.evaluate(ctx, entries)
}

// EvaluateScenario scores a stored plan against the committed ledger.
func (s *ScenarioServiceImpl) EvaluateScenario(ctx context.Context, scenarioID string) (*scenario.Result, error) {
	record, err := s.scenarios.GetByID(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	entries := make([]scenario.Entry, len(record.Entries))
	for i, e := range record.Entries {
		entries[i] = scenario.Entry{WorkItemID: e.WorkItemID, ResourceID: e.ResourceID, Period: e.Period}
	}
	return s.evaluate(ctx, entries)
}

func (s *ScenarioServiceImpl) evaluate(ctx context.Context, entries []scenario.Entry) (*scenario.Result, error) {
	shops, err := s.resources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}

	tallies, err := s.assignments.Tallies(ctx, secondary.TallyFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to tally assignments: %w", err)
	}

	in := scenario.Input{Now: s.now(), Proposed: entries}
	for _, shop := range shops {
		in.Resources = append(in.Resources, scenario.Resource{ID: shop.ID, Name: shop.Name, Capacity: shop.Capacity})
	}
	for _, t := range tallies {
		in.Committed = append(in.Committed, scenario.Tally{ResourceID: t.ResourceID, Period: t.Period, Count: t.Count})
	}

	result := scenario.Evaluate(in)
	return &result, nil
}

// ApplyScenario commits a stored plan atomically. Entries whose car already
// holds the month are skipped, so a second apply creates nothing.
func (s *ScenarioServiceImpl) ApplyScenario(ctx context.Context, scenarioID string) ([]*primary.Assignment, error) {
	mu := s.lockFor(scenarioID)
	mu.Lock()
	defer mu.Unlock()

	record, err := s.scenarios.GetByID(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	req := primary.AssignBatchRequest{SkipDuplicates: true}
	for _, e := range record.Entries {
		req.Entries = append(req.Entries, primary.AssignRequest{
			WorkItemID: e.WorkItemID,
			ResourceID: e.ResourceID,
			Period:     e.Period,
		})
	}

	resp, err := s.assigner.AssignBatch(ctx, req)
	s.metrics.RecordScenarioApply(metrics.ResultLabel(err), len(respCreated(resp)))
	if err != nil {
		return nil, fmt.Errorf("failed to apply scenario %s: %w", scenarioID, err)
	}

	if err := s.scenarios.MarkApplied(ctx, scenarioID, s.now()); err != nil {
		s.logger.Warnf("scenario %s applied but not marked: %v", scenarioID, err)
	}
	s.logger.Infof("scenario %s applied: %d created, %d already present", scenarioID, len(resp.Created), resp.Skipped)

	created := resp.Created
	if created == nil {
		created = []*primary.Assignment{}
	}
	return created, nil
}

func (s *ScenarioServiceImpl) lockFor(scenarioID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(scenarioID, &sync.Mutex{})
	return mu
}

// Helper functions

func respCreated(resp *primary.AssignBatchResponse) []*primary.Assignment {
	if resp == nil {
		return nil
	}
	return resp.Created
}

func toEntryRecords(entries []scenario.Entry) []secondary.ScenarioEntryRecord {
	records := make([]secondary.ScenarioEntryRecord, len(entries))
	for i, e := range entries {
		records[i] = secondary.ScenarioEntryRecord{WorkItemID: e.WorkItemID, ResourceID: e.ResourceID, Period: e.Period}
	}
	return records
}

func recordToScenario(r *secondary.ScenarioRecord) *primary.Scenario {
	entries := make([]scenario.RawEntry, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = scenario.RawEntry{WorkItemID: e.WorkItemID, ResourceID: e.ResourceID, Period: period.Key(e.Period)}
	}
	return &primary.Scenario{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Entries:       entries,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		LastAppliedAt: r.LastAppliedAt,
	}
}

// Ensure ScenarioServiceImpl implements the interface
var _ primary.ScenarioService = (*ScenarioServiceImpl)(nil)
