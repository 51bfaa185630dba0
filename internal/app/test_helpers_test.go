package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/shopplan/internal/core/history"
	"github.com/example/shopplan/internal/core/period"
	"github.com/example/shopplan/internal/core/shoperr"
	"github.com/example/shopplan/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.AssignmentRepository = (*mockAssignmentRepository)(nil)
	_ secondary.WorkItemRepository   = (*mockWorkItemRepository)(nil)
	_ secondary.ResourceRepository   = (*mockResourceRepository)(nil)
	_ secondary.ScenarioRepository   = (*mockScenarioRepository)(nil)
	_ secondary.HistoryStore         = (*mockHistoryStore)(nil)
	_ secondary.MetricsSink          = (*mockMetricsSink)(nil)
)

// mockAssignmentRepository keeps assignments in insertion order.
type mockAssignmentRepository struct {
	records []*secondary.AssignmentRecord
}

func newMockAssignmentRepository() *mockAssignmentRepository {
	return &mockAssignmentRepository{}
}

// add seeds an assignment for car in shop during the given month.
func (m *mockAssignmentRepository) add(id, carID, shopID string, p time.Time) {
	m.records = append(m.records, &secondary.AssignmentRecord{
		ID:         id,
		WorkItemID: carID,
		ResourceID: shopID,
		Period:     period.Normalize(p),
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

func (m *mockAssignmentRepository) Create(ctx context.Context, a *secondary.AssignmentRecord) error {
	for _, r := range m.records {
		if r.WorkItemID == a.WorkItemID && r.Period.Equal(a.Period) {
			return shoperr.DuplicateAssignment(a.WorkItemID, period.Key(a.Period))
		}
	}
	m.records = append(m.records, a)
	return nil
}

func (m *mockAssignmentRepository) GetByID(ctx context.Context, id string) (*secondary.AssignmentRecord, error) {
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, shoperr.NotFound("assignment", id)
}

func (m *mockAssignmentRepository) Delete(ctx context.Context, id string) error {
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return shoperr.NotFound("assignment", id)
}

func (m *mockAssignmentRepository) List(ctx context.Context, filters secondary.AssignmentFilters) ([]*secondary.AssignmentRecord, error) {
	var result []*secondary.AssignmentRecord
	for _, r := range m.records {
		if filters.WorkItemID != "" && r.WorkItemID != filters.WorkItemID {
			continue
		}
		if filters.ResourceID != "" && r.ResourceID != filters.ResourceID {
			continue
		}
		if !inRange(r.Period, filters.From, filters.To) {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *mockAssignmentRepository) CountByResourcePeriod(ctx context.Context, resourceID string, p time.Time) (int, error) {
	count := 0
	for _, r := range m.records {
		if r.ResourceID == resourceID && r.Period.Equal(p) {
			count++
		}
	}
	return count, nil
}

func (m *mockAssignmentRepository) CountByWorkItem(ctx context.Context, workItemID string) (int, error) {
	count := 0
	for _, r := range m.records {
		if r.WorkItemID == workItemID {
			count++
		}
	}
	return count, nil
}

func (m *mockAssignmentRepository) Tallies(ctx context.Context, filters secondary.TallyFilters) ([]*secondary.TallyRecord, error) {
	wanted := make(map[string]bool, len(filters.ResourceIDs))
	for _, id := range filters.ResourceIDs {
		wanted[id] = true
	}

	var result []*secondary.TallyRecord
	index := make(map[string]*secondary.TallyRecord)
	for _, r := range m.records {
		if len(wanted) > 0 && !wanted[r.ResourceID] {
			continue
		}
		if !inRange(r.Period, filters.From, filters.To) {
			continue
		}
		key := r.ResourceID + "|" + period.Key(r.Period)
		if t, ok := index[key]; ok {
			t.Count++
			continue
		}
		t := &secondary.TallyRecord{ResourceID: r.ResourceID, Period: r.Period, Count: 1}
		index[key] = t
		result = append(result, t)
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].ResourceID < result[j].ResourceID })
	return result, nil
}

func inRange(p, from, to time.Time) bool {
	if !from.IsZero() && p.Before(from) {
		return false
	}
	if !to.IsZero() && p.After(to) {
		return false
	}
	return true
}

// mockWorkItemRepository implements secondary.WorkItemRepository for testing.
type mockWorkItemRepository struct {
	cars      map[string]*secondary.WorkItemRecord
	createErr error
}

func newMockWorkItemRepository() *mockWorkItemRepository {
	return &mockWorkItemRepository{cars: make(map[string]*secondary.WorkItemRecord)}
}

func (m *mockWorkItemRepository) Create(ctx context.Context, item *secondary.WorkItemRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.cars[item.ID] = item
	return nil
}

func (m *mockWorkItemRepository) GetByID(ctx context.Context, id string) (*secondary.WorkItemRecord, error) {
	if c, ok := m.cars[id]; ok {
		return c, nil
	}
	return nil, shoperr.NotFound("car", id)
}

func (m *mockWorkItemRepository) List(ctx context.Context, status string) ([]*secondary.WorkItemRecord, error) {
	var result []*secondary.WorkItemRecord
	for _, c := range m.cars {
		if status != "" && c.Status != status {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockWorkItemRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.cars[id]
	return ok, nil
}

func (m *mockWorkItemRepository) SetStatus(ctx context.Context, id, status string) error {
	c, ok := m.cars[id]
	if !ok {
		return shoperr.NotFound("car", id)
	}
	c.Status = status
	return nil
}

// mockResourceRepository implements secondary.ResourceRepository for testing.
type mockResourceRepository struct {
	shops map[string]*secondary.ResourceRecord
}

func newMockResourceRepository() *mockResourceRepository {
	return &mockResourceRepository{shops: make(map[string]*secondary.ResourceRecord)}
}

func (m *mockResourceRepository) add(id, name string, capacity int) {
	m.shops[id] = &secondary.ResourceRecord{ID: id, Name: name, Capacity: capacity}
}

func (m *mockResourceRepository) Create(ctx context.Context, resource *secondary.ResourceRecord) error {
	m.shops[resource.ID] = resource
	return nil
}

func (m *mockResourceRepository) GetByID(ctx context.Context, id string) (*secondary.ResourceRecord, error) {
	if s, ok := m.shops[id]; ok {
		return s, nil
	}
	return nil, shoperr.NotFound("shop", id)
}

func (m *mockResourceRepository) List(ctx context.Context) ([]*secondary.ResourceRecord, error) {
	result := make([]*secondary.ResourceRecord, 0, len(m.shops))
	for _, s := range m.shops {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// mockScenarioRepository implements secondary.ScenarioRepository for testing.
type mockScenarioRepository struct {
	mu        sync.Mutex
	scenarios map[string]*secondary.ScenarioRecord
	applied   map[string]time.Time
}

func newMockScenarioRepository() *mockScenarioRepository {
	return &mockScenarioRepository{
		scenarios: make(map[string]*secondary.ScenarioRecord),
		applied:   make(map[string]time.Time),
	}
}

func (m *mockScenarioRepository) Create(ctx context.Context, s *secondary.ScenarioRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.CreatedAt = "2024-01-01T00:00:00Z"
	cp.UpdatedAt = cp.CreatedAt
	m.scenarios[s.ID] = &cp
	return nil
}

func (m *mockScenarioRepository) GetByID(ctx context.Context, id string) (*secondary.ScenarioRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scenarios[id]
	if !ok {
		return nil, shoperr.NotFound("scenario", id)
	}
	cp := *s
	cp.Entries = append([]secondary.ScenarioEntryRecord(nil), s.Entries...)
	return &cp, nil
}

func (m *mockScenarioRepository) List(ctx context.Context) ([]*secondary.ScenarioRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.ScenarioRecord
	for _, s := range m.scenarios {
		cp := *s
		cp.Entries = nil
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockScenarioRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenarios[id]; !ok {
		return shoperr.NotFound("scenario", id)
	}
	delete(m.scenarios, id)
	return nil
}

func (m *mockScenarioRepository) AddEntries(ctx context.Context, scenarioID string, entries []secondary.ScenarioEntryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scenarios[scenarioID]
	if !ok {
		return shoperr.NotFound("scenario", scenarioID)
	}
	s.Entries = append(s.Entries, entries...)
	return nil
}

func (m *mockScenarioRepository) RemoveEntry(ctx context.Context, scenarioID string, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scenarios[scenarioID]
	if !ok {
		return shoperr.NotFound("scenario", scenarioID)
	}
	if position >= len(s.Entries) {
		return shoperr.NotFound("scenario entry", scenarioID)
	}
	s.Entries = append(s.Entries[:position], s.Entries[position+1:]...)
	return nil
}

func (m *mockScenarioRepository) MarkApplied(ctx context.Context, scenarioID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scenarios[scenarioID]
	if !ok {
		return shoperr.NotFound("scenario", scenarioID)
	}
	m.applied[scenarioID] = at
	s.LastAppliedAt = at.UTC().Format(time.RFC3339)
	return nil
}

// mockHistoryStore implements secondary.HistoryStore for testing.
type mockHistoryStore struct {
	dumps   map[string]history.Dump
	saves   int
	loadErr error
	saveErr error
}

func newMockHistoryStore() *mockHistoryStore {
	return &mockHistoryStore{dumps: make(map[string]history.Dump)}
}

func (m *mockHistoryStore) Load(ctx context.Context, session string) (*history.Dump, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	d, ok := m.dumps[session]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *mockHistoryStore) Save(ctx context.Context, session string, dump history.Dump) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.dumps[session] = dump
	return nil
}

// mockMetricsSink counts the events it receives.
type mockMetricsSink struct {
	mu          sync.Mutex
	assignments map[string]int
	warnings    map[string]int
	historyOps  map[string]int
	undoDepth   int
	redoDepth   int
	applies     map[string]int
	applied     int
}

func newMockMetricsSink() *mockMetricsSink {
	return &mockMetricsSink{
		assignments: make(map[string]int),
		warnings:    make(map[string]int),
		historyOps:  make(map[string]int),
		applies:     make(map[string]int),
	}
}

func (m *mockMetricsSink) RecordAssignment(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[op]++
}

func (m *mockMetricsSink) RecordCapacityWarning(resourceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings[resourceID]++
}

func (m *mockMetricsSink) RecordHistoryOp(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historyOps[op]++
}

func (m *mockMetricsSink) SetHistoryDepth(undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undoDepth, m.redoDepth = undo, redo
}

func (m *mockMetricsSink) RecordScenarioApply(result string, created int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applies[result]++
	m.applied += created
}

// month returns the first day of a month in UTC.
func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// fixedClock returns a clock pinned to t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
