package app

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/example/shopplan/internal/ports/primary"
	"github.com/example/shopplan/internal/ports/secondary"
)

// mockAuditLogRepository implements secondary.AuditLogRepository for testing.
type mockAuditLogRepository struct {
	logs map[string]*secondary.AuditLogRecord
}

func newMockAuditLogRepository() *mockAuditLogRepository {
	return &mockAuditLogRepository{
		logs: make(map[string]*secondary.AuditLogRecord),
	}
}

func (m *mockAuditLogRepository) Create(ctx context.Context, log *secondary.AuditLogRecord) error {
	m.logs[log.ID] = log
	return nil
}

func (m *mockAuditLogRepository) List(ctx context.Context, filters secondary.AuditLogFilters) ([]*secondary.AuditLogRecord, error) {
	var result []*secondary.AuditLogRecord
	for _, l := range m.logs {
		if filters.WorkItemID != "" && l.WorkItemID != filters.WorkItemID {
			continue
		}
		if filters.ResourceID != "" && l.ResourceID != filters.ResourceID {
			continue
		}
		if filters.Period != "" && l.Period != filters.Period {
			continue
		}
		if filters.ActorID != "" && l.ActorID != filters.ActorID {
			continue
		}
		if filters.Action != "" && l.Action != filters.Action {
			continue
		}
		if filters.Subject != "" && l.WorkItemID != filters.Subject && l.ResourceID != filters.Subject && l.AssignmentID != filters.Subject {
			continue
		}
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp > result[j].Timestamp })

	// Apply limit
	if filters.Limit > 0 && len(result) > filters.Limit {
		result = result[:filters.Limit]
	}

	return result, nil
}

func (m *mockAuditLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	count := 0
	cutoff := time.Now().AddDate(0, 0, -days)
	for id, log := range m.logs {
		ts, err := time.Parse(time.RFC3339, log.Timestamp)
		if err != nil {
			continue
		}
		if ts.Before(cutoff) {
			delete(m.logs, id)
			count++
		}
	}
	return count, nil
}

func newTestLogService() (*LogServiceImpl, *mockAuditLogRepository) {
	repo := newMockAuditLogRepository()
	service := NewLogService(repo)
	return service, repo
}

func seedBookingLogs(repo *mockAuditLogRepository) {
	repo.logs["AL-0001"] = &secondary.AuditLogRecord{ID: "AL-0001", ActorID: "alice", Action: secondary.AuditAssign, WorkItemID: "CAR-001", ResourceID: "SHOP-001", Period: "2024-03", AssignmentID: "ASGN-1", Timestamp: "2024-01-01T12:00:00Z"}
	repo.logs["AL-0002"] = &secondary.AuditLogRecord{ID: "AL-0002", ActorID: "alice", Action: secondary.AuditStatus, WorkItemID: "CAR-001", OldStatus: "unassigned", NewStatus: "assigned", Timestamp: "2024-01-01T12:00:01Z"}
	repo.logs["AL-0003"] = &secondary.AuditLogRecord{ID: "AL-0003", ActorID: "bob", Action: secondary.AuditAssign, WorkItemID: "CAR-002", ResourceID: "SHOP-002", Period: "2024-04", AssignmentID: "ASGN-2", Timestamp: "2024-01-01T12:01:00Z"}
	repo.logs["AL-0004"] = &secondary.AuditLogRecord{ID: "AL-0004", ActorID: "bob", Action: secondary.AuditUnassign, WorkItemID: "CAR-001", ResourceID: "SHOP-001", Period: "2024-03", AssignmentID: "ASGN-1", Timestamp: "2024-01-01T12:02:00Z"}
}

func TestLogService_ListLogs(t *testing.T) {
	service, repo := newTestLogService()
	seedBookingLogs(repo)

	logs, err := service.ListLogs(context.Background(), primary.LogFilters{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(logs) != 4 {
		t.Fatalf("expected 4 logs, got %d", len(logs))
	}
	if logs[0].ID != "AL-0004" {
		t.Errorf("expected newest log first, got %q", logs[0].ID)
	}
	last := logs[3]
	if last.WorkItemID != "CAR-001" || last.ResourceID != "SHOP-001" || last.Period != "2024-03" || last.AssignmentID != "ASGN-1" {
		t.Errorf("expected booking fields to be carried through, got %+v", last)
	}
}

func TestLogService_ListLogs_WithFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters primary.LogFilters
		wantIDs []string
	}{
		{"by actor", primary.LogFilters{ActorID: "alice"}, []string{"AL-0002", "AL-0001"}},
		{"by car", primary.LogFilters{WorkItemID: "CAR-002"}, []string{"AL-0003"}},
		{"by shop and action", primary.LogFilters{ResourceID: "SHOP-001", Action: "unassign"}, []string{"AL-0004"}},
		{"month accepts a full date", primary.LogFilters{Period: "2024-03-15"}, []string{"AL-0004", "AL-0001"}},
		{"subject is an assignment", primary.LogFilters{Subject: "ASGN-1"}, []string{"AL-0004", "AL-0001"}},
		{"status moves", primary.LogFilters{Action: "status"}, []string{"AL-0002"}},
		{"limit", primary.LogFilters{Limit: 2}, []string{"AL-0004", "AL-0003"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newTestLogService()
			seedBookingLogs(repo)

			logs, err := service.ListLogs(context.Background(), tt.filters)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(logs) != len(tt.wantIDs) {
				t.Fatalf("expected %d logs, got %d", len(tt.wantIDs), len(logs))
			}
			for i, id := range tt.wantIDs {
				if logs[i].ID != id {
					t.Errorf("logs[%d] = %s, want %s", i, logs[i].ID, id)
				}
			}
		})
	}
}

func TestLogService_ListLogs_RejectsBadFilters(t *testing.T) {
	service, _ := newTestLogService()
	ctx := context.Background()

	if _, err := service.ListLogs(ctx, primary.LogFilters{Action: "create"}); err == nil {
		t.Error("expected error for unknown action")
	}
	if _, err := service.ListLogs(ctx, primary.LogFilters{Period: "March"}); err == nil {
		t.Error("expected error for unparseable month")
	}
}

func TestLogService_PruneLogs(t *testing.T) {
	service, repo := newTestLogService()
	ctx := context.Background()

	// Add old and new logs
	oldTime := time.Now().AddDate(0, 0, -60).Format(time.RFC3339) // 60 days old
	newTime := time.Now().Format(time.RFC3339)

	repo.logs["AL-0001"] = &secondary.AuditLogRecord{ID: "AL-0001", Action: secondary.AuditAssign, WorkItemID: "CAR-001", Timestamp: oldTime}
	repo.logs["AL-0002"] = &secondary.AuditLogRecord{ID: "AL-0002", Action: secondary.AuditAssign, WorkItemID: "CAR-002", Timestamp: newTime}

	count, err := service.PruneLogs(ctx, 30)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 pruned, got %d", count)
	}
	if len(repo.logs) != 1 {
		t.Errorf("expected 1 log remaining, got %d", len(repo.logs))
	}
}

func TestLogService_PruneLogs_RejectsNonPositiveDays(t *testing.T) {
	service, _ := newTestLogService()

	if _, err := service.PruneLogs(context.Background(), 0); err == nil {
		t.Error("expected error for zero days")
	}
}
