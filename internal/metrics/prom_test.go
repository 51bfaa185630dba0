package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromSink_RecordAssignment(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	sink.RecordAssignment("assign")
	sink.RecordAssignment("assign")
	sink.RecordAssignment("unassign")

	expected := `
# HELP shopplan_assignments_total Committed assignment mutations by operation
# TYPE shopplan_assignments_total counter
shopplan_assignments_total{op="assign"} 2
shopplan_assignments_total{op="unassign"} 1
`
	if err := testutil.CollectAndCompare(sink.assignments, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestPromSink_HistoryAndScenario(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	sink.RecordHistoryOp("undo")
	sink.SetHistoryDepth(3, 1)
	sink.RecordCapacityWarning("SHOP-001")
	sink.RecordScenarioApply("success", 4)
	sink.RecordScenarioApply("success", 0)

	if v := testutil.ToFloat64(sink.historyOps.WithLabelValues("undo")); v != 1 {
		t.Errorf("expected 1 undo, got %v", v)
	}
	if v := testutil.ToFloat64(sink.depth.WithLabelValues("undo")); v != 3 {
		t.Errorf("expected undo depth 3, got %v", v)
	}
	if v := testutil.ToFloat64(sink.depth.WithLabelValues("redo")); v != 1 {
		t.Errorf("expected redo depth 1, got %v", v)
	}
	if v := testutil.ToFloat64(sink.warnings.WithLabelValues("SHOP-001")); v != 1 {
		t.Errorf("expected 1 warning, got %v", v)
	}
	if v := testutil.ToFloat64(sink.applies.WithLabelValues("success")); v != 2 {
		t.Errorf("expected 2 applies, got %v", v)
	}
	if v := testutil.ToFloat64(sink.applied); v != 4 {
		t.Errorf("expected 4 applied assignments, got %v", v)
	}
}

func TestNewPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("first sink: %v", err)
	}
	second, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}

	first.RecordAssignment("assign")
	if v := testutil.ToFloat64(second.assignments.WithLabelValues("assign")); v != 1 {
		t.Errorf("expected shared counter, got %v", v)
	}
}

func TestHandler_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink.RecordAssignment("assign")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `shopplan_assignments_total{op="assign"} 1`) {
		t.Errorf("metrics output missing counter:\n%s", body)
	}
}

func TestResultLabel(t *testing.T) {
	if got := ResultLabel(nil); got != "success" {
		t.Errorf("expected success, got %s", got)
	}
	if got := ResultLabel(errors.New("boom")); got != "error" {
		t.Errorf("expected error, got %s", got)
	}
}
