// Package metrics exposes planner events as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records planner events in Prometheus metrics.
type PromSink struct {
	assignments *prometheus.CounterVec
	warnings    *prometheus.CounterVec
	historyOps  *prometheus.CounterVec
	depth       *prometheus.GaugeVec
	applies     *prometheus.CounterVec
	applied     prometheus.Counter
}

// NewPromSink registers planner metrics on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. If the collectors are already
// registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	s := &PromSink{
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopplan_assignments_total",
			Help: "Committed assignment mutations by operation",
		}, []string{"op"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopplan_capacity_warnings_total",
			Help: "Assignments that pushed a shop over capacity",
		}, []string{"shop_id"}),
		historyOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopplan_history_ops_total",
			Help: "Undo and redo operations",
		}, []string{"op"}),
		depth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "shopplan_history_depth",
			Help: "Current undo and redo stack depths",
		}, []string{"stack"}),
		applies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopplan_scenario_applies_total",
			Help: "Scenario apply attempts by result",
		}, []string{"result"}),
		applied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopplan_scenario_assignments_total",
			Help: "Assignments created by scenario applies",
		}),
	}

	var err error
	if s.assignments, err = registerCounterVec(reg, s.assignments); err != nil {
		return nil, err
	}
	if s.warnings, err = registerCounterVec(reg, s.warnings); err != nil {
		return nil, err
	}
	if s.historyOps, err = registerCounterVec(reg, s.historyOps); err != nil {
		return nil, err
	}
	if s.applies, err = registerCounterVec(reg, s.applies); err != nil {
		return nil, err
	}
	if err := reg.Register(s.depth); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			s.depth = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(s.applied); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			s.applied = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return s, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}

// RecordAssignment counts a committed assignment mutation.
func (s *PromSink) RecordAssignment(op string) {
	s.assignments.WithLabelValues(op).Inc()
}

// RecordCapacityWarning counts an over-capacity assignment for a shop.
func (s *PromSink) RecordCapacityWarning(resourceID string) {
	s.warnings.WithLabelValues(resourceID).Inc()
}

// RecordHistoryOp counts an undo or redo.
func (s *PromSink) RecordHistoryOp(op string) {
	s.historyOps.WithLabelValues(op).Inc()
}

// SetHistoryDepth publishes the undo and redo depths.
func (s *PromSink) SetHistoryDepth(undo, redo int) {
	s.depth.WithLabelValues("undo").Set(float64(undo))
	s.depth.WithLabelValues("redo").Set(float64(redo))
}

// RecordScenarioApply counts an apply outcome and the assignments it created.
func (s *PromSink) RecordScenarioApply(result string, created int) {
	s.applies.WithLabelValues(result).Inc()
	if created > 0 {
		s.applied.Add(float64(created))
	}
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordAssignment(string)         {}
func (NopSink) RecordCapacityWarning(string)    {}
func (NopSink) RecordHistoryOp(string)          {}
func (NopSink) SetHistoryDepth(int, int)        {}
func (NopSink) RecordScenarioApply(string, int) {}

// ResultLabel maps an operation error to a result label.
func ResultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
