package secondary

// MetricsSink receives planner events for monitoring.
type MetricsSink interface {
	// RecordAssignment counts a committed assignment mutation ("assign", "unassign").
	RecordAssignment(op string)

	// RecordCapacityWarning counts an assignment that pushed a shop over capacity.
	RecordCapacityWarning(resourceID string)

	// RecordHistoryOp counts an undo or redo.
	RecordHistoryOp(op string)

	// SetHistoryDepth publishes the current undo and redo depths.
	SetHistoryDepth(undo, redo int)

	// RecordScenarioApply counts a scenario apply outcome and the assignments it created.
	RecordScenarioApply(result string, created int)
}
