// Package capacity contains the pure utilization math shared by the ledger,
// the scenario evaluator and the forecast projector.
package capacity

// Level is the traffic-light classification of a shop's load for a month.
type Level string

const (
	LevelGreen  Level = "green"
	LevelYellow Level = "yellow"
	LevelRed    Level = "red"
)

// NearThresholdPercent is the utilization at or above which a shop is "near" capacity.
const NearThresholdPercent = 80.0

// IsOverCapacity reports whether count exceeds capacity. A full shop is not over.
func IsOverCapacity(count, capacity int) bool {
	return count > capacity
}

// UtilizationPercent returns count as a percentage of capacity, or 0 for a non-positive capacity.
func UtilizationPercent(count, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(count) * 100 / float64(capacity)
}

// Overload returns how many assignments exceed capacity, never negative.
func Overload(count, capacity int) int {
	if count > capacity {
		return count - capacity
	}
	return 0
}

// Classify maps a total against capacity onto a Level.
// Rules:
// - red when total > capacity
// - yellow when utilization >= 80%
// - green otherwise
//
// A shop at exactly 100% is therefore yellow, not green.
func Classify(total, capacity int) Level {
	if IsOverCapacity(total, capacity) {
		return LevelRed
	}
	if UtilizationPercent(total, capacity) >= NearThresholdPercent {
		return LevelYellow
	}
	return LevelGreen
}

// ForecastLabel maps a Level onto the labels used by forecast series.
func (l Level) ForecastLabel() string {
	switch l {
	case LevelRed:
		return "over"
	case LevelYellow:
		return "near"
	default:
		return "good"
	}
}
