package primary

import (
	"context"
	"time"
)

// LedgerService defines the primary port for capacity reads over committed assignments.
type LedgerService interface {
	// AssignedCount returns the committed assignments for a shop in a month.
	AssignedCount(ctx context.Context, resourceID string, period time.Time) (int, error)

	// UtilizationPercent returns AssignedCount as a percentage of the shop's capacity.
	UtilizationPercent(ctx context.Context, resourceID string, period time.Time) (float64, error)

	// Report returns the per-shop, per-month utilization grid for [from, to].
	Report(ctx context.Context, from, to time.Time) (*CapacityReport, error)
}

// CapacityReport is a utilization grid.
type CapacityReport struct {
	From  string             `json:"from"`
	To    string             `json:"to"`
	Shops []*ShopUtilization `json:"shops"`
}

// ShopUtilization is one shop's row of the grid.
type ShopUtilization struct {
	ResourceID string              `json:"resource_id"`
	Name       string              `json:"name"`
	Capacity   int                 `json:"capacity"`
	Months     []*MonthUtilization `json:"months"`
}

// MonthUtilization is one cell of the grid.
type MonthUtilization struct {
	Period             string  `json:"period"`
	Assigned           int     `json:"assigned"`
	UtilizationPercent float64 `json:"utilization_percent"`
	Status             string  `json:"status"`
	Over               bool    `json:"over"`
}
