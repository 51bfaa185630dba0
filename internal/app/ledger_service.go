package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/shopplan/internal/core/capacity"
	"github.com/example/shopplan/internal/core/period"
	"github.com/example/shopplan/internal/ports/primary"
	"github.com/example/shopplan/internal/ports/secondary"
)

// LedgerServiceImpl implements the LedgerService interface.
type LedgerServiceImpl struct {
	assignments secondary.AssignmentRepository
	resources   secondary.ResourceRepository
}

// NewLedgerService creates a new LedgerService with injected dependencies.
func NewLedgerService(assignments secondary.AssignmentRepository, resources secondary.ResourceRepository) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		assignments: assignments,
		resources:   resources,
	}
}

// AssignedCount returns the committed assignments for a shop in a month.
func (s *LedgerServiceImpl) AssignedCount(ctx context.Context, resourceID string, p time.Time) (int, error) {
	return s.assignments.CountByResourcePeriod(ctx, resourceID, period.Normalize(p))
}

// UtilizationPercent returns AssignedCount as a percentage of the shop's capacity.
func (s *LedgerServiceImpl) UtilizationPercent(ctx context.Context, resourceID string, p time.Time) (float64, error) {
	shop, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return 0, err
	}
	count, err := s.AssignedCount(ctx, resourceID, p)
	if err != nil {
		return 0, err
	}
	return capacity.UtilizationPercent(count, shop.Capacity), nil
}

// Report returns the per-shop, per-month utilization grid for [from, to].
// Bounds given in reverse order are swapped.
func (s *LedgerServiceImpl) Report(ctx context.Context, from, to time.Time) (*primary.CapacityReport, error) {
	from, to = period.Normalize(from), period.Normalize(to)
	if to.Before(from) {
		from, to = to, from
	}

	shops, err := s.resources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}

	tallies, err := s.assignments.Tallies(ctx, secondary.TallyFilters{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to tally assignments: %w", err)
	}

	counts := make(map[string]map[string]int, len(shops))
	for _, t := range tallies {
		if counts[t.ResourceID] == nil {
			counts[t.ResourceID] = make(map[string]int)
		}
		counts[t.ResourceID][period.Key(t.Period)] = t.Count
	}

	report := &primary.CapacityReport{
		From: period.Key(from),
		To:   period.Key(to),
	}
	for _, shop := range shops {
		row := &primary.ShopUtilization{
			ResourceID: shop.ID,
			Name:       shop.Name,
			Capacity:   shop.Capacity,
		}
		for m := from; !m.After(to); m = period.Next(m) {
			key := period.Key(m)
			n := counts[shop.ID][key]
			row.Months = append(row.Months, &primary.MonthUtilization{
				Period:             key,
				Assigned:           n,
				UtilizationPercent: capacity.UtilizationPercent(n, shop.Capacity),
				Status:             string(capacity.Classify(n, shop.Capacity)),
				Over:               capacity.IsOverCapacity(n, shop.Capacity),
			})
		}
		report.Shops = append(report.Shops, row)
	}

	return report, nil
}

// Ensure LedgerServiceImpl implements the interface
var _ primary.LedgerService = (*LedgerServiceImpl)(nil)
