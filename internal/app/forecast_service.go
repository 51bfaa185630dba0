package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/shopplan/internal/core/forecast"
	"github.com/example/shopplan/internal/ports/primary"
	"github.com/example/shopplan/internal/ports/secondary"
)

// ForecastServiceImpl implements the ForecastService interface.
type ForecastServiceImpl struct {
	assignments   secondary.AssignmentRepository
	resources     secondary.ResourceRepository
	defaultMonths int
	now           func() time.Time
}

// NewForecastService creates a new ForecastService. defaultMonths applies when
// a caller passes a non-positive horizon.
func NewForecastService(
	assignments secondary.AssignmentRepository,
	resources secondary.ResourceRepository,
	defaultMonths int,
	opts ...Option,
) *ForecastServiceImpl {
	if defaultMonths <= 0 {
		defaultMonths = forecast.DefaultMonths
	}
	o := applyOptions(opts)
	return &ForecastServiceImpl{
		assignments:   assignments,
		resources:     resources,
		defaultMonths: defaultMonths,
		now:           o.now,
	}
}

// Forecast projects monthly load for one shop (resourceID set) or all shops.
func (s *ForecastServiceImpl) Forecast(ctx context.Context, resourceID string, months int) ([]forecast.Series, error) {
	if months <= 0 {
		months = s.defaultMonths
	}

	var shops []*secondary.ResourceRecord
	if resourceID != "" {
		shop, err := s.resources.GetByID(ctx, resourceID)
		if err != nil {
			return nil, err
		}
		shops = []*secondary.ResourceRecord{shop}
	} else {
		all, err := s.resources.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list shops: %w", err)
		}
		shops = all
	}

	now := s.now()
	from, to := forecast.Window(now)
	filters := secondary.TallyFilters{From: from, To: to}
	if resourceID != "" {
		filters.ResourceIDs = []string{resourceID}
	}
	tallies, err := s.assignments.Tallies(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to tally assignments: %w", err)
	}

	in := forecast.Input{Now: now, Months: months}
	for _, shop := range shops {
		in.Resources = append(in.Resources, forecast.Resource{ID: shop.ID, Name: shop.Name, Capacity: shop.Capacity})
	}
	for _, t := range tallies {
		in.Tallies = append(in.Tallies, forecast.Tally{ResourceID: t.ResourceID, Period: t.Period, Count: t.Count})
	}

	return forecast.Project(in), nil
}

// Ensure ForecastServiceImpl implements the interface
var _ primary.ForecastService = (*ForecastServiceImpl)(nil)
