// Package forecast extrapolates recent per-shop monthly load into future months.
package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/example/shopplan/internal/core/capacity"
	"github.com/example/shopplan/internal/core/period"
)

const (
	// DefaultMonths is the projection horizon when none is given.
	DefaultMonths = 6
	// WindowMonths is the trailing history window, current month included.
	WindowMonths = 6
)

// Resource is the capacity-relevant view of a shop.
type Resource struct {
	ID       string
	Name     string
	Capacity int
}

// Tally is a committed assignment count for one shop and month.
type Tally struct {
	ResourceID string
	Period     time.Time
	Count      int
}

// Input bundles everything Project reads.
type Input struct {
	Now       time.Time
	Months    int
	Resources []Resource
	Tallies   []Tally
}

// Point is one projected month.
type Point struct {
	Period             string  `json:"period"`
	Projected          int     `json:"projected"`
	UtilizationPercent float64 `json:"utilization_percent"`
	Status             string  `json:"status"`
}

// Series is the projection for one shop.
type Series struct {
	ResourceID   string  `json:"resource_id"`
	Name         string  `json:"name"`
	Capacity     int     `json:"capacity"`
	Average      float64 `json:"average"`
	ActiveMonths int     `json:"active_months"`
	Points       []Point `json:"points"`
}

// Window returns the first and last month of the trailing history window for now.
func Window(now time.Time) (from, to time.Time) {
	to = period.Normalize(now)
	return period.Add(to, -(WindowMonths - 1)), to
}

// Project builds one Series per resource. Every projected month carries the
// same rounded average; there is no trend.
func Project(in Input) []Series {
	months := in.Months
	if months <= 0 {
		months = DefaultMonths
	}
	from, to := Window(in.Now)

	perResource := make(map[string]map[string]int)
	for _, t := range in.Tallies {
		p := period.Normalize(t.Period)
		if p.Before(from) || p.After(to) || t.Count <= 0 {
			continue
		}
		byMonth, ok := perResource[t.ResourceID]
		if !ok {
			byMonth = make(map[string]int)
			perResource[t.ResourceID] = byMonth
		}
		byMonth[period.Key(p)] += t.Count
	}

	series := make([]Series, 0, len(in.Resources))
	for _, r := range in.Resources {
		s := Series{ResourceID: r.ID, Name: r.Name, Capacity: r.Capacity, Points: make([]Point, 0, months)}

		// Walk the window in calendar order so the mean is computed over a stable slice.
		var active []float64
		for m := from; !m.After(to); m = period.Next(m) {
			if c := perResource[r.ID][period.Key(m)]; c > 0 {
				active = append(active, float64(c))
			}
		}
		if len(active) > 0 {
			s.Average = stat.Mean(active, nil)
		}
		s.ActiveMonths = len(active)

		projected := int(math.Round(s.Average))
		level := capacity.Classify(projected, r.Capacity)
		for i := 1; i <= months; i++ {
			s.Points = append(s.Points, Point{
				Period:             period.Key(period.Add(to, i)),
				Projected:          projected,
				UtilizationPercent: capacity.UtilizationPercent(projected, r.Capacity),
				Status:             level.ForecastLabel(),
			})
		}
		series = append(series, s)
	}
	return series
}
