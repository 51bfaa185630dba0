package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

var now = time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC)

func TestWindow(t *testing.T) {
	from, to := Window(now)
	assert.Equal(t, month(2024, time.October), from)
	assert.Equal(t, month(2025, time.March), to)
}

func TestProject_AverageOverActiveMonths(t *testing.T) {
	series := Project(Input{
		Now:       now,
		Resources: []Resource{{ID: "SHOP-1", Name: "North", Capacity: 10}},
		Tallies: []Tally{
			{ResourceID: "SHOP-1", Period: month(2025, time.January), Count: 6},
			{ResourceID: "SHOP-1", Period: month(2025, time.March), Count: 9},
			// outside the window
			{ResourceID: "SHOP-1", Period: month(2024, time.September), Count: 40},
			{ResourceID: "SHOP-1", Period: month(2025, time.April), Count: 40},
		},
	})
	require.Len(t, series, 1)
	s := series[0]
	assert.Equal(t, 7.5, s.Average)
	assert.Equal(t, 2, s.ActiveMonths)
	require.Len(t, s.Points, DefaultMonths)
	assert.Equal(t, "2025-04", s.Points[0].Period)
	assert.Equal(t, "2025-09", s.Points[5].Period)
	for _, p := range s.Points {
		assert.Equal(t, 8, p.Projected)
		assert.Equal(t, 80.0, p.UtilizationPercent)
		assert.Equal(t, "near", p.Status)
	}
}

func TestProject_Statuses(t *testing.T) {
	series := Project(Input{
		Now:    now,
		Months: 2,
		Resources: []Resource{
			{ID: "IDLE", Capacity: 5},
			{ID: "OVER", Capacity: 5},
			{ID: "OK", Capacity: 5},
		},
		Tallies: []Tally{
			{ResourceID: "OVER", Period: month(2025, time.February), Count: 7},
			{ResourceID: "OK", Period: month(2025, time.February), Count: 1},
		},
	})
	require.Len(t, series, 3)

	assert.Equal(t, 0.0, series[0].Average)
	assert.Equal(t, "good", series[0].Points[0].Status)
	assert.Len(t, series[0].Points, 2)

	assert.Equal(t, "over", series[1].Points[1].Status)
	assert.Equal(t, 7, series[1].Points[1].Projected)

	assert.Equal(t, "good", series[2].Points[0].Status)
}

func TestProject_RoundsHalfUp(t *testing.T) {
	series := Project(Input{
		Now:       now,
		Months:    1,
		Resources: []Resource{{ID: "S", Capacity: 10}},
		Tallies: []Tally{
			{ResourceID: "S", Period: month(2024, time.December), Count: 2},
			{ResourceID: "S", Period: month(2025, time.January), Count: 3},
		},
	})
	assert.Equal(t, 3, series[0].Points[0].Projected)
}
