// Package scenario contains the pure what-if evaluation of proposed assignments
// against the committed ledger. Nothing here performs I/O.
package scenario

import (
	"math"
	"strings"
	"time"

	"github.com/example/shopplan/internal/core/capacity"
	"github.com/example/shopplan/internal/core/period"
	"github.com/example/shopplan/internal/core/shoperr"
)

// RawEntry is a proposed assignment as received from a caller.
type RawEntry struct {
	WorkItemID string `json:"work_item_id"`
	ResourceID string `json:"resource_id"`
	Period     string `json:"period"`
}

// Entry is a validated proposed assignment.
type Entry struct {
	WorkItemID string
	ResourceID string
	Period     time.Time
}

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

// Input bundles everything Evaluate reads.
type Input struct {
	Now       time.Time
	Resources []Resource
	Committed []Tally
	Proposed  []Entry
}

// PeriodLoad is the merged load of one touched month.
type PeriodLoad struct {
	Period    string `json:"period"`
	Committed int    `json:"committed"`
	Proposed  int    `json:"proposed"`
	Total     int    `json:"total"`
}

// ResourceResult is the evaluation of one shop.
type ResourceResult struct {
	ResourceID         string         `json:"resource_id"`
	Name               string         `json:"name"`
	Capacity           int            `json:"capacity"`
	MaxTotal           int            `json:"max_total"`
	MaxOverload        int            `json:"max_overload"`
	UtilizationPercent float64        `json:"utilization_percent"`
	Status             capacity.Level `json:"status"`
	EarliestSlot       string         `json:"earliest_slot"`
	Periods            []PeriodLoad   `json:"periods"`
}

// Result is the aggregate evaluation.
type Result struct {
	Resources      []ResourceResult `json:"resources"`
	FitScore       float64          `json:"fit_score"`
	TotalOverload  int              `json:"total_overload"`
	GreenResources int              `json:"green_resources"`
	TotalResources int              `json:"total_resources"`
}

// ParseEntries validates raw proposed entries.
func ParseEntries(raw []RawEntry) ([]Entry, error) {
	entries := make([]Entry, 0, len(raw))
	for i, r := range raw {
		workItemID := strings.TrimSpace(r.WorkItemID)
		resourceID := strings.TrimSpace(r.ResourceID)
		if workItemID == "" {
			return nil, shoperr.InvalidScenarioData("entry %d: work_item_id is required", i)
		}
		if resourceID == "" {
			return nil, shoperr.InvalidScenarioData("entry %d: resource_id is required", i)
		}
		p, err := period.Parse(r.Period)
		if err != nil {
			return nil, shoperr.InvalidScenarioData("entry %d: %v", i, err)
		}
		entries = append(entries, Entry{WorkItemID: workItemID, ResourceID: resourceID, Period: p})
	}
	return entries, nil
}

// Evaluate merges committed tallies with proposed entries for every resource.
// The result depends only on in.
func Evaluate(in Input) Result {
	committed := make(map[string][]Tally)
	for _, t := range in.Committed {
		committed[t.ResourceID] = append(committed[t.ResourceID], t)
	}
	proposed := make(map[string][]Entry)
	for _, e := range in.Proposed {
		proposed[e.ResourceID] = append(proposed[e.ResourceID], e)
	}

	fallback := period.Key(period.Next(in.Now))
	res := Result{
		Resources:      make([]ResourceResult, 0, len(in.Resources)),
		TotalResources: len(in.Resources),
	}

	for _, r := range in.Resources {
		rr := evaluateResource(r, committed[r.ID], proposed[r.ID], fallback)
		if rr.Status == capacity.LevelGreen {
			res.GreenResources++
		}
		res.TotalOverload += rr.MaxOverload
		res.Resources = append(res.Resources, rr)
	}

	if res.TotalResources > 0 {
		score := float64(res.GreenResources) * 100 / float64(res.TotalResources)
		res.FitScore = math.Round(score*100) / 100
	}
	return res
}

// evaluateResource tallies one shop. Month keys keep first-seen order:
// committed tallies first, then proposed entries.
func evaluateResource(r Resource, committed []Tally, proposed []Entry, fallback string) ResourceResult {
	var order []string
	loads := make(map[string]*PeriodLoad)
	touch := func(key string) *PeriodLoad {
		pl, ok := loads[key]
		if !ok {
			pl = &PeriodLoad{Period: key}
			loads[key] = pl
			order = append(order, key)
		}
		return pl
	}

	for _, t := range committed {
		touch(period.Key(t.Period)).Committed += t.Count
	}
	for _, e := range proposed {
		touch(period.Key(e.Period)).Proposed++
	}

	rr := ResourceResult{
		ResourceID: r.ID,
		Name:       r.Name,
		Capacity:   r.Capacity,
		Periods:    make([]PeriodLoad, 0, len(order)),
	}
	for _, key := range order {
		pl := loads[key]
		pl.Total = pl.Committed + pl.Proposed
		if pl.Total > rr.MaxTotal {
			rr.MaxTotal = pl.Total
		}
		if o := capacity.Overload(pl.Total, r.Capacity); o > rr.MaxOverload {
			rr.MaxOverload = o
		}
		if rr.EarliestSlot == "" && pl.Total < r.Capacity {
			rr.EarliestSlot = key
		}
		rr.Periods = append(rr.Periods, *pl)
	}
	if rr.EarliestSlot == "" {
		// Next month is not checked against its own load.
		rr.EarliestSlot = fallback
	}

	rr.UtilizationPercent = capacity.UtilizationPercent(rr.MaxTotal, r.Capacity)
	rr.Status = capacity.Classify(rr.MaxTotal, r.Capacity)
	return rr
}
