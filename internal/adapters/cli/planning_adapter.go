package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/example/shopplan/internal/core/capacity"
	"github.com/example/shopplan/internal/core/forecast"
	"github.com/example/shopplan/internal/core/scenario"
	"github.com/example/shopplan/internal/ports/primary"
)

// PlanningAdapter renders capacity reports, scenario evaluations and forecasts.
type PlanningAdapter struct {
	ledger    primary.LedgerService
	scenarios primary.ScenarioService
	forecasts primary.ForecastService
	out       io.Writer
}

// NewPlanningAdapter creates a new PlanningAdapter with the given services.
func NewPlanningAdapter(ledger primary.LedgerService, scenarios primary.ScenarioService, forecasts primary.ForecastService, out io.Writer) *PlanningAdapter {
	return &PlanningAdapter{
		ledger:    ledger,
		scenarios: scenarios,
		forecasts: forecasts,
		out:       out,
	}
}

// Report prints the utilization grid, one row per shop and one column per month.
func (a *PlanningAdapter) Report(ctx context.Context, from, to time.Time) (*primary.CapacityReport, error) {
	report, err := a.ledger.Report(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build capacity report: %w", err)
	}

	if len(report.Shops) == 0 {
		fmt.Fprintln(a.out, "No shops found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Register a shop first:")
		fmt.Fprintln(a.out, "  shopplan shop add \"North Yard\" --capacity 40")
		return report, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	header := []string{"SHOP", "CAP"}
	for _, m := range report.Shops[0].Months {
		header = append(header, m.Period)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, shop := range report.Shops {
		cells := []string{shop.ResourceID, fmt.Sprint(shop.Capacity)}
		for _, m := range shop.Months {
			cells = append(cells, levelColor(capacity.Level(m.Status)).Sprintf("%d (%.0f%%)", m.Assigned, m.UtilizationPercent))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	w.Flush()
	return report, nil
}

// Evaluate prints the evaluation of an ad-hoc proposed list.
func (a *PlanningAdapter) Evaluate(ctx context.Context, proposed []scenario.RawEntry) (*scenario.Result, error) {
	result, err := a.scenarios.Evaluate(ctx, proposed)
	if err != nil {
		return nil, err
	}
	a.printEvaluation(result)
	return result, nil
}

// EvaluateScenario prints the evaluation of a stored plan.
func (a *PlanningAdapter) EvaluateScenario(ctx context.Context, scenarioID string) (*scenario.Result, error) {
	result, err := a.scenarios.EvaluateScenario(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "Scenario %s\n\n", scenarioID)
	a.printEvaluation(result)
	return result, nil
}

func (a *PlanningAdapter) printEvaluation(result *scenario.Result) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHOP\tCAP\tPEAK\tUTIL\tSTATUS\tEARLIEST")
	fmt.Fprintln(w, "----\t---\t----\t----\t------\t--------")
	for _, r := range result.Resources {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\t%s\t%s\n",
			r.ResourceID,
			r.Capacity,
			r.MaxTotal,
			r.UtilizationPercent,
			levelColor(r.Status).Sprint(r.Status),
			r.EarliestSlot,
		)
	}
	w.Flush()

	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Fit score: %.2f (%d/%d shops green)\n", result.FitScore, result.GreenResources, result.TotalResources)
	if result.TotalOverload > 0 {
		fmt.Fprintf(a.out, "Overload:  %s\n", color.New(color.FgRed).Sprintf("%d over capacity", result.TotalOverload))
	}
}

// CreateScenario creates a plan and prints its ID.
func (a *PlanningAdapter) CreateScenario(ctx context.Context, req primary.CreateScenarioRequest) (*primary.Scenario, error) {
	sc, err := a.scenarios.CreateScenario(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Created scenario %s: %s\n", sc.ID, sc.Name)
	if len(sc.Entries) > 0 {
		fmt.Fprintf(a.out, "  %d proposed assignment(s)\n", len(sc.Entries))
	}
	return sc, nil
}

// ListScenarios lists plans.
func (a *PlanningAdapter) ListScenarios(ctx context.Context) ([]*primary.Scenario, error) {
	scenarios, err := a.scenarios.ListScenarios(ctx)
	if err != nil {
		return nil, err
	}

	if len(scenarios) == 0 {
		fmt.Fprintln(a.out, "No scenarios found.")
		return scenarios, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tUPDATED\tLAST APPLIED")
	fmt.Fprintln(w, "--\t----\t-------\t------------")
	for _, sc := range scenarios {
		applied := sc.LastAppliedAt
		if applied == "" {
			applied = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sc.ID, sc.Name, sc.UpdatedAt, applied)
	}
	w.Flush()
	return scenarios, nil
}

// ShowScenario prints a plan and its proposed assignments.
func (a *PlanningAdapter) ShowScenario(ctx context.Context, scenarioID string) (*primary.Scenario, error) {
	sc, err := a.scenarios.GetScenario(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nScenario: %s\n", sc.ID)
	fmt.Fprintf(a.out, "Name:    %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Fprintf(a.out, "About:   %s\n", sc.Description)
	}
	fmt.Fprintf(a.out, "Created: %s\n", sc.CreatedAt)
	if sc.LastAppliedAt != "" {
		fmt.Fprintf(a.out, "Applied: %s\n", sc.LastAppliedAt)
	}
	fmt.Fprintln(a.out)

	if len(sc.Entries) == 0 {
		fmt.Fprintln(a.out, "No proposed assignments.")
		return sc, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tCAR\tSHOP\tPERIOD")
	for i, e := range sc.Entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, e.WorkItemID, e.ResourceID, e.Period)
	}
	w.Flush()
	return sc, nil
}

// AddEntries appends proposed assignments to a plan.
func (a *PlanningAdapter) AddEntries(ctx context.Context, scenarioID string, entries []scenario.RawEntry) (*primary.Scenario, error) {
	sc, err := a.scenarios.AddEntries(ctx, scenarioID, entries)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Added %d entry(ies) to %s (%d total)\n", len(entries), sc.ID, len(sc.Entries))
	return sc, nil
}

// RemoveEntry drops a proposed assignment by position.
func (a *PlanningAdapter) RemoveEntry(ctx context.Context, scenarioID string, position int) (*primary.Scenario, error) {
	sc, err := a.scenarios.RemoveEntry(ctx, scenarioID, position)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Removed entry %d from %s (%d left)\n", position, sc.ID, len(sc.Entries))
	return sc, nil
}

// DeleteScenario deletes a plan.
func (a *PlanningAdapter) DeleteScenario(ctx context.Context, scenarioID string) error {
	if err := a.scenarios.DeleteScenario(ctx, scenarioID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Deleted scenario %s\n", scenarioID)
	return nil
}

// ApplyScenario commits a plan and prints what was created.
func (a *PlanningAdapter) ApplyScenario(ctx context.Context, scenarioID string) ([]*primary.Assignment, error) {
	created, err := a.scenarios.ApplyScenario(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	if len(created) == 0 {
		fmt.Fprintf(a.out, "✓ Scenario %s already applied, nothing to do\n", scenarioID)
		return created, nil
	}

	fmt.Fprintf(a.out, "✓ Applied scenario %s: %d assignment(s) created\n", scenarioID, len(created))
	for _, as := range created {
		fmt.Fprintf(a.out, "  %s  %s → %s (%s)\n", as.ID, as.WorkItemID, as.ResourceID, as.Period)
	}
	return created, nil
}

// Forecast prints projected load per shop.
func (a *PlanningAdapter) Forecast(ctx context.Context, shopID string, months int) ([]forecast.Series, error) {
	series, err := a.forecasts.Forecast(ctx, shopID, months)
	if err != nil {
		return nil, err
	}

	if len(series) == 0 {
		fmt.Fprintln(a.out, "No shops found.")
		return series, nil
	}

	for _, s := range series {
		fmt.Fprintf(a.out, "%s (%s) capacity %d, average %.1f over %d active month(s)\n",
			s.ResourceID, s.Name, s.Capacity, s.Average, s.ActiveMonths)

		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		for _, p := range s.Points {
			fmt.Fprintf(w, "  %s\t%d\t%.0f%%\t%s\n", p.Period, p.Projected, p.UtilizationPercent, forecastColor(p.Status).Sprint(p.Status))
		}
		w.Flush()
		fmt.Fprintln(a.out)
	}
	return series, nil
}

func levelColor(l capacity.Level) *color.Color {
	switch l {
	case capacity.LevelRed:
		return color.New(color.FgRed)
	case capacity.LevelYellow:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func forecastColor(label string) *color.Color {
	switch label {
	case "over":
		return levelColor(capacity.LevelRed)
	case "near":
		return levelColor(capacity.LevelYellow)
	default:
		return levelColor(capacity.LevelGreen)
	}
}
