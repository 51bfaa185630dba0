package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/shopplan/internal/core/scenario"
	"github.com/example/shopplan/internal/ports/primary"
	"github.com/example/shopplan/internal/wire"
)

// ScenarioCmd returns the scenario command
func ScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Build, evaluate and apply what-if plans",
		Long: `Scenarios are named lists of proposed assignments. Evaluating a scenario
never touches committed assignments; applying one commits every entry in a
single transaction.`,
	}

	cmd.AddCommand(scenarioCreateCmd())
	cmd.AddCommand(scenarioAddCmd())
	cmd.AddCommand(scenarioRemoveCmd())
	cmd.AddCommand(scenarioListCmd())
	cmd.AddCommand(scenarioShowCmd())
	cmd.AddCommand(scenarioEvaluateCmd())
	cmd.AddCommand(scenarioApplyCmd())
	cmd.AddCommand(scenarioDeleteCmd())

	return cmd
}

func scenarioCreateCmd() *cobra.Command {
	var description string
	var entryFlags []string
	var file string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a scenario",
		Long: `Create a scenario, optionally seeded with proposed assignments.

Examples:
  shopplan scenario create "Q2 push"
  shopplan scenario create "Q2 push" --entry CAR-001:SHOP-001:2024-04
  shopplan scenario create "Q2 push" --file q2.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := collectEntries(entryFlags, file)
			if err != nil {
				return err
			}
			_, err = wire.PlanningAdapter().CreateScenario(NewContext(), primary.CreateScenarioRequest{
				Name:        args[0],
				Description: description,
				Entries:     entries,
			})
			if err != nil {
				return fmt.Errorf("failed to create scenario: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Scenario description")
	addEntryFlags(cmd, &entryFlags, &file)

	return cmd
}

func scenarioAddCmd() *cobra.Command {
	var entryFlags []string
	var file string

	cmd := &cobra.Command{
		Use:   "add [scenario-id]",
		Short: "Add proposed assignments to a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "scenario"); err != nil {
				return err
			}
			entries, err := collectEntries(entryFlags, file)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("nothing to add: pass --entry or --file")
			}
			_, err = wire.PlanningAdapter().AddEntries(NewContext(), args[0], entries)
			return err
		},
	}

	addEntryFlags(cmd, &entryFlags, &file)

	return cmd
}

func scenarioRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [scenario-id] [position]",
		Short: "Remove a proposed assignment by position (see scenario show)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "scenario"); err != nil {
				return err
			}
			position, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}
			_, err = wire.PlanningAdapter().RemoveEntry(NewContext(), args[0], position)
			return err
		},
	}
}

func scenarioListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.PlanningAdapter().ListScenarios(NewContext())
			return err
		},
	}
}

func scenarioShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [scenario-id]",
		Short: "Show a scenario and its proposed assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "scenario"); err != nil {
				return err
			}
			_, err := wire.PlanningAdapter().ShowScenario(NewContext(), args[0])
			return err
		},
	}
}

func scenarioEvaluateCmd() *cobra.Command {
	var entryFlags []string
	var file string

	cmd := &cobra.Command{
		Use:   "evaluate [scenario-id]",
		Short: "Score a scenario against committed assignments",
		Long: `Score a stored scenario, or an ad-hoc list given with --entry/--file,
against the committed assignments. Nothing is written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			if len(args) == 1 {
				if err := validateEntityID(args[0], "scenario"); err != nil {
					return err
				}
				_, err := wire.PlanningAdapter().EvaluateScenario(ctx, args[0])
				return err
			}

			entries, err := collectEntries(entryFlags, file)
			if err != nil {
				return err
			}
			_, err = wire.PlanningAdapter().Evaluate(ctx, entries)
			return err
		},
	}

	addEntryFlags(cmd, &entryFlags, &file)

	return cmd
}

func scenarioApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply [scenario-id]",
		Short: "Commit every proposed assignment in a scenario",
		Long: `Commit every proposed assignment in one transaction. Entries already
committed are skipped, so applying twice is a no-op. The whole apply is a
single undo step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "scenario"); err != nil {
				return err
			}
			_, err := wire.PlanningAdapter().ApplyScenario(NewContext(), args[0])
			return err
		},
	}
}

func scenarioDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [scenario-id]",
		Short: "Delete a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "scenario"); err != nil {
				return err
			}
			return wire.PlanningAdapter().DeleteScenario(NewContext(), args[0])
		},
	}
}

func addEntryFlags(cmd *cobra.Command, entryFlags *[]string, file *string) {
	cmd.Flags().StringArrayVarP(entryFlags, "entry", "e", nil, "Proposed assignment as CAR:SHOP:PERIOD (repeatable)")
	cmd.Flags().StringVarP(file, "file", "f", "", "JSON file holding a list of {work_item_id, resource_id, period}")
}

// collectEntries merges --file entries with --entry flags, file first.
func collectEntries(entryFlags []string, file string) ([]scenario.RawEntry, error) {
	var entries []scenario.RawEntry
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
	}
	for _, raw := range entryFlags {
		e, err := parseEntryFlag(raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// parseEntryFlag splits CAR:SHOP:PERIOD. The period is validated later.
func parseEntryFlag(raw string) (scenario.RawEntry, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 {
		return scenario.RawEntry{}, fmt.Errorf("invalid entry %q: expected CAR:SHOP:PERIOD", raw)
	}
	return scenario.RawEntry{
		WorkItemID: strings.TrimSpace(parts[0]),
		ResourceID: strings.TrimSpace(parts[1]),
		Period:     strings.TrimSpace(parts[2]),
	}, nil
}
