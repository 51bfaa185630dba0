package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/shopplan/internal/core/period"
	"github.com/example/shopplan/internal/ports/primary"
	"github.com/example/shopplan/internal/wire"
)

// AssignCmd returns the assign command
func AssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign [car-id] [shop-id] [period]",
		Short: "Assign a car to a shop for a month",
		Long: `Assign a car to a shop for a month. Any date inside the month is accepted.

The assignment is committed even when the shop is over capacity; a warning is
printed instead.

Examples:
  shopplan assign CAR-001 SHOP-001 2024-03
  shopplan assign CAR-002 SHOP-001 2024-03-15`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := period.Parse(args[2])
			if err != nil {
				return err
			}
			if _, err := wire.AssignmentAdapter().Assign(NewContext(), args[0], args[1], p); err != nil {
				return fmt.Errorf("failed to assign: %w", err)
			}
			return nil
		},
	}
}

// UnassignCmd returns the unassign command
func UnassignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign [assignment-id]",
		Short: "Remove an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "assignment"); err != nil {
				return err
			}
			if err := wire.AssignmentAdapter().Unassign(NewContext(), args[0]); err != nil {
				return fmt.Errorf("failed to unassign: %w", err)
			}
			return nil
		},
	}
}

// AssignmentCmd returns the assignment command
func AssignmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignment",
		Short: "Inspect committed assignments",
	}

	cmd.AddCommand(assignmentListCmd())

	return cmd
}

func assignmentListCmd() *cobra.Command {
	var carID, shopID, month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := primary.AssignmentFilters{
				WorkItemID: carID,
				ResourceID: shopID,
			}
			if month != "" {
				p, err := period.Parse(month)
				if err != nil {
					return err
				}
				filters.Period = p
			}
			_, err := wire.AssignmentAdapter().List(NewContext(), filters)
			return err
		},
	}

	cmd.Flags().StringVar(&carID, "car", "", "Filter by car ID")
	cmd.Flags().StringVar(&shopID, "shop", "", "Filter by shop ID")
	cmd.Flags().StringVar(&month, "period", "", "Filter by month (YYYY-MM)")

	return cmd
}

// UndoCmd returns the undo command
func UndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Reverse the most recent assignment change",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.AssignmentAdapter().Undo(NewContext())
			return err
		},
	}
}

// RedoCmd returns the redo command
func RedoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Reapply the most recently undone change",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.AssignmentAdapter().Redo(NewContext())
			return err
		},
	}
}

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show undo/redo depth",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.AssignmentAdapter().History(NewContext())
			return err
		},
	}
}
