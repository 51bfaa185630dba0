package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/shopplan/internal/ports/primary"
	"github.com/example/shopplan/internal/wire"
)

// LogCmd returns the log command
func LogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "View the booking audit trail",
		Long: `View and prune the audit trail of bookings. Every assign, unassign,
undo and redo leaves an entry naming the car, shop and month, plus an entry
for each car status move.`,
	}

	cmd.AddCommand(logTailCmd())
	cmd.AddCommand(logShowCmd())
	cmd.AddCommand(logPruneCmd())

	return cmd
}

func logTailCmd() *cobra.Command {
	var filters primary.LogFilters
	var follow bool

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Show recent bookings",
		Long: `Show the most recent booking changes, oldest first.

Examples:
  shopplan log tail
  shopplan log tail --shop SHOP-001 --month 2024-03
  shopplan log tail --action unassign --follow`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			if filters.Limit <= 0 {
				filters.Limit = 50
			}

			entries, err := wire.LogService().ListLogs(ctx, filters)
			if err != nil {
				return fmt.Errorf("failed to fetch logs: %w", err)
			}
			printLogEntries(entries)

			if follow {
				return followLogs(ctx, filters, entries)
			}
			return nil
		},
	}

	addLogFilterFlags(cmd, &filters)
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", 50, "Number of entries to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep polling for new entries")

	return cmd
}

func logShowCmd() *cobra.Command {
	var filters primary.LogFilters

	cmd := &cobra.Command{
		Use:   "show <car|shop|assignment-id>",
		Short: "Show the booking history of one car, shop or assignment",
		Args:  cobra.ExactArgs(1),
		Example: `  shopplan log show CAR-001
  shopplan log show SHOP-001 --month 2024-03`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters.Subject = args[0]

			entries, err := wire.LogService().ListLogs(NewContext(), filters)
			if err != nil {
				return fmt.Errorf("failed to fetch logs: %w", err)
			}
			printLogEntries(entries)
			return nil
		},
	}

	addLogFilterFlags(cmd, &filters)
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", 100, "Maximum entries to show")

	return cmd
}

func logPruneCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old log entries",
		Long:  "Delete log entries older than --days (default 30)",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := wire.LogService().PruneLogs(NewContext(), days)
			if err != nil {
				return fmt.Errorf("failed to prune logs: %w", err)
			}

			if count == 0 {
				fmt.Printf("No log entries older than %d days found.\n", days)
			} else {
				fmt.Printf("Pruned %d log entries older than %d days.\n", count, days)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Delete entries older than N days")

	return cmd
}

func addLogFilterFlags(cmd *cobra.Command, filters *primary.LogFilters) {
	cmd.Flags().StringVar(&filters.WorkItemID, "car", "", "Only this car")
	cmd.Flags().StringVar(&filters.ResourceID, "shop", "", "Only this shop")
	cmd.Flags().StringVar(&filters.Period, "month", "", "Only this month (YYYY-MM)")
	cmd.Flags().StringVar(&filters.Action, "action", "", "Only assign, unassign or status")
	cmd.Flags().StringVar(&filters.ActorID, "by", "", "Only changes made by this actor")
}

// followLogs polls until interrupted and prints entries not yet shown.
func followLogs(ctx context.Context, filters primary.LogFilters, shown []*primary.LogEntry) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	seen := make(map[string]bool, len(shown))
	for _, e := range shown {
		seen[e.ID] = true
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		entries, err := wire.LogService().ListLogs(ctx, filters)
		if err != nil {
			fmt.Printf("Error fetching logs: %v\n", err)
			continue
		}

		// newest first; print oldest unseen first
		for i := len(entries) - 1; i >= 0; i-- {
			if e := entries[i]; !seen[e.ID] {
				seen[e.ID] = true
				fmt.Println(formatLogEntry(e))
			}
		}
	}
}

func printLogEntries(entries []*primary.LogEntry) {
	if len(entries) == 0 {
		fmt.Println("No log entries found.")
		return
	}

	for i := len(entries) - 1; i >= 0; i-- {
		fmt.Println(formatLogEntry(entries[i]))
	}
}

// formatLogEntry renders one line, e.g.
//
//	2024-03-01 10:00:00 | alice        | + assign   CAR-001 -> SHOP-001 for 2024-03 (ASGN-…)
func formatLogEntry(e *primary.LogEntry) string {
	actor := e.ActorID
	if actor == "" {
		actor = "-"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s | %-12s | %s ", formatTimestamp(e.Timestamp), actor, actionLabel(e.Action))

	switch e.Action {
	case "assign":
		fmt.Fprintf(&b, "%s -> %s for %s", e.WorkItemID, e.ResourceID, e.Period)
	case "unassign":
		fmt.Fprintf(&b, "%s out of %s for %s", e.WorkItemID, e.ResourceID, e.Period)
	case "status":
		fmt.Fprintf(&b, "%s %s -> %s", e.WorkItemID, e.OldStatus, e.NewStatus)
	default:
		b.WriteString(e.WorkItemID)
	}
	if e.AssignmentID != "" {
		fmt.Fprintf(&b, " (%s)", e.AssignmentID)
	}
	return b.String()
}

func actionLabel(action string) string {
	label := fmt.Sprintf("%-8s", action)
	switch action {
	case "assign":
		return color.New(color.FgGreen).Sprint("+ " + label)
	case "unassign":
		return color.New(color.FgRed).Sprint("- " + label)
	case "status":
		return color.New(color.FgYellow).Sprint("~ " + label)
	default:
		return "? " + label
	}
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}
