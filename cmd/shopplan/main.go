package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/shopplan/internal/cli"
	"github.com/example/shopplan/internal/db"
	"github.com/example/shopplan/internal/version"
)

func main() {
	var actor string

	rootCmd := &cobra.Command{
		Use:     "shopplan",
		Short:   "shopplan - capacity planning for railcar repair shops",
		Version: version.String(),
		Long: `shopplan assigns cars to repair shops by month, warns when a shop goes
over capacity, and lets planners try what-if scenarios before committing them.
Every assignment change can be undone and redone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.Setup(actor)
		},
	}

	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Name recorded in the audit log (default from config or $USER)")

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())

	// Registry
	rootCmd.AddCommand(cli.ShopCmd())
	rootCmd.AddCommand(cli.CarCmd())

	// Assignments and history
	rootCmd.AddCommand(cli.AssignCmd())
	rootCmd.AddCommand(cli.UnassignCmd())
	rootCmd.AddCommand(cli.AssignmentCmd())
	rootCmd.AddCommand(cli.UndoCmd())
	rootCmd.AddCommand(cli.RedoCmd())
	rootCmd.AddCommand(cli.HistoryCmd())

	// Planning
	rootCmd.AddCommand(cli.CapacityCmd())
	rootCmd.AddCommand(cli.ScenarioCmd())
	rootCmd.AddCommand(cli.ForecastCmd())

	rootCmd.AddCommand(cli.LogCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	err := rootCmd.Execute()
	db.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
