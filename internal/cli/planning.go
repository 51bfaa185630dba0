package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/example/shopplan/internal/core/period"
	"github.com/example/shopplan/internal/wire"
)

// CapacityCmd returns the capacity command
func CapacityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Inspect shop utilization",
	}

	cmd.AddCommand(capacityReportCmd())

	return cmd
}

func capacityReportCmd() *cobra.Command {
	var from, to string
	var months int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show utilization per shop and month",
		Long: `Show assigned cars and utilization per shop and month. Cells are green
below 80%, yellow from 80% up to capacity and red above capacity.

Examples:
  shopplan capacity report
  shopplan capacity report --from 2024-01 --to 2024-12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := reportRange(from, to, months, time.Now())
			if err != nil {
				return err
			}
			_, err = wire.PlanningAdapter().Report(NewContext(), start, end)
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First month (default current month)")
	cmd.Flags().StringVar(&to, "to", "", "Last month (default --months after --from)")
	cmd.Flags().IntVarP(&months, "months", "n", 6, "Months to show when --to is omitted")

	return cmd
}

// reportRange resolves the report bounds from flags.
func reportRange(from, to string, months int, now time.Time) (time.Time, time.Time, error) {
	start := period.Normalize(now)
	if from != "" {
		p, err := period.Parse(from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = p
	}
	if months < 1 {
		months = 1
	}
	end := period.Add(start, months-1)
	if to != "" {
		p, err := period.Parse(to)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = p
	}
	return start, end, nil
}

// ForecastCmd returns the forecast command
func ForecastCmd() *cobra.Command {
	var shopID string
	var months int

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project shop load for the coming months",
		Long: `Project load from the average of the months with work in the trailing
six-month window.
Points are labelled over (above capacity), near (80% or more) or good.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.PlanningAdapter().Forecast(NewContext(), shopID, months)
			return err
		},
	}

	cmd.Flags().StringVarP(&shopID, "shop", "s", "", "Only this shop")
	cmd.Flags().IntVarP(&months, "months", "n", 0, "Months to project (default from config)")

	return cmd
}
