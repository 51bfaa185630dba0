package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/shopplan/internal/config"
	"github.com/example/shopplan/internal/db"
	"github.com/example/shopplan/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the shopplan setup",
		Long: `Health check for shopplan.

Validates:
- Project config (.shopplan/config.*)
- Database reachable and schema up to date
- Undo/redo history backend

Examples:
  shopplan doctor              # Run full health check
  shopplan doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()
			results := []CheckResult{
				checkConfigFile(),
				checkDatabase(cfg),
				checkHistoryBackend(cfg),
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				printCheckResults(results, hasErrors)
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

func printCheckResults(results []CheckResult, hasErrors bool) {
	fmt.Println()
	fmt.Println("Check              Status")
	fmt.Println("─────────────────────────")
	for _, r := range results {
		fmt.Printf("%-18s %s\n", r.Name, r.Status)
	}
	fmt.Println()

	hasDetails := false
	for _, r := range results {
		if r.Status != "✓" && r.Details != "" {
			if !hasDetails {
				fmt.Println("Details:")
				hasDetails = true
			}
			fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
		}
	}

	if hasErrors {
		fmt.Println("\n⚠ Issues found. Run 'shopplan init' to set up this directory.")
	} else {
		fmt.Println("All checks passed.")
	}
}

// checkConfigFile warns when no project config exists; defaults still apply.
func checkConfigFile() CheckResult {
	wd, err := os.Getwd()
	if err != nil {
		return CheckResult{Name: "Config", Status: "✗", Details: "  Cannot get working directory"}
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
		if _, err := os.Stat(filepath.Join(wd, config.Dir, name)); err == nil {
			return CheckResult{Name: "Config", Status: "✓"}
		}
	}
	return CheckResult{
		Name:    "Config",
		Status:  "⚠",
		Details: fmt.Sprintf("  No %s/config.* found, using defaults", config.Dir),
	}
}

// checkDatabase opens the database and compares the schema version.
func checkDatabase(cfg *config.Config) CheckResult {
	db.Configure(cfg.Database.Path)
	path, err := db.GetDBPath()
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return CheckResult{Name: "Database", Status: "✗", Details: fmt.Sprintf("  %s does not exist", path)}
	}

	conn, err := db.GetDB()
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}
	version, err := db.CurrentVersion(conn)
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}
	if latest := db.LatestVersion(); version != latest {
		return CheckResult{
			Name:    "Database",
			Status:  "✗",
			Details: fmt.Sprintf("  Schema version %d, expected %d", version, latest),
		}
	}
	return CheckResult{Name: "Database", Status: "✓"}
}

// checkHistoryBackend warns when undo/redo will not survive between commands.
func checkHistoryBackend(cfg *config.Config) CheckResult {
	if cfg.History.Backend == config.HistoryBackendSQLite {
		return CheckResult{Name: "History", Status: "✓"}
	}
	return CheckResult{
		Name:   "History",
		Status: "⚠",
		Details: "  history.backend is \"memory\": undo/redo only works within one\n" +
			"  process (e.g. shopplan serve). Set it to \"sqlite\" for the CLI.",
	}
}
