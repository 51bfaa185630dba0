package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/shopplan/internal/config"
	"github.com/example/shopplan/internal/db"
	"github.com/example/shopplan/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var persistHistory bool
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the shopplan database and project config",
		Long: `Initialize the shopplan database with the required schema and write
.shopplan/config.json in the current directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()
			db.Configure(cfg.Database.Path)

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing shopplan database at %s\n", dbPath)

			// GetDB applies pending migrations
			conn, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}
			fmt.Println("✓ Database initialized successfully")

			if seed {
				if err := db.SeedFixtures(conn); err != nil {
					return fmt.Errorf("failed to seed demo data: %w", err)
				}
				fmt.Println("✓ Demo shops and cars added")
			}

			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			if persistHistory {
				cfg.History.Backend = config.HistoryBackendSQLite
			}
			if err := config.SaveConfig(wd, cfg); err != nil {
				return err
			}
			fmt.Printf("✓ Config written to %s/config.json\n", config.Dir)

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  shopplan shop add \"North Yard\" --capacity 10")
			fmt.Println("  shopplan car add \"Tank car 4471\" --priority high")
			return nil
		},
	}

	cmd.Flags().BoolVar(&persistHistory, "persist-history", true, "Keep undo/redo history across invocations")
	cmd.Flags().BoolVar(&seed, "seed", false, "Add a small demo fleet (3 shops, 6 cars)")

	return cmd
}
