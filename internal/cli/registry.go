package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/shopplan/internal/ports/primary"
	"github.com/example/shopplan/internal/wire"
)

// ShopCmd returns the shop command
func ShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Manage shops (repair facilities with monthly capacity)",
	}

	cmd.AddCommand(shopAddCmd())
	cmd.AddCommand(shopListCmd())

	return cmd
}

func shopAddCmd() *cobra.Command {
	var id string
	var capacity int

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a shop",
		Long: `Register a shop with the number of cars it can take per month.

Examples:
  shopplan shop add "North Yard" --capacity 10
  shopplan shop add "East Works" --capacity 4 --id SHOP-EAST`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.RegistryAdapter().AddShop(NewContext(), primary.AddShopRequest{
				ID:       id,
				Name:     args[0],
				Capacity: capacity,
			})
			if err != nil {
				return fmt.Errorf("failed to add shop: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Shop ID (generated when omitted)")
	cmd.Flags().IntVarP(&capacity, "capacity", "c", 0, "Cars per month")
	cmd.MarkFlagRequired("capacity")

	return cmd
}

func shopListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List shops",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := wire.RegistryAdapter().ListShops(NewContext()); err != nil {
				return fmt.Errorf("failed to list shops: %w", err)
			}
			return nil
		},
	}
}

// CarCmd returns the car command
func CarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "car",
		Short: "Manage cars awaiting shop time",
	}

	cmd.AddCommand(carAddCmd())
	cmd.AddCommand(carListCmd())

	return cmd
}

func carAddCmd() *cobra.Command {
	var id string
	var priority string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a car",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.RegistryAdapter().AddCar(NewContext(), primary.AddCarRequest{
				ID:       id,
				Name:     args[0],
				Priority: priority,
			})
			if err != nil {
				return fmt.Errorf("failed to add car: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Car ID (generated when omitted)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "medium", "critical, high, medium or low")

	return cmd
}

func carListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cars, highest priority first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := wire.RegistryAdapter().ListCars(NewContext(), status); err != nil {
				return fmt.Errorf("failed to list cars: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (unassigned, assigned)")

	return cmd
}
