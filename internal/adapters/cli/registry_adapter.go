package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/shopplan/internal/ports/primary"
)

// RegistryAdapter translates CLI operations to RegistryService calls.
type RegistryAdapter struct {
	service primary.RegistryService
	out     io.Writer
}

// NewRegistryAdapter creates a new RegistryAdapter with the given service.
func NewRegistryAdapter(service primary.RegistryService, out io.Writer) *RegistryAdapter {
	return &RegistryAdapter{
		service: service,
		out:     out,
	}
}

// AddShop registers a shop.
func (a *RegistryAdapter) AddShop(ctx context.Context, req primary.AddShopRequest) (*primary.Shop, error) {
	shop, err := a.service.AddShop(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Added shop %s: %s (capacity %d)\n", shop.ID, shop.Name, shop.Capacity)
	return shop, nil
}

// ListShops lists shops.
func (a *RegistryAdapter) ListShops(ctx context.Context) ([]*primary.Shop, error) {
	shops, err := a.service.ListShops(ctx)
	if err != nil {
		return nil, err
	}

	if len(shops) == 0 {
		fmt.Fprintln(a.out, "No shops found.")
		return shops, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCAPACITY")
	fmt.Fprintln(w, "--\t----\t--------")
	for _, s := range shops {
		fmt.Fprintf(w, "%s\t%s\t%d\n", s.ID, s.Name, s.Capacity)
	}
	w.Flush()
	return shops, nil
}

// AddCar registers a car.
func (a *RegistryAdapter) AddCar(ctx context.Context, req primary.AddCarRequest) (*primary.Car, error) {
	car, err := a.service.AddCar(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Added car %s: %s [%s]\n", car.ID, car.Name, car.Priority)
	return car, nil
}

// ListCars lists cars, highest priority first.
func (a *RegistryAdapter) ListCars(ctx context.Context, status string) ([]*primary.Car, error) {
	cars, err := a.service.ListCars(ctx, status)
	if err != nil {
		return nil, err
	}

	if len(cars) == 0 {
		fmt.Fprintln(a.out, "No cars found.")
		return cars, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRIORITY\tSTATUS")
	fmt.Fprintln(w, "--\t----\t--------\t------")
	for _, c := range cars {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Priority, c.Status)
	}
	w.Flush()
	return cars, nil
}
