package primary

import "context"

// RegistryService defines the primary port for the minimal car and shop registry.
type RegistryService interface {
	// AddShop registers a shop with a monthly capacity.
	AddShop(ctx context.Context, req AddShopRequest) (*Shop, error)

	// ListShops lists shops.
	ListShops(ctx context.Context) ([]*Shop, error)

	// AddCar registers a car.
	AddCar(ctx context.Context, req AddCarRequest) (*Car, error)

	// GetCar retrieves a car by ID.
	GetCar(ctx context.Context, carID string) (*Car, error)

	// ListCars lists cars with an optional status filter, highest priority first.
	ListCars(ctx context.Context, status string) ([]*Car, error)
}

// AddShopRequest contains parameters for registering a shop.
type AddShopRequest struct {
	ID       string // Optional; generated when empty
	Name     string
	Capacity int
}

// AddCarRequest contains parameters for registering a car.
type AddCarRequest struct {
	ID       string // Optional; generated when empty
	Name     string
	Priority string // critical, high, medium, low (default medium)
}

// Shop represents a shop at the port boundary.
type Shop struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Car represents a car at the port boundary.
type Car struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}
