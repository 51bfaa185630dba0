package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/shopplan/internal/ports/primary"
	"github.com/example/shopplan/internal/ports/secondary"
)

var validPriorities = map[string]bool{"critical": true, "high": true, "medium": true, "low": true}

// RegistryServiceImpl implements the RegistryService interface.
type RegistryServiceImpl struct {
	cars  secondary.WorkItemRepository
	shops secondary.ResourceRepository
}

// NewRegistryService creates a new RegistryService with injected dependencies.
func NewRegistryService(cars secondary.WorkItemRepository, shops secondary.ResourceRepository) *RegistryServiceImpl {
	return &RegistryServiceImpl{cars: cars, shops: shops}
}

// AddShop registers a shop with a monthly capacity.
func (s *RegistryServiceImpl) AddShop(ctx context.Context, req primary.AddShopRequest) (*primary.Shop, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("shop name is required")
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("shop capacity must be positive, got %d", req.Capacity)
	}

	id := req.ID
	if id == "" {
		id = shortID("SHOP")
	}
	record := &secondary.ResourceRecord{ID: id, Name: req.Name, Capacity: req.Capacity}
	if err := s.shops.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add shop: %w", err)
	}

	return &primary.Shop{ID: id, Name: req.Name, Capacity: req.Capacity}, nil
}

// ListShops lists shops.
func (s *RegistryServiceImpl) ListShops(ctx context.Context) ([]*primary.Shop, error) {
	records, err := s.shops.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}

	shops := make([]*primary.Shop, len(records))
	for i, r := range records {
		shops[i] = &primary.Shop{ID: r.ID, Name: r.Name, Capacity: r.Capacity}
	}
	return shops, nil
}

// AddCar registers a car.
func (s *RegistryServiceImpl) AddCar(ctx context.Context, req primary.AddCarRequest) (*primary.Car, error) {
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	if !validPriorities[priority] {
		return nil, fmt.Errorf("invalid priority %q: must be critical, high, medium or low", priority)
	}

	id := req.ID
	if id == "" {
		id = shortID("CAR")
	}
	record := &secondary.WorkItemRecord{ID: id, Name: req.Name, Status: "unassigned", Priority: priority}
	if err := s.cars.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add car: %w", err)
	}

	return s.GetCar(ctx, id)
}

// GetCar retrieves a car by ID.
func (s *RegistryServiceImpl) GetCar(ctx context.Context, carID string) (*primary.Car, error) {
	record, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	return recordToCar(record), nil
}

// ListCars lists cars with an optional status filter, highest priority first.
func (s *RegistryServiceImpl) ListCars(ctx context.Context, status string) ([]*primary.Car, error) {
	records, err := s.cars.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}

	cars := make([]*primary.Car, len(records))
	for i, r := range records {
		cars[i] = recordToCar(r)
	}
	return cars, nil
}

// Helper functions

func shortID(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

func recordToCar(r *secondary.WorkItemRecord) *primary.Car {
	return &primary.Car{ID: r.ID, Name: r.Name, Status: r.Status, Priority: r.Priority}
}

// Ensure RegistryServiceImpl implements the interface
var _ primary.RegistryService = (*RegistryServiceImpl)(nil)
