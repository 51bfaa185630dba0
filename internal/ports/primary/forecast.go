package primary

import (
	"context"

	"github.com/example/shopplan/internal/core/forecast"
)

// ForecastService defines the primary port for load projection.
type ForecastService interface {
	// Forecast projects monthly load for one shop (resourceID set) or all shops.
	// A non-positive months uses the configured default.
	Forecast(ctx context.Context, resourceID string, months int) ([]forecast.Series, error)
}
