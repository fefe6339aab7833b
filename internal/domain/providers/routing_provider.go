package providers

import (
	"context"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
)

// RoutingProvider computes travel metrics between two points.
// Implementations must be safe for concurrent use.
type RoutingProvider interface {
	// GetRoute returns the driving distance and duration from origin to destination
	GetRoute(ctx context.Context, origin, destination entities.Location) (*entities.RouteMetric, error)
}
