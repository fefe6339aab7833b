package routing

import (
	"context"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/pkg/geo"
)

// roadFactor inflates straight-line distance to approximate road distance
const roadFactor = 1.3

// HaversineRoutingProvider estimates routes offline from great-circle distance and a fixed speed
type HaversineRoutingProvider struct {
	averageSpeedKmh float64
}

// NewHaversineRoutingProvider creates a new offline routing provider
func NewHaversineRoutingProvider(averageSpeedKmh float64) *HaversineRoutingProvider {
	if averageSpeedKmh <= 0 {
		averageSpeedKmh = 40
	}
	return &HaversineRoutingProvider{averageSpeedKmh: averageSpeedKmh}
}

// GetRoute returns an estimated route metric
func (p *HaversineRoutingProvider) GetRoute(ctx context.Context, origin, destination entities.Location) (*entities.RouteMetric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	distance := geo.HaversineKm(origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude) * roadFactor
	return &entities.RouteMetric{
		DistanceKm:  distance,
		DurationMin: distance / p.averageSpeedKmh * 60,
	}, nil
}
