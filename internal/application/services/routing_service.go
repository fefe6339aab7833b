package services

import (
	"context"
	"errors"
	"time"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/domain/providers"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
)

var (
	// ErrNoCandidates is returned by Resolve when it is given nothing to resolve
	ErrNoCandidates = errors.New("no candidate facilities to resolve")

	// ErrNoRoute is returned by Resolve when every route lookup failed
	ErrNoRoute = errors.New("no candidate facility is reachable")
)

// RoutingService picks the single facility reachable in minimum time
type RoutingService struct {
	lookup *routeLookup
}

// NewRoutingService creates a new routing service
func NewRoutingService(routing providers.RoutingProvider, routeTimeout time.Duration, metrics *observability.Metrics) *RoutingService {
	return &RoutingService{
		lookup: newRouteLookup(routing, routeTimeout, metrics, "resolve"),
	}
}

// Resolve re-queries a fresh route for every candidate and returns the one with minimum
// duration, then minimum distance, then earliest input position.
// The returned candidate carries the fresh route.
func (s *RoutingService) Resolve(ctx context.Context, location entities.Location, candidates []entities.Candidate) (*entities.Candidate, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	facilities := make([]*entities.Facility, len(candidates))
	for i, c := range candidates {
		facilities[i] = c.Facility
	}

	routes := s.lookup.fetchAll(ctx, location, facilities)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var best *entities.Candidate
	for i, route := range routes {
		if route == nil {
			continue
		}
		if best == nil || betterRoute(*route, best.Route) {
			best = &entities.Candidate{
				Facility: candidates[i].Facility,
				Route:    *route,
				Eligible: candidates[i].Eligible,
			}
		}
	}

	if best == nil {
		return nil, ErrNoRoute
	}
	return best, nil
}

// betterRoute reports whether a strictly beats b
func betterRoute(a, b entities.RouteMetric) bool {
	if a.DurationMin != b.DurationMin {
		return a.DurationMin < b.DurationMin
	}
	return a.DistanceKm < b.DistanceKm
}
