package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/domain/providers"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
)

// DefaultRouteTimeout bounds a single routing collaborator call
const DefaultRouteTimeout = 5 * time.Second

// maxConcurrentLookups caps in-flight routing calls for one stage of one request
const maxConcurrentLookups = 16

var errInvalidRoute = errors.New("routing provider returned no usable route")

// routeLookup fans out per-facility route queries and joins them.
// A failed or timed-out lookup yields a nil metric at that index.
type routeLookup struct {
	provider providers.RoutingProvider
	timeout  time.Duration
	metrics  *observability.Metrics
	stage    string
}

func newRouteLookup(provider providers.RoutingProvider, timeout time.Duration, metrics *observability.Metrics, stage string) *routeLookup {
	if timeout <= 0 {
		timeout = DefaultRouteTimeout
	}
	return &routeLookup{
		provider: provider,
		timeout:  timeout,
		metrics:  metrics,
		stage:    stage,
	}
}

func (l *routeLookup) fetchAll(ctx context.Context, origin entities.Location, facilities []*entities.Facility) []*entities.RouteMetric {
	results := make([]*entities.RouteMetric, len(facilities))

	var g errgroup.Group
	g.SetLimit(maxConcurrentLookups)

	for i, facility := range facilities {
		if facility == nil {
			continue
		}
		g.Go(func() error {
			metric, err := l.fetch(ctx, origin, facility)
			if err != nil {
				observability.LoggerFromContext(ctx).Warn().
					Err(err).
					Str("stage", l.stage).
					Str("facility_id", facility.ID).
					Msg("route lookup failed, dropping facility")
				return nil
			}
			results[i] = metric
			return nil
		})
	}

	// Lookups never return errors to the group; failures are recorded as nil metrics.
	_ = g.Wait()
	return results
}

func (l *routeLookup) fetch(ctx context.Context, origin entities.Location, facility *entities.Facility) (metric *entities.RouteMetric, err error) {
	lookupCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metric, err = nil, fmt.Errorf("routing provider panic: %v", r)
		}
		observability.RecordRouteLookup(ctx, l.metrics, l.stage, time.Since(start), err)
	}()

	metric, err = l.provider.GetRoute(lookupCtx, origin, facility.Location)
	if err != nil {
		return nil, err
	}
	if metric == nil || !validRouteValue(metric.DistanceKm) || !validRouteValue(metric.DurationMin) {
		return nil, errInvalidRoute
	}
	return metric, nil
}

func validRouteValue(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
