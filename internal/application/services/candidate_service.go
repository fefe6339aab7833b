package services

import (
	"context"
	"sort"
	"time"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/domain/providers"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
)

// MaxShortlistSize is the maximum number of candidates returned by Select
const MaxShortlistSize = 5

// CandidateService filters and ranks facilities for a classified emergency
type CandidateService struct {
	lookup *routeLookup
}

// NewCandidateService creates a new candidate service
func NewCandidateService(routing providers.RoutingProvider, routeTimeout time.Duration, metrics *observability.Metrics) *CandidateService {
	return &CandidateService{
		lookup: newRouteLookup(routing, routeTimeout, metrics, "select"),
	}
}

// Select returns at most MaxShortlistSize eligible facilities ordered by ascending distance,
// then descending combined beds, then catalog order. An empty slice is a valid result.
// The only error is cancellation of ctx.
func (s *CandidateService) Select(
	ctx context.Context,
	severity entities.Severity,
	location entities.Location,
	requiredSpecialists []string,
	catalog []*entities.Facility,
) ([]entities.Candidate, error) {
	eligible := make([]*entities.Facility, 0, len(catalog))
	for _, f := range catalog {
		if f == nil || !hasBedFor(severity, f) || !f.HasSpecialists(requiredSpecialists) {
			continue
		}
		eligible = append(eligible, f)
	}

	if len(eligible) == 0 {
		return []entities.Candidate{}, nil
	}

	routes := s.lookup.fetchAll(ctx, location, eligible)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := make([]entities.Candidate, 0, len(eligible))
	for i, f := range eligible {
		if routes[i] == nil {
			continue
		}
		candidates = append(candidates, entities.Candidate{
			Facility: f,
			Route:    *routes[i],
			Eligible: true,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Route.DistanceKm != b.Route.DistanceKm {
			return a.Route.DistanceKm < b.Route.DistanceKm
		}
		return a.Facility.CombinedBeds() > b.Facility.CombinedBeds()
	})

	if len(candidates) > MaxShortlistSize {
		candidates = candidates[:MaxShortlistSize]
	}
	return candidates, nil
}

func hasBedFor(severity entities.Severity, f *entities.Facility) bool {
	switch severity {
	case entities.SeverityRed:
		return f.ICUBedsAvailable >= 1
	case entities.SeverityYellow:
		return f.EmergencyBedsAvailable >= 1
	default:
		return true
	}
}
