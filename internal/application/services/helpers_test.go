package services_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/domain/providers"
)

var origin = entities.Location{Latitude: 28.7041, Longitude: 77.1025}

// stubRouter answers route queries by destination. Unknown destinations fail.
type stubRouter struct {
	mu     sync.Mutex
	routes map[entities.Location]entities.RouteMetric
	delays map[entities.Location]time.Duration
	calls  map[entities.Location]int
}

func newStubRouter() *stubRouter {
	return &stubRouter{
		routes: make(map[entities.Location]entities.RouteMetric),
		delays: make(map[entities.Location]time.Duration),
		calls:  make(map[entities.Location]int),
	}
}

func (r *stubRouter) route(dest entities.Location, distanceKm, durationMin float64) *stubRouter {
	r.routes[dest] = entities.RouteMetric{DistanceKm: distanceKm, DurationMin: durationMin}
	return r
}

func (r *stubRouter) slow(dest entities.Location, d time.Duration) *stubRouter {
	r.delays[dest] = d
	return r
}

func (r *stubRouter) callsTo(dest entities.Location) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[dest]
}

func (r *stubRouter) GetRoute(ctx context.Context, _, dest entities.Location) (*entities.RouteMetric, error) {
	r.mu.Lock()
	r.calls[dest]++
	metric, ok := r.routes[dest]
	delay := r.delays[dest]
	r.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if !ok {
		return nil, errors.New("osrm: no route found")
	}
	return &metric, nil
}

func facility(id string, lat float64, icu, emergency int, specialists ...string) *entities.Facility {
	return &entities.Facility{
		ID:                     id,
		Name:                   "Hospital " + id,
		Location:               entities.Location{Latitude: lat, Longitude: 77.2},
		ICUBedsAvailable:       icu,
		EmergencyBedsAvailable: emergency,
		Specialists:            specialists,
		Email:                  id + "@hospital.example",
		IsActive:               true,
	}
}

func ids(candidates []entities.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Facility.ID
	}
	return out
}

func intPtr(v int) *int { return &v }

func newReport(age int, symptoms ...string) entities.Report {
	if symptoms == nil {
		symptoms = []string{}
	}
	report, err := entities.NewReport(entities.ReportPayload{
		Location:     &entities.Location{Latitude: origin.Latitude, Longitude: origin.Longitude},
		Symptoms:     symptoms,
		Vitals:       map[string]interface{}{"heart_rate": 110},
		Age:          intPtr(age),
		Description:  "collapsed at the market",
		ContactEmail: "caller@example.com",
	})
	if err != nil {
		panic(err)
	}
	return report
}

type MockFacilityRepository struct {
	mock.Mock
}

func (m *MockFacilityRepository) ListFacilities(ctx context.Context) ([]*entities.Facility, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Facility), args.Error(1)
}

func (m *MockFacilityRepository) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Facility), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, alert *entities.EmergencyAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

type MockGeolocationProvider struct {
	mock.Mock
}

func (m *MockGeolocationProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.GeocodedAddress), args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.DispatchEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DispatchEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.DispatchEvent), args.Error(1)
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockEventBus) Close() error {
	args := m.Called()
	return args.Error(0)
}
