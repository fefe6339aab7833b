package handlers_test

import (
	"context"
	"sync"

	"github.com/zatekoja/goldenhour/internal/application/services"
	"github.com/zatekoja/goldenhour/internal/domain/entities"
)

const validReportJSON = `{"location":{"lat":28.6139,"lng":77.209},"symptoms":["Chest Pain"],"age":54,"description":"collapsed at home"}`

// fakeDispatcher delegates to per-test functions
type fakeDispatcher struct {
	dispatch  func(ctx context.Context, report entities.Report, observer services.PhaseObserver) (*entities.Decision, error)
	shortlist func(ctx context.Context, severity entities.Severity, location entities.Location, specialists []string) ([]entities.Candidate, error)
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, report entities.Report, observer services.PhaseObserver) (*entities.Decision, error) {
	return f.dispatch(ctx, report, observer)
}

func (f *fakeDispatcher) Shortlist(ctx context.Context, severity entities.Severity, location entities.Location, specialists []string) ([]entities.Candidate, error) {
	return f.shortlist(ctx, severity, location, specialists)
}

func sampleDecision(requestID string) *entities.Decision {
	aiims := &entities.Facility{
		ID:               "aiims-delhi",
		Name:             "AIIMS Delhi",
		Location:         entities.Location{Latitude: 28.5672, Longitude: 77.21},
		ICUBedsAvailable: 5,
		Specialists:      []string{"cardiologist"},
		IsActive:         true,
	}
	best := entities.Candidate{
		Facility: aiims,
		Route:    entities.RouteMetric{DistanceKm: 5.4, DurationMin: 12.5},
		Eligible: true,
	}
	return &entities.Decision{
		RequestID: requestID,
		Status:    entities.DecisionStatusSuccess,
		Classification: entities.Classification{
			Severity:            entities.SeverityRed,
			Priority:            1,
			RiskSummary:         "Possible cardiac event",
			RequiredSpecialists: []string{"cardiologist"},
		},
		SelectedFacility: best,
		AssignedHospital: aiims.Name,
		ETAMinutes:       best.Route.DurationMin,
		Shortlist:        []entities.Candidate{best},
		ResolvedAddress:  "Near India Gate, New Delhi, Delhi, India",
	}
}

// MockEventBus is an in-process event bus
type MockEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan *entities.DispatchEvent
	published   []*entities.DispatchEvent
	subscribed  chan string
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		subscribers: make(map[string][]chan *entities.DispatchEvent),
		subscribed:  make(chan string, 16),
	}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.DispatchEvent) error {
	m.mu.Lock()
	m.published = append(m.published, event)
	channels := append([]chan *entities.DispatchEvent(nil), m.subscribers[channel]...)
	m.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DispatchEvent, error) {
	m.mu.Lock()
	ch := make(chan *entities.DispatchEvent, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	m.mu.Unlock()

	select {
	case m.subscribed <- channel:
	default:
	}
	return ch, nil
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscribers, channel)
	return nil
}

func (m *MockEventBus) Close() error {
	m.mu.Lock()
	subs := m.subscribers
	m.subscribers = make(map[string][]chan *entities.DispatchEvent)
	m.mu.Unlock()
	for _, channels := range subs {
		for _, ch := range channels {
			close(ch)
		}
	}
	return nil
}
