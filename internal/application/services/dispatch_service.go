package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/domain/providers"
	"github.com/zatekoja/goldenhour/internal/domain/repositories"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/goldenhour/pkg/errors"
)

const (
	// ReasonNoSuitableFacility tags a run that ended in NO_CANDIDATES
	ReasonNoSuitableFacility = "no_suitable_facility"

	// ReasonNoReachableFacility tags a run that ended in NO_ROUTE
	ReasonNoReachableFacility = "no_reachable_facility"

	// UnknownAddress is used when reverse geocoding fails
	UnknownAddress = "Unknown location"

	defaultGeocodeTimeout = 3 * time.Second
	publishTimeout        = 5 * time.Second
)

// PhaseObserver is told about every state a dispatch run enters
type PhaseObserver func(requestID string, state entities.DispatchState)

// DispatchDeps are the collaborators of a DispatchService.
// Geocoder, Notifier and Events are optional.
type DispatchDeps struct {
	Triage         *TriageService
	Candidates     *CandidateService
	Resolver       *RoutingService
	Catalog        repositories.FacilityRepository
	Geocoder       providers.GeolocationProvider
	Notifier       providers.Notifier
	Events         providers.EventBus
	Metrics        *observability.Metrics
	GeocodeTimeout time.Duration
}

// DispatchService sequences classification, shortlisting and resolution for one report
// and schedules the alert once a facility is assigned.
type DispatchService struct {
	triage         *TriageService
	candidates     *CandidateService
	resolver       *RoutingService
	catalog        repositories.FacilityRepository
	geocoder       providers.GeolocationProvider
	notifier       providers.Notifier
	events         providers.EventBus
	metrics        *observability.Metrics
	geocodeTimeout time.Duration

	// background tracks detached side effects so shutdown can drain them
	background sync.WaitGroup
}

// NewDispatchService creates a new dispatch service
func NewDispatchService(deps DispatchDeps) *DispatchService {
	if deps.Triage == nil {
		deps.Triage = NewTriageService()
	}
	if deps.GeocodeTimeout <= 0 {
		deps.GeocodeTimeout = defaultGeocodeTimeout
	}
	return &DispatchService{
		triage:         deps.Triage,
		candidates:     deps.Candidates,
		resolver:       deps.Resolver,
		catalog:        deps.Catalog,
		geocoder:       deps.Geocoder,
		notifier:       deps.Notifier,
		events:         deps.Events,
		metrics:        deps.Metrics,
		geocodeTimeout: deps.GeocodeTimeout,
	}
}

// dispatchRun is the state of a single pass through the pipeline
type dispatchRun struct {
	requestID string
	state     entities.DispatchState
	severity  entities.Severity
	observer  PhaseObserver
}

func (r *dispatchRun) enter(ctx context.Context, state entities.DispatchState) {
	r.state = state
	observability.LoggerFromContext(ctx).Info().
		Str("state", string(state)).
		Str("severity", string(r.severity)).
		Msg("dispatch state")
	if r.observer != nil {
		r.observer(r.requestID, state)
	}
}

// Dispatch runs the pipeline for one report. It returns the Decision on DISPATCHED,
// a NOT_FOUND AppError on NO_CANDIDATES or NO_ROUTE, and an INTERNAL AppError on FAILED.
// The alert is delivered in the background and never affects the result.
func (s *DispatchService) Dispatch(ctx context.Context, report entities.Report, observer PhaseObserver) (*entities.Decision, error) {
	run := &dispatchRun{
		requestID: uuid.NewString(),
		observer:  observer,
	}

	ctx = observability.WithRequestID(ctx, run.requestID)
	ctx, span := observability.StartSpan(ctx, "dispatch",
		attribute.String("dispatch.request_id", run.requestID),
	)
	defer span.End()

	defer func() {
		span.SetAttributes(attribute.String("dispatch.state", string(run.state)))
		observability.RecordDispatchOutcome(ctx, s.metrics, string(run.state), string(run.severity))
	}()

	run.enter(ctx, entities.StateReceived)

	addressCh := make(chan string, 1)
	go func() {
		addressCh <- s.resolveAddress(ctx, report.Location)
	}()

	classification := s.triage.Classify(report)
	run.severity = classification.Severity
	run.enter(ctx, entities.StateClassified)

	shortlist, err := s.shortlist(ctx, classification.Severity, report.Location, classification.RequiredSpecialists)
	if err != nil {
		run.enter(ctx, entities.StateFailed)
		observability.RecordError(span, err)
		return nil, err
	}
	run.enter(ctx, entities.StateShortlisted)

	if len(shortlist) == 0 {
		run.enter(ctx, entities.StateNoCandidates)
		return nil, apperrors.NewNoMatchError(ReasonNoSuitableFacility, "No suitable hospitals found", ErrNoCandidates)
	}

	best, err := s.resolver.Resolve(ctx, report.Location, shortlist)
	if err != nil {
		if errors.Is(err, ErrNoRoute) || errors.Is(err, ErrNoCandidates) {
			run.enter(ctx, entities.StateResolved)
			run.enter(ctx, entities.StateNoRoute)
			return nil, apperrors.NewNoMatchError(ReasonNoReachableFacility, "No reachable hospitals found", err)
		}
		run.enter(ctx, entities.StateFailed)
		observability.RecordError(span, err)
		return nil, apperrors.NewInternalError("dispatch aborted while resolving best facility", err)
	}
	run.enter(ctx, entities.StateResolved)

	decision := &entities.Decision{
		RequestID:        run.requestID,
		Status:           entities.DecisionStatusSuccess,
		Classification:   classification,
		SelectedFacility: *best,
		AssignedHospital: best.Facility.Name,
		ETAMinutes:       best.Route.DurationMin,
		Shortlist:        shortlist,
		ResolvedAddress:  <-addressCh,
		CreatedAt:        time.Now().UTC(),
	}

	run.enter(ctx, entities.StateDispatched)
	s.scheduleAlert(ctx, entities.NewEmergencyAlert(report, decision))

	return decision, nil
}

// Shortlist runs only candidate selection against the current catalog
func (s *DispatchService) Shortlist(ctx context.Context, severity entities.Severity, location entities.Location, requiredSpecialists []string) ([]entities.Candidate, error) {
	if err := location.Validate(); err != nil {
		return nil, err
	}
	return s.shortlist(ctx, severity, location, requiredSpecialists)
}

func (s *DispatchService) shortlist(ctx context.Context, severity entities.Severity, location entities.Location, requiredSpecialists []string) ([]entities.Candidate, error) {
	catalog, err := s.catalog.ListFacilities(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load facility catalog", err)
	}

	shortlist, err := s.candidates.Select(ctx, severity, location, requiredSpecialists, catalog)
	if err != nil {
		return nil, apperrors.NewInternalError("dispatch aborted while shortlisting facilities", err)
	}
	return shortlist, nil
}

func (s *DispatchService) resolveAddress(ctx context.Context, location entities.Location) string {
	if s.geocoder == nil {
		return UnknownAddress
	}

	geoCtx, cancel := context.WithTimeout(ctx, s.geocodeTimeout)
	defer cancel()

	addr, err := s.geocoder.ReverseGeocode(geoCtx, location.Latitude, location.Longitude)
	if err != nil || addr == nil || addr.FormattedAddress == "" {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("reverse geocoding failed, using placeholder address")
		return UnknownAddress
	}
	return addr.FormattedAddress
}

// scheduleAlert hands the alert to the notifier and the event bus on goroutines that
// outlive the request. Their failures are logged only.
func (s *DispatchService) scheduleAlert(ctx context.Context, alert *entities.EmergencyAlert) {
	detached := context.WithoutCancel(ctx)

	if s.notifier != nil {
		s.detach(detached, "notify", func(ctx context.Context) error {
			return s.notifier.Notify(ctx, alert)
		})
	}

	if s.events != nil && alert.FacilityID != "" {
		s.detach(detached, "publish", func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, publishTimeout)
			defer cancel()

			event := entities.NewIncomingPatientEvent(alert)
			return errors.Join(
				s.events.Publish(ctx, providers.GetFacilityChannel(alert.FacilityID), event),
				s.events.Publish(ctx, providers.EventChannelDispatches, event),
			)
		})
	}
}

func (s *DispatchService) detach(ctx context.Context, task string, fn func(context.Context) error) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		logger := observability.LoggerFromContext(ctx)

		defer func() {
			if r := recover(); r != nil {
				logger.Error().Str("task", task).Str("panic", fmt.Sprint(r)).Msg("background dispatch task panicked")
			}
		}()

		if err := fn(ctx); err != nil {
			logger.Error().Err(err).Str("task", task).Msg("background dispatch task failed")
			return
		}
		logger.Debug().Str("task", task).Msg("background dispatch task completed")
	}()
}

// Wait blocks until all detached alert tasks have finished
func (s *DispatchService) Wait() {
	s.background.Wait()
}
