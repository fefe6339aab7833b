package routes

import (
	"net/http"

	"github.com/zatekoja/goldenhour/internal/api/handlers"
	"github.com/zatekoja/goldenhour/internal/api/middleware"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	emergencyHandler   *handlers.EmergencyHandler
	hospitalHandler    *handlers.HospitalHandler
	liveHandler        *handlers.LiveHandler
	facilityHandler    *handlers.FacilityHandler
	geolocationHandler *handlers.GeolocationHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router. The geolocation handler is optional.
func NewRouter(
	emergencyHandler *handlers.EmergencyHandler,
	hospitalHandler *handlers.HospitalHandler,
	liveHandler *handlers.LiveHandler,
	facilityHandler *handlers.FacilityHandler,
	geolocationHandler *handlers.GeolocationHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		emergencyHandler:   emergencyHandler,
		hospitalHandler:    hospitalHandler,
		liveHandler:        liveHandler,
		facilityHandler:    facilityHandler,
		geolocationHandler: geolocationHandler,
		allowedOrigins:     allowedOrigins,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", handlers.Health)

	// Dispatch endpoints
	r.mux.HandleFunc("POST /api/emergency", r.emergencyHandler.ReportEmergency)
	r.mux.HandleFunc("POST /api/hospitals", r.hospitalHandler.FindHospitals)
	r.mux.HandleFunc("GET /ws/emergency/{emergency_id}", r.liveHandler.StreamEmergency)

	// Facility catalog endpoints
	r.mux.HandleFunc("GET /api/facilities", r.facilityHandler.ListFacilities)
	r.mux.HandleFunc("GET /api/facilities/{id}", r.facilityHandler.GetFacility)

	if r.geolocationHandler != nil {
		r.mux.HandleFunc("GET /api/reverse-geocode", r.geolocationHandler.ReverseGeocode)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
