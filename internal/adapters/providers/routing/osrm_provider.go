package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/domain/providers"
)

const (
	defaultOSRMServer  = "http://router.project-osrm.org"
	defaultHTTPTimeout = 10 * time.Second
)

// OSRMRoutingProvider implements RoutingProvider against an OSRM HTTP server
type OSRMRoutingProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewOSRMRoutingProvider creates a new OSRM routing provider
func NewOSRMRoutingProvider(baseURL string) providers.RoutingProvider {
	return NewOSRMRoutingProviderWithClient(baseURL, nil)
}

// NewOSRMRoutingProviderWithClient allows overriding the HTTP client (used for tests)
func NewOSRMRoutingProviderWithClient(baseURL string, httpClient *http.Client) *OSRMRoutingProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultOSRMServer
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &OSRMRoutingProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// GetRoute returns the driving distance and duration of the fastest OSRM route
func (p *OSRMRoutingProvider) GetRoute(ctx context.Context, origin, destination entities.Location) (*entities.RouteMetric, error) {
	// OSRM takes lng,lat pairs
	reqURL := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		p.baseURL,
		origin.Longitude, origin.Latitude,
		destination.Longitude, destination.Latitude,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build osrm request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("osrm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("osrm request returned status %d", resp.StatusCode)
	}

	var payload osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode osrm response: %w", err)
	}

	if payload.Code != "Ok" {
		if payload.Message != "" {
			return nil, fmt.Errorf("osrm route failed: %s - %s", payload.Code, payload.Message)
		}
		return nil, fmt.Errorf("osrm route failed: %s", payload.Code)
	}
	if len(payload.Routes) == 0 {
		return nil, fmt.Errorf("osrm returned no routes")
	}

	route := payload.Routes[0]
	return &entities.RouteMetric{
		DistanceKm:  route.Distance / 1000,
		DurationMin: route.Duration / 60,
	}, nil
}

type osrmRouteResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	// Distance in meters
	Distance float64 `json:"distance"`
	// Duration in seconds
	Duration float64 `json:"duration"`
}
