package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/domain/providers"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/goldenhour/pkg/errors"
)

const (
	googleGeocodeURL       = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultReverseCacheTTL = 30 * 24 * time.Hour
	defaultHTTPTimeout     = 8 * time.Second
	reverseCacheName       = "reverse_geocode"
)

var (
	errMissingAPIKey = errors.New("google maps api key is required")
	errNoResults     = errors.New("no results for coordinates")
)

// GoogleGeolocationProvider implements the GeolocationProvider using the Google Geocoding API.
// Addresses are cached; route metrics never are.
type GoogleGeolocationProvider struct {
	apiKey     string
	httpClient *http.Client
	cache      providers.CacheProvider
	baseURL    string
	metrics    *observability.Metrics
}

// NewGoogleGeolocationProvider creates a new Google geolocation provider.
func NewGoogleGeolocationProvider(apiKey string, cache providers.CacheProvider, metrics *observability.Metrics) *GoogleGeolocationProvider {
	p := NewGoogleGeolocationProviderWithOptions(apiKey, cache, googleGeocodeURL, nil)
	p.metrics = metrics
	return p
}

// NewGoogleGeolocationProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewGoogleGeolocationProviderWithOptions(apiKey string, cache providers.CacheProvider, baseURL string, httpClient *http.Client) *GoogleGeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleGeocodeURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleGeolocationProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      cache,
		baseURL:    baseURL,
	}
}

// ReverseGeocode converts coordinates to an address. Upstream failures are EXTERNAL AppErrors.
func (g *GoogleGeolocationProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	key := reverseCacheKey(lat, lon)
	if address, ok := g.cachedAddress(ctx, key); ok {
		return address, nil
	}

	resp, err := g.doGeocodeRequest(ctx, url.Values{"latlng": []string{fmt.Sprintf("%f,%f", lat, lon)}})
	if err != nil {
		return nil, apperrors.NewExternalError("reverse geocoding failed", err)
	}
	if len(resp.Results) == 0 {
		return nil, apperrors.NewExternalError("reverse geocoding failed", errNoResults)
	}

	address := toGeocodedAddress(resp.Results[0])
	g.storeAddress(ctx, key, address)
	return address, nil
}

func reverseCacheKey(lat, lon float64) string {
	return "geo:v1:reverse:" + hashKey(fmt.Sprintf("%.5f,%.5f", lat, lon))
}

func (g *GoogleGeolocationProvider) cachedAddress(ctx context.Context, key string) (*providers.GeocodedAddress, bool) {
	if g.cache == nil {
		return nil, false
	}

	cached, err := g.cache.Get(ctx, key)
	if err == nil && len(cached) > 0 {
		var address providers.GeocodedAddress
		if json.Unmarshal(cached, &address) == nil && address.FormattedAddress != "" {
			observability.RecordCacheHit(ctx, g.metrics, reverseCacheName)
			return &address, true
		}
	}
	observability.RecordCacheMiss(ctx, g.metrics, reverseCacheName)
	return nil, false
}

func (g *GoogleGeolocationProvider) storeAddress(ctx context.Context, key string, address *providers.GeocodedAddress) {
	if g.cache == nil {
		return
	}
	payload, err := json.Marshal(address)
	if err != nil {
		return
	}
	if err := g.cache.Set(ctx, key, payload, defaultReverseCacheTTL); err != nil {
		observability.LoggerFromContext(ctx).Debug().Err(err).Msg("failed to cache reverse geocode result")
	}
}

func toGeocodedAddress(result googleGeocodeResult) *providers.GeocodedAddress {
	components := result.AddressComponents
	return &providers.GeocodedAddress{
		FormattedAddress: result.FormattedAddress,
		Street:           strings.TrimSpace(component(components, "street_number") + " " + component(components, "route")),
		City:             component(components, "locality", "administrative_area_level_2"),
		State:            component(components, "administrative_area_level_1"),
		ZipCode:          component(components, "postal_code"),
		Country:          component(components, "country"),
		Coordinates: entities.Location{
			Latitude:  result.Geometry.Location.Lat,
			Longitude: result.Geometry.Location.Lng,
		},
	}
}

func (g *GoogleGeolocationProvider) doGeocodeRequest(ctx context.Context, params url.Values) (*googleGeocodeResponse, error) {
	if g.apiKey == "" {
		return nil, errMissingAPIKey
	}

	params.Set("key", g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var payload googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	switch payload.Status {
	case "OK":
		return &payload, nil
	case "ZERO_RESULTS":
		return nil, errNoResults
	default:
		if payload.ErrorMessage != "" {
			return nil, fmt.Errorf("geocode status %s: %s", payload.Status, payload.ErrorMessage)
		}
		return nil, fmt.Errorf("geocode status %s", payload.Status)
	}
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func component(components []googleAddressComponent, primary string, fallback ...string) string {
	for _, t := range append([]string{primary}, fallback...) {
		for _, comp := range components {
			if slices.Contains(comp.Types, t) {
				return comp.LongName
			}
		}
	}
	return ""
}

type googleGeocodeResponse struct {
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Results      []googleGeocodeResult `json:"results"`
}

type googleGeocodeResult struct {
	FormattedAddress  string                   `json:"formatted_address"`
	AddressComponents []googleAddressComponent `json:"address_components"`
	Geometry          googleGeometry           `json:"geometry"`
}

type googleAddressComponent struct {
	LongName string   `json:"long_name"`
	Types    []string `json:"types"`
}

type googleGeometry struct {
	Location googleLocation `json:"location"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
