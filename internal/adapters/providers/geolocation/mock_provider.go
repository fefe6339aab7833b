package geolocation

import (
	"context"
	"fmt"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/domain/providers"
	"github.com/zatekoja/goldenhour/pkg/geo"
)

// landmarkRadiusKm is how close a point must be to a landmark to be described by it
const landmarkRadiusKm = 5.0

type landmark struct {
	name     string
	city     string
	state    string
	location entities.Location
}

var delhiLandmarks = []landmark{
	{"Connaught Place", "New Delhi", "Delhi", entities.Location{Latitude: 28.6315, Longitude: 77.2167}},
	{"Civil Lines", "Delhi", "Delhi", entities.Location{Latitude: 28.6814, Longitude: 77.2226}},
	{"Rohini", "Delhi", "Delhi", entities.Location{Latitude: 28.7041, Longitude: 77.1025}},
	{"Saket", "New Delhi", "Delhi", entities.Location{Latitude: 28.5245, Longitude: 77.2066}},
	{"Dwarka", "New Delhi", "Delhi", entities.Location{Latitude: 28.5921, Longitude: 77.0460}},
	{"Laxmi Nagar", "Delhi", "Delhi", entities.Location{Latitude: 28.6304, Longitude: 77.2772}},
}

// MockGeolocationProvider describes coordinates relative to the nearest known Delhi landmark
type MockGeolocationProvider struct{}

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() *MockGeolocationProvider {
	return &MockGeolocationProvider{}
}

// ReverseGeocode converts coordinates to an address (mock implementation)
func (m *MockGeolocationProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	address := &providers.GeocodedAddress{
		FormattedAddress: fmt.Sprintf("%.5f, %.5f", lat, lon),
		Country:          "India",
		Coordinates:      entities.Location{Latitude: lat, Longitude: lon},
	}

	var nearest *landmark
	best := landmarkRadiusKm
	for i := range delhiLandmarks {
		lm := &delhiLandmarks[i]
		if d := geo.HaversineKm(lat, lon, lm.location.Latitude, lm.location.Longitude); d <= best {
			nearest, best = lm, d
		}
	}

	if nearest != nil {
		address.FormattedAddress = fmt.Sprintf("Near %s, %s, %s, India", nearest.name, nearest.city, nearest.state)
		address.City = nearest.city
		address.State = nearest.state
	}
	return address, nil
}
