package providers

import (
	"context"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
)

// GeolocationProvider defines the interface for geolocation services
type GeolocationProvider interface {
	// ReverseGeocode converts coordinates to an address
	ReverseGeocode(ctx context.Context, lat, lon float64) (*GeocodedAddress, error)
}

// GeocodedAddress represents a geocoded address
type GeocodedAddress struct {
	FormattedAddress string            `json:"formatted_address"`
	Street           string            `json:"street"`
	City             string            `json:"city"`
	State            string            `json:"state"`
	ZipCode          string            `json:"zip_code"`
	Country          string            `json:"country"`
	Coordinates      entities.Location `json:"coordinates"`
}
