package repositories

import (
	"context"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
)

// FacilityRepository is the read-only facility catalog
type FacilityRepository interface {
	// ListFacilities returns a snapshot of active facilities in catalog order
	ListFacilities(ctx context.Context) ([]*entities.Facility, error)

	// GetByID retrieves a facility by ID
	GetByID(ctx context.Context, id string) (*entities.Facility, error)
}
