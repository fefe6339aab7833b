package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	apperrors "github.com/zatekoja/goldenhour/pkg/errors"
)

// MemoryFacilityAdapter serves a fixed facility catalog from memory
type MemoryFacilityAdapter struct {
	mu         sync.RWMutex
	facilities []*entities.Facility
}

// NewMemoryFacilityAdapter creates an in-memory catalog. Facilities are copied.
func NewMemoryFacilityAdapter(facilities []*entities.Facility) *MemoryFacilityAdapter {
	return &MemoryFacilityAdapter{facilities: cloneFacilities(facilities)}
}

// ListFacilities returns a snapshot of active facilities in insertion order
func (a *MemoryFacilityAdapter) ListFacilities(ctx context.Context) ([]*entities.Facility, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]*entities.Facility, 0, len(a.facilities))
	for _, f := range a.facilities {
		if f.IsActive {
			out = append(out, cloneFacility(f))
		}
	}
	return out, nil
}

// GetByID retrieves an active facility by ID
func (a *MemoryFacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, f := range a.facilities {
		if f.ID == id && f.IsActive {
			return cloneFacility(f), nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
}

func cloneFacilities(in []*entities.Facility) []*entities.Facility {
	out := make([]*entities.Facility, 0, len(in))
	for _, f := range in {
		if f != nil {
			out = append(out, cloneFacility(f))
		}
	}
	return out
}

func cloneFacility(f *entities.Facility) *entities.Facility {
	c := *f
	c.Specialists = append([]string(nil), f.Specialists...)
	return &c
}

// DefaultFacilities is the demonstration catalog of Delhi hospitals
func DefaultFacilities() []*entities.Facility {
	return []*entities.Facility{
		{
			ID:                     "aiims-delhi",
			Name:                   "AIIMS Delhi",
			Address:                "Ansari Nagar, New Delhi 110029",
			Location:               entities.Location{Latitude: 28.5672, Longitude: 77.2100},
			ICUBedsAvailable:       5,
			EmergencyBedsAvailable: 12,
			Specialists:            []string{"cardiologist", "emergency_physician", "trauma_surgeon", "neurologist", "general_physician"},
			PhoneNumber:            "+911126588500",
			Email:                  "emergency@aiims.example",
			IsActive:               true,
		},
		{
			ID:                     "safdarjung",
			Name:                   "Safdarjung Hospital",
			Address:                "Ring Road, New Delhi 110029",
			Location:               entities.Location{Latitude: 28.5687, Longitude: 77.2065},
			ICUBedsAvailable:       3,
			EmergencyBedsAvailable: 20,
			Specialists:            []string{"trauma_surgeon", "emergency_physician", "general_physician", "orthopedic"},
			PhoneNumber:            "+911126707444",
			Email:                  "casualty@safdarjung.example",
			IsActive:               true,
		},
		{
			ID:                     "max-shalimar-bagh",
			Name:                   "Max Super Speciality Hospital, Shalimar Bagh",
			Address:                "FC-50, Shalimar Bagh, Delhi 110088",
			Location:               entities.Location{Latitude: 28.7166, Longitude: 77.1575},
			ICUBedsAvailable:       2,
			EmergencyBedsAvailable: 6,
			Specialists:            []string{"cardiologist", "emergency_physician", "general_physician"},
			PhoneNumber:            "+911166422222",
			Email:                  "er.shalimarbagh@max.example",
			IsActive:               true,
		},
		{
			ID:                     "bsa-rohini",
			Name:                   "Dr. Baba Saheb Ambedkar Hospital",
			Address:                "Sector 6, Rohini, Delhi 110085",
			Location:               entities.Location{Latitude: 28.7142, Longitude: 77.1152},
			ICUBedsAvailable:       0,
			EmergencyBedsAvailable: 8,
			Specialists:            []string{"general_physician", "emergency_physician", "orthopedic"},
			PhoneNumber:            "+911127055585",
			IsActive:               true,
		},
		{
			ID:                     "fortis-shalimar-bagh",
			Name:                   "Fortis Hospital, Shalimar Bagh",
			Address:                "A-Block, Shalimar Bagh, Delhi 110088",
			Location:               entities.Location{Latitude: 28.7196, Longitude: 77.1633},
			ICUBedsAvailable:       1,
			EmergencyBedsAvailable: 4,
			Specialists:            []string{"cardiologist", "trauma_surgeon", "emergency_physician", "general_physician"},
			PhoneNumber:            "+911145302222",
			Email:                  "emergency.sb@fortis.example",
			IsActive:               true,
		},
		{
			ID:                     "lnjp",
			Name:                   "Lok Nayak Hospital",
			Address:                "Jawaharlal Nehru Marg, Delhi 110002",
			Location:               entities.Location{Latitude: 28.6389, Longitude: 77.2390},
			ICUBedsAvailable:       4,
			EmergencyBedsAvailable: 15,
			Specialists:            []string{"trauma_surgeon", "emergency_physician", "general_physician", "cardiologist"},
			PhoneNumber:            "+911123232400",
			IsActive:               true,
		},
		{
			ID:                     "ganga-ram",
			Name:                   "Sir Ganga Ram Hospital",
			Address:                "Rajinder Nagar, New Delhi 110060",
			Location:               entities.Location{Latitude: 28.6380, Longitude: 77.1896},
			ICUBedsAvailable:       0,
			EmergencyBedsAvailable: 0,
			Specialists:            []string{"general_physician", "neurologist"},
			PhoneNumber:            "+911125750000",
			IsActive:               true,
		},
	}
}
