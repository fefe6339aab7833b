package entities

import "time"

// Facility represents a hospital in the dispatch catalog
type Facility struct {
	ID                     string    `json:"id" db:"id"`
	Name                   string    `json:"name" db:"name"`
	Address                string    `json:"address,omitempty" db:"address"`
	Location               Location  `json:"coords" db:"-"`
	ICUBedsAvailable       int       `json:"icu_beds_available" db:"icu_beds_available"`
	EmergencyBedsAvailable int       `json:"emergency_beds_available" db:"emergency_beds_available"`
	Specialists            []string  `json:"specialists" db:"-"`
	PhoneNumber            string    `json:"phone_number,omitempty" db:"phone_number"`
	Email                  string    `json:"email,omitempty" db:"email"`
	WhatsAppNumber         string    `json:"whatsapp_number,omitempty" db:"whatsapp_number"`
	IsActive               bool      `json:"is_active" db:"is_active"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}

// CombinedBeds returns ICU plus emergency beds
func (f *Facility) CombinedBeds() int {
	return f.ICUBedsAvailable + f.EmergencyBedsAvailable
}

// HasSpecialists reports whether the facility stocks every required specialist
func (f *Facility) HasSpecialists(required []string) bool {
	if len(required) == 0 {
		return true
	}
	stocked := make(map[string]struct{}, len(f.Specialists))
	for _, s := range f.Specialists {
		stocked[s] = struct{}{}
	}
	for _, r := range required {
		if _, ok := stocked[r]; !ok {
			return false
		}
	}
	return true
}
