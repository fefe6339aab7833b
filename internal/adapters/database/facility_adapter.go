package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/goldenhour/pkg/errors"
)

const facilitiesTable = "facilities"

var facilityColumns = []interface{}{
	"id", "name", "address", "latitude", "longitude",
	"icu_beds_available", "emergency_beds_available", "specialists",
	"phone_number", "email", "whatsapp_number", "is_active", "updated_at",
}

// FacilityAdapter reads the facility catalog from PostgreSQL
type FacilityAdapter struct {
	db *goqu.Database
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) *FacilityAdapter {
	return &FacilityAdapter{
		db: goqu.New("postgres", client.DB()),
	}
}

// ListFacilities returns active facilities in catalog order
func (a *FacilityAdapter) ListFacilities(ctx context.Context) ([]*entities.Facility, error) {
	query, args, err := a.db.From(facilitiesTable).
		Select(facilityColumns...).
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("catalog_rank").Asc(), goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build facility list query", err)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list facilities", err)
	}
	defer rows.Close()

	var facilities []*entities.Facility
	for rows.Next() {
		facility, err := scanFacility(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}
		facilities = append(facilities, facility)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate facilities", err)
	}

	observability.LoggerFromContext(ctx).Debug().Int("count", len(facilities)).Msg("loaded facility catalog")
	return facilities, nil
}

// GetByID retrieves an active facility by ID
func (a *FacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	query, args, err := a.db.From(facilitiesTable).
		Select(facilityColumns...).
		Where(goqu.Ex{"id": id, "is_active": true}).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build facility query", err)
	}

	facility, err := scanFacility(a.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get facility", err)
	}
	return facility, nil
}

// Upsert inserts or replaces a facility at the given catalog position
func (a *FacilityAdapter) Upsert(ctx context.Context, facility *entities.Facility, rank int) error {
	if facility.UpdatedAt.IsZero() {
		facility.UpdatedAt = time.Now().UTC()
	}
	record := goqu.Record{
		"id":                       facility.ID,
		"name":                     facility.Name,
		"address":                  facility.Address,
		"latitude":                 facility.Location.Latitude,
		"longitude":                facility.Location.Longitude,
		"icu_beds_available":       facility.ICUBedsAvailable,
		"emergency_beds_available": facility.EmergencyBedsAvailable,
		"specialists":              pq.Array(facility.Specialists),
		"phone_number":             facility.PhoneNumber,
		"email":                    facility.Email,
		"whatsapp_number":          facility.WhatsAppNumber,
		"catalog_rank":             rank,
		"is_active":                facility.IsActive,
		"updated_at":               facility.UpdatedAt,
	}

	query, args, err := a.db.Insert(facilitiesTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("id", record)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build facility upsert", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to upsert facility %s", facility.ID), err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFacility(row rowScanner) (*entities.Facility, error) {
	f := &entities.Facility{}
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Address,
		&f.Location.Latitude,
		&f.Location.Longitude,
		&f.ICUBedsAvailable,
		&f.EmergencyBedsAvailable,
		pq.Array(&f.Specialists),
		&f.PhoneNumber,
		&f.Email,
		&f.WhatsAppNumber,
		&f.IsActive,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}
