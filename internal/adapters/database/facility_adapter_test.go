package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/goldenhour/pkg/errors"
)

var facilityRowColumns = []string{
	"id", "name", "address", "latitude", "longitude",
	"icu_beds_available", "emergency_beds_available", "specialists",
	"phone_number", "email", "whatsapp_number", "is_active", "updated_at",
}

func newMockAdapter(t *testing.T) (*FacilityAdapter, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFacilityAdapter(postgres.NewClientFromDB(db)), mock
}

func TestFacilityAdapter_ListFacilities(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	updated := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(facilityRowColumns).
		AddRow("aiims-delhi", "AIIMS Delhi", "Ansari Nagar", 28.5672, 77.21, 5, 12,
			"{cardiologist,emergency_physician}", "+911126588500", "er@aiims.example", "", true, updated).
		AddRow("bsa-rohini", "BSA Hospital", "Rohini", 28.7142, 77.1152, 0, 8,
			"{general_physician}", "", "", "+919999999999", true, updated)

	mock.ExpectQuery(`SELECT .* FROM "facilities" WHERE \("is_active" IS TRUE\) ORDER BY "catalog_rank" ASC, "id" ASC`).
		WillReturnRows(rows)

	facilities, err := adapter.ListFacilities(context.Background())
	require.NoError(t, err)
	require.Len(t, facilities, 2)

	assert.Equal(t, "aiims-delhi", facilities[0].ID)
	assert.Equal(t, entities.Location{Latitude: 28.5672, Longitude: 77.21}, facilities[0].Location)
	assert.Equal(t, 5, facilities[0].ICUBedsAvailable)
	assert.Equal(t, []string{"cardiologist", "emergency_physician"}, facilities[0].Specialists)
	assert.Equal(t, "+919999999999", facilities[1].WhatsAppNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilityAdapter_ListFacilitiesQueryError(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	mock.ExpectQuery(`SELECT .* FROM "facilities"`).WillReturnError(errors.New("connection reset by peer"))

	_, err := adapter.ListFacilities(context.Background())

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilityAdapter_GetByID(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT .* FROM "facilities" WHERE .*"id" = 'lnjp'.* LIMIT 1`).
		WillReturnRows(sqlmock.NewRows(facilityRowColumns).
			AddRow("lnjp", "Lok Nayak Hospital", "JLN Marg", 28.6389, 77.239, 4, 15,
				"{trauma_surgeon}", "", "", "", true, time.Now()))

	facility, err := adapter.GetByID(context.Background(), "lnjp")
	require.NoError(t, err)
	assert.Equal(t, "Lok Nayak Hospital", facility.Name)
	assert.Equal(t, []string{"trauma_surgeon"}, facility.Specialists)

	mock.ExpectQuery(`SELECT .* FROM "facilities"`).WillReturnError(sql.ErrNoRows)
	_, err = adapter.GetByID(context.Background(), "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacilityAdapter_Upsert(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`INSERT INTO "facilities" .* ON CONFLICT \(id\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Upsert(context.Background(), &entities.Facility{
		ID:          "aiims-delhi",
		Name:        "AIIMS Delhi",
		Location:    entities.Location{Latitude: 28.5672, Longitude: 77.21},
		Specialists: []string{"cardiologist"},
		IsActive:    true,
	}, 1)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryFacilityAdapter(t *testing.T) {
	inactive := &entities.Facility{ID: "closed", Name: "Closed Clinic"}
	catalog := append(DefaultFacilities(), inactive)
	adapter := NewMemoryFacilityAdapter(catalog)

	facilities, err := adapter.ListFacilities(context.Background())
	require.NoError(t, err)
	assert.Len(t, facilities, len(catalog)-1)
	assert.Equal(t, "aiims-delhi", facilities[0].ID)

	facilities[0].Specialists[0] = "mutated"
	again, err := adapter.GetByID(context.Background(), "aiims-delhi")
	require.NoError(t, err)
	assert.Equal(t, "cardiologist", again.Specialists[0])

	_, err = adapter.GetByID(context.Background(), "closed")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
