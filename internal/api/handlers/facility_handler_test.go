package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/goldenhour/internal/adapters/database"
	"github.com/zatekoja/goldenhour/internal/api/handlers"
	"github.com/zatekoja/goldenhour/internal/domain/entities"
)

func TestFacilityHandler_ListFacilities(t *testing.T) {
	handler := handlers.NewFacilityHandler(database.NewMemoryFacilityAdapter(database.DefaultFacilities()))

	w := httptest.NewRecorder()
	handler.ListFacilities(w, httptest.NewRequest(http.MethodGet, "/api/facilities", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Facilities []entities.Facility `json:"facilities"`
		Count      int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, len(database.DefaultFacilities()), body.Count)
	assert.Equal(t, "aiims-delhi", body.Facilities[0].ID)
}

func TestFacilityHandler_GetFacility(t *testing.T) {
	handler := handlers.NewFacilityHandler(database.NewMemoryFacilityAdapter(database.DefaultFacilities()))

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{name: "existing facility", id: "safdarjung", wantStatus: http.StatusOK},
		{name: "unknown facility", id: "nowhere", wantStatus: http.StatusNotFound},
		{name: "missing id", id: "", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/facilities/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.GetFacility(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
