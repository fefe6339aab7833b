package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/goldenhour/internal/api/handlers"
	"github.com/zatekoja/goldenhour/internal/domain/entities"
)

func TestHospitalHandler_FindHospitals(t *testing.T) {
	var (
		gotSeverity    entities.Severity
		gotLocation    entities.Location
		gotSpecialists []string
	)
	dispatcher := &fakeDispatcher{
		shortlist: func(ctx context.Context, severity entities.Severity, location entities.Location, specialists []string) ([]entities.Candidate, error) {
			gotSeverity, gotLocation, gotSpecialists = severity, location, specialists
			return sampleDecision("x").Shortlist, nil
		},
	}
	handler := handlers.NewHospitalHandler(dispatcher)

	body := `{"severity":"red","location":{"lat":28.61,"lng":77.2},"required_specialists":["Trauma Surgeon"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/hospitals", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.FindHospitals(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entities.SeverityRed, gotSeverity)
	assert.Equal(t, entities.Location{Latitude: 28.61, Longitude: 77.2}, gotLocation)
	assert.Equal(t, []string{"trauma_surgeon"}, gotSpecialists)

	var resp struct {
		Hospitals []entities.Candidate `json:"hospitals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Hospitals, 1)
	assert.Equal(t, "aiims-delhi", resp.Hospitals[0].Facility.ID)
}

func TestHospitalHandler_EmptyShortlistIsNotAnError(t *testing.T) {
	dispatcher := &fakeDispatcher{
		shortlist: func(ctx context.Context, severity entities.Severity, location entities.Location, specialists []string) ([]entities.Candidate, error) {
			return []entities.Candidate{}, nil
		},
	}
	handler := handlers.NewHospitalHandler(dispatcher)

	req := httptest.NewRequest(http.MethodPost, "/api/hospitals",
		strings.NewReader(`{"severity":"GREEN","location":{"lat":28.61,"lng":77.2}}`))
	w := httptest.NewRecorder()
	handler.FindHospitals(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hospitals":[]}`, w.Body.String())
}

func TestHospitalHandler_Validation(t *testing.T) {
	handler := handlers.NewHospitalHandler(&fakeDispatcher{})

	for name, body := range map[string]string{
		"unknown severity": `{"severity":"BLUE","location":{"lat":28.61,"lng":77.2}}`,
		"missing location": `{"severity":"RED"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/hospitals", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.FindHospitals(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
