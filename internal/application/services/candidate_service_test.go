package services_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/goldenhour/internal/application/services"
	"github.com/zatekoja/goldenhour/internal/domain/entities"
)

func TestCandidateService_RedRequiresICUAndAllSpecialists(t *testing.T) {
	withICU := facility("a", 28.60, 2, 0, "cardiologist")
	noICU := facility("b", 28.61, 0, 10, "cardiologist")
	missingSpecialist := facility("c", 28.62, 5, 5, "trauma_surgeon")

	router := newStubRouter().
		route(withICU.Location, 5, 12).
		route(noICU.Location, 1, 3).
		route(missingSpecialist.Location, 0.5, 2)

	svc := services.NewCandidateService(router, time.Second, nil)
	got, err := svc.Select(context.Background(), entities.SeverityRed, origin, []string{"cardiologist"},
		[]*entities.Facility{withICU, noICU, missingSpecialist})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Facility.ID)
	assert.Equal(t, 5.0, got[0].Route.DistanceKm)
	assert.Equal(t, 12.0, got[0].Route.DurationMin)
	assert.True(t, got[0].Eligible)
	assert.Zero(t, router.callsTo(noICU.Location), "ineligible facilities are not routed")
}

func TestCandidateService_SpecialistsAreASubsetTest(t *testing.T) {
	both := facility("both", 28.60, 1, 1, "cardiologist", "emergency_physician", "neurologist")
	onlyOne := facility("one", 28.61, 1, 1, "cardiologist")

	router := newStubRouter().route(both.Location, 4, 9).route(onlyOne.Location, 2, 5)

	svc := services.NewCandidateService(router, time.Second, nil)
	got, err := svc.Select(context.Background(), entities.SeverityRed, origin,
		[]string{"cardiologist", "emergency_physician"}, []*entities.Facility{onlyOne, both})

	require.NoError(t, err)
	assert.Equal(t, []string{"both"}, ids(got))
}

func TestCandidateService_BedRulesBySeverity(t *testing.T) {
	icuOnly := facility("icu", 28.60, 3, 0, "general_physician")
	erOnly := facility("er", 28.61, 0, 3, "general_physician")
	noBeds := facility("none", 28.62, 0, 0, "general_physician")
	catalog := []*entities.Facility{icuOnly, erOnly, noBeds}

	router := newStubRouter().
		route(icuOnly.Location, 1, 1).
		route(erOnly.Location, 2, 2).
		route(noBeds.Location, 3, 3)
	svc := services.NewCandidateService(router, time.Second, nil)

	tests := []struct {
		severity entities.Severity
		want     []string
	}{
		{entities.SeverityRed, []string{"icu"}},
		{entities.SeverityYellow, []string{"er"}},
		{entities.SeverityGreen, []string{"icu", "er", "none"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			got, err := svc.Select(context.Background(), tt.severity, origin, []string{"general_physician"}, catalog)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestCandidateService_TruncatesToFiveNearest(t *testing.T) {
	router := newStubRouter()
	var catalog []*entities.Facility
	for i := 0; i < 8; i++ {
		f := facility(string(rune('a'+i)), 28.0+float64(i)/100, 1, 1, "trauma_surgeon")
		router.route(f.Location, float64(8-i), float64(8-i)*2)
		catalog = append(catalog, f)
	}

	svc := services.NewCandidateService(router, time.Second, nil)
	got, err := svc.Select(context.Background(), entities.SeverityRed, origin, []string{"trauma_surgeon"}, catalog)

	require.NoError(t, err)
	require.Len(t, got, services.MaxShortlistSize)
	assert.Equal(t, []string{"h", "g", "f", "e", "d"}, ids(got))
	for _, c := range got {
		assert.GreaterOrEqual(t, c.Facility.ICUBedsAvailable, 1)
		assert.True(t, c.Facility.HasSpecialists([]string{"trauma_surgeon"}))
	}
}

func TestCandidateService_DistanceTieFavoursMoreBeds(t *testing.T) {
	small := facility("small", 28.60, 1, 1, "general_physician")
	large := facility("large", 28.61, 4, 6, "general_physician")

	router := newStubRouter().route(small.Location, 3, 7).route(large.Location, 3, 9)

	svc := services.NewCandidateService(router, time.Second, nil)
	got, err := svc.Select(context.Background(), entities.SeverityGreen, origin, nil, []*entities.Facility{small, large})

	require.NoError(t, err)
	assert.Equal(t, []string{"large", "small"}, ids(got))
}

func TestCandidateService_FullTieKeepsCatalogOrder(t *testing.T) {
	first := facility("first", 28.60, 2, 2)
	second := facility("second", 28.61, 2, 2)
	third := facility("third", 28.62, 2, 2)

	router := newStubRouter().
		route(first.Location, 3, 7).
		route(second.Location, 3, 7).
		route(third.Location, 3, 7)

	svc := services.NewCandidateService(router, time.Second, nil)
	got, err := svc.Select(context.Background(), entities.SeverityGreen, origin, nil, []*entities.Facility{first, second, third})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, ids(got))
}

func TestCandidateService_DropsFailedAndTimedOutLookups(t *testing.T) {
	ok := facility("ok", 28.60, 1, 1)
	unroutable := facility("unroutable", 28.61, 1, 1)
	slow := facility("slow", 28.62, 1, 1)

	router := newStubRouter().
		route(ok.Location, 6, 14).
		route(slow.Location, 1, 2).
		slow(slow.Location, time.Second)

	svc := services.NewCandidateService(router, 20*time.Millisecond, nil)
	got, err := svc.Select(context.Background(), entities.SeverityGreen, origin, nil, []*entities.Facility{ok, unroutable, slow})

	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, ids(got))
}

func TestCandidateService_DropsNonFiniteRoutes(t *testing.T) {
	ok := facility("ok", 28.60, 1, 1)
	nanDistance := facility("nan-distance", 28.61, 1, 1)
	nanDuration := facility("nan-duration", 28.62, 1, 1)
	infDistance := facility("inf-distance", 28.63, 1, 1)

	router := newStubRouter().
		route(ok.Location, 6, 14).
		route(nanDistance.Location, math.NaN(), 3).
		route(nanDuration.Location, 2, math.NaN()).
		route(infDistance.Location, math.Inf(1), 3)

	svc := services.NewCandidateService(router, time.Second, nil)
	got, err := svc.Select(context.Background(), entities.SeverityGreen, origin, nil,
		[]*entities.Facility{nanDistance, ok, nanDuration, infDistance})

	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, ids(got))
}

func TestCandidateService_EmptyIsNotAnError(t *testing.T) {
	svc := services.NewCandidateService(newStubRouter(), time.Second, nil)

	got, err := svc.Select(context.Background(), entities.SeverityRed, origin, []string{"cardiologist"}, nil)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCandidateService_CancelledContext(t *testing.T) {
	f := facility("a", 28.60, 1, 1)
	router := newStubRouter().route(f.Location, 1, 1)
	svc := services.NewCandidateService(router, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Select(ctx, entities.SeverityGreen, origin, nil, []*entities.Facility{f})
	assert.ErrorIs(t, err, context.Canceled)
}
