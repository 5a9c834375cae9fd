package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summitline/summitline/internal/api"
	"github.com/summitline/summitline/internal/api/models"
	"github.com/summitline/summitline/internal/auth"
	"github.com/summitline/summitline/internal/dataset"
	"github.com/summitline/summitline/internal/prefs"
	"github.com/summitline/summitline/internal/ranking"
)

// testJWTService creates a JWT service for generating test tokens.
func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.summitline.scot",
		Audience:   "summitline-api",
	})
}

// generateTestToken generates a valid test token for a user.
func generateTestToken(t *testing.T) string {
	t.Helper()
	token, _, err := testJWTService().GenerateAccessToken("usr_testuser123")
	require.NoError(t, err)
	return token
}

func testTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return ts
}

func rail(t *testing.T, depart, arrive string) dataset.TransitOption {
	t.Helper()
	return dataset.TransitOption{Legs: []dataset.TransitLeg{
		{
			Mode:        dataset.ModeRail,
			Origin:      "origin",
			Destination: "destination",
			Departure:   testTime(t, depart),
			Arrival:     testTime(t, arrive),
		},
	}}
}

func testSnapshot(t *testing.T) *dataset.Snapshot {
	t.Helper()
	return &dataset.Snapshot{
		Version:  "test-v1",
		LoadedAt: time.Now(),
		Starts: map[string]dataset.Start{
			"glasgow": {ID: "glasgow", Name: "Glasgow"},
		},
		Targets: map[string]*dataset.Trailhead{
			"ben-lui": {
				ID:   "ben-lui",
				Name: "Ben Lui (Tyndrum Lower)",
				Routes: []dataset.Route{{
					Name:             "Ben Lui circuit",
					Slug:             "ben-lui-circuit",
					SummitIDs:        []int64{1},
					DistanceKm:       13.5,
					AscentM:          1100,
					MinDurationHours: 5,
				}},
			},
		},
		Summits: map[int64]dataset.Summit{
			1: {ID: 1, Name: "Ben Lui", Slug: "ben-lui"},
		},
		Results: []dataset.Result{{
			StartID:  "glasgow",
			TargetID: "ben-lui",
			Days: []dataset.DayItineraries{{
				Date:      "2025-06-14",
				Outbounds: []dataset.TransitOption{rail(t, "2025-06-14 08:00", "2025-06-14 10:00")},
				Returns:   []dataset.TransitOption{rail(t, "2025-06-14 17:00", "2025-06-14 19:00")},
			}},
		}},
	}
}

type testEnv struct {
	router         http.Handler
	rankingService *ranking.Service
}

func newTestEnv(t *testing.T, withSnapshot bool) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)

	rankingService := ranking.NewService(ranking.ServiceConfig{Logger: logger})
	if withSnapshot {
		rankingService.SetSnapshot(testSnapshot(t))
	}
	prefsService := prefs.NewService(prefs.NewMemoryRepository(), logger)

	router := api.NewRouter(api.RouterConfig{
		Version:        "test",
		BuildTime:      "2025-01-01T00:00:00Z",
		Logger:         logger,
		JWTService:     testJWTService(),
		RankingService: rankingService,
		PrefsService:   prefsService,
	})

	return &testEnv{router: router, rankingService: rankingService}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_Readiness(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	env.rankingService.SetSnapshot(testSnapshot(t))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ListSummits(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/v1/summits", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	var list models.SummitList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Summits, 1)
	assert.Equal(t, "Ben Lui", list.Summits[0].Name)
}

func TestRouter_GetTarget(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/v1/targets/ben-lui", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	var target models.Trailhead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &target))
	assert.Equal(t, "ben-lui", target.ID)
	require.Len(t, target.Routes, 1)
	assert.Equal(t, 5.0, target.Routes[0].MinDurationHours)
}

func TestRouter_GetTarget_NotFound(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/v1/targets/ben-nevis", http.NoBody))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestRouter_Catalog_NoSnapshot(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/v1/summits", http.NoBody))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_ComputeTarget(t *testing.T) {
	env := newTestEnv(t, true)

	req := httptest.NewRequest(http.MethodPost, "/v1/rankings/targets/ben-lui:compute", http.NoBody)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var rankings models.TargetRankings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rankings))
	assert.Equal(t, "ben-lui", rankings.TargetID)
	assert.Equal(t, "test-v1", rankings.DatasetVersion)
	require.Len(t, rankings.Options, 1)
	assert.Equal(t, "glasgow", rankings.Options[0].StartID)
	assert.NotEmpty(t, rankings.Options[0].Bucket)
	assert.NotEmpty(t, rankings.Options[0].Label)
}

func TestRouter_ComputeTarget_InvalidPreferences(t *testing.T) {
	env := newTestEnv(t, true)

	body := bytes.NewBufferString(`{"version": 1, "unknownField": true}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/rankings/targets/ben-lui:compute", body)
	rec := env.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ComputeStart(t *testing.T) {
	env := newTestEnv(t, true)

	req := httptest.NewRequest(http.MethodPost, "/v1/rankings/starts/glasgow:compute?limit=5", http.NoBody)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var rankings models.StartRankings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rankings))
	assert.Equal(t, "glasgow", rankings.StartID)
	assert.Equal(t, 5, rankings.Limit)
	require.Len(t, rankings.Options, 1)
}

func TestRouter_ComputeStart_BadLimit(t *testing.T) {
	env := newTestEnv(t, true)

	req := httptest.NewRequest(http.MethodPost, "/v1/rankings/starts/glasgow:compute?limit=abc", http.NoBody)
	rec := env.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Preferences_RequiresAuth(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/v1/me/preferences", http.NoBody))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Preferences_RoundTrip(t *testing.T) {
	env := newTestEnv(t, true)
	token := generateTestToken(t)

	// Defaults before anything is saved.
	req := httptest.NewRequest(http.MethodGet, "/v1/me/preferences", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got prefs.UserPreferences
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, prefs.Defaults(), got)

	// Save a custom document.
	doc := `{
		"version": 1,
		"ranking": {
			"allowCycling": false,
			"earliestDeparture": 8,
			"weights": {"departureFit": 2, "hikeFit": 4, "bufferFit": 2, "journeyFit": 2}
		},
		"ui": {"distanceUnit": "mi", "showLabels": true}
	}`
	req = httptest.NewRequest(http.MethodPut, "/v1/me/preferences", bytes.NewBufferString(doc))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Load reflects the saved document.
	req = httptest.NewRequest(http.MethodGet, "/v1/me/preferences", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Ranking.AllowCycling)
	assert.Equal(t, "mi", got.UI.DistanceUnit)

	// Delete reverts to defaults.
	req = httptest.NewRequest(http.MethodDelete, "/v1/me/preferences", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = env.do(req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/me/preferences", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, prefs.Defaults(), got)
}

func TestRouter_PutPreferences_RejectsInvalid(t *testing.T) {
	env := newTestEnv(t, true)
	token := generateTestToken(t)

	doc := `{
		"version": 1,
		"ranking": {
			"allowCycling": true,
			"earliestDeparture": 30,
			"weights": {"departureFit": 2, "hikeFit": 4, "bufferFit": 2, "journeyFit": 2}
		},
		"ui": {"distanceUnit": "km", "showLabels": true}
	}`
	req := httptest.NewRequest(http.MethodPut, "/v1/me/preferences", bytes.NewBufferString(doc))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := env.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.NotEmpty(t, problem.Errors)
	assert.Equal(t, "ranking.earliestDeparture", problem.Errors[0].Field)
}
