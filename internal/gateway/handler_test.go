package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(inv *Invoker) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, NewHandler(inv))
	})
	return r
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestCheckViabilityEndpoint(t *testing.T) {
	h := newRouter(newTestInvoker(nil))
	donated := testNow.Add(-2 * time.Hour).Format(time.RFC3339)

	rec := post(t, h, "/api/check-viability", `{"organ":{"type":"heart","temperature":4,"condition_score":90,"donation_time":"`+donated+`"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["is_viable"])
	assert.Equal(t, 3.6, got["hours_left"])
	assert.Equal(t, "Medium", got["urgency"])
	assert.Equal(t, "simulation", got["method"])
}

func TestGetWeatherEndpoint_DefaultLocation(t *testing.T) {
	rec := post(t, newRouter(newTestInvoker(nil)), "/api/get-weather", ``)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"location":"Boston"`)
}

func TestSearchFlightsEndpoint_Defaults(t *testing.T) {
	rec := post(t, newRouter(newTestInvoker(nil)), "/api/search-flights", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Flights []map[string]any `json:"flights"`
		Method  string           `json:"method"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Flights, 3)
	assert.Equal(t, "simulation", got.Method)
}

func TestMatchCompatibilityEndpoint(t *testing.T) {
	rec := post(t, newRouter(newTestInvoker(nil)), "/api/match-compatibility",
		`{"donor":{"blood_type":"A+","age":35},"recipient":{"blood_type":"A+","age":35}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"is_compatible":true,"match_score":92.5,"blood_type_match":true,"tissue_compatibility":"Excellent","recommendation":"Proceed with transplant","method":"simulation"}`, rec.Body.String())
}

func TestEndpoints_RejectMalformedJSON(t *testing.T) {
	h := newRouter(newTestInvoker(nil))
	for _, path := range []string{"/api/check-viability", "/api/get-weather", "/api/search-flights", "/api/match-compatibility"} {
		rec := post(t, h, path, `{"organ":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `"error"`, path)
	}
}
