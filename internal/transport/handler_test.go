package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"organmatch/internal/httpapi"
)

type fakeReporter struct {
	got Decision
	err error
}

func (f *fakeReporter) Generate(_ context.Context, d Decision) ([]byte, error) {
	f.got = d
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 test"), nil
}

func newRouter(objects ObjectStore, reports Reporter) http.Handler {
	h := NewHandler(newTestService(nil), newTestPlanner(objects, fakeWeather{}), reports, discard())
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) { RegisterRoutes(r, h) })
	return r
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestDecideEndpoint(t *testing.T) {
	body := `{
		"organ": {"type": "liver", "condition_score": 88},
		"route": {"origin": {"city": "Boston", "hospital": "MGH"}, "destination": "Miami"},
		"flight": {"flight": "AA123", "duration": "3h 10m"},
		"weather": {"origin": {"location": "Boston", "condition": "Sunny"}, "destination": {"location": "Miami", "condition": "Thunderstorm"}},
		"recipientId": "R-17",
		"severity": "critical",
		"matchScore": 91,
		"viabilityData": {"is_viable": true, "hours_left": 9.5, "urgency": "High"},
		"timestamp": "2025-03-14T08:00:00Z"
	}`
	rec := post(newRouter(nil, nil), "/api/agent-transport-decision", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var d Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, Proceed, d.Recommendation)
	assert.Equal(t, SourceRules, d.Source)
	assert.Equal(t, 115, d.Confidence)
	assert.Equal(t, "R-17", d.Context.RecipientID)
	assert.Equal(t, "Miami", d.Context.Route.Destination.City)
	assert.Len(t, d.Context.Weather, 2)
	assert.Equal(t, "2025-03-14T08:00:00Z", d.Timestamp)
}

func TestDecideEndpoint_MalformedBodyStillDecides(t *testing.T) {
	rec := post(newRouter(nil, nil), "/api/agent-transport-decision", `{"organ":`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"rule_based"`)
	assert.NotContains(t, rec.Body.String(), `"error"`)
}

func TestReportEndpoint(t *testing.T) {
	reports := &fakeReporter{}
	rec := post(newRouter(nil, reports), "/api/transport-decision/report", `{"severity":"high","matchScore":77}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
	assert.Equal(t, "high", reports.got.Context.Severity)

	failing := post(newRouter(nil, &fakeReporter{err: errors.New("font not found")}), "/api/transport-decision/report", `{}`)
	assert.Equal(t, http.StatusInternalServerError, failing.Code)
	assert.JSONEq(t, `{"error":"font not found"}`, failing.Body.String())
}

func TestPlanEndpoints(t *testing.T) {
	ok := post(newRouter(fakeObjects{body: []byte(flightRecords)}, nil), "/api/transport-plan", `{}`)
	require.Equal(t, http.StatusOK, ok.Code)
	assert.Contains(t, ok.Body.String(), `"origin":"SFO"`)

	failed := post(newRouter(fakeObjects{err: errors.New("AccessDenied")}, nil), "/api/transport-plan", `{"origin":"SFO","destination":"BOS"}`)
	assert.Equal(t, http.StatusInternalServerError, failed.Code)
	assert.Contains(t, failed.Body.String(), "AccessDenied")

	bad := post(newRouter(nil, nil), "/api/transport-plan-dynamic", `[`)
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	dyn := post(newRouter(nil, nil), "/api/transport-plan-dynamic", `{"origin":"Seattle","destination":"Miami"}`)
	require.Equal(t, http.StatusOK, dyn.Code)
	assert.Contains(t, dyn.Body.String(), `"method":"simulation"`)
}

func TestDecideEndpoint_ExemptFromRateLimit(t *testing.T) {
	h := NewHandler(newTestService(nil), newTestPlanner(nil, fakeWeather{}), nil, discard())
	limiter := httpapi.NewRateLimiter(1, 1)
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) { RegisterRoutes(r, h, limiter.Middleware) })

	for i := 0; i < 5; i++ {
		rec := post(r, "/api/agent-transport-decision", `{"severity":"high","matchScore":80}`)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Contains(t, rec.Body.String(), `"recommendation"`)
	}

	assert.Equal(t, http.StatusOK, post(r, "/api/transport-plan-dynamic", `{}`).Code)
	limited := post(r, "/api/transport-plan-dynamic", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, limited.Body.String())
}
