package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"organmatch/internal/assessment"
	"organmatch/internal/simulation"
)

type fakeRegistry struct {
	targets  map[string]string
	listErr  error
	payloads map[string]string
	errs     map[string]error
	calls    []string
	params   map[string]map[string]any
}

func (f *fakeRegistry) ListTargets(context.Context) (map[string]string, error) {
	return f.targets, f.listErr
}

func (f *fakeRegistry) InvokeTarget(_ context.Context, targetID string, params map[string]any) (json.RawMessage, error) {
	f.calls = append(f.calls, targetID)
	if f.params == nil {
		f.params = map[string]map[string]any{}
	}
	f.params[targetID] = params
	if err := f.errs[targetID]; err != nil {
		return nil, err
	}
	return json.RawMessage(f.payloads[targetID]), nil
}

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestInvoker(reg Registry) *Invoker {
	inv := NewInvoker(context.Background(), reg, discard(), nil)
	inv.now = func() time.Time { return testNow }
	return inv
}

func allTargets() map[string]string {
	return map[string]string{
		ToolViability: "t-via",
		ToolWeather:   "t-wx",
		ToolFlight:    "t-fl",
		ToolMatcher:   "t-mt",
	}
}

func TestNewInvoker_ListFailureIsSimulationOnly(t *testing.T) {
	inv := newTestInvoker(&fakeRegistry{listErr: errors.New("access denied")})
	assert.Equal(t, 0, inv.ToolCount())

	_, err := inv.InvokeTool(context.Background(), ToolWeather, nil)
	assert.ErrorIs(t, err, ErrToolUnavailable)
}

func TestInvoker_NilRegistry(t *testing.T) {
	inv := newTestInvoker(nil)
	w := inv.GetWeather(context.Background(), "Seattle")
	assert.Equal(t, simulation.Weather("Seattle"), w)
}

func TestCheckViability_Gateway(t *testing.T) {
	reg := &fakeRegistry{
		targets:  allTargets(),
		payloads: map[string]string{"t-via": `{"organ_type":"heart","hours_elapsed":2,"viability_score":0.5,"status":"viable"}`},
	}
	inv := newTestInvoker(reg)

	report := inv.CheckViability(context.Background(), assessment.OrganDescriptor{Type: "heart", DonationTime: "2025-03-14T10:00:00Z"})
	require.NotNil(t, report.Tool)
	assert.Nil(t, report.Verdict)
	assert.Equal(t, assessment.MethodGateway, report.Method())
	assert.Equal(t, "viable", report.Tool.Status)

	params := reg.params["t-via"]
	assert.Equal(t, "heart", params["organ_type"])
	assert.Equal(t, "2025-03-14T10:00:00Z", params["time_of_death"])
	assert.Equal(t, "2025-03-14T12:00:00Z", params["current_time"])
	assert.Equal(t, 4.0, params["temperature_c"])
	assert.Equal(t, 85.0, params["organ_condition_score"])

	body, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"organ_type":"heart","hours_elapsed":2,"viability_score":0.5,"status":"viable","method":"gateway"}`, string(body))
}

func TestCheckViability_FallsBackOnError(t *testing.T) {
	reg := &fakeRegistry{targets: allTargets(), errs: map[string]error{"t-via": errors.New("lambda timeout")}}
	inv := newTestInvoker(reg)

	report := inv.CheckViability(context.Background(), assessment.OrganDescriptor{Type: "kidney"})
	require.NotNil(t, report.Verdict)
	assert.Equal(t, assessment.MethodSimulation, report.Verdict.Method)
	assert.Equal(t, 24.0, report.Verdict.MaxHours)
}

func TestCheckViability_FallsBackOnMalformedPayload(t *testing.T) {
	for _, payload := range []string{`not json`, `{"organ_type":"heart"}`, `[]`} {
		reg := &fakeRegistry{targets: allTargets(), payloads: map[string]string{"t-via": payload}}
		report := newTestInvoker(reg).CheckViability(context.Background(), assessment.OrganDescriptor{})
		assert.NotNil(t, report.Verdict, payload)
	}
}

func TestGetWeather_Gateway(t *testing.T) {
	reg := &fakeRegistry{
		targets:  allTargets(),
		payloads: map[string]string{"t-wx": `{"location":"Chicago","region":"Illinois","country":"USA","temp_c":-3,"condition":"Light snow","humidity":80,"wind_kph":22}`},
	}
	w := newTestInvoker(reg).GetWeather(context.Background(), "chicago")

	assert.Equal(t, "chicago", w.Location)
	assert.Equal(t, "Light snow", w.Condition)
	assert.Equal(t, -3.0, w.TemperatureC)
	assert.Equal(t, "gateway", w.Method)
	assert.Equal(t, 41.8781, reg.params["t-wx"]["latitude"])
}

func TestSearchFlights(t *testing.T) {
	reg := &fakeRegistry{
		targets: allTargets(),
		payloads: map[string]string{"t-fl": `{"flights":[
			{"flight":"UA100","from":"SFO","to":"BOS","duration_hr":6.5,"price":420},
			{"flight":"B6200","from":"SFO","to":"BOS","duration_hr":5.75,"price":310}
		]}`},
	}
	res := newTestInvoker(reg).SearchFlights(context.Background(), "SFO", "BOS", "")
	assert.Equal(t, "gateway", res.Method)
	assert.Len(t, res.Flights, 2)
	assert.Equal(t, "B6200", res.FastestFlight)
	assert.Equal(t, "2025-03-14", reg.params["t-fl"]["departure_date"])

	empty := &fakeRegistry{targets: allTargets(), payloads: map[string]string{"t-fl": `{"error":"no such route"}`}}
	sim := newTestInvoker(empty).SearchFlights(context.Background(), "SFO", "BOS", "")
	assert.Equal(t, simulation.Flights("SFO", "BOS", ""), sim)
}

func TestMatchDonorRecipient(t *testing.T) {
	reg := &fakeRegistry{
		targets:  allTargets(),
		payloads: map[string]string{"t-mt": `{"matches_found":1,"matches":[{"donor_id":"D1","recipient_id":"R9","organ":"kidney","match_score":88.5}]}`},
	}
	report := newTestInvoker(reg).MatchDonorRecipient(context.Background(), assessment.Donor{ID: "D1"}, assessment.Recipient{})
	require.NotNil(t, report.Tool)
	assert.Equal(t, 1, report.Tool.MatchesFound)
	assert.Equal(t, map[string]any{"donor_id": "D1"}, reg.params["t-mt"])

	unregistered := newTestInvoker(&fakeRegistry{targets: map[string]string{}})
	sim := unregistered.MatchDonorRecipient(context.Background(), assessment.Donor{BloodType: "O+"}, assessment.Recipient{BloodType: "O+"})
	require.NotNil(t, sim.Verdict)
	assert.Equal(t, 87.5, sim.Verdict.MatchScore)
}
