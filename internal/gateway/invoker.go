// Package gateway invokes externally registered tools and falls back to the
// simulation providers whenever a tool is missing, fails or answers with a
// payload that does not decode.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"organmatch/internal/assessment"
	"organmatch/internal/logistics"
	"organmatch/internal/metrics"
	"organmatch/internal/simulation"
)

// ErrToolUnavailable is returned when no target is registered for a tool.
var ErrToolUnavailable = errors.New("tool not available via gateway")

type Invoker struct {
	registry Registry
	targets  map[string]string
	logger   *slog.Logger
	metrics  *metrics.Recorder
	now      func() time.Time
}

// NewInvoker loads the tool target mapping once. A nil registry or a failed
// listing leaves the invoker in simulation-only mode.
func NewInvoker(ctx context.Context, registry Registry, logger *slog.Logger, rec *metrics.Recorder) *Invoker {
	inv := &Invoker{
		registry: registry,
		targets:  map[string]string{},
		logger:   logger,
		metrics:  rec,
		now:      time.Now,
	}
	if registry == nil {
		return inv
	}
	targets, err := registry.ListTargets(ctx)
	if err != nil {
		logger.Warn("could not load gateway targets", "error", err)
		return inv
	}
	inv.targets = targets
	logger.Info("loaded gateway targets", "count", len(targets))
	return inv
}

// ToolCount is the number of registered tool targets.
func (i *Invoker) ToolCount() int {
	return len(i.targets)
}

// InvokeTool calls a registered tool once. It never retries.
func (i *Invoker) InvokeTool(ctx context.Context, name string, params map[string]any) (json.RawMessage, error) {
	targetID, ok := i.targets[name]
	if !ok || i.registry == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrToolUnavailable)
	}
	return i.registry.InvokeTarget(ctx, targetID, params)
}

// invokeInto calls a tool and decodes its payload into out. Any failure is
// logged and reported as false so the caller can fall back.
func (i *Invoker) invokeInto(ctx context.Context, name string, params map[string]any, out any) bool {
	raw, err := i.InvokeTool(ctx, name, params)
	if err == nil {
		err = json.Unmarshal(raw, out)
	}
	if err != nil {
		if !errors.Is(err, ErrToolUnavailable) {
			i.logger.Warn("gateway tool failed, using simulation", "tool", name, "error", err)
		}
		return false
	}
	return true
}

func (i *Invoker) record(tool string, m assessment.Method) {
	i.metrics.Tool(tool, string(m))
}

// CheckViability asks the viability tool first, then the simulated model.
func (i *Invoker) CheckViability(ctx context.Context, organ assessment.OrganDescriptor) ViabilityReport {
	now := i.now()
	donation := organ.DonationTime
	if donation == "" {
		donation = now.Format(time.RFC3339)
	}
	params := map[string]any{
		"organ_type":            organ.OrganType(),
		"time_of_death":         donation,
		"current_time":          now.Format(time.RFC3339),
		"temperature_c":         organ.TemperatureC(),
		"organ_condition_score": organ.Condition(),
	}

	var tool assessment.ToolViability
	if i.invokeInto(ctx, ToolViability, params, &tool) && tool.Status != "" {
		tool.Method = assessment.MethodGateway
		i.record(ToolViability, assessment.MethodGateway)
		return ViabilityReport{Tool: &tool}
	}

	verdict := simulation.Viability(organ, now)
	i.record(ToolViability, assessment.MethodSimulation)
	return ViabilityReport{Verdict: &verdict}
}

// GetWeather asks the weather tool for the city's coordinates, then falls
// back to simulated fair weather.
func (i *Invoker) GetWeather(ctx context.Context, location string) logistics.WeatherSnapshot {
	coords := logistics.CityCoordinates(location)
	params := map[string]any{
		"location":  location,
		"latitude":  coords.Lat,
		"longitude": coords.Lon,
	}

	var tool ToolWeatherResult
	if i.invokeInto(ctx, ToolWeather, params, &tool) && tool.Condition != "" {
		i.record(ToolWeather, assessment.MethodGateway)
		return logistics.WeatherSnapshot{
			Location:     location,
			TemperatureC: tool.TempC,
			Condition:    tool.Condition,
			WindKph:      tool.WindKph,
			Humidity:     tool.Humidity,
			Region:       tool.Region,
			Country:      tool.Country,
			Method:       string(assessment.MethodGateway),
		}
	}

	i.record(ToolWeather, assessment.MethodSimulation)
	return simulation.Weather(location)
}

// SearchFlights asks the flight tool, then falls back to simulated flights.
func (i *Invoker) SearchFlights(ctx context.Context, origin, destination, date string) logistics.FlightSearch {
	if date == "" {
		date = i.now().Format("2006-01-02")
	}
	params := map[string]any{
		"origin":         origin,
		"destination":    destination,
		"from_city":      origin,
		"to_city":        destination,
		"departure_date": date,
	}

	var tool struct {
		Flights *[]logistics.Flight `json:"flights"`
	}
	if i.invokeInto(ctx, ToolFlight, params, &tool) && tool.Flights != nil {
		i.record(ToolFlight, assessment.MethodGateway)
		return summarizeFlights(*tool.Flights)
	}

	i.record(ToolFlight, assessment.MethodSimulation)
	return simulation.Flights(origin, destination, date)
}

func summarizeFlights(flights []logistics.Flight) logistics.FlightSearch {
	out := logistics.FlightSearch{Flights: flights, Method: string(assessment.MethodGateway)}
	if len(flights) == 0 {
		out.Recommendation = "No scheduled flights on this route"
		return out
	}
	fastest := flights[0]
	for _, f := range flights[1:] {
		if f.DurationHr > 0 && (fastest.DurationHr == 0 || f.DurationHr < fastest.DurationHr) {
			fastest = f
		}
	}
	out.FastestFlight = fastest.Flight
	out.Recommendation = fmt.Sprintf("Book %s for fastest transport", fastest.Flight)
	return out
}

// MatchDonorRecipient asks the matcher tool, then falls back to the
// compatibility model.
func (i *Invoker) MatchDonorRecipient(ctx context.Context, donor assessment.Donor, recipient assessment.Recipient) MatchReport {
	params := map[string]any{}
	if donor.ID != "" {
		params["donor_id"] = donor.ID
	}
	if recipient.ID != "" {
		params["recipient_id"] = recipient.ID
	}

	var tool struct {
		MatchesFound *int      `json:"matches_found"`
		Matches      []Pairing `json:"matches"`
	}
	if i.invokeInto(ctx, ToolMatcher, params, &tool) && tool.MatchesFound != nil {
		i.record(ToolMatcher, assessment.MethodGateway)
		return MatchReport{Tool: &ToolMatchResult{
			MatchesFound: *tool.MatchesFound,
			Matches:      tool.Matches,
			Method:       string(assessment.MethodGateway),
		}}
	}

	verdict := simulation.Match(donor, recipient)
	i.record(ToolMatcher, assessment.MethodSimulation)
	return MatchReport{Verdict: &verdict}
}
