// Package toolhost serves the viability, weather, flight and matcher tools
// over the gateway tool registry protocol.
package toolhost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"organmatch/internal/assessment"
	"organmatch/internal/gateway"
	"organmatch/internal/logistics"
	"organmatch/internal/store"
)

var ErrUnknownTarget = errors.New("unknown tool target")

// Target ids advertised in the capability manifest.
const (
	TargetViability = "organmatch-viability"
	TargetWeather   = "organmatch-weather"
	TargetFlight    = "organmatch-flight"
	TargetMatcher   = "organmatch-matcher"
)

type TableScanner interface {
	Scan(ctx context.Context, table string) ([]store.Record, error)
}

type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

type WeatherProvider interface {
	Current(ctx context.Context, location string) (logistics.WeatherSnapshot, error)
}

type Host struct {
	tables  TableScanner
	objects ObjectStore
	bucket  string
	key     string
	weather WeatherProvider
	logger  *slog.Logger
}

func New(tables TableScanner, objects ObjectStore, bucket, key string, weather WeatherProvider, logger *slog.Logger) *Host {
	return &Host{
		tables:  tables,
		objects: objects,
		bucket:  bucket,
		key:     key,
		weather: weather,
		logger:  logger,
	}
}

func (h *Host) Manifest() gateway.CapabilityManifest {
	tool := func(name, target string) gateway.ToolRef {
		return gateway.ToolRef{
			Name:        name,
			TargetID:    target,
			Description: "OrganMatch " + strings.ReplaceAll(name, "-", " "),
		}
	}
	return gateway.CapabilityManifest{
		ServerName: "organmatch-tools",
		Version:    "1.0.0",
		Capabilities: []gateway.ToolRef{
			tool(gateway.ToolViability, TargetViability),
			tool(gateway.ToolWeather, TargetWeather),
			tool(gateway.ToolFlight, TargetFlight),
			tool(gateway.ToolMatcher, TargetMatcher),
		},
	}
}

// Execute runs the tool registered under target.
func (h *Host) Execute(ctx context.Context, target string, raw map[string]any) (any, error) {
	p := params(raw)
	switch target {
	case TargetViability:
		return h.viability(p)
	case TargetWeather:
		return h.currentWeather(ctx, p)
	case TargetFlight:
		return h.flights(ctx, p)
	case TargetMatcher:
		return h.match(ctx, p)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, target)
}

func (h *Host) viability(p params) (assessment.ToolViability, error) {
	organType, err := p.requireStr("organ_type")
	if err != nil {
		return assessment.ToolViability{}, err
	}
	var times [2]time.Time
	for i, key := range []string{"time_of_death", "current_time"} {
		s, err := p.requireStr(key)
		if err != nil {
			return assessment.ToolViability{}, err
		}
		if times[i], err = assessment.ParseTimestamp(s); err != nil {
			return assessment.ToolViability{}, fmt.Errorf("parameter %q: %w", key, err)
		}
	}
	temp, err := p.requireFloat("temperature_c")
	if err != nil {
		return assessment.ToolViability{}, err
	}
	condition, err := p.requireFloat("organ_condition_score")
	if err != nil {
		return assessment.ToolViability{}, err
	}
	return assessment.AssessViabilityGatewayTool(organType, times[0], times[1], temp, condition), nil
}

func (h *Host) currentWeather(ctx context.Context, p params) (gateway.ToolWeatherResult, error) {
	if h.weather == nil {
		return gateway.ToolWeatherResult{}, errors.New("weather provider not configured")
	}
	location := p.str("location")
	if location == "" {
		location = "London"
	}
	w, err := h.weather.Current(ctx, location)
	if err != nil {
		return gateway.ToolWeatherResult{}, err
	}
	return gateway.ToolWeatherResult{
		Location:  w.Location,
		Region:    w.Region,
		Country:   w.Country,
		TempC:     w.TemperatureC,
		Condition: w.Condition,
		Humidity:  w.Humidity,
		WindKph:   w.WindKph,
	}, nil
}

type flightResult struct {
	Flights []logistics.Flight `json:"flights"`
}

func (h *Host) flights(ctx context.Context, p params) (flightResult, error) {
	if h.objects == nil {
		return flightResult{}, errors.New("object store not configured")
	}
	raw, err := h.objects.GetObject(ctx, h.bucket, h.key)
	if err != nil {
		return flightResult{}, err
	}
	var records []logistics.Flight
	if err := json.Unmarshal(raw, &records); err != nil {
		return flightResult{}, fmt.Errorf("decode flight records: %w", err)
	}
	from := strings.ToUpper(p.str("from_city"))
	to := strings.ToUpper(p.str("to_city"))

	out := flightResult{Flights: []logistics.Flight{}}
	for _, f := range records {
		if f.From == from && f.To == to {
			out.Flights = append(out.Flights, f)
		}
	}
	return out, nil
}

// match joins donors and recipients on organ and blood type, keeping pairs
// whose hospitals are both known.
func (h *Host) match(ctx context.Context, p params) (gateway.ToolMatchResult, error) {
	if h.tables == nil {
		return gateway.ToolMatchResult{}, store.ErrStoreUnavailable
	}
	donors, err := h.tables.Scan(ctx, store.Donors)
	if err != nil {
		return gateway.ToolMatchResult{}, err
	}
	recipients, err := h.tables.Scan(ctx, store.Recipients)
	if err != nil {
		return gateway.ToolMatchResult{}, err
	}
	hospitals, err := h.tables.Scan(ctx, store.Hospitals)
	if err != nil {
		return gateway.ToolMatchResult{}, err
	}
	byID := make(map[string]store.Record, len(hospitals))
	for _, hosp := range hospitals {
		if id, ok := hosp.String("hospital_id"); ok {
			byID[id] = hosp
		}
	}

	wantDonor, wantRecipient := p.str("donor_id"), p.str("recipient_id")
	out := gateway.ToolMatchResult{Matches: []gateway.Pairing{}}
	for _, d := range donors {
		donorID := d.StringOr("", "donor_id")
		if wantDonor != "" && donorID != wantDonor {
			continue
		}
		for _, r := range recipients {
			recipientID := r.StringOr("", "recipient_id")
			if wantRecipient != "" && recipientID != wantRecipient {
				continue
			}
			organ := d.StringOr("", "organ_type")
			blood := d.StringOr("", "blood_type")
			if organ == "" || !strings.EqualFold(organ, r.StringOr("", "organ_needed")) || blood != r.StringOr("", "blood_type") {
				continue
			}
			donorHosp, ok := byID[d.StringOr("", "hospital_id")]
			if !ok {
				continue
			}
			recipHosp, ok := byID[r.StringOr("", "hospital_id")]
			if !ok {
				continue
			}
			out.Matches = append(out.Matches, gateway.Pairing{
				DonorID:           donorID,
				RecipientID:       recipientID,
				Organ:             organ,
				BloodType:         blood,
				DonorHospital:     donorHosp.StringOr("Unknown", "hospital_name"),
				RecipientHospital: recipHosp.StringOr("Unknown", "hospital_name"),
				DonorCity:         donorHosp.StringOr("", "city"),
				RecipientCity:     recipHosp.StringOr("", "city"),
				TransportReady:    donorHosp.StringOr("False", "transport_ready"),
				UrgencyLevel:      r.StringOr("N/A", "urgency_level"),
				MatchScore: assessment.PairScore(
					d.FloatOr(0, "organ_condition_score"),
					r.FloatOr(1, "urgency_level"),
					d.StringOr("", "hla_typing"),
					r.StringOr("", "hla_typing"),
				),
			})
		}
	}
	out.MatchesFound = len(out.Matches)
	return out, nil
}
