package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"organmatch/internal/logistics"
)

const maxPlanFlights = 5

var errNoWeatherProvider = errors.New("weather provider not configured")

// ObjectStore fetches the flight records object.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// WeatherProvider returns current conditions for a city.
type WeatherProvider interface {
	Current(ctx context.Context, location string) (logistics.WeatherSnapshot, error)
}

// ToolInvoker is the gateway-backed lookup used by dynamic plans.
type ToolInvoker interface {
	GetWeather(ctx context.Context, location string) logistics.WeatherSnapshot
	SearchFlights(ctx context.Context, origin, destination, date string) logistics.FlightSearch
}

type PlanRoute struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	Distance      string `json:"distance"`
	EstimatedTime string `json:"estimatedTime"`
}

// CityWeather carries either a snapshot or the error that prevented one.
type CityWeather struct {
	City string `json:"city"`
	*logistics.WeatherSnapshot
	Error string `json:"error,omitempty"`
}

type PlanWeather struct {
	Origin      CityWeather `json:"origin"`
	Destination CityWeather `json:"destination"`
}

type PlanLogistics struct {
	CoolerType                  string `json:"coolerType"`
	EstimatedViabilityAtArrival string `json:"estimatedViabilityAtArrival"`
	BackupOptions               int    `json:"backupOptions"`
	MedicalTeamReady            bool   `json:"medicalTeamReady"`
	Timestamp                   string `json:"timestamp"`
}

type Plan struct {
	Route     PlanRoute          `json:"route"`
	Flights   []logistics.Flight `json:"flights"`
	Weather   PlanWeather        `json:"weather"`
	Logistics PlanLogistics      `json:"logistics"`
	Method    string             `json:"method,omitempty"`
}

// Planner assembles transport plans from flight records and weather.
type Planner struct {
	objects ObjectStore
	bucket  string
	key     string
	weather WeatherProvider
	tools   ToolInvoker
	now     func() time.Time
}

func NewPlanner(objects ObjectStore, bucket, key string, weather WeatherProvider, tools ToolInvoker) *Planner {
	return &Planner{
		objects: objects,
		bucket:  bucket,
		key:     key,
		weather: weather,
		tools:   tools,
		now:     time.Now,
	}
}

// Plan reads scheduled flights from the object store and live weather for
// both cities. Only an object store failure is returned as an error.
func (p *Planner) Plan(ctx context.Context, origin, destination string) (Plan, error) {
	if p.objects == nil {
		return Plan{}, errors.New("object store not configured")
	}
	raw, err := p.objects.GetObject(ctx, p.bucket, p.key)
	if err != nil {
		return Plan{}, fmt.Errorf("fetch flight records: %w", err)
	}
	var records []logistics.Flight
	if err := json.Unmarshal(raw, &records); err != nil {
		return Plan{}, fmt.Errorf("decode flight records: %w", err)
	}

	flights := make([]logistics.Flight, 0, maxPlanFlights)
	for _, f := range records {
		if strings.EqualFold(f.From, origin) && strings.EqualFold(f.To, destination) {
			flights = append(flights, f)
			if len(flights) == maxPlanFlights {
				break
			}
		}
	}

	return p.assemble(origin, destination, flights, PlanWeather{
		Origin:      p.liveWeather(ctx, origin),
		Destination: p.liveWeather(ctx, destination),
	}), nil
}

func (p *Planner) liveWeather(ctx context.Context, city string) CityWeather {
	if p.weather == nil {
		return CityWeather{City: city, Error: errNoWeatherProvider.Error()}
	}
	snap, err := p.weather.Current(ctx, city)
	if err != nil {
		return CityWeather{City: city, Error: err.Error()}
	}
	return CityWeather{City: city, WeatherSnapshot: &snap}
}

// DynamicPlan builds the same plan through the gateway tools, which fall
// back to simulation on their own. It never fails.
func (p *Planner) DynamicPlan(ctx context.Context, origin, destination string) Plan {
	search := p.tools.SearchFlights(ctx, origin, destination, "")
	flights := search.Flights
	if len(flights) > maxPlanFlights {
		flights = flights[:maxPlanFlights]
	}
	wOrigin := p.tools.GetWeather(ctx, origin)
	wDest := p.tools.GetWeather(ctx, destination)

	plan := p.assemble(origin, destination, flights, PlanWeather{
		Origin:      CityWeather{City: origin, WeatherSnapshot: &wOrigin},
		Destination: CityWeather{City: destination, WeatherSnapshot: &wDest},
	})
	plan.Method = search.Method
	return plan
}

func (p *Planner) assemble(origin, destination string, flights []logistics.Flight, weather PlanWeather) Plan {
	return Plan{
		Route: PlanRoute{
			Origin:        origin,
			Destination:   destination,
			Distance:      distance(origin, destination),
			EstimatedTime: estimatedTime(flights),
		},
		Flights: flights,
		Weather: weather,
		Logistics: PlanLogistics{
			CoolerType:                  "Advanced Perfusion System",
			EstimatedViabilityAtArrival: "90%",
			BackupOptions:               2,
			MedicalTeamReady:            true,
			Timestamp:                   p.now().UTC().Format(time.RFC3339),
		},
	}
}

func distance(origin, destination string) string {
	a, okA := logistics.LookupCity(origin)
	b, okB := logistics.LookupCity(destination)
	if !okA || !okB {
		return "N/A"
	}
	return fmt.Sprintf("%.0f miles", logistics.DistanceMiles(a, b))
}

func estimatedTime(flights []logistics.Flight) string {
	if len(flights) == 0 {
		return "N/A"
	}
	if h, ok := FlightHours(flights[0]); ok {
		return strconv.FormatFloat(h, 'f', -1, 64) + " hours"
	}
	return "N/A"
}
