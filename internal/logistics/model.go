// Package logistics holds the transport-side data shapes shared by the
// simulation providers, the gateway tool invoker and the decision engine.
package logistics

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// WeatherSnapshot is a point-in-time reading for one location.
type WeatherSnapshot struct {
	Location             string  `json:"location"`
	TemperatureC         float64 `json:"temperature_c"`
	Condition            string  `json:"condition"`
	WindKph              float64 `json:"wind_kph"`
	Humidity             float64 `json:"humidity"`
	VisibilityKm         float64 `json:"visibility_km,omitempty"`
	TransportSuitability string  `json:"transport_suitability,omitempty"`
	Region               string  `json:"region,omitempty"`
	Country              string  `json:"country,omitempty"`
	Method               string  `json:"method,omitempty"`
}

// WeatherList accepts a JSON array of snapshots, an object keyed by role
// (e.g. {"origin": {...}, "destination": {...}}) or a single snapshot.
type WeatherList []WeatherSnapshot

func (l *WeatherList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var list []WeatherSnapshot
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*l = list
		return nil
	}

	var single WeatherSnapshot
	if err := json.Unmarshal(data, &single); err == nil && single.Condition != "" {
		*l = WeatherList{single}
		return nil
	}

	var keyed map[string]WeatherSnapshot
	if err := json.Unmarshal(data, &keyed); err != nil {
		return err
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	list := make(WeatherList, 0, len(keys))
	for _, k := range keys {
		list = append(list, keyed[k])
	}
	*l = list
	return nil
}

// Conditions returns the condition text of every snapshot, in order.
func (l WeatherList) Conditions() []string {
	out := make([]string, 0, len(l))
	for _, w := range l {
		if w.Condition != "" {
			out = append(out, w.Condition)
		}
	}
	return out
}

// Price is a fare that may arrive as text ("$450") or a bare number.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Price(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Price(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// Flight describes one flight option. Simulated flights fill Duration; object
// store records fill From, To and DurationHr.
type Flight struct {
	Flight     string  `json:"flight"`
	Airline    string  `json:"airline,omitempty"`
	From       string  `json:"from,omitempty"`
	To         string  `json:"to,omitempty"`
	Departure  string  `json:"departure,omitempty"`
	Arrival    string  `json:"arrival,omitempty"`
	Duration   string  `json:"duration,omitempty"`
	DurationHr float64 `json:"duration_hr,omitempty"`
	Aircraft   string  `json:"aircraft,omitempty"`
	Price      Price   `json:"price,omitempty"`
}

// FlightSearch is the result of a flight lookup between two cities.
type FlightSearch struct {
	Flights        []Flight `json:"flights"`
	FastestFlight  string   `json:"fastest_flight,omitempty"`
	CheapestFlight string   `json:"cheapest_flight,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Method         string   `json:"method,omitempty"`
}

// Endpoint is one end of a transport route.
type Endpoint struct {
	City     string `json:"city"`
	Hospital string `json:"hospital,omitempty"`
}

// UnmarshalJSON also accepts a bare city name.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	var city string
	if err := json.Unmarshal(data, &city); err == nil {
		*e = Endpoint{City: city}
		return nil
	}
	type plain Endpoint
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Endpoint(p)
	return nil
}

// Route joins the donor and recipient endpoints.
type Route struct {
	Origin      Endpoint `json:"origin"`
	Destination Endpoint `json:"destination"`
}
