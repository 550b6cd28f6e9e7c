package logistics

import (
	"math"
	"strings"
)

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

var cityCoordinates = map[string]Coordinates{
	"boston":      {Lat: 42.3601, Lon: -71.0589},
	"new york":    {Lat: 40.7128, Lon: -74.0060},
	"los angeles": {Lat: 34.0522, Lon: -118.2437},
	"chicago":     {Lat: 41.8781, Lon: -87.6298},
	"miami":       {Lat: 25.7617, Lon: -80.1918},
	"seattle":     {Lat: 47.6062, Lon: -122.3321},
}

var airportCities = map[string]string{
	"BOS": "boston",
	"JFK": "new york",
	"LGA": "new york",
	"LAX": "los angeles",
	"ORD": "chicago",
	"MIA": "miami",
	"SEA": "seattle",
}

// DefaultCoordinates is used for cities outside the lookup table.
var DefaultCoordinates = cityCoordinates["boston"]

// LookupCity reports the coordinates of a known city, case-insensitively.
// IATA codes of the cities' main airports are accepted too.
func LookupCity(city string) (Coordinates, bool) {
	city = strings.TrimSpace(city)
	if name, ok := airportCities[strings.ToUpper(city)]; ok {
		city = name
	}
	c, ok := cityCoordinates[strings.ToLower(city)]
	return c, ok
}

// CityCoordinates returns the city's coordinates or DefaultCoordinates.
func CityCoordinates(city string) Coordinates {
	if c, ok := LookupCity(city); ok {
		return c
	}
	return DefaultCoordinates
}

const earthRadiusMiles = 3958.8

// DistanceMiles is the great-circle distance between two points.
func DistanceMiles(a, b Coordinates) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
