// Package simulation provides deterministic stand-ins for the weather, flight,
// viability and matching backends. Every function is pure given its inputs.
package simulation

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"organmatch/internal/assessment"
	"organmatch/internal/logistics"
)

const method = string(assessment.MethodSimulation)

// Weather returns fixed fair-weather conditions for any location.
func Weather(location string) logistics.WeatherSnapshot {
	return logistics.WeatherSnapshot{
		Location:             location,
		TemperatureC:         15,
		Condition:            "Clear",
		WindKph:              12,
		VisibilityKm:         10,
		Humidity:             65,
		TransportSuitability: "Excellent",
		Method:               method,
	}
}

// FlightNumber derives a stable flight number for a carrier: the carrier's
// base number plus the xxhash of key reduced modulo 900.
func FlightNumber(carrier string, base int, key string) string {
	return fmt.Sprintf("%s%d", carrier, base+int(xxhash.Sum64String(key)%900))
}

// Flights returns three scheduled options between origin and destination.
// The date is accepted for interface parity and does not change the schedule.
func Flights(origin, destination, _ string) logistics.FlightSearch {
	flights := []logistics.Flight{
		{
			Flight:    FlightNumber("AA", 123, origin),
			Departure: "14:30",
			Arrival:   "18:45",
			Duration:  "6h 15m",
			Aircraft:  "Boeing 737",
			Price:     "$450",
		},
		{
			Flight:    FlightNumber("DL", 456, destination),
			Departure: "16:00",
			Arrival:   "20:30",
			Duration:  "6h 30m",
			Aircraft:  "Airbus A320",
			Price:     "$380",
		},
		{
			Flight:    FlightNumber("UA", 789, origin+destination),
			Departure: "18:15",
			Arrival:   "22:45",
			Duration:  "6h 30m",
			Aircraft:  "Boeing 757",
			Price:     "$420",
		},
	}
	return logistics.FlightSearch{
		Flights:        flights,
		FastestFlight:  flights[0].Flight,
		CheapestFlight: flights[1].Flight,
		Recommendation: fmt.Sprintf("Book %s for fastest transport", flights[0].Flight),
		Method:         method,
	}
}

// Viability is the simulated viability check.
func Viability(organ assessment.OrganDescriptor, now time.Time) assessment.ViabilityVerdict {
	return assessment.AssessViabilitySimulated(organ, now)
}

// Match is the simulated donor-recipient match.
func Match(donor assessment.Donor, recipient assessment.Recipient) assessment.MatchVerdict {
	return assessment.MatchDonorRecipient(donor, recipient)
}
