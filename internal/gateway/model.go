package gateway

import (
	"encoding/json"

	"organmatch/internal/assessment"
)

// Registered gateway tool names.
const (
	ToolViability = "viability-tool"
	ToolWeather   = "weather-tool"
	ToolFlight    = "flight-tool"
	ToolMatcher   = "matcher-tool"
)

// Pairing is one organ- and blood-matched donor/recipient pair produced by
// the matcher tool.
type Pairing struct {
	DonorID           string  `json:"donor_id"`
	RecipientID       string  `json:"recipient_id"`
	Organ             string  `json:"organ"`
	BloodType         string  `json:"blood_type"`
	DonorHospital     string  `json:"donor_hospital"`
	RecipientHospital string  `json:"recipient_hospital"`
	DonorCity         string  `json:"donor_city"`
	RecipientCity     string  `json:"recipient_city"`
	TransportReady    string  `json:"transport_ready"`
	UrgencyLevel      string  `json:"urgency_level"`
	MatchScore        float64 `json:"match_score"`
}

// ToolMatchResult is the matcher tool's payload.
type ToolMatchResult struct {
	MatchesFound int       `json:"matches_found"`
	Matches      []Pairing `json:"matches"`
	Method       string    `json:"method,omitempty"`
}

// ToolWeatherResult is the weather tool's payload.
type ToolWeatherResult struct {
	Location  string  `json:"location"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	TempC     float64 `json:"temp_c"`
	Condition string  `json:"condition"`
	Humidity  float64 `json:"humidity"`
	WindKph   float64 `json:"wind_kph"`
}

// ViabilityReport carries whichever viability contract answered the request.
// Exactly one of Verdict and Tool is set.
type ViabilityReport struct {
	Verdict *assessment.ViabilityVerdict
	Tool    *assessment.ToolViability
}

func (r ViabilityReport) Method() assessment.Method {
	if r.Tool != nil {
		return assessment.MethodGateway
	}
	return assessment.MethodSimulation
}

func (r ViabilityReport) MarshalJSON() ([]byte, error) {
	if r.Tool != nil {
		return json.Marshal(r.Tool)
	}
	return json.Marshal(r.Verdict)
}

// MatchReport carries whichever matching contract answered the request.
// Exactly one of Verdict and Tool is set.
type MatchReport struct {
	Verdict *assessment.MatchVerdict
	Tool    *ToolMatchResult
}

func (r MatchReport) Method() assessment.Method {
	if r.Tool != nil {
		return assessment.MethodGateway
	}
	return assessment.MethodSimulation
}

func (r MatchReport) MarshalJSON() ([]byte, error) {
	if r.Tool != nil {
		return json.Marshal(r.Tool)
	}
	return json.Marshal(r.Verdict)
}
