package transport

import (
	"strings"

	"organmatch/internal/assessment"
	"organmatch/internal/logistics"
)

// Recommendation is the go/no-go outcome of a transport decision.
type Recommendation string

const (
	Proceed Recommendation = "proceed"
	Caution Recommendation = "caution"
	Abort   Recommendation = "abort"
)

// Source records which path produced a decision.
type Source string

const (
	SourceAgent Source = "ai_agent"
	SourceRules Source = "rule_based"
)

// Severity levels of the recipient's condition.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
)

const maxFactors = 5

// ViabilityData is the caller's summary of an earlier viability check.
type ViabilityData struct {
	IsViable       *bool    `json:"is_viable,omitempty"`
	HoursLeft      *float64 `json:"hours_left,omitempty"`
	Urgency        string   `json:"urgency,omitempty"`
	ConditionScore *float64 `json:"condition_score,omitempty"`
}

// Request is the body of a transport decision call.
type Request struct {
	Organ          assessment.OrganDescriptor `json:"organ"`
	Route          logistics.Route            `json:"route"`
	Flight         logistics.Flight           `json:"flight"`
	Weather        logistics.WeatherList      `json:"weather"`
	RecipientID    string                     `json:"recipientId,omitempty"`
	Severity       string                     `json:"severity,omitempty"`
	MatchScore     *float64                   `json:"matchScore,omitempty"`
	ViabilityData  ViabilityData              `json:"viabilityData"`
	BloodTypeMatch *bool                      `json:"bloodTypeMatch,omitempty"`
	Timestamp      string                     `json:"timestamp,omitempty"`
}

// Context is the per-request aggregate a decision is computed from. It is
// built fresh for every call and never shared.
type Context struct {
	Organ          assessment.OrganDescriptor `json:"organ"`
	Route          logistics.Route            `json:"route"`
	Flight         logistics.Flight           `json:"flight"`
	Weather        logistics.WeatherList      `json:"weather"`
	RecipientID    string                     `json:"recipient_id,omitempty"`
	Severity       string                     `json:"severity"`
	MatchScore     float64                    `json:"match_score"`
	Urgency        string                     `json:"urgency"`
	ConditionScore float64                    `json:"condition_score"`
	Viability      ViabilityData              `json:"viability"`
	BloodTypeMatch *bool                      `json:"blood_type_match,omitempty"`
}

// NewContext normalizes a request. A missing match score counts as 0 and a
// missing condition score falls back to the organ's own.
func NewContext(req Request) Context {
	c := Context{
		Organ:          req.Organ,
		Route:          req.Route,
		Flight:         req.Flight,
		Weather:        req.Weather,
		RecipientID:    req.RecipientID,
		Severity:       strings.ToLower(strings.TrimSpace(req.Severity)),
		Urgency:        strings.ToLower(strings.TrimSpace(req.ViabilityData.Urgency)),
		ConditionScore: req.Organ.Condition(),
		Viability:      req.ViabilityData,
		BloodTypeMatch: req.BloodTypeMatch,
	}
	if req.MatchScore != nil {
		c.MatchScore = *req.MatchScore
	}
	if req.ViabilityData.ConditionScore != nil {
		c.ConditionScore = *req.ViabilityData.ConditionScore
	}
	return c
}

// Decision is the transport recommendation returned to the caller.
type Decision struct {
	Recommendation Recommendation       `json:"recommendation"`
	Confidence     int                  `json:"confidence"`
	RiskLevel      assessment.RiskLevel `json:"riskLevel"`
	Reasoning      string               `json:"reasoning"`
	Factors        []string             `json:"factors"`
	Source         Source               `json:"source"`
	Context        Context              `json:"context"`
	Timestamp      string               `json:"timestamp,omitempty"`
}

func escalate(current, floor assessment.RiskLevel) assessment.RiskLevel {
	rank := map[assessment.RiskLevel]int{assessment.RiskLow: 0, assessment.RiskMedium: 1, assessment.RiskHigh: 2}
	if rank[floor] > rank[current] {
		return floor
	}
	return current
}
