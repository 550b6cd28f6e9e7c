package transport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"organmatch/internal/assessment"
	"organmatch/internal/logistics"
)

const baseConfidence = 80

var leadingHours = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*h`)

// FlightHours reads the leading "<n>h" of a duration such as "6h 15m",
// falling back to the numeric duration_hr field.
func FlightHours(f logistics.Flight) (float64, bool) {
	if m := leadingHours.FindStringSubmatch(strings.ToLower(f.Duration)); m != nil {
		h, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return h, true
		}
	}
	if f.DurationHr > 0 {
		return f.DurationHr, true
	}
	return 0, false
}

// DecideByRules scores a transport request without any generative backend.
// The result depends only on its inputs: no clock, no randomness. Confidence
// accumulates without clamping and can leave the 0-100 range.
func DecideByRules(c Context, weather logistics.WeatherList) Decision {
	rec := Proceed
	risk := assessment.RiskLow
	confidence := baseConfidence
	var factors []string
	note := func(format string, args ...any) {
		factors = append(factors, fmt.Sprintf(format, args...))
	}

	switch {
	case c.MatchScore >= 90:
		confidence += 10
		note("Excellent donor-recipient match (%.1f%%)", c.MatchScore)
	case c.MatchScore >= 75:
		confidence += 5
		note("Good donor-recipient match (%.1f%%)", c.MatchScore)
	case c.MatchScore >= 60:
		note("Acceptable donor-recipient match (%.1f%%)", c.MatchScore)
	default:
		confidence -= 10
		risk = escalate(risk, assessment.RiskMedium)
		note("Low donor-recipient match score (%.1f%%)", c.MatchScore)
	}

	switch c.Severity {
	case SeverityCritical:
		confidence += 15
		note("Critical patient condition requires immediate transport")
	case SeverityHigh:
		confidence += 10
		note("High severity patient condition")
	case SeverityMedium:
		note("Medium severity patient condition")
	}

	weatherRisk := assessment.ClassifyWeather(weather.Conditions()...)
	switch weatherRisk {
	case assessment.RiskHigh:
		// Critical and high severity patients keep the transport on proceed.
		if c.Severity != SeverityCritical && c.Severity != SeverityHigh {
			rec = Caution
			risk = escalate(risk, assessment.RiskMedium)
			confidence = 65
			note("Severe weather conditions may delay transport")
		} else {
			note("Severe weather noted, patient severity takes priority")
		}
	case assessment.RiskMedium:
		confidence = 75
		note("Moderate weather conditions, monitor closely")
	default:
		note("Favorable weather conditions")
	}

	switch c.Urgency {
	case "high":
		confidence += 5
		note("High urgency case, expedite handling")
	case "low":
		note("Low urgency, standard scheduling")
	default:
		note("Standard urgency")
	}

	switch {
	case c.ConditionScore >= 85:
		confidence += 5
		note("Excellent organ condition (%.0f)", c.ConditionScore)
	case c.ConditionScore >= 70:
		note("Good organ condition (%.0f)", c.ConditionScore)
	default:
		confidence -= 5
		note("Suboptimal organ condition (%.0f)", c.ConditionScore)
	}

	if c.BloodTypeMatch != nil {
		if *c.BloodTypeMatch {
			confidence += 5
			note("Blood type compatible")
		} else {
			note("Blood type compatibility verified through crossmatch")
		}
	}

	if hours, ok := FlightHours(c.Flight); ok {
		switch {
		case hours > 8:
			confidence -= 5
			risk = escalate(risk, assessment.RiskMedium)
			note("Long flight duration (%gh) increases transport risk", hours)
		case hours >= 5:
			note("Moderate flight duration (%gh)", hours)
		default:
			note("Short flight duration (%gh) favors viability", hours)
		}
	} else {
		note("Flight duration unavailable")
	}

	organ := c.Organ.OrganType()
	switch strings.ToLower(organ) {
	case "heart", "liver":
		note("%s transport requires strict timing", titleWord(organ))
	case "kidney":
		note("Kidney allows more flexible transport timing")
	}

	d := Decision{
		Recommendation: rec,
		Confidence:     confidence,
		RiskLevel:      risk,
		Factors:        truncate(factors, maxFactors),
		Source:         SourceRules,
		Context:        c,
	}
	d.Reasoning = ruleReasoning(c, d, weatherRisk, factors)
	return d
}

func ruleReasoning(c Context, d Decision, weatherRisk assessment.RiskLevel, factors []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rule-based transport assessment\n")
	fmt.Fprintf(&b, "Recommendation: %s (confidence %d%%, %s risk)\n\n", strings.ToUpper(string(d.Recommendation)), d.Confidence, d.RiskLevel)

	fmt.Fprintf(&b, "Organ: %s, condition score %.0f\n", c.Organ.OrganType(), c.ConditionScore)
	fmt.Fprintf(&b, "Route: %s -> %s\n", orNA(c.Route.Origin.City), orNA(c.Route.Destination.City))
	flight := orNA(c.Flight.Flight)
	if c.Flight.Duration != "" {
		flight += " (" + c.Flight.Duration + ")"
	}
	fmt.Fprintf(&b, "Flight: %s\n", flight)
	fmt.Fprintf(&b, "Weather risk: %s\n", weatherRisk)
	fmt.Fprintf(&b, "Patient severity: %s\n", orNA(c.Severity))
	fmt.Fprintf(&b, "Match score: %.1f%%\n\n", c.MatchScore)

	b.WriteString("Factors:\n")
	for _, f := range factors {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s []string, n int) []string {
	if len(s) > n {
		return append([]string(nil), s[:n]...)
	}
	return s
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func titleWord(s string) string {
	return cases.Title(language.English).String(s)
}
