package assessment

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Simulated viability windows, in hours.
var simulatedMaxHours = map[string]float64{
	"heart":  6,
	"liver":  12,
	"kidney": 24,
	"lung":   8,
}

// Viability windows used by the gateway viability tool. Kept apart from the
// simulated table; the two contracts are observed independently.
var gatewayMaxHours = map[string]float64{
	"heart":    4,
	"lung":     6,
	"liver":    12,
	"kidney":   24,
	"pancreas": 12,
}

const (
	simulatedDefaultMaxHours = 6
	gatewayDefaultMaxHours   = 8

	viableHoursThreshold  = 0.5
	viableScoreThreshold  = 0.3
	viableConditionCutoff = 50
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp accepts RFC 3339 instants and zone-less ISO-8601 date-times.
// Zone-less values are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// AssessViabilitySimulated estimates how long an organ remains transportable.
// A missing or unparseable donation time counts as zero hours elapsed.
func AssessViabilitySimulated(organ OrganDescriptor, now time.Time) ViabilityVerdict {
	organType := strings.ToLower(organ.OrganType())

	var hoursElapsed float64
	if organ.DonationTime != "" {
		if donated, err := ParseTimestamp(organ.DonationTime); err == nil {
			hoursElapsed = now.Sub(donated).Hours()
		}
	}

	maxHours, ok := simulatedMaxHours[organType]
	if !ok {
		maxHours = simulatedDefaultMaxHours
	}
	tempFactor := 1.0
	if organ.TemperatureC() > 4 {
		tempFactor = 0.7
	}
	conditionFactor := organ.Condition() / 100

	// Viability and urgency use the exact hours; only reported fields are rounded.
	hoursLeft := math.Max(0, (maxHours-hoursElapsed)*tempFactor*conditionFactor)
	isViable := hoursLeft > viableHoursThreshold

	recommendation := "Consider alternative options"
	if isViable {
		recommendation = "Proceed with transport"
	}

	return ViabilityVerdict{
		IsViable:       isViable,
		HoursLeft:      round(hoursLeft, 1),
		HoursElapsed:   round(hoursElapsed, 1),
		MaxHours:       maxHours,
		Recommendation: recommendation,
		Urgency:        UrgencyForHours(hoursLeft),
		Method:         MethodSimulation,
	}
}

// UrgencyForHours maps remaining viable hours to an urgency tier.
func UrgencyForHours(hoursLeft float64) Urgency {
	switch {
	case hoursLeft < 2:
		return UrgencyHigh
	case hoursLeft < 4:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// AssessViabilityGatewayTool computes the viability ratio served by the
// gateway viability tool: the window shrinks by 0.25h per degree above 4°C and
// the organ is viable while more than 30% of it remains and the condition
// score exceeds 50.
func AssessViabilityGatewayTool(organType string, timeOfDeath, currentTime time.Time, temperatureC, conditionScore float64) ToolViability {
	organType = strings.ToLower(organType)
	hoursElapsed := currentTime.Sub(timeOfDeath).Hours()

	maxHours, ok := gatewayMaxHours[organType]
	if !ok {
		maxHours = gatewayDefaultMaxHours
	}
	adjusted := maxHours - math.Max(0, temperatureC-4)*0.25

	var viability float64
	if adjusted > 0 {
		viability = math.Max(0, math.Min(1, (adjusted-hoursElapsed)/adjusted))
	}

	status := "non-viable"
	if viability > viableScoreThreshold && conditionScore > viableConditionCutoff {
		status = "viable"
	}

	return ToolViability{
		OrganType:      organType,
		HoursElapsed:   round(hoursElapsed, 2),
		ViabilityScore: round(viability, 2),
		Status:         status,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
