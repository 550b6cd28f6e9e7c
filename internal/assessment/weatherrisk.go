package assessment

import "strings"

var (
	highRiskWeather   = []string{"storm", "thunder", "severe", "heavy rain", "blizzard"}
	mediumRiskWeather = []string{"rain", "snow", "fog", "wind"}
)

// ClassifyWeather returns the transport risk for a set of weather condition
// texts. Any high-risk condition wins over every medium-risk one, regardless
// of order; no conditions at all is low risk.
func ClassifyWeather(conditions ...string) RiskLevel {
	for _, c := range conditions {
		if containsAny(c, highRiskWeather) {
			return RiskHigh
		}
	}
	for _, c := range conditions {
		if containsAny(c, mediumRiskWeather) {
			return RiskMedium
		}
	}
	return RiskLow
}

func containsAny(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
