package transport

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"organmatch/internal/assessment"
)

// ErrEmptyResponse is returned when the agent produced no text to parse.
var ErrEmptyResponse = errors.New("empty agent response")

const defaultAgentConfidence = 85

var (
	// A whole number directly before %, not the fraction of a decimal.
	percentPattern = regexp.MustCompile(`(?:^|[^\d.])(\d+)%`)
	numberedItem   = regexp.MustCompile(`^[1-9]\.`)
)

// FallbackFactors stand in when the agent text lists no factors.
var FallbackFactors = []string{
	"AI analysis completed",
	"Multiple factors considered",
	"Recommendation based on current conditions",
}

// ParseAgentDecision classifies free-form agent text into a decision.
// Matching is case-insensitive. Text with no decision language reads as
// proceed.
func ParseAgentDecision(text string, c Context) (Decision, error) {
	if strings.TrimSpace(text) == "" {
		return Decision{}, ErrEmptyResponse
	}
	lower := strings.ToLower(text)

	rec := Proceed
	switch {
	case strings.Contains(lower, "abort"), strings.Contains(lower, "do not proceed"):
		rec = Abort
	case strings.Contains(lower, "caution"), strings.Contains(lower, "careful"):
		rec = Caution
	}

	confidence := defaultAgentConfidence
	if m := percentPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			confidence = n
		}
	}

	risk := assessment.RiskLow
	switch {
	case strings.Contains(lower, "high risk"):
		risk = assessment.RiskHigh
	case strings.Contains(lower, "medium risk"), strings.Contains(lower, "moderate risk"):
		risk = assessment.RiskMedium
	}

	factors := extractFactors(text)
	if len(factors) == 0 {
		factors = append([]string(nil), FallbackFactors...)
	}

	return Decision{
		Recommendation: rec,
		Confidence:     confidence,
		RiskLevel:      risk,
		Reasoning:      text,
		Factors:        factors,
		Source:         SourceAgent,
		Context:        c,
	}, nil
}

func extractFactors(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "**") {
			// bold heading, not a bullet
			continue
		}
		var item string
		switch {
		case strings.HasPrefix(line, "-"), strings.HasPrefix(line, "*"):
			item = line[1:]
		case strings.HasPrefix(line, "•"):
			item = strings.TrimPrefix(line, "•")
		case numberedItem.MatchString(line):
			item = line[2:]
		default:
			continue
		}
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == maxFactors {
			break
		}
	}
	return out
}
