package transport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"organmatch/internal/agent"
	"organmatch/internal/assessment"
	"organmatch/internal/metrics"
)

// AgentInvoker is the generative backend used for the first decision attempt.
type AgentInvoker interface {
	Invoke(ctx context.Context, prompt string, promptContext any) agent.Result
}

// Service produces transport decisions: agent first, rule engine on any
// failure. Decide never returns an error.
type Service struct {
	agent   AgentInvoker
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

func NewService(ag AgentInvoker, logger *slog.Logger, rec *metrics.Recorder) *Service {
	return &Service{agent: ag, logger: logger, metrics: rec, now: time.Now}
}

func (s *Service) Decide(ctx context.Context, req Request) Decision {
	c := NewContext(req)

	d, err := s.decideWithAgent(ctx, c)
	if err != nil {
		s.logger.Warn("agent decision unavailable, using rule engine", "error", err)
		d = DecideByRules(c, c.Weather)
	}

	d.Timestamp = req.Timestamp
	if d.Timestamp == "" {
		d.Timestamp = s.now().UTC().Format(time.RFC3339)
	}
	s.metrics.Decision(string(d.Source), string(d.Recommendation))
	return d
}

func (s *Service) decideWithAgent(ctx context.Context, c Context) (d Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent decision panicked: %v", r)
		}
	}()
	if s.agent == nil {
		return Decision{}, agent.ErrAgentNotConfigured
	}
	res := s.agent.Invoke(ctx, DecisionPrompt(c), c)
	if !res.Success {
		return Decision{}, fmt.Errorf("%s: %s", res.Method, res.Error)
	}
	return ParseAgentDecision(res.Response, c)
}

// DecisionPrompt asks the agent for a structured go/no-go assessment.
func DecisionPrompt(c Context) string {
	var weather []string
	for _, w := range c.Weather {
		weather = append(weather, fmt.Sprintf("%s: %s", orNA(w.Location), orNA(w.Condition)))
	}
	viable := "unknown"
	if c.Viability.IsViable != nil {
		viable = fmt.Sprintf("%t", *c.Viability.IsViable)
	}

	var b strings.Builder
	b.WriteString("Assess whether this organ transport should proceed.\n\n")
	fmt.Fprintf(&b, "Organ: %s (condition score %.0f, temperature %.1f C)\n", c.Organ.OrganType(), c.ConditionScore, c.Organ.TemperatureC())
	fmt.Fprintf(&b, "Route: %s -> %s\n", orNA(c.Route.Origin.City), orNA(c.Route.Destination.City))
	fmt.Fprintf(&b, "Flight: %s, duration %s\n", orNA(c.Flight.Flight), orNA(c.Flight.Duration))
	fmt.Fprintf(&b, "Weather: %s (risk %s)\n", orNA(strings.Join(weather, "; ")), assessment.ClassifyWeather(c.Weather.Conditions()...))
	fmt.Fprintf(&b, "Patient severity: %s\n", orNA(c.Severity))
	fmt.Fprintf(&b, "Match score: %.1f%%\n", c.MatchScore)
	fmt.Fprintf(&b, "Viable: %s, urgency %s\n\n", viable, orNA(c.Urgency))
	b.WriteString("Answer with a recommendation (proceed, proceed with caution, or abort), ")
	b.WriteString("a confidence percentage, the risk level (low, medium or high risk), ")
	b.WriteString("and up to five key factors as a bulleted list.")
	return b.String()
}
