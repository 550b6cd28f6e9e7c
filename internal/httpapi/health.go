package httpapi

import (
	"net/http"
	"time"
)

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status          string `json:"status"`
	Service         string `json:"service"`
	Timestamp       string `json:"timestamp"`
	AgentConfigured bool   `json:"agent_configured"`
	GatewayTools    int    `json:"gateway_tools"`
}

// Health reports liveness plus which optional backends are wired.
func Health(service string, agentConfigured func() bool, gatewayTools func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthStatus{
			Status:          "healthy",
			Service:         service,
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
			AgentConfigured: agentConfigured(),
			GatewayTools:    gatewayTools(),
		})
	}
}
