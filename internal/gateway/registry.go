package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Registry is the gateway tool registry: it names the registered targets and
// invokes one of them with JSON parameters.
type Registry interface {
	ListTargets(ctx context.Context) (map[string]string, error)
	InvokeTarget(ctx context.Context, targetID string, params map[string]any) (json.RawMessage, error)
}

// ToolRef describes one registered tool target.
type ToolRef struct {
	Name        string `json:"name"`
	TargetID    string `json:"target_id"`
	Description string `json:"description,omitempty"`
}

// CapabilityManifest is the registry's list of tool targets.
type CapabilityManifest struct {
	ServerName   string    `json:"server_name"`
	Version      string    `json:"version"`
	Capabilities []ToolRef `json:"capabilities"`
}

// ToolCallRequest is the wire format for a tool invocation.
type ToolCallRequest struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

// ToolCallResponse is the wire format for a tool result.
type ToolCallResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

const (
	CapabilitiesPath = "/mcp/v1/capabilities"
	ExecutePath      = "/mcp/v1/execute"
)

type httpRegistry struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPRegistry returns a Registry that talks to a tool host over HTTP.
func NewHTTPRegistry(baseURL string) Registry {
	return &httpRegistry{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (r *httpRegistry) ListTargets(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+CapabilitiesPath, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list gateway targets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list gateway targets: %s - %s", resp.Status, string(body))
	}

	var manifest CapabilityManifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("decode capability manifest: %w", err)
	}
	targets := make(map[string]string, len(manifest.Capabilities))
	for _, c := range manifest.Capabilities {
		targets[c.Name] = c.TargetID
	}
	return targets, nil
}

func (r *httpRegistry) InvokeTarget(ctx context.Context, targetID string, params map[string]any) (json.RawMessage, error) {
	payload, err := json.Marshal(ToolCallRequest{Method: targetID, Params: params})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+ExecutePath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoke target %s: %w", targetID, err)
	}
	defer resp.Body.Close()

	var out ToolCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", targetID, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("target %s: %s", targetID, out.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("target %s: %s", targetID, resp.Status)
	}
	if len(out.Result) == 0 {
		return nil, fmt.Errorf("target %s returned no result", targetID)
	}
	return out.Result, nil
}
