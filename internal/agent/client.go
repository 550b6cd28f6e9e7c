package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"organmatch/internal/metrics"
)

// Invocation methods reported in Result.Method.
const (
	MethodManagedAgent = "agentcore"
	MethodDirectModel  = "direct_model"
)

var (
	ErrAgentNotConfigured = errors.New("managed agent not configured")
	ErrModelNotConfigured = errors.New("model runtime not configured")
)

// ManagedAgent is a stateful multi-turn agent. The streamed chunks of one
// turn are returned concatenated.
type ManagedAgent interface {
	InvokeAgent(ctx context.Context, sessionID, inputText string) (string, error)
}

// ModelRuntime is a single-turn text completion backend.
type ModelRuntime interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of one Invoke call.
type Result struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
	Method   string `json:"method"`
}

// Invoker tries the managed agent first and falls back to one direct model
// completion. The session id is fixed for the Invoker's lifetime and gives
// agent turns conversational continuity.
type Invoker struct {
	agent     ManagedAgent
	model     ModelRuntime
	sessionID string
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

func NewInvoker(agent ManagedAgent, model ModelRuntime, logger *slog.Logger, rec *metrics.Recorder) *Invoker {
	return &Invoker{
		agent:     agent,
		model:     model,
		sessionID: uuid.NewString(),
		logger:    logger,
		metrics:   rec,
	}
}

func (i *Invoker) SessionID() string { return i.sessionID }

// Configured reports whether any generative backend is wired.
func (i *Invoker) Configured() bool { return i.agent != nil || i.model != nil }

// Invoke sends prompt, with context serialized as JSON when present.
func (i *Invoker) Invoke(ctx context.Context, prompt string, promptContext any) Result {
	contextJSON := serializeContext(promptContext)

	res := i.invokeManaged(ctx, prompt, contextJSON)
	i.metrics.Agent(res.Method, res.Success)
	if res.Success {
		return res
	}
	i.logger.Warn("managed agent unavailable, using direct model", "error", res.Error)

	res = i.invokeDirect(ctx, prompt, contextJSON)
	i.metrics.Agent(res.Method, res.Success)
	if !res.Success {
		i.logger.Warn("direct model invocation failed", "error", res.Error)
	}
	return res
}

func (i *Invoker) invokeManaged(ctx context.Context, prompt, contextJSON string) Result {
	if i.agent == nil {
		return Result{Error: ErrAgentNotConfigured.Error(), Method: MethodManagedAgent}
	}
	input := prompt
	if contextJSON != "" {
		input = fmt.Sprintf("Context: %s\n\n%s", contextJSON, prompt)
	}
	text, err := i.agent.InvokeAgent(ctx, i.sessionID, input)
	if err != nil {
		return Result{Error: err.Error(), Method: MethodManagedAgent}
	}
	return Result{Success: true, Response: text, Method: MethodManagedAgent}
}

func (i *Invoker) invokeDirect(ctx context.Context, prompt, contextJSON string) Result {
	if i.model == nil {
		return Result{Error: ErrModelNotConfigured.Error(), Method: MethodDirectModel}
	}
	text, err := i.model.Complete(ctx, DirectPrompt(prompt, contextJSON))
	if err != nil {
		return Result{Error: err.Error(), Method: MethodDirectModel}
	}
	return Result{Success: true, Response: text, Method: MethodDirectModel}
}

// serializeContext returns indented JSON, or "" for nil and empty values.
func serializeContext(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	switch string(b) {
	case "null", "{}", "[]", `""`:
		return ""
	}
	return string(b)
}
