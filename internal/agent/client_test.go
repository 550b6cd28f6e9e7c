package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	mu       sync.Mutex
	reply    string
	err      error
	sessions []string
	inputs   []string
}

func (f *fakeAgent) InvokeAgent(_ context.Context, sessionID, input string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, sessionID)
	f.inputs = append(f.inputs, input)
	return f.reply, f.err
}

type fakeModel struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeModel) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestInvoke_ManagedAgentFirst(t *testing.T) {
	ag := &fakeAgent{reply: "Proceed."}
	model := &fakeModel{reply: "unused"}
	inv := NewInvoker(ag, model, discard(), nil)

	res := inv.Invoke(context.Background(), "Should we fly?", map[string]any{"organ": "heart"})
	assert.Equal(t, Result{Success: true, Response: "Proceed.", Method: MethodManagedAgent}, res)
	assert.Empty(t, model.prompts)
	require.Len(t, ag.inputs, 1)
	assert.True(t, strings.HasPrefix(ag.inputs[0], "Context: {\n  \"organ\": \"heart\"\n}\n\n"))
	assert.True(t, strings.HasSuffix(ag.inputs[0], "Should we fly?"))
}

func TestInvoke_SessionIsStable(t *testing.T) {
	ag := &fakeAgent{reply: "ok"}
	inv := NewInvoker(ag, nil, discard(), nil)
	_, err := uuid.Parse(inv.SessionID())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv.Invoke(context.Background(), "ping", nil)
		}()
	}
	wg.Wait()

	for _, s := range ag.sessions {
		assert.Equal(t, inv.SessionID(), s)
	}
	assert.NotEqual(t, inv.SessionID(), NewInvoker(ag, nil, discard(), nil).SessionID())
}

func TestInvoke_FallsBackToDirectModel(t *testing.T) {
	ag := &fakeAgent{err: errors.New("AccessDeniedException")}
	model := &fakeModel{reply: "## Assessment\n- Proceed"}
	inv := NewInvoker(ag, model, discard(), nil)

	res := inv.Invoke(context.Background(), "Status?", map[string]any{"severity": "high"})
	assert.Equal(t, Result{Success: true, Response: "## Assessment\n- Proceed", Method: MethodDirectModel}, res)
	require.Len(t, model.prompts, 1)
	p := model.prompts[0]
	assert.True(t, strings.HasPrefix(p, SystemPrompt))
	assert.Contains(t, p, "\nContext: {\n  \"severity\": \"high\"\n}")
	assert.True(t, strings.HasSuffix(p, "\n\nUser: Status?\n\nOrganMatch Agent:"))
}

func TestInvoke_BothFail(t *testing.T) {
	inv := NewInvoker(&fakeAgent{err: errors.New("throttled")}, &fakeModel{err: errors.New("model down")}, discard(), nil)
	res := inv.Invoke(context.Background(), "x", nil)
	assert.False(t, res.Success)
	assert.Equal(t, MethodDirectModel, res.Method)
	assert.Equal(t, "model down", res.Error)
}

func TestInvoke_NothingConfigured(t *testing.T) {
	inv := NewInvoker(nil, nil, discard(), nil)
	assert.False(t, inv.Configured())
	res := inv.Invoke(context.Background(), "x", nil)
	assert.False(t, res.Success)
	assert.Equal(t, ErrModelNotConfigured.Error(), res.Error)
}

func TestDirectPrompt_WithoutContext(t *testing.T) {
	assert.Equal(t, SystemPrompt+"\n\nUser: hi\n\nOrganMatch Agent:", DirectPrompt("hi", ""))
}

func TestSerializeContext(t *testing.T) {
	assert.Equal(t, "", serializeContext(nil))
	assert.Equal(t, "", serializeContext(map[string]any{}))
	assert.Equal(t, "{\n  \"a\": 1\n}", serializeContext(map[string]int{"a": 1}))
}

func TestChatEndpoint(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(NewInvoker(&fakeAgent{reply: "Hello coordinator"}, nil, discard(), nil)))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/agent-chat", strings.NewReader(`{"message":"hi"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"response":"Hello coordinator","method":"agentcore"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/agent-chat", strings.NewReader(`nope`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
