package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestValidateProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     Provider
		wantErr  bool
	}{
		{"valid openai", "openai", ProviderOpenAI, false},
		{"valid ollama", "ollama", ProviderOllama, false},
		{"valid anthropic", "anthropic", ProviderAnthropic, false},
		{"valid gemini", "gemini", ProviderGemini, false},
		{"invalid provider", "invalid", "", true},
		{"empty provider", "", "", true},
		{"case sensitive - GEMINI fails", "GEMINI", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateProvider(tt.provider)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultModelForProvider(t *testing.T) {
	tests := map[string]string{
		ProviderGemini:    "gemini-2.5-flash",
		ProviderOpenAI:    "gpt-5-mini",
		ProviderAnthropic: "claude-haiku-4-5",
		ProviderOllama:    "llama3.2",
		"unknown":         "",
	}
	for provider, want := range tests {
		assert.Equal(t, want, DefaultModelForProvider(provider), provider)
	}
}

func TestInferProviderFromModel(t *testing.T) {
	tests := []struct {
		model        string
		wantProvider string
		wantOk       bool
	}{
		{"gemini-2.5-flash", ProviderGemini, true},
		{"gemini-1.5-pro", ProviderGemini, true},
		{"gpt-5-mini-2025-08-07", ProviderOpenAI, true},
		{"gpt-4o", ProviderOpenAI, true},
		{"claude-sonnet-4-5", ProviderAnthropic, true},
		{"llama3.1:8b", ProviderOllama, true},
		{"mystery-model", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, ok := InferProviderFromModel(tt.model)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantProvider, got)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Provider: ProviderGemini}
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelName())
	assert.Equal(t, 30*time.Second, cfg.CallTimeout())

	cfg = Config{Provider: ProviderOpenAI, Model: "gpt-4o-mini", Timeout: 5 * time.Second}
	assert.Equal(t, "gpt-4o-mini", cfg.ModelName())
	assert.Equal(t, 5*time.Second, cfg.CallTimeout())
}

func TestNewChatModelMissingKey(t *testing.T) {
	ctx := context.Background()
	for _, p := range []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGemini} {
		t.Run(string(p), func(t *testing.T) {
			_, err := NewChatModel(ctx, Config{Provider: p})
			assert.ErrorIs(t, err, ErrMissingAPIKey)
		})
	}
}

func TestNewChatModelUnsupportedProvider(t *testing.T) {
	_, err := NewChatModel(context.Background(), Config{Provider: "bedrock"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}

func TestNewGenAIClientMissingKey(t *testing.T) {
	_, err := NewGenAIClient(context.Background(), Config{Provider: ProviderGemini})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewGenAIClientBaseURL(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotKey = r.URL.Path, r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"pong"}]}}]}`))
	}))
	defer srv.Close()

	client, err := NewGenAIClient(context.Background(), Config{Provider: ProviderGemini, APIKey: "test-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	resp, err := client.Models.GenerateContent(context.Background(), "gemini-2.5-flash", genai.Text("ping"), nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Text())
	assert.Contains(t, gotPath, "models/gemini-2.5-flash:generateContent")
	assert.Equal(t, "test-key", gotKey)
}

func TestWrapCallError(t *testing.T) {
	assert.NoError(t, WrapCallError(nil))

	err := WrapCallError(fmt.Errorf("post: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, ErrTimeout)

	err = WrapCallError(errors.New("connection refused"))
	assert.ErrorIs(t, err, ErrTransport)

	original := fmt.Errorf("%w: gemini", ErrMissingAPIKey)
	assert.Same(t, original, WrapCallError(original))
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewLogObserver(logger)

	obs.OnCallComplete(CallEvent{Operation: "subtasks", Model: "gemini-2.5-flash", Latency: 120 * time.Millisecond, Outcome: "success"})
	obs.OnCallComplete(CallEvent{Operation: "chat", Outcome: "transport_failure", Err: ErrTransport})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "operation=subtasks")
	assert.Contains(t, lines[0], "latency_ms=120")
	assert.Contains(t, lines[1], "level=WARN")
	assert.Contains(t, lines[1], "outcome=transport_failure")
}

type countingObserver struct{ n int }

func (c *countingObserver) OnCallComplete(CallEvent) { c.n++ }

func TestMultiObserver(t *testing.T) {
	a, b := &countingObserver{}, &countingObserver{}
	MultiObserver{a, nil, b, NoopObserver{}}.OnCallComplete(CallEvent{})
	assert.Equal(t, 1, a.n)
	assert.Equal(t, 1, b.n)
}
