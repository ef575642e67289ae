package telemetry

import "github.com/josephgoksu/neurotech/internal/llm"

// LLMObserver forwards assistant call outcomes as ai_call events.
// Prompts and replies are never sent.
type LLMObserver struct {
	client Client
}

// NewLLMObserver wraps client. A nil client yields a no-op observer.
func NewLLMObserver(client Client) *LLMObserver {
	if client == nil {
		client = NewNoopClient()
	}
	return &LLMObserver{client: client}
}

// OnCallComplete implements llm.Observer.
func (o *LLMObserver) OnCallComplete(ev llm.CallEvent) {
	o.client.Track(EventAICall, Properties{
		"operation":  ev.Operation,
		"provider":   ev.Provider,
		"model":      ev.Model,
		"outcome":    ev.Outcome,
		"latency_ms": ev.Latency.Milliseconds(),
	})
}

var _ llm.Observer = (*LLMObserver)(nil)
