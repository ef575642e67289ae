package llm

import (
	"log/slog"
	"time"
)

// CallEvent records metadata about a single assistant call.
type CallEvent struct {
	Operation string
	Provider  string
	Model     string
	Latency   time.Duration
	Outcome   string
	Err       error
}

// Success reports whether the call produced a usable result.
func (e CallEvent) Success() bool {
	return e.Err == nil
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

// LogObserver writes call events to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events through logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"operation", event.Operation,
		"provider", event.Provider,
		"model", event.Model,
		"latency_ms", event.Latency.Milliseconds(),
		"outcome", event.Outcome,
	}
	if event.Err != nil {
		o.logger.Warn("llm call failed", append(attrs, "error", event.Err)...)
		return
	}
	o.logger.Debug("llm call", attrs...)
}

// MultiObserver fans an event out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnCallComplete(event CallEvent) {
	for _, o := range m {
		if o != nil {
			o.OnCallComplete(event)
		}
	}
}
