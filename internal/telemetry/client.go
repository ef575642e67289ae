package telemetry

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/posthog/posthog-go"
)

// ErrNotConfigured means telemetry is off, or on without an API key.
var ErrNotConfigured = errors.New("telemetry not configured")

// Client sends usage events.
type Client interface {
	Track(event string, properties Properties)
	Close() error
}

// Properties are the event fields a caller supplies.
type Properties = map[string]any

// queue is the part of the PostHog SDK the client needs.
type queue interface {
	Enqueue(posthog.Message) error
	Close() error
}

// PostHogClient queues anonymous events for one install. Every event carries
// os, arch and app_version, and never creates a person profile.
type PostHogClient struct {
	queue  queue
	id     string
	common posthog.Properties
	log    *slog.Logger

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// ClientConfig configures NewPostHogClient.
type ClientConfig struct {
	APIKey   string
	Endpoint string // empty means PostHog cloud
	Version  string
	Settings *Settings
	Logger   *slog.Logger
}

// NewPostHogClient starts a batching PostHog client. It returns ErrNotConfigured
// unless settings are loaded, enabled and an API key is set.
func NewPostHogClient(cfg ClientConfig) (*PostHogClient, error) {
	if cfg.APIKey == "" || cfg.Settings == nil || !cfg.Settings.Enabled {
		return nil, ErrNotConfigured
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	sdk, err := posthog.NewWithConfig(cfg.APIKey, posthog.Config{
		Endpoint:  cfg.Endpoint,
		BatchSize: 10,
		Interval:  time.Second,
		Logger:    sdkLogger{log},
	})
	if err != nil {
		return nil, fmt.Errorf("start posthog client: %w", err)
	}
	return newPostHogClient(sdk, cfg.Settings.AnonymousID, cfg.Version, log), nil
}

func newPostHogClient(q queue, anonymousID, version string, log *slog.Logger) *PostHogClient {
	return &PostHogClient{
		queue: q,
		id:    anonymousID,
		log:   log,
		common: posthog.NewProperties().
			Set("os", runtime.GOOS).
			Set("arch", runtime.GOARCH).
			Set("app_version", version).
			Set("$process_person_profile", false),
	}
}

// Track queues event. Events after Close are dropped.
func (c *PostHogClient) Track(event string, properties Properties) {
	if c.closed.Load() {
		return
	}
	props := make(posthog.Properties, len(properties)+len(c.common))
	for k, v := range properties {
		props[k] = v
	}
	for k, v := range c.common {
		props[k] = v
	}
	err := c.queue.Enqueue(posthog.Capture{DistinctId: c.id, Event: event, Properties: props})
	if err != nil {
		c.log.Debug("telemetry event dropped", "event", event, "error", err)
	}
}

// Close flushes queued events. Later calls return the first result.
func (c *PostHogClient) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.closeErr = c.queue.Close()
	})
	return c.closeErr
}

// NoopClient drops every event.
type NoopClient struct{}

func (NoopClient) Track(string, Properties) {}
func (NoopClient) Close() error             { return nil }

// NewNoopClient returns a client that drops every event.
func NewNoopClient() NoopClient {
	return NoopClient{}
}

// sdkLogger sends PostHog SDK output to slog at debug level.
type sdkLogger struct{ log *slog.Logger }

func (l sdkLogger) Debugf(format string, args ...any) { l.emit(format, args) }
func (l sdkLogger) Logf(format string, args ...any)   { l.emit(format, args) }
func (l sdkLogger) Warnf(format string, args ...any)  { l.emit(format, args) }
func (l sdkLogger) Errorf(format string, args ...any) { l.emit(format, args) }

func (l sdkLogger) emit(format string, args []any) {
	l.log.Debug(fmt.Sprintf(format, args...), "component", "posthog")
}
