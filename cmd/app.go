package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/josephgoksu/neurotech/internal/assistant"
	"github.com/josephgoksu/neurotech/internal/config"
	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/josephgoksu/neurotech/internal/llm"
	"github.com/josephgoksu/neurotech/internal/logger"
	"github.com/josephgoksu/neurotech/internal/state"
	"github.com/josephgoksu/neurotech/internal/telemetry"
	"github.com/spf13/afero"
)

// app is everything a command needs, built once from the loaded config.
type app struct {
	cfg       config.AppConfig
	llm       llm.Config
	logger    *slog.Logger
	level     *slog.LevelVar
	assistant *assistant.Assistant
	store     *state.Store
	telemetry telemetry.Client
}

var (
	current *app

	// fs backs seed and telemetry files. Tests swap in a MemMapFs.
	fs afero.Fs = afero.NewOsFs()

	// newBackend builds the model transport. Tests replace it with a fake.
	newBackend = buildBackend
)

// dataDir is where crash logs and telemetry settings live.
func dataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, config.FileName)
	}
	return config.FileName
}

// loadApp resolves config and wires the store to the assistant.
func loadApp(ctx context.Context) (*app, error) {
	if current != nil {
		return current, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if cfg.Verbose {
		level = "debug"
	}
	log, lv, err := logger.New(level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, err
	}
	logger.SetBasePath(dataDir())

	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		return nil, err
	}

	tm := newTelemetry(cfg, log)
	ai := assistant.New(newBackend(ctx, llmCfg, log),
		assistant.WithTimeout(llmCfg.CallTimeout()),
		assistant.WithLogger(log),
		assistant.WithProvider(string(llmCfg.Provider)),
		assistant.WithObserver(llm.MultiObserver{llm.NewLogObserver(log), telemetry.NewLLMObserver(tm)}),
	)

	seed, err := loadSeed(cfg.Seed.File)
	if err != nil {
		return nil, err
	}
	store := state.NewStore(seed, ai,
		state.WithUserName(cfg.User.Name),
		state.WithLogger(log),
		state.OnChange(func(a state.Action, s state.State) {
			log.Debug("state changed", "action", fmt.Sprintf("%T", a), "tasks", len(s.Tasks), "messages", len(s.Messages))
		}),
	)

	current = &app{
		cfg:       cfg,
		llm:       llmCfg,
		logger:    log,
		level:     lv,
		assistant: ai,
		store:     store,
		telemetry: tm,
	}
	return current, nil
}

// closeApp flushes telemetry. Safe to call when nothing was loaded.
func closeApp() {
	if current == nil {
		return
	}
	done := make(chan struct{})
	go func() {
		_ = current.telemetry.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
	current = nil
}

func loadSeed(path string) (dashboard.Seed, error) {
	if path == "" {
		return dashboard.DefaultSeed(), nil
	}
	seed, err := dashboard.LoadSeed(fs, path)
	if err != nil {
		return dashboard.Seed{}, fmt.Errorf("load seed %s: %w", path, err)
	}
	return seed, nil
}

// buildBackend picks the native Gemini client for gemini and Eino for the
// other providers. Setup failures yield a backend that fails every call.
func buildBackend(ctx context.Context, cfg llm.Config, log *slog.Logger) assistant.Backend {
	model := cfg.ModelName()
	if cfg.Provider == llm.ProviderGemini {
		client, err := llm.NewGenAIClient(ctx, cfg)
		if err != nil {
			log.Warn("AI assistant unavailable", "provider", cfg.Provider, "error", err)
			return assistant.NewUnavailableBackend(model, err)
		}
		return assistant.NewGenAIBackend(client, model)
	}

	chatModel, err := llm.NewChatModel(ctx, cfg)
	if err != nil {
		log.Warn("AI assistant unavailable", "provider", cfg.Provider, "error", err)
		return assistant.NewUnavailableBackend(model, err)
	}
	return assistant.NewEinoBackend(chatModel, model)
}

func newTelemetry(cfg config.AppConfig, log *slog.Logger) telemetry.Client {
	if !cfg.Telemetry.Enabled || cfg.Telemetry.APIKey == "" {
		return telemetry.NewNoopClient()
	}
	settings, err := telemetry.LoadSettings(fs, dataDir(), cfg.Telemetry.Enabled)
	if err != nil {
		log.Debug("telemetry disabled", "error", err)
		return telemetry.NewNoopClient()
	}
	client, err := telemetry.NewPostHogClient(telemetry.ClientConfig{
		APIKey:   cfg.Telemetry.APIKey,
		Endpoint: cfg.Telemetry.Endpoint,
		Version:  version,
		Settings: settings,
		Logger:   log,
	})
	if err != nil {
		log.Debug("telemetry disabled", "error", err)
		return telemetry.NewNoopClient()
	}
	return client
}
