// Package config loads and validates neurotech configuration.
// All default values are defined here.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/josephgoksu/neurotech/internal/llm"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file base name searched for in the working directory and $HOME.
	FileName = ".neurotech"

	// EnvPrefix prefixes every environment override, e.g. NEUROTECH_SERVER_PORT.
	EnvPrefix = "NEUROTECH"

	// DefaultPort is the HTTP API port.
	DefaultPort = 8080
)

// AppConfig is the fully resolved configuration.
type AppConfig struct {
	Verbose bool   `mapstructure:"verbose"`
	JSON    bool   `mapstructure:"json"`
	Config  string `mapstructure:"config"`

	LLM struct {
		Provider       string            `mapstructure:"provider" validate:"required,oneof=openai ollama anthropic gemini"`
		Model          string            `mapstructure:"model"`
		APIKey         string            `mapstructure:"apiKey"`
		APIKeys        map[string]string `mapstructure:"apiKeys"`
		BaseURL        string            `mapstructure:"baseURL" validate:"omitempty,url"`
		TimeoutSeconds int               `mapstructure:"timeoutSeconds" validate:"gte=1,lte=600"`
	} `mapstructure:"llm"`

	Server struct {
		Port           int      `mapstructure:"port" validate:"gte=1,lte=65535"`
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`

	User struct {
		Name string `mapstructure:"name" validate:"required"`
	} `mapstructure:"user"`

	Seed struct {
		File string `mapstructure:"file"`
	} `mapstructure:"seed"`

	Log struct {
		Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
		Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
	} `mapstructure:"log"`

	Telemetry struct {
		Enabled  bool   `mapstructure:"enabled"`
		APIKey   string `mapstructure:"apiKey"`
		Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
	} `mapstructure:"telemetry"`
}

var validate = validator.New()

// SetDefaults registers every default with viper.
func SetDefaults() {
	viper.SetDefault("llm.provider", llm.DefaultProvider)
	viper.SetDefault("llm.model", "")
	viper.SetDefault("llm.apiKey", "")
	viper.SetDefault("llm.baseURL", "")
	viper.SetDefault("llm.timeoutSeconds", llm.DefaultTimeoutSeconds)

	viper.SetDefault("server.port", DefaultPort)
	viper.SetDefault("server.allowedOrigins", []string{"http://localhost:5173", "http://localhost:3000"})

	viper.SetDefault("user.name", dashboard.DefaultUserName)
	viper.SetDefault("seed.file", "")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.apiKey", "")
	viper.SetDefault("telemetry.endpoint", "")
}

// Load unmarshals viper's merged settings into an AppConfig and validates it.
func Load() (AppConfig, error) {
	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if err := validate.Struct(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
