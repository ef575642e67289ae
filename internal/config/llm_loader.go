package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/josephgoksu/neurotech/internal/llm"
	"github.com/spf13/viper"
)

// LoadLLMConfig loads LLM configuration from Viper and environment variables.
// A missing API key is not an error here; the assistant reports it when a call fails.
func LoadLLMConfig() (llm.Config, error) {
	provider := strings.ToLower(strings.TrimSpace(viper.GetString("llm.provider")))
	if provider == "" {
		provider = llm.DefaultProvider
	}

	llmProvider, err := llm.ValidateProvider(provider)
	if err != nil {
		return llm.Config{}, fmt.Errorf("invalid provider: %w", err)
	}

	model := viper.GetString("llm.model")
	if model == "" {
		model = llm.DefaultModelForProvider(string(llmProvider))
	}

	baseURL := viper.GetString("llm.baseURL")
	if baseURL == "" && llmProvider == llm.ProviderOllama {
		baseURL = llm.DefaultOllamaURL
	}

	timeout := time.Duration(viper.GetInt("llm.timeoutSeconds")) * time.Second
	if timeout <= 0 {
		timeout = llm.DefaultTimeoutSeconds * time.Second
	}

	return llm.Config{
		Provider: llmProvider,
		Model:    model,
		APIKey:   ResolveAPIKey(llmProvider),
		BaseURL:  baseURL,
		Timeout:  timeout,
	}, nil
}

// ResolveAPIKey returns the best API key for the given provider, checking in order:
// llm.apiKeys.<provider>, llm.apiKey, the provider's env var, then API_KEY.
func ResolveAPIKey(provider llm.Provider) string {
	keyFromViper := func(path string) string {
		if viper.IsSet(path) {
			return strings.TrimSpace(viper.GetString(path))
		}
		return ""
	}

	if key := keyFromViper(fmt.Sprintf("llm.apiKeys.%s", provider)); key != "" {
		return key
	}
	if key := keyFromViper("llm.apiKey"); key != "" {
		return key
	}
	if key := providerEnvKey(provider); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv("API_KEY"))
}

func providerEnvKey(provider llm.Provider) string {
	switch provider {
	case llm.ProviderOpenAI:
		return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	case llm.ProviderAnthropic:
		return strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	case llm.ProviderGemini:
		key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if key == "" {
			key = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
		}
		return key
	default:
		return ""
	}
}
