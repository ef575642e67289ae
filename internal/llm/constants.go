package llm

// Provider constants
const (
	// DefaultProvider is used when no provider is configured.
	DefaultProvider = ProviderGemini

	// ProviderOpenAI represents the OpenAI provider
	ProviderOpenAI = "openai"

	// ProviderOllama represents a local Ollama server
	ProviderOllama = "ollama"

	// ProviderAnthropic represents the Anthropic provider
	ProviderAnthropic = "anthropic"

	// ProviderGemini represents the Google Gemini provider
	ProviderGemini = "gemini"
)

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

// DefaultTimeoutSeconds bounds a single assistant call.
const DefaultTimeoutSeconds = 30

// DefaultModelForProvider returns the default model ID for a given provider.
func DefaultModelForProvider(provider string) string {
	return GetDefaultModelID(provider)
}

// InferProviderFromModel attempts to determine the provider from a model name.
func InferProviderFromModel(model string) (string, bool) {
	return InferProvider(model)
}
