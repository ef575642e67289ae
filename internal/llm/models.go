package llm

import "strings"

// Model describes a chat model the assistant can be pointed at.
type Model struct {
	ID         string   // Canonical model ID (e.g., "gemini-2.5-flash")
	ProviderID string   // Internal provider ID (e.g., "gemini")
	Aliases    []string // Alternative IDs including dated versions
	IsDefault  bool     // Whether this is the default model for its provider
}

// ModelRegistry lists the models known to work with structured JSON suggestions.
// Unknown model IDs are still accepted; the registry only supplies defaults.
var ModelRegistry = []Model{
	{ID: "gemini-2.5-flash", ProviderID: ProviderGemini, IsDefault: true},
	{ID: "gemini-2.5-pro", ProviderID: ProviderGemini},
	{ID: "gemini-2.5-flash-lite", ProviderID: ProviderGemini},
	{ID: "gpt-5-mini", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-5-mini-2025-08-07"}, IsDefault: true},
	{ID: "gpt-4.1-mini", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-4.1-mini-2025-04-14"}},
	{ID: "gpt-4o-mini", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-4o-mini-2024-07-18"}},
	{ID: "claude-haiku-4-5", ProviderID: ProviderAnthropic, IsDefault: true},
	{ID: "claude-sonnet-4-5", ProviderID: ProviderAnthropic},
	{ID: "llama3.2", ProviderID: ProviderOllama, IsDefault: true},
	{ID: "qwen2.5", ProviderID: ProviderOllama},
}

var modelIndex map[string]*Model

func init() {
	modelIndex = make(map[string]*Model)
	for i := range ModelRegistry {
		m := &ModelRegistry[i]
		modelIndex[m.ID] = m
		for _, alias := range m.Aliases {
			modelIndex[alias] = m
		}
	}
}

// GetModel returns the model definition for a given model ID or alias, or nil.
func GetModel(modelID string) *Model {
	return modelIndex[modelID]
}

// GetDefaultModelID returns the default model ID for a provider, or "" if unknown.
func GetDefaultModelID(providerID string) string {
	for i := range ModelRegistry {
		m := &ModelRegistry[i]
		if m.ProviderID == providerID && m.IsDefault {
			return m.ID
		}
	}
	return ""
}

// InferProvider attempts to determine the provider from a model name.
func InferProvider(modelID string) (string, bool) {
	if m := GetModel(modelID); m != nil {
		return m.ProviderID, true
	}

	switch {
	case strings.HasPrefix(modelID, "gpt-"), strings.HasPrefix(modelID, "o1-"), strings.HasPrefix(modelID, "o3-"):
		return ProviderOpenAI, true
	case strings.HasPrefix(modelID, "claude-"):
		return ProviderAnthropic, true
	case strings.HasPrefix(modelID, "gemini-"):
		return ProviderGemini, true
	case strings.HasPrefix(modelID, "llama"), strings.HasPrefix(modelID, "mistral"), strings.HasPrefix(modelID, "qwen"), strings.HasPrefix(modelID, "phi"):
		return ProviderOllama, true
	}
	return "", false
}
