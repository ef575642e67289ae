package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/josephgoksu/neurotech/internal/llm"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns $HOME/.neurotech.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, FileName+".yaml"), nil
}

// SaveLLMConfig writes the provider, model and (if non-empty) API key into the
// YAML config at path, keeping every other setting already in the file.
// Keys are stored per provider under llm.apiKeys.
func SaveLLMConfig(fs afero.Fs, path, provider, model, key string) error {
	p, err := llm.ValidateProvider(provider)
	if err != nil {
		return err
	}
	if model == "" {
		model = llm.DefaultModelForProvider(string(p))
	}

	doc := map[string]any{}
	data, err := afero.ReadFile(fs, path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}

	llmSection, _ := doc["llm"].(map[string]any)
	if llmSection == nil {
		llmSection = map[string]any{}
	}
	llmSection["provider"] = string(p)
	llmSection["model"] = model
	if key != "" {
		keys, _ := llmSection["apiKeys"].(map[string]any)
		if keys == nil {
			keys = map[string]any{}
		}
		keys[string(p)] = key
		llmSection["apiKeys"] = keys
	}
	doc["llm"] = llmSection

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	return afero.WriteFile(fs, path, out, 0o600)
}
