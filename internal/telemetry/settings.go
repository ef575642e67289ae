// Package telemetry sends anonymous usage events to PostHog.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// SettingsFileName holds the anonymous install ID, under the data directory.
const SettingsFileName = "telemetry.json"

// Settings is the telemetry state for this install.
type Settings struct {
	// Enabled comes from telemetry.enabled in the main config and is not persisted.
	Enabled bool `json:"-"`

	// AnonymousID is a random UUID generated on first use. It never changes.
	AnonymousID string `json:"anonymous_id"`
}

// LoadSettings reads dir/telemetry.json, creating it with a fresh anonymous ID
// when it is missing or has none.
func LoadSettings(fs afero.Fs, dir string, enabled bool) (*Settings, error) {
	path := filepath.Join(dir, SettingsFileName)
	s := &Settings{Enabled: enabled}

	data, err := afero.ReadFile(fs, path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if s.AnonymousID != "" {
		return s, nil
	}
	s.AnonymousID = uuid.NewString()
	if err := s.save(fs, path); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) save(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create telemetry directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal telemetry settings: %w", err)
	}
	return afero.WriteFile(fs, path, data, 0o600)
}
