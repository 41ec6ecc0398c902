package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go-groove/metronome"
)

// MIDIConfig defines the MIDI output
type MIDIConfig struct {
	PortName string `json:"portName,omitempty"`
	Kit      string `json:"kit,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	SyncMode  string `json:"syncMode,omitempty"` // start, middle, end
	LastTempo int    `json:"lastTempo,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	MIDI      MIDIConfig       `json:"midi,omitempty"`
	UI        UIConfig         `json:"ui,omitempty"`
	Metronome metronome.Config `json:"metronome,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MIDI: MIDIConfig{
			Kit: "gm",
		},
		UI: UIConfig{
			SyncMode:  "start",
			LastTempo: 120,
		},
		Metronome: metronome.Config{
			Frequency: 4,
			Volume:    75,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-groove"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
