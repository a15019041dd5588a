package userconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName  = "nutribattle"
	configFileName = "config.json"
	sessionDirName = "sessions"
	stateDBName    = "state.db"
)

// UserConfig represents the user's local configuration stored in ~/.config/nutribattle/config.json
type UserConfig struct {
	SelectedServerURL string `json:"selected_server_url"`
}

// Paths locates the user's local state. Home overrides ~/.config/nutribattle.
type Paths struct {
	Home string
}

// Dir returns the directory holding all local state
func (p Paths) Dir() (string, error) {
	if p.Home != "" {
		return p.Home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDirName), nil
}

// ConfigPath returns the path to the user config file
func (p Paths) ConfigPath() (string, error) {
	dir, err := p.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// SessionFile returns the session file for a server scope
func (p Paths) SessionFile(scope string) (string, error) {
	dir, err := p.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionDirName, scope+".json"), nil
}

// StateDB returns the path of the SQLite session database
func (p Paths) StateDB() (string, error) {
	dir, err := p.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, stateDBName), nil
}

// Load reads the user configuration file
func (p Paths) Load() (*UserConfig, error) {
	configPath, err := p.ConfigPath()
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, return empty config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the user configuration to a file
func (p Paths) Save(cfg *UserConfig) error {
	configPath, err := p.ConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// SetSelectedServer updates the selected server URL and saves the config
func (p Paths) SetSelectedServer(serverURL string) error {
	cfg, err := p.Load()
	if err != nil {
		return err
	}

	cfg.SelectedServerURL = serverURL
	return p.Save(cfg)
}

// GetSelectedServer returns the selected server URL, or empty string if not set
func (p Paths) GetSelectedServer() (string, error) {
	cfg, err := p.Load()
	if err != nil {
		return "", err
	}

	return cfg.SelectedServerURL, nil
}
