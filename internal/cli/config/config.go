package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/nutribattle/nutribattle/internal/api"
)

const ConfigFileName = "nutribattle.json"

// Server represents a NutriBattle backend
type Server struct {
	URL   string `json:"url"`
	Alias string `json:"alias"`
}

// Scope returns a filesystem-safe key identifying the server, used to keep
// sessions for different backends apart
func (s Server) Scope() string {
	u, err := url.Parse(s.URL)
	host := s.URL
	if err == nil && u.Host != "" {
		host = u.Host + strings.TrimRight(u.Path, "/")
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, host)
}

// Label is the server as shown in prompts and tables
func (s Server) Label() string {
	if s.Alias == "" {
		return s.URL
	}
	return fmt.Sprintf("%s (%s)", s.Alias, s.URL)
}

// RecommendDefaults are the project's defaults for the recommend command
type RecommendDefaults struct {
	K    int                    `json:"k,omitempty"`
	Mode api.RecommendationMode `json:"mode,omitempty"`
}

// Config represents the CLI configuration file
type Config struct {
	Servers   []Server          `json:"servers"`
	Recommend RecommendDefaults `json:"recommend,omitempty"`
}

// DefaultConfig returns a configuration pointing at a local backend
func DefaultConfig() *Config {
	return &Config{
		Servers: []Server{
			{
				URL:   "http://localhost:8080/api",
				Alias: "local",
			},
		},
	}
}

// Validate checks every server URL and the recommend defaults
func (c *Config) Validate() error {
	for i, server := range c.Servers {
		if err := ValidateServerURL(server.URL); err != nil {
			return fmt.Errorf("servers[%d]: %w", i, err)
		}
	}
	if c.Recommend.K != 0 && (c.Recommend.K < 1 || c.Recommend.K > 10) {
		return fmt.Errorf("recommend.k must be between 1 and 10, got %d", c.Recommend.K)
	}
	if c.Recommend.Mode != "" && !c.Recommend.Mode.Valid() {
		return fmt.Errorf("invalid recommend.mode '%s', must be one of: SAME_CATEGORY, OPPOSITE_CATEGORY, MIXED", c.Recommend.Mode)
	}
	return nil
}

// ValidateServerURL checks that raw is an absolute http(s) URL
func ValidateServerURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("server URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid server URL '%s': %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server URL '%s': scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server URL '%s': missing host", raw)
	}
	return nil
}

// ErrConfigNotFound is returned when no nutribattle.json exists up the tree
var ErrConfigNotFound = errors.New(ConfigFileName + " not found")

// FindConfigFile searches for nutribattle.json in current directory and parent directories
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	// Search upwards until we find nutribattle.json or reach root
	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w in %s or any parent directory", ErrConfigNotFound, currentDir)
}

// Load reads the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads config from current directory or parent directories
func LoadFromCurrentDir() (*Config, error) {
	configPath, err := FindConfigFile()
	if err != nil {
		return nil, err
	}

	return Load(configPath)
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// AddServer appends a server, rejecting duplicate URLs or aliases
func (c *Config) AddServer(server Server) error {
	if err := ValidateServerURL(server.URL); err != nil {
		return err
	}
	server.URL = strings.TrimRight(server.URL, "/")
	for _, s := range c.Servers {
		if s.URL == server.URL {
			return fmt.Errorf("server '%s' is already configured", server.URL)
		}
		if server.Alias != "" && s.Alias == server.Alias {
			return fmt.Errorf("alias '%s' is already used by %s", server.Alias, s.URL)
		}
	}
	c.Servers = append(c.Servers, server)
	return nil
}

// GetServerByAlias returns a server by its alias
func (c *Config) GetServerByAlias(alias string) (*Server, error) {
	for i := range c.Servers {
		if c.Servers[i].Alias == alias {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with alias '%s' not found", alias)
}

// GetServerByURLOrAlias finds a server by URL or alias
func (c *Config) GetServerByURLOrAlias(urlOrAlias string) (*Server, error) {
	trimmed := strings.TrimRight(urlOrAlias, "/")
	for i := range c.Servers {
		if strings.TrimRight(c.Servers[i].URL, "/") == trimmed {
			return &c.Servers[i], nil
		}
	}
	return c.GetServerByAlias(urlOrAlias)
}

// GetDefaultServer returns the first server in the list
func (c *Config) GetDefaultServer() (*Server, error) {
	if len(c.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in %s", ConfigFileName)
	}
	return &c.Servers[0], nil
}
