package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Server   Server   `yaml:"server"`
	Backend  Backend  `yaml:"backend"`
	Training Training `yaml:"training"`
	Seed     Seed     `yaml:"seed"`
	Output   Output   `yaml:"output"`
	Logging  Logging  `yaml:"logging"`
}

type Server struct {
	Port int `yaml:"port"`
}

// Backend points the analysis client at the products endpoint.
type Backend struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// Training controls the per-session classifier fit.
type Training struct {
	Epochs       int     `yaml:"epochs"`
	HiddenUnits  int     `yaml:"hidden_units"`
	LearningRate float64 `yaml:"learning_rate"`
}

type Seed struct {
	Count int `yaml:"count"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for restock.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "restock")
}

// DataDir returns the XDG data directory for restock.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "restock")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/restock/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'restock init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Server: Server{Port: 8083},
		Backend: Backend{
			BaseURL:        "http://localhost:8083",
			TimeoutSeconds: 15,
			MaxRetries:     3,
		},
		Training: Training{
			Epochs:       200,
			HiddenUnits:  8,
			LearningRate: 0.01,
		},
		Seed:    Seed{Count: 100},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
