// Package config loads shotdeck settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	shotdeck "github.com/VantageDataChat/ShotDeck"
)

// Provider names accepted in the vision section.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ValidProviders lists the supported vision providers.
var ValidProviders = []string{ProviderOpenAI, ProviderGemini}

type Config struct {
	Vision     VisionConfig  `yaml:"vision"`
	Input      InputConfig   `yaml:"input"`
	Output     string        `yaml:"output"`
	Workers    int           `yaml:"workers"`
	OnError    string        `yaml:"on_error"`   // "abort" or "skip"
	RowPolicy  string        `yaml:"row_policy"` // "reject" or "normalize"
	PreviewDir string        `yaml:"preview_dir,omitempty"`
	Logging    LoggingConfig `yaml:"logging"`
}

// VisionConfig selects and tunes the vision model.
type VisionConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	// RequestTimeout is a Go duration string, e.g. "120s".
	RequestTimeout string `yaml:"request_timeout"`
	// MaxImageDim caps the long edge of uploaded screenshots; 0 keeps
	// the original size.
	MaxImageDim int `yaml:"max_image_dim"`
}

type InputConfig struct {
	Dir        string   `yaml:"dir"`
	Extensions []string `yaml:"extensions"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Vision: VisionConfig{
			// Model stays empty so each provider client picks its own default.
			Provider:       ProviderOpenAI,
			RequestTimeout: "120s",
			MaxImageDim:    2048,
		},
		Input: InputConfig{
			Dir:        "screenshots",
			Extensions: []string{".png"},
		},
		Output:    "AI_Presentation.pptx",
		Workers:   4,
		OnError:   "abort",
		RowPolicy: "reject",
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "shotdeck", "config.yaml")
}

// Load reads the config at DefaultPath.
func Load() (*Config, error) {
	return LoadFromPath(DefaultPath())
}

// LoadFromPath reads a YAML config file over the defaults. A missing file
// yields the defaults. Environment overrides are applied in both cases.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold an API key.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides. The API key is
// not touched here since the provider may still change; see ResolveAPIKey.
func (c *Config) applyEnvOverrides() {
	if model := os.Getenv("SHOTDECK_MODEL"); model != "" {
		c.Vision.Model = model
	}
	if url := os.Getenv("SHOTDECK_BASE_URL"); url != "" {
		c.Vision.BaseURL = url
	}
}

// ResolveAPIKey returns the key for the configured provider. The provider's
// environment variable wins over the file's api_key. Call it after command
// line flags have been applied.
func (c *Config) ResolveAPIKey() string {
	env := "OPENAI_API_KEY"
	if c.Vision.Provider == ProviderGemini {
		env = "GEMINI_API_KEY"
	}
	if key := os.Getenv(env); key != "" {
		return key
	}
	return c.Vision.APIKey
}

// GetRequestTimeout returns the per-request timeout as a duration.
func (c *Config) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Vision.RequestTimeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// ErrorPolicy returns the engine policy named by OnError.
func (c *Config) ErrorPolicy() (shotdeck.ErrorPolicy, error) {
	return shotdeck.ParseErrorPolicy(c.OnError)
}

// RowShapePolicy returns the engine policy named by RowPolicy.
func (c *Config) RowShapePolicy() (shotdeck.RowShapePolicy, error) {
	return shotdeck.ParseRowShapePolicy(c.RowPolicy)
}

// Validate validates the configuration. The API key is checked when a
// vision client is created, since offline commands do not need one.
func (c *Config) Validate() error {
	validProvider := false
	for _, p := range ValidProviders {
		if c.Vision.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid vision provider: %s (valid: %v)", c.Vision.Provider, ValidProviders)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Vision.MaxImageDim < 0 {
		return fmt.Errorf("max_image_dim must not be negative, got %d", c.Vision.MaxImageDim)
	}
	if c.Vision.RequestTimeout != "" {
		if _, err := time.ParseDuration(c.Vision.RequestTimeout); err != nil {
			return fmt.Errorf("invalid request_timeout %q: %w", c.Vision.RequestTimeout, err)
		}
	}
	if _, err := c.ErrorPolicy(); err != nil {
		return err
	}
	if _, err := c.RowShapePolicy(); err != nil {
		return err
	}
	return nil
}
