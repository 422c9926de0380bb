// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PlaceholderAPIKey is the value shipped in sample env files. It never counts as a credential.
const PlaceholderAPIKey = "PLACEHOLDER_API_KEY"

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Database   DatabaseConfig  `yaml:"database"`
	LLM        LLMConfig       `yaml:"llm"`
	Fallback   FallbackConfig  `yaml:"fallback"`
	RateLimits RateLimitConfig `yaml:"rate_limits"`
	Logging    LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port     int  `yaml:"port"`
	EnableUI bool `yaml:"enable_ui"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, none
	Path   string `yaml:"path"`
}

type LLMConfig struct {
	Provider          string        `yaml:"provider"` // gemini, openai, anthropic, ollama, none
	Model             string        `yaml:"model"`
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"` // 0 disables
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Grounding         bool          `yaml:"grounding"`
}

// FallbackConfig controls the simulated latency of the heuristic evaluator.
type FallbackConfig struct {
	MinDelay time.Duration `yaml:"min_delay"`
	MaxDelay time.Duration `yaml:"max_delay"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"default_requests_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     8080,
			EnableUI: true,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "./data/cartcheck.db",
		},
		LLM: LLMConfig{
			Provider:  "gemini",
			Model:     "gemini-1.5-pro",
			Grounding: true,
		},
		Fallback: FallbackConfig{
			MinDelay: 500 * time.Millisecond,
			MaxDelay: 1500 * time.Millisecond,
		},
		RateLimits: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadDotEnv loads .env.local and .env into the process environment.
// Variables that are already set win; missing files are ignored.
func LoadDotEnv() {
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
}

// Load reads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Interpolate environment variables
	content := interpolateEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# cartcheck configuration

server:
  port: 8080
  enable_ui: true

database:
  driver: sqlite  # sqlite or none
  path: ./data/cartcheck.db

llm:
  provider: gemini  # gemini, openai, anthropic, ollama, none
  model: gemini-1.5-pro
  # Leave empty to read API_KEY, VITE_API_KEY or GEMINI_API_KEY.
  # Without a usable key the service answers from the built-in heuristic.
  api_key: ${GEMINI_API_KEY}
  grounding: true
  # timeout: 30s
  # requests_per_minute: 30

  # For OpenAI:
  # provider: openai
  # model: gpt-4o-mini
  # api_key: ${OPENAI_API_KEY}

  # For Ollama (local, no key):
  # provider: ollama
  # model: llama3
  # base_url: http://localhost:11434

fallback:
  min_delay: 500ms
  max_delay: 1500ms

rate_limits:
  default_requests_per_minute: 60

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "none" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	validProviders := map[string]bool{"gemini": true, "openai": true, "anthropic": true, "ollama": true, "none": true}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("unsupported LLM provider: %s", c.LLM.Provider)
	}

	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm timeout must not be negative")
	}
	if c.LLM.RequestsPerMinute < 0 {
		return fmt.Errorf("llm requests_per_minute must not be negative")
	}

	if c.Fallback.MinDelay < 0 || c.Fallback.MaxDelay < c.Fallback.MinDelay {
		return fmt.Errorf("invalid fallback delay range: %s..%s", c.Fallback.MinDelay, c.Fallback.MaxDelay)
	}

	if c.RateLimits.RequestsPerMinute < 1 {
		return fmt.Errorf("rate_limits.default_requests_per_minute must be positive")
	}

	// A missing API key is not an error: analyses fall back to the heuristic.
	return nil
}

// ResolveAPIKey returns the configured credential, falling back to the
// environment. The result may still be unusable; check it with UsableKey.
func (c *LLMConfig) ResolveAPIKey() string {
	if UsableKey(c.APIKey) {
		return strings.TrimSpace(c.APIKey)
	}

	names := []string{"API_KEY", "VITE_API_KEY", "GEMINI_API_KEY"}
	switch c.Provider {
	case "openai":
		names = append(names, "OPENAI_API_KEY")
	case "anthropic":
		names = append(names, "ANTHROPIC_API_KEY")
	}

	for _, name := range names {
		if v := os.Getenv(name); UsableKey(v) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// UsableKey reports whether key looks like a real credential.
func UsableKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" || key == PlaceholderAPIKey {
		return false
	}
	// An unset ${VAR} survives interpolation verbatim.
	return !envRef.MatchString(key)
}

var envRef = regexp.MustCompile(`^\$\{[^}]+\}$`)

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
