package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Session store drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config holds the marketplace API configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Logging     LoggingConfig     `yaml:"logging"`
	Completion  CompletionConfig  `yaml:"completion"`
	Chat        ChatConfig        `yaml:"chat"`
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	Tools       ToolsConfig       `yaml:"tools"`
	Auth        AuthConfig        `yaml:"auth"`
	Sessions    SessionsConfig    `yaml:"sessions"`
	MCP         MCPConfig         `yaml:"mcp"`

	// Secrets come from the environment only, never from YAML.
	Secrets Secrets `yaml:"-"`
}

// Secrets are read once at start by envconfig.
type Secrets struct {
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	SessionSecret string `envconfig:"SESSION_SECRET"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CompletionConfig selects the hosted language model.
type CompletionConfig struct {
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Provider string `yaml:"provider"`
}

// ChatConfig bounds the conversational dispatcher.
type ChatConfig struct {
	MaxDurationSec int         `yaml:"max_duration_sec"`
	MaxSteps       int         `yaml:"max_steps"`
	SystemPrompt   string      `yaml:"system_prompt"` // empty = built-in prompt
	Quota          QuotaConfig `yaml:"quota"`
}

// QuotaConfig limits chat requests per client.
type QuotaConfig struct {
	RequestsPerMinute int64 `yaml:"requests_per_minute"` // 0 = off
}

// MarketplaceConfig holds listing settings.
type MarketplaceConfig struct {
	DefaultPageSize int  `yaml:"default_page_size"`
	MaxPageSize     int  `yaml:"max_page_size"`
	MinPrice        int  `yaml:"min_price"`
	MaxPrice        int  `yaml:"max_price"`
	StrictFilters   bool `yaml:"strict_filters"`
}

// ToolsConfig holds per-tool settings.
type ToolsConfig struct {
	FindExperts FindExpertsConfig `yaml:"find_experts"`
}

// FindExpertsConfig configures the findExperts tool.
type FindExpertsConfig struct {
	MaxResults int `yaml:"max_results"`
}

// AuthConfig holds session settings.
type AuthConfig struct {
	SessionMaxAgeHours int    `yaml:"session_max_age_hours"`
	CookieName         string `yaml:"cookie_name"`
	CookieSecure       bool   `yaml:"cookie_secure"`
}

// SessionsConfig selects and connects the session store.
type SessionsConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis (default: memory)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
}

// MCPConfig toggles the MCP endpoint.
type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// MaxDuration returns the chat deadline.
func (c ChatConfig) MaxDuration() time.Duration {
	return time.Duration(c.MaxDurationSec) * time.Second
}

// SessionMaxAge returns the session lifetime.
func (c AuthConfig) SessionMaxAge() time.Duration {
	return time.Duration(c.SessionMaxAgeHours) * time.Hour
}

// Load reads configuration from a YAML file by environment name (local, dev, prod)
// and secrets from the environment, after an optional .env file.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}

	if err := LoadSecrets(&cfg.Secrets, ".env"); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Parse expands ${VAR} references in YAML and applies defaults. Secrets are not read.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// LoadSecrets fills s from the environment. Missing dotenv files are ignored;
// variables already set in the environment win over the file.
func LoadSecrets(s *Secrets, dotenv ...string) error {
	for _, f := range dotenv {
		if !fileExists(f) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	if err := envconfig.Process("", s); err != nil {
		return fmt.Errorf("read secrets: %w", err)
	}
	return nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Completion.Model == "" {
		c.Completion.Model = "gpt-4o"
	}
	if c.Completion.Provider == "" {
		c.Completion.Provider = "openai"
	}
	if c.Chat.MaxDurationSec <= 0 {
		c.Chat.MaxDurationSec = 30
	}
	if c.Chat.MaxSteps <= 0 {
		c.Chat.MaxSteps = 5
	}
	// Streams must outlive the chat deadline.
	if c.HTTP.WriteTimeoutSec <= c.Chat.MaxDurationSec {
		c.HTTP.WriteTimeoutSec = c.Chat.MaxDurationSec + 5
	}
	if c.Marketplace.DefaultPageSize <= 0 {
		c.Marketplace.DefaultPageSize = 6
	}
	if c.Marketplace.MaxPageSize <= 0 {
		c.Marketplace.MaxPageSize = 50
	}
	if c.Marketplace.MaxPrice <= 0 {
		c.Marketplace.MaxPrice = 1000
	}
	if c.Tools.FindExperts.MaxResults <= 0 {
		c.Tools.FindExperts.MaxResults = 3
	}
	if c.Auth.SessionMaxAgeHours <= 0 {
		c.Auth.SessionMaxAgeHours = 720
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "bconnected_session"
	}
	if c.Sessions.Driver == "" {
		c.Sessions.Driver = DriverMemory
	}
	if c.Sessions.ReadinessTimeout <= 0 {
		c.Sessions.ReadinessTimeout = 10
	}
	if c.Sessions.KeyPrefix == "" {
		c.Sessions.KeyPrefix = "bconnected:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Sessions.Driver {
	case DriverMemory:
	case DriverRedis:
		if len(c.Sessions.Addrs) == 0 {
			return fmt.Errorf("sessions.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("sessions.driver must be %q or %q, got %q", DriverMemory, DriverRedis, c.Sessions.Driver)
	}
	if c.Marketplace.MinPrice < 0 || c.Marketplace.MinPrice > c.Marketplace.MaxPrice {
		return fmt.Errorf("marketplace.min_price must be in [0, max_price], got %d", c.Marketplace.MinPrice)
	}
	if c.Marketplace.DefaultPageSize > c.Marketplace.MaxPageSize {
		return fmt.Errorf("marketplace.default_page_size %d exceeds max_page_size %d",
			c.Marketplace.DefaultPageSize, c.Marketplace.MaxPageSize)
	}
	if c.Chat.Quota.RequestsPerMinute < 0 {
		return fmt.Errorf("chat.quota.requests_per_minute must be non-negative")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests run from package dirs.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// envVarRegex matches ${VAR} and ${VAR:-default}.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
