package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"
)

// ErrMissingAPIKey is returned when a command needs a credential that is not configured.
var ErrMissingAPIKey = errors.New("missing API key")

// LLM provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Defaults for the extraction models.
const (
	DefaultOpenAIModel      = "gpt-3.5-turbo-16k"
	DefaultOpenAITokenLimit = 16385
	DefaultAnthropicModel   = "claude-3-5-haiku-latest"
	DefaultAnthropicTokens  = 10000
	DefaultGeminiModel      = "gemini-1.5-pro"
)

var accountNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Config holds every setting a command may need.
type Config struct {
	// Account is the stored Google account ("grant") commands act as.
	Account string `yaml:"account"`

	// Calendar is the calendar ID events are read from and written to.
	Calendar string `yaml:"calendar"`

	// Timezone is an IANA zone name used to interpret and print local times.
	// Empty means the system zone.
	Timezone string `yaml:"timezone"`

	// FlightCacheFile is where schedule-flight keeps the last extracted itinerary.
	FlightCacheFile string `yaml:"flight_cache_file"`

	Google  GoogleConfig  `yaml:"google"`
	LLM     LLMConfig     `yaml:"llm"`
	Logging LoggingConfig `yaml:"logging"`
}

// GoogleConfig holds the OAuth client used to authorize Google accounts.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`

	// TokenDir overrides where per-account tokens are stored.
	TokenDir string `yaml:"token_dir"`
}

// LLMConfig selects and configures the flight extraction providers.
type LLMConfig struct {
	// Provider is the default provider: openai, anthropic or gemini.
	Provider  string         `yaml:"provider"`
	OpenAI    ProviderConfig `yaml:"openai"`
	Anthropic ProviderConfig `yaml:"anthropic"`
	Gemini    ProviderConfig `yaml:"gemini"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`

	// TokenLimit caps the prompt size; zero disables the check.
	TokenLimit int `yaml:"token_limit"`

	// MaxTokens caps the response size where the provider requires it.
	MaxTokens int `yaml:"max_tokens"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config populated with built-in defaults only.
func Default() Config {
	return Config{
		Account:         "default",
		Calendar:        "primary",
		FlightCacheFile: "flight_details.json",
		LLM: LLMConfig{
			Provider: ProviderOpenAI,
			OpenAI: ProviderConfig{
				Model:      DefaultOpenAIModel,
				TokenLimit: DefaultOpenAITokenLimit,
			},
			Anthropic: ProviderConfig{
				Model:     DefaultAnthropicModel,
				MaxTokens: DefaultAnthropicTokens,
			},
			Gemini: ProviderConfig{
				Model: DefaultGeminiModel,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "calhelper", "config.yaml")
	}
	return filepath.Join(".", "calhelper.yaml")
}

// Load builds a Config from defaults, the YAML file at path and the
// environment. A missing file at the default location is not an error; a
// missing file at an explicitly requested path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(bytes.NewReader(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode reads YAML into cfg, rejecting unknown keys.
func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	c.Account = getEnvOrDefault("CALHELPER_ACCOUNT", c.Account)
	c.Calendar = getEnvOrDefault("CALHELPER_CALENDAR", c.Calendar)
	c.Timezone = getEnvOrDefault("CALHELPER_TIMEZONE", c.Timezone)

	c.Google.ClientID = getEnvOrDefault("GOOGLE_CLIENT_ID", c.Google.ClientID)
	c.Google.ClientSecret = getEnvOrDefault("GOOGLE_CLIENT_SECRET", c.Google.ClientSecret)
	c.Google.TokenDir = getEnvOrDefault("CALHELPER_TOKEN_DIR", c.Google.TokenDir)

	c.LLM.Provider = getEnvOrDefault("CALHELPER_LLM_PROVIDER", c.LLM.Provider)
	c.LLM.OpenAI.APIKey = getEnvOrDefault("OPENAI_API_KEY", c.LLM.OpenAI.APIKey)
	c.LLM.OpenAI.BaseURL = getEnvOrDefault("OPENAI_BASE_URL", c.LLM.OpenAI.BaseURL)
	c.LLM.OpenAI.TokenLimit = getEnvIntOrDefault("OPENAI_TOKEN_LIMIT", c.LLM.OpenAI.TokenLimit)
	c.LLM.Anthropic.APIKey = getEnvOrDefault("ANTHROPIC_API_KEY", c.LLM.Anthropic.APIKey)
	c.LLM.Anthropic.BaseURL = getEnvOrDefault("ANTHROPIC_BASE_URL", c.LLM.Anthropic.BaseURL)
	c.LLM.Gemini.APIKey = getEnvOrDefault("GEMINI_API_KEY", c.LLM.Gemini.APIKey)

	c.Logging.Level = getEnvOrDefault("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnvOrDefault("LOG_FORMAT", c.Logging.Format)
}

// Validate checks enum values and names.
func (c *Config) Validate() error {
	if !accountNamePattern.MatchString(c.Account) {
		return fmt.Errorf("invalid account name %q: only letters, digits, '-' and '_' are allowed", c.Account)
	}
	if c.Calendar == "" {
		return fmt.Errorf("calendar must not be empty")
	}

	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("invalid LLM provider %q, must be one of: openai, anthropic, gemini", c.LLM.Provider)
	}

	if c.LLM.OpenAI.TokenLimit < 0 {
		return fmt.Errorf("openai token limit must not be negative, got %d", c.LLM.OpenAI.TokenLimit)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured time zone, or time.Local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Provider returns the settings for the named LLM provider.
func (c *Config) Provider(name string) (ProviderConfig, error) {
	switch name {
	case ProviderOpenAI:
		return c.LLM.OpenAI, nil
	case ProviderAnthropic:
		return c.LLM.Anthropic, nil
	case ProviderGemini:
		return c.LLM.Gemini, nil
	default:
		return ProviderConfig{}, fmt.Errorf("unknown LLM provider %q", name)
	}
}

// RequireProvider returns the provider settings and fails with
// ErrMissingAPIKey when its key is not set.
func (c *Config) RequireProvider(name string) (ProviderConfig, error) {
	p, err := c.Provider(name)
	if err != nil {
		return ProviderConfig{}, err
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return ProviderConfig{}, fmt.Errorf("%w for %s: set %s", ErrMissingAPIKey, name, envKeyFor(name))
	}
	return p, nil
}

// RequireGoogleClient fails with ErrMissingAPIKey when the OAuth client is not configured.
func (c *Config) RequireGoogleClient() (GoogleConfig, error) {
	if c.Google.ClientID == "" || c.Google.ClientSecret == "" {
		return GoogleConfig{}, fmt.Errorf("%w: set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET or google.client_id/client_secret in %s",
			ErrMissingAPIKey, DefaultPath())
	}
	return c.Google, nil
}

func envKeyFor(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns the integer value of an environment variable or a default value.
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}
