package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Client   ClientConfig   `toml:"client"`
	LLM      LLMConfig      `toml:"llm"`
	YouTube  YouTubeConfig  `toml:"youtube"`
	Search   SearchConfig   `toml:"search"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	AuthToken       string   `toml:"auth_token"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	CacheTTLSeconds int      `toml:"cache_ttl_seconds"`
	PipelineTimeout int      `toml:"pipeline_timeout_seconds"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CacheTTL returns the result cache lifetime.
func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// ClientConfig contains settings for talking to a running server.
type ClientConfig struct {
	ServerURL      string `toml:"server_url"`
	Progress       string `toml:"progress"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	AuthToken      string `toml:"auth_token"`
}

// Timeout returns the HTTP client timeout.
func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Progress modes for [ClientConfig.Progress].
const (
	ProgressTimers = "timers"
	ProgressStream = "stream"
)

// LLMConfig contains settings for the OpenAI-compatible chat completions endpoint.
type LLMConfig struct {
	BaseURL     string  `toml:"base_url"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	APIKeyEnv   string  `toml:"api_key_env"`
	Temperature float64 `toml:"temperature"`
}

// YouTubeConfig contains transcript fetching settings.
type YouTubeConfig struct {
	Languages          []string `toml:"languages"`
	Cookies            string   `toml:"cookies"`
	UserAgent          string   `toml:"user_agent"`
	MaxTranscriptChars int      `toml:"max_transcript_chars"`
}

// SearchConfig contains web research settings.
type SearchConfig struct {
	Endpoint   string  `toml:"endpoint"`
	RateLimit  float64 `toml:"rate_limit"`
	Workers    int     `toml:"workers"`
	MaxResults int     `toml:"max_results"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ParsedLevel returns the configured [log.Level], defaulting to info.
func (l LogConfig) ParsedLevel() log.Level {
	lvl, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults, and environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	config.ApplyEnv(os.LookupEnv)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overlays secrets from the environment using lookup (normally [os.LookupEnv]).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if c.LLM.APIKeyEnv != "" {
		if v, ok := lookup(c.LLM.APIKeyEnv); ok && v != "" {
			c.LLM.APIKey = v
		}
	}
	if v, ok := lookup("YOUTUBE_COOKIES"); ok && v != "" {
		c.YouTube.Cookies = v
	}
	if v, ok := lookup("YTBLOG_AUTH_TOKEN"); ok && v != "" {
		c.Server.AuthToken = v
		c.Client.AuthToken = v
	}
}

// Validate reports configuration values the application cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	switch c.Client.Progress {
	case ProgressTimers, ProgressStream:
	default:
		return fmt.Errorf("%w: client.progress must be %q or %q, got %q", ErrInvalidConfig, ProgressTimers, ProgressStream, c.Client.Progress)
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("%w: search.workers must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// WriteConfigFile encodes config as TOML to path, replacing any existing file.
func WriteConfigFile(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
