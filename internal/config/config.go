// Package config loads the painel configuration file (~/.painel/config.yaml).
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/painel/internal/api"
	"github.com/felixgeelhaar/painel/internal/authz"
	"github.com/felixgeelhaar/painel/internal/errors"
	"github.com/felixgeelhaar/painel/internal/log"
	"github.com/felixgeelhaar/painel/internal/poll"
)

// Environment overrides
const (
	EnvAPIBase  = "PAINEL_API_BASE"
	EnvLogLevel = "PAINEL_LOG_LEVEL"
	EnvConfig   = "PAINEL_CONFIG"
)

// Storage backends
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the painel configuration
type Config struct {
	API          APIConfig           `yaml:"api" json:"api"`
	Storage      StorageConfig       `yaml:"storage" json:"storage"`
	Logging      LoggingConfig       `yaml:"logging" json:"logging"`
	Poll         PollConfig          `yaml:"poll" json:"poll"`
	Defaults     CommandDefaults     `yaml:"defaults" json:"defaults"`
	Options      api.OptionDefaults  `yaml:"options,omitempty" json:"options,omitempty"`
	Capabilities map[string][]string `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"` // 0 = no client timeout
}

type StorageConfig struct {
	Backend string      `yaml:"backend" json:"backend"` // "file", "redis", "memory"
	Path    string      `yaml:"path,omitempty" json:"path,omitempty"`
	Redis   RedisConfig `yaml:"redis,omitempty" json:"redis,omitempty"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty" json:"addr,omitempty"`
	Password string `yaml:"password,omitempty" json:"-"`
	DB       int    `yaml:"db,omitempty" json:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" json:"format"` // "text", "json"
}

type PollConfig struct {
	Interval time.Duration `yaml:"interval" json:"interval"`
}

type CommandDefaults struct {
	Format  string `yaml:"format,omitempty" json:"format,omitempty"` // "text", "json", "yaml"
	NoColor bool   `yaml:"no_color,omitempty" json:"no_color,omitempty"`
}

// Dir returns ~/.painel
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".painel"), nil
}

// DefaultPath returns the configuration file path, honouring PAINEL_CONFIG
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the built-in configuration
func Default() *Config {
	credentials := "~/.painel/credentials.json"
	return &Config{
		API: APIConfig{
			BaseURL: api.DefaultBaseURL,
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    credentials,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "painel",
			},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Poll: PollConfig{
			Interval: poll.DefaultInterval,
		},
		Defaults: CommandDefaults{
			Format: "text",
		},
		Options: api.DefaultOptions(),
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.NewConfigError(errors.ErrCodeConfigRead, "failed to read config", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfigError(errors.ErrCodeConfigRead, fmt.Sprintf("failed to parse %s", path), err)
		}
	}

	cfg.applyEnv()
	cfg.Options = cfg.Options.Merge(api.DefaultOptions())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIBase); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid, fmt.Sprintf(format, args...), nil)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return invalid("api.timeout must not be negative")
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Path == "" {
			return invalid("storage.path is required for the file backend")
		}
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return invalid("storage.redis.addr is required for the redis backend")
		}
	case BackendMemory:
	default:
		return invalid("storage.backend must be file, redis or memory, got %q", c.Storage.Backend)
	}

	if !log.ValidLevel(c.Logging.Level) {
		return invalid("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	if f := strings.ToLower(c.Logging.Format); f != "text" && f != "json" {
		return invalid("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if c.Poll.Interval != 0 && c.Poll.Interval < time.Second {
		return invalid("poll.interval must be at least 1s, got %s", c.Poll.Interval)
	}

	switch c.Defaults.Format {
	case "", "text", "json", "yaml":
	default:
		return invalid("defaults.format must be text, json or yaml, got %q", c.Defaults.Format)
	}

	if _, err := c.CapabilityTable(); err != nil {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid, "invalid capabilities", err)
	}
	return nil
}

// CapabilityTable returns the default role table with the configured overrides
func (c *Config) CapabilityTable() (authz.Table, error) {
	return authz.DefaultTable().Override(c.Capabilities)
}

// CredentialsPath returns storage.path with ~ expanded
func (c *Config) CredentialsPath() (string, error) {
	return expandHome(c.Storage.Path)
}

// LogConfig converts the logging section for log.New
func (c *Config) LogConfig() log.Config {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(c.Logging.Level)
	cfg.Format = log.ParseFormat(c.Logging.Format)
	return cfg
}

// Save writes the configuration to path with owner-only permissions
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Get returns a scalar setting by dotted key
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api.base_url":
		return c.API.BaseURL, nil
	case "api.timeout":
		return c.API.Timeout.String(), nil
	case "storage.backend":
		return c.Storage.Backend, nil
	case "storage.path":
		return c.Storage.Path, nil
	case "storage.redis.addr":
		return c.Storage.Redis.Addr, nil
	case "storage.redis.db":
		return strconv.Itoa(c.Storage.Redis.DB), nil
	case "storage.redis.prefix":
		return c.Storage.Redis.Prefix, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "poll.interval":
		return c.Poll.Interval.String(), nil
	case "defaults.format":
		return c.Defaults.Format, nil
	case "defaults.no_color":
		return strconv.FormatBool(c.Defaults.NoColor), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// Set changes a scalar setting by dotted key. The result is not validated.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api.base_url":
		c.API.BaseURL = value
	case "api.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
		c.API.Timeout = d
	case "storage.backend":
		c.Storage.Backend = value
	case "storage.path":
		c.Storage.Path = value
	case "storage.redis.addr":
		c.Storage.Redis.Addr = value
	case "storage.redis.db":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("storage.redis.db: %w", err)
		}
		c.Storage.Redis.DB = n
	case "storage.redis.prefix":
		c.Storage.Redis.Prefix = value
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "poll.interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("poll.interval: %w", err)
		}
		c.Poll.Interval = d
	case "defaults.format":
		c.Defaults.Format = value
	case "defaults.no_color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("defaults.no_color: %w", err)
		}
		c.Defaults.NoColor = b
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
