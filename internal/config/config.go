package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/termdeck/internal/domain"
)

// Cache drivers.
const (
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds the termdeck configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Termdat TermdatConfig `yaml:"termdat"`
	Cache   CacheConfig   `yaml:"cache"`
	Export  ExportConfig  `yaml:"export"`
	Session SessionConfig `yaml:"session"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"` // 0 keeps event streams open
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// TermdatConfig holds the terminology API client settings.
type TermdatConfig struct {
	BaseURL    string  `yaml:"base_url"`
	PageSize   int     `yaml:"page_size"`
	TimeoutSec int     `yaml:"timeout_sec"`
	RatePerSec float64 `yaml:"rate_per_sec"` // 0 = unlimited
	Burst      int     `yaml:"burst"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // redis, none (default: none)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	CollectionsTTL   int      `yaml:"collections_ttl_sec"`
	SearchTTL        int      `yaml:"search_ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ExportConfig holds deck export settings.
type ExportConfig struct {
	Limit     int    `yaml:"limit"`
	OutputDir string `yaml:"output_dir"` // "-" writes to stdout
}

// SessionConfig holds search session settings.
type SessionConfig struct {
	DefaultSource  string   `yaml:"default_source"`
	DefaultTargets []string `yaml:"default_targets"`
	IdleTTLSec     int      `yaml:"idle_ttl_sec"`
	SweepSec       int      `yaml:"sweep_interval_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
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

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML after substituting ${VAR} references. Defaults are not applied.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Termdat.PageSize <= 0 {
		c.Termdat.PageSize = domain.DefaultPageSize
	}
	if c.Termdat.TimeoutSec <= 0 {
		c.Termdat.TimeoutSec = 30
	}
	if c.Termdat.Burst <= 0 {
		c.Termdat.Burst = 1
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheNone
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = domain.KeyPrefix
	}
	if c.Cache.CollectionsTTL <= 0 {
		c.Cache.CollectionsTTL = 3600
	}
	if c.Cache.SearchTTL <= 0 {
		c.Cache.SearchTTL = 600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Export.Limit <= 0 {
		c.Export.Limit = domain.DefaultExportLimit
	}
	if c.Session.DefaultSource == "" {
		c.Session.DefaultSource = string(domain.DefaultSource)
	}
	if len(c.Session.DefaultTargets) == 0 {
		for _, code := range domain.DefaultTargets() {
			c.Session.DefaultTargets = append(c.Session.DefaultTargets, string(code))
		}
	}
	if c.Session.IdleTTLSec <= 0 {
		c.Session.IdleTTLSec = 1800
	}
	if c.Session.SweepSec <= 0 {
		c.Session.SweepSec = 60
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Termdat.BaseURL == "" {
		return errors.New("termdat.base_url is required")
	}
	switch c.Cache.Driver {
	case CacheNone:
	case CacheRedis:
		if len(c.Cache.Addrs) == 0 {
			return errors.New("cache.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver must be %q or %q, got %q", CacheRedis, CacheNone, c.Cache.Driver)
	}
	if _, err := domain.ParseLanguage(c.Session.DefaultSource); err != nil {
		return fmt.Errorf("session.default_source: %w", err)
	}
	if _, err := domain.ParseLanguages(c.Session.DefaultTargets); err != nil {
		return fmt.Errorf("session.default_targets: %w", err)
	}
	return nil
}

// Timeout returns the terminology API request timeout.
func (c TermdatConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// Enabled reports whether a cache backend is configured.
func (c CacheConfig) Enabled() bool {
	return c.Driver != CacheNone
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
