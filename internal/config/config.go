package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// TokenEnvVar holds the Reader API bearer token.
const TokenEnvVar = "READER_API_TOKEN"

type RetryConfig struct {
	// MaxAttempts caps rate-limit retries; 0 retries forever.
	MaxAttempts int `yaml:"max_attempts"`
}

type CacheConfig struct {
	ListTTL    string `yaml:"list_ttl"`
	LibraryTTL string `yaml:"library_ttl"`
}

type Config struct {
	BaseURL string      `yaml:"base_url"`
	AuthURL string      `yaml:"auth_url"`
	Timeout string      `yaml:"timeout"`
	Strict  bool        `yaml:"strict"`
	Retry   RetryConfig `yaml:"retry"`
	Cache   CacheConfig `yaml:"cache"`
}

func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ListTTL returns the freshness window for filtered list queries.
func (c *Config) ListTTL() time.Duration {
	return parseTTL(c.Cache.ListTTL, time.Minute)
}

// LibraryTTL returns the freshness window for full-library fetches.
func (c *Config) LibraryTTL() time.Duration {
	return parseTTL(c.Cache.LibraryTTL, 24*time.Hour)
}

// parseTTL parses a duration, also accepting "Nd" day syntax.
func parseTTL(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Token returns the API bearer token from the environment.
func Token() (string, error) {
	token := os.Getenv(TokenEnvVar)
	if token == "" {
		return "", fmt.Errorf("%s is not set; get a token at https://readwise.io/access_token", TokenEnvVar)
	}
	return token, nil
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "readerctl", "config.yaml")
}

// CachePath is where the library cache file lives.
func CachePath() string {
	return filepath.Join(xdg.DataHome, "readerctl", "library.json")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaults.AuthURL
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	for name, raw := range map[string]string{"base_url": cfg.BaseURL, "auth_url": cfg.AuthURL} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: invalid url: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: url scheme must be http or https, got %q", name, u.Scheme)
		}
	}
	if cfg.Retry.MaxAttempts < 0 {
		return fmt.Errorf("retry.max_attempts must be non-negative, got %d", cfg.Retry.MaxAttempts)
	}
	return nil
}
