package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix is prepended to every environment variable name the client reads.
const EnvPrefix = "GOPHAUTH_"

// Config holds runtime settings for the gophauth CLI.
//
// Units: RequestTimeout is a time.Duration (e.g., 10*time.Second).
type Config struct {
	APIBaseURL     string        `env:"API_BASE_URL, overwrite"`
	DatabasePath   string        `env:"DATABASE_PATH, overwrite"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, overwrite"`

	LogLevel   string `env:"LOG_LEVEL, overwrite"`
	LogBackend string `env:"LOG_BACKEND, overwrite"`
	LogFormat  string `env:"LOG_FORMAT, overwrite"`

	LandingPath string `env:"LANDING_PATH, overwrite"`
	LoginPath   string `env:"LOGIN_PATH, overwrite"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api/v1"
	c.DatabasePath = "gophauth.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.LogFormat = "text"
	c.LandingPath = "/"
	c.LoginPath = "/login"
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base url %q: must be an absolute http(s) url", c.APIBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api base url %q: unsupported scheme %q", c.APIBaseURL, u.Scheme)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if !strings.HasPrefix(c.LandingPath, "/") || !strings.HasPrefix(c.LoginPath, "/") {
		return fmt.Errorf("landing and login paths must start with '/'")
	}
	if c.LandingPath == c.LoginPath {
		return fmt.Errorf("landing path must differ from login path %q", c.LoginPath)
	}
	return nil
}

// LoadConfig constructs a Config from the process arguments and environment:
// defaults, then the config file (if -c/-config is given), then GOPHAUTH_*
// environment variables, then command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig(ctx context.Context, args []string) (*Config, error) {
	return load(ctx, args, envconfig.OsLookuper())
}

func load(ctx context.Context, args []string, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(ctx, cfg, lookuper); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
