package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for config file unmarshalling.
// It relies on timex.Duration so files can specify the timeout either as a
// string like "10s" or as integer nanoseconds. Only fields present in the
// file are copied into the runtime Config.
type FileConfig struct {
	APIBaseURL     string         `json:"api_base_url" yaml:"api_base_url"`
	DatabasePath   string         `json:"database_path" yaml:"database_path"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
	LogBackend     string         `json:"log_backend" yaml:"log_backend"`
	LogFormat      string         `json:"log_format" yaml:"log_format"`
	LandingPath    string         `json:"landing_path" yaml:"landing_path"`
	LoginPath      string         `json:"login_path" yaml:"login_path"`
}

// parseFile overlays cfg with the file named by -c or -config.
//
// Files ending in .yaml or .yml are YAML; anything else is JSON, which may
// contain comments and trailing commas.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &fc)
	}
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogBackend, fc.LogBackend)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.LandingPath, fc.LandingPath)
	setString(&cfg.LoginPath, fc.LoginPath)
	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
