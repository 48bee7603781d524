package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   identity API base URL
//	-d string   local database file
//	-t int      request timeout in seconds
//	-l string   log level
//
// Only these flags are looked at (see flagx.Filter), so the config file flag
// and anything else on the command line do not interfere.
func parseFlags(cfg *Config, args []string) error {
	fs := flagx.NewFlagSet("gophauth")

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "identity API base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(flagx.Filter(args, "a", "d", "t", "l")); err != nil {
		return fmt.Errorf("config: flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
