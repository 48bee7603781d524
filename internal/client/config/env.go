package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// parseEnv overlays cfg with GOPHAUTH_* variables. Unset variables leave the
// current value alone; durations use time.ParseDuration syntax ("15s").
func parseEnv(ctx context.Context, cfg *Config, lookuper envconfig.Lookuper) error {
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
	}); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}
