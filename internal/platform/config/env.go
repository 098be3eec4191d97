// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Prefix namespaces every eventwire environment variable. Config struct
// tags name variables without it; the parser prepends it, so a field
// tagged `env:"STREAM_ID"` reads EVENTWIRE_STREAM_ID.
const Prefix = "EVENTWIRE_"

// ParseEnv loads prefixed environment variables into target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: Prefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
