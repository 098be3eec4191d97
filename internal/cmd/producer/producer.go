// Package producer parses producer command flags and starts the
// replication endpoint.
package producer

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/louisbranch/eventwire/internal/platform/cmd"
	server "github.com/louisbranch/eventwire/internal/services/producer/app"
)

// Config holds producer command configuration.
type Config struct {
	Port              int           `env:"PRODUCER_PORT" envDefault:"8091"`
	Addr              string        `env:"PRODUCER_LISTEN_ADDR"`
	DBPath            string        `env:"PRODUCER_DB_PATH" envDefault:"data/journal.db"`
	StreamID          string        `env:"STREAM_ID" envDefault:"cart-events"`
	EntityType        string        `env:"ENTITY_TYPE" envDefault:"cart"`
	PayloadTypes      []string      `env:"PAYLOAD_TYPES" envSeparator:","`
	BehindCurrentTime time.Duration `env:"BEHIND_CURRENT_TIME" envDefault:"500ms"`
	ReplayParallelism int           `env:"REPLAY_PARALLELISM" envDefault:"4"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The producer server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The producer listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The journal database path")
	fs.StringVar(&cfg.StreamID, "stream-id", cfg.StreamID, "The replication stream id")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the producer service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceProducer, func(context.Context) error {
		return server.Run(ctx, server.Config{
			Port:              cfg.Port,
			Addr:              cfg.Addr,
			DBPath:            cfg.DBPath,
			StreamID:          cfg.StreamID,
			EntityType:        cfg.EntityType,
			PayloadTypes:      cfg.PayloadTypes,
			BehindCurrentTime: cfg.BehindCurrentTime,
			ReplayParallelism: cfg.ReplayParallelism,
		})
	})
}
