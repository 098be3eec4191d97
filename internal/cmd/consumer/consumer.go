// Package consumer parses consumer command flags and starts the sharded
// projection runtime.
package consumer

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/louisbranch/eventwire/internal/platform/cmd"
	runtime "github.com/louisbranch/eventwire/internal/services/consumer/app"
)

// Config holds consumer command configuration.
type Config struct {
	Port           int    `env:"CONSUMER_PORT" envDefault:"8092"`
	Addr           string `env:"CONSUMER_LISTEN_ADDR"`
	ProducerAddr   string `env:"PRODUCER_ADDR" envDefault:"localhost:8091"`
	StreamID       string `env:"STREAM_ID" envDefault:"cart-events"`
	ProjectionName string `env:"PROJECTION_NAME" envDefault:"cart-events"`
	Instances      int    `env:"PROJECTION_INSTANCES" envDefault:"4"`
	DBPath         string `env:"CONSUMER_DB_PATH" envDefault:"data/offsets.db"`

	RestartBackoffMin    time.Duration `env:"RESTART_BACKOFF_MIN" envDefault:"200ms"`
	RestartBackoffMax    time.Duration `env:"RESTART_BACKOFF_MAX" envDefault:"5s"`
	RestartBackoffFactor float64       `env:"RESTART_BACKOFF_FACTOR" envDefault:"1.1"`

	SaveOffsetAfterEnvelopes int           `env:"SAVE_OFFSET_AFTER_ENVELOPES" envDefault:"100"`
	SaveOffsetAfterDuration  time.Duration `env:"SAVE_OFFSET_AFTER_DURATION" envDefault:"500ms"`

	GRPCDialTimeout time.Duration `env:"GRPC_DIAL_TIMEOUT" envDefault:"30s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The consumer server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The consumer listen address (overrides -port)")
	fs.StringVar(&cfg.ProducerAddr, "producer", cfg.ProducerAddr, "The producer endpoint address")
	fs.StringVar(&cfg.StreamID, "stream-id", cfg.StreamID, "The replication stream id")
	fs.IntVar(&cfg.Instances, "instances", cfg.Instances, "The number of projection workers")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the consumer service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceConsumer, func(context.Context) error {
		return runtime.Run(ctx, runtime.RuntimeConfig{
			Port:                     cfg.Port,
			Addr:                     cfg.Addr,
			ProducerAddr:             cfg.ProducerAddr,
			StreamID:                 cfg.StreamID,
			ProjectionName:           cfg.ProjectionName,
			Instances:                cfg.Instances,
			DBPath:                   cfg.DBPath,
			RestartBackoffMin:        cfg.RestartBackoffMin,
			RestartBackoffMax:        cfg.RestartBackoffMax,
			RestartBackoffFactor:     cfg.RestartBackoffFactor,
			SaveOffsetAfterEnvelopes: cfg.SaveOffsetAfterEnvelopes,
			SaveOffsetAfterDuration:  cfg.SaveOffsetAfterDuration,
			GRPCDialTimeout:          cfg.GRPCDialTimeout,
		})
	})
}
