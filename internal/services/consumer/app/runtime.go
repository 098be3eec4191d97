// Package app hosts the eventwire consumer service: N sharded
// projection workers replicating one producer stream into durable
// offsets.
package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/eventwire/internal/consumer"
	"github.com/louisbranch/eventwire/internal/daemon"
	"github.com/louisbranch/eventwire/internal/journal"
	platformgrpc "github.com/louisbranch/eventwire/internal/platform/grpc"
	"github.com/louisbranch/eventwire/internal/projection"
	offsetsqlite "github.com/louisbranch/eventwire/internal/projection/offsetstore/sqlite"
	"github.com/louisbranch/eventwire/internal/slice"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// RuntimeConfig controls consumer startup and projection behavior.
type RuntimeConfig struct {
	Port int
	// Addr overrides Port when set.
	Addr           string
	ProducerAddr   string
	StreamID       string
	ProjectionName string
	// Instances is the number of projection workers; slice ranges derive
	// from it.
	Instances int
	DBPath    string

	RestartBackoffMin    time.Duration
	RestartBackoffMax    time.Duration
	RestartBackoffFactor float64

	SaveOffsetAfterEnvelopes int
	SaveOffsetAfterDuration  time.Duration

	GRPCDialTimeout time.Duration
}

const (
	defaultConsumerPort    = 8092
	defaultConsumerDB      = "data/offsets.db"
	defaultProjectionName  = "cart-events"
	defaultInstances       = 4
	defaultGRPCDialTimeout = 30 * time.Second
)

// Run starts the consumer runtime: it dials the producer, opens the
// offset store, and supervises the projection workers until ctx ends.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.ProducerAddr) == "" {
		return fmt.Errorf("producer address is required")
	}
	if strings.TrimSpace(cfg.StreamID) == "" {
		return fmt.Errorf("stream id is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultConsumerPort
	}
	if strings.TrimSpace(cfg.ProjectionName) == "" {
		cfg.ProjectionName = defaultProjectionName
	}
	if cfg.Instances <= 0 {
		cfg.Instances = defaultInstances
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultConsumerDB
	}
	if cfg.GRPCDialTimeout <= 0 {
		cfg.GRPCDialTimeout = defaultGRPCDialTimeout
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create consumer storage dir: %w", err)
		}
	}

	offsetStore, err := offsetsqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open offset store: %w", err)
	}
	defer func() {
		if closeErr := offsetStore.Close(); closeErr != nil {
			log.Printf("close offset store: %v", closeErr)
		}
	}()

	producerConn, err := platformgrpc.DialPeer(ctx, cfg.ProducerAddr, platformgrpc.DialConfig{
		Timeout:       cfg.GRPCDialTimeout,
		HealthService: "eventwire.replication.v1.EventProducerService",
		Logf:          log.Printf,
	})
	if err != nil {
		return fmt.Errorf("dial producer: %w", err)
	}
	defer func() {
		if closeErr := producerConn.Close(); closeErr != nil {
			log.Printf("close producer connection: %v", closeErr)
		}
	}()

	readJournal, err := consumer.NewReadJournal(producerConn, consumer.Config{
		StreamID: cfg.StreamID,
		Backoff: consumer.BackoffSettings{
			Min:    cfg.RestartBackoffMin,
			Max:    cfg.RestartBackoffMax,
			Factor: cfg.RestartBackoffFactor,
		},
	})
	if err != nil {
		return fmt.Errorf("build read journal: %w", err)
	}

	membership, err := daemon.NewStatic("consumer-1")
	if err != nil {
		return fmt.Errorf("build membership: %w", err)
	}
	factory := func(index int, scope slice.Range) (daemon.Worker, error) {
		id := projection.ID{Name: cfg.ProjectionName, Key: projection.KeyFor(cfg.StreamID, scope)}
		source := projection.Source(func(ctx context.Context, loadOffset func(context.Context) (journal.TimestampOffset, error), fn func(journal.Envelope) error) error {
			return readJournal.Run(ctx, scope, loadOffset, fn)
		})
		runner, err := projection.NewAtLeastOnce(id, offsetStore, source, newCountingHandler(id), projection.Options{
			Restart: projection.RestartBackoff{
				Min:    cfg.RestartBackoffMin,
				Max:    cfg.RestartBackoffMax,
				Factor: cfg.RestartBackoffFactor,
			},
			SaveOffsetAfterEnvelopes: cfg.SaveOffsetAfterEnvelopes,
			SaveOffsetAfterDuration:  cfg.SaveOffsetAfterDuration,
		})
		if err != nil {
			return nil, err
		}
		return daemon.WorkerFunc(runner.Run), nil
	}
	supervisor, err := daemon.New(cfg.ProjectionName, cfg.Instances, factory, membership)
	if err != nil {
		return fmt.Errorf("build sharded daemon: %w", err)
	}

	addr := cfg.Addr
	if strings.TrimSpace(addr) == "" {
		addr = fmt.Sprintf(":%d", cfg.Port)
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer listener.Close()

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("consumer.runtime", grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	defer func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}()

	log.Printf("consumer server listening at %v", listener.Addr())
	return supervisor.Run(ctx)
}
