// Package app hosts the eventwire producer service: the SQLite journal
// and the replication gRPC endpoint consumers stream from.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	replicationv1 "github.com/louisbranch/eventwire/api/replication/v1"
	"github.com/louisbranch/eventwire/internal/filter"
	journalsqlite "github.com/louisbranch/eventwire/internal/journal/sqlite"
	"github.com/louisbranch/eventwire/internal/producer"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config controls the producer service.
type Config struct {
	Port int
	// Addr overrides Port when set.
	Addr     string
	DBPath   string
	StreamID string
	// EntityType is the journal entity type behind StreamID.
	EntityType string
	// PayloadTypes lists the payload type URLs replicated as-is. Events
	// with unlisted types fail the stream rather than guessing.
	PayloadTypes []string
	// BehindCurrentTime is the journal tail lag window.
	BehindCurrentTime time.Duration
	// ReplayParallelism bounds concurrent replays per stream.
	ReplayParallelism int
}

const (
	defaultProducerPort = 8091
	defaultProducerDB   = "data/journal.db"
)

// Server hosts the producer gRPC endpoint and owns its journal store.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	journal    *journalsqlite.Store
	filters    *filter.Registry
}

// New creates a configured producer server.
func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.StreamID) == "" {
		return nil, fmt.Errorf("stream id is required")
	}
	if strings.TrimSpace(cfg.EntityType) == "" {
		return nil, fmt.Errorf("entity type is required")
	}
	if len(cfg.PayloadTypes) == 0 {
		return nil, fmt.Errorf("at least one payload type is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultProducerPort
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultProducerDB
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	addr := cfg.Addr
	if strings.TrimSpace(addr) == "" {
		addr = fmt.Sprintf(":%d", cfg.Port)
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	journal, err := journalsqlite.Open(cfg.DBPath, journalsqlite.Settings{
		BehindCurrentTime: cfg.BehindCurrentTime,
	})
	if err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("open journal store: %w", err)
	}

	transformation := producer.NewTransformation()
	for _, typeURL := range cfg.PayloadTypes {
		typeURL = strings.TrimSpace(typeURL)
		if typeURL != "" {
			transformation.RegisterIdentity(typeURL)
		}
	}

	filters := filter.NewRegistry()
	service, err := producer.NewService(journal, filters, producer.EventProducerSource{
		EntityType:     cfg.EntityType,
		StreamID:       cfg.StreamID,
		Transformation: transformation,
		Settings:       producer.Settings{ReplayParallelism: cfg.ReplayParallelism},
	})
	if err != nil {
		_ = listener.Close()
		_ = journal.Close()
		return nil, fmt.Errorf("build replication service: %w", err)
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	replicationv1.RegisterEventProducerServiceServer(grpcServer, service)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("eventwire.replication.v1.EventProducerService", grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		journal:    journal,
		filters:    filters,
	}, nil
}

// Addr returns the listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Journal exposes the journal store so the owning service can append
// entity events.
func (s *Server) Journal() *journalsqlite.Store {
	if s == nil {
		return nil
	}
	return s.journal
}

// Run creates and serves a producer server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the producer server and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if err := s.journal.Close(); err != nil {
			log.Printf("close journal store: %v", err)
		}
	}()

	log.Printf("producer server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return handleErr(<-serveErr)
	case err := <-serveErr:
		return handleErr(err)
	}
}
