// Package grpc dials replication peers. Connections are created lazily
// and a peer is not considered usable until its health service reports
// SERVING, so consumers never open replication streams against a
// producer that is still starting up.
package grpc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// DefaultDialTimeout bounds the wait for a peer to become healthy.
const DefaultDialTimeout = 30 * time.Second

// Replication streams stay open and silent while a journal is idle;
// keepalive pings stop intermediaries from reaping them.
const (
	keepaliveInterval = 30 * time.Second
	keepaliveTimeout  = 10 * time.Second
)

// DialConfig controls how a replication peer is dialed.
type DialConfig struct {
	// Timeout bounds the health wait. Zero means DefaultDialTimeout.
	Timeout time.Duration
	// HealthService is the service name probed on the peer's health
	// endpoint. Empty probes the overall serving status.
	HealthService string
	// Logf reports wait progress. Nil silences it.
	Logf func(string, ...any)
}

// ClientOptions returns the dial options for replication clients:
// plaintext in-cluster transport, OTel stats, and keepalive pings that
// hold idle replication streams open across quiet journal periods.
func ClientOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		gogrpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                keepaliveInterval,
			Timeout:             keepaliveTimeout,
			PermitWithoutStream: true,
		}),
	}
}

// DialPeer creates a client connection to addr and blocks until the
// peer's health service reports SERVING or the timeout passes. The
// connection is closed on failure. Passing no opts uses ClientOptions.
func DialPeer(ctx context.Context, addr string, cfg DialConfig, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	if addr == "" {
		return nil, fmt.Errorf("peer address is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	if len(opts) == 0 {
		opts = ClientOptions()
	}

	conn, err := gogrpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := WaitForHealth(waitCtx, conn, cfg.HealthService, cfg.Logf); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("peer %s: %w", addr, err)
	}
	return conn, nil
}
