package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const testHealthService = "eventwire.replication.v1.EventProducerService"

func startHealthServer(t *testing.T, status grpc_health_v1.HealthCheckResponse_ServingStatus) (string, *health.Server) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := gogrpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus(testHealthService, status)
	go server.Serve(listener)
	t.Cleanup(server.Stop)
	return listener.Addr().String(), healthServer
}

func dialPlain(t *testing.T, addr string) *gogrpc.ClientConn {
	t.Helper()
	conn, err := gogrpc.NewClient(addr, gogrpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWaitForHealthServing(t *testing.T) {
	addr, _ := startHealthServer(t, grpc_health_v1.HealthCheckResponse_SERVING)
	conn := dialPlain(t, addr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := WaitForHealth(ctx, conn, testHealthService, t.Logf); err != nil {
		t.Fatalf("wait for health: %v", err)
	}
}

func TestWaitForHealthObservesFlipToServing(t *testing.T) {
	addr, healthServer := startHealthServer(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	conn := dialPlain(t, addr)

	go func() {
		time.Sleep(100 * time.Millisecond)
		healthServer.SetServingStatus(testHealthService, grpc_health_v1.HealthCheckResponse_SERVING)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := WaitForHealth(ctx, conn, testHealthService, t.Logf); err != nil {
		t.Fatalf("wait for health after flip: %v", err)
	}
}

func TestWaitForHealthTimesOutWhileNotServing(t *testing.T) {
	addr, _ := startHealthServer(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	conn := dialPlain(t, addr)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := WaitForHealth(ctx, conn, testHealthService, nil); err == nil {
		t.Fatal("expected timeout while peer is not serving")
	}
}

func TestWaitForHealthRequiresConnection(t *testing.T) {
	if err := WaitForHealth(context.Background(), nil, "", nil); err == nil {
		t.Fatal("expected error for nil connection")
	}
}
