package grpc

import (
	"context"
	"fmt"
	"time"

	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const healthRetryMax = time.Second

// WaitForHealth blocks until the peer's health endpoint reports SERVING
// for the named service or the context ends. It subscribes to the
// health Watch stream, so a peer flipping to SERVING is observed
// immediately instead of on the next poll; broken watch streams are
// re-established with a growing delay.
func WaitForHealth(ctx context.Context, conn *gogrpc.ClientConn, service string, logf func(string, ...any)) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := grpc_health_v1.NewHealthClient(conn)
	retry := 100 * time.Millisecond
	for {
		err := watchUntilServing(ctx, client, service, logf)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("wait for health of %q: %w", service, ctx.Err())
		}
		if logf != nil {
			logf("health watch of %q: %v", service, err)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for health of %q: %w", service, ctx.Err())
		case <-time.After(retry):
		}
		if retry < healthRetryMax {
			retry *= 2
		}
	}
}

// watchUntilServing consumes one health Watch stream until the service
// reports SERVING or the stream breaks.
func watchUntilServing(ctx context.Context, client grpc_health_v1.HealthClient, service string, logf func(string, ...any)) error {
	stream, err := client.Watch(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return err
	}
	for {
		response, err := stream.Recv()
		if err != nil {
			return err
		}
		status := response.GetStatus()
		if status == grpc_health_v1.HealthCheckResponse_SERVING {
			if logf != nil {
				logf("peer health of %q is SERVING", service)
			}
			return nil
		}
		if logf != nil {
			logf("waiting for peer health of %q: %s", service, status)
		}
	}
}
