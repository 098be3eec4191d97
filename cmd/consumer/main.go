package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	consumercmd "github.com/louisbranch/eventwire/internal/cmd/consumer"
)

func main() {
	cfg, err := consumercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[CONSUMER] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumercmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
