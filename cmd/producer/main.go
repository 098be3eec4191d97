package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	producercmd "github.com/louisbranch/eventwire/internal/cmd/producer"
)

func main() {
	cfg, err := producercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[PRODUCER] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := producercmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
