package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/stelelabs/fundx/app/indexer"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := indexer.Initialize(ctx)

	app.Start(ctx)
}
