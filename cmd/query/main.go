package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/stelelabs/fundx/app/query"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := query.Initialize(ctx)

	if err := query.NewServer(app); err != nil {
		app.Logger.Fatal("Unable to initialize server", zap.Error(err))
	}

	app.Start(ctx)
}
