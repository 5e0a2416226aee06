package types

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/db"
	"github.com/stelelabs/fundx/pkg/redis"
)

type App struct {
	DB          *db.DB
	RedisClient *redis.Client
	Logger      *zap.Logger
	// Server handles incoming client requests.
	Server *http.Server
}

// Start starts the HTTP server and blocks until the context is canceled,
// then shuts down gracefully.
func (a *App) Start(ctx context.Context) {
	go func() { _ = a.Server.ListenAndServe() }()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Failed to close ClickHouse connection", zap.Error(err))
	}
	a.Logger.Info("Query service stopped")
}
