// Package query serves the REST and websocket read API over the flushed
// aggregate state, snapshots and the event mirror.
package query

import (
	"context"

	"go.uber.org/zap"

	"github.com/stelelabs/fundx/app/query/types"
	"github.com/stelelabs/fundx/pkg/db"
	"github.com/stelelabs/fundx/pkg/logging"
	"github.com/stelelabs/fundx/pkg/redis"
)

// Initialize builds the query application. Redis is optional: without it the
// API still serves, only the live websocket feed is disabled.
func Initialize(ctx context.Context) *types.App {
	logger, err := logging.New()
	if err != nil {
		panic(err)
	}

	database, err := db.New(ctx, logger)
	if err != nil {
		logger.Fatal("Unable to initialize ClickHouse", zap.Error(err))
	}

	redisClient, err := redis.NewClient(ctx, logger)
	if err != nil {
		logger.Warn("Redis unavailable, live event feed disabled", zap.Error(err))
		redisClient = nil
	}

	return &types.App{
		DB:          database,
		RedisClient: redisClient,
		Logger:      logger,
	}
}
