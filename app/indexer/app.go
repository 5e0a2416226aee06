// Package indexer wires the event-indexing service: Redis stream in, reducer
// engine in the middle, ClickHouse mirrors/snapshots out, with a cron-driven
// aggregate flush.
package indexer

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/stelelabs/fundx/pkg/db"
	"github.com/stelelabs/fundx/pkg/engine"
	"github.com/stelelabs/fundx/pkg/event"
	"github.com/stelelabs/fundx/pkg/logging"
	"github.com/stelelabs/fundx/pkg/metadata"
	"github.com/stelelabs/fundx/pkg/redis"
	"github.com/stelelabs/fundx/pkg/store"
	"github.com/stelelabs/fundx/pkg/utils"
)

type App struct {
	Logger   *zap.Logger
	DB       *db.DB
	Redis    *redis.Client
	Store    *store.Memory
	Engine   *engine.Engine
	Consumer *redis.Consumer
	Cron     *cron.Cron
}

// Initialize builds the fully wired indexer application.
func Initialize(ctx context.Context) *App {
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
		logger.Fatal("Unable to connect to Redis", zap.Error(err))
	}

	st := store.NewMemory()
	resolver := metadata.NewCache(
		metadata.NewRedisResolver(redisClient.GetClient(), logger.Named("metadata")))
	publisher := redis.NewPublisher(redisClient, logger.Named("publisher"))

	eng := engine.New(logger.Named("engine"), st, resolver, database, database, publisher)

	consumerName := utils.Env("CONSUMER_NAME", "")
	if consumerName == "" {
		host, _ := os.Hostname()
		consumerName = "indexer-" + host
	}
	consumer, err := redis.NewConsumer(ctx, redisClient, logger.Named("consumer"),
		utils.Env("EVENT_STREAM", redis.DefaultEventStream),
		utils.Env("CONSUMER_GROUP", redis.DefaultConsumerGroup),
		consumerName)
	if err != nil {
		logger.Fatal("Unable to create stream consumer", zap.Error(err))
	}

	app := &App{
		Logger:   logger,
		DB:       database,
		Redis:    redisClient,
		Store:    st,
		Engine:   eng,
		Consumer: consumer,
	}

	if err := app.setupScheduler(ctx, utils.Env("FLUSH_CRON", "0 * * * * *")); err != nil {
		logger.Fatal("Unable to schedule aggregate flush", zap.Error(err))
	}

	return app
}

// setupScheduler schedules the periodic aggregate flush. The cron spec uses
// an optional seconds field; the default flushes once a minute.
func (a *App) setupScheduler(ctx context.Context, cronSpec string) error {
	clog := cronLogger{a.Logger.Named("cron").Sugar()}
	a.Cron = cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(clog)))

	_, err := a.Cron.AddFunc(cronSpec, func() {
		fctx, cancel := context.WithTimeout(ctx, 55*time.Second)
		defer cancel()
		if err := a.DB.FlushAggregates(fctx, a.Store); err != nil {
			a.Logger.Error("Aggregate flush failed", zap.Error(err))
		}
	})
	return err
}

// Start runs the consumer loop until the context is canceled, then drains:
// stop the cron, flush once more so ClickHouse holds the final state, close
// connections.
func (a *App) Start(ctx context.Context) {
	a.Cron.Start()

	err := a.Consumer.Run(ctx, func(ctx context.Context, ev *event.Event) error {
		return a.Engine.Apply(ctx, ev)
	})
	if err != nil && ctx.Err() == nil {
		a.Logger.Error("Consumer stopped unexpectedly", zap.Error(err))
	}

	a.Stop()
}

func (a *App) Stop() {
	<-a.Cron.Stop().Done()

	flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.DB.FlushAggregates(flushCtx, a.Store); err != nil {
		a.Logger.Error("Final aggregate flush failed", zap.Error(err))
	}

	if err := a.Redis.Close(); err != nil {
		a.Logger.Error("Failed to close Redis connection", zap.Error(err))
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Failed to close ClickHouse connection", zap.Error(err))
	}
	a.Logger.Info("Indexer stopped")
}

// cronLogger adapts zap to the cron logger interface.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
