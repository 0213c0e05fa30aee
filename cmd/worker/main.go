package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/webtolk/amocrm-radicalmart/internal/bootstrap"
	"github.com/webtolk/amocrm-radicalmart/internal/leadsync"
	"github.com/webtolk/amocrm-radicalmart/pkg/config"
	"github.com/webtolk/amocrm-radicalmart/pkg/db"
	"github.com/webtolk/amocrm-radicalmart/pkg/idempotency"
	"github.com/webtolk/amocrm-radicalmart/pkg/logger"
	"github.com/webtolk/amocrm-radicalmart/pkg/pubsub"
	"github.com/webtolk/amocrm-radicalmart/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "orders-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "orders-worker"

	logg = logger.New(logger.Options{
		ServiceName: "orders-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	redisClient, err := redis.New(ctx, cfg.Redis)
	requireResource(ctx, logg, "redis", err)

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)

	registry := prometheus.NewRegistry()
	components, err := bootstrap.NewComponents(cfg, logg, dbClient.DB(), registry)
	requireResource(ctx, logg, "lead sync", err)

	manager, err := idempotency.NewManager(redisClient, cfg.Eventing.IdempotencyTTL)
	requireResource(ctx, logg, "idempotency", err)

	subscription := pubsubClient.OrdersSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "orders subscription", errors.New("orders subscription not configured"))
	}
	consumer, err := leadsync.NewConsumer(components.Sync, subscription, manager, logg)
	requireResource(ctx, logg, "orders consumer", err)

	svc, err := NewService(ServiceParams{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		PubSub:   pubsubClient,
		Consumer: consumer,
		Gatherer: registry,
	})
	requireResource(ctx, logg, "worker service", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"serviceKind": cfg.Service.Kind,
		"env":         cfg.App.Env,
	})
	logg.Info(runCtx, "orders worker ready")

	runErr := svc.Run(runCtx)
	if err := svc.Close(); err != nil {
		logg.Error(runCtx, "worker shutdown incomplete", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logg.Error(runCtx, "orders worker not working", runErr)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
