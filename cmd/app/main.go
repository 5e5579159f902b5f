package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/staybook/config"
	"github.com/Domenick1991/staybook/internal/bootstrap"
	"github.com/Domenick1991/staybook/internal/cache"
	"github.com/Domenick1991/staybook/internal/kafka"
	"github.com/Domenick1991/staybook/internal/payment"
	"github.com/Domenick1991/staybook/internal/rentapi"
	"github.com/Domenick1991/staybook/internal/repository"
	"github.com/Domenick1991/staybook/internal/service/auth"
	"github.com/Domenick1991/staybook/internal/service/booking"
	"github.com/Domenick1991/staybook/internal/service/catalog"
	"github.com/Domenick1991/staybook/internal/service/console"
	"github.com/Domenick1991/staybook/internal/service/reviews"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Session.CatalogCacheSeconds)*time.Second,
		time.Duration(cfg.Session.TTLHours)*time.Hour,
	)
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		log.Printf("WARNING: kafka unavailable, attempt events will be dropped: %v", err)
	}

	client := rentapi.New(cfg.API.BaseURL, cfg.API.Timeout())
	gateway := payment.NewGateway(cfg.Payment.Key, cfg.Payment.Currency)

	reviewGate := reviews.NewReviewGate(client)
	flowService := booking.NewFlowService(
		client,
		gateway,
		producer,
		booking.WithEventsTopic(cfg.Kafka.AttemptsTopic),
		booking.WithOrderLocks(redisCache, time.Duration(cfg.Session.OrderLockMinutes)*time.Minute),
		booking.WithEligibilityChecker(reviewGate),
	)
	defer flowService.Close()

	consoleService := console.NewConsoleService(client, repository.NewPaymentIssueRepository(pool))

	go sweepAttempts(ctx, flowService, gateway, cfg.Worker)

	err = bootstrap.Run(ctx, cfg, bootstrap.Services{
		Auth:    auth.NewAuthService(client, redisCache, reviewGate),
		Catalog: catalog.NewCatalogService(client, redisCache),
		Reviews: reviewGate,
		Booking: flowService,
		Guest:   consoleService,
		Host:    consoleService,
		Admin:   consoleService,
	})
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func sweepAttempts(ctx context.Context, flow *booking.FlowService, gateway *payment.Gateway, cfg config.WorkerConfig) {
	ticker := time.NewTicker(time.Duration(cfg.AttemptSweepMinutes) * time.Minute)
	defer ticker.Stop()

	retention := time.Duration(cfg.AttemptRetentionMinutes) * time.Minute
	for {
		select {
		case <-ticker.C:
			if removed := flow.Sweep(time.Now().Add(-retention)); removed > 0 {
				log.Printf("swept %d idle attempts, %d checkouts open", removed, gateway.Pending())
			}
		case <-ctx.Done():
			return
		}
	}
}
