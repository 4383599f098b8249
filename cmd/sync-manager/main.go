// cmd/sync-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"finsync-workers/internal/common/config"
	"finsync-workers/internal/common/database"
	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/common/observability"
	"finsync-workers/internal/jobs/dispatch"
	"finsync-workers/internal/jobs/newssync"
	"finsync-workers/internal/jobs/pricesync"
	"finsync-workers/internal/providers/marketdata"
	"finsync-workers/internal/providers/newsapi"
	"finsync-workers/internal/push"
	"finsync-workers/internal/scheduler"
	"finsync-workers/internal/search"
	"finsync-workers/internal/store"
	"finsync-workers/internal/webhook"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting sync manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("sync-manager")
	defer obs.Shutdown()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch (optional) ---
	var newsIndexer *search.NewsIndexer
	if cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			// Search is supplementary; the sync pipeline runs without it.
			zapLog.Warn("elasticsearch unavailable, news search indexing disabled", zap.Error(err))
		} else {
			newsIndexer = search.NewNewsIndexer(esClient.Client, cfg.Database.Elasticsearch.NewsIndex, log)
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	// --- Init Stores ---
	users := store.NewUserStore(pg.GetDB())
	prices := store.NewPriceStore(pg.GetDB())
	news := store.NewNewsStore(pg.GetDB())
	sessions := store.NewSessionStore(pg.GetDB())
	subscriptions := store.NewSubscriptionStore(pg.GetDB())
	syncStatus := store.NewSyncStatusStore(pg.GetDB())

	// --- Init Providers ---
	quotes := marketdata.NewClient(cfg.Providers.MarketData, rdb.GetClient(), log)
	newsProvider := newsapi.NewClient(cfg.Providers.News, log)

	// --- Init Push Delivery ---
	var pusher push.Pusher = push.NopPusher{}
	if cfg.Push.Enabled {
		snsPusher, err := push.NewSNSPusher(ctx, cfg.Push.AWSRegion, log)
		if err != nil {
			zapLog.Fatal("sns pusher init failed", zap.Error(err))
		}
		pusher = snsPusher
	} else {
		zapLog.Warn("push delivery disabled, notifications will be dropped")
	}

	// --- Build Jobs ---
	priceSyncJob := pricesync.New(
		&pricesync.Config{
			WatchedCrypto: cfg.Jobs.WatchedCrypto,
			WatchedStocks: cfg.Jobs.WatchedStocks,
		},
		quotes, prices, syncStatus, log,
	)

	newsSyncJob := newssync.New(
		&newssync.Config{Categories: cfg.Providers.News.Categories},
		newsProvider, news, indexerOrNil(newsIndexer), syncStatus, log,
	)

	welcomeJob := dispatch.NewWelcomeJob(
		&dispatch.WelcomeConfig{BatchSize: 100},
		sessions, pusher, users, log,
	)

	digestJob := dispatch.NewDigestJob(
		&dispatch.DigestConfig{Window: cfg.Jobs.NewsDigest.Interval},
		news, users, pusher, log,
	)

	alertsJob := dispatch.NewAlertsJob(
		&dispatch.AlertsConfig{
			ThresholdPercent: 5.0,
			SendDelay:        time.Second,
			WatchedSymbols:   append(append([]string{}, cfg.Jobs.WatchedCrypto...), cfg.Jobs.WatchedStocks...),
		},
		users, prices, pusher, log,
	)

	// --- Start Schedulers ---
	var wg sync.WaitGroup
	schedule := func(job scheduler.Job, jobCfg config.JobConfig) {
		if !jobCfg.Enabled {
			zapLog.Info("job disabled, not scheduling", zap.String("job", job.Name()))
			return
		}
		s := scheduler.New(job, jobCfg, rdb.GetClient(), obs, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Start(ctx)
		}()
	}

	schedule(priceSyncJob, cfg.Jobs.PriceSync)
	schedule(newsSyncJob, cfg.Jobs.NewsSync)
	schedule(welcomeJob, cfg.Jobs.Welcome)
	schedule(digestJob, cfg.Jobs.NewsDigest)
	schedule(alertsJob, cfg.Jobs.PriceAlerts)

	// --- Webhook Ingress ---
	webhookHandler, err := webhook.NewHandler(cfg.Webhook.SharedSecret, subscriptions, log)
	if err != nil {
		zapLog.Fatal("webhook handler init failed", zap.Error(err))
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Mount("/webhooks", webhookHandler.Routes())

	httpServer := &http.Server{
		Addr:    cfg.App.HTTPAddr,
		Handler: router,
	}
	go func() {
		zapLog.Info("webhook server listening", zap.String("addr", cfg.App.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("webhook server failed", zap.Error(err))
		}
	}()

	// --- Metrics Endpoint ---
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("metrics server listening", zap.String("addr", cfg.App.MetricsAddr))
		if err := http.ListenAndServe(cfg.App.MetricsAddr, nil); err != nil {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	// --- Wait for Shutdown Signal ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping jobs...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("webhook server shutdown failed", zap.Error(err))
	}

	wg.Wait()
	zapLog.Info("Sync manager stopped")
}

// indexerOrNil keeps a disabled indexer as a typed nil interface check
// inside the job rather than a non-nil interface holding a nil pointer.
func indexerOrNil(idx *search.NewsIndexer) newssync.Indexer {
	if idx == nil {
		return nil
	}
	return idx
}
