// cmd/dispatcher/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"notify-fanout/internal/common/config"
	"notify-fanout/internal/common/database"
	"notify-fanout/internal/common/logger"
	"notify-fanout/internal/feed"
	"notify-fanout/internal/pipeline"
	"notify-fanout/internal/push"
	"notify-fanout/internal/store"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting notification dispatcher",
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

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
	zapLog.Info("PostgreSQL connected")

	// --- Init Redis with retry ---
	var rds *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rds, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rds.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rds.Close()
	zapLog.Info("Redis connected")

	// --- Init SNS push gateway ---
	var pusher pipeline.PushSender = push.Disabled{}
	if cfg.Push.Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Push.AWSRegion))
		if err != nil {
			zapLog.Fatal("load AWS config failed", zap.Error(err))
		}
		pusher = push.NewDispatcher(sns.NewFromConfig(awsCfg), log)
	} else {
		zapLog.Info("push channel disabled, in-app records only")
	}

	// --- Wire the pipeline (singleton clients, injected once) ---
	var profileCache = rds.GetClient()
	if !cfg.Feed.ProfileCache.Enabled {
		profileCache = nil
	}
	chats := store.NewChatStore(pg.GetDB())
	profiles := store.NewProfileStore(
		pg.GetDB(),
		profileCache,
		time.Duration(cfg.Feed.ProfileCache.TTLSeconds)*time.Second,
		log,
	)
	records := store.NewNotificationStore(pg.GetDB())
	resolver := pipeline.NewResolver(chats, profiles, log)
	coordinator := pipeline.NewCoordinator(resolver, records, profiles, pusher, log)

	consumer := feed.NewConsumer(rds.GetClient(), feed.Config{
		Stream:    cfg.Feed.Stream,
		Group:     cfg.Feed.Group,
		Consumer:  cfg.Feed.Consumer,
		BatchSize: cfg.Feed.BatchSize,
		Block:     time.Duration(cfg.Feed.BlockMillis) * time.Millisecond,
	}, coordinator, log)

	// --- Metrics endpoint ---
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			zapLog.Info("metrics listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- consumer.Run(runCtx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		zapLog.Info("shutting down", zap.String("signal", s.String()))
		cancel()
		<-done
	case err := <-done:
		if err != nil && err != context.Canceled {
			zapLog.Error("feed consumer exited", zap.Error(err))
		}
	}

	zapLog.Info("dispatcher stopped")
}
