package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmehdipour/superstore-dashboard/internal/config"
	"github.com/jmehdipour/superstore-dashboard/internal/db"
	"github.com/jmehdipour/superstore-dashboard/internal/kafka"
	"github.com/jmehdipour/superstore-dashboard/internal/logger"
	"github.com/jmehdipour/superstore-dashboard/internal/metrics"
	"github.com/jmehdipour/superstore-dashboard/internal/repository"
	"github.com/jmehdipour/superstore-dashboard/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Consume order events from Kafka into the order store",
	RunE:  runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is empty")
	}

	store, err := db.OpenOrderStore(cfg)
	if err != nil {
		return fmt.Errorf("order store: %w", err)
	}
	defer store.Close()

	rdb, err := db.NewRedisClient(db.RedisOpts{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	if err != nil {
		return fmt.Errorf("redis connect: %w", err)
	}

	consumer := kafka.NewConsumerFromConfig(kafka.ConfigFrom(cfg.Kafka))
	defer consumer.Close()

	w := worker.NewIngest(consumer, repository.NewOrdersRepository(store))
	if cfg.Ingest.BatchSize > 0 {
		w.BatchSize = cfg.Ingest.BatchSize
	}
	if cfg.Ingest.BatchWait > 0 {
		w.BatchWait = cfg.Ingest.BatchWait
	}
	if rdb != nil {
		defer rdb.Close()
		cache := repository.NewSnapshotCache(rdb, cfg.Cache.Prefix, cfg.Cache.TTL)
		w.OnFlush = func(ctx context.Context) {
			if err := cache.Delete(ctx); err != nil {
				logger.Log.Warn("ingest: snapshot invalidate failed", zap.Error(err))
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.Info("ingest started",
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", cfg.Kafka.GroupID),
		zap.String("store", cfg.Orders.Source),
		zap.Int("batch_size", w.BatchSize),
		zap.Duration("batch_wait", w.BatchWait),
	)
	return w.Run(ctx)
}
