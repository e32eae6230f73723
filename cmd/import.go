package cmd

import (
	"context"
	"fmt"

	"github.com/jmehdipour/superstore-dashboard/internal/config"
	"github.com/jmehdipour/superstore-dashboard/internal/dataset"
	"github.com/jmehdipour/superstore-dashboard/internal/db"
	"github.com/jmehdipour/superstore-dashboard/internal/kafka"
	"github.com/jmehdipour/superstore-dashboard/internal/logger"
	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/jmehdipour/superstore-dashboard/internal/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importFile  string
	importSheet string
	importTo    string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the sales order spreadsheet into the order store or onto Kafka",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if importFile == "" {
			importFile = cfg.Data.OrdersXLSX
		}
		if importSheet == "" {
			importSheet = cfg.Data.OrdersSheet
		}

		orders, err := dataset.XLSXOrders{Path: importFile, Sheet: importSheet}.Orders(cmd.Context())
		if err != nil {
			return err
		}
		logger.Log.Info("spreadsheet loaded", zap.String("file", importFile), zap.Int("orders", len(orders)))

		switch importTo {
		case "kafka":
			return importToKafka(cmd.Context(), cfg, orders)
		case "store":
			return importToStore(cmd.Context(), cfg, orders)
		default:
			return fmt.Errorf("import: --to must be store or kafka, got %q", importTo)
		}
	},
}

func importToStore(ctx context.Context, cfg config.Config, orders []model.SalesOrder) error {
	store, err := db.OpenOrderStore(cfg)
	if err != nil {
		return fmt.Errorf("order store: %w", err)
	}
	defer store.Close()

	repo := repository.NewOrdersRepository(store)
	size := cfg.Ingest.BatchSize
	if size <= 0 {
		size = 500
	}
	for start := 0; start < len(orders); start += size {
		end := min(start+size, len(orders))
		if err := repo.InsertBatch(ctx, nil, orders[start:end]); err != nil {
			return fmt.Errorf("insert orders %d-%d: %w", start+1, end, err)
		}
	}

	invalidateSnapshot(ctx, cfg)
	logger.Log.Info("import complete", zap.String("store", cfg.Orders.Source), zap.Int("orders", len(orders)))
	return nil
}

func importToKafka(ctx context.Context, cfg config.Config, orders []model.SalesOrder) error {
	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("import: kafka.brokers is empty")
	}
	p := kafka.NewProducerFromConfig(kafka.ConfigFrom(cfg.Kafka))
	defer p.Close()

	sent, err := p.PublishOrders(ctx, orders, cfg.Ingest.BatchSize)
	if err != nil {
		return fmt.Errorf("publish orders (sent %d): %w", sent, err)
	}
	logger.Log.Info("import published", zap.String("topic", cfg.Kafka.Topic), zap.Int("orders", sent))
	return nil
}

// invalidateSnapshot drops the cached snapshot so the next request sees the
// new orders. Failures only log.
func invalidateSnapshot(ctx context.Context, cfg config.Config) {
	rdb, err := db.NewRedisClient(db.RedisOpts{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	if err != nil {
		logger.Log.Warn("redis connect failed, cached snapshot kept", zap.Error(err))
		return
	}
	if rdb == nil {
		return
	}
	defer rdb.Close()

	if err := repository.NewSnapshotCache(rdb, cfg.Cache.Prefix, cfg.Cache.TTL).Delete(ctx); err != nil {
		logger.Log.Warn("snapshot invalidate failed", zap.Error(err))
	}
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "spreadsheet path (default: data.orders_xlsx)")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "sheet name (default: data.orders_sheet, else first sheet)")
	importCmd.Flags().StringVar(&importTo, "to", "store", "destination: store|kafka")
}
