package cmd

import (
	"fmt"

	"github.com/jmehdipour/superstore-dashboard/internal/config"
	"github.com/jmehdipour/superstore-dashboard/internal/dataset"
	"github.com/jmehdipour/superstore-dashboard/internal/db"
	"github.com/jmehdipour/superstore-dashboard/internal/logger"
	"github.com/jmehdipour/superstore-dashboard/internal/repository"
	"github.com/jmehdipour/superstore-dashboard/internal/service/report"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)
	return cfg, nil
}

// app holds the connections shared by serve, report and publish.
type app struct {
	cfg   config.Config
	rdb   *redis.Client // nil without redis.addr
	store *sqlx.DB      // nil for the xlsx source
	svc   *report.Service
}

func newApp(cfg config.Config, filter []string) (*app, error) {
	a := &app{cfg: cfg}

	rdb, err := db.NewRedisClient(db.RedisOpts{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	a.rdb = rdb

	var orders dataset.OrderSource
	switch cfg.Orders.Source {
	case config.SourceXLSX, "":
		orders = dataset.XLSXOrders{Path: cfg.Data.OrdersXLSX, Sheet: cfg.Data.OrdersSheet}
	default:
		store, err := db.OpenOrderStore(cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("order store: %w", err)
		}
		a.store = store
		orders = repository.NewOrdersRepository(store)
	}

	var cache repository.SnapshotCache
	// A filtered report is not the shared snapshot, so it bypasses the cache.
	if rdb != nil && len(filter) == 0 {
		cache = repository.NewSnapshotCache(rdb, cfg.Cache.Prefix, cfg.Cache.TTL)
	}

	a.svc = report.New(
		report.CSVCustomers{Path: cfg.Data.CustomersCSV},
		orders,
		cache,
		report.Options{
			HeadRows:     cfg.Data.HeadRows,
			TopCustomers: cfg.Data.TopCustomers,
			OrderFilter:  filter,
		},
	)

	logger.Log.Info("app ready",
		zap.String("orders_source", cfg.Orders.Source),
		zap.Bool("cache", cache != nil),
	)
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
}
