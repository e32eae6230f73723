package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jmehdipour/superstore-dashboard/internal/analytics"
	"github.com/jmehdipour/superstore-dashboard/internal/dataset"
	"github.com/jmehdipour/superstore-dashboard/internal/logger"
	"github.com/jmehdipour/superstore-dashboard/internal/metrics"
	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/jmehdipour/superstore-dashboard/internal/repository"
	"github.com/jmehdipour/superstore-dashboard/internal/util"
	"go.uber.org/zap"
)

// CustomerSource yields the customer table.
type CustomerSource interface {
	Customers(ctx context.Context) (*dataset.CustomerTable, error)
}

// CSVCustomers reads the customer CSV from disk on every call.
type CSVCustomers struct{ Path string }

func (c CSVCustomers) Customers(_ context.Context) (*dataset.CustomerTable, error) {
	return dataset.OpenCustomers(c.Path)
}

type Options struct {
	HeadRows     int
	TopCustomers int
	// OrderFilter limits revenue and profit to these sales orders when set.
	OrderFilter []string
}

// Service builds dashboard snapshots. Every section is computed on its own so
// one failing input does not hide the others.
type Service struct {
	customers CustomerSource
	orders    dataset.OrderSource
	cache     repository.SnapshotCache // optional
	opts      Options
	now       func() time.Time
}

// New constructs the report service. cache may be nil.
func New(customers CustomerSource, orders dataset.OrderSource, cache repository.SnapshotCache, opts Options) *Service {
	if opts.HeadRows <= 0 {
		opts.HeadRows = 5
	}
	if opts.TopCustomers <= 0 {
		opts.TopCustomers = analytics.DefaultTopCustomers
	}
	return &Service{
		customers: customers,
		orders:    orders,
		cache:     cache,
		opts:      opts,
		now:       time.Now,
	}
}

// Snapshot returns the cached snapshot when there is one, otherwise builds,
// caches and returns a fresh one.
func (s *Service) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	if s.cache != nil {
		snap, err := s.cache.Get(ctx)
		if err != nil {
			logger.Log.Warn("snapshot cache read failed", zap.Error(err))
		} else if snap != nil {
			metrics.SnapshotBuilds.WithLabelValues("cache").Inc()
			return snap, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh always rebuilds and overwrites the cache.
func (s *Service) Refresh(ctx context.Context) (*model.Snapshot, error) {
	snap, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, snap); err != nil {
			logger.Log.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	return snap, nil
}

// Invalidate drops the cached snapshot.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx)
}

// Build loads both inputs and computes every section. It only fails when the
// context is done; input problems are recorded per section.
func (s *Service) Build(ctx context.Context) (*model.Snapshot, error) {
	start := s.now()
	defer func() { metrics.SnapshotDuration.Observe(time.Since(start).Seconds()) }()

	snap := &model.Snapshot{
		ID:          util.NewID(),
		GeneratedAt: start.UTC(),
		Errors:      map[string]string{},
	}

	fail := func(section string, err error) {
		snap.Errors[section] = err.Error()
		metrics.SectionFailures.WithLabelValues(section).Inc()
		logger.Log.Warn("section failed", zap.String("section", section), zap.Error(err))
	}

	customers, cerr := s.customers.Customers(ctx)
	if cerr != nil {
		cerr = fmt.Errorf("load customers: %w", cerr)
		for _, sec := range []string{model.SectionOverview, model.SectionBestProduct, model.SectionDailyPurchases} {
			fail(sec, cerr)
		}
	} else {
		s.customerSections(snap, customers, fail)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	orders, oerr := s.orders.Orders(ctx)
	if oerr != nil {
		oerr = fmt.Errorf("load orders: %w", oerr)
		for _, sec := range []string{model.SectionTaxFreight, model.SectionBoughtTogether, model.SectionRevenueProfit, model.SectionTopCustomers} {
			fail(sec, oerr)
		}
	} else {
		s.orderSections(snap, orders, fail)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(snap.Errors) == 0 {
		snap.Errors = nil
	}
	metrics.SnapshotBuilds.WithLabelValues("build").Inc()
	logger.Log.Info("snapshot built",
		zap.String("id", snap.ID),
		zap.Int("failed_sections", len(snap.Errors)),
		zap.Duration("took", time.Since(start)),
	)
	return snap, nil
}

func (s *Service) customerSections(snap *model.Snapshot, t *dataset.CustomerTable, fail func(string, error)) {
	snap.Overview = &model.Overview{
		Rows:     t.Len(),
		Columns:  t.Columns(),
		Head:     t.Head(s.opts.HeadRows),
		Describe: t.Describe(),
	}

	best, totals, err := analytics.BestSellingProduct(t.Rows)
	if err != nil {
		fail(model.SectionBestProduct, err)
	} else {
		earned, err := analytics.AmountEarned(t.Rows, best)
		if err != nil {
			fail(model.SectionBestProduct, err)
		} else {
			snap.BestProduct = &model.BestProduct{
				Product:      best,
				Label:        best.Label(),
				Reason:       best.Reason(),
				AmountEarned: earned,
				Totals:       totals,
				ProductStats: dataset.DescribeSpend(t.Rows),
			}
		}
	}

	daily := analytics.DailyPurchases(t.Rows)
	busiest, err := analytics.BusiestDay(daily)
	if err != nil {
		fail(model.SectionDailyPurchases, err)
		return
	}
	snap.DailyPurchases = daily
	snap.BusiestDay = &busiest
}

func (s *Service) orderSections(snap *model.Snapshot, orders []model.SalesOrder, fail func(string, error)) {
	tax, freight, err := analytics.HighestTaxAndFreight(orders)
	if err != nil {
		fail(model.SectionTaxFreight, err)
	} else {
		snap.TaxFreight = &model.TaxFreight{HighestTaxProduct: tax, HighestFreightProduct: freight}
	}

	pair, err := analytics.BoughtTogether(orders)
	if err != nil {
		fail(model.SectionBoughtTogether, err)
	} else {
		snap.BoughtTogether = &pair
	}

	if len(orders) == 0 {
		fail(model.SectionRevenueProfit, analytics.ErrEmptyDataset)
		fail(model.SectionTopCustomers, analytics.ErrEmptyDataset)
		return
	}
	rp := analytics.RevenueAndProfit(orders, s.opts.OrderFilter)
	snap.RevenueProfit = &rp
	snap.TopCustomers = analytics.TopCustomers(orders, s.opts.TopCustomers)
}
