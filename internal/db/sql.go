package db

import (
	"context"
	"fmt"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmehdipour/superstore-dashboard/internal/config"
	"github.com/jmoiron/sqlx"
)

// Registered driver names.
const (
	DriverMySQL      = "mysql"
	DriverClickHouse = "clickhouse"
)

type SQLOpts struct {
	Driver          string // mysql | clickhouse
	DSN             string // e.g. clickhouse://default:@localhost:9000/dash?dial_timeout=5s
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration // default 5s
}

// OptsFromConfig maps a database section of the config to SQLOpts.
func OptsFromConfig(driver string, c config.DatabaseConfig) SQLOpts {
	return SQLOpts{
		Driver:          driver,
		DSN:             c.DSN,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		ConnMaxIdleTime: c.ConnMaxIdleTime,
		PingTimeout:     c.PingTimeout,
	}
}

// NewSQLConnection opens a *sqlx.DB with pool settings and verifies it with a ping.
func NewSQLConnection(opts SQLOpts) (*sqlx.DB, error) {
	if opts.Driver != DriverMySQL && opts.Driver != DriverClickHouse {
		return nil, fmt.Errorf("unsupported driver %q", opts.Driver)
	}
	if opts.DSN == "" {
		return nil, fmt.Errorf("empty %s DSN", opts.Driver)
	}
	db, err := sqlx.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Driver, err)
	}

	return db, nil
}

// OpenOrderStore connects to the database backing the configured order source.
func OpenOrderStore(cfg config.Config) (*sqlx.DB, error) {
	switch cfg.Orders.Source {
	case config.SourceMySQL:
		return NewSQLConnection(OptsFromConfig(DriverMySQL, cfg.MySQL))
	case config.SourceClickHouse:
		return NewSQLConnection(OptsFromConfig(DriverClickHouse, cfg.ClickHouse))
	default:
		return nil, fmt.Errorf("order source %q has no database", cfg.Orders.Source)
	}
}
