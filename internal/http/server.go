package http

import (
	"context"
	"net/http"
	"time"

	"github.com/jmehdipour/superstore-dashboard/internal/config"
	"github.com/jmehdipour/superstore-dashboard/internal/http/middleware"
	"github.com/jmehdipour/superstore-dashboard/internal/logger"
	"github.com/jmehdipour/superstore-dashboard/internal/metrics"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	e   *echo.Echo
	cfg config.HTTPConfig
}

// NewServer wires routes over the snapshot service. rds may be nil, which
// disables rate limiting.
func NewServer(cfg config.Config, svc SnapshotService, rds *redis.Client) (*Server, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = r
	e.Logger.SetLevel(gommonLevel(cfg.Log.Level))
	e.Use(echoMid.Recover(), echoMid.Logger(), middleware.RequestMetrics())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      cfg.Cache.Prefix + "rl:ip:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	e.GET("/", dashboardHandler(svc), rlMW)
	e.GET("/charts/daily-purchases.png", dailyChartHandler(svc), rlMW)

	v1 := e.Group("/api/v1", rlMW)
	v1.GET("/report", reportHandler(svc))
	v1.POST("/report/refresh", refreshHandler(svc))
	v1.GET("/overview", overviewHandler(svc))

	return &Server{e: e, cfg: cfg.HTTP}, nil
}

func gommonLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

func (s *Server) Start(addr string) error {
	s.e.Server.ReadTimeout = s.cfg.ReadTimeout
	s.e.Server.WriteTimeout = s.cfg.WriteTimeout
	logger.Log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

// ServeHTTP lets tests drive the router directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.e.ServeHTTP(w, r) }
