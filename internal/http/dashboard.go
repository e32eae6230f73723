package http

import (
	"context"
	"net/http"

	"github.com/jmehdipour/superstore-dashboard/internal/chart"
	"github.com/jmehdipour/superstore-dashboard/internal/logger"
	"github.com/jmehdipour/superstore-dashboard/internal/model"
	echo "github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SnapshotService is what the handlers need from the report service.
type SnapshotService interface {
	Snapshot(ctx context.Context) (*model.Snapshot, error)
	Refresh(ctx context.Context) (*model.Snapshot, error)
}

func dashboardHandler(svc SnapshotService) echo.HandlerFunc {
	return func(c echo.Context) error {
		snap, err := svc.Snapshot(c.Request().Context())
		if err != nil {
			logger.Log.Error("dashboard snapshot failed", zap.Error(err))
			return c.String(http.StatusInternalServerError, "dashboard unavailable")
		}
		return c.Render(http.StatusOK, "dashboard.html", snap)
	}
}

func dailyChartHandler(svc SnapshotService) echo.HandlerFunc {
	return func(c echo.Context) error {
		snap, err := svc.Snapshot(c.Request().Context())
		if err != nil {
			logger.Log.Error("chart snapshot failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "snapshot failed"})
		}
		if snap.Failed(model.SectionDailyPurchases) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": snap.Errors[model.SectionDailyPurchases]})
		}

		c.Response().Header().Set(echo.HeaderContentType, "image/png")
		c.Response().Header().Set("Cache-Control", "no-cache")
		c.Response().WriteHeader(http.StatusOK)
		if err := chart.DailyPurchasesPNG(c.Response(), snap.DailyPurchases); err != nil {
			// headers are gone; the client sees a truncated image
			logger.Log.Error("chart render failed", zap.Error(err))
		}
		return nil
	}
}
