package http

import (
	"net/http"

	"github.com/jmehdipour/superstore-dashboard/internal/logger"
	"github.com/jmehdipour/superstore-dashboard/internal/model"
	echo "github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func reportHandler(svc SnapshotService) echo.HandlerFunc {
	return func(c echo.Context) error {
		snap, err := svc.Snapshot(c.Request().Context())
		if err != nil {
			logger.Log.Error("report snapshot failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "snapshot failed"})
		}
		return c.JSON(http.StatusOK, snap)
	}
}

func refreshHandler(svc SnapshotService) echo.HandlerFunc {
	return func(c echo.Context) error {
		snap, err := svc.Refresh(c.Request().Context())
		if err != nil {
			logger.Log.Error("report refresh failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "refresh failed"})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"refreshed":       true,
			"id":              snap.ID,
			"generated_at":    snap.GeneratedAt,
			"failed_sections": len(snap.Errors),
		})
	}
}

func overviewHandler(svc SnapshotService) echo.HandlerFunc {
	return func(c echo.Context) error {
		snap, err := svc.Snapshot(c.Request().Context())
		if err != nil {
			logger.Log.Error("overview snapshot failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "snapshot failed"})
		}
		if snap.Overview == nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": snap.Errors[model.SectionOverview]})
		}
		return c.JSON(http.StatusOK, snap.Overview)
	}
}
