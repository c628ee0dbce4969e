package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmarochkin/keebshop/internal/logging"
	"github.com/dmarochkin/keebshop/internal/service"
)

type AnalyticsHTTP struct {
	Svc *service.AnalyticsService
}

func (h *AnalyticsHTTP) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "analytics.summary")

	summary, err := h.Svc.Summary(ctx)
	if err != nil {
		l.Error("analytics_summary_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot compute summary")
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHTTP) Monthly(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "analytics.monthly")

	points, err := h.Svc.Monthly(ctx)
	if err != nil {
		l.Error("analytics_monthly_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot compute monthly buckets")
	}

	return c.JSON(http.StatusOK, points)
}
