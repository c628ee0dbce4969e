package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmarochkin/keebshop/internal/logging"
	"github.com/dmarochkin/keebshop/internal/service"
	"github.com/dmarochkin/keebshop/internal/transport"
)

type ProfileHTTP struct {
	Svc *service.ProfileService
}

func (h *ProfileHTTP) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.get")

	userID, err := GetID(c)
	if err != nil {
		l.Error("get_profile_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.Svc.Get(ctx, userID)
	if err != nil {
		l.Error("get_profile_error", "error", err)
		return serviceHTTPError(err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *ProfileHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.update")

	userID, err := GetID(c)
	if err != nil {
		l.Error("update_profile_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_profile_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Update(ctx, userID, req)
	if err != nil {
		l.Warn("update_profile_error", "error", err)
		return serviceHTTPError(err)
	}

	l.Info("update_profile_success", "user_id", userID)
	return c.JSON(http.StatusOK, user)
}
