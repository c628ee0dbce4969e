package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmarochkin/keebshop/internal/logging"
	"github.com/dmarochkin/keebshop/internal/service"
	"github.com/dmarochkin/keebshop/internal/transport"
)

type CheckoutHTTP struct {
	Svc *service.CheckoutService
}

func (h *CheckoutHTTP) CreateIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.create_intent")

	userID, err := GetID(c)
	if err != nil {
		l.Error("create_intent_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	intent, err := h.Svc.CreateIntent(ctx, userID)
	if err != nil {
		l.Warn("create_intent_error", "error", err)
		return serviceHTTPError(err)
	}

	l.Info("create_intent_success", "intent_id", intent.ID, "amount", intent.Amount)
	return c.JSON(http.StatusCreated, transport.CreateIntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
	})
}

func (h *CheckoutHTTP) Complete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.complete")

	userID, err := GetID(c)
	if err != nil {
		l.Error("complete_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CompleteCheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("complete_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Complete(ctx, userID, req.Email, req.PaymentIntentID)
	if err != nil {
		l.Warn("complete_error", "intent_id", req.PaymentIntentID, "error", err)
		return serviceHTTPError(err)
	}

	l.Info("complete_success", "order_id", order.ID, "total_amount", order.TotalAmount)
	return c.JSON(http.StatusCreated, order)
}
