package handler

import (
	"errors"
	"net/http"
	"strconv"

	"shopease-backend/internal/middleware"
	"shopease-backend/internal/model"
	"shopease-backend/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type OrderHandler struct {
	checkoutService service.CheckoutService
	cartService     service.CartService
	logger          *zap.Logger
}

func NewOrderHandler(checkoutService service.CheckoutService, cartService service.CartService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		cartService:     cartService,
		logger:          logger,
	}
}

// Confirm is the post-payment read model, looked up by provider session id
// or internal order id. Finding the order is what clears the cart.
func (h *OrderHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.lookup(c)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return err
	}

	if sessionID := middleware.SessionID(c); sessionID != "" {
		if err := h.cartService.Clear(ctx, sessionID); err != nil {
			h.logger.Warn("clear cart after confirmation failed",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) lookup(c echo.Context) (*model.Order, error) {
	ctx := c.Request().Context()

	if sessionID := c.QueryParam("session_id"); sessionID != "" {
		return h.checkoutService.OrderBySessionID(ctx, sessionID)
	}
	if rawID := c.QueryParam("id"); rawID != "" {
		id, err := strconv.ParseUint(rawID, 10, 32)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
		}
		return h.checkoutService.OrderByID(ctx, uint(id))
	}
	return nil, echo.NewHTTPError(http.StatusBadRequest, "missing session_id or id")
}
