package handler

import (
	"net/http"

	"shopease-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	checkoutService service.CheckoutService
}

func NewAdminHandler(checkoutService service.CheckoutService) *AdminHandler {
	return &AdminHandler{
		checkoutService: checkoutService,
	}
}

// Orders returns all orders newest first plus revenue aggregates.
func (h *AdminHandler) Orders(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.checkoutService.AdminOrders(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
