package handler

import (
	"errors"
	"net/http"

	"shopease-backend/internal/dto"
	"shopease-backend/internal/middleware"
	"shopease-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.Get(ctx, middleware.SessionID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.CartResponse{
		Cart:      cart.Lines,
		Subtotal:  cart.Subtotal(),
		ItemCount: len(cart.Lines),
	})
}

func (h *CartHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.Add(ctx, middleware.SessionID(c), c.Param("id"))
	if err != nil {
		return cartError(err)
	}

	return c.JSON(http.StatusOK, &dto.CartMutationResponse{
		Success: true,
		Count:   len(cart.Lines),
	})
}

func (h *CartHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	line, err := h.cartService.UpdateQuantity(ctx, middleware.SessionID(c), c.Param("id"), req.Change)
	if err != nil {
		return cartError(err)
	}

	return c.JSON(http.StatusOK, &dto.CartMutationResponse{
		Success:  true,
		Quantity: line.Quantity,
	})
}

func (h *CartHandler) Remove(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.Remove(ctx, middleware.SessionID(c), c.Param("id"))
	if err != nil {
		return cartError(err)
	}

	return c.JSON(http.StatusOK, &dto.CartMutationResponse{
		Success: true,
		Count:   len(cart.Lines),
	})
}

func cartError(err error) error {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrLineNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "item not found in cart")
	case errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrQuantityTooLow):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
