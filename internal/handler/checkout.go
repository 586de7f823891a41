package handler

import (
	"errors"
	"io"
	"net/http"

	"shopease-backend/internal/dto"
	"shopease-backend/internal/middleware"
	"shopease-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// Quote returns the display-side pricing estimate for the current cart.
func (h *CheckoutHandler) Quote(c echo.Context) error {
	ctx := c.Request().Context()

	breakdown, err := h.checkoutService.Quote(ctx,
		middleware.SessionID(c),
		c.QueryParam("country"),
		c.QueryParam("currency"),
	)
	if err != nil {
		return checkoutError(err)
	}

	return c.JSON(http.StatusOK, breakdown)
}

func (h *CheckoutHandler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	url, err := h.checkoutService.InitiateSession(ctx,
		middleware.SessionID(c), req.Country, req.Currency)
	if err != nil {
		return checkoutError(err)
	}

	return c.JSON(http.StatusOK, &dto.CheckoutResponse{URL: url})
}

// Webhook receives the provider's signed completion notification. The body
// must stay raw for signature verification.
func (h *CheckoutHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable payload")
	}

	sigHeader := c.Request().Header.Get("Stripe-Signature")
	if err := h.checkoutService.HandleWebhook(ctx, payload, sigHeader); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignature),
			errors.Is(err, service.ErrMalformedEvent):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid webhook")
		default:
			// 5xx tells the provider to redeliver
			return err
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "received"})
}

func (h *CheckoutHandler) Cancel(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}

func checkoutError(err error) error {
	switch {
	case errors.Is(err, service.ErrCartEmpty):
		return echo.NewHTTPError(http.StatusBadRequest, "cart is empty or invalid")
	case errors.Is(err, service.ErrMissingDestination):
		return echo.NewHTTPError(http.StatusBadRequest, "country and currency are required")
	case errors.Is(err, service.ErrPaymentSession):
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create checkout session")
	default:
		return err
	}
}
