package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shopease-backend/internal/client"
	"shopease-backend/internal/dto"
	"shopease-backend/internal/model"
	"shopease-backend/internal/pricing"
	"shopease-backend/internal/repository"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCartEmpty          = errors.New("cart empty")
	ErrMissingDestination = errors.New("missing destination")
	ErrPaymentSession     = errors.New("payment session failed")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrMalformedEvent     = errors.New("malformed webhook event")
	ErrOrderNotFound      = errors.New("order not found")
)

const completedEventType = "checkout.session.completed"

type CheckoutService interface {
	// Quote is the client-facing estimate; InitiateSession recomputes the
	// same breakdown independently at session-creation time.
	Quote(ctx context.Context, sessionID, country, currency string) (*pricing.Breakdown, error)
	InitiateSession(ctx context.Context, sessionID, country, currency string) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
	OrderBySessionID(ctx context.Context, sessionID string) (*model.Order, error)
	OrderByID(ctx context.Context, id uint) (*model.Order, error)
	AdminOrders(ctx context.Context) (*dto.AdminOrdersResponse, error)
}

type checkoutServiceImpl struct {
	cartRepo         repository.CartRepository
	orderRepo        repository.OrderRepository
	webhookEventRepo repository.WebhookEventRepository
	gateway          client.PaymentGateway
	rates            client.RateProvider
	baseURL          string
	logger           *zap.Logger
}

func NewCheckoutService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	webhookEventRepo repository.WebhookEventRepository,
	gateway client.PaymentGateway,
	rates client.RateProvider,
	baseURL string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		cartRepo:         cartRepo,
		orderRepo:        orderRepo,
		webhookEventRepo: webhookEventRepo,
		gateway:          gateway,
		rates:            rates,
		baseURL:          baseURL,
		logger:           logger,
	}
}

func (s *checkoutServiceImpl) Quote(ctx context.Context, sessionID, country, currency string) (*pricing.Breakdown, error) {
	if country == "" || currency == "" {
		return nil, ErrMissingDestination
	}

	cart, err := s.cartRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, ErrCartEmpty
	}

	rate := s.rates.Rate(ctx, currency)
	breakdown := pricing.Quote(cartLines(cart), country, currency, rate)
	return &breakdown, nil
}

func (s *checkoutServiceImpl) InitiateSession(ctx context.Context, sessionID, country, currency string) (string, error) {
	if country == "" || currency == "" {
		return "", ErrMissingDestination
	}
	currency = strings.ToLower(currency)

	cart, err := s.cartRepo.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load cart: %w", err)
	}
	if cart.IsEmpty() {
		return "", ErrCartEmpty
	}

	rate := s.rates.Rate(ctx, currency)
	breakdown := pricing.Quote(cartLines(cart), country, currency, rate)

	items := make([]dto.CheckoutItem, 0, len(cart.Lines))
	lineItems := make([]client.CheckoutLineItem, 0, len(cart.Lines)+2)
	for _, line := range cart.Lines {
		unitPrice := pricing.ConvertUnitPrice(line.Price, rate)
		items = append(items, dto.CheckoutItem{
			Name:     line.Name,
			Price:    unitPrice,
			Quantity: line.Quantity,
		})
		lineItems = append(lineItems, client.CheckoutLineItem{
			Name:       line.Name,
			UnitAmount: pricing.MinorUnits(unitPrice),
			Quantity:   int64(line.Quantity),
		})
	}

	lineItems = append(lineItems, client.CheckoutLineItem{
		Name:       fmt.Sprintf("Shipping Fee (%s)", country),
		UnitAmount: pricing.MinorUnits(breakdown.ShippingFee),
		Quantity:   1,
	})
	if breakdown.Tax > 0 {
		lineItems = append(lineItems, client.CheckoutLineItem{
			Name:       "Tax",
			UnitAmount: pricing.MinorUnits(breakdown.Tax),
			Quantity:   1,
		})
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal items metadata: %w", err)
	}

	// The completion notification does not carry line details, so the whole
	// snapshot rides along as session metadata.
	resp, err := s.gateway.CreateCheckoutSession(ctx, &client.CreateSessionParams{
		LineItems:  lineItems,
		Currency:   currency,
		SuccessURL: s.baseURL + "/api/orders/confirm?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.baseURL + "/api/checkout/cancel",
		Metadata: map[string]string{
			"items":        string(itemsJSON),
			"user_country": country,
			"currency":     currency,
			"subtotal":     formatAmount(breakdown.Subtotal),
			"shippingFee":  formatAmount(breakdown.ShippingFee),
			"tax":          formatAmount(breakdown.Tax),
			"total":        formatAmount(breakdown.Total),
		},
	})
	if err != nil {
		s.logger.Error("create checkout session failed", zap.Error(err))
		return "", ErrPaymentSession
	}

	s.logger.Info("checkout session created",
		zap.String("session_id", resp.SessionID),
		zap.String("currency", currency),
		zap.Float64("total", breakdown.Total),
	)
	return resp.RedirectURL, nil
}

// HandleWebhook processes the provider's at-least-once completion
// notification. An error return maps to a 4xx/5xx at the boundary; a 5xx
// makes the provider redeliver, which is desired only for persistence
// failures.
func (s *checkoutServiceImpl) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.gateway.ParseEvent(payload, sigHeader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if string(event.Type) != completedEventType {
		s.logger.Debug("ignoring webhook event", zap.String("event_type", string(event.Type)))
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if sess.ID == "" {
		return fmt.Errorf("%w: missing session id", ErrMalformedEvent)
	}

	if event.ID != "" {
		seen, err := s.webhookEventRepo.Exists(ctx, event.ID)
		if err == nil && seen {
			s.logger.Info("webhook event already processed", zap.String("event_id", event.ID))
			return nil
		}
	}

	// Fast-path duplicate check; the unique index on session_id is the real
	// guarantee when two deliveries race past this read.
	if _, err := s.orderRepo.FindBySessionID(ctx, sess.ID); err == nil {
		s.logger.Info("order already exists, skipping duplicate webhook",
			zap.String("session_id", sess.ID))
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up existing order: %w", err)
	}

	order := s.orderFromSession(&sess)
	if err := s.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			s.logger.Info("concurrent duplicate webhook absorbed",
				zap.String("session_id", sess.ID))
			return nil
		}
		return fmt.Errorf("persist order: %w", err)
	}

	if event.ID != "" {
		if err := s.webhookEventRepo.MarkProcessed(ctx, event.ID, string(event.Type)); err != nil {
			s.logger.Warn("record webhook event failed", zap.String("event_id", event.ID), zap.Error(err))
		}
	}

	s.logger.Info("order saved",
		zap.Uint("order_id", order.ID),
		zap.String("session_id", order.SessionID),
		zap.String("currency", order.Currency),
		zap.Float64("total", order.Total),
	)
	return nil
}

// orderFromSession reconstructs the order from the metadata snapshot taken
// at session creation. Corrupt or missing fields degrade to zero values:
// the customer has already paid, so an incomplete record beats no record.
func (s *checkoutServiceImpl) orderFromSession(sess *stripe.CheckoutSession) *model.Order {
	var items []model.OrderItem
	if raw := sess.Metadata["items"]; raw != "" {
		var parsed []dto.CheckoutItem
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			s.logger.Warn("failed to parse items metadata, storing order without line details",
				zap.String("session_id", sess.ID), zap.Error(err))
		} else {
			for _, item := range parsed {
				items = append(items, model.OrderItem{
					Name:     item.Name,
					Quantity: item.Quantity,
					Price:    item.Price,
				})
			}
		}
	}

	currency := strings.ToLower(sess.Metadata["currency"])
	if currency == "" {
		currency = strings.ToLower(string(sess.Currency))
	}
	if currency == "" {
		currency = "usd"
	}

	subtotal := cleanAmount(sess.Metadata["subtotal"])
	shippingFee := cleanAmount(sess.Metadata["shippingFee"])
	tax := cleanAmount(sess.Metadata["tax"])
	total := cleanAmount(sess.Metadata["total"])
	if total == 0 {
		total = subtotal + shippingFee + tax
	}

	email := sess.CustomerEmail
	if email == "" && sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}

	paymentStatus := string(sess.PaymentStatus)
	if paymentStatus == "" {
		paymentStatus = "unpaid"
	}

	return &model.Order{
		SessionID:     sess.ID,
		CustomerEmail: email,
		Country:       sess.Metadata["user_country"],
		Currency:      currency,
		Subtotal:      subtotal,
		ShippingFee:   shippingFee,
		Tax:           tax,
		Total:         total,
		TotalUSD:      pricing.ToUSD(total, currency),
		PaymentStatus: paymentStatus,
		Items:         items,
	}
}

func (s *checkoutServiceImpl) OrderBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	order, err := s.orderRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *checkoutServiceImpl) OrderByID(ctx context.Context, id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *checkoutServiceImpl) AdminOrders(ctx context.Context) (*dto.AdminOrdersResponse, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	resp := &dto.AdminOrdersResponse{
		Orders:         orders,
		TotalOrders:    len(orders),
		CurrencyTotals: make(map[string]float64),
	}
	for _, order := range orders {
		resp.TotalRevenueUSD += order.TotalUSD
		currency := strings.ToLower(order.Currency)
		if currency == "" {
			currency = "usd"
		}
		resp.CurrencyTotals[currency] += order.Total
	}
	return resp, nil
}

func cartLines(cart *model.Cart) []pricing.Line {
	lines := make([]pricing.Line, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, pricing.Line{
			Name:         l.Name,
			UnitPriceUSD: l.Price,
			Quantity:     l.Quantity,
		})
	}
	return lines
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// cleanAmount strips everything but digits, dot and minus before parsing;
// unparseable metadata yields 0 rather than failing order creation.
func cleanAmount(v string) float64 {
	var b strings.Builder
	for _, r := range v {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}
