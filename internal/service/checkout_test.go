package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"shopease-backend/internal/client"
	"shopease-backend/internal/model"

	"github.com/stripe/stripe-go/v80"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCheckoutService(cartRepo *mockCartRepo, orderRepo *mockOrderRepo, events *mockWebhookEventRepo, gw *mockGateway, rate float64) CheckoutService {
	return NewCheckoutService(
		cartRepo, orderRepo, events, gw,
		&mockRates{rate: rate},
		"http://localhost:8080",
		zap.NewNop(),
	)
}

func seedCart(t *testing.T, repo *mockCartRepo, sessionID string, lines ...model.CartLine) {
	t.Helper()
	require.NoError(t, repo.Save(context.Background(), &model.Cart{
		SessionID: sessionID,
		Lines:     lines,
	}))
}

func completedEvent(t *testing.T, eventID, sessionID string, metadata map[string]string) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"id":             sessionID,
		"customer_email": "shopper@example.com",
		"payment_status": "paid",
		"currency":       "usd",
		"metadata":       metadata,
	})
	require.NoError(t, err)
	return stripe.Event{
		ID:   eventID,
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: raw},
	}
}

func orderMetadata(t *testing.T) map[string]string {
	t.Helper()
	items, err := json.Marshal([]map[string]interface{}{
		{"name": "Wireless Headphones", "price": 100.0, "quantity": 1},
	})
	require.NoError(t, err)
	return map[string]string{
		"items":        string(items),
		"user_country": "US",
		"currency":     "usd",
		"subtotal":     "100.00",
		"shippingFee":  "8.00",
		"tax":          "8.88",
		"total":        "116.88",
	}
}

func TestInitiateSession_EmptyCart(t *testing.T) {
	svc := newCheckoutService(newMockCartRepo(), newMockOrderRepo(), newMockWebhookEventRepo(), &mockGateway{}, 1)

	_, err := svc.InitiateSession(context.Background(), "sess-1", "US", "usd")

	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestInitiateSession_MissingDestination(t *testing.T) {
	cartRepo := newMockCartRepo()
	seedCart(t, cartRepo, "sess-1", model.CartLine{ProductID: "p1", Name: "Widget", Price: 100, Quantity: 1})
	svc := newCheckoutService(cartRepo, newMockOrderRepo(), newMockWebhookEventRepo(), &mockGateway{}, 1)

	_, err := svc.InitiateSession(context.Background(), "sess-1", "", "usd")
	assert.ErrorIs(t, err, ErrMissingDestination)

	_, err = svc.InitiateSession(context.Background(), "sess-1", "US", "")
	assert.ErrorIs(t, err, ErrMissingDestination)
}

func TestInitiateSession_BuildsMinorUnitLineItemsAndMetadata(t *testing.T) {
	cartRepo := newMockCartRepo()
	seedCart(t, cartRepo, "sess-1", model.CartLine{ProductID: "p1", Name: "Wireless Headphones", Price: 100, Quantity: 1})
	gw := &mockGateway{createResp: &client.CreateSessionResponse{SessionID: "cs_123", RedirectURL: "https://pay.example/cs_123"}}
	svc := newCheckoutService(cartRepo, newMockOrderRepo(), newMockWebhookEventRepo(), gw, 1)

	url, err := svc.InitiateSession(context.Background(), "sess-1", "US", "usd")

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_123", url)

	require.NotNil(t, gw.lastParams)
	require.Len(t, gw.lastParams.LineItems, 3) // product + shipping + tax
	assert.Equal(t, int64(10000), gw.lastParams.LineItems[0].UnitAmount)
	assert.Equal(t, "Shipping Fee (US)", gw.lastParams.LineItems[1].Name)
	assert.Equal(t, int64(800), gw.lastParams.LineItems[1].UnitAmount)
	assert.Equal(t, "Tax", gw.lastParams.LineItems[2].Name)
	assert.Equal(t, int64(888), gw.lastParams.LineItems[2].UnitAmount)

	assert.Equal(t, "100.00", gw.lastParams.Metadata["subtotal"])
	assert.Equal(t, "8.00", gw.lastParams.Metadata["shippingFee"])
	assert.Equal(t, "8.88", gw.lastParams.Metadata["tax"])
	assert.Equal(t, "116.88", gw.lastParams.Metadata["total"])
	assert.Equal(t, "US", gw.lastParams.Metadata["user_country"])
	assert.NotEmpty(t, gw.lastParams.Metadata["items"])
}

func TestInitiateSession_NoTaxLineWhenTaxZero(t *testing.T) {
	cartRepo := newMockCartRepo()
	seedCart(t, cartRepo, "sess-1", model.CartLine{ProductID: "p1", Name: "Widget", Price: 10, Quantity: 1})
	gw := &mockGateway{createResp: &client.CreateSessionResponse{SessionID: "cs_1", RedirectURL: "u"}}
	// rate 0 is degenerate but forces converted subtotal (and so tax) to zero
	svc := newCheckoutService(cartRepo, newMockOrderRepo(), newMockWebhookEventRepo(), gw, 0)

	_, err := svc.InitiateSession(context.Background(), "sess-1", "US", "usd")

	require.NoError(t, err)
	require.Len(t, gw.lastParams.LineItems, 2) // product + shipping only
}

func TestInitiateSession_ProviderFailure(t *testing.T) {
	cartRepo := newMockCartRepo()
	seedCart(t, cartRepo, "sess-1", model.CartLine{ProductID: "p1", Name: "Widget", Price: 100, Quantity: 1})
	gw := &mockGateway{createErr: errors.New("provider down")}
	svc := newCheckoutService(cartRepo, newMockOrderRepo(), newMockWebhookEventRepo(), gw, 1)

	_, err := svc.InitiateSession(context.Background(), "sess-1", "US", "usd")

	assert.ErrorIs(t, err, ErrPaymentSession)
}

func TestQuote_MatchesInitiateSessionComputation(t *testing.T) {
	cartRepo := newMockCartRepo()
	seedCart(t, cartRepo, "sess-1", model.CartLine{ProductID: "p1", Name: "Widget", Price: 100, Quantity: 1})
	gw := &mockGateway{createResp: &client.CreateSessionResponse{SessionID: "cs_1", RedirectURL: "u"}}
	svc := newCheckoutService(cartRepo, newMockOrderRepo(), newMockWebhookEventRepo(), gw, 1)

	bd, err := svc.Quote(context.Background(), "sess-1", "US", "usd")
	require.NoError(t, err)

	_, err = svc.InitiateSession(context.Background(), "sess-1", "US", "usd")
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("%.2f", bd.Total), gw.lastParams.Metadata["total"])
	assert.Equal(t, fmt.Sprintf("%.2f", bd.Tax), gw.lastParams.Metadata["tax"])
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	gw := &mockGateway{parseErr: errors.New("bad signature")}
	orderRepo := newMockOrderRepo()
	svc := newCheckoutService(newMockCartRepo(), orderRepo, newMockWebhookEventRepo(), gw, 1)

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, 0, orderRepo.count())
}

func TestHandleWebhook_IgnoresOtherEventTypes(t *testing.T) {
	gw := &mockGateway{event: stripe.Event{
		ID:   "evt_1",
		Type: "payment_intent.succeeded",
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
	}}
	orderRepo := newMockOrderRepo()
	svc := newCheckoutService(newMockCartRepo(), orderRepo, newMockWebhookEventRepo(), gw, 1)

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	assert.Equal(t, 0, orderRepo.count())
}

func TestHandleWebhook_PersistsOrderFromMetadata(t *testing.T) {
	gw := &mockGateway{event: completedEvent(t, "evt_1", "cs_123", orderMetadata(t))}
	orderRepo := newMockOrderRepo()
	svc := newCheckoutService(newMockCartRepo(), orderRepo, newMockWebhookEventRepo(), gw, 1)

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	order, err := svc.OrderBySessionID(context.Background(), "cs_123")
	require.NoError(t, err)
	assert.Equal(t, "shopper@example.com", order.CustomerEmail)
	assert.Equal(t, "US", order.Country)
	assert.Equal(t, "usd", order.Currency)
	assert.Equal(t, 100.0, order.Subtotal)
	assert.Equal(t, 8.0, order.ShippingFee)
	assert.Equal(t, 8.88, order.Tax)
	assert.Equal(t, 116.88, order.Total)
	assert.Equal(t, 116.88, order.TotalUSD)
	assert.Equal(t, "paid", order.PaymentStatus)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Wireless Headphones", order.Items[0].Name)
}

func TestHandleWebhook_IdempotentUnderRedelivery(t *testing.T) {
	orderRepo := newMockOrderRepo()
	events := newMockWebhookEventRepo()

	for i := 0; i < 5; i++ {
		// a fresh event id each time: redelivery dedup must rest on the
		// session id, not the event id
		gw := &mockGateway{event: completedEvent(t, fmt.Sprintf("evt_%d", i), "cs_dup", orderMetadata(t))}
		svc := newCheckoutService(newMockCartRepo(), orderRepo, events, gw, 1)
		require.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
	}

	assert.Equal(t, 1, orderRepo.count())
}

func TestHandleWebhook_ConcurrentDuplicateAbsorbed(t *testing.T) {
	// Simulate the race: the pre-insert lookup misses, the insert hits the
	// unique constraint.
	orderRepo := newMockOrderRepo()
	gw := &mockGateway{event: completedEvent(t, "evt_1", "cs_race", orderMetadata(t))}
	svc := newCheckoutService(newMockCartRepo(), orderRepo, newMockWebhookEventRepo(), gw, 1)
	require.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	orderRepo.forceRaces = true
	gw2 := &mockGateway{event: completedEvent(t, "evt_2", "cs_race", orderMetadata(t))}
	svc2 := newCheckoutService(newMockCartRepo(), orderRepo, newMockWebhookEventRepo(), gw2, 1)

	err := svc2.HandleWebhook(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err, "duplicate-key insert must be absorbed as success")
	assert.Equal(t, 1, orderRepo.count())
}

func TestHandleWebhook_CorruptMetadataDegradesGracefully(t *testing.T) {
	metadata := map[string]string{
		"items":    "{not json",
		"currency": "usd",
		"subtotal": "garbage",
		"total":    "",
	}
	gw := &mockGateway{event: completedEvent(t, "evt_1", "cs_corrupt", metadata)}
	orderRepo := newMockOrderRepo()
	svc := newCheckoutService(newMockCartRepo(), orderRepo, newMockWebhookEventRepo(), gw, 1)

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err, "corrupt metadata must not abort order creation")

	order, err := svc.OrderBySessionID(context.Background(), "cs_corrupt")
	require.NoError(t, err)
	assert.Empty(t, order.Items)
	assert.Equal(t, 0.0, order.Total)
}

func TestHandleWebhook_PersistenceFailureSurfaces(t *testing.T) {
	orderRepo := newMockOrderRepo()
	orderRepo.createErr = errors.New("disk full")
	gw := &mockGateway{event: completedEvent(t, "evt_1", "cs_fail", orderMetadata(t))}
	svc := newCheckoutService(newMockCartRepo(), orderRepo, newMockWebhookEventRepo(), gw, 1)

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

	require.Error(t, err, "the provider must be told to retry")
	assert.NotErrorIs(t, err, ErrInvalidSignature)
}

func TestOrderBySessionID_NotFound(t *testing.T) {
	svc := newCheckoutService(newMockCartRepo(), newMockOrderRepo(), newMockWebhookEventRepo(), &mockGateway{}, 1)

	_, err := svc.OrderBySessionID(context.Background(), "cs_missing")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAdminOrders_Aggregates(t *testing.T) {
	orderRepo := newMockOrderRepo()
	require.NoError(t, orderRepo.Create(context.Background(), &model.Order{
		SessionID: "cs_1", Currency: "usd", Total: 100, TotalUSD: 100,
	}))
	require.NoError(t, orderRepo.Create(context.Background(), &model.Order{
		SessionID: "cs_2", Currency: "kes", Total: 1300, TotalUSD: 10,
	}))
	svc := newCheckoutService(newMockCartRepo(), orderRepo, newMockWebhookEventRepo(), &mockGateway{}, 1)

	resp, err := svc.AdminOrders(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalOrders)
	assert.Equal(t, 110.0, resp.TotalRevenueUSD)
	assert.Equal(t, 100.0, resp.CurrencyTotals["usd"])
	assert.Equal(t, 1300.0, resp.CurrencyTotals["kes"])
}
