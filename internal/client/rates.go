package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopease-backend/internal/config"
	"shopease-backend/internal/pricing"

	"go.uber.org/zap"
)

// RateProvider resolves the USD->currency conversion rate used by the
// pricing calculator.
type RateProvider interface {
	Rate(ctx context.Context, currency string) float64
}

type ratesClientImpl struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewRatesClient returns the two-tier rate source: a live fetch with a
// bounded timeout, falling back to the static table on any failure. A rate
// lookup never fails and never blocks checkout beyond the timeout.
func NewRatesClient(cfg *config.Rates, logger *zap.Logger) RateProvider {
	return &ratesClientImpl{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

func (c *ratesClientImpl) Rate(ctx context.Context, currency string) float64 {
	fallback := pricing.FallbackRate(currency)
	symbol := strings.ToUpper(currency)

	rate, err := c.fetch(ctx, symbol)
	if err != nil {
		c.logger.Warn("live rate fetch failed, using fallback",
			zap.String("currency", currency),
			zap.Float64("fallback", fallback),
			zap.Error(err),
		)
		return fallback
	}
	return rate
}

func (c *ratesClientImpl) fetch(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s?base=USD&symbols=%s", c.baseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("rates endpoint status %d", resp.StatusCode)
	}

	var res struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return 0, fmt.Errorf("decode rates response: %w", err)
	}

	rate, ok := res.Rates[symbol]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("no rate for %s in response", symbol)
	}
	return rate, nil
}
