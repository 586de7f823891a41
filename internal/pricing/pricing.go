// Package pricing computes the subtotal/shipping/tax/total breakdown for a
// cart bound for a destination country and display currency. Quote is pure:
// the client-facing estimate and the checkout-session computation call it
// independently and must produce identical output for identical input.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Line struct {
	Name         string
	UnitPriceUSD float64
	Quantity     int
}

type Breakdown struct {
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shipping_fee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
	Currency    string  `json:"currency"`
}

// Free-shipping thresholds, measured against the USD subtotal.
const (
	freeShippingUSD = 150
	halfShippingUSD = 75
)

const defaultKey = "DEFAULT"

// Per-country base shipping fee, denominated per display currency. Countries
// and currencies outside the table fall back to the DEFAULT row / usd column.
var shippingRates = map[string]map[string]float64{
	"US":       {"usd": 8, "kes": 1000, "eur": 7.3, "gbp": 6.4},
	"KE":       {"usd": 20, "kes": 2600, "eur": 18.2, "gbp": 15.8},
	"GB":       {"usd": 15, "kes": 1950, "eur": 13.8, "gbp": 12.1},
	"CA":       {"usd": 10, "kes": 1300, "eur": 9.1, "gbp": 8.0},
	"FR":       {"usd": 14, "kes": 1820, "eur": 13.0, "gbp": 11.5},
	"DE":       {"usd": 14, "kes": 1820, "eur": 13.0, "gbp": 11.5},
	"IN":       {"usd": 18, "kes": 2340, "eur": 16.7, "gbp": 14.8},
	defaultKey: {"usd": 22, "kes": 2850, "eur": 20.4, "gbp": 18.2},
}

var taxRates = map[string]float64{
	"US":       0.08875,
	"KE":       0.16,
	"GB":       0.20,
	"CA":       0.13,
	"FR":       0.20,
	"DE":       0.19,
	"IN":       0.18,
	defaultKey: 0.10,
}

// fallbackRates is the static USD conversion table used when the live rate
// fetch is unavailable and for the persisted total_usd field.
var fallbackRates = map[string]float64{
	"usd": 1,
	"kes": 130,
	"eur": 0.9,
	"gbp": 0.8,
	"cad": 1.35,
	"inr": 83,
}

// FallbackRate returns the static USD->currency rate, 1 for unknown codes.
func FallbackRate(currency string) float64 {
	if rate, ok := fallbackRates[strings.ToLower(currency)]; ok {
		return rate
	}
	return 1
}

// Quote derives the breakdown for the given lines. rate is the USD->currency
// conversion factor supplied by the caller (live or fallback).
func Quote(lines []Line, country, currency string, rate float64) Breakdown {
	country = strings.ToUpper(country)
	currency = strings.ToLower(currency)

	subtotalUSD := decimal.Zero
	for _, line := range lines {
		subtotalUSD = subtotalUSD.Add(
			decimal.NewFromFloat(line.UnitPriceUSD).Mul(decimal.NewFromInt(int64(line.Quantity))),
		)
	}

	converted := subtotalUSD.Mul(decimal.NewFromFloat(rate))
	shipping := shippingFee(country, currency, subtotalUSD)
	tax := converted.Mul(decimal.NewFromFloat(taxRate(country))).Round(2)
	total := converted.Add(shipping).Add(tax).Round(2)

	return Breakdown{
		Subtotal:    converted.Round(2).InexactFloat64(),
		ShippingFee: shipping.Round(2).InexactFloat64(),
		Tax:         tax.InexactFloat64(),
		Total:       total.InexactFloat64(),
		Currency:    currency,
	}
}

func shippingFee(country, currency string, subtotalUSD decimal.Decimal) decimal.Decimal {
	row, ok := shippingRates[country]
	if !ok {
		row = shippingRates[defaultKey]
	}
	base, ok := row[currency]
	if !ok {
		base = row["usd"]
	}

	fee := decimal.NewFromFloat(base)
	switch {
	case subtotalUSD.GreaterThanOrEqual(decimal.NewFromInt(freeShippingUSD)):
		fee = decimal.Zero
	case subtotalUSD.GreaterThanOrEqual(decimal.NewFromInt(halfShippingUSD)):
		fee = fee.Div(decimal.NewFromInt(2))
	}
	return fee
}

func taxRate(country string) float64 {
	if rate, ok := taxRates[country]; ok {
		return rate
	}
	return taxRates[defaultKey]
}

// ToUSD converts an amount in the given currency back to USD using the
// static table, rounded to 2 decimal places.
func ToUSD(amount float64, currency string) float64 {
	rate := decimal.NewFromFloat(FallbackRate(currency))
	return decimal.NewFromFloat(amount).DivRound(rate, 2).InexactFloat64()
}

// MinorUnits rounds an amount to its integer minor-unit form (cents) for the
// payment provider's protocol.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ConvertUnitPrice converts a USD unit price into the display currency,
// rounded to 2 decimal places.
func ConvertUnitPrice(priceUSD, rate float64) float64 {
	return decimal.NewFromFloat(priceUSD).Mul(decimal.NewFromFloat(rate)).Round(2).InexactFloat64()
}
