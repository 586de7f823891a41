package model

import "time"

// CartLine caches the product snapshot taken at add time; stock is
// re-checked against the catalog on every mutation.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"` // unit price in USD
	Image     string  `json:"image,omitempty"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"quantity"`
}

type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Subtotal is the USD sum over all lines, before conversion and fees.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, line := range c.Lines {
		sum += line.Price * float64(line.Quantity)
	}
	return sum
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}
