package dto

import "shopease-backend/internal/model"

type CartResponse struct {
	Cart      []model.CartLine `json:"cart"`
	Subtotal  float64          `json:"subtotal"`
	ItemCount int              `json:"item_count"`
}

type CartMutationResponse struct {
	Success  bool `json:"success"`
	Count    int  `json:"count,omitempty"`
	Quantity int  `json:"quantity,omitempty"`
}

type UpdateCartRequest struct {
	Change int `json:"change"`
}

type CheckoutItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CheckoutRequest mirrors what the storefront sends when the shopper places
// the order. The server recomputes every amount from the session cart; the
// client-side figures are accepted for shape compatibility only.
type CheckoutRequest struct {
	Items       []CheckoutItem `json:"items"`
	Country     string         `json:"country"`
	Currency    string         `json:"currency"`
	Subtotal    float64        `json:"subtotal"`
	ShippingFee float64        `json:"shippingFee"`
	Tax         float64        `json:"tax"`
	Total       float64        `json:"total"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type AdminOrdersResponse struct {
	Orders          []*model.Order     `json:"orders"`
	TotalOrders     int                `json:"total_orders"`
	TotalRevenueUSD float64            `json:"total_revenue_usd"`
	CurrencyTotals  map[string]float64 `json:"currency_totals"`
}

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	SchoolID  string `json:"school_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token,omitempty"`
	Student *model.Student `json:"student"`
}

type CourseSelection struct {
	Course   string `json:"course"`
	Lecturer string `json:"lecturer"`
}

type CoursesRequest struct {
	Email   string            `json:"email"`
	Courses []CourseSelection `json:"courses"`
}
