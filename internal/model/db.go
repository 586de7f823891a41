package model

import "time"

type Product struct {
	ID          string  `gorm:"primaryKey;size:64;not null" json:"id"`
	Name        string  `gorm:"size:128;not null" json:"name"`
	Description string  `gorm:"size:512" json:"description"`
	Price       float64 `gorm:"not null" json:"price"` // unit price in USD
	Image       string  `gorm:"size:256" json:"image"`
	Category    string  `gorm:"size:64;index" json:"category"`
	Stock       int     `gorm:"not null" json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// provider checkout session id; the sole idempotency key, so the index
	// must be unique — concurrent webhook deliveries race on this insert
	SessionID     string      `gorm:"size:128;uniqueIndex;not null" json:"session_id"`
	CustomerEmail string      `gorm:"size:128" json:"customer_email"`
	Country       string      `gorm:"size:8" json:"country"`
	Currency      string      `gorm:"size:8;not null" json:"currency"`
	Subtotal      float64     `json:"subtotal"`
	ShippingFee   float64     `json:"shipping_fee"`
	Tax           float64     `json:"tax"`
	Total         float64     `json:"total"`
	TotalUSD      float64     `json:"total_usd"`
	PaymentStatus string      `gorm:"size:32" json:"payment_status"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID       uint    `gorm:"primaryKey" json:"-"`
	OrderID  uint    `gorm:"index;not null" json:"-"`
	Name     string  `gorm:"size:128;not null" json:"name"`
	Quantity int     `gorm:"not null" json:"quantity"`
	Price    float64 `gorm:"not null" json:"price"`
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}

type Student struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	FirstName    string          `gorm:"size:64;not null" json:"first_name"`
	LastName     string          `gorm:"size:64;not null" json:"last_name"`
	SchoolID     string          `gorm:"size:32;not null" json:"school_id"`
	Email        string          `gorm:"size:128;uniqueIndex;not null" json:"email"`
	PasswordHash string          `gorm:"size:128;not null" json:"-"`
	Courses      []StudentCourse `gorm:"foreignKey:StudentID" json:"courses"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"-"`
}

type StudentCourse struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	StudentID uint   `gorm:"index;not null" json:"-"`
	Course    string `gorm:"size:128;not null" json:"course"`
	Lecturer  string `gorm:"size:128" json:"lecturer"`
}
