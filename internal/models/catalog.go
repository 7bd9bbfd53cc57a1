package models

import "time"

type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Image         string    `json:"image"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	IsNew         bool      `json:"is_new"`
	Discount      float64   `json:"discount"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	Stock         int       `json:"stock"`
	AddedAt       time.Time `json:"added_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Service struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	PriceRange  string    `json:"price_range"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Banner struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Discount string    `json:"discount"`
	Image    string    `json:"image"`
	BgColor  string    `json:"bg_color"`
	AddedAt  time.Time `json:"added_at"`
}

type Testimonial struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customer_name"`
	Review       string    `json:"review"`
	Rating       float64   `json:"rating"`
	ServiceType  string    `json:"service_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
