package model

import "time"

type Category struct {
	ID   int64    `json:"id" db:"id"`
	Name string   `json:"name" db:"name"`
	Kind GearKind `json:"kind" db:"kind"`
}

type Brand struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Product is a rentable item. Available turns false when the owner delists
// it or when it is rented out, and back to true when the owner relists it.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	CategoryID  int64     `json:"category_id" db:"category_id"`
	BrandID     int64     `json:"brand_id" db:"brand_id"`
	OwnerID     int64     `json:"owner_id" db:"owner_id"`
	Available   bool      `json:"available" db:"available"`
	Model       string    `json:"model" db:"model"`
	Condition   string    `json:"condition" db:"condition"`
	Description string    `json:"description" db:"description"`
	PricePerDay float64   `json:"price_per_day" db:"price_per_day"`
	AvailStart  time.Time `json:"avail_start" db:"avail_start"`
	AvailEnd    time.Time `json:"avail_end" db:"avail_end"`
	ImageURL    string    `json:"image_url" db:"image_url"`

	// Specs is only loaded for a single product.
	Specs *Specs `json:"specs,omitempty" db:"-"`
}

// Covers reports whether the availability window fully contains [start, end].
func (p Product) Covers(start, end time.Time) bool {
	return !p.AvailStart.After(start) && !p.AvailEnd.Before(end)
}
