package model

import (
	"time"

	"github.com/google/uuid"
)

// RentalHistory records one rental. Only the rating links change after
// creation, and each of them is set at most once.
type RentalHistory struct {
	ID              int64     `json:"id" db:"id"`
	ProductID       int64     `json:"product_id" db:"product_id"`
	RenterID        int64     `json:"renter_id" db:"renter_id"`
	SubmittedAt     time.Time `json:"submitted_at" db:"submitted_at"`
	Start           time.Time `json:"start" db:"start_date"`
	End             time.Time `json:"end" db:"end_date"`
	Cost            float64   `json:"cost" db:"cost"`
	OwnerRatingID   *int64    `json:"owner_rating_id,omitempty" db:"owner_rating_id"`
	RenterRatingID  *int64    `json:"renter_rating_id,omitempty" db:"renter_rating_id"`
	ProductRatingID *int64    `json:"product_rating_id,omitempty" db:"product_rating_id"`
}

type RatingTarget string

const (
	RateOwner   RatingTarget = "owner"
	RateRenter  RatingTarget = "renter"
	RateProduct RatingTarget = "product"
)

// RatingID returns the link stored on h for target, or nil.
func (h RentalHistory) RatingID(target RatingTarget) *int64 {
	switch target {
	case RateOwner:
		return h.OwnerRatingID
	case RateRenter:
		return h.RenterRatingID
	case RateProduct:
		return h.ProductRatingID
	}
	return nil
}

type Rating struct {
	ID           int64     `json:"id" db:"id"`
	SubmissionID uuid.UUID `json:"submission_id" db:"submission_id"`
	Stars        int       `json:"stars" db:"stars"`
	Comments     string    `json:"comments" db:"comments"`
}
