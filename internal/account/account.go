// Package account assembles what a user sees about themselves: their
// listings, the rentals of those listings, their own rentals and the
// ratings left about them.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/thomhuang/happycamper/internal/history"
	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/repository"
)

type ErrCode string

const ErrNotFound ErrCode = "NOT_FOUND"

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return string(e.code) + ": " + e.msg }
func (e codedError) Code() ErrCode { return e.code }

func makeErr(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts the error code, or "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Overview struct {
	User        model.User            `json:"user"`
	Phone       string                `json:"phone"`
	Available   []model.Product       `json:"available"`
	Unavailable []model.Product       `json:"unavailable"`
	Lent        []model.RentalHistory `json:"lent"`
	Rented      []model.RentalHistory `json:"rented"`
}

// Ratings is a list of ratings, latest rental first, with their average
// star count (history.NoRating when empty).
type Ratings struct {
	Ratings []model.Rating `json:"ratings"`
	Average float64        `json:"average"`
}

type Repo interface {
	User(ctx context.Context, id int64) (model.User, error)
	Product(ctx context.Context, id int64) (model.Product, error)
	ProductsByOwner(ctx context.Context, ownerID int64) ([]model.Product, error)
	HistoriesForProducts(ctx context.Context, productIDs []int64) ([]model.RentalHistory, error)
	HistoriesByProduct(ctx context.Context, productID int64) ([]model.RentalHistory, error)
	HistoriesByRenter(ctx context.Context, renterID int64) ([]model.RentalHistory, error)
	Ratings(ctx context.Context, ids []int64) ([]model.Rating, error)

	// Deactivate delists the user's products and marks the user inactive
	// in one step.
	Deactivate(ctx context.Context, userID int64) error
}

type Service interface {
	Overview(ctx context.Context, userID int64) (*Overview, error)

	// OwnerRatings are the ratings renters left for userID as an owner.
	OwnerRatings(ctx context.Context, userID int64) (*Ratings, error)

	// RenterRatings are the ratings owners left for userID as a renter.
	RenterRatings(ctx context.Context, userID int64) (*Ratings, error)

	ProductRatings(ctx context.Context, productID int64) (*Ratings, error)

	Deactivate(ctx context.Context, userID int64) error
}

type service struct {
	r Repo
}

func New(r Repo) Service {
	return &service{r: r}
}

func (s *service) user(ctx context.Context, id int64) (model.User, error) {
	u, err := s.r.User(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, makeErr(ErrNotFound, "user")
		}
		return model.User{}, err
	}
	return u, nil
}

func (s *service) Overview(ctx context.Context, userID int64) (*Overview, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	products, err := s.r.ProductsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("products of %d: %w", userID, err)
	}
	out := &Overview{
		User:        u,
		Phone:       history.FormatPhone(u.Phone),
		Available:   []model.Product{},
		Unavailable: []model.Product{},
	}
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
		if p.Available {
			out.Available = append(out.Available, p)
		} else {
			out.Unavailable = append(out.Unavailable, p)
		}
	}

	lent, err := s.lent(ctx, ids)
	if err != nil {
		return nil, err
	}
	rented, err := s.r.HistoriesByRenter(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rentals of %d: %w", userID, err)
	}

	out.Lent = history.Rank(lent)
	out.Rented = history.Rank(rented)
	return out, nil
}

func (s *service) lent(ctx context.Context, productIDs []int64) ([]model.RentalHistory, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	hs, err := s.r.HistoriesForProducts(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("histories of products: %w", err)
	}
	return hs, nil
}

func (s *service) OwnerRatings(ctx context.Context, userID int64) (*Ratings, error) {
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	products, err := s.r.ProductsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("products of %d: %w", userID, err)
	}
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	hs, err := s.lent(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.ratings(ctx, hs, model.RateOwner)
}

func (s *service) RenterRatings(ctx context.Context, userID int64) (*Ratings, error) {
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	hs, err := s.r.HistoriesByRenter(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rentals of %d: %w", userID, err)
	}
	return s.ratings(ctx, hs, model.RateRenter)
}

func (s *service) ProductRatings(ctx context.Context, productID int64) (*Ratings, error) {
	if _, err := s.r.Product(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, makeErr(ErrNotFound, "product")
		}
		return nil, err
	}
	hs, err := s.r.HistoriesByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("histories of product %d: %w", productID, err)
	}
	return s.ratings(ctx, hs, model.RateProduct)
}

// ratings loads the target ratings linked from hs, latest rental first.
func (s *service) ratings(ctx context.Context, hs []model.RentalHistory, target model.RatingTarget) (*Ratings, error) {
	var ids []int64
	for _, h := range history.Rank(hs) {
		if id := h.RatingID(target); id != nil {
			ids = append(ids, *id)
		}
	}

	out := &Ratings{Ratings: []model.Rating{}, Average: history.NoRating}
	if len(ids) == 0 {
		return out, nil
	}

	found, err := s.r.Ratings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s ratings: %w", target, err)
	}
	byID := make(map[int64]model.Rating, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out.Ratings = append(out.Ratings, r)
		}
	}
	out.Average = history.AverageStars(out.Ratings)
	return out, nil
}

func (s *service) Deactivate(ctx context.Context, userID int64) error {
	if err := s.r.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return makeErr(ErrNotFound, "user")
		}
		return fmt.Errorf("deactivate %d: %w", userID, err)
	}
	return nil
}
