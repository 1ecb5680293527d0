// Package rental books products for renters and records the ratings both
// sides leave afterwards.
package rental

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/repository"
	"github.com/thomhuang/happycamper/internal/search"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrBadInput     ErrCode = "BAD_INPUT"
	ErrOwnProduct   ErrCode = "OWN_PRODUCT"
	ErrUnavailable  ErrCode = "UNAVAILABLE"
	ErrNotAllowed   ErrCode = "NOT_ALLOWED"
	ErrAlreadyRated ErrCode = "ALREADY_RATED"
	ErrInactive     ErrCode = "INACTIVE"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg == "" {
		return string(e.code)
	}
	return string(e.code) + ": " + e.msg
}
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

const (
	MinStars = 1
	MaxStars = 4
)

// RateRequest is one rating submission. SubmissionID is chosen by the
// client; sending the same one again never stores a second rating.
type RateRequest struct {
	SubmissionID uuid.UUID
	HistoryID    int64
	RaterID      int64
	Target       model.RatingTarget
	Stars        int
	Comments     string
}

type Repo interface {
	User(ctx context.Context, id int64) (model.User, error)
	Product(ctx context.Context, id int64) (model.Product, error)
	History(ctx context.Context, id int64) (model.RentalHistory, error)

	// CreateRental stores the history and marks the product unavailable in
	// one step, failing with repository.ErrConflict if it was rented first.
	CreateRental(ctx context.Context, h *model.RentalHistory) error

	AttachRating(ctx context.Context, historyID int64, target model.RatingTarget, r *model.Rating) (int64, error)
}

type Service interface {
	// Rent books productID for [start, end] and takes it off the market.
	Rent(ctx context.Context, renterID, productID int64, start, end time.Time) (*model.RentalHistory, error)

	// Rate stores a rating and links it to the rental. It returns the rating id.
	Rate(ctx context.Context, req RateRequest) (int64, error)
}

type service struct {
	r   Repo
	now func() time.Time
}

func New(r Repo) Service {
	return &service{r: r, now: time.Now}
}

func (s *service) Rent(ctx context.Context, renterID, productID int64, start, end time.Time) (*model.RentalHistory, error) {
	start, end = search.Day(start), search.Day(end)
	if end.Before(start) {
		return nil, makeErr(ErrBadInput, "rental must start on or before its end")
	}

	p, err := s.r.Product(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, makeErr(ErrNotFound, "product")
		}
		return nil, err
	}
	if p.OwnerID == renterID {
		return nil, makeErr(ErrOwnProduct, "")
	}
	if err := s.active(ctx, renterID); err != nil {
		return nil, err
	}
	// gear of a deactivated owner stays off the market
	if err := s.active(ctx, p.OwnerID); err != nil {
		if Code(err) == ErrInactive {
			return nil, makeErr(ErrUnavailable, "owner is inactive")
		}
		return nil, err
	}
	if !p.Available || !p.Covers(start, end) {
		return nil, makeErr(ErrUnavailable, "")
	}

	days := search.RentalDays(start, end)
	h := &model.RentalHistory{
		ProductID:   p.ID,
		RenterID:    renterID,
		SubmittedAt: s.now().UTC(),
		Start:       start,
		End:         end,
		Cost:        p.PricePerDay * float64(days),
	}
	if err := s.r.CreateRental(ctx, h); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, makeErr(ErrUnavailable, "")
		case errors.Is(err, repository.ErrNotFound):
			return nil, makeErr(ErrNotFound, "product")
		}
		return nil, fmt.Errorf("create rental: %w", err)
	}
	return h, nil
}

func (s *service) active(ctx context.Context, userID int64) error {
	u, err := s.r.User(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return makeErr(ErrInactive, "unknown user")
		}
		return err
	}
	if !u.Active {
		return makeErr(ErrInactive, "account is deactivated")
	}
	return nil
}

func (s *service) Rate(ctx context.Context, req RateRequest) (int64, error) {
	if req.SubmissionID == uuid.Nil {
		return 0, makeErr(ErrBadInput, "submission id is required")
	}
	if req.Stars < MinStars || req.Stars > MaxStars {
		return 0, makeErr(ErrBadInput, fmt.Sprintf("stars must be between %d and %d", MinStars, MaxStars))
	}

	h, err := s.r.History(ctx, req.HistoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, makeErr(ErrNotFound, "rental history")
		}
		return 0, err
	}

	switch req.Target {
	case model.RateOwner, model.RateProduct:
		if h.RenterID != req.RaterID {
			return 0, makeErr(ErrNotAllowed, "only the renter rates the owner and the product")
		}
	case model.RateRenter:
		p, err := s.r.Product(ctx, h.ProductID)
		if err != nil {
			return 0, fmt.Errorf("product of history %d: %w", h.ID, err)
		}
		if p.OwnerID != req.RaterID {
			return 0, makeErr(ErrNotAllowed, "only the owner rates the renter")
		}
	default:
		return 0, makeErr(ErrBadInput, fmt.Sprintf("unknown rating target %q", req.Target))
	}

	rating := &model.Rating{
		SubmissionID: req.SubmissionID,
		Stars:        req.Stars,
		Comments:     req.Comments,
	}
	id, err := s.r.AttachRating(ctx, h.ID, req.Target, rating)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return 0, makeErr(ErrAlreadyRated, string(req.Target))
		case errors.Is(err, repository.ErrNotFound):
			return 0, makeErr(ErrNotFound, "rental history")
		}
		return 0, fmt.Errorf("attach rating: %w", err)
	}
	return id, nil
}
