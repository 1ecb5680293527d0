// Package listing lets owners put gear on the market, edit it and take it
// off again.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/repository"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrNotOwner ErrCode = "NOT_OWNER"
	ErrBadInput ErrCode = "BAD_INPUT"
	ErrInactive ErrCode = "INACTIVE"
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

// NewBrand is the BrandID that asks for a brand called NewBrandName to be
// created.
const NewBrand int64 = -1

// Listing is what an owner fills in for a product.
type Listing struct {
	CategoryID   int64
	BrandID      int64
	NewBrandName string
	Model        string
	Condition    string
	Description  string
	PricePerDay  float64
	AvailStart   time.Time
	AvailEnd     time.Time
	ImageURL     string

	// Specs must hold the attributes of the category's gear kind, and
	// nothing for categories without one.
	Specs *model.Specs
}

type Catalog struct {
	Categories []model.Category  `json:"categories"`
	Brands     []model.Brand     `json:"brands"`
	Gear       model.GearOptions `json:"gear"`
}

type Repo interface {
	User(ctx context.Context, id int64) (model.User, error)

	Categories(ctx context.Context) ([]model.Category, error)
	Category(ctx context.Context, id int64) (model.Category, error)
	Brands(ctx context.Context) ([]model.Brand, error)
	Brand(ctx context.Context, id int64) (model.Brand, error)
	GearOptions(ctx context.Context) (model.GearOptions, error)

	// CreateListing stores p and its specs. A non-empty newBrand is created
	// in the same transaction and p.BrandID points at it afterwards.
	CreateListing(ctx context.Context, p *model.Product, newBrand string) error
	// UpdateListing replaces the product row and its specs, like
	// CreateListing for newBrand.
	UpdateListing(ctx context.Context, p *model.Product, newBrand string) error

	Product(ctx context.Context, id int64) (model.Product, error)
	SetAvailable(ctx context.Context, productID int64, available bool) error
}

type Service interface {
	// Create lists a new, available product owned by ownerID.
	Create(ctx context.Context, ownerID int64, l Listing) (*model.Product, error)

	// Update replaces the listing fields and puts the product back on the market.
	Update(ctx context.Context, ownerID, productID int64, l Listing) (*model.Product, error)

	// Delist takes the product off the market.
	Delist(ctx context.Context, ownerID, productID int64) error

	Get(ctx context.Context, productID int64) (*model.Product, error)

	// Catalog lists the categories and brands a listing can use.
	Catalog(ctx context.Context) (*Catalog, error)
}

type service struct {
	r Repo
}

func New(r Repo) Service {
	return &service{r: r}
}

func (s *service) Create(ctx context.Context, ownerID int64, l Listing) (*model.Product, error) {
	if err := s.active(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := s.check(ctx, l); err != nil {
		return nil, err
	}
	newBrand, err := s.brand(ctx, l)
	if err != nil {
		return nil, err
	}

	p := apply(model.Product{OwnerID: ownerID}, l)
	if err := s.r.CreateListing(ctx, &p, newBrand); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	return &p, nil
}

func (s *service) Update(ctx context.Context, ownerID, productID int64, l Listing) (*model.Product, error) {
	current, err := s.owned(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.active(ctx, ownerID); err != nil {
		return nil, err
	}
	if l.CategoryID != current.CategoryID {
		return nil, makeErr(ErrBadInput, "category cannot change")
	}
	if err := s.check(ctx, l); err != nil {
		return nil, err
	}
	newBrand, err := s.brand(ctx, l)
	if err != nil {
		return nil, err
	}

	p := apply(current, l)
	if err := s.r.UpdateListing(ctx, &p, newBrand); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, makeErr(ErrNotFound, "product")
		}
		return nil, fmt.Errorf("update listing %d: %w", productID, err)
	}
	return &p, nil
}

func (s *service) Delist(ctx context.Context, ownerID, productID int64) error {
	if _, err := s.owned(ctx, ownerID, productID); err != nil {
		return err
	}
	if err := s.r.SetAvailable(ctx, productID, false); err != nil {
		return fmt.Errorf("delist product %d: %w", productID, err)
	}
	return nil
}

func (s *service) Get(ctx context.Context, productID int64) (*model.Product, error) {
	p, err := s.r.Product(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, makeErr(ErrNotFound, "product")
		}
		return nil, err
	}
	return &p, nil
}

func (s *service) Catalog(ctx context.Context) (*Catalog, error) {
	categories, err := s.r.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	brands, err := s.r.Brands(ctx)
	if err != nil {
		return nil, fmt.Errorf("brands: %w", err)
	}
	gear, err := s.r.GearOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("gear options: %w", err)
	}
	return &Catalog{Categories: categories, Brands: brands, Gear: gear}, nil
}

// active refuses owners whose account is deactivated.
func (s *service) active(ctx context.Context, ownerID int64) error {
	u, err := s.r.User(ctx, ownerID)
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

func (s *service) owned(ctx context.Context, ownerID, productID int64) (model.Product, error) {
	p, err := s.r.Product(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Product{}, makeErr(ErrNotFound, "product")
		}
		return model.Product{}, err
	}
	if p.OwnerID != ownerID {
		return model.Product{}, makeErr(ErrNotOwner, "")
	}
	return p, nil
}

func (s *service) check(ctx context.Context, l Listing) error {
	if strings.TrimSpace(l.Model) == "" {
		return makeErr(ErrBadInput, "model is required")
	}
	if l.PricePerDay < 0 {
		return makeErr(ErrBadInput, "price per day must not be negative")
	}
	if l.AvailStart.IsZero() || l.AvailEnd.IsZero() || l.AvailEnd.Before(l.AvailStart) {
		return makeErr(ErrBadInput, "availability must start on or before its end")
	}
	category, err := s.r.Category(ctx, l.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return makeErr(ErrBadInput, "unknown category")
		}
		return err
	}
	options, err := s.r.GearOptions(ctx)
	if err != nil {
		return fmt.Errorf("gear options: %w", err)
	}
	if msg := checkSpecs(category.Kind, l.Specs, options); msg != "" {
		return makeErr(ErrBadInput, msg)
	}
	return nil
}

// brand checks the brand the listing points at. It returns the trimmed name
// when the listing asks for a new brand, and "" otherwise.
func (s *service) brand(ctx context.Context, l Listing) (string, error) {
	if l.BrandID < 0 {
		name := strings.TrimSpace(l.NewBrandName)
		if name == "" {
			return "", makeErr(ErrBadInput, "new brand needs a name")
		}
		return name, nil
	}

	if _, err := s.r.Brand(ctx, l.BrandID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", makeErr(ErrBadInput, "unknown brand")
		}
		return "", err
	}
	return "", nil
}

func apply(p model.Product, l Listing) model.Product {
	p.CategoryID = l.CategoryID
	p.BrandID = l.BrandID
	p.Model = strings.TrimSpace(l.Model)
	p.Condition = l.Condition
	p.Description = l.Description
	p.PricePerDay = l.PricePerDay
	p.AvailStart = l.AvailStart
	p.AvailEnd = l.AvailEnd
	p.ImageURL = l.ImageURL
	p.Specs = nil
	if len(l.Specs.Kinds()) > 0 {
		p.Specs = l.Specs
	}
	p.Available = true
	return p
}
