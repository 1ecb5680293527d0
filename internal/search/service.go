package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/thomhuang/happycamper/internal/model"
)

type Repo interface {
	PostalCodesInUse(ctx context.Context) ([]string, error)
	UsersInPostalCodes(ctx context.Context, codes []string) ([]model.User, error)
	ProductsByOwners(ctx context.Context, ownerIDs []int64) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Category(ctx context.Context, id int64) (model.Category, error)
}

// Request carries everything a search needs. UserID is the person
// searching, whose own products are never offered back to them.
type Request struct {
	UserID     int64
	Center     string
	Miles      float64
	Start      time.Time
	End        time.Time
	CategoryID int64
	BrandID    int64
}

type Result struct {
	Center     string                     `json:"center"`
	Miles      float64                    `json:"miles"`
	Start      string                     `json:"start"`
	End        string                     `json:"end"`
	Days       int                        `json:"days"`
	Categories []string                   `json:"categories"`
	Products   map[string][]model.Product `json:"products"`
}

type Service struct {
	repo    Repo
	locator Locator
}

func NewService(repo Repo, locator Locator) *Service {
	return &Service{repo: repo, locator: locator}
}

// Search runs the whole pipeline: radius, availability, category and brand,
// then groups what is left by category.
func (s *Service) Search(ctx context.Context, req Request) (*Result, error) {
	inUse, err := s.repo.PostalCodesInUse(ctx)
	if err != nil {
		return nil, fmt.Errorf("postal codes in use: %w", err)
	}

	codes, err := Radius(ctx, s.locator, req.Center, inUse, req.Miles)
	if err != nil {
		return nil, err
	}

	owners, err := s.ownersIn(ctx, codes, req.UserID)
	if err != nil {
		return nil, err
	}

	products := FilterByAvailability(req.Start, req.End, owners)
	products = FilterByAttributes(products, req.CategoryID, req.BrandID)

	var categories []model.Category
	if req.CategoryID < 0 {
		categories, err = s.repo.Categories(ctx)
	} else {
		var category model.Category
		category, err = s.repo.Category(ctx, req.CategoryID)
		categories = []model.Category{category}
	}
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}

	inventory, err := Categorize(categories, products)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(inventory))
	for name := range inventory {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Result{
		Center:     req.Center,
		Miles:      req.Miles,
		Start:      req.Start.Format(DateLayout),
		End:        req.End.Format(DateLayout),
		Days:       RentalDays(req.Start, req.End),
		Categories: names,
		Products:   inventory,
	}, nil
}

// ownersIn loads the users living in codes, minus the searching user, with
// their products attached.
func (s *Service) ownersIn(ctx context.Context, codes []string, excludeUserID int64) ([]model.Owner, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	users, err := s.repo.UsersInPostalCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("users in area: %w", err)
	}

	owners := make([]model.Owner, 0, len(users))
	index := make(map[int64]int, len(users))
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		if u.ID == excludeUserID {
			continue
		}
		index[u.ID] = len(owners)
		owners = append(owners, model.Owner{User: u})
		ids = append(ids, u.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	products, err := s.repo.ProductsByOwners(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("products of owners: %w", err)
	}
	for _, p := range products {
		if i, ok := index[p.OwnerID]; ok {
			owners[i].Products = append(owners[i].Products, p)
		}
	}
	return owners, nil
}
