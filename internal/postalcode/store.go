// Package postalcode resolves postal codes to coordinates. Resolved codes
// are kept in a repository so the external geocoder is asked at most once
// per code.
package postalcode

import (
	"context"
	"errors"
	"fmt"

	"github.com/thomhuang/happycamper/internal/model"
)

var (
	// ErrLookup is matched by every failure to resolve a postal code.
	ErrLookup = errors.New("postal code lookup failed")

	// ErrNotFound is returned by a Repository that has no row for a code.
	ErrNotFound = errors.New("postal code not found")
)

type Repository interface {
	Get(ctx context.Context, code string) (model.PostalCodeLocation, error)
	Save(ctx context.Context, loc model.PostalCodeLocation) error
}

// Geocoder resolves a postal code through an external service.
type Geocoder interface {
	Geocode(ctx context.Context, code string) (model.PostalCodeLocation, error)
}

type Store struct {
	repo     Repository
	geocoder Geocoder
}

func NewStore(repo Repository, geocoder Geocoder) *Store {
	return &Store{repo: repo, geocoder: geocoder}
}

// Lookup returns the coordinates of code, asking the geocoder and caching
// the answer when the repository has not seen the code yet.
func (s *Store) Lookup(ctx context.Context, code string) (model.PostalCodeLocation, error) {
	loc, err := s.repo.Get(ctx, code)
	if err == nil {
		return loc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.PostalCodeLocation{}, errors.Join(ErrLookup, fmt.Errorf("read %s: %w", code, err))
	}

	loc, err = s.geocoder.Geocode(ctx, code)
	if err != nil {
		return model.PostalCodeLocation{}, errors.Join(ErrLookup, fmt.Errorf("geocode %s: %w", code, err))
	}
	loc.Code = code

	if err := s.repo.Save(ctx, loc); err != nil {
		return model.PostalCodeLocation{}, errors.Join(ErrLookup, fmt.Errorf("save %s: %w", code, err))
	}
	return loc, nil
}
