package postalcode_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/postalcode"
	"github.com/thomhuang/happycamper/internal/repository/memory"
)

type geocoderMock struct {
	calls     int
	geocodeFn func(ctx context.Context, code string) (model.PostalCodeLocation, error)
}

func (m *geocoderMock) Geocode(ctx context.Context, code string) (model.PostalCodeLocation, error) {
	m.calls++
	return m.geocodeFn(ctx, code)
}

type brokenRepo struct{}

func (brokenRepo) Get(context.Context, string) (model.PostalCodeLocation, error) {
	return model.PostalCodeLocation{}, errors.New("connection reset")
}

func (brokenRepo) Save(context.Context, model.PostalCodeLocation) error { return nil }

func Test_Lookup_CachesGeocodedCode(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPostalCodes()
	g := &geocoderMock{
		geocodeFn: func(ctx context.Context, code string) (model.PostalCodeLocation, error) {
			return model.PostalCodeLocation{Latitude: 44.98, Longitude: -93.27}, nil
		},
	}
	store := postalcode.NewStore(repo, g)

	first, err := store.Lookup(ctx, "55401")
	require.NoError(t, err)
	second, err := store.Lookup(ctx, "55401")
	require.NoError(t, err)

	assert.Equal(t, 1, g.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "55401", first.Code)

	saved, err := repo.Get(ctx, "55401")
	require.NoError(t, err)
	assert.Equal(t, first, saved)
}

func Test_Lookup_UsesFixturesWithoutGeocoder(t *testing.T) {
	g := &geocoderMock{}
	store := postalcode.NewStore(memory.NewPostalCodes(postalcode.Fixtures...), g)

	loc, err := store.Lookup(context.Background(), "94612")

	require.NoError(t, err)
	assert.Equal(t, 0, g.calls)
	assert.Equal(t, 37.8085, loc.Latitude)
}

func Test_Lookup_GeocoderFailureIsLookupError(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPostalCodes()
	cause := errors.New("no such code")
	store := postalcode.NewStore(repo, &geocoderMock{
		geocodeFn: func(ctx context.Context, code string) (model.PostalCodeLocation, error) {
			return model.PostalCodeLocation{}, cause
		},
	})

	_, err := store.Lookup(ctx, "00000")

	require.Error(t, err)
	assert.ErrorIs(t, err, postalcode.ErrLookup)
	assert.ErrorIs(t, err, cause)

	_, err = repo.Get(ctx, "00000")
	assert.ErrorIs(t, err, postalcode.ErrNotFound)
}

func Test_Lookup_RepositoryFailureIsLookupError(t *testing.T) {
	g := &geocoderMock{}
	store := postalcode.NewStore(brokenRepo{}, g)

	_, err := store.Lookup(context.Background(), "94612")

	assert.ErrorIs(t, err, postalcode.ErrLookup)
	assert.Equal(t, 0, g.calls)
}
