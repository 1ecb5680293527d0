package listing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomhuang/happycamper/internal/listing"
	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/repository"
)

type repoMock struct {
	userFn          func(ctx context.Context, id int64) (model.User, error)
	categoryFn      func(ctx context.Context, id int64) (model.Category, error)
	brandFn         func(ctx context.Context, id int64) (model.Brand, error)
	createListingFn func(ctx context.Context, p *model.Product, newBrand string) error
	updateListingFn func(ctx context.Context, p *model.Product, newBrand string) error
	productFn       func(ctx context.Context, id int64) (model.Product, error)
	setAvailableFn  func(ctx context.Context, productID int64, available bool) error
}

func (m *repoMock) User(ctx context.Context, id int64) (model.User, error) {
	return m.userFn(ctx, id)
}
func (m *repoMock) Categories(context.Context) ([]model.Category, error) {
	return []model.Category{{ID: 1, Name: "Tents", Kind: model.GearTent}}, nil
}
func (m *repoMock) Category(ctx context.Context, id int64) (model.Category, error) {
	return m.categoryFn(ctx, id)
}
func (m *repoMock) Brands(context.Context) ([]model.Brand, error) {
	return []model.Brand{{ID: 2, Name: "REI"}}, nil
}
func (m *repoMock) Brand(ctx context.Context, id int64) (model.Brand, error) {
	return m.brandFn(ctx, id)
}
func (m *repoMock) GearOptions(context.Context) (model.GearOptions, error) {
	return model.GearOptions{
		BestUses:  []model.BestUse{{ID: 1, Name: "Backpacking"}},
		FillTypes: []model.FillType{{Code: "D", Name: "Down"}},
		Genders:   []model.Gender{{Code: "U", Name: "Unisex"}},
		PadTypes:  []model.PadType{{Code: "A", Name: "Air"}},
	}, nil
}
func (m *repoMock) CreateListing(ctx context.Context, p *model.Product, newBrand string) error {
	return m.createListingFn(ctx, p, newBrand)
}
func (m *repoMock) UpdateListing(ctx context.Context, p *model.Product, newBrand string) error {
	return m.updateListingFn(ctx, p, newBrand)
}
func (m *repoMock) Product(ctx context.Context, id int64) (model.Product, error) {
	return m.productFn(ctx, id)
}
func (m *repoMock) SetAvailable(ctx context.Context, productID int64, available bool) error {
	return m.setAvailableFn(ctx, productID, available)
}

const (
	tents    int64 = 1
	bags     int64 = 4
	pads     int64 = 5
	stoves   int64 = 6
	inactive int64 = 9
)

func knownCatalog() *repoMock {
	categories := map[int64]model.Category{
		tents:  {ID: tents, Name: "Tents", Kind: model.GearTent},
		bags:   {ID: bags, Name: "Sleeping Bags", Kind: model.GearSleepingBag},
		pads:   {ID: pads, Name: "Sleeping Pads", Kind: model.GearSleepingPad},
		stoves: {ID: stoves, Name: "Stoves", Kind: model.GearOther},
	}
	return &repoMock{
		userFn: func(_ context.Context, id int64) (model.User, error) {
			switch id {
			case 7, 8:
				return model.User{ID: id, Active: true}, nil
			case inactive:
				return model.User{ID: id}, nil
			}
			return model.User{}, repository.ErrNotFound
		},
		categoryFn: func(_ context.Context, id int64) (model.Category, error) {
			c, ok := categories[id]
			if !ok {
				return model.Category{}, repository.ErrNotFound
			}
			return c, nil
		},
		brandFn: func(_ context.Context, id int64) (model.Brand, error) {
			if id != 2 {
				return model.Brand{}, repository.ErrNotFound
			}
			return model.Brand{ID: 2, Name: "REI"}, nil
		},
	}
}

func tent() listing.Listing {
	return listing.Listing{
		CategoryID:  tents,
		BrandID:     2,
		Model:       "Passage 2",
		Condition:   "Like new",
		PricePerDay: 8,
		AvailStart:  time.Date(2015, 11, 1, 0, 0, 0, 0, time.UTC),
		AvailEnd:    time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC),
		Specs: &model.Specs{Tent: &model.Tent{
			BestUseID: 1, SleepCapacity: 2, Seasons: 3, MinTrailWeight: 80,
		}},
	}
}

func Test_Create_Success(t *testing.T) {
	m := knownCatalog()
	m.createListingFn = func(_ context.Context, p *model.Product, newBrand string) error {
		assert.Empty(t, newBrand)
		p.ID = 42
		return nil
	}

	p, err := listing.New(m).Create(context.Background(), 7, tent())
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.ID)
	assert.Equal(t, int64(7), p.OwnerID)
	assert.Equal(t, int64(2), p.BrandID)
	assert.True(t, p.Available)
	require.NotNil(t, p.Specs)
	assert.Equal(t, 80, p.Specs.Tent.MinTrailWeight)
}

func Test_Create_NewBrandGoesWithTheProduct(t *testing.T) {
	m := knownCatalog()
	var created string
	m.createListingFn = func(_ context.Context, p *model.Product, newBrand string) error {
		created = newBrand
		p.BrandID = 9
		return nil
	}

	l := tent()
	l.BrandID = listing.NewBrand
	l.NewBrandName = " Nemo "

	p, err := listing.New(m).Create(context.Background(), 7, l)
	require.NoError(t, err)
	assert.Equal(t, "Nemo", created)
	assert.Equal(t, int64(9), p.BrandID)
}

func Test_Create_StoreError(t *testing.T) {
	m := knownCatalog()
	m.createListingFn = func(context.Context, *model.Product, string) error {
		return errors.New("insert product: connection reset")
	}

	l := tent()
	l.BrandID = listing.NewBrand
	l.NewBrandName = "Nemo"

	_, err := listing.New(m).Create(context.Background(), 7, l)
	require.Error(t, err)
	assert.Equal(t, listing.ErrCode(""), listing.Code(err))
}

func Test_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *listing.Listing)
	}{
		{"empty_model", func(l *listing.Listing) { l.Model = " " }},
		{"negative_price", func(l *listing.Listing) { l.PricePerDay = -1 }},
		{"end_before_start", func(l *listing.Listing) { l.AvailEnd = l.AvailStart.AddDate(0, 0, -1) }},
		{"missing_dates", func(l *listing.Listing) { l.AvailStart = time.Time{} }},
		{"unknown_category", func(l *listing.Listing) { l.CategoryID = 99 }},
		{"unknown_brand", func(l *listing.Listing) { l.BrandID = 99 }},
		{"new_brand_without_name", func(l *listing.Listing) { l.BrandID = listing.NewBrand }},
		{"tent_without_specs", func(l *listing.Listing) { l.Specs = nil }},
		{"tent_with_bag_specs", func(l *listing.Listing) {
			l.Specs = &model.Specs{SleepingBag: &model.SleepingBag{FillCode: "D", TempRating: 20}}
		}},
		{"tent_unknown_best_use", func(l *listing.Listing) { l.Specs.Tent.BestUseID = 42 }},
		{"tent_one_season", func(l *listing.Listing) { l.Specs.Tent.Seasons = 1 }},
		{"tent_sleeps_nobody", func(l *listing.Listing) { l.Specs.Tent.SleepCapacity = 0 }},
		{"stove_with_specs", func(l *listing.Listing) { l.CategoryID = stoves }},
		{"bag_unknown_fill", func(l *listing.Listing) {
			l.CategoryID = bags
			l.Specs = &model.Specs{SleepingBag: &model.SleepingBag{FillCode: "X", TempRating: 20}}
		}},
		{"pad_without_length", func(l *listing.Listing) {
			l.CategoryID = pads
			l.Specs = &model.Specs{SleepingPad: &model.SleepingPad{PadTypeCode: "A", BestUseID: 1, RValue: 3}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := knownCatalog()
			m.createListingFn = func(context.Context, *model.Product, string) error {
				t.Fatal("listing must not be created")
				return nil
			}
			l := tent()
			tt.mutate(&l)

			_, err := listing.New(m).Create(context.Background(), 7, l)
			require.Error(t, err)
			assert.Equal(t, listing.ErrBadInput, listing.Code(err))
		})
	}
}

func Test_Create_OtherCategoryTakesNoSpecs(t *testing.T) {
	m := knownCatalog()
	m.createListingFn = func(context.Context, *model.Product, string) error { return nil }

	l := tent()
	l.CategoryID = stoves
	l.Specs = &model.Specs{}

	p, err := listing.New(m).Create(context.Background(), 7, l)
	require.NoError(t, err)
	assert.Nil(t, p.Specs)
}

func Test_Create_InactiveOwner(t *testing.T) {
	for _, owner := range []int64{inactive, 404} {
		m := knownCatalog()
		m.createListingFn = func(context.Context, *model.Product, string) error {
			t.Fatal("listing must not be created")
			return nil
		}

		_, err := listing.New(m).Create(context.Background(), owner, tent())
		assert.Equal(t, listing.ErrInactive, listing.Code(err), "owner %d", owner)
	}
}

func Test_Update_RelistsOwnedProduct(t *testing.T) {
	m := knownCatalog()
	m.productFn = func(_ context.Context, id int64) (model.Product, error) {
		return model.Product{ID: id, OwnerID: 7, CategoryID: tents, Available: false, Model: "old"}, nil
	}
	var saved model.Product
	m.updateListingFn = func(_ context.Context, p *model.Product, newBrand string) error {
		assert.Empty(t, newBrand)
		saved = *p
		return nil
	}

	l := tent()
	l.PricePerDay = 12
	p, err := listing.New(m).Update(context.Background(), 7, 3, l)
	require.NoError(t, err)
	assert.Equal(t, saved, *p)
	assert.Equal(t, int64(3), saved.ID)
	assert.True(t, saved.Available)
	assert.Equal(t, 12.0, saved.PricePerDay)
	assert.Equal(t, "Passage 2", saved.Model)
	assert.Equal(t, 3, saved.Specs.Tent.Seasons)
}

func Test_Update_Errors(t *testing.T) {
	m := knownCatalog()
	m.productFn = func(_ context.Context, id int64) (model.Product, error) {
		switch id {
		case 404:
			return model.Product{}, repository.ErrNotFound
		case 5:
			return model.Product{ID: id, OwnerID: inactive, CategoryID: tents}, nil
		}
		return model.Product{ID: id, OwnerID: 7, CategoryID: tents}, nil
	}
	m.updateListingFn = func(context.Context, *model.Product, string) error {
		t.Fatal("listing must not be updated")
		return nil
	}
	s := listing.New(m)

	_, err := s.Update(context.Background(), 8, 3, tent())
	assert.Equal(t, listing.ErrNotOwner, listing.Code(err))

	_, err = s.Update(context.Background(), 7, 404, tent())
	assert.Equal(t, listing.ErrNotFound, listing.Code(err))

	_, err = s.Update(context.Background(), inactive, 5, tent())
	assert.Equal(t, listing.ErrInactive, listing.Code(err))

	l := tent()
	l.CategoryID = stoves
	l.Specs = nil
	_, err = s.Update(context.Background(), 7, 3, l)
	assert.Equal(t, listing.ErrBadInput, listing.Code(err))
}

func Test_Update_RemovedUnderneath(t *testing.T) {
	m := knownCatalog()
	m.productFn = func(_ context.Context, id int64) (model.Product, error) {
		return model.Product{ID: id, OwnerID: 7, CategoryID: tents}, nil
	}
	m.updateListingFn = func(context.Context, *model.Product, string) error {
		return repository.ErrNotFound
	}

	_, err := listing.New(m).Update(context.Background(), 7, 3, tent())
	assert.Equal(t, listing.ErrNotFound, listing.Code(err))
}

func Test_Delist(t *testing.T) {
	m := knownCatalog()
	m.productFn = func(_ context.Context, id int64) (model.Product, error) {
		return model.Product{ID: id, OwnerID: 7, Available: true}, nil
	}
	calls := 0
	m.setAvailableFn = func(_ context.Context, productID int64, available bool) error {
		calls++
		assert.Equal(t, int64(3), productID)
		assert.False(t, available)
		return nil
	}
	s := listing.New(m)

	require.NoError(t, s.Delist(context.Background(), 7, 3))
	assert.Equal(t, listing.ErrNotOwner, listing.Code(s.Delist(context.Background(), 8, 3)))
	assert.Equal(t, 1, calls)
}

func Test_Get(t *testing.T) {
	m := &repoMock{productFn: func(_ context.Context, id int64) (model.Product, error) {
		switch id {
		case 3:
			return model.Product{ID: 3}, nil
		case 4:
			return model.Product{}, errors.New("connection reset")
		}
		return model.Product{}, repository.ErrNotFound
	}}
	s := listing.New(m)

	p, err := s.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)

	_, err = s.Get(context.Background(), 5)
	assert.Equal(t, listing.ErrNotFound, listing.Code(err))

	_, err = s.Get(context.Background(), 4)
	require.Error(t, err)
	assert.Equal(t, listing.ErrCode(""), listing.Code(err))
}

func Test_Catalog(t *testing.T) {
	c, err := listing.New(&repoMock{}).Catalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, c.Categories, 1)
	assert.Len(t, c.Brands, 1)
	assert.Len(t, c.Gear.BestUses, 1)
	assert.Len(t, c.Gear.PadTypes, 1)
}
