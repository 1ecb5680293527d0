package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/repository"
)

var errUnknownTarget = errors.New("unknown rating target")

type Marketplace struct {
	db *sqlx.DB
}

func NewMarketplace(db *sqlx.DB) *Marketplace {
	return &Marketplace{db: db}
}

func (m *Marketplace) get(ctx context.Context, dest any, build func() (query, error)) error {
	q, err := build()
	if err != nil {
		return err
	}
	if err := m.db.GetContext(ctx, dest, q.sql, q.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (m *Marketplace) selectAll(ctx context.Context, dest any, build func() (query, error)) error {
	q, err := build()
	if err != nil {
		return err
	}
	return m.db.SelectContext(ctx, dest, q.sql, q.args...)
}

// inTx runs fn in a transaction that is rolled back when fn fails.
func (m *Marketplace) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func exec(ctx context.Context, tx *sqlx.Tx, q query, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, q.sql, q.args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// getTx is get inside a transaction.
func getTx(ctx context.Context, tx *sqlx.Tx, dest any, q query, err error) error {
	if err != nil {
		return err
	}
	if err := tx.GetContext(ctx, dest, q.sql, q.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// Users

// CreateUser stores u. A taken email yields ErrConflict.
func (m *Marketplace) CreateUser(ctx context.Context, u *model.User) error {
	err := m.get(ctx, &u.ID, func() (query, error) { return insertUser(*u) })
	if errors.Is(err, repository.ErrNotFound) {
		return repository.ErrConflict
	}
	return err
}

func (m *Marketplace) UserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := m.get(ctx, &u, func() (query, error) { return selectUserByEmail(email) })
	return u, err
}

func (m *Marketplace) User(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := m.get(ctx, &u, func() (query, error) { return selectUser(id) })
	return u, err
}

func (m *Marketplace) PostalCodesInUse(ctx context.Context) ([]string, error) {
	codes := []string{}
	err := m.selectAll(ctx, &codes, selectPostalCodesInUse)
	return codes, err
}

func (m *Marketplace) UsersInPostalCodes(ctx context.Context, codes []string) ([]model.User, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var users []model.User
	err := m.selectAll(ctx, &users, func() (query, error) { return selectUsersInPostalCodes(codes) })
	return users, err
}

func (m *Marketplace) Deactivate(ctx context.Context, userID int64) error {
	return m.inTx(ctx, func(tx *sqlx.Tx) error {
		q, err := delistOwner(userID)
		if _, err = exec(ctx, tx, q, err); err != nil {
			return fmt.Errorf("delist products: %w", err)
		}

		q, err = deactivateUser(userID)
		n, err := exec(ctx, tx, q, err)
		if err != nil {
			return fmt.Errorf("deactivate user: %w", err)
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// Catalog

func (m *Marketplace) Categories(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	err := m.selectAll(ctx, &categories, func() (query, error) { return selectCategories(nil) })
	return categories, err
}

func (m *Marketplace) Category(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := m.get(ctx, &c, func() (query, error) { return selectCategories(&id) })
	return c, err
}

func (m *Marketplace) Brands(ctx context.Context) ([]model.Brand, error) {
	brands := []model.Brand{}
	err := m.selectAll(ctx, &brands, func() (query, error) { return selectBrands(nil) })
	return brands, err
}

func (m *Marketplace) Brand(ctx context.Context, id int64) (model.Brand, error) {
	var b model.Brand
	err := m.get(ctx, &b, func() (query, error) { return selectBrands(&id) })
	return b, err
}

func (m *Marketplace) GearOptions(ctx context.Context) (model.GearOptions, error) {
	options := model.GearOptions{
		BestUses:  []model.BestUse{},
		FillTypes: []model.FillType{},
		Genders:   []model.Gender{},
		PadTypes:  []model.PadType{},
	}
	if err := m.selectAll(ctx, &options.BestUses, selectBestUses); err != nil {
		return model.GearOptions{}, fmt.Errorf("best uses: %w", err)
	}
	lookups := []struct {
		table string
		dest  any
	}{
		{tableFillTypes, &options.FillTypes},
		{tableGenders, &options.Genders},
		{tablePadTypes, &options.PadTypes},
	}
	for _, l := range lookups {
		if err := m.selectAll(ctx, l.dest, func() (query, error) { return selectCodes(l.table) }); err != nil {
			return model.GearOptions{}, fmt.Errorf("%s: %w", l.table, err)
		}
	}
	return options, nil
}

// Products

// brandTx points p at newBrand, creating the brand when it does not exist.
func brandTx(ctx context.Context, tx *sqlx.Tx, p *model.Product, newBrand string) error {
	if newBrand == "" {
		return nil
	}
	q, err := upsertBrand(newBrand)
	if err := getTx(ctx, tx, &p.BrandID, q, err); err != nil {
		return fmt.Errorf("brand %q: %w", newBrand, err)
	}
	return nil
}

func specsTx(ctx context.Context, tx *sqlx.Tx, p *model.Product) error {
	q, ok, err := insertSpecs(p.ID, p.Specs)
	if err != nil || !ok {
		return err
	}
	if _, err := exec(ctx, tx, q, nil); err != nil {
		return fmt.Errorf("insert specs: %w", err)
	}
	return nil
}

// CreateListing stores the brand if new, the product and its specs in one
// transaction.
func (m *Marketplace) CreateListing(ctx context.Context, p *model.Product, newBrand string) error {
	return m.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := brandTx(ctx, tx, p, newBrand); err != nil {
			return err
		}
		q, err := insertProduct(*p)
		if err := getTx(ctx, tx, &p.ID, q, err); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		return specsTx(ctx, tx, p)
	})
}

// UpdateListing replaces the product row and its specs in one transaction.
func (m *Marketplace) UpdateListing(ctx context.Context, p *model.Product, newBrand string) error {
	return m.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := brandTx(ctx, tx, p, newBrand); err != nil {
			return err
		}
		q, err := updateProduct(*p)
		n, err := exec(ctx, tx, q, err)
		if err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		for _, table := range specTables {
			q, err := deleteSpecs(table, p.ID)
			if _, err := exec(ctx, tx, q, err); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return specsTx(ctx, tx, p)
	})
}

// Product returns the product with its specs.
func (m *Marketplace) Product(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	if err := m.get(ctx, &p, func() (query, error) { return selectProduct(id) }); err != nil {
		return model.Product{}, err
	}
	specs, err := m.specs(ctx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("specs of product %d: %w", id, err)
	}
	p.Specs = specs
	return p, nil
}

// specs looks the product up in every specs table; nil means none has it.
func (m *Marketplace) specs(ctx context.Context, productID int64) (*model.Specs, error) {
	var tent model.Tent
	var bag model.SleepingBag
	var pad model.SleepingPad
	reads := []struct {
		table string
		cols  []any
		dest  any
		set   func(s *model.Specs)
	}{
		{tableTents, tentCols, &tent, func(s *model.Specs) { s.Tent = &tent }},
		{tableSleepingBags, sleepingBagCols, &bag, func(s *model.Specs) { s.SleepingBag = &bag }},
		{tableSleepingPads, sleepingPadCols, &pad, func(s *model.Specs) { s.SleepingPad = &pad }},
	}

	for _, r := range reads {
		err := m.get(ctx, r.dest, func() (query, error) { return selectSpecs(r.table, r.cols, productID) })
		switch {
		case err == nil:
			specs := &model.Specs{}
			r.set(specs)
			return specs, nil
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}
	return nil, nil
}

func (m *Marketplace) SetAvailable(ctx context.Context, productID int64, available bool) error {
	return m.inTx(ctx, func(tx *sqlx.Tx) error {
		q, err := setAvailable(productID, available)
		n, err := exec(ctx, tx, q, err)
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (m *Marketplace) ProductsByOwner(ctx context.Context, ownerID int64) ([]model.Product, error) {
	return m.ProductsByOwners(ctx, []int64{ownerID})
}

func (m *Marketplace) ProductsByOwners(ctx context.Context, ownerIDs []int64) ([]model.Product, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	var products []model.Product
	err := m.selectAll(ctx, &products, func() (query, error) { return selectProductsByOwners(ownerIDs) })
	return products, err
}

// Histories

// CreateRental takes the product off the market and stores h in one
// transaction. A product someone else took first yields ErrConflict.
func (m *Marketplace) CreateRental(ctx context.Context, h *model.RentalHistory) error {
	return m.inTx(ctx, func(tx *sqlx.Tx) error {
		q, err := takeProduct(h.ProductID)
		n, err := exec(ctx, tx, q, err)
		if err != nil {
			return fmt.Errorf("take product: %w", err)
		}
		if n == 0 {
			if _, err := m.Product(ctx, h.ProductID); err != nil {
				return err
			}
			return repository.ErrConflict
		}

		q, err = insertHistory(*h)
		if err != nil {
			return err
		}
		return tx.GetContext(ctx, &h.ID, q.sql, q.args...)
	})
}

func (m *Marketplace) History(ctx context.Context, id int64) (model.RentalHistory, error) {
	var h model.RentalHistory
	err := m.get(ctx, &h, func() (query, error) { return selectHistory(id) })
	return h, err
}

func (m *Marketplace) HistoriesForProducts(ctx context.Context, productIDs []int64) ([]model.RentalHistory, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var hs []model.RentalHistory
	err := m.selectAll(ctx, &hs, func() (query, error) { return selectHistoriesForProducts(productIDs) })
	return hs, err
}

func (m *Marketplace) HistoriesByProduct(ctx context.Context, productID int64) ([]model.RentalHistory, error) {
	return m.HistoriesForProducts(ctx, []int64{productID})
}

func (m *Marketplace) HistoriesByRenter(ctx context.Context, renterID int64) ([]model.RentalHistory, error) {
	var hs []model.RentalHistory
	err := m.selectAll(ctx, &hs, func() (query, error) { return selectHistoriesByRenter(renterID) })
	return hs, err
}

// Ratings

// AttachRating stores r and links it to the history. The history row is
// locked first, so a retried submission racing the first one sees the
// committed rating and gets its id back. A link that is already set is
// never replaced.
func (m *Marketplace) AttachRating(ctx context.Context, historyID int64, target model.RatingTarget, r *model.Rating) (int64, error) {
	col, ok := ratingLinkCols[target]
	if !ok {
		return 0, errUnknownTarget
	}

	var id int64
	err := m.inTx(ctx, func(tx *sqlx.Tx) error {
		q, err := lockRatingLink(historyID, col)
		if err != nil {
			return err
		}
		var link sql.NullInt64
		if err := tx.GetContext(ctx, &link, q.sql, q.args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repository.ErrNotFound
			}
			return fmt.Errorf("lock history: %w", err)
		}

		q, err = selectRatingBySubmission(*r)
		if err != nil {
			return err
		}
		err = tx.GetContext(ctx, &id, q.sql, q.args...)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("find submission: %w", err)
		}

		if link.Valid {
			return repository.ErrConflict
		}

		q, err = insertRating(*r)
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &id, q.sql, q.args...); err != nil {
			return fmt.Errorf("insert rating: %w", err)
		}

		q, err = setRatingLink(historyID, col, id)
		n, err := exec(ctx, tx, q, err)
		if err != nil {
			return fmt.Errorf("link rating: %w", err)
		}
		if n == 0 {
			return repository.ErrConflict
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

func (m *Marketplace) Ratings(ctx context.Context, ids []int64) ([]model.Rating, error) {
	ratings := []model.Rating{}
	if len(ids) == 0 {
		return ratings, nil
	}
	err := m.selectAll(ctx, &ratings, func() (query, error) { return selectRatings(ids) })
	return ratings, err
}
