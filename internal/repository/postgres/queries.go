// Package postgres stores the marketplace and the postal code cache in
// Postgres. Marketplace queries are built with goqu and run through sqlx;
// postal codes go through a pgx pool.
package postgres

import (
	"errors"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/thomhuang/happycamper/internal/model"
)

var ErrBuildingQuery = errors.New("building query failed")

const (
	dialectPostgres = "postgres"

	tableUsers      = "users"
	tableCategories = "categories"
	tableBrands     = "brands"
	tableProducts   = "products"
	tableHistories  = "rental_histories"
	tableRatings    = "ratings"

	tableBestUses     = "best_uses"
	tableFillTypes    = "fill_types"
	tableGenders      = "genders"
	tablePadTypes     = "pad_types"
	tableTents        = "tents"
	tableSleepingBags = "sleeping_bags"
	tableSleepingPads = "sleeping_pads"

	colID          = "id"
	colName        = "name"
	colCode        = "code"
	colKind        = "kind"
	colEmail       = "email"
	colActive      = "active"
	colPostalCode  = "postal_code"
	colOwnerID     = "owner_id"
	colAvailable   = "available"
	colProductID   = "product_id"
	colRenterID    = "renter_id"
	colSubmission  = "submission_id"
	colSubmittedAt = "submitted_at"
)

var (
	builder = goqu.Dialect(dialectPostgres)

	userCols    = []any{"id", "active", "first_name", "last_name", "street", "city", "region", "postal_code", "phone", "email"}
	productCols = []any{"id", "category_id", "brand_id", "owner_id", "available", "model", "condition", "description", "price_per_day", "avail_start", "avail_end", "image_url"}
	historyCols = []any{"id", "product_id", "renter_id", "submitted_at", "start_date", "end_date", "cost", "owner_rating_id", "renter_rating_id", "product_rating_id"}
	ratingCols  = []any{"id", "submission_id", "stars", "comments"}

	tentCols        = []any{"best_use_id", "sleep_capacity", "seasons", "min_trail_weight", "floor_width", "floor_length", "doors", "poles"}
	sleepingBagCols = []any{"fill_code", "temp_rating", "weight", "length", "gender_code"}
	sleepingPadCols = []any{"pad_type_code", "best_use_id", "r_value", "length", "weight", "width"}

	specTables = []string{tableTents, tableSleepingBags, tableSleepingPads}

	ratingLinkCols = map[model.RatingTarget]string{
		model.RateOwner:   "owner_rating_id",
		model.RateRenter:  "renter_rating_id",
		model.RateProduct: "product_rating_id",
	}
)

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

type query struct {
	sql  string
	args []any
}

func build(b sqlBuilder) (query, error) {
	q, args, err := b.ToSQL()
	if err != nil {
		return query{}, errors.Join(ErrBuildingQuery, err)
	}
	return query{sql: q, args: args}, nil
}

// users

func selectUser(id int64) (query, error) {
	return build(builder.From(tableUsers).Select(userCols...).
		Where(goqu.C(colID).Eq(id)).Prepared(true))
}

// selectUserByEmail is the only user query that reads the password hash.
func selectUserByEmail(email string) (query, error) {
	cols := append(append([]any{}, userCols...), "password_hash")
	return build(builder.From(tableUsers).Select(cols...).
		Where(goqu.Func("lower", goqu.C(colEmail)).Eq(strings.ToLower(email))).Prepared(true))
}

// insertUser returns no row when the email is taken.
func insertUser(u model.User) (query, error) {
	return build(builder.Insert(tableUsers).Rows(goqu.Record{
		"active":        u.Active,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"street":        u.Street,
		"city":          u.City,
		"region":        u.Region,
		"postal_code":   u.PostalCode,
		"phone":         u.Phone,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
	}).OnConflict(goqu.DoNothing()).Returning(colID).Prepared(true))
}

func selectPostalCodesInUse() (query, error) {
	return build(builder.From(tableUsers).Select(goqu.C(colPostalCode)).Distinct().
		Order(goqu.I(colPostalCode).Asc()))
}

func selectUsersInPostalCodes(codes []string) (query, error) {
	return build(builder.From(tableUsers).Select(userCols...).
		Where(goqu.C(colPostalCode).In(codes)).
		Order(goqu.I(colID).Asc()).Prepared(true))
}

func deactivateUser(id int64) (query, error) {
	return build(builder.Update(tableUsers).Set(goqu.Record{colActive: false}).
		Where(goqu.C(colID).Eq(id)).Prepared(true))
}

func delistOwner(ownerID int64) (query, error) {
	return build(builder.Update(tableProducts).Set(goqu.Record{colAvailable: false}).
		Where(goqu.C(colOwnerID).Eq(ownerID)).Prepared(true))
}

// catalog

func selectCategories(id *int64) (query, error) {
	ds := builder.From(tableCategories).Select(colID, colName, colKind).Order(goqu.I(colID).Asc())
	if id != nil {
		ds = ds.Where(goqu.C(colID).Eq(*id))
	}
	return build(ds.Prepared(true))
}

func selectBrands(id *int64) (query, error) {
	ds := builder.From(tableBrands).Select(colID, colName).Order(goqu.I(colID).Asc())
	if id != nil {
		ds = ds.Where(goqu.C(colID).Eq(*id))
	}
	return build(ds.Prepared(true))
}

// upsertBrand returns the id of the brand called name whether or not it
// existed before.
func upsertBrand(name string) (query, error) {
	return build(builder.Insert(tableBrands).Rows(goqu.Record{colName: name}).
		OnConflict(goqu.DoUpdate(colName, goqu.Record{colName: goqu.L("EXCLUDED.name")})).
		Returning(colID).Prepared(true))
}

func selectBestUses() (query, error) {
	return build(builder.From(tableBestUses).Select(colID, colName).Order(goqu.I(colID).Asc()))
}

// selectCodes reads one of the code/name lookup tables.
func selectCodes(table string) (query, error) {
	return build(builder.From(table).Select(colCode, colName).Order(goqu.I(colCode).Asc()))
}

// products

func productRecord(p model.Product) goqu.Record {
	return goqu.Record{
		"category_id":   p.CategoryID,
		"brand_id":      p.BrandID,
		"owner_id":      p.OwnerID,
		"available":     p.Available,
		"model":         p.Model,
		"condition":     p.Condition,
		"description":   p.Description,
		"price_per_day": p.PricePerDay,
		"avail_start":   p.AvailStart,
		"avail_end":     p.AvailEnd,
		"image_url":     p.ImageURL,
	}
}

func insertProduct(p model.Product) (query, error) {
	return build(builder.Insert(tableProducts).Rows(productRecord(p)).
		Returning(colID).Prepared(true))
}

func updateProduct(p model.Product) (query, error) {
	return build(builder.Update(tableProducts).Set(productRecord(p)).
		Where(goqu.C(colID).Eq(p.ID)).Prepared(true))
}

func selectProduct(id int64) (query, error) {
	return build(builder.From(tableProducts).Select(productCols...).
		Where(goqu.C(colID).Eq(id)).Prepared(true))
}

// specs

func selectSpecs(table string, cols []any, productID int64) (query, error) {
	return build(builder.From(table).Select(cols...).
		Where(goqu.C(colProductID).Eq(productID)).Prepared(true))
}

func deleteSpecs(table string, productID int64) (query, error) {
	return build(builder.Delete(table).
		Where(goqu.C(colProductID).Eq(productID)).Prepared(true))
}

// insertSpecs writes the row for whichever kind specs holds. It returns
// ok false when specs holds none.
func insertSpecs(productID int64, specs *model.Specs) (q query, ok bool, err error) {
	var table string
	var rec goqu.Record
	switch {
	case specs == nil:
		return query{}, false, nil
	case specs.Tent != nil:
		t := specs.Tent
		table, rec = tableTents, goqu.Record{
			"best_use_id":      t.BestUseID,
			"sleep_capacity":   t.SleepCapacity,
			"seasons":          t.Seasons,
			"min_trail_weight": t.MinTrailWeight,
			"floor_width":      t.FloorWidth,
			"floor_length":     t.FloorLength,
			"doors":            t.Doors,
			"poles":            t.Poles,
		}
	case specs.SleepingBag != nil:
		b := specs.SleepingBag
		table, rec = tableSleepingBags, goqu.Record{
			"fill_code":   b.FillCode,
			"temp_rating": b.TempRating,
			"weight":      b.Weight,
			"length":      b.Length,
			"gender_code": b.GenderCode,
		}
	case specs.SleepingPad != nil:
		p := specs.SleepingPad
		table, rec = tableSleepingPads, goqu.Record{
			"pad_type_code": p.PadTypeCode,
			"best_use_id":   p.BestUseID,
			"r_value":       p.RValue,
			"length":        p.Length,
			"weight":        p.Weight,
			"width":         p.Width,
		}
	default:
		return query{}, false, nil
	}
	rec[colProductID] = productID
	q, err = build(builder.Insert(table).Rows(rec).Prepared(true))
	return q, err == nil, err
}

func selectProductsByOwners(ownerIDs []int64) (query, error) {
	return build(builder.From(tableProducts).Select(productCols...).
		Where(goqu.C(colOwnerID).In(ownerIDs)).
		Order(goqu.I(colID).Asc()).Prepared(true))
}

func setAvailable(id int64, available bool) (query, error) {
	return build(builder.Update(tableProducts).Set(goqu.Record{colAvailable: available}).
		Where(goqu.C(colID).Eq(id)).Prepared(true))
}

// takeProduct flips an available product to unavailable. It affects no
// row when the product is already gone.
func takeProduct(id int64) (query, error) {
	return build(builder.Update(tableProducts).Set(goqu.Record{colAvailable: false}).
		Where(goqu.C(colID).Eq(id), goqu.C(colAvailable).IsTrue()).Prepared(true))
}

// histories

func insertHistory(h model.RentalHistory) (query, error) {
	return build(builder.Insert(tableHistories).Rows(goqu.Record{
		"product_id":   h.ProductID,
		"renter_id":    h.RenterID,
		"submitted_at": h.SubmittedAt,
		"start_date":   h.Start,
		"end_date":     h.End,
		"cost":         h.Cost,
	}).Returning(colID).Prepared(true))
}

func selectHistories(where ...exp.Expression) (query, error) {
	return build(builder.From(tableHistories).Select(historyCols...).
		Where(where...).
		Order(goqu.I(colSubmittedAt).Desc(), goqu.I(colID).Asc()).Prepared(true))
}

func selectHistory(id int64) (query, error) {
	return selectHistories(goqu.C(colID).Eq(id))
}

func selectHistoriesForProducts(productIDs []int64) (query, error) {
	return selectHistories(goqu.C(colProductID).In(productIDs))
}

func selectHistoriesByRenter(renterID int64) (query, error) {
	return selectHistories(goqu.C(colRenterID).Eq(renterID))
}

// lockRatingLink reads the link column of a history and holds the row
// until the transaction ends.
func lockRatingLink(historyID int64, col string) (query, error) {
	return build(builder.From(tableHistories).Select(goqu.C(col)).
		Where(goqu.C(colID).Eq(historyID)).
		ForUpdate(exp.Wait).Prepared(true))
}

func setRatingLink(historyID int64, col string, ratingID int64) (query, error) {
	return build(builder.Update(tableHistories).Set(goqu.Record{col: ratingID}).
		Where(goqu.C(colID).Eq(historyID), goqu.C(col).IsNull()).Prepared(true))
}

// ratings

func selectRatingBySubmission(r model.Rating) (query, error) {
	return build(builder.From(tableRatings).Select(colID).
		Where(goqu.C(colSubmission).Eq(r.SubmissionID.String())).Prepared(true))
}

func insertRating(r model.Rating) (query, error) {
	return build(builder.Insert(tableRatings).Rows(goqu.Record{
		"submission_id": r.SubmissionID.String(),
		"stars":         r.Stars,
		"comments":      r.Comments,
	}).Returning(colID).Prepared(true))
}

func selectRatings(ids []int64) (query, error) {
	return build(builder.From(tableRatings).Select(ratingCols...).
		Where(goqu.C(colID).In(ids)).
		Order(goqu.I(colID).Asc()).Prepared(true))
}
