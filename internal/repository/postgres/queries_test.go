package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomhuang/happycamper/internal/model"
)

func Test_Queries(t *testing.T) {
	day := time.Date(2015, 11, 20, 0, 0, 0, 0, time.UTC)
	submission := uuid.MustParse("9b2f6f2c-6a55-4d7e-9a53-0a3b4b5c6d7e")

	tests := []struct {
		name     string
		build    func() (query, error)
		contains []string
		args     []any
	}{
		{
			name:     "users_in_postal_codes",
			build:    func() (query, error) { return selectUsersInPostalCodes([]string{"94612", "94109"}) },
			contains: []string{`FROM "users"`, `"postal_code" IN ($1, $2)`, `ORDER BY "id" ASC`},
			args:     []any{"94612", "94109"},
		},
		{
			name:     "postal_codes_in_use",
			build:    selectPostalCodesInUse,
			contains: []string{`SELECT DISTINCT "postal_code" FROM "users"`, `ORDER BY "postal_code" ASC`},
		},
		{
			name:     "products_by_owners",
			build:    func() (query, error) { return selectProductsByOwners([]int64{3, 5}) },
			contains: []string{`FROM "products"`, `"owner_id" IN ($1, $2)`},
			args:     []any{int64(3), int64(5)},
		},
		{
			name:     "take_product_only_when_available",
			build:    func() (query, error) { return takeProduct(7) },
			contains: []string{`UPDATE "products" SET "available"=`, `"available" IS TRUE`},
		},
		{
			name:     "upsert_brand",
			build:    func() (query, error) { return upsertBrand("Nemo") },
			contains: []string{`INSERT INTO "brands" ("name") VALUES ($1)`, `ON CONFLICT (name) DO UPDATE`, `RETURNING "id"`},
			args:     []any{"Nemo"},
		},
		{
			name:     "category_by_id",
			build:    func() (query, error) { id := int64(2); return selectCategories(&id) },
			contains: []string{`FROM "categories"`, `"id" = $1`},
			args:     []any{int64(2)},
		},
		{
			name: "insert_history",
			build: func() (query, error) {
				return insertHistory(model.RentalHistory{ProductID: 1, RenterID: 2, SubmittedAt: day, Start: day, End: day, Cost: 48})
			},
			contains: []string{`INSERT INTO "rental_histories"`, `RETURNING "id"`},
		},
		{
			name:     "histories_latest_first",
			build:    func() (query, error) { return selectHistoriesByRenter(2) },
			contains: []string{`"renter_id" = $1`, `ORDER BY "submitted_at" DESC, "id" ASC`},
			args:     []any{int64(2)},
		},
		{
			name:     "lock_rating_link",
			build:    func() (query, error) { return lockRatingLink(9, ratingLinkCols[model.RateOwner]) },
			contains: []string{`SELECT "owner_rating_id" FROM "rental_histories"`, `FOR UPDATE`},
			args:     []any{int64(9)},
		},
		{
			name:     "set_rating_link_never_overwrites",
			build:    func() (query, error) { return setRatingLink(9, ratingLinkCols[model.RateProduct], 4) },
			contains: []string{`UPDATE "rental_histories" SET "product_rating_id"=$1`, `"product_rating_id" IS NULL`},
			args:     []any{int64(4), int64(9)},
		},
		{
			name:     "rating_by_submission",
			build:    func() (query, error) { return selectRatingBySubmission(model.Rating{SubmissionID: submission}) },
			contains: []string{`FROM "ratings"`, `"submission_id" = $1`},
			args:     []any{submission.String()},
		},
		{
			name:     "user_by_email_ignores_case",
			build:    func() (query, error) { return selectUserByEmail("Trix@Rabbit.com") },
			contains: []string{`"password_hash"`, `lower("email") = $1`},
			args:     []any{"trix@rabbit.com"},
		},
		{
			name:     "insert_user_skips_taken_email",
			build:    func() (query, error) { return insertUser(model.User{Email: "trix@rabbit.com"}) },
			contains: []string{`INSERT INTO "users"`, `ON CONFLICT DO NOTHING`, `RETURNING "id"`},
		},
		{
			name:     "categories_with_kind",
			build:    func() (query, error) { return selectCategories(nil) },
			contains: []string{`SELECT "id", "name", "kind" FROM "categories"`},
		},
		{
			name:     "gear_codes",
			build:    func() (query, error) { return selectCodes(tableFillTypes) },
			contains: []string{`SELECT "code", "name" FROM "fill_types"`, `ORDER BY "code" ASC`},
		},
		{
			name:     "tent_specs",
			build:    func() (query, error) { return selectSpecs(tableTents, tentCols, 3) },
			contains: []string{`"min_trail_weight"`, `FROM "tents"`, `"product_id" = $1`},
			args:     []any{int64(3)},
		},
		{
			name:     "clear_specs",
			build:    func() (query, error) { return deleteSpecs(tableSleepingPads, 3) },
			contains: []string{`DELETE FROM "sleeping_pads"`, `"product_id" = $1`},
			args:     []any{int64(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := tt.build()
			require.NoError(t, err)
			for _, fragment := range tt.contains {
				assert.Contains(t, q.sql, fragment)
			}
			if tt.args != nil {
				assert.Equal(t, tt.args, q.args)
			}
		})
	}
}

func Test_RatingLinkCols_CoverEveryTarget(t *testing.T) {
	for _, target := range []model.RatingTarget{model.RateOwner, model.RateRenter, model.RateProduct} {
		col, ok := ratingLinkCols[target]
		assert.True(t, ok, target)
		assert.Equal(t, string(target)+"_rating_id", col)
	}
}

func Test_InsertSpecs(t *testing.T) {
	width := 52
	tests := []struct {
		name     string
		specs    *model.Specs
		ok       bool
		contains []string
	}{
		{name: "none", specs: nil},
		{name: "empty", specs: &model.Specs{}},
		{
			name:     "tent",
			specs:    &model.Specs{Tent: &model.Tent{BestUseID: 1, SleepCapacity: 2, Seasons: 3, MinTrailWeight: 76, FloorWidth: &width}},
			ok:       true,
			contains: []string{`INSERT INTO "tents"`, `"product_id"`, `"floor_width"`},
		},
		{
			name:     "sleeping_bag",
			specs:    &model.Specs{SleepingBag: &model.SleepingBag{FillCode: "D", TempRating: 20}},
			ok:       true,
			contains: []string{`INSERT INTO "sleeping_bags"`, `"fill_code"`, `"gender_code"`},
		},
		{
			name:     "sleeping_pad",
			specs:    &model.Specs{SleepingPad: &model.SleepingPad{PadTypeCode: "A", BestUseID: 1, RValue: 3.2, Length: 72}},
			ok:       true,
			contains: []string{`INSERT INTO "sleeping_pads"`, `"r_value"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok, err := insertSpecs(9, tt.specs)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			for _, fragment := range tt.contains {
				assert.Contains(t, q.sql, fragment)
			}
			if ok {
				assert.Contains(t, q.args, int64(9))
			}
		})
	}
}
