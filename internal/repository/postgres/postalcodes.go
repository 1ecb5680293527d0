package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/postalcode"
)

const (
	sqlGetPostalCode  = `SELECT code, latitude, longitude FROM postal_codes WHERE code = $1`
	sqlSavePostalCode = `INSERT INTO postal_codes (code, latitude, longitude) VALUES ($1, $2, $3) ON CONFLICT (code) DO NOTHING`
	sqlCreateStaging  = `CREATE TEMP TABLE postal_codes_staging (LIKE postal_codes INCLUDING DEFAULTS) ON COMMIT DROP`
	sqlMergeStaging   = `INSERT INTO postal_codes (code, latitude, longitude)
SELECT DISTINCT ON (code) code, latitude, longitude FROM postal_codes_staging
ON CONFLICT (code) DO NOTHING`
)

var postalCodeCols = []string{"code", "latitude", "longitude"}

// PostalCodes is the postal code cache. Rows are written once and never
// updated.
type PostalCodes struct {
	pool *pgxpool.Pool
}

func NewPostalCodes(pool *pgxpool.Pool) *PostalCodes {
	return &PostalCodes{pool: pool}
}

func (p *PostalCodes) Get(ctx context.Context, code string) (model.PostalCodeLocation, error) {
	var loc model.PostalCodeLocation
	err := p.pool.QueryRow(ctx, sqlGetPostalCode, code).Scan(&loc.Code, &loc.Latitude, &loc.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PostalCodeLocation{}, postalcode.ErrNotFound
		}
		return model.PostalCodeLocation{}, err
	}
	return loc, nil
}

func (p *PostalCodes) Save(ctx context.Context, loc model.PostalCodeLocation) error {
	_, err := p.pool.Exec(ctx, sqlSavePostalCode, loc.Code, loc.Latitude, loc.Longitude)
	return err
}

// Import bulk loads locs through a staging table and adds the codes the
// cache does not hold yet. It returns how many rows were added.
func (p *PostalCodes) Import(ctx context.Context, locs []model.PostalCodeLocation) (added int64, err error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, sqlCreateStaging); err != nil {
		return 0, fmt.Errorf("create staging: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"postal_codes_staging"}, postalCodeCols,
		pgx.CopyFromSlice(len(locs), func(i int) ([]any, error) {
			return []any{locs[i].Code, locs[i].Latitude, locs[i].Longitude}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("copy: %w", err)
	}

	tag, err := tx.Exec(ctx, sqlMergeStaging)
	if err != nil {
		return 0, fmt.Errorf("merge: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
