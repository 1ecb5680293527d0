// Command postalcodes loads the geonames US postal code dump into the
// postal_codes table, so searches rarely need the online geocoder.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/thomhuang/happycamper/internal/config"
	"github.com/thomhuang/happycamper/internal/database"
	"github.com/thomhuang/happycamper/internal/geocode"
	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/repository/postgres"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	if cfg.Memory() {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error("import failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.App, log *slog.Logger) error {
	// uses the cached archive when there is one
	rows, err := geocode.LoadGeonames(ctx, geocode.Client(), cfg.GeonamesURL, cfg.GeonamesCache, log)
	if err != nil {
		return err
	}
	log.Info("geonames parsed", "rows", len(rows))

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	pool, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	locs := make([]model.PostalCodeLocation, 0, len(rows))
	for _, row := range rows {
		locs = append(locs, row.Location())
	}

	added, err := postgres.NewPostalCodes(pool).Import(ctx, locs)
	if err != nil {
		return err
	}
	log.Info("postal codes imported", "rows", len(locs), "added", added)
	return nil
}
