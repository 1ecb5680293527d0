package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thomhuang/happycamper/internal/account"
	"github.com/thomhuang/happycamper/internal/auth"
	"github.com/thomhuang/happycamper/internal/config"
	"github.com/thomhuang/happycamper/internal/database"
	"github.com/thomhuang/happycamper/internal/geocode"
	"github.com/thomhuang/happycamper/internal/httpapi"
	"github.com/thomhuang/happycamper/internal/listing"
	"github.com/thomhuang/happycamper/internal/postalcode"
	"github.com/thomhuang/happycamper/internal/rental"
	"github.com/thomhuang/happycamper/internal/repository/memory"
	"github.com/thomhuang/happycamper/internal/repository/postgres"
	"github.com/thomhuang/happycamper/internal/search"
)

// marketplace is what the services need from the store, satisfied by both
// the postgres and the in-memory implementation.
type marketplace interface {
	auth.Repo
	search.Repo
	listing.Repo
	rental.Repo
	account.Repo
}

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	market, codes, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("store setup failed", "err", err)
		os.Exit(1)
	}
	defer closeStore()

	for _, loc := range postalcode.Fixtures {
		if err := codes.Save(ctx, loc); err != nil {
			log.Warn("could not warm postal code cache", "code", loc.Code, "err", err)
		}
	}

	geocoder, err := newGeocoder(ctx, cfg, log)
	if err != nil {
		log.Error("geocoder setup failed", "err", err)
		os.Exit(1)
	}
	store := postalcode.NewStore(codes, geocoder)

	e := httpapi.New(log)
	httpapi.Register(e, httpapi.C{
		Auth:      &httpapi.AuthController{Svc: auth.New(market, store, cfg.JWTSecret, auth.DefaultTokenTTL), Log: log},
		Search:    &httpapi.SearchController{Svc: search.NewService(market, store), Log: log},
		Listing:   &httpapi.ListingController{Svc: listing.New(market), Log: log},
		Rental:    &httpapi.RentalController{Svc: rental.New(market), Log: log},
		Account:   &httpapi.AccountController{Svc: account.New(market), Log: log},
		Users:     market,
		JWTSecret: cfg.JWTSecret,
	})

	go func() {
		log.Info("starting server", "port", cfg.Port, "env", cfg.Env, "memory", cfg.Memory(), "geocoder", cfg.Geocoder)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

// openStore picks postgres when DATABASE_URL is set and a seeded in-memory
// store otherwise.
func openStore(ctx context.Context, cfg config.App, log *slog.Logger) (marketplace, postalcode.Repository, func(), error) {
	if cfg.Memory() {
		market := memory.NewMarketplace()
		users := memory.Seed(market)
		for _, id := range users {
			tok, err := auth.IssueToken(cfg.JWTSecret, id, auth.DefaultTokenTTL)
			if err != nil {
				return nil, nil, nil, err
			}
			log.Info("dev token", "user_id", id, "token", tok)
		}
		return market, memory.NewPostalCodes(), func() {}, nil
	}

	pool, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		pool.Close()
		_ = db.Close()
		return nil, nil, nil, err
	}

	closeAll := func() {
		pool.Close()
		_ = db.Close()
	}
	return postgres.NewMarketplace(db), postgres.NewPostalCodes(pool), closeAll, nil
}

func newGeocoder(ctx context.Context, cfg config.App, log *slog.Logger) (postalcode.Geocoder, error) {
	switch cfg.Geocoder {
	case config.GeocoderGeonames:
		rows, err := geocode.LoadGeonames(ctx, geocode.Client(), cfg.GeonamesURL, cfg.GeonamesCache, log)
		if err != nil {
			return nil, err
		}
		dataset := geocode.NewDataset(rows)
		log.Info("geonames dataset loaded", "codes", dataset.Len())
		return dataset, nil
	default:
		return geocode.NewRetrying(
			geocode.NewHTTP(cfg.GeocoderURL, geocode.Client()),
			geocode.WithMaxAttempts(cfg.GeocoderMaxAttempts),
		)
	}
}
