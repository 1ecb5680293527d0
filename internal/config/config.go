package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/thomhuang/happycamper/internal/geocode"
)

const (
	GeocoderHTTP     = "http"
	GeocoderGeonames = "geonames"
)

type App struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	Env         string

	Geocoder            string
	GeocoderURL         string
	GeonamesURL         string
	GeonamesCache       string
	GeocoderMaxAttempts int
}

// Memory reports whether the service runs on the in-memory store.
func (a App) Memory() bool { return a.DatabaseURL == "" }

// Load reads the environment, after loading .env when there is one.
// Variables already set win over the file.
func Load() App {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env", "err", err)
	}

	cfg := App{
		Port:                getenv("APP_PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		JWTSecret:           getenv("JWT_SECRET", "local_dev_secret"),
		Env:                 getenv("APP_ENV", "dev"),
		Geocoder:            getenv("GEOCODER", GeocoderHTTP),
		GeocoderURL:         getenv("GEOCODER_URL", geocode.DefaultURL),
		GeonamesURL:         getenv("GEONAMES_URL", geocode.GeonamesURL),
		GeonamesCache:       getenv("GEONAMES_CACHE", "US.zip"),
		GeocoderMaxAttempts: getint("GEOCODER_MAX_ATTEMPTS", 3),
	}
	if cfg.Env == "prod" {
		cfg.JWTSecret = must("JWT_SECRET")
		cfg.DatabaseURL = must("DATABASE_URL")
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("env is not a number, using default", "key", k, "value", v, "default", def)
		return def
	}
	return n
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
