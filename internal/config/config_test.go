package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Load_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "DATABASE_URL", "APP_ENV", "GEOCODER", "GEOCODER_MAX_ATTEMPTS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.Memory())
	assert.Equal(t, GeocoderHTTP, cfg.Geocoder)
	assert.Equal(t, 3, cfg.GeocoderMaxAttempts)
}

func Test_Load_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://camper@localhost/happycamper")
	t.Setenv("GEOCODER", GeocoderGeonames)
	t.Setenv("GEOCODER_MAX_ATTEMPTS", "5")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.Memory())
	assert.Equal(t, GeocoderGeonames, cfg.Geocoder)
	assert.Equal(t, 5, cfg.GeocoderMaxAttempts)
}

func Test_Getint_BadValueFallsBack(t *testing.T) {
	t.Setenv("GEOCODER_MAX_ATTEMPTS", "many")
	assert.Equal(t, 3, getint("GEOCODER_MAX_ATTEMPTS", 3))
}

func Test_Must_PanicsWhenMissing(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Panics(t, func() { must("JWT_SECRET") })
}
