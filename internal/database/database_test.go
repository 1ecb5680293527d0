package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomhuang/happycamper/internal/database"
)

func Test_Migrations_Embedded(t *testing.T) {
	names, err := database.Migrations()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"migrations/001_schema.sql",
		"migrations/002_gear.sql",
		"migrations/003_credentials.sql",
	}, names)
}
