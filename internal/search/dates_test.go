package search_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomhuang/happycamper/internal/search"
)

func Test_ParseDate(t *testing.T) {
	d, err := search.ParseDate("2015-11-18")
	require.NoError(t, err)
	assert.Equal(t, day(2015, 11, 18), d)

	for _, bad := range []string{"", "11/18/2015", "2015-13-01", "2015-11-18T10:00:00Z"} {
		_, err := search.ParseDate(bad)
		assert.ErrorIs(t, err, search.ErrBadDate, bad)
	}
}

func Test_RentalDays(t *testing.T) {
	assert.Equal(t, 1, search.RentalDays(day(2015, 11, 20), day(2015, 11, 20)))
	assert.Equal(t, 6, search.RentalDays(day(2015, 11, 20), day(2015, 11, 25)))
	assert.Equal(t, 32, search.RentalDays(day(2015, 11, 30), day(2015, 12, 31)))
}

func Test_DefaultDates(t *testing.T) {
	now := time.Date(2015, 11, 18, 15, 4, 5, 0, time.UTC)

	dates := search.DefaultDates(now, 30)

	assert.Equal(t, day(2015, 11, 18), dates.Today)
	assert.Equal(t, day(2015, 12, 18), dates.Future)
	assert.Equal(t, "2015-11-18", dates.TodayString)
	assert.Equal(t, "2015-12-18", dates.FutureString)
}
