package search_test

import (
	"context"
	"math"
	"time"

	"github.com/thomhuang/happycamper/internal/geo"
	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/postalcode"
)

// greatCircleMiles is 2·R·asin(sqrt(a)) computed directly.
func greatCircleMiles(a, b model.PostalCodeLocation) float64 {
	rad := math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * rad
	dLon := (b.Longitude - a.Longitude) * rad
	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(a.Latitude*rad)*math.Cos(b.Latitude*rad)*math.Pow(math.Sin(dLon/2), 2)
	return 2 * geo.EarthRadiusMiles * math.Asin(math.Sqrt(h))
}

// locations is a Locator over a fixed set of coordinates.
type locations map[string]model.PostalCodeLocation

func (l locations) Lookup(_ context.Context, code string) (model.PostalCodeLocation, error) {
	loc, ok := l[code]
	if !ok {
		return model.PostalCodeLocation{}, postalcode.ErrLookup
	}
	return loc, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ids(products []model.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
