// Package geo computes great-circle distances between postal code
// coordinates and the bounding rectangles used to prefilter them.
package geo

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/umahmood/haversine"
)

// EarthRadiusMiles is the radius used for every distance in the marketplace.
const EarthRadiusMiles = 3960.0

// haversine.Distance reports kilometres against this radius.
const libraryEarthRadiusKm = 6371.0

// boundaryTolerance absorbs the last-bit differences between equivalent
// forms of the haversine formula, so a point exactly on the circle counts.
const boundaryTolerance = 1e-12

// pointSize is the edge of the rectangle stored for a single point.
const pointSize = 1e-9

type Coord = haversine.Coord

// Distance returns the great-circle distance in miles between a and b:
// 2·R·asin(sqrt(sin²(Δlat/2) + cos(lat1)·cos(lat2)·sin²(Δlon/2))).
func Distance(a, b Coord) float64 {
	_, km := haversine.Distance(a, b)
	// km / radius is the central angle, rescale it to our radius
	return km / libraryEarthRadiusKm * EarthRadiusMiles
}

// Within reports whether b is at most miles from a. The boundary is inclusive.
func Within(a, b Coord, miles float64) bool {
	return Distance(a, b) <= miles*(1+boundaryTolerance)
}

// PointRect is the rectangle stored in the tree for c. Points are kept as
// {lon, lat} so the first axis is east-west.
func PointRect(c Coord) rtreego.Rect {
	rect, _ := rtreego.NewRect(rtreego.Point{c.Lon, c.Lat}, []float64{pointSize, pointSize})
	return rect
}

// SearchRect returns a lon/lat rectangle that contains every point within
// miles of center. ok is false when the circle reaches a pole or crosses the
// antimeridian; callers then have to check every point.
func SearchRect(center Coord, miles float64) (rect rtreego.Rect, ok bool) {
	angle := miles / EarthRadiusMiles
	if angle >= math.Pi/2 {
		return rtreego.Rect{}, false
	}

	// pad so that points sitting on the boundary stay inside
	dLat := angle*180/math.Pi*1.001 + 1e-6
	if center.Lat-dLat <= -90 || center.Lat+dLat >= 90 {
		return rtreego.Rect{}, false
	}

	ratio := math.Sin(angle) / math.Cos(center.Lat*math.Pi/180)
	if ratio >= 1 {
		return rtreego.Rect{}, false
	}
	dLon := math.Asin(ratio)*180/math.Pi*1.001 + 1e-6
	if center.Lon-dLon < -180 || center.Lon+dLon > 180 {
		return rtreego.Rect{}, false
	}

	rect, err := rtreego.NewRect(
		rtreego.Point{center.Lon - dLon, center.Lat - dLat},
		[]float64{2 * dLon, 2 * dLat},
	)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rect, true
}
