// Package search narrows the marketplace inventory to what a renter can
// pick up: products whose owners live within a radius of a postal code,
// that are free for the whole requested period and match the optional
// category and brand.
package search

import (
	"context"

	"github.com/dhconnelly/rtreego"

	"github.com/thomhuang/happycamper/internal/geo"
	"github.com/thomhuang/happycamper/internal/model"
)

// Locator resolves postal codes to coordinates, see postalcode.Store.
type Locator interface {
	Lookup(ctx context.Context, code string) (model.PostalCodeLocation, error)
}

// tree fan-out
const (
	minChildren = 2
	maxChildren = 25
)

type postalCodeItem struct {
	rect rtreego.Rect
	loc  model.PostalCodeLocation
}

func (p *postalCodeItem) Bounds() rtreego.Rect {
	return p.rect
}

func (p *postalCodeItem) coord() geo.Coord {
	return geo.Coord{Lat: p.loc.Latitude, Lon: p.loc.Longitude}
}

// Radius returns the candidates whose distance from center is at most miles.
// Any code that cannot be resolved aborts the search; no partial result is
// returned. The order of the result is not defined.
func Radius(ctx context.Context, locator Locator, center string, candidates []string, miles float64) ([]string, error) {
	origin, err := locator.Lookup(ctx, center)
	if err != nil {
		return nil, err
	}
	centerCoord := geo.Coord{Lat: origin.Latitude, Lon: origin.Longitude}

	seen := make(map[string]struct{}, len(candidates))
	distinct := make([]string, 0, len(candidates))
	for _, code := range candidates {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		distinct = append(distinct, code)
	}

	items, err := resolveAll(ctx, locator, distinct)
	if err != nil {
		return nil, err
	}

	nearby := prefilter(items, centerCoord, miles)

	within := make([]string, 0, len(nearby))
	for _, item := range nearby {
		// exact distance so it's a circle and not the rectangle
		if geo.Within(centerCoord, item.coord(), miles) {
			within = append(within, item.loc.Code)
		}
	}
	return within, nil
}

// prefilter drops candidates outside the bounding rectangle of the circle.
func prefilter(items []*postalCodeItem, center geo.Coord, miles float64) []*postalCodeItem {
	rect, ok := geo.SearchRect(center, miles)
	if !ok || len(items) == 0 {
		return items
	}

	// 2D, {lon, lat}
	tree := rtreego.NewTree(2, minChildren, maxChildren)
	for _, item := range items {
		tree.Insert(item)
	}

	hits := tree.SearchIntersect(rect)
	nearby := make([]*postalCodeItem, 0, len(hits))
	for _, hit := range hits {
		nearby = append(nearby, hit.(*postalCodeItem))
	}
	return nearby
}
