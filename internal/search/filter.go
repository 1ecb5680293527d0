package search

import (
	"time"

	"github.com/thomhuang/happycamper/internal/model"
)

// Any marks an absent category or brand filter. Every negative id is
// treated the same way.
const Any int64 = -1

// FilterByAvailability returns the available products of active owners whose
// availability window contains [start, end], both ends inclusive.
func FilterByAvailability(start, end time.Time, owners []model.Owner) []model.Product {
	var available []model.Product

	for _, owner := range owners {
		if !owner.User.Active {
			continue
		}
		for _, product := range owner.Products {
			if product.Available && product.Covers(start, end) {
				available = append(available, product)
			}
		}
	}
	return available
}

// FilterByAttributes keeps the products matching the category and the brand
// that are set. With neither set the input is returned as is.
func FilterByAttributes(products []model.Product, categoryID, brandID int64) []model.Product {
	byCategory := categoryID >= 0
	byBrand := brandID >= 0
	if !byCategory && !byBrand {
		return products
	}

	filtered := make([]model.Product, 0, len(products))
	for _, product := range products {
		if byCategory && product.CategoryID != categoryID {
			continue
		}
		if byBrand && product.BrandID != brandID {
			continue
		}
		filtered = append(filtered, product)
	}
	return filtered
}
