package search

import (
	"errors"
	"fmt"

	"github.com/thomhuang/happycamper/internal/model"
)

var ErrUnknownCategory = errors.New("product category not in category list")

// Categorize buckets products by category name. Every category gets a
// bucket, possibly empty, and products keep their input order inside it.
func Categorize(categories []model.Category, products []model.Product) (map[string][]model.Product, error) {
	names := make(map[int64]string, len(categories))
	inventory := make(map[string][]model.Product, len(categories))
	for _, category := range categories {
		names[category.ID] = category.Name
		inventory[category.Name] = []model.Product{}
	}

	for _, product := range products {
		name, ok := names[product.CategoryID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d has category %d", ErrUnknownCategory, product.ID, product.CategoryID)
		}
		inventory[name] = append(inventory[name], product)
	}
	return inventory, nil
}
