package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/search"
)

var categories = []model.Category{{ID: 1, Name: "Tents"}, {ID: 2, Name: "Sleeping Bags"}, {ID: 3, Name: "Sleeping Pads"}}

func Test_Categorize(t *testing.T) {
	products := []model.Product{
		{ID: 5, CategoryID: 2},
		{ID: 1, CategoryID: 1},
		{ID: 2, CategoryID: 1},
		{ID: 7, CategoryID: 2},
	}

	inventory, err := search.Categorize(categories, products)

	require.NoError(t, err)
	assert.Len(t, inventory, 3)
	assert.Equal(t, []int64{1, 2}, ids(inventory["Tents"]))
	assert.Equal(t, []int64{5, 7}, ids(inventory["Sleeping Bags"]))
	assert.NotNil(t, inventory["Sleeping Pads"])
	assert.Empty(t, inventory["Sleeping Pads"])

	total := 0
	for _, bucket := range inventory {
		total += len(bucket)
	}
	assert.Equal(t, len(products), total)
}

func Test_Categorize_UnknownCategory(t *testing.T) {
	products := []model.Product{{ID: 1, CategoryID: 1}, {ID: 9, CategoryID: 42}}

	inventory, err := search.Categorize(categories[:1], products)

	assert.ErrorIs(t, err, search.ErrUnknownCategory)
	assert.Nil(t, inventory)
}
