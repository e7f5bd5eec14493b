package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStock(t *testing.T) {
	assert.Equal(t, StockOutOfStock, ClassifyStock(0, 10))
	assert.Equal(t, StockOutOfStock, ClassifyStock(-1, 10))
	assert.Equal(t, StockLow, ClassifyStock(10, 10))
	assert.Equal(t, StockLow, ClassifyStock(1, 10))
	assert.Equal(t, StockInStock, ClassifyStock(11, 10))

	assert.True(t, StockLow.NeedsAlert())
	assert.True(t, StockOutOfStock.NeedsAlert())
	assert.False(t, StockInStock.NeedsAlert())
}

func TestProductSortOrderClause(t *testing.T) {
	assert.Equal(t, "price ASC", SortPriceLow.OrderClause())
	assert.Equal(t, "price DESC", SortPriceHigh.OrderClause())
	assert.Equal(t, "rating DESC", SortRating.OrderClause())
	assert.Equal(t, "created_at DESC", ProductSort("").OrderClause())
}

func TestStockOperationValid(t *testing.T) {
	assert.True(t, StockIncrease.Valid())
	assert.True(t, StockDecrease.Valid())
	assert.False(t, StockOperation("set").Valid())
}
