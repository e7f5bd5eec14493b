package entity

// StockStatus classifies a product's quantity against its thresholds.
type StockStatus string

const (
	StockInStock    StockStatus = "IN_STOCK"
	StockLow        StockStatus = "LOW"
	StockOutOfStock StockStatus = "OUT_OF_STOCK"
)

// ClassifyStock mirrors the product_stock_status view.
func ClassifyStock(quantity, minThreshold int) StockStatus {
	switch {
	case quantity <= 0:
		return StockOutOfStock
	case quantity <= minThreshold:
		return StockLow
	default:
		return StockInStock
	}
}

// NeedsAlert reports whether the status warrants a low-stock notification.
func (s StockStatus) NeedsAlert() bool {
	return s == StockLow || s == StockOutOfStock
}

func ParseStockStatus(s string) (StockStatus, bool) {
	switch StockStatus(s) {
	case StockInStock, StockLow, StockOutOfStock:
		return StockStatus(s), true
	}
	return "", false
}

// StockOperation is the direction of a stock change.
type StockOperation string

const (
	StockIncrease StockOperation = "increase"
	StockDecrease StockOperation = "decrease"
)

func (o StockOperation) Valid() bool {
	return o == StockIncrease || o == StockDecrease
}

// StockCheck is the result of a stock availability read.
type StockCheck struct {
	Available    bool   `json:"available"`
	CurrentStock int    `json:"currentStock"`
	Message      string `json:"message,omitempty"`
}

// Movement reference types.
const (
	ReferenceOrder       = "order"
	ReferenceCancelation = "order_cancellation"
	ReferenceManual      = "manual_adjustment"
	ReferenceInitial     = "initial_stock"
)

// ProductSort is an accepted catalog sort key.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceLow  ProductSort = "price_low"
	SortPriceHigh ProductSort = "price_high"
	SortRating    ProductSort = "rating"
)

// OrderClause returns the SQL ordering for the sort key; unknown keys sort newest first.
func (s ProductSort) OrderClause() string {
	switch s {
	case SortPriceLow:
		return "price ASC"
	case SortPriceHigh:
		return "price DESC"
	case SortRating:
		return "rating DESC"
	default:
		return "created_at DESC"
	}
}
