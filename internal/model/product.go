package model

import "github.com/shopspring/decimal"

// Status is the trend label attached to a product row
type Status string

const (
	StatusHot      Status = "Hot"
	StatusTrending Status = "Trending"
	StatusRegular  Status = "Regular"
)

// IsKnown reports whether s is one of the defined statuses.
func (s Status) IsKnown() bool {
	switch s {
	case StatusHot, StatusTrending, StatusRegular:
		return true
	}
	return false
}

// ProductRecord represents a single row of the product metrics dataset
type ProductRecord struct {
	ProductID            int64           `json:"product_id"`
	ProductName          string          `json:"product_name"`
	Category             string          `json:"category"`
	Price                decimal.Decimal `json:"price"`
	Sales                int64           `json:"sales"`
	Clicks               int64           `json:"clicks"`
	Views                int64           `json:"views"` // expected >= clicks, not enforced
	Status               Status          `json:"status"`
	ClickIncreasePercent decimal.Decimal `json:"click_increase_percent"`
}

// ProductDetail is a record together with its derived metrics
type ProductDetail struct {
	ProductRecord
	ConversionRate float64         `json:"conversion_rate"`
	Revenue        decimal.Decimal `json:"revenue"`
}

// CategorySummary aggregates all records sharing a category
type CategorySummary struct {
	Category     string          `json:"category"`
	TotalSales   int64           `json:"total_sales"`
	TotalClicks  int64           `json:"total_clicks"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
	ProductCount int             `json:"product_count"`
}

// TopProduct is the condensed view of the best selling record
type TopProduct struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Sales       int64  `json:"sales"`
	Clicks      int64  `json:"clicks"`
}

// SummaryStats holds the dashboard KPIs
type SummaryStats struct {
	TotalSales  int64           `json:"total_sales"`
	TotalClicks int64           `json:"total_clicks"`
	AvgSales    decimal.Decimal `json:"avg_sales"`
	AvgClicks   decimal.Decimal `json:"avg_clicks"`
	TopProduct  TopProduct      `json:"top_product"`
}
