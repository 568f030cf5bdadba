package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"herdscope/internal/model"
	apperrors "herdscope/pkg/errors"
)

// SortKey names a numeric field products can be ranked by
type SortKey string

const (
	SortByProductID            SortKey = "product_id"
	SortByPrice                SortKey = "price"
	SortBySales                SortKey = "sales"
	SortByClicks               SortKey = "clicks"
	SortByViews                SortKey = "views"
	SortByClickIncreasePercent SortKey = "click_increase_percent"
	SortByConversionRate       SortKey = "conversion_rate"
	SortByRevenue              SortKey = "revenue"
)

// sortValues extracts the comparable value of each key.
var sortValues = map[SortKey]func(model.ProductRecord) decimal.Decimal{
	SortByProductID:            func(r model.ProductRecord) decimal.Decimal { return decimal.NewFromInt(r.ProductID) },
	SortByPrice:                func(r model.ProductRecord) decimal.Decimal { return r.Price },
	SortBySales:                func(r model.ProductRecord) decimal.Decimal { return decimal.NewFromInt(r.Sales) },
	SortByClicks:               func(r model.ProductRecord) decimal.Decimal { return decimal.NewFromInt(r.Clicks) },
	SortByViews:                func(r model.ProductRecord) decimal.Decimal { return decimal.NewFromInt(r.Views) },
	SortByClickIncreasePercent: func(r model.ProductRecord) decimal.Decimal { return r.ClickIncreasePercent },
	SortByConversionRate:       conversionRateDecimal,
	SortByRevenue:              Revenue,
}

// SortKeys returns every known sort key in a stable order.
func SortKeys() []SortKey {
	keys := make([]SortKey, 0, len(sortValues))
	for k := range sortValues {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ParseSortKey validates a user supplied key.
func ParseSortKey(raw string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := sortValues[key]; !ok {
		return "", apperrors.NewInvalidSortKeyError(raw)
	}
	return key, nil
}

// TopN returns the first n records ordered by key. The sort is stable: ties keep
// their original row order in either direction.
func TopN(snap *Snapshot, key SortKey, n int, descending bool) ([]model.ProductRecord, error) {
	value, ok := sortValues[key]
	if !ok {
		return nil, apperrors.NewInvalidSortKeyError(string(key))
	}
	if n < 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("limit must be non-negative, got %d", n))
	}

	rows := snap.Records()
	keys := make([]decimal.Decimal, len(rows))
	for i, rec := range rows {
		keys[i] = value(rec)
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		cmp := keys[order[i]].Cmp(keys[order[j]])
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})

	if n > len(order) {
		n = len(order)
	}
	out := make([]model.ProductRecord, n)
	for i := 0; i < n; i++ {
		out[i] = rows[order[i]]
	}
	return out, nil
}

// SortAll returns every record ordered by key.
func SortAll(snap *Snapshot, key SortKey, descending bool) ([]model.ProductRecord, error) {
	return TopN(snap, key, snap.Len(), descending)
}

// Summary computes the dashboard KPIs. Means are rounded half away from zero to
// two decimal places using exact decimal arithmetic.
func Summary(snap *Snapshot) (model.SummaryStats, error) {
	if snap.Len() == 0 {
		return model.SummaryStats{}, apperrors.NewEmptyDatasetError()
	}

	var stats model.SummaryStats
	for i := 0; i < snap.Len(); i++ {
		rec := snap.At(i)
		stats.TotalSales += rec.Sales
		stats.TotalClicks += rec.Clicks
	}

	count := decimal.NewFromInt(int64(snap.Len()))
	stats.AvgSales = decimal.NewFromInt(stats.TotalSales).DivRound(count, 2)
	stats.AvgClicks = decimal.NewFromInt(stats.TotalClicks).DivRound(count, 2)

	top, err := TopN(snap, SortBySales, 1, true)
	if err != nil {
		return model.SummaryStats{}, err
	}
	stats.TopProduct = model.TopProduct{
		ProductID:   top[0].ProductID,
		ProductName: top[0].ProductName,
		Sales:       top[0].Sales,
		Clicks:      top[0].Clicks,
	}

	return stats, nil
}

// categoryAccumulator collects the running totals of one category.
type categoryAccumulator struct {
	summary  model.CategorySummary
	priceSum decimal.Decimal
}

// ByCategory groups records by category. Output order is the order in which each
// category first appears in the table.
func ByCategory(snap *Snapshot) []model.CategorySummary {
	position := make(map[string]int)
	var groups []*categoryAccumulator

	for i := 0; i < snap.Len(); i++ {
		rec := snap.At(i)

		idx, exists := position[rec.Category]
		if !exists {
			idx = len(groups)
			position[rec.Category] = idx
			groups = append(groups, &categoryAccumulator{
				summary:  model.CategorySummary{Category: rec.Category},
				priceSum: decimal.Zero,
			})
		}

		acc := groups[idx]
		acc.summary.TotalSales += rec.Sales
		acc.summary.TotalClicks += rec.Clicks
		acc.summary.ProductCount++
		acc.priceSum = acc.priceSum.Add(rec.Price)
	}

	out := make([]model.CategorySummary, len(groups))
	for i, acc := range groups {
		acc.summary.AvgPrice = acc.priceSum.DivRound(decimal.NewFromInt(int64(acc.summary.ProductCount)), 2)
		out[i] = acc.summary
	}
	return out
}

// FindByID returns the first record with the given product_id.
func FindByID(snap *Snapshot, id int64) (model.ProductRecord, error) {
	i, ok := snap.indexOf(id)
	if !ok {
		return model.ProductRecord{}, apperrors.NewNotFoundError(fmt.Sprintf("product %d not found", id))
	}
	return snap.At(i), nil
}
