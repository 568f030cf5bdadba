package analytics

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herdscope/internal/model"
	apperrors "herdscope/pkg/errors"
)

func record(id int64, name, category, price string, sales, clicks, views int64) model.ProductRecord {
	return model.ProductRecord{
		ProductID:            id,
		ProductName:          name,
		Category:             category,
		Price:                decimal.RequireFromString(price),
		Sales:                sales,
		Clicks:               clicks,
		Views:                views,
		Status:               model.StatusRegular,
		ClickIncreasePercent: decimal.Zero,
	}
}

func sampleSnapshot() *Snapshot {
	return NewSnapshot("sample", []model.ProductRecord{
		record(1, "Lamp", "Home", "10.00", 10, 100, 1000),
		record(2, "Boots", "Footwear", "80.00", 50, 400, 2000),
		record(3, "Desk", "Home", "150.00", 30, 90, 300),
		record(4, "Sandals", "Footwear", "25.50", 30, 60, 0),
	})
}

func ids(records []model.ProductRecord) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ProductID
	}
	return out
}

func TestTopN_SortedDescending(t *testing.T) {
	top, err := TopN(sampleSnapshot(), SortBySales, 10, true)
	require.NoError(t, err)
	assert.Len(t, top, 4)
	// ties (3 and 4 at 30 sales) keep row order
	assert.Equal(t, []int64{2, 3, 4, 1}, ids(top))
}

func TestTopN_Ascending(t *testing.T) {
	top, err := TopN(sampleSnapshot(), SortByPrice, 2, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, ids(top))
}

func TestTopN_StableTiesAscending(t *testing.T) {
	top, err := TopN(sampleSnapshot(), SortBySales, 4, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 4, 2}, ids(top))
}

func TestTopN_Limits(t *testing.T) {
	snap := sampleSnapshot()

	top, err := TopN(snap, SortByClicks, 0, true)
	require.NoError(t, err)
	assert.Empty(t, top)

	top, err = TopN(snap, SortByClicks, 2, true)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(top))

	_, err = TopN(snap, SortByClicks, -1, true)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))
}

func TestTopN_DerivedKeys(t *testing.T) {
	snap := sampleSnapshot()

	byRevenue, err := TopN(snap, SortByRevenue, 1, true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), byRevenue[0].ProductID) // 150*30 = 4500

	byConversion, err := TopN(snap, SortByConversionRate, 1, true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), byConversion[0].ProductID) // 30/300 = 10%
}

func TestTopN_InvalidKey(t *testing.T) {
	_, err := TopN(sampleSnapshot(), SortKey("product_name"), 5, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeInvalidSortKey, apperrors.TypeOf(err))
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey(" Sales ")
	require.NoError(t, err)
	assert.Equal(t, SortBySales, key)

	_, err = ParseSortKey("category")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeInvalidSortKey))

	assert.Contains(t, SortKeys(), SortByRevenue)
	assert.Len(t, SortKeys(), 8)
}

func TestTopN_EmptySnapshot(t *testing.T) {
	top, err := TopN(NewSnapshot("empty", nil), SortBySales, 10, true)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestSummary(t *testing.T) {
	snap := NewSnapshot("s", []model.ProductRecord{
		record(1, "A", "X", "1", 10, 5, 10),
		record(2, "B", "X", "1", 50, 7, 10),
		record(3, "C", "Y", "1", 30, 9, 10),
	})

	stats, err := Summary(snap)
	require.NoError(t, err)
	assert.Equal(t, int64(90), stats.TotalSales)
	assert.Equal(t, int64(21), stats.TotalClicks)
	assert.Equal(t, "30", stats.AvgSales.String())
	assert.Equal(t, "7", stats.AvgClicks.String())
	assert.Equal(t, int64(2), stats.TopProduct.ProductID)
	assert.Equal(t, int64(50), stats.TopProduct.Sales)
}

func TestSummary_RoundsHalfAwayFromZero(t *testing.T) {
	snap := NewSnapshot("s", []model.ProductRecord{
		record(1, "A", "X", "1", 1, 0, 0),
		record(2, "B", "X", "1", 0, 0, 0),
		record(3, "C", "X", "1", 0, 0, 0),
		record(4, "D", "X", "1", 0, 0, 0),
		record(5, "E", "X", "1", 0, 0, 0),
		record(6, "F", "X", "1", 0, 0, 0),
		record(7, "G", "X", "1", 0, 0, 0),
		record(8, "H", "X", "1", 0, 0, 0),
	})

	stats, err := Summary(snap)
	require.NoError(t, err)
	// 1/8 = 0.125
	assert.Equal(t, "0.13", stats.AvgSales.StringFixed(2))
}

func TestSummary_Empty(t *testing.T) {
	_, err := Summary(NewSnapshot("empty", nil))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeEmptyDataset, apperrors.TypeOf(err))
}

func TestByCategory(t *testing.T) {
	snap := sampleSnapshot()
	categories := ByCategory(snap)
	require.Len(t, categories, 2)

	assert.Equal(t, "Home", categories[0].Category)
	assert.Equal(t, int64(40), categories[0].TotalSales)
	assert.Equal(t, int64(190), categories[0].TotalClicks)
	assert.Equal(t, 2, categories[0].ProductCount)
	assert.Equal(t, "80.00", categories[0].AvgPrice.StringFixed(2))

	assert.Equal(t, "Footwear", categories[1].Category)
	assert.Equal(t, "52.75", categories[1].AvgPrice.StringFixed(2))

	stats, err := Summary(snap)
	require.NoError(t, err)

	var sales, clicks int64
	count := 0
	for _, c := range categories {
		sales += c.TotalSales
		clicks += c.TotalClicks
		count += c.ProductCount
	}
	assert.Equal(t, stats.TotalSales, sales)
	assert.Equal(t, stats.TotalClicks, clicks)
	assert.Equal(t, snap.Len(), count)
}

func TestByCategory_Empty(t *testing.T) {
	assert.Empty(t, ByCategory(NewSnapshot("empty", nil)))
}

func TestFindByID(t *testing.T) {
	snap := sampleSnapshot()
	for i := 0; i < snap.Len(); i++ {
		rec, err := FindByID(snap, snap.At(i).ProductID)
		require.NoError(t, err)
		assert.Equal(t, snap.At(i), rec)
	}

	_, err := FindByID(snap, 999)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestFindByID_FirstMatchWins(t *testing.T) {
	snap := NewSnapshot("dup", []model.ProductRecord{
		record(5, "First", "X", "1", 1, 1, 1),
		record(5, "Second", "X", "1", 1, 1, 1),
	})
	rec, err := FindByID(snap, 5)
	require.NoError(t, err)
	assert.Equal(t, "First", rec.ProductName)
}

func TestAggregates_Idempotent(t *testing.T) {
	snap := sampleSnapshot()

	encode := func() []byte {
		top, err := TopN(snap, SortBySales, 10, true)
		require.NoError(t, err)
		stats, err := Summary(snap)
		require.NoError(t, err)
		out, err := json.Marshal(map[string]interface{}{
			"top":        top,
			"summary":    stats,
			"categories": ByCategory(snap),
		})
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, encode(), encode())
}

func TestDerivedMetrics(t *testing.T) {
	rec := record(1, "Lamp", "Home", "12.50", 3, 10, 0)
	assert.Equal(t, 0.0, ConversionRate(rec))
	assert.Equal(t, "37.50", Revenue(rec).StringFixed(2))

	rec.Views = 200
	assert.InDelta(t, 1.5, ConversionRate(rec), 1e-9)

	detail := Detail(rec)
	assert.Equal(t, rec, detail.ProductRecord)
	assert.InDelta(t, 1.5, detail.ConversionRate, 1e-9)
}
