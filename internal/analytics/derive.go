package analytics

import (
	"github.com/shopspring/decimal"

	"herdscope/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ConversionRate returns sales/views*100, or 0 when the product has no views.
func ConversionRate(rec model.ProductRecord) float64 {
	if rec.Views <= 0 {
		return 0
	}
	return float64(rec.Sales) / float64(rec.Views) * 100
}

// Revenue returns sales*price.
func Revenue(rec model.ProductRecord) decimal.Decimal {
	return rec.Price.Mul(decimal.NewFromInt(rec.Sales))
}

// Detail attaches the derived metrics to a record.
func Detail(rec model.ProductRecord) model.ProductDetail {
	return model.ProductDetail{
		ProductRecord:  rec,
		ConversionRate: ConversionRate(rec),
		Revenue:        Revenue(rec),
	}
}

// conversionRateDecimal is the exact form used for sorting.
func conversionRateDecimal(rec model.ProductRecord) decimal.Decimal {
	if rec.Views <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(rec.Sales).Mul(hundred).Div(decimal.NewFromInt(rec.Views))
}
