package analytics

import (
	"fmt"

	"herdscope/internal/model"
)

// validateRecord rejects rows whose counts or price are negative.
// views >= clicks is expected but not checked.
func validateRecord(rec model.ProductRecord) error {
	if rec.Price.IsNegative() {
		return fmt.Errorf("column %s: must be non-negative, got %s", ColPrice, rec.Price)
	}

	counts := []struct {
		col   string
		value int64
	}{
		{ColSales, rec.Sales},
		{ColClicks, rec.Clicks},
		{ColViews, rec.Views},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("column %s: must be non-negative, got %d", c.col, c.value)
		}
	}

	return nil
}
