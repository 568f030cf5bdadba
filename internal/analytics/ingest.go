package analytics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"herdscope/internal/model"
	apperrors "herdscope/pkg/errors"
)

// Dataset columns, matched by header name in any order.
const (
	ColProductID            = "product_id"
	ColProductName          = "product_name"
	ColCategory             = "category"
	ColPrice                = "price"
	ColSales                = "sales"
	ColClicks               = "clicks"
	ColViews                = "views"
	ColStatus               = "status"
	ColClickIncreasePercent = "click_increase_percent"
)

// Columns lists every column a dataset file must carry, in canonical order.
var Columns = []string{
	ColProductID,
	ColProductName,
	ColCategory,
	ColPrice,
	ColSales,
	ColClicks,
	ColViews,
	ColStatus,
	ColClickIncreasePercent,
}

// Load reads the CSV dataset at path into a snapshot.
func Load(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataUnavailableError("failed to open dataset", err)
	}
	defer file.Close()

	return LoadReader(file, path)
}

// LoadReader parses CSV from r. source names the input in errors and in the snapshot.
func LoadReader(r io.Reader, source string) (*Snapshot, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.ReuseRecord = true

	headers, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewDataUnavailableError(fmt.Sprintf("%s: missing header row", source), nil)
		}
		return nil, apperrors.NewDataUnavailableError(fmt.Sprintf("%s: failed to read header", source), err)
	}

	index, err := headerIndex(headers)
	if err != nil {
		return nil, apperrors.NewDataUnavailableError(source, err)
	}

	var records []model.ProductRecord
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewDataUnavailableError(fmt.Sprintf("%s: malformed row", source), err)
		}
		line, _ := csvReader.FieldPos(0)

		rec, err := parseRow(row, index)
		if err != nil {
			return nil, apperrors.NewDataUnavailableError(fmt.Sprintf("%s: line %d", source, line), err)
		}
		if err := validateRecord(rec); err != nil {
			return nil, apperrors.NewDataUnavailableError(fmt.Sprintf("%s: line %d", source, line), err)
		}
		records = append(records, rec)
	}

	return NewSnapshot(source, records), nil
}

// headerIndex maps each required column to its position.
func headerIndex(headers []string) (map[string]int, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		// Clean header names: trim whitespace, strip quotes and a UTF-8 BOM
		clean := strings.TrimSpace(h)
		clean = strings.TrimPrefix(clean, "\ufeff")
		clean = strings.ReplaceAll(clean, `"`, "")
		index[strings.ToLower(clean)] = i
	}

	var missing []string
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(row []string, index map[string]int) (model.ProductRecord, error) {
	var (
		rec model.ProductRecord
		err error
	)

	field := func(col string) string {
		return strings.TrimSpace(row[index[col]])
	}

	if rec.ProductID, err = parseInt(ColProductID, field(ColProductID)); err != nil {
		return rec, err
	}
	rec.ProductName = field(ColProductName)
	rec.Category = field(ColCategory)
	if rec.Price, err = parseDecimal(ColPrice, field(ColPrice)); err != nil {
		return rec, err
	}
	if rec.Sales, err = parseInt(ColSales, field(ColSales)); err != nil {
		return rec, err
	}
	if rec.Clicks, err = parseInt(ColClicks, field(ColClicks)); err != nil {
		return rec, err
	}
	if rec.Views, err = parseInt(ColViews, field(ColViews)); err != nil {
		return rec, err
	}
	rec.Status = model.Status(field(ColStatus))
	if rec.ClickIncreasePercent, err = parseDecimal(ColClickIncreasePercent, field(ColClickIncreasePercent)); err != nil {
		return rec, err
	}

	return rec, nil
}

func parseInt(col, raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not an integer", col, raw)
	}
	return v, nil
}

func parseDecimal(col, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %s: %q is not a number", col, raw)
	}
	return v, nil
}
