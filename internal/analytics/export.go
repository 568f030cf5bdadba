package analytics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"herdscope/internal/model"
	apperrors "herdscope/pkg/errors"
)

// ExportFormat is the file type of an export
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
	FormatXLSX ExportFormat = "xlsx"
)

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// ExportView names which aggregate an export carries
type ExportView string

const (
	ViewProducts   ExportView = "products"
	ViewCategories ExportView = "categories"
)

// ParseExportName splits a file name like "products.xlsx" into view and format.
func ParseExportName(name string) (ExportView, ExportFormat, error) {
	clean := filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(clean))
	base := strings.ToLower(strings.TrimSuffix(clean, filepath.Ext(clean)))

	var format ExportFormat
	switch ext {
	case ".csv":
		format = FormatCSV
	case ".json":
		format = FormatJSON
	case ".xlsx":
		format = FormatXLSX
	default:
		return "", "", apperrors.NewValidationError(fmt.Sprintf("unsupported export format %q", ext))
	}

	switch ExportView(base) {
	case ViewProducts, ViewCategories:
		return ExportView(base), format, nil
	default:
		return "", "", apperrors.NewValidationError(fmt.Sprintf("unknown export view %q", base))
	}
}

var productHeader = []string{
	ColProductID, ColProductName, ColCategory, ColPrice, ColSales, ColClicks, ColViews,
	ColStatus, ColClickIncreasePercent, "conversion_rate", "revenue",
}

var categoryHeader = []string{"category", "total_sales", "total_clicks", "avg_price", "product_count"}

func productRow(d model.ProductDetail) []string {
	return []string{
		strconv.FormatInt(d.ProductID, 10),
		d.ProductName,
		d.Category,
		d.Price.String(),
		strconv.FormatInt(d.Sales, 10),
		strconv.FormatInt(d.Clicks, 10),
		strconv.FormatInt(d.Views, 10),
		string(d.Status),
		d.ClickIncreasePercent.String(),
		strconv.FormatFloat(d.ConversionRate, 'f', 2, 64),
		d.Revenue.StringFixed(2),
	}
}

func categoryRow(c model.CategorySummary) []string {
	return []string{
		c.Category,
		strconv.FormatInt(c.TotalSales, 10),
		strconv.FormatInt(c.TotalClicks, 10),
		c.AvgPrice.StringFixed(2),
		strconv.Itoa(c.ProductCount),
	}
}

// Export writes the requested view of snap to w. Products are ordered by sales
// descending; categories in first-seen order.
func Export(w io.Writer, snap *Snapshot, view ExportView, format ExportFormat) error {
	header, rows, payload, err := exportRows(snap, view)
	if err != nil {
		return err
	}

	switch format {
	case FormatCSV:
		return exportCSV(w, header, rows)
	case FormatJSON:
		return exportJSON(w, snap, view, payload, len(rows))
	case FormatXLSX:
		return exportXLSX(w, string(view), header, rows)
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unsupported export format %q", format))
	}
}

func exportRows(snap *Snapshot, view ExportView) ([]string, [][]string, interface{}, error) {
	switch view {
	case ViewProducts:
		records, err := SortAll(snap, SortBySales, true)
		if err != nil {
			return nil, nil, nil, err
		}
		details := make([]model.ProductDetail, len(records))
		rows := make([][]string, len(records))
		for i, rec := range records {
			details[i] = Detail(rec)
			rows[i] = productRow(details[i])
		}
		return productHeader, rows, details, nil
	case ViewCategories:
		categories := ByCategory(snap)
		rows := make([][]string, len(categories))
		for i, c := range categories {
			rows[i] = categoryRow(c)
		}
		return categoryHeader, rows, categories, nil
	default:
		return nil, nil, nil, apperrors.NewValidationError(fmt.Sprintf("unknown export view %q", view))
	}
}

// exportCSV writes a header row followed by data rows
func exportCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// exportJSON wraps the payload with export metadata
func exportJSON(w io.Writer, snap *Snapshot, view ExportView, payload interface{}, count int) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	exportData := map[string]interface{}{
		"export_info": map[string]interface{}{
			"source":       snap.Source(),
			"exported_at":  time.Now().UTC(),
			"record_count": count,
			"export_type":  view,
		},
		"data": payload,
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// exportXLSX writes a single-sheet workbook named after the view
func exportXLSX(w io.Writer, sheet string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
