package analytics

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "herdscope/pkg/errors"
)

func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

func TestParseExportName(t *testing.T) {
	tests := []struct {
		name       string
		wantView   ExportView
		wantFormat ExportFormat
		wantErr    bool
	}{
		{"products.csv", ViewProducts, FormatCSV, false},
		{"Categories.JSON", ViewCategories, FormatJSON, false},
		{"products.xlsx", ViewProducts, FormatXLSX, false},
		{"products.pdf", "", "", true},
		{"orders.csv", "", "", true},
		{"products", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, format, err := ParseExportName(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantView, view)
			assert.Equal(t, tt.wantFormat, format)
		})
	}
}

func TestExport_ProductsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleSnapshot(), ViewProducts, FormatCSV))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, productHeader, rows[0])
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, "4000.00", rows[1][10])
	// zero views
	assert.Equal(t, "4", rows[3][0])
	assert.Equal(t, "0.00", rows[3][9])
}

func TestExport_CategoriesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleSnapshot(), ViewCategories, FormatJSON))

	var body struct {
		ExportInfo struct {
			RecordCount int    `json:"record_count"`
			ExportType  string `json:"export_type"`
			Source      string `json:"source"`
		} `json:"export_info"`
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &body))
	assert.Equal(t, 2, body.ExportInfo.RecordCount)
	assert.Equal(t, "categories", body.ExportInfo.ExportType)
	assert.Equal(t, "sample", body.ExportInfo.Source)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Home", body.Data[0]["category"])
	assert.Equal(t, 80.0, body.Data[0]["avg_price"])
}

func TestExport_ProductsXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleSnapshot(), ViewProducts, FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("products")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "product_id", rows[0][0])
	assert.Equal(t, "Boots", rows[1][1])
}
