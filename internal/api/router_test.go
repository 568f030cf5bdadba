package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herdscope/internal/analytics"
	"herdscope/internal/api/handler"
	"herdscope/internal/model"
	"herdscope/internal/report"
	"herdscope/internal/store"
	apperrors "herdscope/pkg/errors"
	"herdscope/pkg/router"
)

func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

type fakeAlerter struct {
	lastAlert model.AlertRequest
	lastTo    string
	report    *model.DispatchReport
	err       error
}

func (f *fakeAlerter) SendAlert(_ context.Context, req model.AlertRequest) (*model.DispatchReport, error) {
	f.lastAlert = req
	return f.report, f.err
}

func (f *fakeAlerter) SendTestEmail(_ context.Context, to string) (*model.DispatchReport, error) {
	f.lastTo = to
	return f.report, f.err
}

type fakeDispatchLog struct {
	reports []model.DispatchReport
	opts    int
}

func (f *fakeDispatchLog) ListDispatches(_ context.Context, opts ...store.ListOption) ([]model.DispatchReport, error) {
	f.opts = len(opts)
	return f.reports, nil
}

func (f *fakeDispatchLog) GetDispatch(_ context.Context, id string) (*model.DispatchReport, error) {
	for i := range f.reports {
		if f.reports[i].ID == id {
			return &f.reports[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError("dispatch " + id + " not found")
}

func rec(id int64, name, category, price string, sales, clicks, views int64, status model.Status) model.ProductRecord {
	return model.ProductRecord{
		ProductID:            id,
		ProductName:          name,
		Category:             category,
		Price:                decimal.RequireFromString(price),
		Sales:                sales,
		Clicks:               clicks,
		Views:                views,
		Status:               status,
		ClickIncreasePercent: decimal.RequireFromString("10"),
	}
}

type testServer struct {
	handler    http.Handler
	alerts     *fakeAlerter
	dispatches *fakeDispatchLog
}

func newTestServer(t *testing.T, dataset *analytics.Dataset) *testServer {
	t.Helper()

	renderer, err := report.NewRenderer(nil)
	require.NoError(t, err)

	alerts := &fakeAlerter{}
	dispatches := &fakeDispatchLog{}

	r := router.New()
	RegisterRoutes(r, handler.New(dataset, renderer, alerts, dispatches))

	return &testServer{handler: r.Handler(), alerts: alerts, dispatches: dispatches}
}

func readyDataset() *analytics.Dataset {
	return analytics.NewReadyDataset(analytics.NewSnapshot("test", []model.ProductRecord{
		rec(1, "Lamp", "Home", "10.00", 10, 100, 1000, model.StatusRegular),
		rec(2, "Boots", "Footwear", "80.50", 50, 400, 2000, model.StatusHot),
		rec(3, "Desk", "Home", "150.00", 30, 90, 0, model.StatusTrending),
	}))
}

func (s *testServer) do(method, path, payload string) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != "" {
		body = strings.NewReader(payload)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(method, path, body))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHome(t *testing.T) {
	s := newTestServer(t, readyDataset())
	w := s.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "✅ Backend server is working fine!", w.Body.String())
}

func TestHealth(t *testing.T) {
	w := newTestServer(t, readyDataset()).do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var stats model.LoadStats
	decode(t, w, &stats)
	assert.Equal(t, model.LoadStateReady, stats.State)
	assert.Equal(t, 3, stats.Rows)

	w = newTestServer(t, analytics.NewDataset()).do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListProducts(t *testing.T) {
	s := newTestServer(t, readyDataset())

	w := s.do(http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, w.Code)

	var products []map[string]interface{}
	decode(t, w, &products)
	require.Len(t, products, 3)
	assert.Equal(t, float64(2), products[0]["product_id"])
	assert.Equal(t, 80.5, products[0]["price"])

	w = s.do(http.MethodGet, "/api/products?sort=price&order=asc&limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &products)
	require.Len(t, products, 2)
	assert.Equal(t, "Lamp", products[0]["product_name"])
	assert.Equal(t, "Boots", products[1]["product_name"])
}

func TestListProducts_BadQuery(t *testing.T) {
	s := newTestServer(t, readyDataset())

	tests := []struct {
		query    string
		wantKind string
	}{
		{"sort=product_name", "INVALID_SORT_KEY"},
		{"limit=-3", "VALIDATION"},
		{"order=up", "VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := s.do(http.MethodGet, "/api/products?"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body handler.ErrorResponse
			decode(t, w, &body)
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.wantKind, body.Kind)
		})
	}
}

func TestProductsWithPricing(t *testing.T) {
	w := newTestServer(t, readyDataset()).do(http.MethodGet, "/api/products/pricing", "")
	require.Equal(t, http.StatusOK, w.Code)

	var details []map[string]interface{}
	decode(t, w, &details)
	require.Len(t, details, 3)
	assert.Equal(t, "Boots", details[0]["product_name"])
	assert.Equal(t, 4025.0, details[0]["revenue"])
	assert.Equal(t, 0.0, details[1]["conversion_rate"])
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t, readyDataset())

	w := s.do(http.MethodGet, "/api/products/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail map[string]interface{}
	decode(t, w, &detail)
	assert.Equal(t, "Lamp", detail["product_name"])
	assert.Equal(t, 1.0, detail["conversion_rate"])

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/products/99", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/products/abc", "").Code)
}

func TestSummary(t *testing.T) {
	w := newTestServer(t, readyDataset()).do(http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	decode(t, w, &stats)
	assert.Equal(t, 90.0, stats["total_sales"])
	assert.Equal(t, 30.0, stats["avg_sales"])
	top := stats["top_product"].(map[string]interface{})
	assert.Equal(t, "Boots", top["product_name"])
}

func TestSummary_EmptyDataset(t *testing.T) {
	empty := analytics.NewReadyDataset(analytics.NewSnapshot("empty", nil))
	w := newTestServer(t, empty).do(http.MethodGet, "/api/summary", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCategories(t *testing.T) {
	w := newTestServer(t, readyDataset()).do(http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, w.Code)

	var categories []map[string]interface{}
	decode(t, w, &categories)
	require.Len(t, categories, 2)
	assert.Equal(t, "Home", categories[0]["category"])
	assert.Equal(t, 80.0, categories[0]["avg_price"])
	assert.Equal(t, "Footwear", categories[1]["category"])
}

func TestDataUnavailable(t *testing.T) {
	s := newTestServer(t, analytics.NewDataset())
	for _, path := range []string{"/api/products", "/api/summary", "/api/categories", "/api/products/1"} {
		w := s.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}

func TestExport(t *testing.T) {
	s := newTestServer(t, readyDataset())

	w := s.do(http.MethodGet, "/api/export/categories.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "categories-")
	assert.True(t, strings.HasPrefix(w.Body.String(), "category,total_sales"))

	w = s.do(http.MethodGet, "/api/export/products.xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/export/products.pdf", "").Code)
}

func TestReports(t *testing.T) {
	s := newTestServer(t, readyDataset())

	w := s.do(http.MethodGet, "/api/reports/products/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Boots")

	w = s.do(http.MethodGet, "/api/reports/trending", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Trending Products Alert")

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/reports/products/77", "").Code)
}

func TestSendAlert(t *testing.T) {
	s := newTestServer(t, readyDataset())
	s.alerts.report = &model.DispatchReport{ID: "d1", Status: model.DispatchStatusSuccess, Message: "Email sent to 1 recipient(s): a@example.com"}

	w := s.do(http.MethodPost, "/send-alert", `{"product_id": 2, "to": "a@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, s.alerts.lastAlert.ProductID)
	assert.Equal(t, int64(2), *s.alerts.lastAlert.ProductID)
	assert.Equal(t, model.Recipients{"a@example.com"}, s.alerts.lastAlert.To)

	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "success", body["status"])

	w = s.do(http.MethodPost, "/send-alert", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, s.alerts.lastAlert.ProductID)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/send-alert", `{"to": 5}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, s.do(http.MethodGet, "/send-alert", "").Code)
}

func TestSendAlert_DeliveryFailure(t *testing.T) {
	s := newTestServer(t, readyDataset())
	s.alerts.report = &model.DispatchReport{
		ID:     "d2",
		Status: model.DispatchStatusError,
		Failed: []model.FailedRecipient{{Recipient: "a@example.com", Reason: "timeout"}},
	}
	s.alerts.err = apperrors.NewDeliveryFailureError("Failed to send to all recipients: a@example.com (timeout)")

	w := s.do(http.MethodPost, "/send-alert", `{}`)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var body handler.DispatchErrorResponse
	decode(t, w, &body)
	assert.Equal(t, "DELIVERY_FAILURE", body.Kind)
	require.NotNil(t, body.Report)
	assert.Equal(t, "d2", body.Report.ID)
}

func TestSendAlert_Unavailable(t *testing.T) {
	s := newTestServer(t, readyDataset())
	s.alerts.err = apperrors.NewUnavailableError("email delivery is not configured")

	w := s.do(http.MethodPost, "/send-alert", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSendTestEmail(t *testing.T) {
	s := newTestServer(t, readyDataset())
	s.alerts.report = &model.DispatchReport{ID: "d3", Status: model.DispatchStatusSuccess}

	w := s.do(http.MethodPost, "/test-email", `{"to":"me@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "me@example.com", s.alerts.lastTo)

	w = s.do(http.MethodPost, "/test-email", `{"to":["first@example.com","second@example.com"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "first@example.com", s.alerts.lastTo)

	w = s.do(http.MethodPost, "/test-email", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", s.alerts.lastTo)
}

func TestDispatches(t *testing.T) {
	s := newTestServer(t, readyDataset())
	s.dispatches.reports = []model.DispatchReport{{ID: "d1", Status: model.DispatchStatusSuccess}}

	w := s.do(http.MethodGet, "/api/dispatches?status=success&kind=test_email&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, s.dispatches.opts)

	var reports []model.DispatchReport
	decode(t, w, &reports)
	require.Len(t, reports, 1)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/dispatches?status=maybe", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/dispatches?kind=fax", "").Code)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/dispatches/d1", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/dispatches/zzz", "").Code)
}

func TestUnknownRoute(t *testing.T) {
	w := newTestServer(t, readyDataset()).do(http.MethodGet, "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body handler.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, "NOT_FOUND", body.Kind)
}

func TestSwaggerDoc(t *testing.T) {
	w := newTestServer(t, readyDataset()).do(http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/products")
}
