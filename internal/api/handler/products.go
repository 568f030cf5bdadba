package handler

import (
	"net/http"

	"herdscope/internal/analytics"
	"herdscope/internal/model"
	apperrors "herdscope/pkg/errors"
	"herdscope/pkg/router"
	"herdscope/pkg/utils"
)

const defaultProductLimit = 10

// Home is the liveness probe
// @Summary Liveness
// @Tags health
// @Produce plain
// @Success 200 {string} string "✅ Backend server is working fine!"
// @Router / [get]
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("✅ Backend server is working fine!"))
}

// Health reports the dataset load state
// @Summary Dataset health
// @Description Returns load statistics; 503 until the dataset is ready
// @Tags health
// @Produce json
// @Success 200 {object} model.LoadStats
// @Failure 503 {object} model.LoadStats
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.dataset.Stats()
	status := http.StatusOK
	if stats.State != model.LoadStateReady {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, stats)
}

// ListProducts returns the top products
// @Summary Top products
// @Description Top products ordered by a numeric field, 10 by sales descending by default
// @Tags products
// @Produce json
// @Param sort query string false "Sort key" Enums(product_id, price, sales, clicks, views, click_increase_percent, conversion_rate, revenue)
// @Param limit query int false "Number of products" default(10)
// @Param order query string false "Sort order" Enums(asc, desc) default(desc)
// @Success 200 {array} model.ProductRecord
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/products [get]
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dataset.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()

	key := analytics.SortBySales
	if raw := query.Get("sort"); raw != "" {
		if key, err = analytics.ParseSortKey(raw); err != nil {
			writeError(w, err)
			return
		}
	}

	limit, err := utils.ParseLimit(query.Get("limit"), defaultProductLimit, 0)
	if err != nil {
		writeError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	descending, err := utils.ParseOrder(query.Get("order"), true)
	if err != nil {
		writeError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	products, err := analytics.TopN(snap, key, limit, descending)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// ProductsWithPricing returns every product with derived metrics
// @Summary All products with pricing
// @Description Every product ordered by sales descending, with conversion rate and revenue
// @Tags products
// @Produce json
// @Success 200 {array} model.ProductDetail
// @Failure 503 {object} ErrorResponse
// @Router /api/products/pricing [get]
func (h *Handler) ProductsWithPricing(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dataset.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := analytics.SortAll(snap, analytics.SortBySales, true)
	if err != nil {
		writeError(w, err)
		return
	}

	details := make([]model.ProductDetail, len(records))
	for i, rec := range records {
		details[i] = analytics.Detail(rec)
	}
	writeJSON(w, http.StatusOK, details)
}

// GetProduct returns one product
// @Summary Product by id
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} model.ProductDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [get]
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookupProduct(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Detail(rec))
}

// Summary returns the dashboard KPIs
// @Summary Summary statistics
// @Tags analytics
// @Produce json
// @Success 200 {object} model.SummaryStats
// @Failure 422 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dataset.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}

	stats, err := analytics.Summary(snap)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Categories returns per category totals
// @Summary Category statistics
// @Description One entry per category in order of first appearance
// @Tags analytics
// @Produce json
// @Success 200 {array} model.CategorySummary
// @Failure 503 {object} ErrorResponse
// @Router /api/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dataset.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.ByCategory(snap))
}

// lookupProduct resolves the product named by the last wildcard segment,
// writing the error response itself when it cannot.
func (h *Handler) lookupProduct(w http.ResponseWriter, r *http.Request) (model.ProductRecord, bool) {
	snap, err := h.dataset.Snapshot()
	if err != nil {
		writeError(w, err)
		return model.ProductRecord{}, false
	}

	id, err := utils.ParseID(router.Param(r, 0))
	if err != nil {
		writeError(w, apperrors.NewValidationError(err.Error()))
		return model.ProductRecord{}, false
	}

	rec, err := analytics.FindByID(snap, id)
	if err != nil {
		writeError(w, err)
		return model.ProductRecord{}, false
	}
	return rec, true
}
