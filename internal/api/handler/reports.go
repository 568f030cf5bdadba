package handler

import (
	"net/http"

	"herdscope/internal/analytics"
	"herdscope/internal/dispatch"
	"herdscope/internal/report"
)

// ProductReport previews the alert email of a product
// @Summary Product alert preview
// @Tags reports
// @Produce html
// @Param id path int true "Product ID"
// @Success 200 {string} string "HTML document"
// @Failure 404 {object} ErrorResponse
// @Router /api/reports/products/{id} [get]
func (h *Handler) ProductReport(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookupProduct(w, r)
	if !ok {
		return
	}

	doc, err := h.renderer.RenderProductAlert(rec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeHTML(w, doc)
}

// TrendingReport previews the trending digest email
// @Summary Trending digest preview
// @Description Digest of the top sellers as it would be emailed
// @Tags reports
// @Produce html
// @Success 200 {string} string "HTML document"
// @Failure 503 {object} ErrorResponse
// @Router /api/reports/trending [get]
func (h *Handler) TrendingReport(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dataset.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}

	top, err := analytics.TopN(snap, analytics.SortBySales, dispatch.DigestSize, true)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := h.renderer.RenderTrendingDigest(top)
	if err != nil {
		writeError(w, err)
		return
	}
	writeHTML(w, doc)
}

func writeHTML(w http.ResponseWriter, doc report.Document) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc.HTML))
}
