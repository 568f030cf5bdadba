package handler

import (
	"bytes"
	"net/http"

	"herdscope/internal/analytics"
	"herdscope/pkg/router"
	"herdscope/pkg/utils"
)

// Export downloads an aggregate view as a file
// @Summary Export products or categories
// @Description File name selects the view (products, categories) and format (csv, json, xlsx)
// @Tags export
// @Produce octet-stream
// @Param file path string true "File name" example(products.csv)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/export/{file} [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	fileName := router.Param(r, 0)

	view, format, err := analytics.ParseExportName(fileName)
	if err != nil {
		writeError(w, err)
		return
	}

	snap, err := h.dataset.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := analytics.Export(&buf, snap, view, format); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", utils.ContentDisposition(utils.DownloadName(fileName, h.now())))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
