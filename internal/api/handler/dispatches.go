package handler

import (
	"net/http"

	"herdscope/internal/model"
	"herdscope/internal/store"
	apperrors "herdscope/pkg/errors"
	"herdscope/pkg/router"
	"herdscope/pkg/utils"
)

const (
	defaultDispatchLimit = 50
	maxDispatchLimit     = 500
)

// ListDispatches returns the dispatch history
// @Summary Dispatch history
// @Description Past alert dispatches, newest first
// @Tags alerts
// @Produce json
// @Param status query string false "Outcome" Enums(success, error)
// @Param kind query string false "Document kind" Enums(product_alert, trending_digest, test_email)
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {array} model.DispatchReport
// @Failure 400 {object} ErrorResponse
// @Router /api/dispatches [get]
func (h *Handler) ListDispatches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	status := model.DispatchStatus(query.Get("status"))
	switch status {
	case "", model.DispatchStatusSuccess, model.DispatchStatusError:
	default:
		writeError(w, apperrors.NewValidationError("unknown status "+string(status)))
		return
	}

	kind := model.DispatchKind(query.Get("kind"))
	switch kind {
	case "", model.DispatchKindProductAlert, model.DispatchKindTrendingDigest, model.DispatchKindTestEmail:
	default:
		writeError(w, apperrors.NewValidationError("unknown kind "+string(kind)))
		return
	}

	limit, err := utils.ParseLimit(query.Get("limit"), defaultDispatchLimit, maxDispatchLimit)
	if err != nil {
		writeError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	reports, err := h.dispatches.ListDispatches(r.Context(),
		store.ByStatus(status),
		store.ByKind(kind),
		store.WithLimit(uint64(limit)),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// GetDispatch returns one dispatch
// @Summary Dispatch by id
// @Tags alerts
// @Produce json
// @Param id path string true "Dispatch ID"
// @Success 200 {object} model.DispatchReport
// @Failure 404 {object} ErrorResponse
// @Router /api/dispatches/{id} [get]
func (h *Handler) GetDispatch(w http.ResponseWriter, r *http.Request) {
	id := router.Param(r, 0)
	if id == "" {
		writeError(w, apperrors.NewValidationError("dispatch id is required"))
		return
	}

	rep, err := h.dispatches.GetDispatch(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
