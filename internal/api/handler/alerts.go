package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"herdscope/internal/model"
	apperrors "herdscope/pkg/errors"
)

// DispatchErrorResponse is returned when a dispatch ran but reached nobody
type DispatchErrorResponse struct {
	ErrorResponse
	Report *model.DispatchReport `json:"report"`
}

// SendAlert emails a product alert or the trending digest
// @Summary Send alert email
// @Description Sends the alert of product_id when given, otherwise the top 10 digest. "to" may be a string or a list and defaults to the configured recipients.
// @Tags alerts
// @Accept json
// @Produce json
// @Param request body model.AlertRequest false "Alert request"
// @Success 200 {object} model.DispatchReport
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} DispatchErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /send-alert [post]
func (h *Handler) SendAlert(w http.ResponseWriter, r *http.Request) {
	var req model.AlertRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rep, err := h.alerts.SendAlert(r.Context(), req)
	writeDispatch(w, rep, err)
}

// SendTestEmail emails the test document
// @Summary Send test email
// @Description Sends a test message to "to" (a string, or a list whose first entry is used), or to the first configured recipient
// @Tags alerts
// @Accept json
// @Produce json
// @Param request body model.TestEmailRequest false "Test email request"
// @Success 200 {object} model.DispatchReport
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} DispatchErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /test-email [post]
func (h *Handler) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	var req model.TestEmailRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rep, err := h.alerts.SendTestEmail(r.Context(), req.To.First())
	writeDispatch(w, rep, err)
}

// decodeOptional decodes a JSON body into v. An empty body leaves v untouched.
func decodeOptional(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperrors.NewValidationError("invalid JSON payload: " + err.Error())
}

func writeDispatch(w http.ResponseWriter, rep *model.DispatchReport, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, rep)
		return
	}
	if rep == nil {
		writeError(w, err)
		return
	}

	status, body := errorBody(err)
	writeJSON(w, status, DispatchErrorResponse{ErrorResponse: body, Report: rep})
}
