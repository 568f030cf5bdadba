package handler

import (
	"context"
	"time"

	"herdscope/internal/analytics"
	"herdscope/internal/model"
	"herdscope/internal/report"
	"herdscope/internal/store"
)

// Alerter sends alert and test documents
type Alerter interface {
	SendAlert(ctx context.Context, req model.AlertRequest) (*model.DispatchReport, error)
	SendTestEmail(ctx context.Context, to string) (*model.DispatchReport, error)
}

// DispatchLog reads past dispatches
type DispatchLog interface {
	ListDispatches(ctx context.Context, opts ...store.ListOption) ([]model.DispatchReport, error)
	GetDispatch(ctx context.Context, id string) (*model.DispatchReport, error)
}

// Handler serves the HTTP API
type Handler struct {
	dataset    *analytics.Dataset
	renderer   *report.Renderer
	alerts     Alerter
	dispatches DispatchLog
	now        func() time.Time
}

// New creates a handler over its collaborators.
func New(dataset *analytics.Dataset, renderer *report.Renderer, alerts Alerter, dispatches DispatchLog) *Handler {
	return &Handler{
		dataset:    dataset,
		renderer:   renderer,
		alerts:     alerts,
		dispatches: dispatches,
		now:        time.Now,
	}
}
