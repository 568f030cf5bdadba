package dispatch

import (
	"context"

	"herdscope/internal/analytics"
	"herdscope/internal/model"
	"herdscope/internal/report"
	apperrors "herdscope/pkg/errors"
)

// DigestSize is how many top sellers the trending digest lists
const DigestSize = 10

// AlertService builds alert documents from the dataset and dispatches them.
type AlertService struct {
	dataset    *analytics.Dataset
	renderer   *report.Renderer
	dispatcher *Dispatcher
	defaults   []string
}

// NewAlertService creates an alert service. defaults is used when a request
// names no recipients.
func NewAlertService(dataset *analytics.Dataset, renderer *report.Renderer, dispatcher *Dispatcher, defaults []string) *AlertService {
	return &AlertService{
		dataset:    dataset,
		renderer:   renderer,
		dispatcher: dispatcher,
		defaults:   defaults,
	}
}

// SendAlert sends the product alert when req names a product, otherwise the
// trending digest of the top sellers.
func (s *AlertService) SendAlert(ctx context.Context, req model.AlertRequest) (*model.DispatchReport, error) {
	if !s.dispatcher.Enabled() {
		return nil, errNotConfigured()
	}

	recipients := []string(req.To)
	if len(recipients) == 0 {
		recipients = s.defaults
	}
	if len(recipients) == 0 {
		return nil, apperrors.NewValidationError("no recipients given and no defaults configured")
	}

	snap, err := s.dataset.Snapshot()
	if err != nil {
		return nil, err
	}

	var (
		doc  report.Document
		kind model.DispatchKind
	)
	if req.ProductID != nil {
		rec, err := analytics.FindByID(snap, *req.ProductID)
		if err != nil {
			return nil, err
		}
		kind = model.DispatchKindProductAlert
		doc, err = s.renderer.RenderProductAlert(rec)
		if err != nil {
			return nil, err
		}
	} else {
		top, err := analytics.TopN(snap, analytics.SortBySales, DigestSize, true)
		if err != nil {
			return nil, err
		}
		kind = model.DispatchKindTrendingDigest
		doc, err = s.renderer.RenderTrendingDigest(top)
		if err != nil {
			return nil, err
		}
	}

	return s.dispatcher.Dispatch(ctx, kind, doc, recipients)
}

// SendTestEmail sends the test document to to, or to the first default recipient.
func (s *AlertService) SendTestEmail(ctx context.Context, to string) (*model.DispatchReport, error) {
	if !s.dispatcher.Enabled() {
		return nil, errNotConfigured()
	}

	if to == "" && len(s.defaults) > 0 {
		to = s.defaults[0]
	}
	if to == "" {
		return nil, apperrors.NewValidationError("no recipient given and no defaults configured")
	}

	doc, err := s.renderer.RenderTestEmail()
	if err != nil {
		return nil, err
	}
	return s.dispatcher.Dispatch(ctx, model.DispatchKindTestEmail, doc, []string{to})
}
