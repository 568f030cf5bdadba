package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"herdscope/internal/model"
	"herdscope/internal/report"
	apperrors "herdscope/pkg/errors"
)

// Recorder persists dispatch reports
type Recorder interface {
	SaveDispatch(ctx context.Context, report *model.DispatchReport) error
}

// Dispatcher sends a document to each recipient in turn. A failure for one
// recipient never affects the others.
type Dispatcher struct {
	sender   Sender
	recorder Recorder
	timeout  time.Duration
	now      func() time.Time
}

// NewDispatcher creates a dispatcher. sender may be nil, in which case every
// dispatch fails with Unavailable; recorder may be nil.
func NewDispatcher(sender Sender, recorder Recorder, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		recorder: recorder,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Enabled reports whether a sender is configured.
func (d *Dispatcher) Enabled() bool {
	return d.sender != nil
}

// Dispatch sends doc to every recipient sequentially, each attempt bounded by
// the dispatcher timeout. The report is returned even when every recipient
// failed, together with a DeliveryFailure error.
func (d *Dispatcher) Dispatch(ctx context.Context, kind model.DispatchKind, doc report.Document, recipients []string) (*model.DispatchReport, error) {
	if !d.Enabled() {
		return nil, errNotConfigured()
	}
	if len(recipients) == 0 {
		return nil, apperrors.NewValidationError("no recipients")
	}

	rep := &model.DispatchReport{
		ID:        uuid.NewString(),
		Kind:      kind,
		Subject:   doc.Subject,
		Sent:      []string{},
		Failed:    []model.FailedRecipient{},
		CreatedAt: d.now().UTC(),
	}

	for _, recipient := range recipients {
		err := d.attempt(ctx, Message{
			To:      recipient,
			Subject: doc.Subject,
			HTML:    doc.HTML,
			Text:    doc.Text,
		})
		if err != nil {
			reason := failureReason(err)
			rep.Failed = append(rep.Failed, model.FailedRecipient{Recipient: recipient, Reason: reason})
			log.Warn().Err(err).
				Str("dispatch_id", rep.ID).
				Str("recipient", recipient).
				Str("reason", reason).
				Msg("Email delivery failed")
			continue
		}
		rep.Sent = append(rep.Sent, recipient)
		log.Info().Str("dispatch_id", rep.ID).Str("recipient", recipient).Msg("Email sent")
	}

	var result error
	if len(rep.Sent) > 0 {
		rep.Status = model.DispatchStatusSuccess
		rep.Message = fmt.Sprintf("Email sent to %d recipient(s): %s", len(rep.Sent), strings.Join(rep.Sent, ", "))
		if len(rep.Failed) > 0 {
			rep.Message += " | Failed: " + describeFailures(rep.Failed)
		}
	} else {
		rep.Status = model.DispatchStatusError
		rep.Message = "Failed to send to all recipients: " + describeFailures(rep.Failed)
		result = apperrors.NewDeliveryFailureError(rep.Message)
	}

	d.record(ctx, rep)
	return rep, result
}

func errNotConfigured() error {
	return apperrors.NewUnavailableError("email delivery is not configured")
}

// attempt sends one message. Caller cancellation does not reach the sender,
// so every recipient gets its full attempt.
func (d *Dispatcher) attempt(ctx context.Context, msg Message) error {
	attemptCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	err := d.sender.Send(attemptCtx, msg)
	if err != nil && attemptCtx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}

func (d *Dispatcher) record(ctx context.Context, rep *model.DispatchReport) {
	if d.recorder == nil {
		return
	}
	if err := d.recorder.SaveDispatch(context.WithoutCancel(ctx), rep); err != nil {
		log.Error().Err(err).Str("dispatch_id", rep.ID).Msg("Failed to record dispatch")
	}
}

// failureReason maps a delivery error to the short reason shown to callers.
func failureReason(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, ErrInvalidAddress):
		return "invalid address"
	case errors.Is(err, ErrAuthFailed):
		return "auth failed"
	default:
		return "error: " + err.Error()
	}
}

func describeFailures(failed []model.FailedRecipient) string {
	parts := make([]string, len(failed))
	for i, f := range failed {
		parts[i] = fmt.Sprintf("%s (%s)", f.Recipient, f.Reason)
	}
	return strings.Join(parts, ", ")
}
