package model

import "time"

// DispatchKind identifies which document a dispatch carried
type DispatchKind string

const (
	DispatchKindProductAlert   DispatchKind = "product_alert"
	DispatchKindTrendingDigest DispatchKind = "trending_digest"
	DispatchKindTestEmail      DispatchKind = "test_email"
)

// DispatchStatus is the aggregate outcome of a dispatch
type DispatchStatus string

const (
	DispatchStatusSuccess DispatchStatus = "success"
	DispatchStatusError   DispatchStatus = "error"
)

// FailedRecipient records why delivery to one recipient failed
type FailedRecipient struct {
	Recipient string `json:"recipient"`
	Reason    string `json:"reason"`
}

// DispatchReport is the outcome of sending one document to a recipient list
type DispatchReport struct {
	ID        string            `json:"id"`
	Kind      DispatchKind      `json:"kind"`
	Subject   string            `json:"subject"`
	Status    DispatchStatus    `json:"status"`
	Message   string            `json:"message"`
	Sent      []string          `json:"sent"`
	Failed    []FailedRecipient `json:"failed"`
	CreatedAt time.Time         `json:"created_at"`
}

// AlertRequest is the body of POST /send-alert
type AlertRequest struct {
	ProductID *int64     `json:"product_id,omitempty"`
	To        Recipients `json:"to,omitempty"`
}

// TestEmailRequest is the body of POST /test-email
type TestEmailRequest struct {
	To Recipients `json:"to,omitempty"` // only the first address is used
}
