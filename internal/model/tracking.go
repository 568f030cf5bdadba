package model

import "time"

// LoadState is a step of the dataset lifecycle
type LoadState string

const (
	LoadStateUninitialized LoadState = "uninitialized"
	LoadStateLoading       LoadState = "loading"
	LoadStateReady         LoadState = "ready"
	LoadStateFailed        LoadState = "failed"
)

// LoadStats describes how and when the dataset was loaded
type LoadStats struct {
	State      LoadState     `json:"state"`
	Source     string        `json:"source,omitempty"`
	Rows       int           `json:"rows"`
	StartedAt  *time.Time    `json:"started_at,omitempty"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
}
