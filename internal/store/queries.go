package store

import (
	sq "github.com/Masterminds/squirrel"

	"herdscope/internal/model"
)

// ListOption narrows a dispatch listing
type ListOption func(sq.SelectBuilder) sq.SelectBuilder

// ByStatus keeps dispatches with the given outcome.
func ByStatus(status model.DispatchStatus) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if status == "" {
			return b
		}
		return b.Where(sq.Eq{"status": string(status)})
	}
}

// ByKind keeps dispatches of the given kind.
func ByKind(kind model.DispatchKind) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if kind == "" {
			return b
		}
		return b.Where(sq.Eq{"kind": string(kind)})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

var dispatchColumns = []string{
	"id",
	"kind",
	"subject",
	"status",
	"message",
	"sent_to",
	"created_at",
}

func selectDispatches() sq.SelectBuilder {
	return sq.Select(dispatchColumns...).
		From("dispatches").
		OrderBy("created_at DESC", "rowid DESC")
}
