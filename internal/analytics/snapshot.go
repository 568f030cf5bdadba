package analytics

import (
	"time"

	"herdscope/internal/model"
)

// Snapshot is an immutable, fully loaded copy of the dataset.
//
// A Snapshot is never modified after construction, so it may be shared by any
// number of goroutines without locking. Accessors hand out copies.
type Snapshot struct {
	source   string
	loadedAt time.Time
	records  []model.ProductRecord
	byID     map[int64]int // product_id -> first row index
}

// NewSnapshot builds a snapshot over a private copy of records.
func NewSnapshot(source string, records []model.ProductRecord) *Snapshot {
	rows := make([]model.ProductRecord, len(records))
	copy(rows, records)

	byID := make(map[int64]int, len(rows))
	for i, rec := range rows {
		if _, dup := byID[rec.ProductID]; !dup {
			byID[rec.ProductID] = i
		}
	}

	return &Snapshot{
		source:   source,
		loadedAt: time.Now().UTC(),
		records:  rows,
		byID:     byID,
	}
}

// Source returns the path the snapshot was loaded from.
func (s *Snapshot) Source() string { return s.source }

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Len returns the number of rows.
func (s *Snapshot) Len() int { return len(s.records) }

// At returns a copy of row i in original order.
func (s *Snapshot) At(i int) model.ProductRecord { return s.records[i] }

// Records returns a copy of all rows in original order.
func (s *Snapshot) Records() []model.ProductRecord {
	out := make([]model.ProductRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Snapshot) indexOf(id int64) (int, bool) {
	i, ok := s.byID[id]
	return i, ok
}
