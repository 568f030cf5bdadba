package analytics

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"herdscope/internal/model"
	apperrors "herdscope/pkg/errors"
)

// Dataset owns the single snapshot served by the process and tracks how it was
// loaded. It moves uninitialized -> loading -> ready|failed exactly once.
type Dataset struct {
	mu    sync.RWMutex
	snap  *Snapshot
	stats model.LoadStats
}

// NewDataset returns an uninitialized dataset.
func NewDataset() *Dataset {
	return &Dataset{stats: model.LoadStats{State: model.LoadStateUninitialized}}
}

// NewReadyDataset wraps an already built snapshot.
func NewReadyDataset(snap *Snapshot) *Dataset {
	now := time.Now().UTC()
	return &Dataset{
		snap: snap,
		stats: model.LoadStats{
			State:      model.LoadStateReady,
			Source:     snap.Source(),
			Rows:       snap.Len(),
			StartedAt:  &now,
			FinishedAt: &now,
		},
	}
}

// Load reads path and makes the result available to readers. A dataset can only
// be loaded once.
func (d *Dataset) Load(path string) error {
	d.mu.Lock()
	if d.stats.State != model.LoadStateUninitialized {
		state := d.stats.State
		d.mu.Unlock()
		return apperrors.NewValidationError("dataset already " + string(state))
	}
	start := time.Now().UTC()
	d.stats = model.LoadStats{
		State:     model.LoadStateLoading,
		Source:    path,
		StartedAt: &start,
	}
	d.mu.Unlock()

	log.Info().Str("source", path).Msg("Loading dataset")

	snap, err := Load(path)

	d.mu.Lock()
	defer d.mu.Unlock()

	end := time.Now().UTC()
	d.stats.FinishedAt = &end
	d.stats.Duration = end.Sub(start)

	if err != nil {
		d.stats.State = model.LoadStateFailed
		d.stats.Error = err.Error()
		log.Error().Err(err).Str("source", path).Msg("Dataset load failed")
		return err
	}

	d.snap = snap
	d.stats.State = model.LoadStateReady
	d.stats.Rows = snap.Len()

	log.Info().
		Str("source", path).
		Int("rows", snap.Len()).
		Dur("duration", d.stats.Duration).
		Msg("Dataset loaded")
	return nil
}

// Snapshot returns the loaded snapshot, or DataUnavailable if loading has not
// succeeded.
func (d *Dataset) Snapshot() (*Snapshot, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stats.State != model.LoadStateReady {
		return nil, apperrors.NewDataUnavailableError("dataset is "+string(d.stats.State), nil)
	}
	return d.snap, nil
}

// Stats returns a copy of the load statistics.
func (d *Dataset) Stats() model.LoadStats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stats
}
