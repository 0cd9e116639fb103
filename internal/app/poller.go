package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/linewatch/internal/equipment"
	"github.com/five82/linewatch/internal/provider"
	"github.com/five82/linewatch/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 30 * time.Second
)

// Fetcher is the slice of provider.Provider the refresher drives.
type Fetcher interface {
	Fetch(ctx context.Context, filters equipment.Filters) (provider.Result, error)
	TestConnection(ctx context.Context) provider.ConnectionResult
}

// Refresher pulls equipment data for the current filters into the store. It is
// shared by the background poller and the UI's on-demand refreshes.
type Refresher struct {
	src   Fetcher
	store *state.Store
	log   zerolog.Logger

	mu      sync.Mutex
	filters equipment.Filters
}

// NewRefresher returns a Refresher starting with filters.
func NewRefresher(src Fetcher, store *state.Store, filters equipment.Filters, log zerolog.Logger) *Refresher {
	return &Refresher{src: src, store: store, filters: filters, log: log}
}

// Filters returns the filters the next refresh will use.
func (r *Refresher) Filters() equipment.Filters {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filters
}

// SetFilters replaces the filters used by subsequent refreshes.
func (r *Refresher) SetFilters(filters equipment.Filters) {
	r.mu.Lock()
	r.filters = filters
	r.mu.Unlock()
}

// Refresh fetches records and probes the connection, recording both in the store.
// The returned error is the fetch error, already recorded.
func (r *Refresher) Refresh(ctx context.Context) error {
	filters := r.Filters()
	res, err := r.src.Fetch(ctx, filters)
	r.store.Update(res, filters, err)
	switch {
	case err != nil:
		r.log.Error().Err(err).Msg("equipment refresh failed")
	case res.Origin == provider.OriginLocal:
		r.log.Info().Int("records", len(res.Records)).Msg("equipment refreshed from local dataset")
	default:
		r.log.Debug().Int("records", len(res.Records)).Msg("equipment refreshed")
	}

	conn := r.src.TestConnection(ctx)
	r.store.SetConnection(conn)
	if !conn.Connected {
		r.log.Debug().Str("message", conn.Message).Msg("connection test failed")
	}
	return err
}

// StartPoller launches a background goroutine that refreshes the store at the
// given cadence, backing off while the remote API is unreachable. It returns
// immediately.
func StartPoller(ctx context.Context, r *Refresher, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			wait := calculateBackoff(r.store.Snapshot().ConsecutiveFailures, interval)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			_ = r.Refresh(ctx)
		}
	}()
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff. Intervals already above the cap are returned unchanged.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 || interval >= maxBackoff {
		return interval
	}
	backoff := interval
	for range failures {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
