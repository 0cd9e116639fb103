package state

import (
	"sync"
	"time"

	"github.com/five82/linewatch/internal/equipment"
	"github.com/five82/linewatch/internal/provider"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Records    []equipment.Record
	Statistics equipment.Statistics
	Filters    equipment.Filters // filters the records were fetched with
	HasData    bool
	Origin     provider.Origin
	RemoteErr  error // swallowed remote failure behind a local result

	Connection    provider.ConnectionResult
	HasConnection bool
	CheckedAt     time.Time

	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // refreshes in a row that could not reach the remote API
}

// IsOffline returns true when the remote API has been unreachable for multiple
// refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// IsLocal reports whether the current records came from the local dataset.
func (s Snapshot) IsLocal() bool {
	return s.HasData && s.Origin == provider.OriginLocal
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the outcome of a refresh. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) Update(res provider.Result, filters equipment.Filters, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Records = cloneRecords(res.Records)
	s.snapshot.Statistics = cloneStatistics(res.Statistics)
	s.snapshot.Filters = filters
	s.snapshot.HasData = true
	s.snapshot.Origin = res.Origin
	s.snapshot.RemoteErr = res.RemoteErr
	s.snapshot.LastError = nil
	if res.Origin == provider.OriginLocal {
		s.snapshot.ConsecutiveFailures++
	} else {
		s.snapshot.ConsecutiveFailures = 0
	}
}

// SetConnection records the latest connection probe.
func (s *Store) SetConnection(result provider.ConnectionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Connection = result
	s.snapshot.HasConnection = true
	s.snapshot.CheckedAt = time.Now()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Records = cloneRecords(s.snapshot.Records)
	snap.Statistics = cloneStatistics(s.snapshot.Statistics)
	return snap
}

func cloneRecords(records []equipment.Record) []equipment.Record {
	if len(records) == 0 {
		return nil
	}
	dup := make([]equipment.Record, len(records))
	copy(dup, records)
	for i := range dup {
		if d := dup[i].LastMaintenanceDate; d != nil {
			v := *d
			dup[i].LastMaintenanceDate = &v
		}
		if d := dup[i].NextMaintenanceDate; d != nil {
			v := *d
			dup[i].NextMaintenanceDate = &v
		}
	}
	return dup
}

func cloneStatistics(stats equipment.Statistics) equipment.Statistics {
	if stats.AvgEfficiency != nil {
		avg := *stats.AvgEfficiency
		stats.AvgEfficiency = &avg
	}
	return stats
}
