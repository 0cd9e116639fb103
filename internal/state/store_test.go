package state

import (
	"errors"
	"testing"
	"time"

	"github.com/five82/linewatch/internal/equipment"
	"github.com/five82/linewatch/internal/provider"
)

func remoteResult(ids ...int) provider.Result {
	records := make([]equipment.Record, len(ids))
	for i, id := range ids {
		records[i] = equipment.Record{EquipmentID: id, Status: equipment.StatusActive, Efficiency: 90}
	}
	return provider.Result{Records: records, Statistics: equipment.Summarize(records), Origin: provider.OriginRemote}
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	filters := equipment.Filters{Status: "Active"}
	before := time.Now()
	s.Update(remoteResult(1, 2), filters, nil)

	snap := s.Snapshot()
	if !snap.HasData || len(snap.Records) != 2 || snap.Records[0].EquipmentID != 1 {
		t.Fatalf("snapshot records = %#v, want 2 records", snap.Records)
	}
	if snap.Filters != filters {
		t.Fatalf("Filters = %+v, want %+v", snap.Filters, filters)
	}
	if snap.Origin != provider.OriginRemote || snap.IsLocal() {
		t.Fatalf("Origin = %q, want remote", snap.Origin)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Records[0].EquipmentID = 999
	*snap.Statistics.AvgEfficiency = 1
	snap2 := s.Snapshot()
	if snap2.Records[0].EquipmentID != 1 {
		t.Fatalf("Snapshot should clone records; got id %d want 1", snap2.Records[0].EquipmentID)
	}
	if avg, _ := snap2.Statistics.AverageEfficiency(); avg != 90 {
		t.Fatalf("Snapshot should clone statistics; got average %v want 90", avg)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(remoteResult(1), equipment.Filters{}, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(provider.Result{}, equipment.Filters{Location: "x"}, origErr)

	snap := s.Snapshot()
	if len(snap.Records) != 1 || snap.Records[0].EquipmentID != 1 {
		t.Fatalf("records changed on error: got %#v want %#v", snap.Records, prev.Records)
	}
	if snap.Filters != prev.Filters {
		t.Fatalf("filters changed on error: got %+v want %+v", snap.Filters, prev.Filters)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if snap.LastError != origErr {
		t.Fatalf("LastError = %#v, want the error passed to Update", snap.LastError)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("initial snapshot = %+v, want online with 0 failures", snap)
	}

	// Local fallback counts as a remote miss.
	remoteErr := errors.New("connection refused")
	local := provider.Result{Origin: provider.OriginLocal, RemoteErr: remoteErr}
	s.Update(local, equipment.Filters{}, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("ConsecutiveFailures = %d offline=%v, want 1 and online", snap.ConsecutiveFailures, snap.IsOffline())
	}
	if !snap.IsLocal() || snap.RemoteErr != remoteErr {
		t.Fatalf("snapshot should report local origin with the remote error")
	}

	s.Update(provider.Result{}, equipment.Filters{}, errors.New("both failed"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("ConsecutiveFailures = %d offline=%v, want 2 and offline", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(remoteResult(3), equipment.Filters{}, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after remote success", snap.ConsecutiveFailures)
	}
	if snap.RemoteErr != nil {
		t.Fatalf("RemoteErr = %v, want nil after remote success", snap.RemoteErr)
	}
}

func TestStore_SetConnection(t *testing.T) {
	var s Store
	if s.Snapshot().HasConnection {
		t.Fatalf("HasConnection = true before any probe")
	}

	s.SetConnection(provider.ConnectionResult{Connected: true, Message: "ok"})
	snap := s.Snapshot()
	if !snap.HasConnection || !snap.Connection.Connected || snap.CheckedAt.IsZero() {
		t.Fatalf("connection = %+v checked=%v, want connected", snap.Connection, snap.CheckedAt)
	}
}
