// Package state provides thread-safe state management for the linewatch dashboard.
//
// # Overview
//
// The Store is the coordination point between the refresher, which queries the
// equipment provider, and the UI, which renders whatever was fetched last.
//
//	Producer (refresher):           Consumer (UI):
//	┌─────────────────────┐        ┌──────────────────┐
//	│ provider.Fetch()    │        │                  │
//	│ TestConnection()    │        │                  │
//	│      ↓              │        │                  │
//	│ store.Update()      │───────→│ store.Snapshot() │
//	│ store.SetConnection │ (mutex)│      ↓           │
//	└─────────────────────┘        │  render UI       │
//	                               └──────────────────┘
//
// # Update Semantics
//
//	// Success: replace records, statistics, filters and origin
//	store.Update(result, filters, nil)
//
//	// Failure (remote and local both failed): keep old data, record the error
//	store.Update(provider.Result{}, filters, err)
//
// A result served from the local dataset is a success for display purposes but
// still counts toward ConsecutiveFailures, so IsOffline reflects how long the
// remote API has been unreachable rather than whether data is on screen.
//
// # Defensive Copying
//
// Record slices, maintenance date pointers, the optional average efficiency and
// error values are copied on the way out so the UI can never mutate stored data.
//
// The zero Store is ready to use.
package state
