// Package app provides the orchestration layer for the linewatch dashboard.
//
// # Overview
//
// This package wires together configuration, logging, the equipment provider,
// state management, and the UI. It is the composition root where all
// dependencies are initialized and connected.
//
// # Architecture
//
//  1. Load config from ~/.config/linewatch/config.toml, .env, and LINEWATCH_* variables
//  2. Open the JSON log file the log view tails
//  3. Load preferences (theme, last used filters)
//  4. Build the remote client and the local dataset, and combine them in a provider.Provider
//  5. Run one refresh so the first frame has data
//  6. Start the background poller when a refresh interval is configured
//  7. Start the TUI and block until the user exits or the context is cancelled
//
// # Components
//
//   - app.go: Run and dataset selection
//   - poller.go: Refresher (fetch + connection probe into state.Store) and the background poller
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read config
//	       ├─────> logging.Open()         Dashboard log file
//	       ├─────> equipment.NewClient()  Remote API client
//	       ├─────> provider.New()         Remote first, local fallback
//	       ├─────> Refresher.Refresh()    Initial snapshot
//	       ├─────> StartPoller()          Optional background updates
//	       └─────> ui.Run()               Start TUI (blocks)
//
// # Polling Behavior
//
// Periodic refresh is off unless refresh_seconds (or -poll) is positive. While the
// remote API is unreachable each refresh is served from the local dataset and
// counted as a failure; the poller doubles its wait per consecutive failure up to
// 30 seconds and returns to the configured interval once the API answers again.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - Log file cannot be opened
//   - Local dataset file unreadable or invalid
//
// Recoverable errors (logged, recorded in the store):
//   - Remote failures, which fall back to the local dataset
//   - Both paths failing, which keeps the previous snapshot
package app
