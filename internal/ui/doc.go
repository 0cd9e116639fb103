// Package ui provides the terminal dashboard for linewatch.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program styled after k9s. It never talks to the
// equipment API directly: records come from a state.Store that the app
// package's Refresher fills, and the UI asks the Refresher for on-demand
// refreshes when the operator presses r or changes filters.
//
// # Package Structure
//
//   - app.go: Model, Update/View, messages and commands, and Run
//   - equipment.go: Equipment table and record detail pane
//   - overview.go: Statistics, data source, per-type counts, maintenance due
//   - logs.go: Tail of the dashboard's own zerolog file with regex search
//   - filters.go: Filter modal and filter summaries
//   - header.go: Status bar and command bar
//   - theme.go, style_helpers.go, strings.go, layout.go: Rendering helpers
//
// # Views
//
//   - Equipment View: Table of records beside a detail pane for the selection
//   - Overview View: Aggregate statistics and the origin of the current data
//   - Logs View: Local log file with follow mode
//
// # Data Sources
//
// The header badge shows REMOTE when the last refresh came from the API and
// LOCAL when the provider fell back to the bundled dataset. A failed refresh
// keeps the previous records on screen and shows the error beside them.
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:   ctx,
//		Provider:  prov,
//		Refresher: refresher,
//		Store:     store,
//		Config:    &cfg,
//		ThemeName: p.Theme,
//	})
//
// # Key Bindings
//
//   - q: Equipment view
//   - o: Overview
//   - l: Logs
//   - Tab: Cycle focus through panes and views
//   - f: Edit filters; x: Clear filters
//   - r: Refresh now; c: Test API connection
//   - /: Search logs; n/N: Next/previous match
//   - Space: Toggle log auto-tail
//   - T: Cycle theme
//   - h or ?: Help
//   - e or Ctrl+C: Exit
package ui
