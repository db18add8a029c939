// Package tasks orchestrates playlist generation runs with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines the generation run:
//
//   - [Engine.Run] : Generate every section's playlist in configuration order
//     - Processes sections sequentially; a failing section never stops the next
//     - Collects per-section reports and aggregate counters
//     - Optionally records the run in the history database
//
// [Watcher] regenerates playlists whenever the library configuration file
// changes on disk (fsnotify, debounced), until its context is cancelled.
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values (phase, step counters, message)
// through a channel for display in the CLI or TUI. Updates use select with
// default so reporting never blocks generation.
//
// # Run History
//
// When a [repositories.RunRepository] is attached, each run is persisted
// after completion. Recording failures are logged as warnings and never fail
// the run; history is write-only observability data, never an input to
// generation.
package tasks
