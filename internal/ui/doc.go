// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist generation:
//  1. [SectionListView] : Browse the library's sections
//  2. [ConfirmView] : Confirm generating one section or the whole library
//  3. [GenerateView] : Monitor real-time progress updates
//  4. [ResultView] : Display per-section outcomes
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the GenerateEngine, providing
// non-blocking status reporting during generation.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, a, y/n, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
