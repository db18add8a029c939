package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/m3ugen/internal/library"
	"github.com/desertthunder/m3ugen/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SectionListView ViewState = iota
	ConfirmView
	GenerateView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	lib          *library.Library
	engine       *tasks.GenerateEngine
	width        int
	height       int
	sectionList  list.Model
	selected     *library.Section
	generateAll  bool
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.GenerateResult
	err          error
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	all     key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "generate section"),
		),
		all: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "generate all"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		no: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
		restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.all},
		{k.back, k.yes, k.no},
		{k.restart, k.quit},
	}
}

type progressUpdateMsg tasks.ProgressUpdate

type generateCompleteMsg struct {
	result *tasks.GenerateResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, lib *library.Library, engine *tasks.GenerateEngine) *Model {
	items := make([]list.Item, len(lib.Sections))
	for i, sec := range lib.Sections {
		items[i] = sectionItem{section: sec}
	}

	sectionList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	sectionList.Title = fmt.Sprintf("Library Sections (%s)", lib.Path)

	return &Model{
		ctx:         ctx,
		view:        SectionListView,
		lib:         lib,
		engine:      engine,
		sectionList: sectionList,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init implements tea.Model; the section list is already populated.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sectionList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SectionListView:
			return m.handleSectionListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case generateCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.view == SectionListView {
		m.sectionList, cmd = m.sectionList.Update(msg)
	}
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case SectionListView:
		return m.renderSectionList()
	case ConfirmView:
		return m.renderConfirm()
	case GenerateView:
		return m.renderGenerate()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSectionListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "a":
		m.generateAll = true
		m.selected = nil
		m.view = ConfirmView
		return m, nil
	case "enter":
		if selected := m.sectionList.SelectedItem(); selected != nil {
			if item, ok := selected.(sectionItem); ok {
				sec := item.section
				m.selected = &sec
				m.generateAll = false
				m.view = ConfirmView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.sectionList, cmd = m.sectionList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = SectionListView
		return m, nil
	case "y":
		m.view = GenerateView
		return m, m.startGenerate()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = SectionListView
		m.selected = nil
		m.result = nil
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		return m, nil
	}
	return m, nil
}

// target returns the library subset the confirmed action applies to.
func (m *Model) target() *library.Library {
	if m.generateAll || m.selected == nil {
		return m.lib
	}
	return &library.Library{Path: m.lib.Path, Sections: []library.Section{*m.selected}}
}

func (m *Model) startGenerate() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	lib := m.target()
	progress := m.progressChan

	go func() {
		result, err := m.engine.Run(m.ctx, progress, lib)
		m.result = result
		m.err = err
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return generateCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return generateCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSectionList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.all, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.sectionList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	var title, info string
	if m.generateAll {
		title = styles.title.Render("Generate playlists for every section?")
		info = fmt.Sprintf("\nConfiguration: %s\nSections: %d\n", m.lib.Path, len(m.lib.Sections))
	} else {
		title = styles.title.Render(fmt.Sprintf("Generate playlist for '%s'?", m.selected.Name))
		info = fmt.Sprintf("\nSource: %s\nDestination: %s\n", m.selected.MusicSource, m.selected.PlaylistFolder)
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderGenerate() string {
	title := styles.title.Render("Generating Playlists")

	var phase string
	switch m.progress.Phase {
	case tasks.ScanSections:
		phase = "Scanning sections..."
	case tasks.WriteSection, tasks.SectionDone:
		phase = fmt.Sprintf("Writing sections (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.RunComplete:
		phase = "Finishing..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Generation failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Generation Complete")
	info := fmt.Sprintf(
		"\nSections: %d\nWritten: %d\nSkipped: %d\nFailed: %d\nEntries: %d\nDuration: %s",
		m.result.Sections(),
		m.result.Written,
		m.result.Skipped,
		m.result.Failed,
		m.result.TotalEntries,
		m.result.Duration.Round(time.Millisecond),
	)

	var problems string
	for _, report := range m.result.Reports {
		if report.Written() {
			continue
		}
		detail := report.Reason
		if report.Err != nil {
			detail = report.Err.Error()
		}
		problems += fmt.Sprintf("\n  • %s: %s", report.Section, detail)
	}
	if problems != "" {
		problems = fmt.Sprintf("\n\n%s%s", styles.warn.Render("Sections with problems:"), problems)
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, problems, helpView)
}
