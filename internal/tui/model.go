package tui

import (
	"context"
	"log/slog"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"scatterview/internal/config"
	"scatterview/internal/dataset"
	"scatterview/internal/plot"
	"scatterview/internal/selection"
	"scatterview/internal/viewstate"
)

// Options configure New.
type Options struct {
	Config config.Config
	// Store persists widget layouts; nil disables persistence.
	Store *viewstate.Store
	// DataPath is loaded at launch when set.
	DataPath string
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// selected points table
	showAttrs bool
	tbl       table.Model

	cfg     config.Config
	store   *viewstate.Store
	src     *dataset.CSVSource
	sel     *selection.Service
	widgets [3]*widget
	active  Kind
}

func New(opts Options) Model {
	m := Model{
		helpVisible: true,
		status:      "scatterview ready",
		cfg:         opts.Config,
		store:       opts.Store,
		sel:         selection.New(),
	}
	m.cwd, _ = os.Getwd()
	if k, ok := ParseKind(opts.Config.Plot); ok {
		m.active = k
	}
	for k := range m.widgets {
		m.widgets[k] = newWidget(Kind(k), opts.Config, m.sel)
	}
	widgets := m.widgets
	m.sel.OnSelectionChanged(func() {
		for _, w := range widgets {
			w.stale = true
		}
	})
	m.loadLayouts()

	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste CSV here (pmc,region,x,y,<expressions>). Press Ctrl+S to plot; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()

	if opts.DataPath != "" {
		m.loadPath(opts.DataPath)
	}
	return m
}

// loadLayouts restores every saved widget layout. Rows for widget kinds
// this build does not know are skipped.
func (m *Model) loadLayouts() {
	if m.store == nil {
		return
	}
	ctx := context.Background()
	ids, err := m.store.Widgets(ctx)
	if err != nil {
		slog.Warn("cannot list saved layouts", "err", err)
		return
	}
	for _, id := range ids {
		kind, ok := ParseKind(id)
		if !ok {
			slog.Warn("skipping saved layout of unknown widget", "widget", id)
			continue
		}
		st, ok, err := m.store.LoadLayout(ctx, id)
		if err != nil {
			slog.Warn("cannot restore layout", "widget", kind, "err", err)
			continue
		}
		if ok {
			m.widgets[kind].applyViewState(st)
		}
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) current() *widget { return m.widgets[m.active] }

// setSource hands a freshly loaded data source to every widget.
func (m *Model) setSource(src *dataset.CSVSource) {
	m.src = src
	m.sel.Clear()
	m.sel.SetHoverPoint(plot.NoPMC)
	for _, w := range m.widgets {
		if err := w.setSource(src); err != nil {
			slog.Warn("cannot build plot", "widget", w.kind, "err", err)
		}
	}
}
