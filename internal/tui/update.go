package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"scatterview/internal/geom"
	"scatterview/internal/viewstate"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
	panStep      = 8.0
	zoomStep     = 1.2
)

// layoutSavedMsg reports the outcome of a layout write.
type layoutSavedMsg struct {
	kind Kind
	err  error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if m.showAttrs {
			switch msg.String() {
			case "a", "esc", "q", "ctrl+c":
			default:
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
		}
		var quit bool
		if quit, cmd = m.handleKey(msg); quit {
			return m, tea.Quit
		}
	case tea.MouseMsg:
		cmd = m.handleMouse(msg)
	case wheelSettledMsg:
		m.widgets[msg.kind].pz.SettleWheel(msg.token)
	case layoutSavedMsg:
		if msg.err != nil {
			m.status = "layout not saved: " + msg.err.Error()
		}
	}
	if m.showAttrs {
		m.refreshAttrs()
	}
	cmds := []tea.Cmd{cmd, m.persist()}
	// Pass messages to list when visible
	if m.showSidebar {
		var lcmd tea.Cmd
		m.l, lcmd = m.l.Update(msg)
		cmds = append(cmds, lcmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	case "ctrl+s":
		text := strings.TrimSpace(m.ta.Value())
		if text == "" {
			m.status = "paste: empty"
			return m, nil
		}
		if m.loadPasted(text) {
			m.pasteMode = false
			m.ta.Blur()
		}
		return m, m.persist()
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// handleKey runs a global key binding and reports whether to quit.
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	w := m.current()
	switch msg.String() {
	case "ctrl+c", "q":
		return true, nil
	case "1", "2", "3":
		m.active = Kind(msg.String()[0] - '1')
		m.current().stale = true
		m.status = "plot: " + m.active.String()
	case "+", "=":
		w.zoomBy(zoomStep)
		m.status = fmt.Sprintf("zoom: %.2fx", w.pz.Scale().X)
	case "-", "_":
		w.zoomBy(1 / zoomStep)
		m.status = fmt.Sprintf("zoom: %.2fx", w.pz.Scale().X)
	case "up":
		w.pz.PanBy(geom.Pt(0, panStep), true)
	case "down":
		w.pz.PanBy(geom.Pt(0, -panStep), true)
	case "left":
		w.pz.PanBy(geom.Pt(panStep, 0), true)
	case "right":
		w.pz.PanBy(geom.Pt(-panStep, 0), true)
	case "0":
		w.pz.Reset(true)
		m.status = "view reset"
	case "x":
		if w.toggleExclude() {
			m.status = "select mode: exclude"
		} else {
			m.status = "select mode: replace"
		}
	case "c":
		m.sel.Clear()
		m.status = "selection cleared"
	case "u":
		w.toggleUnit()
		m.status = "unit: " + w.unit.String()
	case "b":
		if w.kind == KindVariogram {
			w.toggleBestFit()
			m.status = fmt.Sprintf("best fit: %v", w.bestFit)
		}
	case "v":
		if w.kind == KindVariogram {
			w.toggleCross()
			m.status = fmt.Sprintf("cross variogram: %v", w.cross)
		}
	case "e":
		m.status = m.export()
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
		}
		m.resize()
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		m.ta.Focus()
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
		}
	case "esc":
		m.showAttrs = false
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
		}
	}
	if w.buildErr != nil {
		m.status = "plot error: " + w.buildErr.Error()
	}
	return false, nil
}

// plotArea is the cell rectangle the active plot occupies. It must match
// the layout in View.
func (m Model) plotArea() (x, y, w, h int) {
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	w = max(10, contentWidth-1)
	if m.showSidebar {
		x = sidebarWidth + 1
		w = max(10, contentWidth-sidebarWidth-1)
	}
	return x, headerHeight, w, contentHeight
}

func (m *Model) resize() {
	_, _, w, h := m.plotArea()
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, h-2)
	}
	for _, wd := range m.widgets {
		wd.resize(w, h)
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.pasteMode || m.showAttrs {
		return nil
	}
	ox, oy, w, h := m.plotArea()
	cx, cy := msg.X-ox, msg.Y-oy
	inside := cx >= 0 && cx < w && cy >= 0 && cy < h
	return m.current().mouse(msg, cx, cy, inside)
}

// persist saves the layout of every widget that changed since its last
// save. Each save carries the next revision of its widget, so the store
// keeps the newest layout whatever order the commands finish in.
func (m *Model) persist() tea.Cmd {
	if m.store == nil {
		return nil
	}
	var cmds []tea.Cmd
	for _, w := range m.widgets {
		if !w.dirty {
			continue
		}
		w.dirty = false
		w.rev++
		store, kind, st := m.store, w.kind, w.viewState()
		cmds = append(cmds, func() tea.Msg {
			return layoutSavedMsg{kind: kind, err: saveLayout(store, kind, st)}
		})
	}
	return tea.Batch(cmds...)
}

func saveLayout(store *viewstate.Store, kind Kind, st viewstate.State) error {
	if err := store.SaveLayout(context.Background(), kind.String(), st); err != nil {
		slog.Error("saving layout", "widget", kind, "err", err)
		return err
	}
	slog.Debug("layout saved", "widget", kind)
	return nil
}
