package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scatterview/internal/plot"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	_, _, mapWidth, mapHeight := m.plotArea()
	contentWidth := max(10, m.width)

	// Header
	header := lipgloss.NewStyle().Width(contentWidth).Padding(0).Render(m.renderTabs())

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		// Render the selection table centered in the plot area
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.pasteMode:
		m.ta.SetWidth(mapWidth)
		m.ta.SetHeight(min(mapHeight, 12))
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.ta.View())
	default:
		mapView = m.current().render(mapWidth, mapHeight)
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer / help
	status := dimStyle.Render(" " + m.status + " ")
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	info := dimStyle.Render("  " + m.hoverInfo() + "  ")
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(info))
	right := lipgloss.Place(spacerW+lipgloss.Width(info), 1, lipgloss.Right, lipgloss.Center, info)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Bottom, left, right),
		dimStyle.Render(" "+m.current().describe()),
	))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderTabs() string {
	tabs := []string{titleStyle.Render(" scatterview ")}
	for i, n := range kindNames {
		label := fmt.Sprintf(" %d %s ", i+1, n)
		if Kind(i) == m.active {
			tabs = append(tabs, activeTabStyle.Render(label))
			continue
		}
		tabs = append(tabs, dimStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// hoverInfo describes the hovered point, which may come from any plot.
func (m Model) hoverInfo() string {
	id := m.sel.HoverPoint()
	if id == plot.NoPMC || m.src == nil {
		return fmt.Sprintf("selected: %d", len(m.sel.Selection()))
	}
	s, ok := m.src.Lookup(id)
	if !ok {
		return fmt.Sprintf("pmc %d", id)
	}
	parts := []string{fmt.Sprintf("pmc %d", id)}
	for _, e := range m.current().exprs {
		if v, ok := s.Values[e]; ok {
			parts = append(parts, fmt.Sprintf("%s=%.4g", e, v))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"1/2/3 plot",
		"↑↓←→ pan",
		"+/- zoom",
		"0 reset",
		"x exclude",
		"c clear",
		"u unit",
		"b fit",
		"v cross",
		"e export",
		"a table",
		"Tab files",
		"p paste",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
