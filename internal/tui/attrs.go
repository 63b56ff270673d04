package tui

import (
	"fmt"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshAttrs rebuilds the table of selected points.
func (m *Model) refreshAttrs() {
	cols, rows := m.buildAttributes()
	if len(rows) == 0 {
		// Do not touch table internals here to avoid re-render during SetColumns
		m.showAttrs = false
		m.status = "no points selected"
		return
	}
	tcols := make([]table.Column, 0, len(cols))
	maxColW := 24
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(max(len(c)+2, 8), maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		trows = append(trows, table.Row(r))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes lists the selected points with their position and the
// active plot's expression values.
func (m *Model) buildAttributes() ([]string, [][]string) {
	if m.src == nil {
		return nil, nil
	}
	exprs := m.current().exprs
	cols := append([]string{"pmc", "x", "y"}, exprs...)
	var rows [][]string
	for _, id := range m.sel.Selection().Sorted() {
		s, ok := m.src.Lookup(id)
		if !ok {
			continue
		}
		row := []string{strconv.Itoa(int(id)), cell(s.Position.X), cell(s.Position.Y)}
		for _, e := range exprs {
			v, ok := s.Values[e]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, cell(v))
		}
		rows = append(rows, row)
	}
	return cols, rows
}

func cell(v float64) string { return fmt.Sprintf("%.4g", v) }
