package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scatterview/internal/config"
	"scatterview/internal/dataset"
	"scatterview/internal/geom"
	"scatterview/internal/plot"
	"scatterview/internal/variogram"
	"scatterview/internal/viewstate"
)

const samplesCSV = `pmc,region,x,y,Fe,Ca,Si
1,rock,0,0,10,1,40
2,,3,0,20,5,41
3,rock,0,4,30,2,42
`

func source(t *testing.T) *dataset.CSVSource {
	t.Helper()
	src, err := dataset.ParseCSV(strings.NewReader(samplesCSV))
	require.NoError(t, err)
	return src
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and everything it batches, returning the messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func newModel(t *testing.T, store *viewstate.Store) Model {
	t.Helper()
	m := New(Options{Config: config.Default(), Store: store})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)
	require.True(t, m.loadPasted(samplesCSV))
	return m
}

func TestBuildTernary(t *testing.T) {
	src := source(t)
	raw, err := buildTernary(src, [3]string{"Fe", "Ca", "Si"}, []string{dataset.AllPoints, "rock"}, dataset.UnitPercent)
	require.NoError(t, err)
	require.Len(t, raw.Groups, 2)
	assert.Len(t, raw.Groups[0].Points, 3)
	assert.Len(t, raw.Groups[1].Points, 2)
	assert.Equal(t, "Ca", raw.Corners[1].Label)
	assert.Equal(t, 40.0, raw.Corners[2].ValueRange.Min)

	raw, err = buildTernary(src, [3]string{"Fe", "Mg", "Si"}, []string{dataset.AllPoints}, dataset.UnitPercent)
	require.NoError(t, err)
	assert.Empty(t, raw.Groups)
	assert.Contains(t, raw.Corners[1].ErrorMsg, `"Mg"`)
	assert.Empty(t, raw.Corners[0].ErrorMsg)
}

func TestBuildBinary(t *testing.T) {
	raw, err := buildBinary(source(t), [2]string{"Fe", "Ca"}, []string{dataset.AllPoints}, dataset.UnitPPM)
	require.NoError(t, err)
	assert.Equal(t, "Fe (ppm)", raw.X.Label)
	require.Len(t, raw.Groups, 1)
	assert.Equal(t, 100000.0, raw.Groups[0].Points[0].X)
}

func TestBuildVariogram(t *testing.T) {
	src := source(t)
	in := variogramInput{
		Expr:      "Fe",
		Regions:   []string{dataset.AllPoints, "rock"},
		Positions: src.Positions(),
		Options:   variogram.BinOptions{Bins: 5},
	}
	raw, err := buildVariogram(src, in)
	require.NoError(t, err)
	assert.Equal(t, "Fe (%)", raw.Label)
	require.Len(t, raw.Groups, 2)
	assert.NotEmpty(t, raw.Groups[0].Bins)

	in.Expr2 = "Ca"
	raw, err = buildVariogram(src, in)
	require.NoError(t, err)
	assert.Equal(t, "Fe x Ca (%)", raw.Label)

	in.Expr = "Mg"
	raw, err = buildVariogram(src, in)
	require.NoError(t, err)
	assert.Empty(t, raw.Groups)
	assert.Contains(t, raw.ErrorMsg, "Mg")
}

func TestParseKind(t *testing.T) {
	for i, n := range kindNames {
		k, ok := ParseKind(n)
		require.True(t, ok)
		assert.Equal(t, Kind(i), k)
		assert.Equal(t, n, k.String())
	}
	_, ok := ParseKind("pie")
	assert.False(t, ok)
}

func TestPlotArea(t *testing.T) {
	m := Model{width: 80, height: 24}
	x, y, w, h := m.plotArea()
	assert.Equal(t, []int{0, 1, 79, 21}, []int{x, y, w, h})

	m.showSidebar = true
	x, _, w, _ = m.plotArea()
	assert.Equal(t, sidebarWidth+1, x)
	assert.Equal(t, 80-sidebarWidth-1, w)

	assert.Equal(t, geom.Pt(7, 10), canvasPoint(3, 2))
}

func TestKeys(t *testing.T) {
	m := newModel(t, nil)
	assert.Equal(t, []string{"Fe", "Ca", "Si"}, m.current().exprs)

	next, _ := m.Update(key("2"))
	m = next.(Model)
	assert.Equal(t, KindBinary, m.active)
	assert.Equal(t, []string{"Fe", "Ca"}, m.current().exprs)

	next, _ = m.Update(key("x"))
	m = next.(Model)
	assert.True(t, m.current().state().SelectModeExcludeRegion)

	next, _ = m.Update(key("+"))
	m = next.(Model)
	assert.InDelta(t, zoomStep, m.current().pz.Scale().X, 1e-9)

	next, _ = m.Update(key("0"))
	m = next.(Model)
	assert.Equal(t, geom.Pt(1, 1), m.current().pz.Scale())

	next, _ = m.Update(key("3"))
	m = next.(Model)
	next, _ = m.Update(key("v"))
	m = next.(Model)
	assert.True(t, m.current().cross)
	assert.Equal(t, []string{"Fe", "Ca"}, m.current().exprs)

	view := m.View()
	assert.Contains(t, view, "variogram")

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestMouseClickSelects(t *testing.T) {
	m := newModel(t, nil)
	next, _ := m.Update(key("2"))
	m = next.(Model)
	require.NotEmpty(t, m.View())

	d, ok := m.current().binary.Draw()
	require.True(t, ok)
	target := d.Points[1]

	ox, oy, _, _ := m.plotArea()
	cx, cy := int(target.Coord.X)/2, int(target.Coord.Y)/4
	for _, action := range []tea.MouseAction{tea.MouseActionPress, tea.MouseActionRelease} {
		next, _ = m.Update(tea.MouseMsg{X: ox + cx, Y: oy + cy, Action: action, Button: tea.MouseButtonLeft})
		m = next.(Model)
	}
	assert.Equal(t, []plot.PMC{target.PMC}, m.sel.Selection().Sorted())
	assert.True(t, m.current().stale || m.current().state().RedrawPending())

	next, _ = m.Update(key("c"))
	m = next.(Model)
	assert.Empty(t, m.sel.Selection())
}

func TestMouseLeaveClearsHover(t *testing.T) {
	m := newModel(t, nil)
	next, _ := m.Update(key("2"))
	m = next.(Model)
	m.View()

	d, _ := m.current().binary.Draw()
	p := d.Points[0]
	ox, oy, _, _ := m.plotArea()
	next, _ = m.Update(tea.MouseMsg{X: ox + int(p.Coord.X)/2, Y: oy + int(p.Coord.Y)/4, Action: tea.MouseActionMotion})
	m = next.(Model)
	assert.Equal(t, p.PMC, m.sel.HoverPoint())
	assert.Equal(t, plot.CursorPointer, m.current().state().Cursor)
	assert.Contains(t, m.View(), "[click]")

	next, _ = m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	m = next.(Model)
	assert.Equal(t, plot.NoPMC, m.sel.HoverPoint())
	assert.Nil(t, m.current().state().Hover)
	assert.NotContains(t, m.current().describe(), "[click]")
}

func TestLayoutPersistence(t *testing.T) {
	ctx := context.Background()
	store, err := viewstate.Open(ctx, filepath.Join(t.TempDir(), "view.sqlite"))
	require.NoError(t, err)
	defer store.Close()

	m := newModel(t, store)
	next, cmd := m.Update(key("+"))
	m = next.(Model)
	for _, msg := range drain(cmd) {
		if saved, ok := msg.(layoutSavedMsg); ok {
			require.NoError(t, saved.err)
		}
	}

	st, ok, err := store.LoadLayout(ctx, "ternary")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, zoomStep, st.ScaleX, 1e-9)
	assert.Equal(t, []string{"Fe", "Ca", "Si"}, st.Expressions)

	restored := New(Options{Config: config.Default(), Store: store})
	assert.InDelta(t, zoomStep, restored.widgets[KindTernary].pz.Scale().X, 1e-9)
}

func TestLoadLayoutsSkipsUnknownWidgets(t *testing.T) {
	ctx := context.Background()
	store, err := viewstate.Open(ctx, filepath.Join(t.TempDir(), "view.sqlite"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveLayout(ctx, "histogram", viewstate.State{Kind: "histogram", ScaleX: 9, ScaleY: 9}))
	require.NoError(t, store.SaveLayout(ctx, "binary", viewstate.State{
		Kind:        "binary",
		Expressions: []string{"Ca", "Fe"},
		ScaleX:      2,
		ScaleY:      2,
		Rev:         4,
	}))

	m := New(Options{Config: config.Default(), Store: store})
	w := m.widgets[KindBinary]
	assert.Equal(t, []string{"Ca", "Fe"}, w.exprs)
	assert.InDelta(t, 2, w.pz.Scale().X, 1e-9)
	assert.Equal(t, int64(4), w.rev)
	for _, k := range []Kind{KindTernary, KindVariogram} {
		assert.InDelta(t, 1, m.widgets[k].pz.Scale().X, 1e-9)
	}
}

func TestLayoutSavesFinishingOutOfOrder(t *testing.T) {
	ctx := context.Background()
	store, err := viewstate.Open(ctx, filepath.Join(t.TempDir(), "view.sqlite"))
	require.NoError(t, err)
	defer store.Close()

	m := newModel(t, store)
	next, first := m.Update(key("+"))
	m = next.(Model)
	next, second := m.Update(key("+"))
	m = next.(Model)

	// The newer save lands first; the older one must not overwrite it.
	drain(second)
	drain(first)

	st, ok, err := store.LoadLayout(ctx, "ternary")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, zoomStep*zoomStep, st.ScaleX, 1e-9)
	assert.Equal(t, m.widgets[KindTernary].rev, st.Rev)
}

func TestWheelSettlePersists(t *testing.T) {
	m := newModel(t, nil)
	w := m.current()
	token := w.pz.ZoomAt(geom.Pt(10, 10), -1)
	assert.False(t, w.dirty)

	next, _ := m.Update(wheelSettledMsg{kind: w.kind, token: token + 1})
	m = next.(Model)
	assert.False(t, w.dirty)

	// With no store, persist leaves the flag alone.
	next, _ = m.Update(wheelSettledMsg{kind: w.kind, token: token})
	m = next.(Model)
	assert.True(t, w.dirty)
}
