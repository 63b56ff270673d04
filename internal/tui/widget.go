package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scatterview/internal/binary"
	"scatterview/internal/config"
	"scatterview/internal/dataset"
	"scatterview/internal/geom"
	"scatterview/internal/panzoom"
	"scatterview/internal/plot"
	"scatterview/internal/render"
	"scatterview/internal/selection"
	"scatterview/internal/ternary"
	"scatterview/internal/variogram"
	"scatterview/internal/viewstate"
)

// Kind is the plot kind of a widget.
type Kind int

const (
	KindTernary Kind = iota
	KindBinary
	KindVariogram
)

var kindNames = [...]string{"ternary", "binary", "variogram"}

func (k Kind) String() string { return kindNames[k] }

func ParseKind(s string) (Kind, bool) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}
	return KindTernary, false
}

// cellDPI maps logical pixels onto braille dots. A 10px font becomes one
// cell row tall.
const cellDPI = 0.4

// wheelSettledMsg fires once the wheel has been idle for the configured
// settle time.
type wheelSettledMsg struct {
	kind  Kind
	token uint64
}

// widget is one plot: its model, pan/zoom transform, axis expressions and
// the cached frame of its last render.
type widget struct {
	kind   Kind
	pz     *panzoom.PanZoom
	sel    *selection.Service
	settle time.Duration

	ternary   *ternary.Model
	binary    *binary.Model
	variogram *variogram.Model
	drawer    plot.Drawer
	inter     plot.Interaction

	src       *dataset.CSVSource
	exprs     []string
	regions   []string
	unit      dataset.Unit
	bestFit   bool
	cross     bool
	binOpts   variogram.BinOptions
	buildErr  error
	vp        plot.CanvasParams
	cellW     int
	cellH     int
	frame     string
	stale     bool
	dirty     bool // layout changed since last save
	rev       int64
	inside    bool
	pressed   bool
	panning   bool
	downPt    geom.Point
	lastPanPt geom.Point
}

func newWidget(kind Kind, cfg config.Config, sel *selection.Service) *widget {
	w := &widget{
		kind:    kind,
		pz:      panzoom.New(cfg.Limits(), cfg.Restrictor()),
		sel:     sel,
		settle:  cfg.WheelSettle,
		binOpts: cfg.BinOptions(),
		stale:   true,
	}
	g := cfg.Gesture()
	switch kind {
	case KindTernary:
		w.ternary = ternary.NewModel()
		w.drawer = &ternary.Drawer{Model: w.ternary, Selection: sel}
		w.inter = ternary.NewInteraction(w.ternary, sel, g, w.cycleAxis)
	case KindBinary:
		w.binary = binary.NewModel()
		w.drawer = &binary.Drawer{Model: w.binary, Selection: sel}
		w.inter = binary.NewInteraction(w.binary, sel, g, func(id plot.LabelID) {
			if id == binary.LabelY {
				w.cycleAxis(1)
				return
			}
			w.cycleAxis(0)
		})
	case KindVariogram:
		w.variogram = variogram.NewModel()
		w.drawer = &variogram.Drawer{Model: w.variogram}
		w.inter = variogram.NewInteraction(w.variogram, sel, g, func(plot.LabelID) { w.cycleAxis(0) })
	}
	w.pz.OnTransformChange(func(c panzoom.Change) {
		w.stale = true
		if c.Final {
			w.dirty = true
		}
	})
	return w
}

func (w *widget) state() *plot.State {
	switch w.kind {
	case KindBinary:
		return &w.binary.State
	case KindVariogram:
		return &w.variogram.State
	}
	return &w.ternary.State
}

func (w *widget) hasDraw() bool {
	switch w.kind {
	case KindBinary:
		_, ok := w.binary.Draw()
		return ok
	case KindVariogram:
		_, ok := w.variogram.Draw()
		return ok
	}
	_, ok := w.ternary.Draw()
	return ok
}

// axes is the number of expressions the plot needs.
func (w *widget) axes() int {
	switch w.kind {
	case KindTernary:
		return 3
	case KindBinary:
		return 2
	}
	if w.cross {
		return 2
	}
	return 1
}

// setSource points the widget at a new data source, keeping the chosen
// expressions and regions that still exist there.
func (w *widget) setSource(src *dataset.CSVSource) error {
	w.src = src
	w.fitExpressions()
	var regions []string
	for _, r := range w.regions {
		if slices.Contains(src.Regions(), r) {
			regions = append(regions, r)
		}
	}
	if len(regions) == 0 {
		regions = slices.Clone(src.Regions())
	}
	w.regions = regions
	return w.reload()
}

func (w *widget) fitExpressions() {
	all := w.src.Expressions()
	n := w.axes()
	exprs := make([]string, n)
	for i := range exprs {
		switch {
		case i < len(w.exprs) && slices.Contains(all, w.exprs[i]):
			exprs[i] = w.exprs[i]
		case len(all) > 0:
			exprs[i] = all[i%len(all)]
		}
	}
	w.exprs = exprs
}

// reload rebuilds the raw data from the source. On failure the previous
// raw data stays in place.
func (w *widget) reload() error {
	if w.src == nil {
		return nil
	}
	var err error
	switch w.kind {
	case KindTernary:
		var raw ternary.RawData
		raw, err = buildTernary(w.src, [3]string(w.exprs), w.regions, w.unit)
		if err == nil {
			w.ternary.SetRaw(raw)
		}
	case KindBinary:
		var raw binary.RawData
		raw, err = buildBinary(w.src, [2]string(w.exprs), w.regions, w.unit)
		if err == nil {
			w.binary.SetRaw(raw)
		}
	case KindVariogram:
		in := variogramInput{
			Expr:      w.exprs[0],
			Regions:   w.regions,
			Unit:      w.unit,
			Positions: w.src.Positions(),
			Options:   w.binOpts,
			BestFit:   w.bestFit,
		}
		if w.cross {
			in.Expr2 = w.exprs[1]
		}
		var raw variogram.RawData
		raw, err = buildVariogram(w.src, in)
		if err == nil {
			w.variogram.SetRaw(raw)
		}
	}
	w.buildErr = err
	w.stale = true
	return err
}

// cycleAxis moves axis i to the next expression of the source.
func (w *widget) cycleAxis(i int) {
	if w.src == nil || i >= len(w.exprs) {
		return
	}
	all := w.src.Expressions()
	if len(all) == 0 {
		return
	}
	next := (slices.Index(all, w.exprs[i]) + 1) % len(all)
	w.exprs[i] = all[next]
	w.dirty = true
	w.reload()
}

func (w *widget) toggleUnit() {
	if w.unit == dataset.UnitPPM {
		w.unit = dataset.UnitPercent
	} else {
		w.unit = dataset.UnitPPM
	}
	w.dirty = true
	w.reload()
}

func (w *widget) toggleBestFit() {
	w.bestFit = !w.bestFit
	w.dirty = true
	w.reload()
}

func (w *widget) toggleCross() {
	w.cross = !w.cross
	w.dirty = true
	if w.src != nil {
		w.fitExpressions()
	}
	w.reload()
}

func (w *widget) toggleExclude() bool {
	st := w.state()
	st.SelectModeExcludeRegion = !st.SelectModeExcludeRegion
	w.dirty = true
	return st.SelectModeExcludeRegion
}

// viewState is what gets persisted for the widget.
func (w *widget) viewState() viewstate.State {
	s, p := w.pz.Scale(), w.pz.Pan()
	return viewstate.State{
		Kind:        w.kind.String(),
		Expressions: slices.Clone(w.exprs),
		Regions:     slices.Clone(w.regions),
		Unit:        w.unit.String(),
		ExcludeMode: w.state().SelectModeExcludeRegion,
		BestFit:     w.bestFit,
		Cross:       w.cross,
		ScaleX:      s.X,
		ScaleY:      s.Y,
		PanX:        p.X,
		PanY:        p.Y,
		Rev:         w.rev,
	}
}

func (w *widget) applyViewState(st viewstate.State) {
	w.exprs = slices.Clone(st.Expressions)
	w.regions = slices.Clone(st.Regions)
	w.unit = dataset.UnitPercent
	if st.Unit == dataset.UnitPPM.String() {
		w.unit = dataset.UnitPPM
	}
	w.state().SelectModeExcludeRegion = st.ExcludeMode
	w.bestFit = st.BestFit
	w.cross = st.Cross
	if st.ScaleX > 0 && st.ScaleY > 0 {
		w.pz.SetScale(geom.Pt(st.ScaleX, st.ScaleY), false)
	}
	w.pz.SetPan(geom.Pt(st.PanX, st.PanY), false)
	w.rev = st.Rev
	w.dirty = false
}

// resize sets the widget's canvas to a grid of cells.
func (w *widget) resize(cellW, cellH int) {
	if cellW == w.cellW && cellH == w.cellH {
		return
	}
	w.cellW, w.cellH = cellW, cellH
	w.vp = plot.CanvasParams{Width: float64(cellW * 2), Height: float64(cellH * 4), DPI: cellDPI}
	w.pz.SetCanvasParams(w.vp)
	w.stale = true
}

// render returns the plot as styled terminal lines, reusing the last frame
// unless something asked for a redraw.
func (w *widget) render(cellW, cellH int) string {
	w.resize(cellW, cellH)
	st := w.state()
	if !w.stale && !st.RedrawPending() {
		return w.frame
	}
	st.TakeRedraw()
	w.stale = false

	if w.src == nil {
		w.frame = placeholder(cellW, cellH, "no data  (tab: open a CSV, p: paste)")
		return w.frame
	}
	br := render.NewBraille(cellW, cellH)
	w.drawer.Draw(br, plot.DrawParams{Transform: w.pz.Matrix(), Viewport: w.vp})
	if !w.hasDraw() {
		msg := "nothing to plot"
		if w.buildErr != nil {
			msg = w.buildErr.Error()
		}
		w.frame = placeholder(cellW, cellH, msg)
		return w.frame
	}
	w.frame = strings.Join(br.Lines(), "\n")
	return w.frame
}

func placeholder(w, h int, msg string) string {
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, dimStyle.Render(msg))
}

// canvasPoint maps a cell to the dot at its center.
func canvasPoint(cx, cy int) geom.Point {
	return geom.Pt(float64(cx*2+1), float64(cy*4+2))
}

func (w *widget) event(id plot.MouseEventID, cp geom.Point, mods plot.Modifiers) plot.MouseEvent {
	return plot.MouseEvent{
		ID:             id,
		CanvasPoint:    cp,
		WorldPoint:     w.pz.CanvasToWorldSpace(cp),
		MouseDownPoint: w.downPt,
		Modifiers:      mods,
		Transform:      w.pz.Matrix(),
	}
}

// mouse feeds one terminal mouse message, already translated to plot
// cells, into the widget. Left drags draw a lasso, right drags pan.
func (w *widget) mouse(msg tea.MouseMsg, cx, cy int, inside bool) tea.Cmd {
	cp := canvasPoint(cx, cy)
	mods := plot.Modifiers{Shift: msg.Shift, Ctrl: msg.Ctrl, Alt: msg.Alt}

	if !w.pressed && !w.panning {
		switch {
		case inside && !w.inside:
			w.inter.MouseEvent(w.event(plot.MouseEnter, cp, mods))
		case !inside && w.inside:
			w.inter.MouseEvent(w.event(plot.MouseLeave, cp, mods))
		}
		w.inside = inside
		if !inside {
			return nil
		}
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			delta := 1.0
			if msg.Button == tea.MouseButtonWheelUp {
				delta = -1
			}
			token := w.pz.ZoomAt(cp, delta)
			kind := w.kind
			return tea.Tick(w.settle, func(time.Time) tea.Msg {
				return wheelSettledMsg{kind: kind, token: token}
			})
		case tea.MouseButtonLeft:
			w.pressed = true
			w.downPt = cp
			w.inter.MouseEvent(w.event(plot.MouseDown, cp, mods))
		case tea.MouseButtonRight:
			w.panning = true
			w.lastPanPt = cp
		}
	case tea.MouseActionMotion:
		switch {
		case w.panning:
			w.pz.PanBy(cp.Sub(w.lastPanPt), false)
			w.lastPanPt = cp
		case w.pressed:
			w.inter.MouseEvent(w.event(plot.MouseDrag, cp, mods))
		default:
			w.inter.MouseEvent(w.event(plot.MouseMove, cp, mods))
		}
	case tea.MouseActionRelease:
		switch {
		case w.panning:
			w.panning = false
			w.pz.PanBy(cp.Sub(w.lastPanPt), true)
		case w.pressed:
			w.pressed = false
			w.inter.MouseEvent(w.event(plot.MouseUp, cp, mods))
		}
	}
	return nil
}

// zoomBy zooms around the center of the canvas.
func (w *widget) zoomBy(f float64) {
	center := w.pz.CanvasToWorldSpace(w.vp.Rect().Center())
	w.pz.SetScaleRelativeTo(w.pz.Scale().Scale(f), center, true)
}

func (w *widget) describe() string {
	s := w.pz.Scale()
	parts := []string{w.kind.String(), strings.Join(w.exprs, " / "), fmt.Sprintf("zoom %.2fx", s.X)}
	if w.state().SelectModeExcludeRegion {
		parts = append(parts, "exclude")
	}
	// The terminal cannot change the pointer, so name what a press does.
	switch w.state().Cursor {
	case plot.CursorPointer:
		parts = append(parts, "[click]")
	case plot.CursorCrosshair:
		parts = append(parts, "[drag: lasso]")
	}
	return strings.Join(parts, "  ")
}
