package plot

import (
	"scatterview/internal/geom"
)

// GestureState is the state of the pointer state machine.
type GestureState int

const (
	GestureIdle GestureState = iota
	GestureDragging
	GestureLassoDrawing
)

func (s GestureState) String() string {
	return [...]string{"idle", "dragging", "lasso"}[s]
}

// GestureConfig holds the pixel tolerances of the state machine.
type GestureConfig struct {
	// DragThreshold is the canvas distance a press must travel before it
	// becomes a lasso.
	DragThreshold float64
	// HoverRadius is the half size of the hit box around the pointer.
	HoverRadius float64
}

func DefaultGestureConfig() GestureConfig {
	return GestureConfig{DragThreshold: DragThreshold, HoverRadius: HoverPointRadius}
}

// GestureTarget is what a plot exposes to the gesture state machine. All
// coordinates are world space.
type GestureTarget interface {
	// Points returns every rendered marker in draw order.
	Points() []DrawnPoint
	// LabelAt returns the clickable label under pt, if any.
	LabelAt(pt geom.Point) (LabelID, bool)
	// InDataArea reports whether pt is inside the plot's data area.
	InDataArea(pt geom.Point) bool
	// Selectable reports whether markers map to selectable point ids.
	Selectable() bool
	// AxisClicked is called when a label is clicked.
	AxisClicked(id LabelID)
}

// Gesture turns mouse events into hover, click and lasso effects. It is
// shared by every plot kind; the plots differ only in their GestureTarget.
type Gesture struct {
	Config GestureConfig

	state      GestureState
	worldStart geom.Point
}

func NewGesture(cfg GestureConfig) *Gesture {
	return &Gesture{Config: cfg}
}

func (g *Gesture) State() GestureState { return g.state }

// Handle runs one mouse event through the state machine.
func (g *Gesture) Handle(ev MouseEvent, target GestureTarget, st *State, sel Selection) Result {
	switch ev.ID {
	case MouseDown:
		g.state = GestureDragging
		g.worldStart = ev.WorldPoint
		st.LassoPoints = nil
		return Result{}

	case MouseDrag:
		return g.drag(ev, st)

	case MouseUp:
		prev := g.state
		g.state = GestureIdle
		if prev == GestureLassoDrawing {
			return g.finishLasso(ev, target, st, sel)
		}
		return g.click(ev, target, st, sel)

	case MouseMove:
		return g.hover(ev, target, st, sel)

	case MouseLeave:
		changed := st.Hover != nil || st.HoverLabel != ""
		st.Hover = nil
		st.HoverLabel = ""
		st.Cursor = CursorDefault
		if target.Selectable() && sel != nil && sel.HoverPoint() != NoPMC {
			sel.SetHoverPoint(NoPMC)
		}
		if changed {
			st.RequestRedraw()
		}
		return Result{Redraw: changed}

	case MouseEnter:
		st.Cursor = CursorCrosshair
		return Result{}
	}
	// Wheel belongs to the pan/zoom owner.
	return Result{}
}

func (g *Gesture) drag(ev MouseEvent, st *State) Result {
	switch g.state {
	case GestureDragging:
		if ev.CanvasPoint.Dist(ev.MouseDownPoint) <= g.Config.DragThreshold {
			return Result{Consumed: true}
		}
		g.state = GestureLassoDrawing
		st.LassoPoints = []geom.Point{g.worldStart, ev.WorldPoint}
		st.RequestRedraw()
		return Result{Redraw: true, Consumed: true}

	case GestureLassoDrawing:
		last := st.LassoPoints[len(st.LassoPoints)-1]
		if last.Dist(ev.WorldPoint) < ev.WorldTolerance(1) {
			return Result{Consumed: true}
		}
		st.LassoPoints = append(st.LassoPoints, ev.WorldPoint)
		st.RequestRedraw()
		return Result{Redraw: true, Consumed: true}
	}
	return Result{}
}

func (g *Gesture) finishLasso(ev MouseEvent, target GestureTarget, st *State, sel Selection) Result {
	lasso := st.LassoPoints
	st.LassoPoints = nil
	st.RequestRedraw()
	if len(lasso) < 2 || !target.Selectable() || sel == nil {
		return Result{Redraw: true, Consumed: true}
	}
	picked := SelectInLasso(target.Points(), lasso)
	sel.SetSelection(combine(sel.Selection(), picked, ev.Modifiers, st.SelectModeExcludeRegion))
	return Result{Redraw: true, Consumed: true}
}

func (g *Gesture) click(ev MouseEvent, target GestureTarget, st *State, sel Selection) Result {
	pt := ev.WorldPoint
	if p, ok := FindNearest(target.Points(), pt, ev.WorldTolerance(g.Config.HoverRadius)); ok {
		if !target.Selectable() || sel == nil || p.PMC == NoPMC {
			return Result{Consumed: true}
		}
		sel.SetSelection(combine(sel.Selection(), NewPMCSet(p.PMC), ev.Modifiers, st.SelectModeExcludeRegion))
		st.RequestRedraw()
		return Result{Redraw: true, Consumed: true}
	}
	if id, ok := target.LabelAt(pt); ok {
		target.AxisClicked(id)
		st.RequestRedraw()
		return Result{Redraw: true, Consumed: true}
	}
	if target.InDataArea(pt) && target.Selectable() && sel != nil {
		if ev.Modifiers.Shift || ev.Modifiers.Ctrl || st.SelectModeExcludeRegion {
			return Result{Consumed: true}
		}
		if len(sel.Selection()) > 0 {
			sel.SetSelection(PMCSet{})
			st.RequestRedraw()
			return Result{Redraw: true, Consumed: true}
		}
	}
	return Result{}
}

func (g *Gesture) hover(ev MouseEvent, target GestureTarget, st *State, sel Selection) Result {
	pt := ev.WorldPoint
	changed := false

	var hover *DrawnPoint
	if p, ok := FindNearest(target.Points(), pt, ev.WorldTolerance(g.Config.HoverRadius)); ok {
		hover = &p
	}
	if !sameHover(st.Hover, hover) {
		st.Hover = hover
		changed = true
		if target.Selectable() && sel != nil {
			id := NoPMC
			if hover != nil {
				id = hover.PMC
			}
			sel.SetHoverPoint(id)
		}
	}

	label, _ := target.LabelAt(pt)
	if label != st.HoverLabel {
		st.HoverLabel = label
		changed = true
	}

	switch {
	case hover != nil || label != "":
		st.Cursor = CursorPointer
	case target.InDataArea(pt):
		st.Cursor = CursorCrosshair
	default:
		st.Cursor = CursorDefault
	}

	if changed {
		st.RequestRedraw()
	}
	return Result{Redraw: changed}
}

func sameHover(a, b *DrawnPoint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Group == b.Group && a.Index == b.Index
}

// combine merges picked into current: Shift adds, exclude mode or Ctrl
// removes, otherwise picked replaces the selection.
func combine(current, picked PMCSet, mod Modifiers, exclude bool) PMCSet {
	switch {
	case exclude || mod.Ctrl:
		return current.Minus(picked)
	case mod.Shift:
		return current.Union(picked)
	}
	return picked.Clone()
}
