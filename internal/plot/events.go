package plot

import (
	"math"

	"scatterview/internal/geom"
)

// MouseEventID identifies the kind of pointer event.
type MouseEventID int

const (
	MouseDown MouseEventID = iota
	MouseUp
	MouseMove
	MouseDrag
	MouseWheel
	MouseEnter
	MouseLeave
)

func (id MouseEventID) String() string {
	return [...]string{"down", "up", "move", "drag", "wheel", "enter", "leave"}[id]
}

// Modifiers are the keyboard modifiers held during an event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// MouseEvent is the single input type consumed by interaction handlers.
type MouseEvent struct {
	ID MouseEventID

	CanvasPoint    geom.Point
	WorldPoint     geom.Point
	MouseDownPoint geom.Point // canvas space

	// WheelDelta is positive for scrolling down/away.
	WheelDelta float64
	Modifiers  Modifiers

	// Transform is the world to canvas transform in effect when the event
	// was generated. The zero value is treated as identity.
	Transform geom.Matrix
}

// WorldTolerance converts a canvas distance into world units using the
// event's transform.
func (ev MouseEvent) WorldTolerance(px float64) float64 {
	s := ev.Transform.ScaleFactor()
	scale := math.Max(s.X, s.Y)
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return px
	}
	return px / scale
}

// KeyEvent is accepted by handlers but unused by the current plot kinds.
type KeyEvent struct {
	Key       string
	Modifiers Modifiers
}

// Result tells the host what an event did.
type Result struct {
	Redraw   bool
	Consumed bool
}

// Interaction consumes pointer and key input for one plot.
type Interaction interface {
	MouseEvent(ev MouseEvent) Result
	KeyEvent(ev KeyEvent) Result
}

// Cursor is the pointer style the host should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorCrosshair
	CursorPointer
)

func (c Cursor) String() string {
	switch c {
	case CursorCrosshair:
		return "crosshair"
	case CursorPointer:
		return "pointer"
	}
	return "default"
}
