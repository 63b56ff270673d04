// Package plot holds the pieces shared by every scatter plot kind: the
// canvas and draw contracts, mouse event types, the gesture state machine,
// axis layout, hit testing and the selection collaborator interface.
package plot

import (
	"image/color"

	"scatterview/internal/geom"
)

// CanvasParams describes the drawable area. DPI scales fonts, padding and
// marker sizes; 1 means one logical pixel per canvas unit.
type CanvasParams struct {
	Width  float64
	Height float64
	DPI    float64
}

// Equal is a structural comparison, used to decide whether cached geometry
// is stale.
func (cp CanvasParams) Equal(o CanvasParams) bool {
	return cp.Width == o.Width && cp.Height == o.Height && cp.DPI == o.DPI
}

// Empty reports whether there is nothing to draw on.
func (cp CanvasParams) Empty() bool { return cp.Width <= 0 || cp.Height <= 0 }

// Px converts a logical size into canvas units.
func (cp CanvasParams) Px(v float64) float64 {
	if cp.DPI <= 0 {
		return v
	}
	return v * cp.DPI
}

// FontSize is the base text size for the canvas.
func (cp CanvasParams) FontSize() float64 { return cp.Px(10) }

// Rect returns the whole canvas as a rectangle.
func (cp CanvasParams) Rect() geom.Rect { return geom.Rect{W: cp.Width, H: cp.Height} }

// MarkerShape selects the glyph used for a point group.
type MarkerShape int

const (
	ShapeCircle MarkerShape = iota
	ShapeSquare
	ShapeTriangle
	ShapeCross
)

func (s MarkerShape) String() string {
	switch s {
	case ShapeSquare:
		return "square"
	case ShapeTriangle:
		return "triangle"
	case ShapeCross:
		return "cross"
	}
	return "circle"
}

type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

type VAlign int

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

// TextStyle controls FillText.
type TextStyle struct {
	Size   float64
	Color  color.Color
	HAlign HAlign
	VAlign VAlign
}

// TextMeasurer reports how wide a string renders at a font size.
type TextMeasurer interface {
	MeasureText(text string, size float64) float64
}

// RenderTarget is the surface a Drawer paints on. All coordinates pass
// through the current transform; marker radii and line widths do not.
type RenderTarget interface {
	TextMeasurer

	Size() (w, h float64)
	Transform() geom.Matrix
	SetTransform(m geom.Matrix)

	FillRect(r geom.Rect, c color.Color)
	StrokeRect(r geom.Rect, c color.Color, width float64)
	StrokeLine(a, b geom.Point, c color.Color, width float64)
	StrokePolygon(pts []geom.Point, closed bool, c color.Color, width float64)
	FillPolygon(pts []geom.Point, c color.Color)
	DrawMarker(pt geom.Point, shape MarkerShape, radius float64, c color.Color)
	FillText(pt geom.Point, text string, style TextStyle)
}

// DrawParams is what a Drawer gets for one frame.
type DrawParams struct {
	// Transform maps world space to canvas space (the pan/zoom matrix).
	Transform geom.Matrix
	Viewport  CanvasParams
}

// Drawer paints one frame of a plot.
type Drawer interface {
	Draw(t RenderTarget, p DrawParams)
}

// WithTransform runs fn with t's transform pre-multiplied by m, restoring
// the previous transform afterwards.
func WithTransform(t RenderTarget, m geom.Matrix, fn func()) {
	base := t.Transform()
	t.SetTransform(base.Mul(m))
	defer t.SetTransform(base)
	fn()
}
