// Package plottest provides a plot.RenderTarget that records paint calls,
// for testing drawers.
package plottest

import (
	"image/color"
	"unicode/utf8"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

// Op names a recorded paint call.
type Op string

const (
	OpFillRect      Op = "FillRect"
	OpStrokeRect    Op = "StrokeRect"
	OpStrokeLine    Op = "StrokeLine"
	OpStrokePolygon Op = "StrokePolygon"
	OpFillPolygon   Op = "FillPolygon"
	OpDrawMarker    Op = "DrawMarker"
	OpFillText      Op = "FillText"
)

// Call is one paint call. Points are in canvas space, after the transform
// that was current when the call was made. Rects are recorded as their
// top left and bottom right corners.
type Call struct {
	Op     Op
	Points []geom.Point
	Text   string
	Color  color.Color
}

// Recorder is a RenderTarget that paints nothing and remembers every call.
// Text measures half the font size per rune.
type Recorder struct {
	Calls []Call

	w, h      float64
	transform geom.Matrix
}

var _ plot.RenderTarget = (*Recorder)(nil)

func NewRecorder(w, h float64) *Recorder {
	return &Recorder{w: w, h: h, transform: geom.Identity()}
}

// Reset forgets the recorded calls.
func (r *Recorder) Reset() { r.Calls = nil }

// Ops returns the calls of one kind, in paint order.
func (r *Recorder) Ops(op Op) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Points returns the points of every call of one kind, flattened.
func (r *Recorder) Points(op Op) []geom.Point {
	var out []geom.Point
	for _, c := range r.Ops(op) {
		out = append(out, c.Points...)
	}
	return out
}

func (r *Recorder) Size() (float64, float64)   { return r.w, r.h }
func (r *Recorder) Transform() geom.Matrix     { return r.transform }
func (r *Recorder) SetTransform(m geom.Matrix) { r.transform = m }

func (r *Recorder) MeasureText(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size / 2
}

func (r *Recorder) record(op Op, c color.Color, text string, pts ...geom.Point) {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = r.transform.Apply(p)
	}
	r.Calls = append(r.Calls, Call{Op: op, Points: out, Text: text, Color: c})
}

func (r *Recorder) FillRect(rect geom.Rect, c color.Color) {
	r.record(OpFillRect, c, "", rect.TopLeft(), geom.Pt(rect.MaxX(), rect.MaxY()))
}

func (r *Recorder) StrokeRect(rect geom.Rect, c color.Color, width float64) {
	r.record(OpStrokeRect, c, "", rect.TopLeft(), geom.Pt(rect.MaxX(), rect.MaxY()))
}

func (r *Recorder) StrokeLine(a, b geom.Point, c color.Color, width float64) {
	r.record(OpStrokeLine, c, "", a, b)
}

func (r *Recorder) StrokePolygon(pts []geom.Point, closed bool, c color.Color, width float64) {
	r.record(OpStrokePolygon, c, "", pts...)
}

func (r *Recorder) FillPolygon(pts []geom.Point, c color.Color) {
	r.record(OpFillPolygon, c, "", pts...)
}

func (r *Recorder) DrawMarker(pt geom.Point, shape plot.MarkerShape, radius float64, c color.Color) {
	r.record(OpDrawMarker, c, "", pt)
}

func (r *Recorder) FillText(pt geom.Point, text string, style plot.TextStyle) {
	r.record(OpFillText, style.Color, text, pt)
}
