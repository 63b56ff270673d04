// Package panzoom holds the pan and zoom state of a plot and turns it into
// the world to canvas transform.
package panzoom

import (
	"log/slog"
	"math"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

// Limits bounds the scale on each axis.
type Limits struct {
	Min geom.Point
	Max geom.Point
}

func DefaultLimits() Limits {
	return Limits{Min: geom.Pt(1, 1), Max: geom.Pt(10, 10)}
}

func (l Limits) clamp(s geom.Point) geom.Point {
	return geom.Pt(clamp(s.X, l.Min.X, l.Max.X), clamp(s.Y, l.Min.Y, l.Max.Y))
}

// Restrictor constrains the pan offset, typically to keep the plot content
// covering the canvas.
type Restrictor interface {
	Restrict(pan, scale geom.Point, viewport plot.CanvasParams) geom.Point
}

// DefaultRestrictor keeps the zoomed content covering the canvas: the pan
// on each axis stays within [-(size*(scale-1)), 0].
type DefaultRestrictor struct{}

func (DefaultRestrictor) Restrict(pan, scale geom.Point, vp plot.CanvasParams) geom.Point {
	return geom.Pt(
		restrictAxis(pan.X, scale.X, vp.Width),
		restrictAxis(pan.Y, scale.Y, vp.Height),
	)
}

func restrictAxis(pan, scale, size float64) float64 {
	lo, hi := -(size * (scale - 1)), 0.0
	if lo > hi {
		lo, hi = hi, lo
	}
	return clamp(pan, lo, hi)
}

// Change is delivered to transform observers. Final is false while a
// gesture is still in progress (wheel spinning) and true once it settled.
type Change struct {
	Scale geom.Point
	Pan   geom.Point
	Final bool
}

// PanZoom is the transform state of one plot widget. The transform maps a
// world point p to canvas as p*scale + pan.
type PanZoom struct {
	limits     Limits
	restrictor Restrictor
	viewport   plot.CanvasParams

	scale geom.Point
	pan   geom.Point

	observers map[int]func(Change)
	nextID    int

	wheelToken uint64
}

// New returns an identity transform. restrictor may be nil for free panning.
func New(limits Limits, restrictor Restrictor) *PanZoom {
	return &PanZoom{
		limits:     limits,
		restrictor: restrictor,
		scale:      geom.Pt(1, 1),
		observers:  make(map[int]func(Change)),
	}
}

func (pz *PanZoom) Scale() geom.Point { return pz.scale }
func (pz *PanZoom) Pan() geom.Point   { return pz.pan }
func (pz *PanZoom) Limits() Limits    { return pz.limits }

// SetCanvasParams records the canvas size used by the pan restrictor and
// re-applies the restriction.
func (pz *PanZoom) SetCanvasParams(vp plot.CanvasParams) {
	pz.viewport = vp
	pz.pan = pz.restrict(pz.pan)
}

// SetScale sets the scale, clamped to the limits.
func (pz *PanZoom) SetScale(scale geom.Point, final bool) {
	pz.scale = pz.sanitize(scale)
	pz.pan = pz.restrict(pz.pan)
	pz.emit(final)
}

// SetPan sets the pan offset, subject to the restrictor.
func (pz *PanZoom) SetPan(pan geom.Point, final bool) {
	if !pan.IsFinite() {
		slog.Warn("ignoring non-finite pan", "x", pan.X, "y", pan.Y)
		pan = pz.pan
	}
	pz.pan = pz.restrict(pan)
	pz.emit(final)
}

// PanBy moves the content by delta canvas units.
func (pz *PanZoom) PanBy(delta geom.Point, final bool) {
	pz.SetPan(pz.pan.Add(delta), final)
}

// SetScaleRelativeTo changes the scale while keeping the world point
// center at the same canvas position.
func (pz *PanZoom) SetScaleRelativeTo(scale, center geom.Point, final bool) {
	next := pz.sanitize(scale)
	pan := pz.pan.Sub(center.Mul(next.Sub(pz.scale)))
	pz.scale = next
	pz.pan = pz.restrict(pan)
	pz.emit(final)
}

// Reset returns to the identity transform.
func (pz *PanZoom) Reset(final bool) {
	pz.scale = pz.sanitize(geom.Pt(1, 1))
	pz.pan = pz.restrict(geom.Point{})
	pz.emit(final)
}

// ZoomAt zooms by 1.1^-delta around the canvas point under the cursor and
// notifies observers with a non-final change. The returned token is handed
// to SettleWheel once the wheel has been quiet for a while.
func (pz *PanZoom) ZoomAt(canvasPt geom.Point, delta float64) uint64 {
	center := pz.CanvasToWorldSpace(canvasPt)
	factor := math.Pow(1.1, -delta)
	pz.SetScaleRelativeTo(pz.scale.Scale(factor), center, false)
	pz.wheelToken++
	return pz.wheelToken
}

// SettleWheel emits the final change for a wheel burst. Tokens superseded
// by a newer wheel event are ignored. It reports whether it emitted.
func (pz *PanZoom) SettleWheel(token uint64) bool {
	if token != pz.wheelToken {
		return false
	}
	pz.emit(true)
	return true
}

// Matrix returns the world to canvas transform.
func (pz *PanZoom) Matrix() geom.Matrix {
	return geom.ScaleTranslate(pz.scale, pz.pan)
}

func (pz *PanZoom) WorldToCanvasSpace(pt geom.Point) geom.Point {
	return pz.Matrix().Apply(pt)
}

func (pz *PanZoom) CanvasToWorldSpace(pt geom.Point) geom.Point {
	inv, err := pz.Matrix().Inverse()
	if err != nil {
		// The scale is clamped away from zero, so this only happens with
		// corrupted limits.
		slog.Error("pan/zoom transform not invertible", "err", err)
		return pt
	}
	return inv.Apply(pt)
}

// ApplyTransform pre-multiplies the target's transform by the pan/zoom
// matrix.
func (pz *PanZoom) ApplyTransform(t plot.RenderTarget) {
	t.SetTransform(t.Transform().Mul(pz.Matrix()))
}

// OnTransformChange registers fn for every transform change.
func (pz *PanZoom) OnTransformChange(fn func(Change)) (cancel func()) {
	id := pz.nextID
	pz.nextID++
	pz.observers[id] = fn
	return func() { delete(pz.observers, id) }
}

func (pz *PanZoom) emit(final bool) {
	c := Change{Scale: pz.scale, Pan: pz.pan, Final: final}
	for i := 0; i < pz.nextID; i++ {
		if fn, ok := pz.observers[i]; ok {
			fn(c)
		}
	}
}

func (pz *PanZoom) sanitize(s geom.Point) geom.Point {
	if !s.IsFinite() {
		slog.Warn("replacing non-finite scale", "x", s.X, "y", s.Y)
		s = geom.Pt(1, 1)
	}
	return pz.limits.clamp(s)
}

func (pz *PanZoom) restrict(pan geom.Point) geom.Point {
	if pz.restrictor == nil || pz.viewport.Empty() {
		return pan
	}
	return pz.restrictor.Restrict(pan, pz.scale, pz.viewport)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
