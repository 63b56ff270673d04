package plot

import (
	"fmt"
	"math"

	gplot "gonum.org/v1/plot"

	"scatterview/internal/geom"
)

// Orientation of an axis on screen.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Tick is one axis tick in value and canvas space.
type Tick struct {
	Value float64
	Pos   float64
	Label string // empty for minor ticks
}

func (t Tick) IsMinor() bool { return t.Label == "" }

// Axis maps a value range onto a span of canvas pixels. Horizontal axes
// start on the left and grow right; vertical axes start at the bottom and
// grow up the screen.
type Axis struct {
	Orientation Orientation
	Range       geom.MinMax
	Start       float64
	Length      float64
	Ticks       []Tick
}

// NewAxis builds an axis and its ticks. Tick values come from gonum's
// default ticker.
func NewAxis(o Orientation, rng geom.MinMax, start, length float64) Axis {
	a := Axis{Orientation: o, Range: rng, Start: start, Length: length}
	if !rng.IsValid() || rng.Range() == 0 {
		return a
	}
	for _, t := range (gplot.DefaultTicks{}).Ticks(rng.Min, rng.Max) {
		if t.Value < rng.Min || t.Value > rng.Max {
			continue
		}
		a.Ticks = append(a.Ticks, Tick{Value: t.Value, Pos: a.ValueToCanvas(t.Value), Label: t.Label})
	}
	return a
}

// ValueToCanvas maps a data value to a canvas coordinate along the axis.
func (a Axis) ValueToCanvas(v float64) float64 {
	pct := a.Range.GetAsPercentageOfRange(v, false)
	if a.Orientation == Vertical {
		return a.Start - pct*a.Length
	}
	return a.Start + pct*a.Length
}

// CanvasToValue is the inverse of ValueToCanvas.
func (a Axis) CanvasToValue(px float64) float64 {
	if a.Length == 0 {
		return a.Range.Min
	}
	pct := (px - a.Start) / a.Length
	if a.Orientation == Vertical {
		pct = (a.Start - px) / a.Length
	}
	return a.Range.Min + pct*a.Range.Range()
}

// MaxTickLabelWidth measures the widest major tick label.
func (a Axis) MaxTickLabelWidth(m TextMeasurer, size float64) float64 {
	w := 0.0
	for _, t := range a.Ticks {
		if t.IsMinor() {
			continue
		}
		w = math.Max(w, m.MeasureText(t.Label, size))
	}
	return w
}

// CeilToSigFigs rounds value up to a "nice" number. Values above 1 are
// ceiled to the next integer. Values in (0,1] are scaled by the smallest
// power of ten that brings them to at least 10^(sigfigs-1), ceiled, then
// scaled back. Non-positive values are returned unchanged.
func CeilToSigFigs(value float64, sigfigs int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return value
	}
	if value > 1 {
		return math.Ceil(roundNoise(value))
	}
	target := math.Pow(10, float64(sigfigs-1))
	mult := 1.0
	for value*mult < target {
		mult *= 10
	}
	return math.Ceil(roundNoise(value*mult)) / mult
}

// roundNoise strips binary representation noise such as 3.0000000000000004
// so it does not push a ceil up by a whole unit.
func roundNoise(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}

// NiceRange turns a data range into an axis range that starts at zero (or a
// nice negative number) and ends at a nice number at or above the data max
// times headroom.
func NiceRange(data geom.MinMax, headroom float64, sigfigs int) (geom.MinMax, error) {
	if !data.IsValid() {
		return geom.MinMax{}, fmt.Errorf("axis range: %w", ErrDegenerate)
	}
	lo, hi := 0.0, 0.0
	if data.Min < 0 {
		lo = -CeilToSigFigs(-data.Min*headroom, sigfigs)
	}
	if data.Max > 0 {
		hi = CeilToSigFigs(data.Max*headroom, sigfigs)
	}
	if hi <= lo {
		return geom.MinMax{}, fmt.Errorf("axis range [%g, %g]: %w", lo, hi, ErrDegenerate)
	}
	return geom.NewMinMax(lo, hi), nil
}

// AxisLayoutInput is everything LayoutAxes needs.
type AxisLayoutInput struct {
	Viewport       CanvasParams
	XRange, YRange geom.MinMax
	XLabel, YLabel string
}

// AxisLayout is the committed geometry of a two-axis plot.
type AxisLayout struct {
	X, Y       Axis
	DataArea   geom.Rect
	XLabelRect geom.Rect
	YLabelRect geom.Rect
	FontSize   float64
}

// LayoutAxes lays out an X/Y plot. It runs twice: the first pass builds the
// axes with a provisional left margin to discover how wide the Y tick
// labels render, the second commits the final geometry with the margin
// widened to fit them.
func LayoutAxes(in AxisLayoutInput, m TextMeasurer) (AxisLayout, error) {
	vp := in.Viewport
	if vp.Empty() {
		return AxisLayout{}, ErrNoViewport
	}
	font := vp.FontSize()
	pad := vp.Px(4)
	tickLen := vp.Px(4)
	lineH := font * 1.2
	gap := vp.Px(2)

	top := pad + lineH + vp.Px(PointRadius*2)
	right := pad + vp.Px(PointRadius*2)
	bottom := pad + lineH + gap + lineH + tickLen

	layout := func(left float64) (AxisLayout, error) {
		area := geom.Rect{X: left, Y: top, W: vp.Width - left - right, H: vp.Height - top - bottom}
		if area.Empty() {
			return AxisLayout{}, fmt.Errorf("data area %vx%v: %w", area.W, area.H, ErrNoViewport)
		}
		l := AxisLayout{
			X:        NewAxis(Horizontal, in.XRange, area.X, area.W),
			Y:        NewAxis(Vertical, in.YRange, area.MaxY(), area.H),
			DataArea: area,
			FontSize: font,
		}
		xw := m.MeasureText(in.XLabel, font)
		l.XLabelRect = geom.Rect{X: area.Center().X - xw/2, Y: vp.Height - pad - lineH, W: xw, H: lineH}
		yw := m.MeasureText(in.YLabel, font)
		l.YLabelRect = geom.Rect{X: pad, Y: pad, W: yw, H: lineH}
		return l, nil
	}

	first, err := layout(pad + tickLen + gap)
	if err != nil {
		return AxisLayout{}, err
	}
	labelW := first.Y.MaxTickLabelWidth(m, font)
	return layout(pad + labelW + gap + tickLen)
}
