// Package binary implements the X/Y scatter plot of two expressions.
package binary

import (
	"fmt"
	"image/color"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

const (
	LabelX plot.LabelID = "X"
	LabelY plot.LabelID = "Y"
)

// Axis describes one axis expression.
type Axis struct {
	Label    string
	ErrorMsg string
}

// Null mask bits.
const (
	NullX uint8 = 1 << iota
	NullY
)

type PointValue struct {
	PMC      plot.PMC
	X, Y     float64
	NullMask uint8
}

type Group struct {
	RegionID string
	Color    color.RGBA
	Shape    plot.MarkerShape
	Points   []PointValue
}

// RawData is everything the binary plot draws.
type RawData struct {
	X, Y   Axis
	Groups []Group
}

// BuildGroup zips the X and Y value arrays of one region into a group.
func BuildGroup(raw *RawData, regionID string, c color.RGBA, shape plot.MarkerShape, xs, ys []plot.Value) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("region %q: axis lengths %d/%d: %w", regionID, len(xs), len(ys), plot.ErrMisaligned)
	}
	g := Group{RegionID: regionID, Color: c, Shape: shape, Points: make([]PointValue, 0, len(xs))}
	for i := range xs {
		if xs[i].PMC != ys[i].PMC {
			return fmt.Errorf("region %q index %d: point ids %d/%d: %w", regionID, i, xs[i].PMC, ys[i].PMC, plot.ErrMisaligned)
		}
		p := PointValue{PMC: xs[i].PMC, X: xs[i].Value, Y: ys[i].Value}
		if xs[i].IsNull {
			p.NullMask |= NullX
		}
		if ys[i].IsNull {
			p.NullMask |= NullY
		}
		g.Points = append(g.Points, p)
	}
	raw.Groups = append(raw.Groups, g)
	return nil
}

// plottable reports whether p has two finite, defined values.
func (p PointValue) plottable() bool {
	return p.NullMask == 0 && geom.Pt(p.X, p.Y).IsFinite()
}

// DataRanges returns the X and Y ranges over plottable points.
func (r RawData) DataRanges() (x, y geom.MinMax) {
	for _, g := range r.Groups {
		for _, p := range g.Points {
			if !p.plottable() {
				continue
			}
			x.Expand(p.X)
			y.Expand(p.Y)
		}
	}
	return x, y
}
