// Package ternary implements the ternary scatter plot: three corner
// expressions whose values are plotted as barycentric coordinates inside an
// equilateral triangle.
package ternary

import (
	"fmt"
	"image/color"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

// Corner indices. A is bottom left, B bottom right, C the apex.
const (
	CornerA = iota
	CornerB
	CornerC
)

// Label ids for the corner labels.
const (
	LabelA plot.LabelID = "A"
	LabelB plot.LabelID = "B"
	LabelC plot.LabelID = "C"
)

var cornerLabels = [3]plot.LabelID{LabelA, LabelB, LabelC}

// CornerIndex maps a label id back to its corner.
func CornerIndex(id plot.LabelID) (int, bool) {
	for i, l := range cornerLabels {
		if l == id {
			return i, true
		}
	}
	return 0, false
}

// Corner describes one corner expression.
type Corner struct {
	Label      string
	ErrorMsg   string
	ValueRange geom.MinMax
}

// Null mask bits, one per component.
const (
	NullA uint8 = 1 << iota
	NullB
	NullC
)

// PointValue is one sample with its three components.
type PointValue struct {
	PMC      plot.PMC
	A, B, C  float64
	NullMask uint8
}

// Group is a set of points from one region, drawn with one style.
type Group struct {
	RegionID string
	Color    color.RGBA
	Shape    plot.MarkerShape
	Points   []PointValue
}

// RawData is everything the ternary plot draws.
type RawData struct {
	Corners [3]Corner
	Groups  []Group
}

// BuildGroup zips the three corner value arrays of one region into a
// group and widens the corner value ranges. The arrays must have the same
// length and the same point id at each index.
func BuildGroup(raw *RawData, regionID string, c color.RGBA, shape plot.MarkerShape, a, b, cv []plot.Value) error {
	if len(a) != len(b) || len(a) != len(cv) {
		return fmt.Errorf("region %q: corner lengths %d/%d/%d: %w", regionID, len(a), len(b), len(cv), plot.ErrMisaligned)
	}
	g := Group{RegionID: regionID, Color: c, Shape: shape, Points: make([]PointValue, 0, len(a))}
	for i := range a {
		if a[i].PMC != b[i].PMC || a[i].PMC != cv[i].PMC {
			return fmt.Errorf("region %q index %d: point ids %d/%d/%d: %w",
				regionID, i, a[i].PMC, b[i].PMC, cv[i].PMC, plot.ErrMisaligned)
		}
		p := PointValue{PMC: a[i].PMC}
		for j, v := range [3]plot.Value{a[i], b[i], cv[i]} {
			if v.IsNull {
				p.NullMask |= 1 << j
				continue
			}
			raw.Corners[j].ValueRange.Expand(v.Value)
			switch j {
			case CornerA:
				p.A = v.Value
			case CornerB:
				p.B = v.Value
			case CornerC:
				p.C = v.Value
			}
		}
		g.Points = append(g.Points, p)
	}
	raw.Groups = append(raw.Groups, g)
	return nil
}

// PointCount returns the number of points over all groups.
func (r RawData) PointCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Points)
	}
	return n
}

func (r RawData) hasCornerError() bool {
	for _, c := range r.Corners {
		if c.ErrorMsg != "" {
			return true
		}
	}
	return false
}
