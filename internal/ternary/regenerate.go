package ternary

import (
	"fmt"
	"math"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

// sin60 is the height of an equilateral triangle with unit sides.
const sin60 = 0.866025403784439

// CornerLayout is a laid out corner label.
type CornerLayout struct {
	Text     string
	Rect     geom.Rect
	ErrorMsg string
}

// DrawModel is the viewport dependent geometry of a ternary plot. All
// coordinates are world space.
type DrawModel struct {
	Viewport plot.CanvasParams

	// Triangle is the outer border, Inner the inset triangle points are
	// mapped into. Both are ordered A, B, C.
	Triangle [3]geom.Point
	Inner    [3]geom.Point
	DataArea geom.Rect

	// Grid holds the 20% guide lines parallel to each edge.
	Grid [][2]geom.Point

	Labels [3]CornerLayout
	Styles []plot.GroupStyle
	Points []plot.DrawnPoint

	PointRadius float64
	FontSize    float64
	Opacity     float64
}

// Project maps a component triple to unit triangle coordinates, with x in
// [0,1] and y in [0,sin60]. Null components are taken as zero. It fails for
// negative or non-finite components and for a zero sum.
func Project(p PointValue) (geom.Point, error) {
	a, b, c := p.A, p.B, p.C
	if p.NullMask&NullA != 0 {
		a = 0
	}
	if p.NullMask&NullB != 0 {
		b = 0
	}
	if p.NullMask&NullC != 0 {
		c = 0
	}
	for _, v := range [3]float64{a, b, c} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return geom.Point{}, fmt.Errorf("pmc %d component %v: %w", p.PMC, v, plot.ErrDegenerate)
		}
	}
	sum := a + b + c
	if sum <= 0 {
		return geom.Point{}, fmt.Errorf("pmc %d zero sum: %w", p.PMC, plot.ErrDegenerate)
	}
	return geom.Pt(0.5*(2*b+c)/sum, sin60*c/sum), nil
}

// Regenerate lays out the triangle, corner labels and points for vp.
func Regenerate(raw RawData, vp plot.CanvasParams, m plot.TextMeasurer) (DrawModel, error) {
	if vp.Empty() {
		return DrawModel{}, plot.ErrNoViewport
	}
	d := DrawModel{
		Viewport:    vp,
		PointRadius: vp.Px(plot.PointRadius),
		FontSize:    vp.FontSize(),
	}
	pad := vp.Px(4)
	lineH := d.FontSize * 1.2

	avail := geom.Rect{X: pad, Y: pad + lineH, W: vp.Width - 2*pad, H: vp.Height - 2*pad - 2*lineH}
	if avail.Empty() {
		return DrawModel{}, fmt.Errorf("triangle area %vx%v: %w", avail.W, avail.H, plot.ErrNoViewport)
	}
	side, height := avail.W, avail.W*sin60
	if height > avail.H {
		height = avail.H
		side = height / sin60
	}
	left := avail.X + (avail.W-side)/2
	bottom := avail.Y + (avail.H+height)/2
	d.Triangle = [3]geom.Point{
		{X: left, Y: bottom},
		{X: left + side, Y: bottom},
		{X: left + side/2, Y: bottom - height},
	}

	// Shrink toward the incenter so markers on the edges stay inside.
	inradius := side / (2 * math.Sqrt(3))
	k := (inradius - d.PointRadius) / inradius
	if k <= 0 {
		return DrawModel{}, fmt.Errorf("triangle side %v too small for markers: %w", side, plot.ErrDegenerate)
	}
	center := geom.Pt(left+side/2, bottom-inradius)
	for i, v := range d.Triangle {
		d.Inner[i] = center.Add(v.Sub(center).Scale(k))
	}
	d.DataArea = geom.Rect{
		X: d.Inner[CornerA].X,
		Y: d.Inner[CornerC].Y,
		W: d.Inner[CornerB].X - d.Inner[CornerA].X,
		H: d.Inner[CornerA].Y - d.Inner[CornerC].Y,
	}
	d.Grid = gridLines(d.Inner)
	d.Labels = layoutLabels(raw.Corners, d.Triangle, d.FontSize, lineH, vp.Px(2), m)

	for gi, g := range raw.Groups {
		d.Styles = append(d.Styles, plot.GroupStyle{Color: g.Color, Shape: g.Shape})
		for i, p := range g.Points {
			u, err := Project(p)
			if err != nil {
				continue
			}
			d.Points = append(d.Points, plot.DrawnPoint{
				Group: gi,
				Index: i,
				PMC:   p.PMC,
				Coord: d.toWorld(u),
			})
		}
	}
	if len(d.Points) == 0 && !raw.hasCornerError() {
		return DrawModel{}, fmt.Errorf("no plottable points: %w", plot.ErrDegenerate)
	}
	d.Opacity = plot.OpacityForPointCount(len(d.Points))
	return d, nil
}

// toWorld maps unit triangle coordinates into the data area.
func (d DrawModel) toWorld(u geom.Point) geom.Point {
	return geom.Pt(
		d.DataArea.X+u.X*d.DataArea.W,
		d.DataArea.MaxY()-(u.Y/sin60)*d.DataArea.H,
	)
}

func lerp(a, b geom.Point, t float64) geom.Point {
	return a.Add(b.Sub(a).Scale(t))
}

func gridLines(tri [3]geom.Point) [][2]geom.Point {
	var out [][2]geom.Point
	for step := 1; step < 5; step++ {
		t := float64(step) / 5
		for i := 0; i < 3; i++ {
			a, b, c := tri[i], tri[(i+1)%3], tri[(i+2)%3]
			// Line at fraction t from edge b-c toward corner a.
			out = append(out, [2]geom.Point{lerp(b, a, t), lerp(c, a, t)})
		}
	}
	return out
}

func layoutLabels(corners [3]Corner, tri [3]geom.Point, size, lineH, gap float64, m plot.TextMeasurer) [3]CornerLayout {
	var out [3]CornerLayout
	for i, c := range corners {
		text := c.Label
		if c.ErrorMsg != "" {
			text += " (!)"
		}
		w := m.MeasureText(text, size)
		r := geom.Rect{W: w, H: lineH}
		switch i {
		case CornerA:
			r.X, r.Y = tri[i].X, tri[i].Y+gap
		case CornerB:
			r.X, r.Y = tri[i].X-w, tri[i].Y+gap
		case CornerC:
			r.X, r.Y = tri[i].X-w/2, tri[i].Y-gap-lineH
		}
		out[i] = CornerLayout{Text: text, Rect: r, ErrorMsg: c.ErrorMsg}
	}
	return out
}
