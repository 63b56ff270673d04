package plot

import (
	"image/color"
	"strings"

	"scatterview/internal/geom"
)

// GroupStyle is how one point group is painted.
type GroupStyle struct {
	Color color.RGBA
	Shape MarkerShape
}

// DrawPoints paints every marker with its group style. Points are in world
// space; the radius is in canvas units.
func DrawPoints(t RenderTarget, points []DrawnPoint, styles []GroupStyle, radius, opacity float64) {
	for _, p := range points {
		st := GroupStyle{Color: GroupColors[p.Group%len(GroupColors)]}
		if p.Group < len(styles) {
			st = styles[p.Group]
		}
		t.DrawMarker(p.Coord, st.Shape, radius, WithAlpha(st.Color, opacity))
	}
}

// DrawSelected outlines the markers whose id is in sel.
func DrawSelected(t RenderTarget, points []DrawnPoint, sel PMCSet, radius float64) {
	if len(sel) == 0 {
		return
	}
	for _, p := range points {
		if p.PMC != NoPMC && sel.Has(p.PMC) {
			t.DrawMarker(p.Coord, ShapeCircle, radius, SelectedColor)
		}
	}
}

// DrawHover paints the hover marker on every point matching id, or on the
// local hover point when the plot has no ids.
func DrawHover(t RenderTarget, points []DrawnPoint, id PMC, local *DrawnPoint, radius float64) {
	if id != NoPMC {
		for _, p := range points {
			if p.PMC == id {
				t.DrawMarker(p.Coord, ShapeSquare, radius, HoverColor)
			}
		}
		return
	}
	if local != nil {
		t.DrawMarker(local.Coord, ShapeSquare, radius, HoverColor)
	}
}

// DrawLasso paints the in-progress lasso.
func DrawLasso(t RenderTarget, lasso []geom.Point, width float64) {
	if len(lasso) < 2 {
		return
	}
	if len(lasso) > 2 {
		t.FillPolygon(lasso, LassoFillColor)
	}
	t.StrokePolygon(lasso, true, LassoColor, width)
}

// DrawLabel paints a label inside its rectangle, highlighted while hovered.
func DrawLabel(t RenderTarget, r geom.Rect, text string, size float64, hovered, hasError bool) {
	c := LabelColor
	switch {
	case hasError:
		c = ErrorColor
	case hovered:
		c = LabelHoverColor
	}
	t.FillText(geom.Pt(r.X, r.Y), text, TextStyle{Size: size, Color: c})
}

// DrawPopup paints a message box with its top left corner at anchor,
// shifted to stay on the canvas. It is drawn in canvas space.
func DrawPopup(t RenderTarget, anchor geom.Point, msg string, vp CanvasParams) {
	lines := strings.Split(msg, "\n")
	size := vp.FontSize()
	lineH := size * 1.2
	pad := vp.Px(4)
	w := 0.0
	for _, l := range lines {
		if lw := t.MeasureText(l, size); lw > w {
			w = lw
		}
	}
	box := geom.Rect{X: anchor.X, Y: anchor.Y, W: w + 2*pad, H: float64(len(lines))*lineH + 2*pad}
	if box.MaxX() > vp.Width {
		box.X = vp.Width - box.W
	}
	if box.MaxY() > vp.Height {
		box.Y = vp.Height - box.H
	}
	box.X = max(box.X, 0)
	box.Y = max(box.Y, 0)

	t.FillRect(box, PopupColor)
	t.StrokeRect(box, ErrorColor, vp.Px(1))
	for i, l := range lines {
		t.FillText(geom.Pt(box.X+pad, box.Y+pad+float64(i)*lineH), l, TextStyle{Size: size, Color: LabelColor})
	}
}

// DrawAxes paints the grid, axis lines, tick marks and tick labels of an
// X/Y layout.
func DrawAxes(t RenderTarget, l AxisLayout, vp CanvasParams) {
	area := l.DataArea
	thin, line := vp.Px(0.5), vp.Px(1)
	tickLen := vp.Px(4)
	gap := vp.Px(2)

	for _, tk := range l.X.Ticks {
		if !tk.IsMinor() {
			t.StrokeLine(geom.Pt(tk.Pos, area.Y), geom.Pt(tk.Pos, area.MaxY()), GridColor, thin)
		}
	}
	for _, tk := range l.Y.Ticks {
		if !tk.IsMinor() {
			t.StrokeLine(geom.Pt(area.X, tk.Pos), geom.Pt(area.MaxX(), tk.Pos), GridColor, thin)
		}
	}

	t.StrokeLine(geom.Pt(area.X, area.MaxY()), geom.Pt(area.MaxX(), area.MaxY()), AxisColor, line)
	t.StrokeLine(geom.Pt(area.X, area.Y), geom.Pt(area.X, area.MaxY()), AxisColor, line)

	for _, tk := range l.X.Ticks {
		n := tickLen
		if tk.IsMinor() {
			n /= 2
		}
		t.StrokeLine(geom.Pt(tk.Pos, area.MaxY()), geom.Pt(tk.Pos, area.MaxY()+n), AxisColor, line)
		if !tk.IsMinor() {
			t.FillText(geom.Pt(tk.Pos, area.MaxY()+tickLen+gap), tk.Label,
				TextStyle{Size: l.FontSize, Color: LabelColor, HAlign: AlignCenter})
		}
	}
	for _, tk := range l.Y.Ticks {
		n := tickLen
		if tk.IsMinor() {
			n /= 2
		}
		t.StrokeLine(geom.Pt(area.X-n, tk.Pos), geom.Pt(area.X, tk.Pos), AxisColor, line)
		if !tk.IsMinor() {
			t.FillText(geom.Pt(area.X-tickLen-gap, tk.Pos), tk.Label,
				TextStyle{Size: l.FontSize, Color: LabelColor, HAlign: AlignRight, VAlign: AlignMiddle})
		}
	}
}
