// Package render provides plot.RenderTarget implementations: a braille
// canvas for the terminal and a raster canvas for image export.
package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

// Braille is a terminal canvas. Every cell holds a 2x4 grid of braille dots,
// so a canvas of w by h cells has w*2 by h*4 addressable micro pixels. Each
// cell keeps one foreground color, the last one drawn into it.
type Braille struct {
	w, h int // in cells

	mask []uint8
	fg   []color.RGBA
	bg   []color.RGBA
	text []rune

	transform geom.Matrix
}

// NewBraille returns a canvas of w by h cells.
func NewBraille(w, h int) *Braille {
	w, h = max(w, 0), max(h, 0)
	n := w * h
	return &Braille{
		w:         w,
		h:         h,
		mask:      make([]uint8, n),
		fg:        make([]color.RGBA, n),
		bg:        make([]color.RGBA, n),
		text:      make([]rune, n),
		transform: geom.Identity(),
	}
}

// Cells returns the canvas size in terminal cells.
func (b *Braille) Cells() (w, h int) { return b.w, b.h }

// Size returns the canvas size in micro pixels.
func (b *Braille) Size() (w, h float64) { return float64(b.w * 2), float64(b.h * 4) }

func (b *Braille) Transform() geom.Matrix     { return b.transform }
func (b *Braille) SetTransform(m geom.Matrix) { b.transform = m }

// MeasureText reports text width in micro pixels. Text is drawn one rune
// per cell whatever the requested size.
func (b *Braille) MeasureText(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text) * 2)
}

// dot bits indexed by [column][row] within a cell.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro pixel at micro coords (2x4 per cell).
func (b *Braille) setPixel(mx, my int, c color.RGBA) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= b.w || cy >= b.h {
		return
	}
	i := cy*b.w + cx
	b.mask[i] |= dotBits[mx%2][my%4]
	b.fg[i] = c
}

// drawLineMicro draws a line on the micro grid using Bresenham.
func (b *Braille) drawLineMicro(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// micro maps a world point through the current transform onto the micro
// grid. Points far off canvas are pinned; callers only use it for single
// points and axis aligned boxes, where pinning cannot move anything that
// is visible.
func (b *Braille) micro(pt geom.Point) (int, int) {
	p := b.transform.Apply(pt)
	lim := float64(4 * (b.w + b.h + 1))
	return int(math.Floor(clampf(p.X, -lim, lim))), int(math.Floor(clampf(p.Y, -lim, lim)))
}

// bounds is the canvas in micro pixels.
func (b *Braille) bounds() geom.Rect {
	return geom.Rect{W: float64(b.w * 2), H: float64(b.h * 4)}
}

// FillRect paints an opaque backdrop: covered cells lose their dots and
// text and take c as background.
func (b *Braille) FillRect(r geom.Rect, c color.Color) {
	rgba, ok := opaque(c)
	if !ok {
		return
	}
	cr, _ := geom.RectFromPoints([]geom.Point{
		b.transform.Apply(r.TopLeft()),
		b.transform.Apply(geom.Pt(r.MaxX(), r.MaxY())),
	})
	if !cr.Intersects(b.bounds()) {
		return
	}
	x0, y0 := b.micro(r.TopLeft())
	x1, y1 := b.micro(geom.Pt(r.MaxX(), r.MaxY()))
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for cy := max(y0/4, 0); cy <= min(y1/4, b.h-1); cy++ {
		for cx := max(x0/2, 0); cx <= min(x1/2, b.w-1); cx++ {
			i := cy*b.w + cx
			b.mask[i] = 0
			b.text[i] = 0
			b.bg[i] = rgba
		}
	}
}

func (b *Braille) StrokeRect(r geom.Rect, c color.Color, width float64) {
	b.StrokePolygon(geom.RectPolygon(r), true, c, width)
}

// StrokeLine clips the segment to the canvas before snapping it to dots,
// so the visible part keeps its slope however far off canvas an end lies.
func (b *Braille) StrokeLine(p0, p1 geom.Point, c color.Color, width float64) {
	a, e, ok := geom.ClipSegment(b.transform.Apply(p0), b.transform.Apply(p1), b.bounds())
	if !ok {
		return
	}
	b.drawLineMicro(int(math.Floor(a.X)), int(math.Floor(a.Y)), int(math.Floor(e.X)), int(math.Floor(e.Y)), b.blend(c))
}

func (b *Braille) StrokePolygon(pts []geom.Point, closed bool, c color.Color, width float64) {
	if len(pts) < 2 {
		return
	}
	for i := 0; i+1 < len(pts); i++ {
		b.StrokeLine(pts[i], pts[i+1], c, width)
	}
	if closed {
		b.StrokeLine(pts[len(pts)-1], pts[0], c, width)
	}
}

// FillPolygon fills using the even-odd rule per micro scanline. Edge
// crossings are found in canvas space and only visible scanlines are
// walked, so vertices far off canvas keep their true edges.
// Translucent fills are skipped; dots cannot show them.
func (b *Braille) FillPolygon(pts []geom.Point, c color.Color) {
	rgba, ok := opaque(c)
	if !ok || len(pts) < 3 {
		return
	}
	ring := make([]geom.Point, len(pts))
	for i, p := range pts {
		ring[i] = b.transform.Apply(p)
		if !ring[i].IsFinite() {
			return
		}
	}
	wMic, hMic := b.w*2, b.h*4
	var xs []float64
	for yMic := 0; yMic < hMic; yMic++ {
		y := float64(yMic)
		xs = xs[:0]
		for i := range ring {
			a, e := ring[i], ring[(i+1)%len(ring)]
			if (y >= a.Y && y < e.Y) || (y >= e.Y && y < a.Y) {
				xs = append(xs, a.X+(y-a.Y)/(e.Y-a.Y)*(e.X-a.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Floor(clampf(xs[i], -1, float64(wMic))))
			x1 := int(math.Floor(clampf(xs[i+1], -1, float64(wMic))))
			for xMic := max(0, x0); xMic <= min(x1, wMic-1); xMic++ {
				b.setPixel(xMic, yMic, rgba)
			}
		}
	}
}

// DrawMarker draws a marker centered on pt. radius is in micro pixels and
// is not scaled by the transform.
func (b *Braille) DrawMarker(pt geom.Point, shape plot.MarkerShape, radius float64, c color.Color) {
	cx, cy := b.micro(pt)
	rgba := b.blend(c)
	r := int(math.Round(radius))
	if r < 1 {
		b.setPixel(cx, cy, rgba)
		return
	}
	switch shape {
	case plot.ShapeSquare:
		for _, e := range [][4]int{{-r, -r, r, -r}, {r, -r, r, r}, {r, r, -r, r}, {-r, r, -r, -r}} {
			b.drawLineMicro(cx+e[0], cy+e[1], cx+e[2], cy+e[3], rgba)
		}
	case plot.ShapeTriangle:
		b.drawLineMicro(cx, cy-r, cx+r, cy+r, rgba)
		b.drawLineMicro(cx+r, cy+r, cx-r, cy+r, rgba)
		b.drawLineMicro(cx-r, cy+r, cx, cy-r, rgba)
	case plot.ShapeCross:
		b.drawLineMicro(cx-r, cy-r, cx+r, cy+r, rgba)
		b.drawLineMicro(cx-r, cy+r, cx+r, cy-r, rgba)
	default:
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy <= r*r {
					b.setPixel(cx+dx, cy+dy, rgba)
				}
			}
		}
	}
}

// FillText writes text into cells, one rune per cell. Text sits on top of
// dots in the same cells.
func (b *Braille) FillText(pt geom.Point, text string, style plot.TextStyle) {
	mx, my := b.micro(pt)
	runes := []rune(text)
	col := mx / 2
	row := my / 4
	switch style.HAlign {
	case plot.AlignCenter:
		col -= len(runes) / 2
	case plot.AlignRight:
		col -= len(runes)
	}
	if style.VAlign == plot.AlignBottom {
		row--
	}
	if row < 0 || row >= b.h {
		return
	}
	fg := b.blend(style.Color)
	for i, r := range runes {
		x := col + i
		if x < 0 || x >= b.w {
			continue
		}
		j := row*b.w + x
		b.text[j] = r
		b.fg[j] = fg
	}
}

// Lines renders the canvas, one styled string per cell row. Runs of cells
// sharing colors are rendered with a single lipgloss style.
func (b *Braille) Lines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		var run []rune
		var runFg, runBg color.RGBA
		flush := func() {
			if len(run) == 0 {
				return
			}
			st := lipgloss.NewStyle().Foreground(hex(runFg))
			if runBg.A != 0 {
				st = st.Background(hex(runBg))
			}
			sb.WriteString(st.Render(string(run)))
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			i := y*b.w + x
			ch := ' '
			switch {
			case b.text[i] != 0:
				ch = b.text[i]
			case b.mask[i] != 0:
				ch = rune(0x2800 + int(b.mask[i]))
			}
			fg := b.fg[i]
			if ch == ' ' {
				fg = runFg
			}
			if len(run) > 0 && (fg != runFg || b.bg[i] != runBg) {
				flush()
			}
			runFg, runBg = fg, b.bg[i]
			run = append(run, ch)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}

func (b *Braille) String() string { return strings.Join(b.Lines(), "\n") }

// Plain renders the canvas without colors.
func (b *Braille) Plain() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]rune, b.w)
		for x := range row {
			i := y*b.w + x
			switch {
			case b.text[i] != 0:
				row[x] = b.text[i]
			case b.mask[i] != 0:
				row[x] = rune(0x2800 + int(b.mask[i]))
			default:
				row[x] = ' '
			}
		}
		out[y] = string(row)
	}
	return out
}

// blend flattens a translucent color onto the plot background.
func (b *Braille) blend(c color.Color) color.RGBA {
	if c == nil {
		return plot.LabelColor
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	a := float64(n.A) / 255
	bg := plot.BackgroundColor
	mix := func(f, g uint8) uint8 { return uint8(math.Round(float64(f)*a + float64(g)*(1-a))) }
	return color.RGBA{R: mix(n.R, bg.R), G: mix(n.G, bg.G), B: mix(n.B, bg.B), A: 0xff}
}

func opaque(c color.Color) (color.RGBA, bool) {
	if c == nil {
		return color.RGBA{}, false
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < 128 {
		return color.RGBA{}, false
	}
	return color.RGBA{R: n.R, G: n.G, B: n.B, A: 0xff}, true
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func clampf(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
