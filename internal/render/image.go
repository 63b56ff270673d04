package render

import (
	"image/color"
	"io"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

// imageDPI makes one canvas unit one image pixel.
const imageDPI = 72

// Image is a raster canvas backed by gonum/plot's vgimg. Canvas units are
// pixels with the origin at the top left.
type Image struct {
	img    *vgimg.Canvas
	dc     draw.Canvas
	width  float64
	height float64

	transform geom.Matrix
}

// NewImage returns a canvas of w by h pixels.
func NewImage(w, h int) *Image {
	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(w), vg.Length(h)),
		vgimg.UseDPI(imageDPI),
		vgimg.UseBackgroundColor(plot.BackgroundColor),
	)
	return &Image{
		img:       img,
		dc:        draw.New(img),
		width:     float64(w),
		height:    float64(h),
		transform: geom.Identity(),
	}
}

func (im *Image) Size() (w, h float64)       { return im.width, im.height }
func (im *Image) Transform() geom.Matrix     { return im.transform }
func (im *Image) SetTransform(m geom.Matrix) { im.transform = m }

func textStyle(size float64, c color.Color) text.Style {
	return text.Style{
		Color:   c,
		Font:    font.From(plotter.DefaultFont, vg.Length(size)),
		Handler: gplot.DefaultTextHandler,
	}
}

func (im *Image) MeasureText(s string, size float64) float64 {
	return float64(textStyle(size, color.Black).Width(s))
}

// vp converts a world point to a vg point, flipping y.
func (im *Image) vp(pt geom.Point) vg.Point {
	p := im.transform.Apply(pt)
	return vg.Point{X: vg.Length(p.X), Y: vg.Length(im.height - p.Y)}
}

func (im *Image) vps(pts []geom.Point) []vg.Point {
	out := make([]vg.Point, len(pts))
	for i, p := range pts {
		out[i] = im.vp(p)
	}
	return out
}

func (im *Image) FillRect(r geom.Rect, c color.Color) {
	im.FillPolygon(geom.RectPolygon(r), c)
}

func (im *Image) StrokeRect(r geom.Rect, c color.Color, width float64) {
	im.StrokePolygon(geom.RectPolygon(r), true, c, width)
}

func (im *Image) StrokeLine(a, b geom.Point, c color.Color, width float64) {
	pa, pb := im.vp(a), im.vp(b)
	im.dc.StrokeLine2(draw.LineStyle{Color: c, Width: vg.Length(width)}, pa.X, pa.Y, pb.X, pb.Y)
}

func (im *Image) StrokePolygon(pts []geom.Point, closed bool, c color.Color, width float64) {
	if len(pts) < 2 {
		return
	}
	line := im.vps(pts)
	if closed {
		line = append(line, line[0])
	}
	im.dc.StrokeLines(draw.LineStyle{Color: c, Width: vg.Length(width)}, line)
}

func (im *Image) FillPolygon(pts []geom.Point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	im.dc.FillPolygon(c, im.vps(pts))
}

var glyphs = map[plot.MarkerShape]draw.GlyphDrawer{
	plot.ShapeCircle:   draw.CircleGlyph{},
	plot.ShapeSquare:   draw.BoxGlyph{},
	plot.ShapeTriangle: draw.TriangleGlyph{},
	plot.ShapeCross:    draw.CrossGlyph{},
}

func (im *Image) DrawMarker(pt geom.Point, shape plot.MarkerShape, radius float64, c color.Color) {
	g, ok := glyphs[shape]
	if !ok {
		g = draw.CircleGlyph{}
	}
	im.dc.DrawGlyph(draw.GlyphStyle{Color: c, Radius: vg.Length(radius), Shape: g}, im.vp(pt))
}

func (im *Image) FillText(pt geom.Point, s string, style plot.TextStyle) {
	c := style.Color
	if c == nil {
		c = plot.LabelColor
	}
	sty := textStyle(style.Size, c)
	switch style.HAlign {
	case plot.AlignCenter:
		sty.XAlign = draw.XCenter
	case plot.AlignRight:
		sty.XAlign = draw.XRight
	}
	// y is flipped, so the top of the text is the vg top.
	switch style.VAlign {
	case plot.AlignTop:
		sty.YAlign = draw.YTop
	case plot.AlignMiddle:
		sty.YAlign = draw.YCenter
	case plot.AlignBottom:
		sty.YAlign = draw.YBottom
	}
	im.dc.FillText(sty, im.vp(pt), s)
}

// WritePNG encodes the canvas as PNG.
func (im *Image) WritePNG(w io.Writer) error {
	_, err := vgimg.PngCanvas{Canvas: im.img}.WriteTo(w)
	return err
}
