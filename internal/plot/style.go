package plot

import (
	"image/color"
	"math"
)

var (
	BackgroundColor = color.RGBA{0x0b, 0x0f, 0x14, 0xff}
	AxisColor       = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	GridColor       = color.RGBA{0x24, 0x31, 0x41, 0xff}
	LabelColor      = color.RGBA{0xe6, 0xe6, 0xe6, 0xff}
	LabelHoverColor = color.RGBA{0x7c, 0x3a, 0xed, 0xff}
	ErrorColor      = color.RGBA{0xef, 0x44, 0x44, 0xff}
	HoverColor      = color.RGBA{0xff, 0xa5, 0x00, 0xff}
	SelectedColor   = color.RGBA{0x22, 0xd3, 0xee, 0xff}
	LassoColor      = color.RGBA{0xfa, 0xcc, 0x15, 0xff}
	LassoFillColor  = color.RGBA{0xfa, 0xcc, 0x15, 0x30}
	PopupColor      = color.RGBA{0x0f, 0x14, 0x1a, 0xff}
	BestFitColor    = color.RGBA{0xf4, 0x72, 0xb6, 0xff}
)

// GroupColors is the default palette for point groups.
var GroupColors = []color.RGBA{
	{0x60, 0xa5, 0xfa, 0xff},
	{0x34, 0xd3, 0x99, 0xff},
	{0xf8, 0x71, 0x71, 0xff},
	{0xfb, 0xbf, 0x24, 0xff},
	{0xc0, 0x84, 0xfc, 0xff},
	{0x2d, 0xd4, 0xbf, 0xff},
}

const (
	// PointRadius is the marker radius in logical pixels.
	PointRadius = 3.0
	// HoverPointRadius is the hovered marker radius; hit tests use a box
	// of twice this size.
	HoverPointRadius = 4.0
	// DragThreshold is how far the pointer must move before a press turns
	// into a lasso.
	DragThreshold = 2.0
)

// OpacityForPointCount fades markers on dense plots so overlapping groups
// stay readable.
func OpacityForPointCount(n int) float64 {
	const full = 200
	if n <= full {
		return 1
	}
	return math.Max(0.15, math.Sqrt(float64(full)/float64(n)))
}

// WithAlpha returns c with its alpha scaled by a.
func WithAlpha(c color.RGBA, a float64) color.NRGBA {
	a = math.Max(0, math.Min(1, a))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(float64(c.A) * a))}
}
