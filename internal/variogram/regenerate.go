package variogram

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

const (
	xTitle = "Distance"
	yTitle = "Semivariance"
)

// DrawModel is the viewport dependent geometry of a variogram plot.
type DrawModel struct {
	Viewport plot.CanvasParams
	Layout   plot.AxisLayout

	XText, YText string
	Error        string

	Styles []plot.GroupStyle
	Points []plot.DrawnPoint
	// Bins is index aligned with Points.
	Bins []Bin

	// BestFit is the least squares line clipped to the data area, valid
	// when HasBestFit is set.
	BestFit    [2]geom.Point
	HasBestFit bool
	Slope      float64
	Intercept  float64

	PointRadius float64
	Opacity     float64
}

// AxisRanges returns the X span [0, nice(maxDistance*1.1)] and the Y span
// [min(0, min*1.1), max(0, max*1.1)].
func AxisRanges(raw RawData) (x, y geom.MinMax, err error) {
	var dist, gamma geom.MinMax
	for _, g := range raw.Groups {
		for _, b := range g.Bins {
			dist.Expand(b.Distance)
			gamma.Expand(b.Semivariance)
		}
	}
	maxDist := raw.MaxDistance
	if maxDist <= 0 && dist.IsValid() {
		maxDist = dist.Max
	}
	if maxDist <= 0 || !gamma.IsValid() {
		return x, y, fmt.Errorf("no bins: %w", plot.ErrDegenerate)
	}
	x = geom.NewMinMax(0, plot.CeilToSigFigs(maxDist*1.1, 2))
	y = geom.NewMinMax(math.Min(0, gamma.Min*1.1), math.Max(0, gamma.Max*1.1))
	if y.Range() == 0 {
		return x, y, fmt.Errorf("flat semivariance: %w", plot.ErrDegenerate)
	}
	return x, y, nil
}

// Regenerate lays out the axes and maps every bin to a marker.
func Regenerate(raw RawData, vp plot.CanvasParams, m plot.TextMeasurer) (DrawModel, error) {
	if vp.Empty() {
		return DrawModel{}, plot.ErrNoViewport
	}
	d := DrawModel{
		Viewport:    vp,
		XText:       xTitle,
		YText:       yTitle,
		Error:       raw.ErrorMsg,
		PointRadius: vp.Px(plot.PointRadius),
	}
	if raw.Label != "" {
		d.YText = yTitle + ": " + raw.Label
	}
	if raw.ErrorMsg != "" {
		d.YText += " (!)"
	}

	xRange, yRange, err := AxisRanges(raw)
	if err != nil {
		if raw.ErrorMsg == "" {
			return DrawModel{}, err
		}
		xRange, yRange = geom.NewMinMax(0, 1), geom.NewMinMax(0, 1)
	}
	d.Layout, err = plot.LayoutAxes(plot.AxisLayoutInput{
		Viewport: vp,
		XRange:   xRange,
		YRange:   yRange,
		XLabel:   d.XText,
		YLabel:   d.YText,
	}, m)
	if err != nil {
		return DrawModel{}, err
	}

	var xs, ys []float64
	for gi, g := range raw.Groups {
		d.Styles = append(d.Styles, plot.GroupStyle{Color: g.Color, Shape: g.Shape})
		for i, b := range g.Bins {
			if b.Distance > xRange.Max {
				continue
			}
			d.Points = append(d.Points, plot.DrawnPoint{
				Group: gi,
				Index: i,
				PMC:   plot.NoPMC,
				Coord: geom.Pt(d.Layout.X.ValueToCanvas(b.Distance), d.Layout.Y.ValueToCanvas(b.Semivariance)),
			})
			d.Bins = append(d.Bins, b)
			xs = append(xs, b.Distance)
			ys = append(ys, b.Semivariance)
		}
	}
	d.Opacity = plot.OpacityForPointCount(len(d.Points))

	if raw.BestFit && len(xs) >= 2 {
		d.Intercept, d.Slope = stat.LinearRegression(xs, ys, nil, false)
		if a, b, ok := clipLine(d.Intercept, d.Slope, xRange, yRange); ok {
			d.BestFit = [2]geom.Point{
				{X: d.Layout.X.ValueToCanvas(a.X), Y: d.Layout.Y.ValueToCanvas(a.Y)},
				{X: d.Layout.X.ValueToCanvas(b.X), Y: d.Layout.Y.ValueToCanvas(b.Y)},
			}
			d.HasBestFit = true
		}
	}
	return d, nil
}

// clipLine clips y = intercept + slope*x to the value box, returning the
// segment end points in value space.
func clipLine(intercept, slope float64, x, y geom.MinMax) (a, b geom.Point, ok bool) {
	if math.IsNaN(intercept) || math.IsNaN(slope) || math.IsInf(slope, 0) {
		return a, b, false
	}
	x0, x1 := x.Min, x.Max
	if slope != 0 {
		// x where the line crosses the bottom and top of the box.
		lo := (y.Min - intercept) / slope
		hi := (y.Max - intercept) / slope
		if lo > hi {
			lo, hi = hi, lo
		}
		x0, x1 = math.Max(x0, lo), math.Min(x1, hi)
	} else if intercept < y.Min || intercept > y.Max {
		return a, b, false
	}
	if x0 >= x1 {
		return a, b, false
	}
	return geom.Pt(x0, intercept+slope*x0), geom.Pt(x1, intercept+slope*x1), true
}
