package binary

import (
	"fmt"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

// YHeadroom leaves space above the highest point for overlays.
const YHeadroom = 1.1

// DrawModel is the viewport dependent geometry of a binary plot.
type DrawModel struct {
	Viewport plot.CanvasParams
	Layout   plot.AxisLayout

	XText, YText   string
	XError, YError string

	Styles []plot.GroupStyle
	Points []plot.DrawnPoint

	PointRadius float64
	Opacity     float64
}

func axisText(a Axis) string {
	if a.ErrorMsg != "" {
		return a.Label + " (!)"
	}
	return a.Label
}

// Regenerate computes nice axis ranges, lays out both axes and maps every
// plottable point into the data area.
func Regenerate(raw RawData, vp plot.CanvasParams, m plot.TextMeasurer) (DrawModel, error) {
	if vp.Empty() {
		return DrawModel{}, plot.ErrNoViewport
	}
	xData, yData := raw.DataRanges()
	if !xData.IsValid() && (raw.X.ErrorMsg != "" || raw.Y.ErrorMsg != "") {
		// Nothing to plot, but lay out unit axes so the errors show.
		xData, yData = geom.NewMinMax(0, 1), geom.NewMinMax(0, 1)
	}
	xRange, err := plot.NiceRange(xData, 1, 1)
	if err != nil {
		return DrawModel{}, fmt.Errorf("x axis: %w", err)
	}
	yRange, err := plot.NiceRange(yData, YHeadroom, 1)
	if err != nil {
		return DrawModel{}, fmt.Errorf("y axis: %w", err)
	}

	d := DrawModel{
		Viewport:    vp,
		XText:       axisText(raw.X),
		YText:       axisText(raw.Y),
		XError:      raw.X.ErrorMsg,
		YError:      raw.Y.ErrorMsg,
		PointRadius: vp.Px(plot.PointRadius),
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

	for gi, g := range raw.Groups {
		d.Styles = append(d.Styles, plot.GroupStyle{Color: g.Color, Shape: g.Shape})
		for i, p := range g.Points {
			if !p.plottable() {
				continue
			}
			d.Points = append(d.Points, plot.DrawnPoint{
				Group: gi,
				Index: i,
				PMC:   p.PMC,
				Coord: geom.Pt(d.Layout.X.ValueToCanvas(p.X), d.Layout.Y.ValueToCanvas(p.Y)),
			})
		}
	}
	d.Opacity = plot.OpacityForPointCount(len(d.Points))
	return d, nil
}
