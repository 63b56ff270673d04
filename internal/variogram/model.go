package variogram

import (
	"fmt"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

type Model = plot.Model[RawData, DrawModel]

func NewModel() *Model {
	return plot.NewModel[RawData, DrawModel](Regenerate)
}

// Drawer paints a variogram model. Bins have no point ids, so the shared
// selection is not drawn; hover is local to the widget.
type Drawer struct {
	Model *Model
}

func (dr *Drawer) Draw(t plot.RenderTarget, p plot.DrawParams) {
	d, ok, _ := dr.Model.Refresh(p.Viewport, t)
	if !ok {
		return
	}
	st := &dr.Model.State
	l := d.Layout
	t.FillRect(p.Viewport.Rect(), plot.BackgroundColor)

	plot.WithTransform(t, p.Transform, func() {
		plot.DrawAxes(t, l, p.Viewport)
		plot.DrawLabel(t, l.XLabelRect, d.XText, l.FontSize, false, false)
		plot.DrawLabel(t, l.YLabelRect, d.YText, l.FontSize, st.HoverLabel == LabelY, d.Error != "")

		plot.DrawPoints(t, d.Points, d.Styles, d.PointRadius, d.Opacity)
		if d.HasBestFit {
			t.StrokeLine(d.BestFit[0], d.BestFit[1], plot.BestFitColor, p.Viewport.Px(1))
		}
		plot.DrawHover(t, d.Points, plot.NoPMC, st.Hover, p.Viewport.Px(plot.HoverPointRadius))
		plot.DrawLasso(t, st.LassoPoints, p.Viewport.Px(1))
	})

	switch {
	case st.HoverLabel == LabelY && d.Error != "":
		plot.DrawPopup(t, p.Transform.Apply(geom.Pt(l.YLabelRect.X, l.YLabelRect.MaxY())), d.Error, p.Viewport)
	case st.Hover != nil:
		if b, ok := d.binFor(*st.Hover); ok {
			msg := fmt.Sprintf("distance %.4g\nsemivariance %.4g\npairs %d", b.Distance, b.Semivariance, b.Count)
			at := p.Transform.Apply(st.Hover.Coord).Add(geom.Pt(d.PointRadius*2, d.PointRadius*2))
			plot.DrawPopup(t, at, msg, p.Viewport)
		}
	}
}

func (d DrawModel) binFor(p plot.DrawnPoint) (Bin, bool) {
	for i, dp := range d.Points {
		if dp.Group == p.Group && dp.Index == p.Index {
			return d.Bins[i], true
		}
	}
	return Bin{}, false
}

// Interaction routes pointer events for a variogram widget.
type Interaction struct {
	Model     *Model
	Selection plot.Selection
	Gesture   *plot.Gesture

	// OnAxisClick is called when the Y axis label is clicked.
	OnAxisClick func(plot.LabelID)
}

func NewInteraction(m *Model, sel plot.Selection, cfg plot.GestureConfig, onAxisClick func(plot.LabelID)) *Interaction {
	return &Interaction{Model: m, Selection: sel, Gesture: plot.NewGesture(cfg), OnAxisClick: onAxisClick}
}

func (in *Interaction) MouseEvent(ev plot.MouseEvent) plot.Result {
	d, ok := in.Model.Draw()
	if !ok {
		return plot.Result{}
	}
	return in.Gesture.Handle(ev, target{d: d, onClick: in.OnAxisClick}, &in.Model.State, in.Selection)
}

func (in *Interaction) KeyEvent(plot.KeyEvent) plot.Result { return plot.Result{} }

type target struct {
	d       DrawModel
	onClick func(plot.LabelID)
}

func (t target) Points() []plot.DrawnPoint { return t.d.Points }

func (t target) LabelAt(pt geom.Point) (plot.LabelID, bool) {
	if t.d.Layout.YLabelRect.Contains(pt) {
		return LabelY, true
	}
	return "", false
}

func (t target) InDataArea(pt geom.Point) bool { return t.d.Layout.DataArea.Contains(pt) }

func (t target) Selectable() bool { return false }

func (t target) AxisClicked(id plot.LabelID) {
	if t.onClick != nil {
		t.onClick(id)
	}
}
