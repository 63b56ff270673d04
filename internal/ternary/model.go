package ternary

import (
	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

// Model is the state of one ternary widget.
type Model = plot.Model[RawData, DrawModel]

func NewModel() *Model {
	return plot.NewModel[RawData, DrawModel](Regenerate)
}

// Drawer paints a ternary model.
type Drawer struct {
	Model     *Model
	Selection plot.Selection
}

func (dr *Drawer) Draw(t plot.RenderTarget, p plot.DrawParams) {
	d, ok, _ := dr.Model.Refresh(p.Viewport, t)
	if !ok {
		return
	}
	st := &dr.Model.State
	t.FillRect(p.Viewport.Rect(), plot.BackgroundColor)

	plot.WithTransform(t, p.Transform, func() {
		for _, l := range d.Grid {
			t.StrokeLine(l[0], l[1], plot.GridColor, p.Viewport.Px(0.5))
		}
		t.StrokePolygon(d.Triangle[:], true, plot.AxisColor, p.Viewport.Px(1))
		for i, l := range d.Labels {
			plot.DrawLabel(t, l.Rect, l.Text, d.FontSize, st.HoverLabel == cornerLabels[i], l.ErrorMsg != "")
		}

		plot.DrawPoints(t, d.Points, d.Styles, d.PointRadius, d.Opacity)
		hover := plot.NoPMC
		if dr.Selection != nil {
			plot.DrawSelected(t, d.Points, dr.Selection.Selection(), d.PointRadius)
			hover = dr.Selection.HoverPoint()
		}
		plot.DrawHover(t, d.Points, hover, st.Hover, p.Viewport.Px(plot.HoverPointRadius))
		plot.DrawLasso(t, st.LassoPoints, p.Viewport.Px(1))
	})

	if i, ok := CornerIndex(st.HoverLabel); ok && d.Labels[i].ErrorMsg != "" {
		r := d.Labels[i].Rect
		anchor := p.Transform.Apply(geom.Pt(r.X, r.MaxY()))
		plot.DrawPopup(t, anchor, d.Labels[i].ErrorMsg, p.Viewport)
	}
}

// Interaction routes pointer events for a ternary widget into the shared
// gesture state machine.
type Interaction struct {
	Model     *Model
	Selection plot.Selection
	Gesture   *plot.Gesture

	// OnCornerClick is called with the corner index when a corner label is
	// clicked.
	OnCornerClick func(corner int)
}

func NewInteraction(m *Model, sel plot.Selection, cfg plot.GestureConfig, onCornerClick func(int)) *Interaction {
	return &Interaction{Model: m, Selection: sel, Gesture: plot.NewGesture(cfg), OnCornerClick: onCornerClick}
}

func (in *Interaction) MouseEvent(ev plot.MouseEvent) plot.Result {
	d, ok := in.Model.Draw()
	if !ok {
		return plot.Result{}
	}
	return in.Gesture.Handle(ev, target{d: d, onClick: in.OnCornerClick}, &in.Model.State, in.Selection)
}

func (in *Interaction) KeyEvent(plot.KeyEvent) plot.Result { return plot.Result{} }

type target struct {
	d       DrawModel
	onClick func(int)
}

func (t target) Points() []plot.DrawnPoint { return t.d.Points }

func (t target) LabelAt(pt geom.Point) (plot.LabelID, bool) {
	for i, l := range t.d.Labels {
		if l.Rect.Contains(pt) {
			return cornerLabels[i], true
		}
	}
	return "", false
}

func (t target) InDataArea(pt geom.Point) bool {
	return geom.PointInPolygon(pt, t.d.Triangle[:])
}

func (t target) Selectable() bool { return true }

func (t target) AxisClicked(id plot.LabelID) {
	if i, ok := CornerIndex(id); ok && t.onClick != nil {
		t.onClick(i)
	}
}
