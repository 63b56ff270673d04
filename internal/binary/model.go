package binary

import (
	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

type Model = plot.Model[RawData, DrawModel]

func NewModel() *Model {
	return plot.NewModel[RawData, DrawModel](Regenerate)
}

// Drawer paints a binary model.
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
	l := d.Layout
	t.FillRect(p.Viewport.Rect(), plot.BackgroundColor)

	plot.WithTransform(t, p.Transform, func() {
		plot.DrawAxes(t, l, p.Viewport)
		plot.DrawLabel(t, l.XLabelRect, d.XText, l.FontSize, st.HoverLabel == LabelX, d.XError != "")
		plot.DrawLabel(t, l.YLabelRect, d.YText, l.FontSize, st.HoverLabel == LabelY, d.YError != "")

		plot.DrawPoints(t, d.Points, d.Styles, d.PointRadius, d.Opacity)
		hover := plot.NoPMC
		if dr.Selection != nil {
			plot.DrawSelected(t, d.Points, dr.Selection.Selection(), d.PointRadius)
			hover = dr.Selection.HoverPoint()
		}
		plot.DrawHover(t, d.Points, hover, st.Hover, p.Viewport.Px(plot.HoverPointRadius))
		plot.DrawLasso(t, st.LassoPoints, p.Viewport.Px(1))
	})

	switch {
	case st.HoverLabel == LabelX && d.XError != "":
		plot.DrawPopup(t, p.Transform.Apply(geom.Pt(l.XLabelRect.X, l.XLabelRect.Y)), d.XError, p.Viewport)
	case st.HoverLabel == LabelY && d.YError != "":
		plot.DrawPopup(t, p.Transform.Apply(geom.Pt(l.YLabelRect.X, l.YLabelRect.MaxY())), d.YError, p.Viewport)
	}
}

// Interaction routes pointer events for a binary widget.
type Interaction struct {
	Model     *Model
	Selection plot.Selection
	Gesture   *plot.Gesture

	// OnAxisClick is called with LabelX or LabelY.
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
	switch {
	case t.d.Layout.XLabelRect.Contains(pt):
		return LabelX, true
	case t.d.Layout.YLabelRect.Contains(pt):
		return LabelY, true
	}
	return "", false
}

func (t target) InDataArea(pt geom.Point) bool { return t.d.Layout.DataArea.Contains(pt) }

func (t target) Selectable() bool { return true }

func (t target) AxisClicked(id plot.LabelID) {
	if t.onClick != nil {
		t.onClick(id)
	}
}
