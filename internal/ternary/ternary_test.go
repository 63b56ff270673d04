package ternary

import (
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
	"scatterview/internal/plot/plottest"
	"scatterview/internal/selection"
)

type measurer struct{}

func (measurer) MeasureText(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size / 2
}

var viewport = plot.CanvasParams{Width: 400, Height: 300, DPI: 1}

func values(pmcs []plot.PMC, vs ...float64) []plot.Value {
	out := make([]plot.Value, len(vs))
	for i, v := range vs {
		out[i] = plot.Value{PMC: pmcs[i], Value: v}
	}
	return out
}

func sampleRaw(t *testing.T) RawData {
	t.Helper()
	raw := RawData{Corners: [3]Corner{{Label: "Fe"}, {Label: "Ca"}, {Label: "Si"}}}
	pmcs := []plot.PMC{1, 2, 3, 4}
	err := BuildGroup(&raw, "all", plot.GroupColors[0], plot.ShapeCircle,
		values(pmcs, 1, 0, 0, 1),
		values(pmcs, 0, 1, 0, 1),
		values(pmcs, 0, 0, 1, 1),
	)
	require.NoError(t, err)
	return raw
}

func TestProject(t *testing.T) {
	tests := []struct {
		p    PointValue
		want geom.Point
	}{
		{PointValue{A: 1}, geom.Pt(0, 0)},
		{PointValue{B: 5}, geom.Pt(1, 0)},
		{PointValue{C: 0.2}, geom.Pt(0.5, sin60)},
		{PointValue{A: 1, B: 1, C: 1, NullMask: NullC}, geom.Pt(0.5, 0)},
	}
	for _, tt := range tests {
		got, err := Project(tt.p)
		require.NoError(t, err)
		assert.InDelta(t, tt.want.X, got.X, 1e-12)
		assert.InDelta(t, tt.want.Y, got.Y, 1e-12)
	}

	_, err := Project(PointValue{})
	assert.ErrorIs(t, err, plot.ErrDegenerate)
	_, err = Project(PointValue{A: 1, B: -1, C: 1})
	assert.ErrorIs(t, err, plot.ErrDegenerate)
	_, err = Project(PointValue{A: 5, NullMask: NullA})
	assert.ErrorIs(t, err, plot.ErrDegenerate)
}

func TestBuildGroupMisaligned(t *testing.T) {
	var raw RawData
	err := BuildGroup(&raw, "r", plot.GroupColors[0], plot.ShapeCircle,
		values([]plot.PMC{1, 2}, 1, 2),
		values([]plot.PMC{1}, 1),
		values([]plot.PMC{1, 2}, 1, 2),
	)
	assert.ErrorIs(t, err, plot.ErrMisaligned)

	err = BuildGroup(&raw, "r", plot.GroupColors[0], plot.ShapeCircle,
		values([]plot.PMC{1, 2}, 1, 2),
		values([]plot.PMC{1, 3}, 1, 2),
		values([]plot.PMC{1, 2}, 1, 2),
	)
	assert.ErrorIs(t, err, plot.ErrMisaligned)
	assert.Empty(t, raw.Groups)
}

func TestBuildGroupNulls(t *testing.T) {
	var raw RawData
	a := []plot.Value{{PMC: 7, Value: 2}}
	b := []plot.Value{{PMC: 7, IsNull: true}}
	c := []plot.Value{{PMC: 7, Value: 3}}
	require.NoError(t, BuildGroup(&raw, "r", plot.GroupColors[1], plot.ShapeSquare, a, b, c))
	require.Len(t, raw.Groups, 1)
	assert.Equal(t, PointValue{PMC: 7, A: 2, C: 3, NullMask: NullB}, raw.Groups[0].Points[0])
	assert.Equal(t, geom.NewMinMax(2, 2), raw.Corners[CornerA].ValueRange)
	assert.False(t, raw.Corners[CornerB].ValueRange.IsValid())
}

func TestRegeneratePointsInsideDataArea(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	raw := RawData{}
	var a, b, c []plot.Value
	for i := 0; i < 500; i++ {
		id := plot.PMC(i)
		a = append(a, plot.Value{PMC: id, Value: rng.Float64() * 100})
		b = append(b, plot.Value{PMC: id, Value: rng.Float64()})
		c = append(c, plot.Value{PMC: id, Value: rng.Float64() * 10})
	}
	// Degenerate point, rejected before projection.
	a = append(a, plot.Value{PMC: 999})
	b = append(b, plot.Value{PMC: 999})
	c = append(c, plot.Value{PMC: 999})
	require.NoError(t, BuildGroup(&raw, "r", plot.GroupColors[0], plot.ShapeCircle, a, b, c))

	for _, vp := range []plot.CanvasParams{viewport, {Width: 120, Height: 600, DPI: 1}, {Width: 900, Height: 200, DPI: 2}} {
		d, err := Regenerate(raw, vp, measurer{})
		require.NoError(t, err)
		require.Len(t, d.Points, 500)
		area := d.DataArea.Inflate(1e-9, 1e-9)
		for _, p := range d.Points {
			assert.True(t, area.Contains(p.Coord), "%v outside %v", p.Coord, d.DataArea)
			assert.True(t, vp.Rect().Contains(p.Coord))
		}
	}
}

func TestRegenerateIdempotent(t *testing.T) {
	raw := sampleRaw(t)
	d1, err := Regenerate(raw, viewport, measurer{})
	require.NoError(t, err)
	d2, err := Regenerate(raw, viewport, measurer{})
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestRegenerateCorners(t *testing.T) {
	d, err := Regenerate(sampleRaw(t), viewport, measurer{})
	require.NoError(t, err)
	require.Len(t, d.Points, 4)
	assert.InDelta(t, d.Inner[CornerA].X, d.Points[0].Coord.X, 1e-9)
	assert.InDelta(t, d.Inner[CornerA].Y, d.Points[0].Coord.Y, 1e-9)
	assert.InDelta(t, d.Inner[CornerB].X, d.Points[1].Coord.X, 1e-9)
	assert.InDelta(t, d.Inner[CornerC].Y, d.Points[2].Coord.Y, 1e-9)

	side := d.Triangle[CornerB].X - d.Triangle[CornerA].X
	height := d.Triangle[CornerA].Y - d.Triangle[CornerC].Y
	assert.InDelta(t, side*sin60, height, 1e-9)
	assert.Len(t, d.Grid, 12)
}

func TestRegenerateDegenerate(t *testing.T) {
	raw := RawData{Corners: [3]Corner{{Label: "a"}, {Label: "b"}, {Label: "c"}}}
	_, err := Regenerate(raw, viewport, measurer{})
	assert.ErrorIs(t, err, plot.ErrDegenerate)

	_, err = Regenerate(sampleRaw(t), plot.CanvasParams{}, measurer{})
	assert.ErrorIs(t, err, plot.ErrNoViewport)

	// A corner error still lays out the triangle so the error label shows.
	raw.Corners[CornerB].ErrorMsg = "expression not found"
	d, err := Regenerate(raw, viewport, measurer{})
	require.NoError(t, err)
	assert.Equal(t, "b (!)", d.Labels[CornerB].Text)
	assert.Empty(t, d.Points)
}

func TestModelRegeneratesOnViewportChangeOnly(t *testing.T) {
	m := NewModel()
	m.SetRaw(sampleRaw(t))
	m.State.Hover = &plot.DrawnPoint{}

	for i := 0; i < 3; i++ {
		_, ok, err := m.Refresh(viewport, measurer{})
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, 1, m.Regenerations)

	_, _, _ = m.Refresh(plot.CanvasParams{Width: 401, Height: 300, DPI: 1}, measurer{})
	assert.Equal(t, 2, m.Regenerations)

	m.SetRaw(sampleRaw(t))
	assert.Nil(t, m.State.Hover)
}

func TestInteraction(t *testing.T) {
	m := NewModel()
	m.SetRaw(sampleRaw(t))
	d, _, err := m.Refresh(viewport, measurer{})
	require.NoError(t, err)

	sel := selection.New()
	clicked := -1
	in := NewInteraction(m, sel, plot.DefaultGestureConfig(), func(c int) { clicked = c })

	at := d.Points[1].Coord
	in.MouseEvent(plot.MouseEvent{ID: plot.MouseDown, CanvasPoint: at, WorldPoint: at, MouseDownPoint: at})
	in.MouseEvent(plot.MouseEvent{ID: plot.MouseUp, CanvasPoint: at, WorldPoint: at, MouseDownPoint: at})
	assert.Equal(t, plot.NewPMCSet(2), sel.Selection())

	lbl := d.Labels[CornerC].Rect.Center()
	in.MouseEvent(plot.MouseEvent{ID: plot.MouseMove, CanvasPoint: lbl, WorldPoint: lbl})
	assert.Equal(t, LabelC, m.State.HoverLabel)
	in.MouseEvent(plot.MouseEvent{ID: plot.MouseUp, CanvasPoint: lbl, WorldPoint: lbl, MouseDownPoint: lbl})
	assert.Equal(t, CornerC, clicked)

	// Lasso around the whole triangle picks every point.
	start := geom.Pt(0, 0)
	in.MouseEvent(plot.MouseEvent{ID: plot.MouseDown, CanvasPoint: start, WorldPoint: start, MouseDownPoint: start})
	for _, pt := range []geom.Point{geom.Pt(400, 0), geom.Pt(400, 300), geom.Pt(0, 300)} {
		in.MouseEvent(plot.MouseEvent{ID: plot.MouseDrag, CanvasPoint: pt, WorldPoint: pt, MouseDownPoint: start})
	}
	in.MouseEvent(plot.MouseEvent{ID: plot.MouseUp, CanvasPoint: geom.Pt(0, 300), WorldPoint: geom.Pt(0, 300), MouseDownPoint: start})
	assert.Equal(t, plot.NewPMCSet(1, 2, 3, 4), sel.Selection())
}

func params(vp plot.CanvasParams) plot.DrawParams {
	return plot.DrawParams{Transform: geom.Identity(), Viewport: vp}
}

func coords(points []plot.DrawnPoint) []geom.Point {
	out := make([]geom.Point, len(points))
	for i, p := range points {
		out[i] = p.Coord
	}
	return out
}

func TestDrawerWithoutData(t *testing.T) {
	rec := plottest.NewRecorder(viewport.Width, viewport.Height)
	dr := &Drawer{Model: NewModel(), Selection: selection.New()}
	dr.Draw(rec, params(viewport))
	assert.Empty(t, rec.Calls)
	assert.Equal(t, 0, dr.Model.Regenerations)
}

func TestDrawerFollowsViewport(t *testing.T) {
	m := NewModel()
	m.SetRaw(sampleRaw(t))
	dr := &Drawer{Model: m, Selection: selection.New()}
	rec := plottest.NewRecorder(viewport.Width, viewport.Height)

	dr.Draw(rec, params(viewport))
	require.Equal(t, 1, m.Regenerations)
	dr.Draw(rec, params(viewport))
	assert.Equal(t, 1, m.Regenerations)

	wide := plot.CanvasParams{Width: 800, Height: 300, DPI: 1}
	rec.Reset()
	dr.Draw(rec, params(wide))
	assert.Equal(t, 2, m.Regenerations)

	want, err := Regenerate(sampleRaw(t), wide, rec)
	require.NoError(t, err)
	fill := rec.Ops(plottest.OpFillRect)
	require.NotEmpty(t, fill)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(800, 300)}, fill[0].Points)
	tri := rec.Ops(plottest.OpStrokePolygon)
	require.Len(t, tri, 1)
	assert.Equal(t, want.Triangle[:], tri[0].Points)
	assert.Equal(t, coords(want.Points), rec.Points(plottest.OpDrawMarker))
	assert.Len(t, rec.Ops(plottest.OpStrokeLine), len(want.Grid))
}

func TestDrawerKeepsPreviousFrameOnFailure(t *testing.T) {
	m := NewModel()
	m.SetRaw(sampleRaw(t))
	dr := &Drawer{Model: m}
	rec := plottest.NewRecorder(viewport.Width, viewport.Height)
	dr.Draw(rec, params(viewport))
	good, ok := m.Draw()
	require.True(t, ok)

	// No corner error and no plottable points fails to regenerate.
	m.SetRaw(RawData{Corners: [3]Corner{{Label: "a"}, {Label: "b"}, {Label: "c"}}})
	rec.Reset()
	dr.Draw(rec, params(viewport))
	assert.Equal(t, 1, m.Regenerations)
	assert.Equal(t, coords(good.Points), rec.Points(plottest.OpDrawMarker))
	tri := rec.Ops(plottest.OpStrokePolygon)
	require.Len(t, tri, 1)
	assert.Equal(t, good.Triangle[:], tri[0].Points)
}
