package panzoom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

func TestRoundTrip(t *testing.T) {
	pz := New(Limits{Min: geom.Pt(0.1, 0.1), Max: geom.Pt(50, 50)}, nil)
	states := []struct{ scale, pan geom.Point }{
		{geom.Pt(1, 1), geom.Point{}},
		{geom.Pt(2.5, 7), geom.Pt(-33.3, 12.75)},
		{geom.Pt(0.37, 49), geom.Pt(1e4, -1e3)},
	}
	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(1, 1), geom.Pt(-17.5, 403.25), geom.Pt(1e5, -2e5)}
	for _, s := range states {
		pz.SetScale(s.scale, true)
		pz.SetPan(s.pan, true)
		for _, p := range pts {
			got := pz.CanvasToWorldSpace(pz.WorldToCanvasSpace(p))
			assert.InDelta(t, p.X, got.X, 1e-9)
			assert.InDelta(t, p.Y, got.Y, 1e-9)
		}
	}
}

func TestZoomClamping(t *testing.T) {
	pz := New(DefaultLimits(), nil)
	tests := []struct {
		in   geom.Point
		want geom.Point
	}{
		{geom.Pt(2, 3), geom.Pt(2, 3)},
		{geom.Pt(0.5, 100), geom.Pt(1, 10)},
		{geom.Pt(-4, 11), geom.Pt(1, 10)},
		{geom.Pt(math.NaN(), 5), geom.Pt(1, 1)},
		{geom.Pt(math.Inf(1), math.Inf(-1)), geom.Pt(1, 1)},
	}
	for _, tt := range tests {
		pz.SetScale(tt.in, true)
		assert.Equal(t, tt.want, pz.Scale(), "SetScale(%v)", tt.in)
	}

	narrow := New(Limits{Min: geom.Pt(2, 2), Max: geom.Pt(4, 4)}, nil)
	narrow.SetScale(geom.Pt(math.NaN(), math.NaN()), true)
	assert.Equal(t, geom.Pt(2, 2), narrow.Scale())
}

func TestPanRestriction(t *testing.T) {
	pz := New(DefaultLimits(), DefaultRestrictor{})
	pz.SetCanvasParams(plot.CanvasParams{Width: 100, Height: 100, DPI: 1})
	pz.SetScale(geom.Pt(2, 2), true)

	pz.SetPan(geom.Pt(50, 0), true)
	assert.Equal(t, 0.0, pz.Pan().X)

	pz.SetPan(geom.Pt(-500, 0), true)
	assert.Equal(t, -100.0, pz.Pan().X)

	pz.SetPan(geom.Pt(-40, -60), true)
	assert.Equal(t, geom.Pt(-40, -60), pz.Pan())

	// Zooming out pulls the pan back inside the new bounds.
	pz.SetScale(geom.Pt(1, 1), true)
	assert.Equal(t, geom.Point{}, pz.Pan())
}

func TestSetScaleRelativeToKeepsCenterFixed(t *testing.T) {
	pz := New(DefaultLimits(), nil)
	pz.SetPan(geom.Pt(5, -3), true)
	center := geom.Pt(40, 25)
	before := pz.WorldToCanvasSpace(center)

	pz.SetScaleRelativeTo(geom.Pt(3, 2), center, true)
	after := pz.WorldToCanvasSpace(center)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
	assert.Equal(t, geom.Pt(3, 2), pz.Scale())
}

func TestZoomAtDebounce(t *testing.T) {
	pz := New(DefaultLimits(), nil)
	var changes []Change
	cancel := pz.OnTransformChange(func(c Change) { changes = append(changes, c) })

	cursor := geom.Pt(30, 30)
	world := pz.CanvasToWorldSpace(cursor)
	first := pz.ZoomAt(cursor, -1)
	second := pz.ZoomAt(cursor, -1)
	require.Len(t, changes, 2)
	assert.False(t, changes[0].Final)
	assert.False(t, changes[1].Final)
	assert.InDelta(t, 1.21, pz.Scale().X, 1e-12)

	got := pz.WorldToCanvasSpace(world)
	assert.InDelta(t, cursor.X, got.X, 1e-9)
	assert.InDelta(t, cursor.Y, got.Y, 1e-9)

	assert.False(t, pz.SettleWheel(first))
	assert.True(t, pz.SettleWheel(second))
	require.Len(t, changes, 3)
	assert.True(t, changes[2].Final)
	assert.Equal(t, pz.Scale(), changes[2].Scale)

	cancel()
	pz.Reset(true)
	assert.Len(t, changes, 3)
	assert.Equal(t, geom.Pt(1, 1), pz.Scale())
}

type recordingTarget struct {
	plot.RenderTarget
	m geom.Matrix
}

func (r *recordingTarget) Transform() geom.Matrix     { return r.m }
func (r *recordingTarget) SetTransform(m geom.Matrix) { r.m = m }

func TestApplyTransform(t *testing.T) {
	pz := New(DefaultLimits(), nil)
	pz.SetScale(geom.Pt(2, 4), true)
	pz.SetPan(geom.Pt(10, 20), true)

	rt := &recordingTarget{m: geom.ScaleTranslate(geom.Pt(1, 1), geom.Pt(1, 1))}
	pz.ApplyTransform(rt)
	assert.Equal(t, geom.Pt(13, 25), rt.m.Apply(geom.Pt(1, 1)))
}
