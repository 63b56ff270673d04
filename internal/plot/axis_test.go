package plot

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scatterview/internal/geom"
)

// runeMeasurer renders every rune half a font size wide.
type runeMeasurer struct{}

func (runeMeasurer) MeasureText(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size / 2
}

func TestCeilToSigFigs(t *testing.T) {
	tests := []struct {
		in      float64
		sigfigs int
		want    float64
	}{
		{0.0957, 1, 0.1},
		{0.087, 1, 0.09},
		{0.087, 2, 0.087},
		{0.0871, 2, 0.088},
		{0.3, 1, 0.3},
		{1, 1, 1},
		{1.2, 1, 2},
		{41.0001, 3, 42},
		{0, 1, 0},
		{-3, 1, -3},
	}
	for _, tt := range tests {
		got := CeilToSigFigs(tt.in, tt.sigfigs)
		assert.InDelta(t, tt.want, got, 1e-12, "CeilToSigFigs(%v, %d)", tt.in, tt.sigfigs)
	}
}

func TestNiceRangeBinaryScenario(t *testing.T) {
	data := geom.NewMinMax(0.003, 0.087)
	rng, err := NiceRange(data, 1.1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rng.Min)
	assert.InDelta(t, 0.1, rng.Max, 1e-12)
	assert.GreaterOrEqual(t, rng.Max, 0.087*1.1)
}

func TestNiceRangeNegativeAndDegenerate(t *testing.T) {
	rng, err := NiceRange(geom.NewMinMax(-4.2, 7.5), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, geom.NewMinMax(-5, 8), rng)

	_, err = NiceRange(geom.NewMinMax(0, 0), 1.1, 1)
	assert.ErrorIs(t, err, ErrDegenerate)

	_, err = NiceRange(geom.MinMax{}, 1.1, 1)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestAxisValueCanvasRoundTrip(t *testing.T) {
	x := NewAxis(Horizontal, geom.NewMinMax(0, 10), 20, 200)
	assert.Equal(t, 20.0, x.ValueToCanvas(0))
	assert.Equal(t, 220.0, x.ValueToCanvas(10))
	assert.InDelta(t, 7.5, x.CanvasToValue(x.ValueToCanvas(7.5)), 1e-12)

	y := NewAxis(Vertical, geom.NewMinMax(0, 10), 300, 200)
	assert.Equal(t, 300.0, y.ValueToCanvas(0))
	assert.Equal(t, 100.0, y.ValueToCanvas(10))
	assert.InDelta(t, 2.5, y.CanvasToValue(y.ValueToCanvas(2.5)), 1e-12)

	require.NotEmpty(t, x.Ticks)
	for _, tk := range x.Ticks {
		assert.GreaterOrEqual(t, tk.Value, 0.0)
		assert.LessOrEqual(t, tk.Value, 10.0)
		assert.InDelta(t, x.ValueToCanvas(tk.Value), tk.Pos, 1e-12)
	}
}

func TestLayoutAxesWidensLeftMargin(t *testing.T) {
	in := AxisLayoutInput{
		Viewport: CanvasParams{Width: 400, Height: 300, DPI: 1},
		XRange:   geom.NewMinMax(0, 1),
		YRange:   geom.NewMinMax(0, 100000),
		XLabel:   "Fe",
		YLabel:   "Ca",
	}
	l, err := LayoutAxes(in, runeMeasurer{})
	require.NoError(t, err)

	labelW := l.Y.MaxTickLabelWidth(runeMeasurer{}, l.FontSize)
	require.Greater(t, labelW, 0.0)
	assert.Greater(t, l.DataArea.X, labelW)
	assert.Equal(t, l.DataArea.X, l.X.Start)
	assert.Equal(t, l.DataArea.MaxY(), l.Y.Start)
	assert.True(t, l.XLabelRect.W > 0 && l.YLabelRect.W > 0)

	again, err := LayoutAxes(in, runeMeasurer{})
	require.NoError(t, err)
	assert.Equal(t, l, again)
}

func TestLayoutAxesEmptyViewport(t *testing.T) {
	_, err := LayoutAxes(AxisLayoutInput{XRange: geom.NewMinMax(0, 1), YRange: geom.NewMinMax(0, 1)}, runeMeasurer{})
	assert.ErrorIs(t, err, ErrNoViewport)

	_, err = LayoutAxes(AxisLayoutInput{
		Viewport: CanvasParams{Width: 10, Height: 10, DPI: 1},
		XRange:   geom.NewMinMax(0, 1),
		YRange:   geom.NewMinMax(0, 1),
	}, runeMeasurer{})
	assert.ErrorIs(t, err, ErrNoViewport)
}
