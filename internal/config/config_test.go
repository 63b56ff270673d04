package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scatterview/internal/panzoom"
)

func TestLoad(t *testing.T) {
	const ini = `
db_path=/tmp/view.sqlite
data=samples.csv
plot=binary

[panzoom]
zoom_min=0.5
zoom_max=20
wheel_settle=100ms
restrict_pan=false

[interaction]
hover_radius=6
drag_threshold=3

[variogram]
bins=20
max_distance=12.5
`
	c, err := Load(strings.NewReader(ini))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/view.sqlite", c.DBPath)
	assert.Equal(t, "samples.csv", c.Data)
	assert.Equal(t, "binary", c.Plot)
	assert.Equal(t, 0.5, c.Limits().Min.Y)
	assert.Equal(t, 20.0, c.Limits().Max.X)
	assert.Equal(t, 100*time.Millisecond, c.WheelSettle)
	assert.Nil(t, c.Restrictor())
	assert.Equal(t, 6.0, c.Gesture().HoverRadius)
	assert.Equal(t, 3.0, c.Gesture().DragThreshold)
	assert.Equal(t, 20, c.BinOptions().Bins)
	assert.Equal(t, 12.5, c.BinOptions().MaxDistance)
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, panzoom.DefaultLimits(), c.Limits())
	assert.Equal(t, panzoom.DefaultRestrictor{}, c.Restrictor())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, ini, want string
	}{
		{"unknown key", "colour=red\n", "colour: unrecognized config item"},
		{"unknown section key", "[panzoom]\nspeed=2\n", "speed: unrecognized config item"},
		{"bad number", "[variogram]\nbins=many\n", "bins"},
		{"bad plot", "plot=pie\n", `unknown plot kind "pie"`},
		{"unordered zoom", "[panzoom]\nzoom_min=5\nzoom_max=2\n", "zoom limits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.ini))
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	c, err := LoadFile(filepath.Join(dir, "missing.ini"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	path := filepath.Join(dir, "scatterview.ini")
	require.NoError(t, os.WriteFile(path, []byte("plot=variogram\n"), 0o644))
	c, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "variogram", c.Plot)
}
