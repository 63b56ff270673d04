package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

const sampleCSV = `pmc,region,x,y,Fe,Ca,Si
3,rock;soil,1,2,12.5,0.3,40
1,rock,0,0,10,,41
2,,5,x,11,0.5,nan
bad,rock,0,0,1,1,1
`

func parse(t *testing.T) *CSVSource {
	t.Helper()
	src, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return src
}

func TestParseCSV(t *testing.T) {
	src := parse(t)
	assert.Equal(t, []string{"Fe", "Ca", "Si"}, src.Expressions())
	assert.Equal(t, []string{AllPoints, "rock", "soil"}, src.Regions())
	assert.Equal(t, 3, src.Len())

	s, ok := src.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, []string{"rock", "soil"}, s.Regions)
	assert.Equal(t, geom.Pt(1, 2), s.Position)

	assert.Equal(t, map[plot.PMC]geom.Point{1: geom.Pt(0, 0), 3: geom.Pt(1, 2)}, src.Positions())

	s, _ = src.Lookup(2)
	assert.True(t, math.IsNaN(s.Position.X))
	_, hasSi := s.Values["Si"]
	assert.False(t, hasSi)
}

func TestParseCSVErrors(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = ParseCSV(strings.NewReader("pmc,x,y,Fe\n1,0,0,1\n"))
	assert.ErrorIs(t, err, ErrMissingColumns)
	_, err = ParseCSV(strings.NewReader("pmc,region,x,y\nnope,,0,0\n"))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestGetData(t *testing.T) {
	src := parse(t)
	res, err := src.GetData([]Query{
		{ExprID: "Ca", RegionID: AllPoints},
		{ExprID: "Fe", RegionID: "rock", Unit: UnitPPM},
		{ExprID: "Mg", RegionID: AllPoints},
		{ExprID: "Fe", RegionID: "lake"},
	})
	require.NoError(t, err)
	require.Len(t, res, 4)

	assert.Equal(t, []plot.Value{
		{PMC: 1, IsNull: true},
		{PMC: 2, Value: 0.5},
		{PMC: 3, Value: 0.3},
	}, res[0].Values)

	assert.Equal(t, []plot.Value{{PMC: 1, Value: 100000}, {PMC: 3, Value: 125000}}, res[1].Values)
	assert.Equal(t, `expression "Mg" not found`, res[2].Error)
	assert.Empty(t, res[2].Values)
	assert.Equal(t, `region "lake" not found`, res[3].Error)

	_, err = src.GetData(nil)
	assert.ErrorIs(t, err, ErrNoQueries)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	src, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 3, src.Len())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUnit(t *testing.T) {
	assert.Equal(t, "%", UnitPercent.String())
	assert.Equal(t, "ppm", UnitPPM.String())
	assert.Equal(t, 2.5, UnitPercent.Convert(2.5))
	assert.Equal(t, 25000.0, UnitPPM.Convert(2.5))
}
