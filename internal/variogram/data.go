// Package variogram implements the variogram plot: the semivariance of an
// expression between sample pairs, binned by the distance separating them.
package variogram

import (
	"fmt"
	"image/color"
	"math"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

const (
	LabelX plot.LabelID = "X"
	LabelY plot.LabelID = "Y"
)

// Sample is one measured location. Value2 is only used for
// cross-variograms.
type Sample struct {
	PMC      plot.PMC
	Position geom.Point
	Value    float64
	Value2   float64
}

// Bin is one distance class.
type Bin struct {
	// Distance is the mean separation of the pairs in the bin.
	Distance     float64
	Semivariance float64
	Count        int
}

// BinOptions control ComputeBins.
type BinOptions struct {
	// MaxDistance drops pairs further apart. Zero means the largest pair
	// separation.
	MaxDistance float64
	Bins        int
	// Cross computes the cross-variogram of Value and Value2.
	Cross bool
}

// ComputeBins sorts every sample pair into equal width distance bins and
// returns the non-empty bins in distance order.
func ComputeBins(samples []Sample, opt BinOptions) ([]Bin, error) {
	if opt.Bins <= 0 {
		return nil, fmt.Errorf("bin count %d: %w", opt.Bins, plot.ErrDegenerate)
	}
	maxDist := opt.MaxDistance
	if maxDist <= 0 {
		for i := range samples {
			for j := i + 1; j < len(samples); j++ {
				maxDist = math.Max(maxDist, samples[i].Position.Dist(samples[j].Position))
			}
		}
	}
	if maxDist <= 0 {
		return nil, fmt.Errorf("%d samples span no distance: %w", len(samples), plot.ErrDegenerate)
	}

	width := maxDist / float64(opt.Bins)
	sumD := make([]float64, opt.Bins)
	sumG := make([]float64, opt.Bins)
	count := make([]int, opt.Bins)
	for i := range samples {
		a := samples[i]
		for j := i + 1; j < len(samples); j++ {
			b := samples[j]
			d := a.Position.Dist(b.Position)
			if d > maxDist {
				continue
			}
			k := min(int(d/width), opt.Bins-1)
			diff := a.Value - b.Value
			g := diff * diff
			if opt.Cross {
				g = diff * (a.Value2 - b.Value2)
			}
			sumD[k] += d
			sumG[k] += g
			count[k]++
		}
	}

	var out []Bin
	for k := range count {
		if count[k] == 0 {
			continue
		}
		n := float64(count[k])
		out = append(out, Bin{Distance: sumD[k] / n, Semivariance: sumG[k] / (2 * n), Count: count[k]})
	}
	return out, nil
}

// Samples joins one region's values with the sample positions. Points with
// null values or no known position are dropped. values2 may be nil.
func Samples(positions map[plot.PMC]geom.Point, values, values2 []plot.Value) ([]Sample, error) {
	if values2 != nil && len(values2) != len(values) {
		return nil, fmt.Errorf("value lengths %d/%d: %w", len(values), len(values2), plot.ErrMisaligned)
	}
	out := make([]Sample, 0, len(values))
	for i, v := range values {
		s := Sample{PMC: v.PMC, Value: v.Value}
		null := v.IsNull
		if values2 != nil {
			if values2[i].PMC != v.PMC {
				return nil, fmt.Errorf("index %d: point ids %d/%d: %w", i, v.PMC, values2[i].PMC, plot.ErrMisaligned)
			}
			s.Value2 = values2[i].Value
			null = null || values2[i].IsNull
		}
		pos, ok := positions[v.PMC]
		if null || !ok || !pos.IsFinite() {
			continue
		}
		s.Position = pos
		out = append(out, s)
	}
	return out, nil
}

// Group is one region's bins, drawn with one style.
type Group struct {
	RegionID string
	Color    color.RGBA
	Shape    plot.MarkerShape
	Bins     []Bin
}

// RawData is everything the variogram plot draws.
type RawData struct {
	// Label names the expression (or expression pair) on the Y axis.
	Label    string
	ErrorMsg string

	// MaxDistance sets the X axis span; zero fits the bins.
	MaxDistance float64
	Groups      []Group
	BestFit     bool
}

// BuildGroup bins the samples of one region and appends the group.
func BuildGroup(raw *RawData, regionID string, c color.RGBA, shape plot.MarkerShape, samples []Sample, opt BinOptions) error {
	bins, err := ComputeBins(samples, opt)
	if err != nil {
		return fmt.Errorf("region %q: %w", regionID, err)
	}
	raw.Groups = append(raw.Groups, Group{RegionID: regionID, Color: c, Shape: shape, Bins: bins})
	return nil
}
