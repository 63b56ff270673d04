package tui

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"scatterview/internal/binary"
	"scatterview/internal/dataset"
	"scatterview/internal/geom"
	"scatterview/internal/plot"
	"scatterview/internal/ternary"
	"scatterview/internal/variogram"
)

// regionStyle picks the color and marker of the i-th visible region.
func regionStyle(i int) (color.RGBA, plot.MarkerShape) {
	return plot.GroupColors[i%len(plot.GroupColors)], plot.MarkerShape(i % 4)
}

// regionQueries asks for every expression over every region, region major.
func regionQueries(exprs, regions []string, unit dataset.Unit) []dataset.Query {
	qs := make([]dataset.Query, 0, len(exprs)*len(regions))
	for _, r := range regions {
		for _, e := range exprs {
			qs = append(qs, dataset.Query{ExprID: e, RegionID: r, Unit: unit})
		}
	}
	return qs
}

func axisText(expr string, unit dataset.Unit) string {
	return fmt.Sprintf("%s (%s)", expr, unit)
}

// collectErrors copies the first error of each expression into msgs and
// reports whether any of res failed.
func collectErrors(res []dataset.RegionResult, msgs []string) bool {
	failed := false
	for j, r := range res {
		if r.Error == "" {
			continue
		}
		failed = true
		if msgs[j] == "" {
			msgs[j] = r.Error
		}
	}
	return failed
}

func buildTernary(src dataset.Source, exprs [3]string, regions []string, unit dataset.Unit) (ternary.RawData, error) {
	var raw ternary.RawData
	for j := range raw.Corners {
		raw.Corners[j].Label = exprs[j]
	}
	res, err := src.GetData(regionQueries(exprs[:], regions, unit))
	if err != nil {
		return raw, err
	}
	msgs := make([]string, 3)
	for i, region := range regions {
		r := res[i*3 : i*3+3]
		if collectErrors(r, msgs) {
			continue
		}
		c, shape := regionStyle(i)
		if err := ternary.BuildGroup(&raw, region, c, shape, r[0].Values, r[1].Values, r[2].Values); err != nil {
			return raw, err
		}
	}
	for j := range raw.Corners {
		raw.Corners[j].ErrorMsg = msgs[j]
	}
	return raw, nil
}

func buildBinary(src dataset.Source, exprs [2]string, regions []string, unit dataset.Unit) (binary.RawData, error) {
	raw := binary.RawData{
		X: binary.Axis{Label: axisText(exprs[0], unit)},
		Y: binary.Axis{Label: axisText(exprs[1], unit)},
	}
	res, err := src.GetData(regionQueries(exprs[:], regions, unit))
	if err != nil {
		return raw, err
	}
	msgs := make([]string, 2)
	for i, region := range regions {
		r := res[i*2 : i*2+2]
		if collectErrors(r, msgs) {
			continue
		}
		c, shape := regionStyle(i)
		if err := binary.BuildGroup(&raw, region, c, shape, r[0].Values, r[1].Values); err != nil {
			return raw, err
		}
	}
	raw.X.ErrorMsg, raw.Y.ErrorMsg = msgs[0], msgs[1]
	return raw, nil
}

// variogramInput is what buildVariogram needs besides the source.
type variogramInput struct {
	Expr string
	// Expr2 is the second expression of a cross-variogram, empty otherwise.
	Expr2     string
	Regions   []string
	Unit      dataset.Unit
	Positions map[plot.PMC]geom.Point
	Options   variogram.BinOptions
	BestFit   bool
}

func buildVariogram(src dataset.Source, in variogramInput) (variogram.RawData, error) {
	exprs := []string{in.Expr}
	label := in.Expr
	opt := in.Options
	opt.Cross = in.Expr2 != ""
	if opt.Cross {
		exprs = append(exprs, in.Expr2)
		label = in.Expr + " x " + in.Expr2
	}
	raw := variogram.RawData{
		Label:       axisText(label, in.Unit),
		MaxDistance: opt.MaxDistance,
		BestFit:     in.BestFit,
	}
	res, err := src.GetData(regionQueries(exprs, in.Regions, in.Unit))
	if err != nil {
		return raw, err
	}
	n := len(exprs)
	msgs := make([]string, n)
	for i, region := range in.Regions {
		r := res[i*n : i*n+n]
		if collectErrors(r, msgs) {
			continue
		}
		var values2 []plot.Value
		if opt.Cross {
			values2 = r[1].Values
		}
		samples, err := variogram.Samples(in.Positions, r[0].Values, values2)
		if err != nil {
			return raw, fmt.Errorf("region %q: %w", region, err)
		}
		if len(samples) < 2 {
			continue
		}
		c, shape := regionStyle(i)
		err = variogram.BuildGroup(&raw, region, c, shape, samples, opt)
		if errors.Is(err, plot.ErrDegenerate) {
			slog.Warn("skipping variogram region", "region", region, "err", err)
			continue
		}
		if err != nil {
			return raw, err
		}
	}
	for _, m := range msgs {
		if m != "" {
			raw.ErrorMsg = m
			break
		}
	}
	return raw, nil
}
