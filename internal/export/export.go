// Package export writes the data behind a plot as CSV and its current frame
// as a PNG image.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"scatterview/internal/binary"
	"scatterview/internal/plot"
	"scatterview/internal/render"
	"scatterview/internal/ternary"
	"scatterview/internal/variogram"
)

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func nullable(v float64, null bool) string {
	if null {
		return ""
	}
	return formatFloat(v)
}

func writeAll(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// TernaryCSV writes one row per point with its three corner values. Null
// components are written as empty cells.
func TernaryCSV(w io.Writer, raw ternary.RawData) error {
	header := []string{"region", "pmc"}
	for _, c := range raw.Corners {
		header = append(header, c.Label)
	}
	var rows [][]string
	for _, g := range raw.Groups {
		for _, p := range g.Points {
			rows = append(rows, []string{
				g.RegionID,
				strconv.Itoa(int(p.PMC)),
				nullable(p.A, p.NullMask&ternary.NullA != 0),
				nullable(p.B, p.NullMask&ternary.NullB != 0),
				nullable(p.C, p.NullMask&ternary.NullC != 0),
			})
		}
	}
	return writeAll(w, header, rows)
}

// BinaryCSV writes one row per point with its X and Y values.
func BinaryCSV(w io.Writer, raw binary.RawData) error {
	header := []string{"region", "pmc", raw.X.Label, raw.Y.Label}
	var rows [][]string
	for _, g := range raw.Groups {
		for _, p := range g.Points {
			rows = append(rows, []string{
				g.RegionID,
				strconv.Itoa(int(p.PMC)),
				nullable(p.X, p.NullMask&binary.NullX != 0),
				nullable(p.Y, p.NullMask&binary.NullY != 0),
			})
		}
	}
	return writeAll(w, header, rows)
}

// VariogramCSV writes one row per distance bin.
func VariogramCSV(w io.Writer, raw variogram.RawData) error {
	header := []string{"region", "distance", "semivariance", "pairs"}
	var rows [][]string
	for _, g := range raw.Groups {
		for _, b := range g.Bins {
			rows = append(rows, []string{
				g.RegionID,
				formatFloat(b.Distance),
				formatFloat(b.Semivariance),
				strconv.Itoa(b.Count),
			})
		}
	}
	return writeAll(w, header, rows)
}

// PNG renders one frame of d into a raster image of the viewport's size.
func PNG(w io.Writer, d plot.Drawer, p plot.DrawParams) error {
	if p.Viewport.Empty() {
		return plot.ErrNoViewport
	}
	im := render.NewImage(int(p.Viewport.Width), int(p.Viewport.Height))
	d.Draw(im, p)
	return im.WritePNG(w)
}
