package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"scatterview/internal/geom"
	"scatterview/internal/plot"
)

var (
	ErrEmpty          = errors.New("csv: empty")
	ErrMissingColumns = errors.New("csv: pmc, region, x and y columns required")
	ErrNoRows         = errors.New("csv: no valid rows parsed")
)

// Sample is one row of a dataset.
type Sample struct {
	PMC      plot.PMC
	Regions  []string
	Position geom.Point
	// Values holds the defined expression values; missing keys are null.
	Values map[string]float64
}

// CSVSource serves queries from a CSV of samples with the columns
// pmc, region, x, y followed by one column per expression. The region
// column lists region ids separated by ';'. Every sample also belongs to
// AllPoints.
type CSVSource struct {
	exprs   []string
	regions []string
	samples []Sample
	byPMC   map[plot.PMC]int
}

// LoadCSV reads a dataset file.
func LoadCSV(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV reads a dataset. Rows with an unparseable pmc are skipped.
// Expression cells that are empty or not numbers are null.
func ParseCSV(r io.Reader) (*CSVSource, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrEmpty
	}

	idxPMC, idxRegion, idxX, idxY := -1, -1, -1, -1
	var exprCols []int
	src := &CSVSource{byPMC: make(map[plot.PMC]int)}
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "pmc", "id":
			idxPMC = i
		case "region", "regions", "roi":
			idxRegion = i
		case "x":
			idxX = i
		case "y":
			idxY = i
		default:
			exprCols = append(exprCols, i)
			src.exprs = append(src.exprs, strings.TrimSpace(h))
		}
	}
	if idxPMC == -1 || idxRegion == -1 || idxX == -1 || idxY == -1 {
		return nil, ErrMissingColumns
	}

	seenRegion := map[string]bool{AllPoints: true}
	src.regions = []string{AllPoints}
	skipped := 0
	for _, row := range recs[1:] {
		cell := func(i int) string {
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		id, err := strconv.ParseInt(cell(idxPMC), 10, 32)
		if err != nil || id < 0 {
			skipped++
			continue
		}
		if _, dup := src.byPMC[plot.PMC(id)]; dup {
			skipped++
			continue
		}
		s := Sample{PMC: plot.PMC(id), Values: make(map[string]float64)}
		x, errX := strconv.ParseFloat(cell(idxX), 64)
		y, errY := strconv.ParseFloat(cell(idxY), 64)
		if errX == nil && errY == nil {
			s.Position = geom.Pt(x, y)
		} else {
			s.Position = geom.Pt(math.NaN(), math.NaN())
		}
		for _, reg := range strings.Split(cell(idxRegion), ";") {
			reg = strings.TrimSpace(reg)
			if reg == "" || reg == AllPoints {
				continue
			}
			s.Regions = append(s.Regions, reg)
			if !seenRegion[reg] {
				seenRegion[reg] = true
				src.regions = append(src.regions, reg)
			}
		}
		for j, col := range exprCols {
			v, err := strconv.ParseFloat(cell(col), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			s.Values[src.exprs[j]] = v
		}
		src.samples = append(src.samples, s)
	}
	if len(src.samples) == 0 {
		return nil, ErrNoRows
	}
	if skipped > 0 {
		slog.Warn("csv rows skipped", "count", skipped)
	}

	sort.Slice(src.samples, func(i, j int) bool { return src.samples[i].PMC < src.samples[j].PMC })
	for i, s := range src.samples {
		src.byPMC[s.PMC] = i
	}
	return src, nil
}

// Expressions returns the expression ids in column order.
func (c *CSVSource) Expressions() []string { return c.exprs }

// Regions returns the region ids, AllPoints first, then in order of first
// appearance.
func (c *CSVSource) Regions() []string { return c.regions }

func (c *CSVSource) Len() int { return len(c.samples) }

// Lookup returns the sample with the given id.
func (c *CSVSource) Lookup(id plot.PMC) (Sample, bool) {
	i, ok := c.byPMC[id]
	if !ok {
		return Sample{}, false
	}
	return c.samples[i], true
}

// Positions returns the sample positions that are known.
func (c *CSVSource) Positions() map[plot.PMC]geom.Point {
	out := make(map[plot.PMC]geom.Point, len(c.samples))
	for _, s := range c.samples {
		if s.Position.IsFinite() {
			out[s.PMC] = s.Position
		}
	}
	return out
}

func (c *CSVSource) hasExpr(id string) bool {
	for _, e := range c.exprs {
		if e == id {
			return true
		}
	}
	return false
}

func (c *CSVSource) hasRegion(id string) bool {
	for _, r := range c.regions {
		if r == id {
			return true
		}
	}
	return false
}

func (s Sample) inRegion(id string) bool {
	if id == AllPoints {
		return true
	}
	for _, r := range s.Regions {
		if r == id {
			return true
		}
	}
	return false
}

// GetData answers every query. A missing expression or region is reported
// in that query's result, not as an error, so the other queries still
// produce data.
func (c *CSVSource) GetData(queries []Query) (Results, error) {
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}
	out := make(Results, len(queries))
	for i, q := range queries {
		res := RegionResult{Query: q}
		switch {
		case !c.hasExpr(q.ExprID):
			res.Error = fmt.Sprintf("expression %q not found", q.ExprID)
		case !c.hasRegion(q.RegionID):
			res.Error = fmt.Sprintf("region %q not found", q.RegionID)
		default:
			for _, s := range c.samples {
				if !s.inRegion(q.RegionID) {
					continue
				}
				v, ok := s.Values[q.ExprID]
				res.Values = append(res.Values, plot.Value{PMC: s.PMC, Value: q.Unit.Convert(v), IsNull: !ok})
			}
		}
		out[i] = res
	}
	return out, nil
}
