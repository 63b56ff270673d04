// Package dataset provides the data source that plots query for per-region
// expression values.
package dataset

import (
	"errors"

	"scatterview/internal/plot"
)

// AllPoints is the implicit region holding every sample.
const AllPoints = "AllPoints"

var ErrNoQueries = errors.New("dataset: no queries")

// Unit selects how values are scaled. Stored values are weight percent.
type Unit int

const (
	UnitPercent Unit = iota
	UnitPPM
)

func (u Unit) String() string {
	if u == UnitPPM {
		return "ppm"
	}
	return "%"
}

// Convert scales a stored value into u.
func (u Unit) Convert(v float64) float64 {
	if u == UnitPPM {
		return v * 10000
	}
	return v
}

// Query asks for one expression over one region.
type Query struct {
	ExprID   string
	RegionID string
	Unit     Unit
}

// RegionResult holds the values for one query, ordered by point id. Error
// is set instead of Values when the query cannot be answered.
type RegionResult struct {
	Query  Query
	Values []plot.Value
	Error  string
}

// Results is index aligned with the queries that produced it.
type Results []RegionResult

// Source is the data source contract plots are fed from.
type Source interface {
	GetData(queries []Query) (Results, error)
	Expressions() []string
	Regions() []string
}
