package plot

import "scatterview/internal/geom"

// DrawnPoint is one rendered marker, in world space.
type DrawnPoint struct {
	Group int
	Index int
	PMC   PMC
	Coord geom.Point
}

// FindNearest returns the point closest to pt among those whose coordinate
// falls inside the square of half size halfBox around pt. On equal distance
// the earlier point (group, then index order) wins.
func FindNearest(points []DrawnPoint, pt geom.Point, halfBox float64) (DrawnPoint, bool) {
	best := -1
	bestDist := 0.0
	for i, p := range points {
		if !geom.PointInBox(p.Coord, pt, halfBox) {
			continue
		}
		d := p.Coord.DistSq(pt)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return DrawnPoint{}, false
	}
	return points[best], true
}

// SelectInLasso returns the ids of all points inside the lasso polygon.
// Points without an id are skipped.
func SelectInLasso(points []DrawnPoint, lasso []geom.Point) PMCSet {
	out := PMCSet{}
	if len(lasso) < 3 {
		return out
	}
	bounds := geom.PolygonBounds(lasso)
	for _, p := range points {
		if p.PMC == NoPMC || !bounds.Contains(p.Coord) {
			continue
		}
		if geom.PointInPolygon(p.Coord, lasso) {
			out[p.PMC] = struct{}{}
		}
	}
	return out
}
