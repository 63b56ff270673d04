package geom

import "math"

// Point is a 2D coordinate in canvas or world space.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(o Point) Point     { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point     { return Point{p.X - o.X, p.Y - o.Y} }
func (p Point) Mul(o Point) Point     { return Point{p.X * o.X, p.Y * o.Y} }
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) Dist(o Point) float64  { return math.Sqrt(p.DistSq(o)) }
func (p Point) IsFinite() bool        { return isFinite(p.X) && isFinite(p.Y) }

// DistSq returns the squared distance between p and o.
func (p Point) DistSq(o Point) float64 {
	dx, dy := p.X-o.X, p.Y-o.Y
	return dx*dx + dy*dy
}

// Near reports whether p and o differ by at most tol on each axis.
func (p Point) Near(o Point, tol float64) bool {
	return math.Abs(p.X-o.X) <= tol && math.Abs(p.Y-o.Y) <= tol
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Rect is an axis aligned rectangle with its origin at the top-left.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

func (r Rect) MaxX() float64  { return r.X + r.W }
func (r Rect) MaxY() float64  { return r.Y + r.H }
func (r Rect) Center() Point  { return Point{r.X + r.W/2, r.Y + r.H/2} }
func (r Rect) Empty() bool    { return r.W <= 0 || r.H <= 0 }
func (r Rect) TopLeft() Point { return Point{r.X, r.Y} }

// Contains reports whether pt lies inside r, edges included.
func (r Rect) Contains(pt Point) bool {
	return pt.X >= r.X && pt.X <= r.MaxX() && pt.Y >= r.Y && pt.Y <= r.MaxY()
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.MaxX() && o.X <= r.MaxX() && r.Y <= o.MaxY() && o.Y <= r.MaxY()
}

// Inflate grows r by dx on the left and right and dy on the top and bottom.
func (r Rect) Inflate(dx, dy float64) Rect {
	return Rect{r.X - dx, r.Y - dy, r.W + 2*dx, r.H + 2*dy}
}

// ExpandToFitPoints grows r so every point in pts is contained.
func (r Rect) ExpandToFitPoints(pts ...Point) Rect {
	minX, minY, maxX, maxY := r.X, r.Y, r.MaxX(), r.MaxY()
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// ExpandToFitRect grows r to also cover o.
func (r Rect) ExpandToFitRect(o Rect) Rect {
	return r.ExpandToFitPoints(o.TopLeft(), Point{o.MaxX(), o.MaxY()})
}

// RectFromPoints returns the bounding box of pts. ok is false if pts is empty.
func RectFromPoints(pts []Point) (Rect, bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	r := Rect{X: pts[0].X, Y: pts[0].Y}
	return r.ExpandToFitPoints(pts[1:]...), true
}

// MinMax is a running range accumulator. Either edge stays unset until the
// first value is added.
type MinMax struct {
	Min    float64
	Max    float64
	hasMin bool
	hasMax bool
}

// NewMinMax returns a range with both edges set.
func NewMinMax(min, max float64) MinMax {
	return MinMax{Min: min, Max: max, hasMin: true, hasMax: true}
}

// IsValid reports whether both edges are set and Min <= Max.
func (m MinMax) IsValid() bool { return m.hasMin && m.hasMax && m.Min <= m.Max }

func (m MinMax) HasMin() bool { return m.hasMin }
func (m MinMax) HasMax() bool { return m.hasMax }

// Range returns Max-Min, or 0 when unset.
func (m MinMax) Range() float64 {
	if !m.IsValid() {
		return 0
	}
	return m.Max - m.Min
}

// Expand grows m to include v. NaN and infinite values are ignored.
func (m *MinMax) Expand(v float64) {
	if !isFinite(v) {
		return
	}
	if !m.hasMin || v < m.Min {
		m.Min, m.hasMin = v, true
	}
	if !m.hasMax || v > m.Max {
		m.Max, m.hasMax = v, true
	}
}

// ExpandByMinMax grows m to include whatever edges of o are set.
func (m *MinMax) ExpandByMinMax(o MinMax) {
	if o.hasMin {
		m.Expand(o.Min)
	}
	if o.hasMax {
		m.Expand(o.Max)
	}
}

// GetAsPercentageOfRange maps v into [0,1] relative to m. A zero-width range
// maps everything to 0. With clamp set the result is kept inside [0,1].
func (m MinMax) GetAsPercentageOfRange(v float64, clamp bool) float64 {
	r := m.Range()
	if r == 0 {
		return 0
	}
	pct := (v - m.Min) / r
	if clamp {
		pct = math.Max(0, math.Min(1, pct))
	}
	return pct
}
