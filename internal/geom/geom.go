package geom

import (
	"errors"
	"math"
)

// ErrSingular is returned when inverting a matrix with a zero determinant.
var ErrSingular = errors.New("matrix is not invertible")

// Matrix is an affine 2D transform stored as [A B C D E F], mapping
// (x, y) to (A*x + C*y + E, B*x + D*y + F). Pan/zoom only ever produces
// the [sx 0 0 sy px py] form.
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix { return Matrix{A: 1, D: 1} }

// ScaleTranslate builds [scale.X 0 0 scale.Y pan.X pan.Y].
func ScaleTranslate(scale, pan Point) Matrix {
	return Matrix{A: scale.X, D: scale.Y, E: pan.X, F: pan.Y}
}

// Apply transforms pt.
func (m Matrix) Apply(pt Point) Point {
	return Point{
		X: m.A*pt.X + m.C*pt.Y + m.E,
		Y: m.B*pt.X + m.D*pt.Y + m.F,
	}
}

// Mul returns m*o, the transform that applies o first and then m.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		A: m.A*o.A + m.C*o.B,
		B: m.B*o.A + m.D*o.B,
		C: m.A*o.C + m.C*o.D,
		D: m.B*o.C + m.D*o.D,
		E: m.A*o.E + m.C*o.F + m.E,
		F: m.B*o.E + m.D*o.F + m.F,
	}
}

// Inverse returns the inverse transform.
func (m Matrix) Inverse() (Matrix, error) {
	det := m.A*m.D - m.B*m.C
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Matrix{}, ErrSingular
	}
	inv := 1 / det
	return Matrix{
		A: m.D * inv,
		B: -m.B * inv,
		C: -m.C * inv,
		D: m.A * inv,
		E: (m.C*m.F - m.D*m.E) * inv,
		F: (m.B*m.E - m.A*m.F) * inv,
	}, nil
}

// ScaleFactor returns the x and y scale of m, ignoring any shear.
func (m Matrix) ScaleFactor() Point {
	return Point{math.Hypot(m.A, m.B), math.Hypot(m.C, m.D)}
}

// PointInPolygon reports whether pt is inside poly using the even-odd rule.
// Edges are treated half-open (lower endpoint included, upper excluded) so a
// point on a shared boundary resolves the same way on every call.
// Polygons with fewer than 3 vertices contain nothing.
func PointInPolygon(pt Point, poly []Point) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > pt.Y) == (b.Y > pt.Y) {
			continue
		}
		x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if pt.X < x {
			inside = !inside
		}
	}
	return inside
}

// PolygonBounds returns the bounding box of poly.
func PolygonBounds(poly []Point) Rect {
	r, _ := RectFromPoints(poly)
	return r
}

// PointInBox reports whether pt lies in the square of the given half size
// centered on center.
func PointInBox(pt, center Point, halfSize float64) bool {
	return math.Abs(pt.X-center.X) <= halfSize && math.Abs(pt.Y-center.Y) <= halfSize
}

// RectPolygon returns the corners of r in clockwise screen order.
func RectPolygon(r Rect) []Point {
	return []Point{
		{r.X, r.Y},
		{r.MaxX(), r.Y},
		{r.MaxX(), r.MaxY()},
		{r.X, r.MaxY()},
	}
}

// ClipSegment clips the segment a-b to r using Liang-Barsky. The slope of
// the returned segment is that of a-b. ok is false when no part of the
// segment lies in r or an endpoint is not finite.
func ClipSegment(a, b Point, r Rect) (Point, Point, bool) {
	if !a.IsFinite() || !b.IsFinite() {
		return a, b, false
	}
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-d.X, a.X - r.X},
		{d.X, r.MaxX() - a.X},
		{-d.Y, a.Y - r.Y},
		{d.Y, r.MaxY() - a.Y},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return a.Add(d.Scale(t0)), a.Add(d.Scale(t1)), true
}
