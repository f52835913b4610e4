package vmath

import "math"

// Point is an arena position in world units
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p + q
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p multiplied by factor
func (p Point) Scale(factor float64) Point { return Point{X: p.X * factor, Y: p.Y * factor} }

// Magnitude returns vector length
func Magnitude(x, y float64) float64 {
	return math.Hypot(x, y)
}

// MagnitudeSq returns squared magnitude without sqrt
func MagnitudeSq(x, y float64) float64 {
	return x*x + y*y
}

// Distance returns euclidean distance between two points
func Distance(a, b Point) float64 {
	return Magnitude(b.X-a.X, b.Y-a.Y)
}

// DistanceSq returns squared distance between two points
func DistanceSq(a, b Point) float64 {
	return MagnitudeSq(b.X-a.X, b.Y-a.Y)
}

// UnitVector returns the unit vector for a heading in degrees, measured from +X
func UnitVector(headingDeg float64) Point {
	rad := headingDeg * math.Pi / 180
	return Point{X: math.Cos(rad), Y: math.Sin(rad)}
}

// PointAlongHeading returns the point at distance from source along heading (degrees)
func PointAlongHeading(source Point, headingDeg, distance float64) Point {
	return source.Add(UnitVector(headingDeg).Scale(distance))
}

// Clamp limits v to [lo, hi]
func Clamp[T int | int32 | int64 | float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
