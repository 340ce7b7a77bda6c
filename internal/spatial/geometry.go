package spatial

import (
	"math"

	"github.com/golang/geo/r2"
)

// boundaryEpsilon is the tolerance used when deciding whether a point lies on
// a polygon edge.
const boundaryEpsilon = 1e-9

// Point represents a planar coordinate on a floor plan.
// The unit (meters or pixels) is whatever the caller uses consistently.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) vec() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return a.vec().Sub(b.vec()).Norm()
}

// Bounds is an axis-aligned sampling region
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width returns the horizontal extent of the bounds
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the vertical extent of the bounds
func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// IsEmpty reports whether the bounds cover no area
func (b Bounds) IsEmpty() bool {
	return b.rect().IsEmpty() || b.Width() == 0 || b.Height() == 0
}

// Contains reports whether p lies inside or on the edge of the bounds
func (b Bounds) Contains(p Point) bool {
	return b.rect().ContainsPoint(p.vec())
}

func (b Bounds) rect() r2.Rect {
	if b.MinX > b.MaxX || b.MinY > b.MaxY {
		return r2.EmptyRect()
	}
	return r2.RectFromPoints(r2.Point{X: b.MinX, Y: b.MinY}, r2.Point{X: b.MaxX, Y: b.MaxY})
}

// Shape is a closed planar region that can answer containment queries.
// The set of shapes is fixed: Circle, Rectangle and Polygon.
type Shape interface {
	Contains(p Point) bool
	Kind() ShapeKind
	shape()
}

// ShapeKind names a Shape variant
type ShapeKind string

const (
	ShapeCircle    ShapeKind = "circle"
	ShapeRectangle ShapeKind = "rectangle"
	ShapePolygon   ShapeKind = "polygon"
)

// Circle is a disc around Center
type Circle struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// Rectangle is an axis-aligned box anchored at Origin
type Rectangle struct {
	Origin Point   `json:"origin"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Polygon is an ordered vertex ring; the closing edge is implicit.
type Polygon struct {
	Vertices []Point `json:"vertices"`
}

func (Circle) shape()    {}
func (Rectangle) shape() {}
func (Polygon) shape()   {}

func (Circle) Kind() ShapeKind    { return ShapeCircle }
func (Rectangle) Kind() ShapeKind { return ShapeRectangle }
func (Polygon) Kind() ShapeKind   { return ShapePolygon }

// Contains reports whether p is within Radius of the center (inclusive)
func (c Circle) Contains(p Point) bool {
	return PointInCircle(p, c.Center, c.Radius)
}

// Contains reports whether p lies inside or on the edge of the rectangle
func (r Rectangle) Contains(p Point) bool {
	return PointInRectangle(p, r.Origin, r.Width, r.Height)
}

// Contains reports whether p lies inside or on the boundary of the polygon
func (pg Polygon) Contains(p Point) bool {
	return PointInPolygon(p, pg.Vertices)
}

// PointInCircle checks distance(point, center) <= radius
func PointInCircle(point, center Point, radius float64) bool {
	return Distance(point, center) <= radius
}

// PointInRectangle checks an axis-aligned bounds test.
// Negative width or height extend the rectangle to the left or upwards.
func PointInRectangle(point, origin Point, width, height float64) bool {
	rect := r2.RectFromPoints(origin.vec(), r2.Point{X: origin.X + width, Y: origin.Y + height})
	return rect.ContainsPoint(point.vec())
}

// PointInPolygon checks if a point is inside a polygon using ray casting.
//
// Polygons with fewer than 3 vertices never contain anything. Points lying on
// an edge or a vertex count as inside, which keeps the result consistent with
// the inclusive circle and rectangle tests.
func PointInPolygon(point Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}
	if OnPolygonBoundary(point, polygon) {
		return true
	}

	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		vi, vj := polygon[i], polygon[j]
		if ((vi.Y > point.Y) != (vj.Y > point.Y)) &&
			(point.X < (vj.X-vi.X)*(point.Y-vi.Y)/(vj.Y-vi.Y)+vi.X) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// OnPolygonBoundary reports whether point lies on any edge of the ring
func OnPolygonBoundary(point Point, polygon []Point) bool {
	if len(polygon) < 2 {
		return false
	}
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		if onSegment(point, polygon[j], polygon[i]) {
			return true
		}
		j = i
	}
	return false
}

func onSegment(p, a, b Point) bool {
	ab := b.vec().Sub(a.vec())
	ap := p.vec().Sub(a.vec())

	scale := math.Max(1, ab.Norm())
	if math.Abs(ab.Cross(ap)) > boundaryEpsilon*scale {
		return false
	}

	dot := ap.Dot(ab)
	if dot < -boundaryEpsilon {
		return false
	}
	return dot <= ab.Dot(ab)+boundaryEpsilon
}

// PolygonArea calculates the area of a polygon with the shoelace formula
func PolygonArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}

	var sum float64
	for i := 0; i < len(points); i++ {
		j := (i + 1) % len(points)
		sum += points[i].vec().Cross(points[j].vec())
	}
	return math.Abs(sum) / 2.0
}

// ShapeArea returns the surface covered by a shape
func ShapeArea(s Shape) float64 {
	switch shape := s.(type) {
	case Circle:
		return math.Pi * shape.Radius * shape.Radius
	case Rectangle:
		return math.Abs(shape.Width * shape.Height)
	case Polygon:
		return PolygonArea(shape.Vertices)
	default:
		return 0
	}
}
