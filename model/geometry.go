package model

import "math"

// Point is a position in PDF user space.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance to other.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// BBox is an axis-aligned rectangle in PDF user space. Y is the bottom
// edge; the Y axis points up.
type BBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewBBox builds a box from its bottom-left corner and extent.
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromPoints builds the box spanned by two opposite corners, in any
// order.
func NewBBoxFromPoints(p1, p2 Point) BBox {
	return BBox{
		X:      math.Min(p1.X, p2.X),
		Y:      math.Min(p1.Y, p2.Y),
		Width:  math.Abs(p2.X - p1.X),
		Height: math.Abs(p2.Y - p1.Y),
	}
}

func (b BBox) Left() float64   { return b.X }
func (b BBox) Right() float64  { return b.X + b.Width }
func (b BBox) Bottom() float64 { return b.Y }
func (b BBox) Top() float64    { return b.Y + b.Height }

// Center returns the box's midpoint.
func (b BBox) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Contains reports whether p lies inside the box, edges included.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Bottom() && p.Y <= b.Top()
}

// Intersects reports whether the two boxes overlap, touching counts.
func (b BBox) Intersects(other BBox) bool {
	return b.Left() <= other.Right() && other.Left() <= b.Right() &&
		b.Bottom() <= other.Top() && other.Bottom() <= b.Top()
}

// Union returns the smallest box covering both.
func (b BBox) Union(other BBox) BBox {
	left := math.Min(b.Left(), other.Left())
	bottom := math.Min(b.Bottom(), other.Bottom())
	return BBox{
		X:      left,
		Y:      bottom,
		Width:  math.Max(b.Right(), other.Right()) - left,
		Height: math.Max(b.Top(), other.Top()) - bottom,
	}
}

// Area returns the box's area.
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IsEmpty reports whether the box covers no area.
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Matrix is a 2D affine transform in the PDF row-vector convention:
// [a b c d e f] maps (x, y) to (a*x+c*y+e, b*x+d*y+f).
type Matrix [6]float64

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale returns a scaling by (sx, sy).
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Transform applies the matrix to a point.
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply returns m followed by other: a row vector transformed by the
// result sees m first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// ScaleFactor returns the magnification the matrix applies along the X
// axis, which is how rendered font sizes fall out of the text matrix.
func (m Matrix) ScaleFactor() float64 {
	return math.Hypot(m[0], m[1])
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}
