package geom

import "math"

// Point is an integer tile coordinate.
type Point struct {
	X, Y int
}

func (p Point) Add(dx, dy int) Point { return Point{p.X + dx, p.Y + dy} }

// Rect is an axis-aligned rectangle. X2/Y2 are exclusive for iteration
// but inclusive for Intersect.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// NewRect builds a rect from origin and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

func (r Rect) Width() int  { return r.X2 - r.X1 }
func (r Rect) Height() int { return r.Y2 - r.Y1 }
func (r Rect) Area() int   { return r.Width() * r.Height() }

// Intersect reports whether r and o touch or overlap.
func (r Rect) Intersect(o Rect) bool {
	return r.X1 <= o.X2 && r.X2 >= o.X1 && r.Y1 <= o.Y2 && r.Y2 >= o.Y1
}

func (r Rect) Center() Point {
	return Point{(r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2}
}

// Expand grows the rect by n tiles on every side.
func (r Rect) Expand(n int) Rect {
	return Rect{X1: r.X1 - n, Y1: r.Y1 - n, X2: r.X2 + n, Y2: r.Y2 + n}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X1 && p.X < r.X2 && p.Y >= r.Y1 && p.Y < r.Y2
}

// Distance2D is the pythagorean distance between two points.
func Distance2D(a, b Point) float64 {
	return math.Sqrt(float64(Distance2DSquared(a, b)))
}

func Distance2DSquared(a, b Point) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Chebyshev is the king-move distance.
func Chebyshev(a, b Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
