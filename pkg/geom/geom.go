// Package geom holds the small geometry helpers shared by the grid puzzles.
package geom

// Point is an integer grid position.
type Point struct {
	X int
	Y int
}

// Manhattan returns the Manhattan distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// FloatEq reports whether a and b are equal within 1e-4.
func FloatEq(a, b float64) bool {
	return FloatEqEps(a, b, 0.0001)
}

// FloatEqEps reports whether a and b are equal within eps.
func FloatEqEps(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

// BresenhamLine rasterizes the line from (x1,y1) to (x2,y2) inclusive.
// Steep lines are walked along y, and endpoints may be swapped internally,
// so the returned points are not necessarily ordered from (x1,y1).
func BresenhamLine(x1, y1, x2, y2 int) []Point {
	absx := abs(x2 - x1)
	absy := abs(y2 - y1)

	steep := absy > absx
	if steep {
		x1, y1 = y1, x1
		x2, y2 = y2, x2
	}
	if x1 > x2 {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
	}

	deltax := x2 - x1
	deltay := abs(y2 - y1)
	ystep := -1
	if y1 < y2 {
		ystep = 1
	}

	result := make([]Point, 0, deltax+1)
	errAcc := 0
	y := y1
	for x := x1; x <= x2; x++ {
		if steep {
			result = append(result, Point{X: y, Y: x})
		} else {
			result = append(result, Point{X: x, Y: y})
		}

		errAcc += deltay
		if 2*errAcc >= deltax {
			y += ystep
			errAcc -= deltax
		}
	}
	return result
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
