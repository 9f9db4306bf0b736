package vraster

import "math"

// Star returns 2n points alternating between the outer and inner radius,
// starting on the outer radius at angle -pi/2 (straight up in the y-down
// canvas convention) and stepping clockwise by pi/n per point, per the
// scripting surface's star(cx,cy,rOut,rIn,n) contract. Pass the result to
// Path.Poly(pts, true) to record it as a closed subpath. Returns nil for
// n < 2, since a star needs at least two points per radius.
func Star(cx, cy, rOut, rIn float64, n int) []Point {
	if n < 2 {
		return nil
	}
	pts := make([]Point, 2*n)
	step := math.Pi / float64(n)
	for i := 0; i < 2*n; i++ {
		r := rOut
		if i%2 == 1 {
			r = rIn
		}
		angle := -math.Pi/2 + float64(i)*step
		pts[i] = Point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}
