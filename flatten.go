package vraster

import "math"

// DefaultFlattenTolerance is the default flatness tolerance in device
// pixels used when callers don't specify one.
const DefaultFlattenTolerance = 0.35

// maxSubdivisionDepth bounds the adaptive curve subdivision recursion.
const maxSubdivisionDepth = 10

// closureEpsilon is the distance under which two points are considered
// coincident when deciding whether a subpath is already closed.
const closureEpsilon = 1e-4

// Flatten walks a recorded command list and produces one closed-or-open
// polyline per subpath, with the accumulated transform applied to every
// emitted vertex. moveTo starts a new subpath; close appends the
// subpath's first point if it isn't already coincident with the last.
//
// Degenerate curves that hit the recursion depth limit emit their
// endpoint and continue rather than failing the whole flatten — this is
// the InvalidGeometry policy: continue, don't abort.
func Flatten(elements []PathElement, t Matrix, tolerance float64) [][]Point {
	if tolerance <= 0 {
		tolerance = DefaultFlattenTolerance
	}

	var result [][]Point
	var sub []Point
	var rawStart, rawCur Point
	haveSub := false

	flushSub := func() {
		if haveSub && len(sub) > 0 {
			result = append(result, sub)
		}
		sub = nil
		haveSub = false
	}

	emit := func(p Point) {
		sub = append(sub, t.TransformPoint(p))
	}

	for _, el := range elements {
		switch e := el.(type) {
		case MoveToElem:
			flushSub()
			sub = make([]Point, 0, 8)
			haveSub = true
			rawStart, rawCur = e.P, e.P
			emit(e.P)
		case LineToElem:
			if !haveSub {
				sub = make([]Point, 0, 8)
				haveSub = true
				rawStart = rawCur
				emit(rawCur)
			}
			emit(e.P)
			rawCur = e.P
		case QuadToElem:
			if !haveSub {
				sub = make([]Point, 0, 8)
				haveSub = true
				rawStart = rawCur
				emit(rawCur)
			}
			pts := flattenQuad(rawCur, e.C, e.P, tolerance, 0)
			for _, p := range pts {
				emit(p)
			}
			rawCur = e.P
		case CubicToElem:
			if !haveSub {
				sub = make([]Point, 0, 8)
				haveSub = true
				rawStart = rawCur
				emit(rawCur)
			}
			pts := flattenCubic(rawCur, e.C1, e.C2, e.P, tolerance, 0)
			for _, p := range pts {
				emit(p)
			}
			rawCur = e.P
		case ArcToElem:
			if !haveSub {
				sub = make([]Point, 0, 8)
				haveSub = true
				rawStart = rawCur
				emit(rawCur)
			}
			pts := arcPoints(e.Center, e.R, e.Theta0, e.Theta1, e.SegHint)
			for _, p := range pts {
				emit(p)
			}
			rawCur = Pt(e.Center.X+e.R*math.Cos(e.Theta1), e.Center.Y+e.R*math.Sin(e.Theta1))
		case EllipseElem:
			if !haveSub {
				sub = make([]Point, 0, 8)
				haveSub = true
				rawStart = rawCur
			}
			pts := ellipsePoints(e.Center, e.RX, e.RY, e.Rot, e.SegCount)
			for _, p := range pts {
				emit(p)
			}
			if len(pts) > 0 {
				rawCur = pts[len(pts)-1]
			}
		case CloseElem:
			if haveSub && len(sub) > 0 {
				last := sub[len(sub)-1]
				firstRaw := t.TransformPoint(rawStart)
				if dist(last, firstRaw) > closureEpsilon {
					sub = append(sub, firstRaw)
				}
			}
			rawCur = rawStart
		}
	}
	flushSub()
	return result
}

func dist(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// flattenQuad adaptively subdivides a quadratic Bezier, returning the
// points after p0 (p1 included). The error metric is the distance from
// the curve's midpoint (p0+2*cp+p1)/4 to the chord midpoint (p0+p1)/2.
func flattenQuad(p0, cp, p1 Point, tol float64, depth int) []Point {
	curveMid := Point{
		X: (p0.X + 2*cp.X + p1.X) / 4,
		Y: (p0.Y + 2*cp.Y + p1.Y) / 4,
	}
	chordMid := Point{X: (p0.X + p1.X) / 2, Y: (p0.Y + p1.Y) / 2}

	if depth >= maxSubdivisionDepth || dist(curveMid, chordMid) <= tol {
		return []Point{p1}
	}

	q0 := Point{X: (p0.X + cp.X) / 2, Y: (p0.Y + cp.Y) / 2}
	q1 := Point{X: (cp.X + p1.X) / 2, Y: (cp.Y + p1.Y) / 2}
	mid := Point{X: (q0.X + q1.X) / 2, Y: (q0.Y + q1.Y) / 2}

	left := flattenQuad(p0, q0, mid, tol, depth+1)
	right := flattenQuad(mid, q1, p1, tol, depth+1)
	return append(left, right...)
}

// flattenCubic adaptively subdivides a cubic Bezier. The error metric is
// the distance between the true curve point at t=0.5 (via de Casteljau)
// and the chord midpoint, compared against 2*tol (i.e. tol^2*4 on the
// squared distance) to match the reference implementation's acceptance
// window.
func flattenCubic(p0, c1, c2, p1 Point, tol float64, depth int) []Point {
	q0 := midpoint(p0, c1)
	q1 := midpoint(c1, c2)
	q2 := midpoint(c2, p1)
	r0 := midpoint(q0, q1)
	r1 := midpoint(q1, q2)
	mid := midpoint(r0, r1)

	chordMid := midpoint(p0, p1)
	dx, dy := mid.X-chordMid.X, mid.Y-chordMid.Y
	errSq := dx*dx + dy*dy

	if depth >= maxSubdivisionDepth || errSq <= tol*tol*4 {
		return []Point{p1}
	}

	left := flattenCubic(p0, q0, r0, mid, tol, depth+1)
	right := flattenCubic(mid, r1, q2, p1, tol, depth+1)
	return append(left, right...)
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// arcPoints samples a circular arc at uniform angle steps. The segment
// count is segHint when > 0, else clamp(ceil(|delta|/(pi/10)), 8, 128).
// The returned points exclude the arc's start (the caller's pen is
// already there) and include the end point.
func arcPoints(center Point, r, theta0, theta1 float64, segHint int) []Point {
	delta := theta1 - theta0
	segs := segHint
	if segs <= 0 {
		segs = int(math.Ceil(math.Abs(delta) / (math.Pi / 10)))
		segs = clampInt(segs, 8, 128)
	}
	pts := make([]Point, 0, segs)
	for i := 1; i <= segs; i++ {
		theta := theta0 + delta*float64(i)/float64(segs)
		pts = append(pts, Point{X: center.X + r*math.Cos(theta), Y: center.Y + r*math.Sin(theta)})
	}
	return pts
}

// ellipsePoints samples a full closed ellipse. segCount defaults to 32
// when <= 0 and is otherwise clamped to [8,256]; the result is closed
// (first point repeated at the end).
func ellipsePoints(center Point, rx, ry, rot float64, segCount int) []Point {
	segs := segCount
	if segs <= 0 {
		segs = 32
	}
	segs = clampInt(segs, 8, 256)

	cosr, sinr := math.Cos(rot), math.Sin(rot)
	pts := make([]Point, 0, segs+1)
	for i := 0; i <= segs; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segs)
		x, y := rx*math.Cos(theta), ry*math.Sin(theta)
		rxp := x*cosr - y*sinr
		ryp := x*sinr + y*cosr
		pts = append(pts, Point{X: center.X + rxp, Y: center.Y + ryp})
	}
	return pts
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
