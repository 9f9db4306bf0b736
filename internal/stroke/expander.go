// Package stroke converts a polyline, width, and join/cap style into
// independent filled polygons, following the tiny-skia/kurbo tradition
// of working in plain vector algebra over a local Point/Vec2 pair.
//
// Unlike a single offset-fill contour, every segment quad, every join,
// and every cap is its own closed polygon. All of them are meant to be
// consumed as even-odd fills, so overlaps between adjacent pieces (which
// a single-contour stroker would have to avoid) are harmless here.
package stroke

import "math"

// Point is a position in the polyline's coordinate space.
type Point struct{ X, Y float64 }

// Vec2 is a displacement.
type Vec2 struct{ X, Y float64 }

func (p Point) add(v Vec2) Point    { return Point{p.X + v.X, p.Y + v.Y} }
func (p Point) sub(q Point) Vec2    { return Vec2{p.X - q.X, p.Y - q.Y} }
func (v Vec2) scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) neg() Vec2            { return Vec2{-v.X, -v.Y} }
func (v Vec2) length() float64      { return math.Hypot(v.X, v.Y) }
func (v Vec2) normalize() Vec2 {
	l := v.length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}
func cross(a, b Vec2) float64 { return a.X*b.Y - a.Y*b.X }
func atan2v(v Vec2) float64   { return math.Atan2(v.Y, v.X) }

const joinTieEps = 1e-9
const dupEps = 1e-5

// LineJoin selects how adjacent segments meet.
type LineJoin int

const (
	JoinRound LineJoin = iota
	JoinBevel
	JoinMiter
)

// LineCap selects the shape drawn at open polyline ends.
type LineCap int

const (
	CapRound LineCap = iota
	CapButt
	CapSquare
)

// Style bundles the join/cap/miter-limit parameters.
type Style struct {
	Join       LineJoin
	Cap        LineCap
	MiterLimit float64
}

type segment struct {
	p0, p1     Point
	dir        Vec2
	leftNormal Vec2
}

// Expand runs the stroke expansion algorithm over polyline, returning
// zero or more independent closed polygons.
func Expand(polyline []Point, width float64, style Style) [][]Point {
	pts := collapseDuplicates(polyline)
	if len(pts) < 2 {
		return nil
	}

	closed := dist(pts[0], pts[len(pts)-1]) <= dupEps
	if closed && len(pts) >= 2 {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 2 {
		return nil
	}

	h := width / 2
	segs := buildSegments(pts, closed)
	if len(segs) == 0 {
		return nil
	}

	var out [][]Point
	for _, s := range segs {
		out = append(out, segmentQuad(s, h))
	}

	n := len(segs)
	for i := 0; i < n-1; i++ {
		if poly := join(segs[i], segs[i+1], h, style); poly != nil {
			out = append(out, poly)
		}
	}

	if closed {
		if poly := join(segs[n-1], segs[0], h, style); poly != nil {
			out = append(out, poly)
		}
	} else {
		if poly := cap(segs[0].p0, segs[0].dir.neg(), segs[0].leftNormal, h, style.Cap); poly != nil {
			out = append(out, poly)
		}
		if poly := cap(segs[n-1].p1, segs[n-1].dir, segs[n-1].leftNormal, h, style.Cap); poly != nil {
			out = append(out, poly)
		}
	}

	return filterDegenerate(out)
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func collapseDuplicates(pts []Point) []Point {
	if len(pts) == 0 {
		return nil
	}
	out := make([]Point, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1:] {
		if dist(out[len(out)-1], p) > dupEps {
			out = append(out, p)
		}
	}
	return out
}

func buildSegments(pts []Point, closed bool) []segment {
	var segs []segment
	n := len(pts)
	limit := n - 1
	if closed {
		limit = n
	}
	for i := 0; i < limit; i++ {
		p0 := pts[i]
		p1 := pts[(i+1)%n]
		d := p1.sub(p0)
		l := d.length()
		if l == 0 {
			continue
		}
		dir := d.normalize()
		left := Vec2{-dir.Y, dir.X}
		segs = append(segs, segment{p0: p0, p1: p1, dir: dir, leftNormal: left})
	}
	return segs
}

func segmentQuad(s segment, h float64) []Point {
	n := s.leftNormal.scale(h)
	return []Point{
		s.p0.add(n), s.p1.add(n), s.p1.add(n.neg()), s.p0.add(n.neg()), s.p0.add(n),
	}
}

func join(prev, next segment, h float64, style Style) []Point {
	center := prev.p1
	c := cross(prev.dir, next.dir)
	if math.Abs(c) < joinTieEps {
		return nil
	}
	sign := 1.0
	if c < 0 {
		sign = -1.0
	}
	nPrev := prev.leftNormal.scale(sign)
	nNext := next.leftNormal.scale(sign)

	switch style.Join {
	case JoinBevel:
		return []Point{center, center.add(nPrev.scale(h)), center.add(nNext.scale(h)), center}
	case JoinRound:
		return roundFan(center, nPrev, nNext, sign, h)
	case JoinMiter:
		limit := style.MiterLimit
		if limit < 1 {
			limit = 1
		}
		a0 := center.add(nPrev.scale(h))
		inter, ok := lineIntersect(a0, prev.dir, center.add(nNext.scale(h)), next.dir)
		if ok && dist(inter, center) <= h*limit {
			return []Point{center, a0, inter, center.add(nNext.scale(h))}
		}
		return []Point{center, a0, center.add(nNext.scale(h)), center}
	}
	return nil
}

// lineIntersect finds the intersection of the line through a with
// direction dirA and the line through b with direction dirB.
func lineIntersect(a Point, dirA Vec2, b Point, dirB Vec2) (Point, bool) {
	denom := cross(dirA, dirB)
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	diff := b.sub(a)
	t := cross(diff, dirB) / denom
	return a.add(dirA.scale(t)), true
}

func roundFan(center Point, nPrev, nNext Vec2, sign float64, h float64) []Point {
	a0 := atan2v(nPrev)
	a1 := atan2v(nNext)
	delta := a1 - a0
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta < -math.Pi {
		delta += 2 * math.Pi
	}
	steps := int(math.Ceil(math.Abs(delta) / (math.Pi / 12)))
	if steps < 2 {
		steps = 2
	}
	poly := make([]Point, 0, steps+2)
	poly = append(poly, center)
	for i := 0; i <= steps; i++ {
		t := a0 + delta*float64(i)/float64(steps)
		poly = append(poly, center.add(Vec2{math.Cos(t) * h, math.Sin(t) * h}))
	}
	return poly
}

func cap(p Point, dir, leftNormal Vec2, h float64, capStyle LineCap) []Point {
	switch capStyle {
	case CapButt:
		return nil
	case CapSquare:
		n := leftNormal.scale(h)
		ext := dir.scale(h)
		return []Point{
			p.add(n), p.add(n).add(ext), p.add(n.neg()).add(ext), p.add(n.neg()),
		}
	case CapRound:
		center := atan2v(dir)
		a0, a1 := center-math.Pi/2, center+math.Pi/2
		steps := int(math.Ceil(math.Abs(a1-a0) / (math.Pi / 12)))
		if steps < 2 {
			steps = 2
		}
		poly := make([]Point, 0, steps+2)
		for i := 0; i <= steps; i++ {
			t := a0 + (a1-a0)*float64(i)/float64(steps)
			poly = append(poly, p.add(Vec2{math.Cos(t) * h, math.Sin(t) * h}))
		}
		return poly
	}
	return nil
}

func filterDegenerate(polys [][]Point) [][]Point {
	out := make([][]Point, 0, len(polys))
	for _, p := range polys {
		if len(p) >= 3 {
			out = append(out, p)
		}
	}
	return out
}
