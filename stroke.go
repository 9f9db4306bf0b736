package vraster

import (
	ist "github.com/vraster/vraster/internal/stroke"
)

// LineJoin selects how adjacent stroke segments meet at a vertex.
type LineJoin int

const (
	JoinRound LineJoin = iota
	JoinBevel
	JoinMiter
)

// LineCap selects the shape drawn at the open ends of a stroked polyline.
type LineCap int

const (
	CapRound LineCap = iota
	CapButt
	CapSquare
)

// StrokeStyle carries the parameters that the stroke expander consumes
// alongside a polyline and width. The scripting surface default is
// {round,round,4.0}.
type StrokeStyle struct {
	Join       LineJoin
	Cap        LineCap
	MiterLimit float64

	// Dash, when non-empty, pre-splits the polyline into dash segments
	// (gaps dropped) before stroke expansion runs on each independently.
	Dash       []float64
	DashOffset float64
}

// DefaultStrokeStyle returns the scripting surface's default style:
// round join, round cap, miter limit 4.
func DefaultStrokeStyle() StrokeStyle {
	return StrokeStyle{Join: JoinRound, Cap: CapRound, MiterLimit: 4.0}
}

// DefaultStrokeWidth is the scripting surface's default stroke width.
const DefaultStrokeWidth = 10.0

// StrokePolyline converts a polyline, width, and style into zero or more
// filled polygons consumed as even-odd fills downstream. Closure is
// detected by polyline[0] == polyline[len-1].
func StrokePolyline(polyline []Point, width float64, style StrokeStyle) [][]Point {
	if width <= 0 {
		return nil
	}
	segments := [][]Point{polyline}
	if len(style.Dash) > 0 {
		segments = splitDash(polyline, style.Dash, style.DashOffset)
	}

	var polys [][]Point
	for _, seg := range segments {
		pts := make([]ist.Point, len(seg))
		for i, p := range seg {
			pts[i] = ist.Point{X: p.X, Y: p.Y}
		}
		out := ist.Expand(pts, width, ist.Style{
			Join:       ist.LineJoin(style.Join),
			Cap:        ist.LineCap(style.Cap),
			MiterLimit: style.MiterLimit,
		})
		for _, poly := range out {
			conv := make([]Point, len(poly))
			for i, p := range poly {
				conv[i] = Point{X: p.X, Y: p.Y}
			}
			polys = append(polys, conv)
		}
	}
	return polys
}

// splitDash walks lengths (alternating dash, gap, dash, gap, …) around
// the polyline starting at dashOffset into the pattern, returning the
// on-segments. Gaps are dropped; each returned segment is an independent
// open polyline for the stroke expander to process on its own.
func splitDash(polyline []Point, lengths []float64, dashOffset float64) [][]Point {
	if len(polyline) < 2 {
		return nil
	}
	total := 0.0
	for _, l := range lengths {
		total += l
	}
	if total <= 0 {
		return [][]Point{polyline}
	}

	pos := dashOffset
	for pos < 0 {
		pos += total
	}
	pos = pos - total*float64(int(pos/total))

	idx := 0
	acc := 0.0
	for acc+lengths[idx] <= pos {
		acc += lengths[idx]
		idx = (idx + 1) % len(lengths)
	}
	remaining := lengths[idx] - (pos - acc)
	on := idx%2 == 0

	var segs [][]Point
	var cur []Point
	if on {
		cur = []Point{polyline[0]}
	}

	for i := 0; i < len(polyline)-1; i++ {
		a, b := polyline[i], polyline[i+1]
		dir := V2(b.X-a.X, b.Y-a.Y)
		segLen := dir.Length()
		if segLen == 0 {
			continue
		}
		unit := dir.Normalize()
		walked := 0.0
		for walked < segLen {
			step := remaining
			if walked+step > segLen {
				step = segLen - walked
			}
			walked += step
			remaining -= step
			p := unit.Mul(walked).ToPoint().Add(a)
			if on {
				cur = append(cur, p)
			}
			if remaining <= 1e-9 {
				if on && len(cur) >= 2 {
					segs = append(segs, cur)
				}
				idx = (idx + 1) % len(lengths)
				remaining = lengths[idx]
				on = !on
				if on {
					cur = []Point{p}
				} else {
					cur = nil
				}
			}
		}
	}
	if on && len(cur) >= 2 {
		segs = append(segs, cur)
	}
	return segs
}
