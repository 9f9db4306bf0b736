package vraster

import "math"

// PathElement is a tagged variant over the seven command shapes a Path
// can record. Flattening is a pure function of (commands, transform,
// tolerance); recording never touches the accumulated transform.
type PathElement interface {
	isPathElement()
}

// MoveToElem starts a new subpath at P.
type MoveToElem struct{ P Point }

// LineToElem draws a straight segment to P.
type LineToElem struct{ P Point }

// QuadToElem draws a quadratic Bezier through control point C to P.
type QuadToElem struct{ C, P Point }

// CubicToElem draws a cubic Bezier through C1, C2 to P.
type CubicToElem struct{ C1, C2, P Point }

// ArcToElem draws a circular arc of radius R around Center from Theta0 to
// Theta1. CCW records the authored sweep direction; SegHint overrides the
// segment-count heuristic when > 0.
type ArcToElem struct {
	Center         Point
	R              float64
	Theta0, Theta1 float64
	CCW            bool
	SegHint        int
}

// EllipseElem draws a full ellipse centered at Center with radii RX, RY
// rotated by Rot radians. SegCount overrides the default tessellation
// density when > 0.
type EllipseElem struct {
	Center   Point
	RX, RY   float64
	Rot      float64
	SegCount int
}

// CloseElem closes the current subpath.
type CloseElem struct{}

func (MoveToElem) isPathElement()  {}
func (LineToElem) isPathElement()  {}
func (QuadToElem) isPathElement()  {}
func (CubicToElem) isPathElement() {}
func (ArcToElem) isPathElement()   {}
func (EllipseElem) isPathElement() {}
func (CloseElem) isPathElement()   {}

// Path is a mutable command list plus the affine transform accumulated by
// successive Transform calls. The transform is applied only during
// flattening, never during recording.
type Path struct {
	elements  []PathElement
	transform Matrix
	start     Point
	current   Point
}

// NewPath returns an empty path with an identity transform.
func NewPath() *Path {
	return &Path{
		elements:  make([]PathElement, 0, 16),
		transform: Identity(),
	}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveToElem{P: pt})
	p.start = pt
	p.current = pt
}

// LineTo appends a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, LineToElem{P: pt})
	p.current = pt
}

// QuadTo appends a quadratic Bezier segment.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, QuadToElem{C: Pt(cx, cy), P: pt})
	p.current = pt
}

// CubicTo appends a cubic Bezier segment.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, CubicToElem{
		C1: Pt(c1x, c1y), C2: Pt(c2x, c2y), P: pt,
	})
	p.current = pt
}

// Arc appends a circular arc from theta0 to theta1 around (cx, cy).
// segHint, when > 0, overrides the default segment-count heuristic.
func (p *Path) Arc(cx, cy, r, theta0, theta1 float64, ccw bool, segHint int) {
	center := Pt(cx, cy)
	p.elements = append(p.elements, ArcToElem{
		Center: center, R: r, Theta0: theta0, Theta1: theta1, CCW: ccw, SegHint: segHint,
	})
	p.current = Pt(center.X+r*math.Cos(theta1), center.Y+r*math.Sin(theta1))
}

// Ellipse appends a complete ellipse centered at (cx, cy).
func (p *Path) Ellipse(cx, cy, rx, ry, rot float64, segCount int) {
	center := Pt(cx, cy)
	p.elements = append(p.elements, EllipseElem{
		Center: center, RX: rx, RY: ry, Rot: rot, SegCount: segCount,
	})
	p.current = center
}

// Poly appends a polyline through points, closing it when close is true.
func (p *Path) Poly(points []Point, close bool) {
	if len(points) == 0 {
		return
	}
	p.MoveTo(points[0].X, points[0].Y)
	for _, pt := range points[1:] {
		p.LineTo(pt.X, pt.Y)
	}
	if close {
		p.Close()
	}
}

// Rect appends a closed rectangle.
func (p *Path) Rect(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.elements = append(p.elements, CloseElem{})
	p.current = p.start
}

// Transform right-multiplies the accumulated transform by the affine
// built from the given translate/scale/rotate parameters, composed in
// scale, then rotation, then translation order (applied to a point in
// that order). Recorded commands are untouched; only flattening ever
// consults the transform.
func (p *Path) Transform(tx, ty, sx, sy, rot float64) {
	inc := Translate(tx, ty).Multiply(Rotate(rot)).Multiply(Scale(sx, sy))
	p.transform = p.transform.Multiply(inc)
}

// SetTransform replaces the accumulated transform outright.
func (p *Path) SetTransform(m Matrix) {
	p.transform = m
}

// TransformMatrix returns the currently accumulated transform.
func (p *Path) TransformMatrix() Matrix {
	return p.transform
}

// Elements returns the recorded command list.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// CurrentPoint returns the pen position after the last recorded command.
func (p *Path) CurrentPoint() Point {
	return p.current
}

// Clone returns a deep copy of the path, including its transform.
func (p *Path) Clone() *Path {
	out := &Path{
		elements:  make([]PathElement, len(p.elements)),
		transform: p.transform,
		start:     p.start,
		current:   p.current,
	}
	copy(out.elements, p.elements)
	return out
}

// Bounds returns the axis-aligned bounding box of the flattened path
// using the default flatten tolerance. Intended for debug assertions,
// not the rasterizer's own binning (see scene.binning.go).
func (p *Path) Bounds() (minP, maxP Point) {
	subpaths := Flatten(p.elements, p.transform, DefaultFlattenTolerance)
	first := true
	for _, sp := range subpaths {
		for _, pt := range sp {
			if first {
				minP, maxP = pt, pt
				first = false
				continue
			}
			minP.X, minP.Y = math.Min(minP.X, pt.X), math.Min(minP.Y, pt.Y)
			maxP.X, maxP.Y = math.Max(maxP.X, pt.X), math.Max(maxP.Y, pt.Y)
		}
	}
	return minP, maxP
}
