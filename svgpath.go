package vraster

import (
	"fmt"
	"math"
	"strconv"
)

// newParseError builds a ParseError-kind *Error carrying the byte offset
// at which the scanner was positioned when it failed.
func newParseError(offset int, msg string) *Error {
	return newError(ParseError, "svgpath.Parse", fmt.Errorf("offset %d: %s", offset, msg))
}

// svgScanner tokenizes SVG path data, separate from the command
// interpreter so errors can report a byte offset.
type svgScanner struct {
	s   string
	pos int
}

func (sc *svgScanner) skipSeparators() {
	for sc.pos < len(sc.s) {
		c := sc.s[sc.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',' {
			sc.pos++
			continue
		}
		break
	}
}

func (sc *svgScanner) peek() (byte, bool) {
	if sc.pos >= len(sc.s) {
		return 0, false
	}
	return sc.s[sc.pos], true
}

func isCommandLetter(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's',
		'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

// number scans one floating point number, including SVG's relaxed
// syntax where a new number may start immediately after a '.' without a
// separating comma or space (e.g. "1.5.5" == "1.5 .5").
func (sc *svgScanner) number() (float64, bool, error) {
	sc.skipSeparators()
	start := sc.pos
	n := len(sc.s)
	i := sc.pos
	if i < n && (sc.s[i] == '+' || sc.s[i] == '-') {
		i++
	}
	seenDigitsBeforeDot := false
	for i < n && sc.s[i] >= '0' && sc.s[i] <= '9' {
		i++
		seenDigitsBeforeDot = true
	}
	if i < n && sc.s[i] == '.' {
		i++
		for i < n && sc.s[i] >= '0' && sc.s[i] <= '9' {
			i++
		}
	}
	if i == start || (!seenDigitsBeforeDot && i == start+1) {
		return 0, false, nil
	}
	if i < n && (sc.s[i] == 'e' || sc.s[i] == 'E') {
		j := i + 1
		if j < n && (sc.s[j] == '+' || sc.s[j] == '-') {
			j++
		}
		if j < n && sc.s[j] >= '0' && sc.s[j] <= '9' {
			for j < n && sc.s[j] >= '0' && sc.s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	text := sc.s[start:i]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false, newParseError(start, "invalid number: "+text)
	}
	sc.pos = i
	return v, true, nil
}

func (sc *svgScanner) requireNumber() (float64, error) {
	v, ok, err := sc.number()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, newParseError(sc.pos, "expected numeric operand")
	}
	return v, nil
}

func (sc *svgScanner) flag() (bool, error) {
	sc.skipSeparators()
	b, ok := sc.peek()
	if !ok || (b != '0' && b != '1') {
		return false, newParseError(sc.pos, "expected flag (0 or 1)")
	}
	sc.pos++
	return b == '1', nil
}

// ParseSVGPath parses the SVG `d` mini-language into operations applied
// to p. Accepts MmLlHhVvCcSsQqTtAaZz; relative forms add to the current
// pen; implicit repeats after M are treated as L; S/T reflect the
// previous control point through the pen (or the pen itself if the
// previous command wasn't the matching curve family). Unknown letters
// are skipped until the next command letter.
func ParseSVGPath(p *Path, d string) error {
	sc := &svgScanner{s: d}
	var pen Point
	var lastCtrl Point
	var lastWasCubicFamily, lastWasQuadFamily bool

	for {
		sc.skipSeparators()
		b, ok := sc.peek()
		if !ok {
			break
		}
		if !isCommandLetter(b) {
			// Skip unrecognized token until the next command letter.
			sc.pos++
			continue
		}
		cmd := b
		sc.pos++
		rel := cmd >= 'a' && cmd <= 'z'

		switch upper(cmd) {
		case 'M':
			x, err := sc.requireNumber()
			if err != nil {
				return err
			}
			y, err := sc.requireNumber()
			if err != nil {
				return err
			}
			if rel {
				x += pen.X
				y += pen.Y
			}
			pen = Pt(x, y)
			p.MoveTo(x, y)
			for {
				nx, okx, err := sc.number()
				if err != nil {
					return err
				}
				if !okx {
					break
				}
				ny, err := sc.requireNumber()
				if err != nil {
					return err
				}
				if rel {
					nx += pen.X
					ny += pen.Y
				}
				pen = Pt(nx, ny)
				p.LineTo(nx, ny)
			}
			lastWasCubicFamily, lastWasQuadFamily = false, false
		case 'L':
			for {
				x, err := sc.requireNumber()
				if err != nil {
					return err
				}
				y, err := sc.requireNumber()
				if err != nil {
					return err
				}
				if rel {
					x += pen.X
					y += pen.Y
				}
				pen = Pt(x, y)
				p.LineTo(x, y)
				sc.skipSeparators()
				if nb, ok := sc.peek(); !ok || isCommandLetter(nb) {
					break
				}
			}
			lastWasCubicFamily, lastWasQuadFamily = false, false
		case 'H':
			for {
				x, err := sc.requireNumber()
				if err != nil {
					return err
				}
				if rel {
					x += pen.X
				}
				pen = Pt(x, pen.Y)
				p.LineTo(pen.X, pen.Y)
				sc.skipSeparators()
				if nb, ok := sc.peek(); !ok || isCommandLetter(nb) {
					break
				}
			}
			lastWasCubicFamily, lastWasQuadFamily = false, false
		case 'V':
			for {
				y, err := sc.requireNumber()
				if err != nil {
					return err
				}
				if rel {
					y += pen.Y
				}
				pen = Pt(pen.X, y)
				p.LineTo(pen.X, pen.Y)
				sc.skipSeparators()
				if nb, ok := sc.peek(); !ok || isCommandLetter(nb) {
					break
				}
			}
			lastWasCubicFamily, lastWasQuadFamily = false, false
		case 'C':
			for {
				c1x, err := sc.requireNumber()
				if err != nil {
					return err
				}
				c1y, err := sc.requireNumber()
				if err != nil {
					return err
				}
				c2x, err := sc.requireNumber()
				if err != nil {
					return err
				}
				c2y, err := sc.requireNumber()
				if err != nil {
					return err
				}
				x, err := sc.requireNumber()
				if err != nil {
					return err
				}
				y, err := sc.requireNumber()
				if err != nil {
					return err
				}
				if rel {
					c1x, c1y = c1x+pen.X, c1y+pen.Y
					c2x, c2y = c2x+pen.X, c2y+pen.Y
					x, y = x+pen.X, y+pen.Y
				}
				p.CubicTo(c1x, c1y, c2x, c2y, x, y)
				lastCtrl = Pt(c2x, c2y)
				pen = Pt(x, y)
				sc.skipSeparators()
				if nb, ok := sc.peek(); !ok || isCommandLetter(nb) {
					break
				}
			}
			lastWasCubicFamily, lastWasQuadFamily = true, false
		case 'S':
			for {
				c2x, err := sc.requireNumber()
				if err != nil {
					return err
				}
				c2y, err := sc.requireNumber()
				if err != nil {
					return err
				}
				x, err := sc.requireNumber()
				if err != nil {
					return err
				}
				y, err := sc.requireNumber()
				if err != nil {
					return err
				}
				if rel {
					c2x, c2y = c2x+pen.X, c2y+pen.Y
					x, y = x+pen.X, y+pen.Y
				}
				var c1 Point
				if lastWasCubicFamily {
					c1 = Pt(2*pen.X-lastCtrl.X, 2*pen.Y-lastCtrl.Y)
				} else {
					c1 = pen
				}
				p.CubicTo(c1.X, c1.Y, c2x, c2y, x, y)
				lastCtrl = Pt(c2x, c2y)
				pen = Pt(x, y)
				sc.skipSeparators()
				if nb, ok := sc.peek(); !ok || isCommandLetter(nb) {
					break
				}
			}
			lastWasCubicFamily, lastWasQuadFamily = true, false
		case 'Q':
			for {
				cx, err := sc.requireNumber()
				if err != nil {
					return err
				}
				cy, err := sc.requireNumber()
				if err != nil {
					return err
				}
				x, err := sc.requireNumber()
				if err != nil {
					return err
				}
				y, err := sc.requireNumber()
				if err != nil {
					return err
				}
				if rel {
					cx, cy = cx+pen.X, cy+pen.Y
					x, y = x+pen.X, y+pen.Y
				}
				p.QuadTo(cx, cy, x, y)
				lastCtrl = Pt(cx, cy)
				pen = Pt(x, y)
				sc.skipSeparators()
				if nb, ok := sc.peek(); !ok || isCommandLetter(nb) {
					break
				}
			}
			lastWasCubicFamily, lastWasQuadFamily = false, true
		case 'T':
			for {
				x, err := sc.requireNumber()
				if err != nil {
					return err
				}
				y, err := sc.requireNumber()
				if err != nil {
					return err
				}
				if rel {
					x += pen.X
					y += pen.Y
				}
				var c Point
				if lastWasQuadFamily {
					c = Pt(2*pen.X-lastCtrl.X, 2*pen.Y-lastCtrl.Y)
				} else {
					c = pen
				}
				p.QuadTo(c.X, c.Y, x, y)
				lastCtrl = c
				pen = Pt(x, y)
				sc.skipSeparators()
				if nb, ok := sc.peek(); !ok || isCommandLetter(nb) {
					break
				}
			}
			lastWasCubicFamily, lastWasQuadFamily = false, true
		case 'A':
			for {
				rx, err := sc.requireNumber()
				if err != nil {
					return err
				}
				ry, err := sc.requireNumber()
				if err != nil {
					return err
				}
				xrot, err := sc.requireNumber()
				if err != nil {
					return err
				}
				largeArc, err := sc.flag()
				if err != nil {
					return err
				}
				sweep, err := sc.flag()
				if err != nil {
					return err
				}
				x, err := sc.requireNumber()
				if err != nil {
					return err
				}
				y, err := sc.requireNumber()
				if err != nil {
					return err
				}
				if rel {
					x += pen.X
					y += pen.Y
				}
				arcToCubics(p, pen, rx, ry, xrot*math.Pi/180, largeArc, sweep, Pt(x, y))
				pen = Pt(x, y)
				sc.skipSeparators()
				if nb, ok := sc.peek(); !ok || isCommandLetter(nb) {
					break
				}
			}
			lastWasCubicFamily, lastWasQuadFamily = false, false
		case 'Z':
			p.Close()
			pen = p.CurrentPoint()
			lastWasCubicFamily, lastWasQuadFamily = false, false
		}
	}
	return nil
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// arcToCubics implements the SVG 1.1 endpoint-to-center ellipse
// algorithm and splits the result into cubic Beziers, one per
// ceil(|delta|/(pi/2)) subarc, each with tangent length k=(4/3)*tan(d/4).
func arcToCubics(p *Path, from Point, rx, ry, phi float64, largeArc, sweep bool, to Point) {
	if rx == 0 || ry == 0 {
		p.LineTo(to.X, to.Y)
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)

	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)
	dx2 := (from.X - to.X) / 2
	dy2 := (from.Y - to.Y) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		scale := math.Sqrt(lambda)
		rx *= scale
		ry *= scale
	}

	sign := 1.0
	if largeArc == sweep {
		sign = -1.0
	}
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 && num > 0 {
		coef = sign * math.Sqrt(num/den)
	}
	cxp := coef * (rx * y1p / ry)
	cyp := coef * -(ry * x1p / rx)

	cx := cosPhi*cxp - sinPhi*cyp + (from.X+to.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (from.Y+to.Y)/2

	angle := func(ux, uy, vx, vy float64) float64 {
		dot := ux*vx + uy*vy
		length := math.Sqrt(ux*ux+uy*uy) * math.Sqrt(vx*vx+vy*vy)
		a := math.Acos(clampF(dot/length, -1, 1))
		if ux*vy-uy*vx < 0 {
			a = -a
		}
		return a
	}

	theta1 := angle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	delta := angle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	delta = math.Mod(delta, 2*math.Pi)
	if sweep && delta < 0 {
		delta += 2 * math.Pi
	} else if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	}

	numSubarcs := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if numSubarcs < 1 {
		numSubarcs = 1
	}
	dTheta := delta / float64(numSubarcs)

	t := theta1
	for i := 0; i < numSubarcs; i++ {
		t1 := t
		t2 := t + dTheta
		k := (4.0 / 3.0) * math.Tan(dTheta/4)

		p1 := ellipsePointAt(cx, cy, rx, ry, cosPhi, sinPhi, t1)
		p2 := ellipsePointAt(cx, cy, rx, ry, cosPhi, sinPhi, t2)
		if i == numSubarcs-1 {
			// The last subarc ends exactly on the requested endpoint.
			p2 = to
		}
		d1 := ellipseTangentAt(rx, ry, cosPhi, sinPhi, t1)
		d2 := ellipseTangentAt(rx, ry, cosPhi, sinPhi, t2)

		c1 := Point{X: p1.X + k*d1.X, Y: p1.Y + k*d1.Y}
		c2 := Point{X: p2.X - k*d2.X, Y: p2.Y - k*d2.Y}

		p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p2.X, p2.Y)
		t = t2
	}
}

func ellipsePointAt(cx, cy, rx, ry, cosPhi, sinPhi, theta float64) Point {
	x, y := rx*math.Cos(theta), ry*math.Sin(theta)
	return Point{X: cx + x*cosPhi - y*sinPhi, Y: cy + x*sinPhi + y*cosPhi}
}

func ellipseTangentAt(rx, ry, cosPhi, sinPhi, theta float64) Point {
	x, y := -rx*math.Sin(theta), ry*math.Cos(theta)
	return Point{X: x*cosPhi - y*sinPhi, Y: x*sinPhi + y*cosPhi}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
