package vraster

import (
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// GlyphProvider is the small capability interface the glyph outliner
// depends on, so typeface implementations (system font, embedded bitmap
// font, test doubles) are interchangeable. Contours and advance are in
// unit-em space (y-down, 0..1 range). ok is false only when ch has no
// mapping at all; a valid glyph with no ink (space) returns ok=true with
// a nil contour list, so LayoutText doesn't confuse "no ink" with
// "unknown codepoint".
type GlyphProvider interface {
	GetGlyph(ch rune) (contours [][]Point, advance float64, ok bool)
}

// TextLayoutOptions tunes layoutText beyond the font and size.
type TextLayoutOptions struct {
	LetterSpacing float64
	LineSpacing   float64 // multiplier on size; 0 defaults to 1.0
	BaselineOffset float64
}

// DefaultTextLayoutOptions returns single-spaced, unspaced defaults.
func DefaultTextLayoutOptions() TextLayoutOptions {
	return TextLayoutOptions{LineSpacing: 1.0}
}

// LayoutText walks s codepoint by codepoint, appending each glyph's
// contours (translated and scaled by size) as closed subpaths into p,
// starting the pen at (originX, originY+baselineOffset). '\n' resets the
// pen to originX and advances by size*lineSpacing. Missing glyphs
// substitute '?'.
func LayoutText(p *Path, provider GlyphProvider, s string, originX, originY, size float64, opts TextLayoutOptions) {
	if opts.LineSpacing == 0 {
		opts.LineSpacing = 1.0
	}
	penX, penY := originX, originY+opts.BaselineOffset

	// Normalize so combining marks compose with their base character
	// before codepoint iteration; otherwise a decomposed accent would
	// look up as its own (likely missing) glyph.
	s = norm.NFC.String(s)

	for _, ch := range s {
		if ch == '\n' {
			penX = originX
			penY += size * opts.LineSpacing
			continue
		}
		contours, advance, ok := provider.GetGlyph(ch)
		if !ok {
			contours, advance, _ = provider.GetGlyph('?')
		}
		for _, contour := range contours {
			if len(contour) == 0 {
				continue
			}
			pts := make([]Point, len(contour))
			for i, c := range contour {
				pts[i] = Point{X: penX + c.X*size, Y: penY + c.Y*size}
			}
			p.Poly(pts, true)
		}
		penX += advance*size + opts.LetterSpacing
	}
}

// glyphWidths gives the DefaultGlyphProvider's per-class advance in
// unit-em space; a deterministic, platform-font-free substitute.
var glyphWidths = map[rune]float64{
	' ': 0.3, 'i': 0.28, 'l': 0.28, 'j': 0.28, '.': 0.28, ',': 0.28, ':': 0.28, ';': 0.28,
}

const defaultGlyphWidth = 0.6
const defaultGlyphHeight = 0.7

// DefaultGlyphProvider is a deterministic rectangular-glyph substitute:
// every character except space maps to a unit-em rectangle contour,
// sized by a coarse per-glyph-class width table; space returns its
// advance with no contour. '?' is the literal substitute shape for
// unknown codepoints — here, every codepoint resolves (ok=true), so '?'
// is used only when the caller explicitly requests it.
type DefaultGlyphProvider struct{}

func (DefaultGlyphProvider) GetGlyph(ch rune) ([][]Point, float64, bool) {
	w, known := glyphWidths[ch]
	if !known {
		w = defaultGlyphWidth
		if p := width.LookupRune(ch); p.Kind() == width.EastAsianWide || p.Kind() == width.EastAsianFullwidth {
			w = defaultGlyphWidth * 2
		}
	}
	if ch == ' ' {
		return nil, w, true
	}
	h := defaultGlyphHeight
	rect := []Point{
		{X: 0, Y: 0}, {X: w * 0.85, Y: 0}, {X: w * 0.85, Y: h}, {X: 0, Y: h},
	}
	return [][]Point{rect}, w, true
}
