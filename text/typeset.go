// Package text adapts github.com/go-text/typesetting font faces to the
// vraster.GlyphProvider capability interface, so callers who want real
// font shaping instead of the deterministic rectangular substitute can
// opt in without the core glyph outliner ever importing a shaping
// library directly.
package text

import (
	"sync"

	"golang.org/x/image/math/fixed"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"

	"github.com/vraster/vraster"
)

// FaceProvider implements vraster.GlyphProvider over a single go-text
// typesetting Face, using it for shaping-accurate advance widths. Glyph
// geometry is a unit-em rectangle sized to the shaped advance rather
// than the face's real outline: extracting vector outlines from a
// go-text Face is a face-format-specific operation (TrueType vs CFF)
// that belongs in a dedicated outline-decoding adapter, not in the
// glyph-provider boundary this package exists to keep thin. Callers
// needing faithful glyph shapes should supply their own GlyphProvider
// that decodes outlines directly; this adapter's contribution is
// correct, shaping-aware advance. It does no line breaking.
type FaceProvider struct {
	face *font.Face
	upem float64

	mu    sync.Mutex
	cache map[rune]cachedGlyph
}

type cachedGlyph struct {
	contours [][]vraster.Point
	advance  float64
}

// NewFaceProvider wraps face. upem is the face's units-per-em, used to
// normalize shaped advances into the 0..1 unit-em space the glyph
// outliner expects.
func NewFaceProvider(face *font.Face, upem float64) *FaceProvider {
	if upem <= 0 {
		upem = 1000
	}
	return &FaceProvider{face: face, upem: upem, cache: make(map[rune]cachedGlyph)}
}

// GetGlyph shapes a single rune in isolation and returns a unit-em
// rectangle scaled to the shaped advance. Always reports ok=true: an
// unshapeable rune still gets the 0.6em fallback advance below rather
// than being treated as missing.
func (f *FaceProvider) GetGlyph(ch rune) ([][]vraster.Point, float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if g, ok := f.cache[ch]; ok {
		return g.contours, g.advance, true
	}

	input := shaping.Input{
		Text:     []rune{ch},
		RunStart: 0,
		RunEnd:   1,
		Face:     f.face,
		Size:     fixed.Int26_6(f.upem * 64),
		Script:   language.LookupScript(ch),
	}
	var shaper shaping.HarfbuzzShaper
	out := shaper.Shape(input)

	scale := 1.0 / f.upem
	advance := 0.0
	for _, g := range out.Glyphs {
		advance += float64(g.XAdvance) / 64 * scale
	}
	if advance == 0 {
		advance = 0.6
	}

	contours := [][]vraster.Point{{
		{X: 0, Y: 0}, {X: advance * 0.85, Y: 0}, {X: advance * 0.85, Y: 0.7}, {X: 0, Y: 0.7},
	}}

	g := cachedGlyph{contours: contours, advance: advance}
	f.cache[ch] = g
	return g.contours, g.advance, true
}
