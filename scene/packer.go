package scene

import (
	"github.com/vraster/vraster"
)

// shapeInstance is a pending fill/stroke-expanded polygon awaiting
// buffer assembly in Build.
type shapeInstance struct {
	verts     []vraster.Point
	rule      vraster.FillRule
	color     [4]float32
	clipRefs  []uint32
	maskRefs  []uint32
	opacity   float32
}

type clipInstance struct {
	verts []vraster.Point
	rule  vraster.FillRule
}

type maskInstance struct {
	verts []vraster.Point
	rule  vraster.FillRule
	alpha float32
}

// Packer is the frame-scoped authoring surface: it owns the clip/mask/
// opacity stacks and the growing shape/clip/mask lists, and produces an
// immutable PackedScene from Build. A Packer is normally used for one
// frame then either discarded or Reset and reused; PackedScene itself is
// always a fresh allocation regardless.
type Packer struct {
	shapes []shapeInstance
	clips  []clipInstance
	masks  []maskInstance

	clipStack    [][]uint32
	maskStack    [][]uint32
	opacityStack []float32

	canvasW, canvasH, tileSize, supersample uint32

	tolerance float64

	defaultFillRule    vraster.FillRule
	defaultStrokeWidth float64
	defaultStrokeStyle vraster.StrokeStyle
}

// NewPacker returns an empty packer for a canvas of the given pixel
// size. opts resolves the section 6 defaults (flatten tolerance, tile
// size, supersample, default fill rule/stroke width/style) via
// vraster.ResolveRenderOptions; tileSize and supersample feed the
// eventual Uniforms block, tolerance is the curve-flattening tolerance
// used by every fill/stroke call, and the default rule/stroke are
// consumed by FillDefault/StrokeDefault.
func NewPacker(canvasW, canvasH uint32, opts ...vraster.RenderOption) *Packer {
	cfg := vraster.ResolveRenderOptions(opts...)
	return &Packer{
		opacityStack:       []float32{1.0},
		canvasW:            canvasW,
		canvasH:            canvasH,
		tileSize:           uint32(cfg.TileSize),
		supersample:        uint32(cfg.Supersample),
		tolerance:          cfg.FlattenTolerance,
		defaultFillRule:    cfg.FillRule,
		defaultStrokeWidth: cfg.StrokeWidth,
		defaultStrokeStyle: cfg.StrokeStyle,
	}
}

// Reset clears every list and stack back to its just-built state
// (opacity stack reset to its single 1.0 element) while keeping the
// backing arrays, so a Packer can be pooled across frames instead of
// reallocated.
func (p *Packer) Reset() {
	p.shapes = p.shapes[:0]
	p.clips = p.clips[:0]
	p.masks = p.masks[:0]
	p.clipStack = p.clipStack[:0]
	p.maskStack = p.maskStack[:0]
	p.opacityStack = append(p.opacityStack[:0], 1.0)
}

func (p *Packer) activeClipRefs() []uint32 {
	var out []uint32
	for _, frame := range p.clipStack {
		out = append(out, frame...)
	}
	return out
}

func (p *Packer) activeMaskRefs() []uint32 {
	var out []uint32
	for _, frame := range p.maskStack {
		out = append(out, frame...)
	}
	return out
}

func (p *Packer) activeOpacity() float32 {
	var acc float32 = 1.0
	for _, v := range p.opacityStack {
		acc *= v
	}
	if acc < 0 {
		acc = 0
	}
	if acc > 1 {
		acc = 1
	}
	return acc
}

func closePolyline(pts []vraster.Point) []vraster.Point {
	if len(pts) < 2 {
		return pts
	}
	first, last := pts[0], pts[len(pts)-1]
	if first.Distance(last) > 1e-4 {
		pts = append(pts, first)
	}
	return pts
}

func colorToVec4(c vraster.RGBA) [4]float32 {
	v := vraster.PremultiplyVec4(c)
	return [4]float32{v[0], v[1], v[2], v[3]}
}

// Fill flattens path and appends a single ShapeInstance whose polygon
// is every qualifying subpath's closed vertex loop concatenated back to
// back. Concatenating independently-closed contours rather than
// emitting one instance per subpath is what makes a multi-contour path
// (e.g. an outer ring plus a reversed inner ring) rasterize as a single
// even-odd/non-zero test: each contour's own closing edge reappears as
// the bridge between contours, so the two traversals of that bridge
// cancel in the parity and winding sums, leaving only the real
// boundary edges in effect.
func (p *Packer) Fill(path *vraster.Path, color vraster.RGBA, rule vraster.FillRule) {
	subs := vraster.Flatten(path.Elements(), path.TransformMatrix(), p.tolerance)
	var verts []vraster.Point
	for _, sp := range subs {
		sp = closePolyline(sp)
		if len(sp) < 3 {
			continue
		}
		verts = append(verts, sp...)
	}
	if len(verts) < 3 {
		return
	}
	p.shapes = append(p.shapes, shapeInstance{
		verts: verts, rule: rule, color: colorToVec4(color),
		clipRefs: p.activeClipRefs(), maskRefs: p.activeMaskRefs(), opacity: p.activeOpacity(),
	})
}

// FillDefault is Fill using the packer's configured default fill rule
// (section 6: even-odd unless overridden via vraster.WithDefaultFillRule
// at construction), for callers that don't need per-call rule control.
func (p *Packer) FillDefault(path *vraster.Path, color vraster.RGBA) {
	p.Fill(path, color, p.defaultFillRule)
}

// Stroke flattens each subpath of path to a polyline, expands it per
// style, and emits every resulting polygon as an even-odd shape
// instance sharing the current stack snapshot.
func (p *Packer) Stroke(path *vraster.Path, width float64, color vraster.RGBA, style vraster.StrokeStyle) {
	subs := vraster.Flatten(path.Elements(), path.TransformMatrix(), p.tolerance)
	clipRefs := p.activeClipRefs()
	maskRefs := p.activeMaskRefs()
	opacity := p.activeOpacity()
	col := colorToVec4(color)
	for _, sp := range subs {
		for _, poly := range vraster.StrokePolyline(sp, width, style) {
			if len(poly) < 3 {
				continue
			}
			p.shapes = append(p.shapes, shapeInstance{
				verts: poly, rule: vraster.FillEvenOdd, color: col,
				clipRefs: clipRefs, maskRefs: maskRefs, opacity: opacity,
			})
		}
	}
}

// StrokeDefault is Stroke using the packer's configured default stroke
// width and style (section 6: width 10, {round,round,4.0} unless
// overridden via vraster.WithDefaultStroke at construction).
func (p *Packer) StrokeDefault(path *vraster.Path, color vraster.RGBA) {
	p.Stroke(path, p.defaultStrokeWidth, color, p.defaultStrokeStyle)
}

// PushClip flattens path and pushes every resulting closed subpath as a
// new clip frame, AND-composed with every clip frame already active.
func (p *Packer) PushClip(path *vraster.Path, rule vraster.FillRule) {
	subs := vraster.Flatten(path.Elements(), path.TransformMatrix(), p.tolerance)
	var ids []uint32
	for _, sp := range subs {
		sp = closePolyline(sp)
		if len(sp) < 3 {
			continue
		}
		id := uint32(len(p.clips))
		p.clips = append(p.clips, clipInstance{verts: sp, rule: rule})
		ids = append(ids, id)
	}
	p.clipStack = append(p.clipStack, ids)
}

// PopClip removes the most recently pushed clip frame.
func (p *Packer) PopClip() error {
	if len(p.clipStack) == 0 {
		return vraster.StackUnderflowErr("Packer.PopClip")
	}
	p.clipStack = p.clipStack[:len(p.clipStack)-1]
	return nil
}

// PushOpacity pushes clamp(a,0,1) on the opacity stack.
func (p *Packer) PushOpacity(a float64) {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	p.opacityStack = append(p.opacityStack, float32(a))
}

// PopOpacity removes the most recently pushed opacity, refusing to pop
// the stack's permanent initial element.
func (p *Packer) PopOpacity() error {
	if len(p.opacityStack) <= 1 {
		return vraster.StackUnderflowErr("Packer.PopOpacity")
	}
	p.opacityStack = p.opacityStack[:len(p.opacityStack)-1]
	return nil
}

// PushOpacityMask flattens path and pushes every resulting subpath as a
// mask frame carrying clamp(alpha,0,1).
func (p *Packer) PushOpacityMask(path *vraster.Path, alpha float64, rule vraster.FillRule) {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	subs := vraster.Flatten(path.Elements(), path.TransformMatrix(), p.tolerance)
	var ids []uint32
	for _, sp := range subs {
		sp = closePolyline(sp)
		if len(sp) < 3 {
			continue
		}
		id := uint32(len(p.masks))
		p.masks = append(p.masks, maskInstance{verts: sp, rule: rule, alpha: float32(alpha)})
		ids = append(ids, id)
	}
	p.maskStack = append(p.maskStack, ids)
}

// PopOpacityMask removes the most recently pushed mask frame.
func (p *Packer) PopOpacityMask() error {
	if len(p.maskStack) == 0 {
		return vraster.StackUnderflowErr("Packer.PopOpacityMask")
	}
	p.maskStack = p.maskStack[:len(p.maskStack)-1]
	return nil
}

func ruleU32(r vraster.FillRule) uint32 { return uint32(r) }

// Build assembles the combined vertex/reference buffers, shape/clip/
// mask record arrays, uniforms, and tile tables into an immutable
// PackedScene. Build does not clear the packer's own shape/clip/mask
// lists or stacks — calling Build again without an intervening Reset
// re-submits every shape recorded so far alongside whatever was added
// since. Callers reusing a Packer across frames must call Reset
// themselves between Build calls.
func (p *Packer) Build() (*PackedScene, error) {
	// Vertex counter, not float counter: vStart indexes the combined
	// buffer in (x,y)-pair units, per the shape/clip/mask record layout.
	var verts []float32
	var vertCursor uint32

	appendVerts := func(pts []vraster.Point) uint32 {
		start := vertCursor
		for _, v := range pts {
			verts = append(verts, float32(v.X), float32(v.Y))
		}
		vertCursor += uint32(len(pts))
		return start
	}

	shapeVertStart := make([]uint32, len(p.shapes))
	for i, s := range p.shapes {
		shapeVertStart[i] = appendVerts(s.verts)
	}
	clipVertStart := make([]uint32, len(p.clips))
	for i, c := range p.clips {
		clipVertStart[i] = appendVerts(c.verts)
	}
	maskVertStart := make([]uint32, len(p.masks))
	for i, m := range p.masks {
		maskVertStart[i] = appendVerts(m.verts)
	}

	clipRecords := make([]ClipRecord, len(p.clips))
	for i, c := range p.clips {
		clipRecords[i] = ClipRecord{VStart: clipVertStart[i], VCount: uint32(len(c.verts)), Rule: ruleU32(c.rule)}
	}

	maskRecords := make([]MaskRecord, len(p.masks))
	for i, m := range p.masks {
		maskRecords[i] = MaskRecord{VStart: maskVertStart[i], VCount: uint32(len(m.verts)), Rule: ruleU32(m.rule), Alpha: m.alpha}
	}

	// Clip refs for every shape are appended first, then mask refs for
	// every shape, into one combined buffer. Because the mask-ref loop
	// starts appending after every clip ref is already in refs, each
	// MaskStart computed there is already an absolute offset into the
	// combined buffer — no separate shift pass is needed.
	var refs []uint32
	shapeRecords := make([]ShapeRecord, len(p.shapes))
	for i, s := range p.shapes {
		clipStart := uint32(len(refs))
		refs = append(refs, s.clipRefs...)
		shapeRecords[i] = ShapeRecord{
			VStart: shapeVertStart[i], VCount: uint32(len(s.verts)), Rule: ruleU32(s.rule),
			Color:     s.color,
			ClipStart: clipStart, ClipCount: uint32(len(s.clipRefs)),
			Opacity: s.opacity,
		}
	}
	for i, s := range p.shapes {
		maskStart := uint32(len(refs))
		refs = append(refs, s.maskRefs...)
		shapeRecords[i].MaskStart = maskStart
		shapeRecords[i].MaskCount = uint32(len(s.maskRefs))
	}

	tileSize := p.tileSize
	if tileSize == 0 {
		tileSize = 64
	}
	uniforms := Uniforms{
		CanvasW: p.canvasW, CanvasH: p.canvasH, TileSize: tileSize,
		TilesX:      ceilDiv(p.canvasW, tileSize),
		Supersample: p.supersample,
	}

	scn := &PackedScene{
		Shapes: shapeRecords,
		Clips:  clipRecords,
		Masks:  maskRecords,
		Verts:  verts,
		Refs:   refs,
		Uniforms: uniforms,
	}

	offsets, counts, indices := BinTiles(scn, p.canvasW, p.canvasH, tileSize)
	scn.TileOffsetCounts = interleave(offsets, counts)
	scn.TileShapeIndices = indices

	if err := scn.Validate(); err != nil {
		return nil, err
	}
	return scn, nil
}

func ceilDiv(a, b uint32) uint32 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

func interleave(offsets, counts []uint32) []uint32 {
	out := make([]uint32, 0, 2*len(offsets))
	for i := range offsets {
		out = append(out, offsets[i], counts[i])
	}
	return out
}
