// Package scene packs authored draw calls into the fixed-size binary
// buffers a rasterizer backend consumes: a vertex buffer, a reference
// buffer, shape/clip/mask record arrays, and per-tile index tables.
package scene

// ShapeRecord is a fixed 64-byte, 4-byte-aligned record describing one
// fillable polygon and the clip/mask/opacity state active when it was
// submitted.
type ShapeRecord struct {
	VStart, VCount uint32
	Rule           uint32 // 0 = even-odd, 1 = non-zero
	_pad0          uint32
	Color          [4]float32 // premultiplied RGBA
	ClipStart      uint32
	ClipCount      uint32
	MaskStart      uint32
	MaskCount      uint32
	Opacity        float32
	_pad1          [3]float32
}

// ClipRecord is a 16-byte record: a closed polygon consumed purely as
// an inside/outside test.
type ClipRecord struct {
	VStart, VCount, Rule, _pad uint32
}

// MaskRecord is a 32-byte record: a closed polygon plus the alpha it
// contributes when a sample falls inside it.
type MaskRecord struct {
	VStart, VCount, Rule, _pad uint32
	Alpha                      float32
	_pad1                      [3]float32
}

// Uniforms is the 32-byte per-frame constant block the rasterizer
// kernel reads once.
type Uniforms struct {
	CanvasW, CanvasH, TileSize, TilesX, Supersample uint32
	_pad                                             [3]uint32
}
