package scene

import (
	"encoding/binary"
	"math"

	"github.com/vraster/vraster"
)

// PackedScene is the immutable output of Packer.Build. Every slice is
// fresh-allocated per build and never mutated afterward.
type PackedScene struct {
	Shapes []ShapeRecord
	Clips  []ClipRecord
	Masks  []MaskRecord

	// Verts is the combined vertex buffer: shape verts, then clip
	// verts, then mask verts, stride 2 (x,y).
	Verts []float32

	// Refs is the combined reference buffer: clip-attachment ids
	// followed by mask-attachment ids, in shape submission order.
	Refs []uint32

	Uniforms Uniforms

	// TileOffsetCounts is [off0,cnt0, off1,cnt1, ...], one pair per tile.
	TileOffsetCounts []uint32
	// TileShapeIndices holds shape ids in submission order, bucketed by tile.
	TileShapeIndices []uint32
}

// Validate checks a subset of the packed-scene invariants: the tile
// counts sum to len(TileShapeIndices); every shape has at least 3
// vertices, all inside Verts; every shape's clip and mask spans lie
// inside Refs; and TilesX equals ceil(CanvasW/TileSize). It does not
// check polygon closure, index order within a tile, TilesY, or the
// opacity range. It returns the first violation found, wrapped with
// InvariantViolation.
func (s *PackedScene) Validate() error {
	tileCount := len(s.TileOffsetCounts) / 2
	var total uint32
	for t := 0; t < tileCount; t++ {
		total += s.TileOffsetCounts[2*t+1]
	}
	if int(total) != len(s.TileShapeIndices) {
		return vraster.InvariantError("scene.Validate", "sum of tile counts does not match tileShapeIndices length")
	}

	refTotal := uint32(len(s.Refs))

	for i := range s.Shapes {
		sh := &s.Shapes[i]
		if sh.VCount < 3 {
			return vraster.InvariantError("scene.Validate", "shape polygon has fewer than 3 vertices")
		}
		end := (sh.VStart + sh.VCount) * 2
		if end > uint32(len(s.Verts)) {
			return vraster.InvariantError("scene.Validate", "shape vertex span exceeds vertex buffer")
		}
		if sh.ClipStart+sh.ClipCount > refTotal {
			return vraster.InvariantError("scene.Validate", "shape clip span exceeds reference buffer")
		}
		if sh.MaskStart+sh.MaskCount > refTotal {
			return vraster.InvariantError("scene.Validate", "shape mask span exceeds reference buffer")
		}
	}

	wantTilesX := uint32(math.Ceil(float64(s.Uniforms.CanvasW) / float64(s.Uniforms.TileSize)))
	if s.Uniforms.TilesX != wantTilesX {
		return vraster.InvariantError("scene.Validate", "tilesX does not match ceil(canvasW/tileSize)")
	}

	return nil
}

// HashFields implements vraster.SceneHasher, exposing a deterministic,
// order-fixed byte-field list over every buffer this scene carries.
func (s *PackedScene) HashFields() [][]byte {
	var fields [][]byte

	buf := make([]byte, 0, len(s.Shapes)*64)
	for _, sh := range s.Shapes {
		buf = vraster.PutU32(buf, sh.VStart)
		buf = vraster.PutU32(buf, sh.VCount)
		buf = vraster.PutU32(buf, sh.Rule)
		buf = vraster.PutU32(buf, 0)
		for _, c := range sh.Color {
			buf = vraster.PutF32(buf, c)
		}
		buf = vraster.PutU32(buf, sh.ClipStart)
		buf = vraster.PutU32(buf, sh.ClipCount)
		buf = vraster.PutU32(buf, sh.MaskStart)
		buf = vraster.PutU32(buf, sh.MaskCount)
		buf = vraster.PutF32(buf, sh.Opacity)
	}
	fields = append(fields, buf)

	cbuf := make([]byte, 0, len(s.Clips)*12)
	for _, c := range s.Clips {
		cbuf = vraster.PutU32(cbuf, c.VStart)
		cbuf = vraster.PutU32(cbuf, c.VCount)
		cbuf = vraster.PutU32(cbuf, c.Rule)
	}
	mbuf := make([]byte, 0, len(s.Masks)*16)
	for _, m := range s.Masks {
		mbuf = vraster.PutU32(mbuf, m.VStart)
		mbuf = vraster.PutU32(mbuf, m.VCount)
		mbuf = vraster.PutU32(mbuf, m.Rule)
		mbuf = vraster.PutF32(mbuf, m.Alpha)
	}
	fields = append(fields, cbuf, mbuf)

	vbuf := make([]byte, 0, len(s.Verts)*4)
	for _, v := range s.Verts {
		vbuf = vraster.PutF32(vbuf, v)
	}
	fields = append(fields, vbuf)

	rbuf := make([]byte, 0, len(s.Refs)*4)
	for _, r := range s.Refs {
		rbuf = vraster.PutU32(rbuf, r)
	}
	fields = append(fields, rbuf)

	tbuf := make([]byte, 0, len(s.TileOffsetCounts)*4)
	for _, t := range s.TileOffsetCounts {
		tbuf = vraster.PutU32(tbuf, t)
	}
	fields = append(fields, tbuf)

	sbuf := make([]byte, 0, len(s.TileShapeIndices)*4)
	for _, idx := range s.TileShapeIndices {
		sbuf = vraster.PutU32(sbuf, idx)
	}
	fields = append(fields, sbuf)

	var ubuf [32]byte
	binary.LittleEndian.PutUint32(ubuf[0:4], s.Uniforms.CanvasW)
	binary.LittleEndian.PutUint32(ubuf[4:8], s.Uniforms.CanvasH)
	binary.LittleEndian.PutUint32(ubuf[8:12], s.Uniforms.TileSize)
	binary.LittleEndian.PutUint32(ubuf[12:16], s.Uniforms.TilesX)
	binary.LittleEndian.PutUint32(ubuf[16:20], s.Uniforms.Supersample)
	fields = append(fields, ubuf[:])

	return fields
}
