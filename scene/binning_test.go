package scene

import "testing"

// rectShape returns a ShapeRecord plus its vertex contribution for an
// axis-aligned rectangle, for tests that want to drive BinTiles directly
// without going through Packer.
func rectShape(vStart uint32, x0, y0, x1, y1 float32) (ShapeRecord, []float32) {
	verts := []float32{x0, y0, x1, y0, x1, y1, x0, y1}
	return ShapeRecord{VStart: vStart, VCount: 4, Rule: 0}, verts
}

func TestBinTilesSingleShapeSingleTile(t *testing.T) {
	sh, verts := rectShape(0, 5, 5, 10, 10)
	scn := &PackedScene{Shapes: []ShapeRecord{sh}, Verts: verts}

	offsets, counts, indices := BinTiles(scn, 64, 64, 64)
	if len(counts) != 1 {
		t.Fatalf("expected 1 tile, got %d", len(counts))
	}
	if counts[0] != 1 {
		t.Errorf("counts[0] = %d, want 1", counts[0])
	}
	if offsets[0] != 0 {
		t.Errorf("offsets[0] = %d, want 0", offsets[0])
	}
	if len(indices) != 1 || indices[0] != 0 {
		t.Errorf("indices = %v, want [0]", indices)
	}
}

func TestBinTilesShapeSpanningMultipleTilesCountsEach(t *testing.T) {
	// Canvas 128x64, tile 64: 2 tiles across, 1 down. A rect spanning
	// x=[32,96] covers both tiles.
	sh, verts := rectShape(0, 32, 10, 96, 20)
	scn := &PackedScene{Shapes: []ShapeRecord{sh}, Verts: verts}

	offsets, counts, indices := BinTiles(scn, 128, 64, 64)
	if len(counts) != 2 {
		t.Fatalf("expected 2 tiles, got %d", len(counts))
	}
	if counts[0] != 1 || counts[1] != 1 {
		t.Errorf("counts = %v, want [1 1]", counts)
	}
	if offsets[0] != 0 || offsets[1] != 1 {
		t.Errorf("offsets = %v, want [0 1]", offsets)
	}
	if len(indices) != 2 || indices[0] != 0 || indices[1] != 0 {
		t.Errorf("indices = %v, want [0 0] (same shape index scattered into both tiles)", indices)
	}
}

func TestBinTilesPreservesSubmissionOrderWithinATile(t *testing.T) {
	sh0, v0 := rectShape(0, 1, 1, 5, 5)
	sh1, v1 := rectShape(4, 2, 2, 6, 6)
	scn := &PackedScene{
		Shapes: []ShapeRecord{sh0, sh1},
		Verts:  append(v0, v1...),
	}

	_, counts, indices := BinTiles(scn, 64, 64, 64)
	if counts[0] != 2 {
		t.Fatalf("expected both shapes binned into the single tile, got count %d", counts[0])
	}
	if indices[0] != 0 || indices[1] != 1 {
		t.Errorf("indices = %v, want submission order [0 1]", indices)
	}
}

func TestBinTilesEmptyShapeIsSkipped(t *testing.T) {
	sh := ShapeRecord{VStart: 0, VCount: 0}
	scn := &PackedScene{Shapes: []ShapeRecord{sh}, Verts: nil}

	_, counts, indices := BinTiles(scn, 64, 64, 64)
	if len(indices) != 0 {
		t.Errorf("a zero-vertex shape should contribute to no tile, got indices=%v", indices)
	}
	if counts[0] != 0 {
		t.Errorf("counts[0] = %d, want 0", counts[0])
	}
}

func TestBinTilesScratchReuseAcrossCalls(t *testing.T) {
	sh, verts := rectShape(0, 0, 0, 4, 4)
	scn := &PackedScene{Shapes: []ShapeRecord{sh}, Verts: verts}

	for i := 0; i < 8; i++ {
		_, counts, _ := BinTiles(scn, 64, 64, 64)
		if counts[0] != 1 {
			t.Fatalf("iteration %d: counts[0] = %d, want 1 (scratch reuse should not leak stale counts)", i, counts[0])
		}
	}
}
