package scene

import (
	"testing"

	"github.com/vraster/vraster"
)

func TestPackerFillProducesOneShapeRecord(t *testing.T) {
	p := NewPacker(128, 128, vraster.WithTileSize(64), vraster.WithSupersample(1), vraster.WithFlattenTolerance(0.35))
	path := vraster.NewPath()
	path.Rect(10, 10, 100, 100)
	p.Fill(path, vraster.RGBA2(1, 0, 0, 1), vraster.FillEvenOdd)

	scn, err := p.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(scn.Shapes) != 1 {
		t.Fatalf("want 1 shape, got %d", len(scn.Shapes))
	}
	sh := scn.Shapes[0]
	if sh.VCount < 4 {
		t.Fatalf("want >=4 verts for a closed rect, got %d", sh.VCount)
	}
	if sh.Color != [4]float32{1, 0, 0, 1} {
		t.Fatalf("unexpected color %v", sh.Color)
	}
}

func TestPackerClipStackSnapshotsRefs(t *testing.T) {
	p := NewPacker(100, 100, vraster.WithTileSize(64), vraster.WithSupersample(1), vraster.WithFlattenTolerance(0.35))
	clip := vraster.NewPath()
	clip.Rect(0, 0, 50, 50)
	p.PushClip(clip, vraster.FillEvenOdd)

	fillPath := vraster.NewPath()
	fillPath.Rect(0, 0, 100, 100)
	p.Fill(fillPath, vraster.Red, vraster.FillEvenOdd)

	if err := p.PopClip(); err != nil {
		t.Fatalf("PopClip: %v", err)
	}

	scn, err := p.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(scn.Shapes) != 1 {
		t.Fatalf("want 1 shape, got %d", len(scn.Shapes))
	}
	if scn.Shapes[0].ClipCount != 1 {
		t.Fatalf("want 1 active clip ref, got %d", scn.Shapes[0].ClipCount)
	}
	if len(scn.Clips) != 1 {
		t.Fatalf("want 1 clip record, got %d", len(scn.Clips))
	}
}

func TestPackerPopClipUnderflow(t *testing.T) {
	p := NewPacker(10, 10, vraster.WithTileSize(64), vraster.WithSupersample(1), vraster.WithFlattenTolerance(0.35))
	if err := p.PopClip(); err == nil {
		t.Fatal("want StackUnderflow error, got nil")
	}
}

func TestPackerPopOpacityLeavesInitialElement(t *testing.T) {
	p := NewPacker(10, 10, vraster.WithTileSize(64), vraster.WithSupersample(1), vraster.WithFlattenTolerance(0.35))
	if err := p.PopOpacity(); err == nil {
		t.Fatal("want StackUnderflow popping the initial opacity element")
	}
	p.PushOpacity(0.5)
	if err := p.PopOpacity(); err != nil {
		t.Fatalf("PopOpacity: %v", err)
	}
}

func TestPackerOpacityIsProductOfStack(t *testing.T) {
	p := NewPacker(10, 10, vraster.WithTileSize(64), vraster.WithSupersample(1), vraster.WithFlattenTolerance(0.35))
	p.PushOpacity(0.5)
	p.PushOpacity(0.5)
	path := vraster.NewPath()
	path.Rect(0, 0, 5, 5)
	p.Fill(path, vraster.Red, vraster.FillEvenOdd)
	scn, err := p.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := scn.Shapes[0].Opacity
	if got < 0.24 || got > 0.26 {
		t.Fatalf("want opacity ~0.25, got %v", got)
	}
}

// TestTileBinningDeterminism encodes the literal end-to-end scenario:
// two shapes covering tiles {0} and {0,1} respectively.
func TestTileBinningDeterminism(t *testing.T) {
	p := NewPacker(128, 64, vraster.WithTileSize(64), vraster.WithSupersample(1), vraster.WithFlattenTolerance(0.35))
	a := vraster.NewPath()
	a.Rect(10, 10, 20, 20) // inside tile 0 only
	p.Fill(a, vraster.Red, vraster.FillEvenOdd)

	b := vraster.NewPath()
	b.Rect(50, 10, 40, 20) // spans tile 0 and tile 1 (canvas 128 wide, tileSize 64)
	p.Fill(b, vraster.Blue, vraster.FillEvenOdd)

	scn, err := p.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if scn.Uniforms.TilesX != 2 {
		t.Fatalf("want tilesX=2, got %d", scn.Uniforms.TilesX)
	}
	wantCounts := []uint32{2, 1}
	for t2 := range wantCounts {
		if scn.TileOffsetCounts[2*t2+1] != wantCounts[t2] {
			t.Fatalf("tile %d: want count %d, got %d", t2, wantCounts[t2], scn.TileOffsetCounts[2*t2+1])
		}
	}
	wantOffsets := []uint32{0, 2}
	for t2 := range wantOffsets {
		if scn.TileOffsetCounts[2*t2] != wantOffsets[t2] {
			t.Fatalf("tile %d: want offset %d, got %d", t2, wantOffsets[t2], scn.TileOffsetCounts[2*t2])
		}
	}
	wantIndices := []uint32{0, 1, 1}
	if len(scn.TileShapeIndices) != len(wantIndices) {
		t.Fatalf("want %d indices, got %d", len(wantIndices), len(scn.TileShapeIndices))
	}
	for i, want := range wantIndices {
		if scn.TileShapeIndices[i] != want {
			t.Fatalf("index %d: want %d, got %d", i, want, scn.TileShapeIndices[i])
		}
	}
}

func TestPackerFillDefaultUsesConfiguredFillRule(t *testing.T) {
	p := NewPacker(64, 64, vraster.WithDefaultFillRule(vraster.FillNonZero))
	path := vraster.NewPath()
	path.Rect(0, 0, 10, 10)
	p.FillDefault(path, vraster.Red)

	scn, err := p.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if scn.Shapes[0].Rule != uint32(vraster.FillNonZero) {
		t.Errorf("FillDefault should use the configured default rule, got Rule=%d", scn.Shapes[0].Rule)
	}
}

func TestPackerStrokeDefaultUsesConfiguredStroke(t *testing.T) {
	style := vraster.StrokeStyle{Join: vraster.JoinBevel, Cap: vraster.CapSquare, MiterLimit: 2}
	p := NewPacker(64, 64, vraster.WithDefaultStroke(3, style))
	path := vraster.NewPath()
	path.MoveTo(0, 0)
	path.LineTo(10, 0)

	p.StrokeDefault(path, vraster.Red)

	scn, err := p.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(scn.Shapes) == 0 {
		t.Fatal("StrokeDefault produced no shapes")
	}
	// The first shape is the segment quad; its first vertex lies half the
	// configured width (3) off the line, not half the default width (10).
	if got := scn.Verts[1]; got != 1.5 {
		t.Errorf("first stroke vertex y = %v, want 1.5", got)
	}
}

func TestNewPackerResolvesDefaultsWithoutOptions(t *testing.T) {
	p := NewPacker(128, 128)
	if p.tileSize != 64 {
		t.Errorf("tileSize = %d, want 64 (section 6 default)", p.tileSize)
	}
	if p.supersample != 2 {
		t.Errorf("supersample = %d, want 2 (section 6 default)", p.supersample)
	}
	if p.defaultFillRule != vraster.FillEvenOdd {
		t.Errorf("defaultFillRule = %v, want FillEvenOdd", p.defaultFillRule)
	}
}

func TestHash64SceneIsDeterministic(t *testing.T) {
	build := func() *PackedScene {
		p := NewPacker(64, 64, vraster.WithTileSize(64), vraster.WithSupersample(1), vraster.WithFlattenTolerance(0.35))
		path := vraster.NewPath()
		path.Rect(0, 0, 10, 10)
		p.Fill(path, vraster.Red, vraster.FillEvenOdd)
		scn, err := p.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return scn
	}
	a, b := build(), build()
	if vraster.Hash64Scene(a) != vraster.Hash64Scene(b) {
		t.Fatal("identical scenes hashed differently")
	}
}
