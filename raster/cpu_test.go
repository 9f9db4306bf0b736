package raster

import (
	"context"
	"testing"

	"github.com/vraster/vraster"
	"github.com/vraster/vraster/scene"
)

func pixelAt(img *Image, x, y int) (r, g, b, a byte) {
	o := (y*img.Width + x) * 4
	return img.Pixels[o], img.Pixels[o+1], img.Pixels[o+2], img.Pixels[o+3]
}

// TestSolidRectangle encodes end-to-end scenario 1.
func TestSolidRectangle(t *testing.T) {
	p := scene.NewPacker(128, 128, vraster.WithTileSize(64), vraster.WithSupersample(1), vraster.WithFlattenTolerance(0.35))
	path := vraster.NewPath()
	path.Rect(10, 10, 100, 100)
	p.Fill(path, vraster.RGBA2(1, 0, 0, 1), vraster.FillEvenOdd)
	scn, err := p.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	backend := NewCPUBackend(2)
	defer backend.Close()
	img, err := backend.Render(context.Background(), scn)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if r, g, b, a := pixelAt(img, 50, 50); r != 255 || g != 0 || b != 0 || a != 255 {
		t.Fatalf("inside pixel = (%d,%d,%d,%d), want (255,0,0,255)", r, g, b, a)
	}
	if r, g, b, a := pixelAt(img, 5, 5); r != 0 || g != 0 || b != 0 || a != 0 {
		t.Fatalf("outside pixel = (%d,%d,%d,%d), want (0,0,0,0)", r, g, b, a)
	}
}

// TestHalfAlphaOverlap encodes end-to-end scenario 2.
func TestHalfAlphaOverlap(t *testing.T) {
	p := scene.NewPacker(64, 64, vraster.WithTileSize(64), vraster.WithSupersample(1), vraster.WithFlattenTolerance(0.35))
	r1 := vraster.NewPath()
	r1.Rect(0, 0, 64, 64)
	p.Fill(r1, vraster.RGBA2(1, 0, 0, 1), vraster.FillEvenOdd)

	r2 := vraster.NewPath()
	r2.Rect(32, 0, 64, 64)
	p.Fill(r2, vraster.RGBA2(0, 0, 1, 128.0/255.0), vraster.FillEvenOdd)

	scn, err := p.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	backend := NewCPUBackend(2)
	defer backend.Close()
	img, err := backend.Render(context.Background(), scn)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	r, g, b, a := pixelAt(img, 48, 32)
	if abs8(r, 127) > 1 || g != 0 || abs8(b, 128) > 1 || a != 255 {
		t.Fatalf("pixel(48,32) = (%d,%d,%d,%d), want ~(127,0,128,255)", r, g, b, a)
	}
}

func abs8(v, want byte) int {
	d := int(v) - int(want)
	if d < 0 {
		return -d
	}
	return d
}

// TestEvenOddDonut encodes end-to-end scenario 3.
func TestEvenOddDonut(t *testing.T) {
	p := scene.NewPacker(100, 100, vraster.WithTileSize(64), vraster.WithSupersample(1), vraster.WithFlattenTolerance(0.35))
	path := vraster.NewPath()
	path.MoveTo(0, 0)
	path.LineTo(100, 0)
	path.LineTo(100, 100)
	path.LineTo(0, 100)
	path.Close()
	path.MoveTo(25, 75)
	path.LineTo(75, 75)
	path.LineTo(75, 25)
	path.LineTo(25, 25)
	path.Close()
	p.Fill(path, vraster.RGBA2(1, 0, 0, 1), vraster.FillEvenOdd)

	scn, err := p.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	backend := NewCPUBackend(2)
	defer backend.Close()
	img, err := backend.Render(context.Background(), scn)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if _, _, _, a := pixelAt(img, 50, 50); a != 0 {
		t.Fatalf("center pixel alpha = %d, want 0 (inside the hole)", a)
	}
	if _, _, _, a := pixelAt(img, 10, 50); a != 255 {
		t.Fatalf("edge pixel alpha = %d, want 255 (filled ring)", a)
	}
}

// TestClipRejection encodes end-to-end scenario 5.
func TestClipRejection(t *testing.T) {
	p := scene.NewPacker(100, 100, vraster.WithTileSize(64), vraster.WithSupersample(1), vraster.WithFlattenTolerance(0.35))
	clip := vraster.NewPath()
	clip.Rect(0, 0, 50, 50)
	p.PushClip(clip, vraster.FillEvenOdd)

	fillPath := vraster.NewPath()
	fillPath.Rect(0, 0, 100, 100)
	p.Fill(fillPath, vraster.RGBA2(1, 0, 0, 1), vraster.FillEvenOdd)

	if err := p.PopClip(); err != nil {
		t.Fatalf("PopClip: %v", err)
	}

	scn, err := p.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	backend := NewCPUBackend(2)
	defer backend.Close()
	img, err := backend.Render(context.Background(), scn)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if _, _, _, a := pixelAt(img, 75, 50); a != 0 {
		t.Fatalf("clipped-out pixel alpha = %d, want 0", a)
	}
	if _, _, _, a := pixelAt(img, 25, 25); a != 255 {
		t.Fatalf("clipped-in pixel alpha = %d, want 255", a)
	}
}
