package driver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vraster/vraster"
	_ "github.com/vraster/vraster/backend"
)

func newTestDriver(t *testing.T) *FrameDriver {
	d, err := NewFrameDriver(Config{CanvasW: 64, CanvasH: 64})
	if err != nil {
		t.Fatalf("NewFrameDriver: %v", err)
	}
	return d
}

func TestRenderFrameProducesImage(t *testing.T) {
	d := newTestDriver(t)
	defer d.Close()

	path := vraster.NewPath()
	path.Rect(8, 8, 48, 48)
	d.Packer().Fill(path, vraster.Red, vraster.FillEvenOdd)

	img, ok, err := d.RenderFrame(context.Background())
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true on first call")
	}
	if img.Width != 64 || img.Height != 64 {
		t.Errorf("image dims = %dx%d, want 64x64", img.Width, img.Height)
	}
	o := (32*img.Width + 32) * 4
	if img.Pixels[o+3] != 255 {
		t.Error("expected opaque pixel inside the filled rect")
	}
}

func TestRenderFrameResetsPackerEachCall(t *testing.T) {
	d := newTestDriver(t)
	defer d.Close()

	path := vraster.NewPath()
	path.Rect(8, 8, 16, 16)
	d.Packer().Fill(path, vraster.Red, vraster.FillEvenOdd)
	if _, _, err := d.RenderFrame(context.Background()); err != nil {
		t.Fatalf("RenderFrame 1: %v", err)
	}

	// Fresh Packer() after a completed frame starts empty; an unfilled
	// canvas should read back transparent everywhere.
	img, _, err := d.RenderFrame(context.Background())
	if err != nil {
		t.Fatalf("RenderFrame 2: %v", err)
	}
	o := (8*img.Width + 8) * 4
	if img.Pixels[o+3] != 0 {
		t.Error("expected transparent pixel after the Packer reset for the second frame")
	}
}

func TestRenderFrameDropsOverlappingCall(t *testing.T) {
	d := newTestDriver(t)
	defer d.Close()
	d.running.Store(true)

	_, ok, err := d.RenderFrame(context.Background())
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if ok {
		t.Error("expected ok=false while a frame is already running")
	}
}

func TestRenderFrameHonorsCancellation(t *testing.T) {
	d := newTestDriver(t)
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := vraster.NewPath()
	path.Rect(0, 0, 64, 64)
	d.Packer().Fill(path, vraster.Red, vraster.FillEvenOdd)

	_, ok, _ := d.RenderFrame(ctx)
	if !ok {
		t.Error("expected ok=true: a cancelled context is reported through err, not ok")
	}
}

func TestRenderFrameTimeoutDoesNotPanic(t *testing.T) {
	d := newTestDriver(t)
	defer d.Close()
	if _, _, err := d.RenderFrameTimeout(50 * time.Millisecond); err != nil {
		t.Fatalf("RenderFrameTimeout: %v", err)
	}
}

func TestRenderFrameSerializesConcurrentCallers(t *testing.T) {
	d := newTestDriver(t)
	defer d.Close()

	path := vraster.NewPath()
	path.Rect(0, 0, 10, 10)
	d.Packer().Fill(path, vraster.Red, vraster.FillEvenOdd)

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, ok, _ := d.RenderFrame(context.Background())
			results[i] = ok
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, ok := range results {
		if ok {
			accepted++
		}
	}
	if accepted == 0 {
		t.Error("expected at least one concurrent RenderFrame call to be accepted")
	}
}
