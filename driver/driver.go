// Package driver provides the per-frame orchestration glue: it owns a
// scene.Packer, selects a rasterizer backend, and guards against
// overlapping frames, per the concurrency model's suspension points and
// re-entrancy gate.
package driver

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/vraster/vraster"
	"github.com/vraster/vraster/backend"
	"github.com/vraster/vraster/raster"
	"github.com/vraster/vraster/scene"
)

// FrameDriver owns the authoring-side Packer and drives one frame at a
// time through backend selection and rasterization. Construct with
// NewFrameDriver; RenderFrame is safe to call from multiple goroutines,
// but only one frame executes at a time — a concurrent second call is
// dropped rather than queued.
type FrameDriver struct {
	packer  *scene.Packer
	backend raster.Backend
	running atomic.Bool

	canvasW, canvasH uint32
	renderOpts       []vraster.RenderOption
}

// Config carries the canvas dimensions a FrameDriver rebuilds its Packer
// with on every frame. Quality parameters (tile size, supersample,
// flatten tolerance, fill/stroke defaults) are supplied separately as
// vraster.RenderOptions, resolved the same way scene.NewPacker resolves
// them, rather than re-implemented here.
type Config struct {
	CanvasW, CanvasH uint32
}

// NewFrameDriver selects the highest-priority registered backend (GPU
// ahead of the portable CPU fallback) and returns a driver ready for
// RenderFrame. opts resolves the section 6 defaults via
// vraster.ResolveRenderOptions and is forwarded to every Packer this
// driver creates. Returns backend.ErrBackendNotAvailable if no backend
// is registered.
func NewFrameDriver(cfg Config, opts ...vraster.RenderOption) (*FrameDriver, error) {
	b := backend.Default()
	if b == nil {
		return nil, backend.ErrBackendNotAvailable
	}
	vraster.Logger().Info("frame driver backend selected", "backend", b.Name())
	return &FrameDriver{
		backend:    b,
		canvasW:    cfg.CanvasW,
		canvasH:    cfg.CanvasH,
		renderOpts: opts,
	}, nil
}

// Packer returns the driver's current frame Packer, creating it on
// first access after construction or after the previous frame's
// RenderFrame call. Authoring code issues Fill/Stroke/PushClip/etc.
// calls against the returned Packer before calling RenderFrame.
func (d *FrameDriver) Packer() *scene.Packer {
	if d.packer == nil {
		d.packer = scene.NewPacker(d.canvasW, d.canvasH, d.renderOpts...)
	}
	return d.packer
}

// RenderFrame builds the packed scene from the current Packer, submits
// it to the selected backend, and returns the rasterized image. ctx
// bounds both the conceptual GPU-queue-wait and readback-map suspension
// points; cancellation or deadline expiry aborts without publishing a
// partial frame. A second overlapping call to RenderFrame returns
// immediately with false reported via ok.
func (d *FrameDriver) RenderFrame(ctx context.Context) (img *raster.Image, ok bool, err error) {
	if !d.running.CompareAndSwap(false, true) {
		return nil, false, nil
	}
	defer d.running.Store(false)
	defer func() { d.packer = nil }()

	scn, err := d.Packer().Build()
	if err != nil {
		return nil, true, err
	}

	img, err = d.backend.Render(ctx, scn)
	if err != nil {
		vraster.Logger().Warn("backend render failed", "backend", d.backend.Name(), "err", err)
		return nil, true, err
	}
	return img, true, nil
}

// RenderFrameTimeout is RenderFrame with a bounded deadline, covering
// the GPU-wait and readback-map suspension points the concurrency model
// requires to be cancellable.
func (d *FrameDriver) RenderFrameTimeout(timeout time.Duration) (*raster.Image, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return d.RenderFrame(ctx)
}

// Close releases backend resources that support it (e.g. the CPU
// backend's worker pool).
func (d *FrameDriver) Close() {
	if closer, ok := d.backend.(interface{ Close() }); ok {
		closer.Close()
	}
}
