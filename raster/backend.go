package raster

import (
	"context"

	"github.com/vraster/vraster/scene"
)

// Image is an 8-bit straight-alpha RGBA raster, top-left origin,
// row-major, row pitch exactly Width*4 bytes (backends needing GPU
// readback alignment pad internally and strip padding before returning
// this type).
type Image struct {
	Width, Height int
	Pixels        []byte // len == Width*Height*4
}

// Backend is the capability trait the frame driver selects among in
// priority order (GPU first, then the portable CPU backend).
type Backend interface {
	Name() string
	// Render rasterizes scn into an Image. Implementations MUST use
	// byte-identical point-in-polygon and compositing arithmetic so
	// CPU and GPU backends agree pixel-for-pixel on the same scene.
	Render(ctx context.Context, scn *scene.PackedScene) (*Image, error)
}
