package raster

import (
	"context"
	"runtime"

	"github.com/vraster/vraster"
	"github.com/vraster/vraster/internal/parallel"
	"github.com/vraster/vraster/scene"
)

// CPUBackend is the portable fallback rasterizer: a work-stealing pool
// dispatches one task per tile row, each row running the per-pixel SSAA
// kernel sequentially across its pixels.
type CPUBackend struct {
	pool *parallel.WorkerPool
}

// NewCPUBackend returns a backend backed by a worker pool sized to
// workers (0 means GOMAXPROCS).
func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &CPUBackend{pool: parallel.NewWorkerPool(workers)}
}

// Close releases the backend's worker pool.
func (b *CPUBackend) Close() {
	b.pool.Close()
}

func (b *CPUBackend) Name() string { return "cpu" }

// Render dispatches one task per tile row (a band of tileSize pixel
// rows) across the worker pool, then waits for every row to finish.
func (b *CPUBackend) Render(ctx context.Context, scn *scene.PackedScene) (*Image, error) {
	if err := scn.Validate(); err != nil {
		return nil, err
	}

	w := int(scn.Uniforms.CanvasW)
	h := int(scn.Uniforms.CanvasH)
	img := &Image{Width: w, Height: h, Pixels: make([]byte, w*h*4)}

	tileSize := int(scn.Uniforms.TileSize)
	if tileSize <= 0 {
		tileSize = 64
	}
	tilesY := int(ceilDivInt(h, tileSize))

	var tasks []func()
	for ty := 0; ty < tilesY; ty++ {
		y0 := ty * tileSize
		y1 := y0 + tileSize
		if y1 > h {
			y1 = h
		}
		tasks = append(tasks, func() {
			for y := y0; y < y1; y++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				renderRow(scn, img, y, w)
			}
		})
	}

	b.pool.ExecuteAll(tasks)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return img, nil
}

func ceilDivInt(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// renderRow runs the per-pixel SSAA kernel (spec 4.G) across one
// scanline of the output image.
func renderRow(scn *scene.PackedScene, img *Image, y, w int) {
	tileSize := int(scn.Uniforms.TileSize)
	tilesX := int(scn.Uniforms.TilesX)
	tilesY := ceilDivInt(int(scn.Uniforms.CanvasH), tileSize)
	ss := int(scn.Uniforms.Supersample)
	if ss < 1 {
		ss = 1
	}
	sampleCount := float32(ss * ss)

	ty := clampIdx(y/tileSize, tilesY)

	for x := 0; x < w; x++ {
		tx := clampIdx(x/tileSize, tilesX)
		t := ty*tilesX + tx
		start := scn.TileOffsetCounts[2*t]
		count := scn.TileOffsetCounts[2*t+1]

		var accum vraster.Vec4
		for sy := 0; sy < ss; sy++ {
			for sx := 0; sx < ss; sx++ {
				sampleX := float64(x) + (float64(sx)+0.5)/float64(ss)
				sampleY := float64(y) + (float64(sy)+0.5)/float64(ss)
				c := sampleColor(scn, start, count, sampleX, sampleY)
				accum[0] += c[0]
				accum[1] += c[1]
				accum[2] += c[2]
				accum[3] += c[3]
			}
		}
		avg := vraster.Vec4{
			accum[0] / sampleCount, accum[1] / sampleCount,
			accum[2] / sampleCount, accum[3] / sampleCount,
		}
		out := vraster.UnpremultiplyVec4(avg)
		o := (y*w + x) * 4
		img.Pixels[o+0] = to8(out.R)
		img.Pixels[o+1] = to8(out.G)
		img.Pixels[o+2] = to8(out.B)
		img.Pixels[o+3] = to8(out.A)
	}
}

// sampleColor composites every shape covering this tile, in submission
// order, that the sample falls inside (after the clip AND-test and
// additive mask accumulation), and returns the resulting premultiplied
// color for one subsample.
func sampleColor(scn *scene.PackedScene, start, count uint32, x, y float64) vraster.Vec4 {
	var color vraster.Vec4
	for k := uint32(0); k < count; k++ {
		shapeIdx := scn.TileShapeIndices[start+k]
		sh := &scn.Shapes[shapeIdx]

		shapeVerts := scn.Verts[sh.VStart*2 : (sh.VStart+sh.VCount)*2]
		if !pointInside(shapeVerts, sh.Rule, x, y) {
			continue
		}

		clipped := false
		for c := uint32(0); c < sh.ClipCount; c++ {
			clipIdx := scn.Refs[sh.ClipStart+c]
			cl := &scn.Clips[clipIdx]
			clipVerts := scn.Verts[cl.VStart*2 : (cl.VStart+cl.VCount)*2]
			if !pointInside(clipVerts, cl.Rule, x, y) {
				clipped = true
				break
			}
		}
		if clipped {
			continue
		}

		maskValue := float32(1.0)
		if sh.MaskCount > 0 {
			maskValue = 0.0
			for m := uint32(0); m < sh.MaskCount; m++ {
				maskIdx := scn.Refs[sh.MaskStart+m]
				mk := &scn.Masks[maskIdx]
				maskVerts := scn.Verts[mk.VStart*2 : (mk.VStart+mk.VCount)*2]
				if pointInside(maskVerts, mk.Rule, x, y) {
					alpha := clamp01(mk.Alpha)
					maskValue = maskValue + (1-maskValue)*alpha
				}
			}
		}

		factor := sh.Opacity * maskValue
		if factor <= 1e-5 {
			continue
		}
		src := vraster.Vec4{
			sh.Color[0] * factor, sh.Color[1] * factor,
			sh.Color[2] * factor, sh.Color[3] * factor,
		}
		color = vraster.Over(src, color)
	}
	return color
}

func clampIdx(v, n int) int {
	if n <= 0 {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > n-1 {
		return n - 1
	}
	return v
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func to8(v float64) byte {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return byte(v*255 + 0.5)
}
