// Command dump renders a small fixed demo scene through the selected
// backend and writes it to disk as a PNG, plus a downscaled thumbnail
// for quick terminal-adjacent previewing. It exists for manual
// verification during development, not as a library entry point.
package main

import (
	"context"
	"flag"
	"image"
	"image/png"
	"log"
	"math"
	"os"

	"golang.org/x/image/draw"

	"github.com/vraster/vraster"
	_ "github.com/vraster/vraster/backend"
	"github.com/vraster/vraster/driver"
	"github.com/vraster/vraster/scene"
)

func main() {
	var (
		width     = flag.Int("width", 512, "canvas width")
		height    = flag.Int("height", 512, "canvas height")
		output    = flag.String("output", "dump.png", "output PNG path")
		thumbPath = flag.String("thumb", "dump_thumb.png", "downscaled thumbnail PNG path")
		thumbSize = flag.Int("thumb-size", 128, "thumbnail edge length")
	)
	flag.Parse()

	d, err := driver.NewFrameDriver(driver.Config{
		CanvasW: uint32(*width), CanvasH: uint32(*height),
	}, vraster.WithTileSize(64), vraster.WithSupersample(2))
	if err != nil {
		log.Fatalf("new frame driver: %v", err)
	}
	defer d.Close()

	drawDemoScene(d.Packer(), *width, *height)

	img, ok, err := d.RenderFrame(context.Background())
	if err != nil {
		log.Fatalf("render frame: %v", err)
	}
	if !ok {
		log.Fatal("render frame: dropped (unexpected, no concurrent caller)")
	}

	rgba := &image.RGBA{Pix: img.Pixels, Stride: img.Width * 4, Rect: image.Rect(0, 0, img.Width, img.Height)}
	if err := savePNG(*output, rgba); err != nil {
		log.Fatalf("save png: %v", err)
	}

	thumb := image.NewRGBA(image.Rect(0, 0, *thumbSize, *thumbSize))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), rgba, rgba.Bounds(), draw.Over, nil)
	if err := savePNG(*thumbPath, thumb); err != nil {
		log.Fatalf("save thumbnail: %v", err)
	}

	log.Printf("wrote %s (%dx%d) and %s (%dx%d)", *output, img.Width, img.Height, *thumbPath, *thumbSize, *thumbSize)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// drawDemoScene exercises fill, stroke, clip, and opacity stack
// operations against p: a background rect, an even-odd donut built from
// two subpaths, a stroked star, and a clipped translucent overlay.
func drawDemoScene(p *scene.Packer, w, h int) {
	bg := vraster.NewPath()
	bg.Rect(0, 0, float64(w), float64(h))
	p.Fill(bg, vraster.RGB(0.08, 0.08, 0.12), vraster.FillEvenOdd)

	donut := vraster.NewPath()
	cx, cy := float64(w)/4, float64(h)/4
	appendCircle(donut, cx, cy, 80, 32)
	appendCircle(donut, cx, cy, 40, 32)
	p.Fill(donut, vraster.RGB(0.9, 0.2, 0.2), vraster.FillEvenOdd)

	star := vraster.NewPath()
	star.Poly(vraster.Star(float64(w)*3/4, float64(h)/4, 80, 36, 5), true)
	p.Stroke(star, 6, vraster.RGB(1, 0.85, 0.1), vraster.StrokeStyle{Join: vraster.JoinRound, Cap: vraster.CapRound})

	clipPath := vraster.NewPath()
	clipPath.Rect(float64(w)/8, float64(h)/2, float64(w)*3/4, float64(h)/3)
	p.PushClip(clipPath, vraster.FillEvenOdd)
	p.PushOpacity(0.5)

	overlay := vraster.NewPath()
	appendCircle(overlay, float64(w)/2, float64(h)*2/3, 120, 48)
	p.FillDefault(overlay, vraster.RGB(0.2, 0.6, 1)) // even-odd, the configured default

	_ = p.PopOpacity()
	_ = p.PopClip()
}

func appendCircle(p *vraster.Path, cx, cy, r float64, segments int) {
	for i := 0; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		x, y := cx+r*math.Cos(theta), cy+r*math.Sin(theta)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
}
