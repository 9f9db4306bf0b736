package vraster

// RenderOption configures a FrameDriver (or a one-off Packer/raster call)
// using the functional-options pattern, following the same convention
// the rest of this module uses for optional configuration.
type RenderOption func(*renderOptions)

// renderOptions carries the section 6 configuration defaults.
type renderOptions struct {
	flattenTolerance float64
	tileSize         int
	supersample      int
	strokeWidth      float64
	strokeStyle      StrokeStyle
	fillRule         FillRule
}

// defaultRenderOptions returns the scripting surface's documented
// defaults: flatten tolerance 0.35px, tile size 64, supersample 2,
// stroke width 10 with round/round/miter-4, even-odd fill.
func defaultRenderOptions() renderOptions {
	return renderOptions{
		flattenTolerance: DefaultFlattenTolerance,
		tileSize:         64,
		supersample:      2,
		strokeWidth:      DefaultStrokeWidth,
		strokeStyle:      DefaultStrokeStyle(),
		fillRule:         FillEvenOdd,
	}
}

// WithFlattenTolerance overrides the curve-flattening tolerance in
// device pixels.
func WithFlattenTolerance(tol float64) RenderOption {
	return func(o *renderOptions) {
		if tol > 0 {
			o.flattenTolerance = tol
		}
	}
}

// WithTileSize overrides the tile binner's tile size (clamped to the
// documented range 16-128).
func WithTileSize(size int) RenderOption {
	return func(o *renderOptions) {
		if size < 16 {
			size = 16
		}
		if size > 128 {
			size = 128
		}
		o.tileSize = size
	}
}

// WithSupersample overrides the SSAA sample grid; valid values are
// {1,2,4}, anything else is clamped to the nearest valid value.
func WithSupersample(ss int) RenderOption {
	return func(o *renderOptions) {
		switch {
		case ss <= 1:
			o.supersample = 1
		case ss <= 2:
			o.supersample = 2
		default:
			o.supersample = 4
		}
	}
}

// WithDefaultStroke overrides the default stroke width and style used
// when strokePath omits them.
func WithDefaultStroke(width float64, style StrokeStyle) RenderOption {
	return func(o *renderOptions) {
		o.strokeWidth = width
		o.strokeStyle = style
	}
}

// WithDefaultFillRule overrides the default fill rule used when
// fillPath omits one.
func WithDefaultFillRule(rule FillRule) RenderOption {
	return func(o *renderOptions) {
		o.fillRule = rule
	}
}

// RenderConfig is the resolved form of a RenderOption chain, exported so
// packages outside vraster (scene, driver) can apply options without
// reaching into the private renderOptions type.
type RenderConfig struct {
	FlattenTolerance float64
	TileSize         int
	Supersample      int
	StrokeWidth      float64
	StrokeStyle      StrokeStyle
	FillRule         FillRule
}

// ResolveRenderOptions applies opts over the section 6 defaults and
// returns the result. scene.NewPacker calls this rather than re-deriving
// its own zero-value defaulting; driver.NewFrameDriver forwards its opts
// to every Packer it creates.
func ResolveRenderOptions(opts ...RenderOption) RenderConfig {
	o := defaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return RenderConfig{
		FlattenTolerance: o.flattenTolerance,
		TileSize:         o.tileSize,
		Supersample:      o.supersample,
		StrokeWidth:      o.strokeWidth,
		StrokeStyle:      o.strokeStyle,
		FillRule:         o.fillRule,
	}
}
