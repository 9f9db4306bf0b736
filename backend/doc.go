// Package backend provides a pluggable rasterizer backend abstraction.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The portable CPU backend is automatically registered on import:
//
//	import _ "github.com/vraster/vraster/backend"
//
// # Backend Selection
//
// Use Default() to get the highest-priority available backend (GPU
// ahead of CPU, when a GPU backend has registered), or Get() to request
// a specific one by name:
//
//	b := backend.Default()
//	img, err := b.Render(ctx, scn)
//
// # Available Backends
//
// - "cpu": work-stealing SSAA rasterizer, always available.
// - "gpu": reserved name a hosting application can register a compute
//   backend under; absent by default since the GPU driver/surface
//   binding is outside this module's scope.
package backend
