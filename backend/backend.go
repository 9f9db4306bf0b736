// Package backend selects among registered raster.Backend
// implementations in priority order (GPU first, then the portable CPU
// fallback), mirroring the teacher's own render-backend registry.
package backend

import "errors"

// ErrBackendNotAvailable is returned when no backend is registered.
var ErrBackendNotAvailable = errors.New("backend: not available")
