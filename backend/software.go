package backend

import "github.com/vraster/vraster/raster"

// Backend name constants.
const (
	// NameCPU is the portable work-stealing CPU backend, always
	// available as the fallback.
	NameCPU = "cpu"
	// NameGPU is reserved for a GPU compute backend. The GPU driver and
	// surface binding are deliberately out of this module's scope; a
	// hosting application registers its own factory under this name to
	// take selection priority over the CPU backend.
	NameGPU = "gpu"
)

func init() {
	Register(NameCPU, func() raster.Backend {
		return raster.NewCPUBackend(0)
	})
}
