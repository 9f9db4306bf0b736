package backend

import (
	"context"
	"testing"

	"github.com/vraster/vraster"
	"github.com/vraster/vraster/raster"
	"github.com/vraster/vraster/scene"
)

func buildScene(t *testing.T) *scene.PackedScene {
	p := scene.NewPacker(100, 100, vraster.WithTileSize(64), vraster.WithSupersample(1), vraster.WithFlattenTolerance(0.35))
	path := vraster.NewPath()
	path.Rect(10, 10, 80, 80)
	p.Fill(path, vraster.Red, vraster.FillEvenOdd)
	scn, err := p.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return scn
}

func TestCPUBackendAutoRegistered(t *testing.T) {
	b := Get(NameCPU)
	if b == nil {
		t.Fatal("cpu backend should be auto-registered")
	}
	if b.Name() != NameCPU {
		t.Errorf("Name() = %q, want %q", b.Name(), NameCPU)
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	if Get("nonexistent") != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryAvailableIncludesCPU(t *testing.T) {
	found := false
	for _, name := range Available() {
		if name == NameCPU {
			found = true
		}
	}
	if !found {
		t.Error("Available() should include the cpu backend")
	}
}

func TestRegistryDefaultFallsBackToCPU(t *testing.T) {
	b := Default()
	if b == nil {
		t.Fatal("Default() returned nil")
	}
	if b.Name() != NameCPU {
		t.Errorf("Default().Name() = %q, want %q (no gpu backend registered)", b.Name(), NameCPU)
	}
}

func TestRegistryMustDefaultDoesNotPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustDefault() panicked: %v", r)
		}
	}()
	if MustDefault() == nil {
		t.Error("MustDefault() returned nil")
	}
}

func TestRegistryUnregisterRoundTrip(t *testing.T) {
	Register("test-backend", func() raster.Backend {
		return raster.NewCPUBackend(1)
	})
	if Get("test-backend") == nil {
		t.Error("test-backend should be registered")
	}
	Unregister("test-backend")
	if Get("test-backend") != nil {
		t.Error("test-backend should be unregistered")
	}
}

func TestDefaultBackendRendersScene(t *testing.T) {
	scn := buildScene(t)
	b := Default()
	img, err := b.Render(context.Background(), scn)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	o := (50*img.Width + 50) * 4
	if img.Pixels[o+3] != 255 {
		t.Error("expected opaque pixel inside the filled rect")
	}
}
