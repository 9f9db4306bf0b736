package raster

import "testing"

func TestPointInsideEvenOddSquare(t *testing.T) {
	verts := []float32{0, 0, 10, 0, 10, 10, 0, 10}
	if !pointInsideEvenOdd(verts, 5, 5) {
		t.Fatal("center of square should be inside")
	}
	if pointInsideEvenOdd(verts, 15, 5) {
		t.Fatal("point outside square should not be inside")
	}
}

func TestPointInsideEvenOddDonutBridge(t *testing.T) {
	// Outer ring (0,0)-(100,100) with a closing duplicate, then inner
	// ring (25,75)-(75,25) with a closing duplicate, concatenated: the
	// two bridge edges between contours must cancel.
	verts := []float32{
		0, 0, 100, 0, 100, 100, 0, 100, 0, 0,
		25, 75, 75, 75, 75, 25, 25, 25, 25, 75,
	}
	if pointInsideEvenOdd(verts, 50, 50) {
		t.Fatal("center of donut hole should be outside")
	}
	if !pointInsideEvenOdd(verts, 10, 50) {
		t.Fatal("ring area should be inside")
	}
}

func TestPointInsideNonZeroWinding(t *testing.T) {
	verts := []float32{0, 0, 10, 0, 10, 10, 0, 10}
	if !pointInsideNonZero(verts, 5, 5) {
		t.Fatal("center of square should be inside under non-zero rule")
	}
}
