package scene

import "math"

// binningScratch holds the counts/offsets/cursors buffers the tile
// binner reuses across frames, avoiding per-frame allocation at large
// tile counts.
type binningScratch struct {
	counts  []uint32
	offsets []uint32
	cursors []uint32
}

var scratchPool = make(chan *binningScratch, 4)

func getScratch(tileCount int) *binningScratch {
	select {
	case s := <-scratchPool:
		if cap(s.counts) < tileCount {
			s.counts = make([]uint32, tileCount)
		} else {
			s.counts = s.counts[:tileCount]
			for i := range s.counts {
				s.counts[i] = 0
			}
		}
		if cap(s.offsets) < tileCount {
			s.offsets = make([]uint32, tileCount)
		} else {
			s.offsets = s.offsets[:tileCount]
		}
		if cap(s.cursors) < tileCount {
			s.cursors = make([]uint32, tileCount)
		} else {
			s.cursors = s.cursors[:tileCount]
		}
		return s
	default:
		return &binningScratch{
			counts:  make([]uint32, tileCount),
			offsets: make([]uint32, tileCount),
			cursors: make([]uint32, tileCount),
		}
	}
}

func putScratch(s *binningScratch) {
	select {
	case scratchPool <- s:
	default:
	}
}

type tileRange struct {
	minTx, maxTx, minTy, maxTy int
	empty                      bool
}

// BinTiles runs the tile-binning steps over a scene's shape records:
// AABB per shape, per-tile counts, exclusive scan, and a scatter pass
// that preserves submission order within every tile. Interleaving the
// offsets and counts into TileOffsetCounts is left to the caller.
func BinTiles(scn *PackedScene, canvasW, canvasH, tileSize uint32) (offsets, counts, indices []uint32) {
	tilesX := int(ceilDiv(canvasW, tileSize))
	tilesY := int(ceilDiv(canvasH, tileSize))
	tileCount := tilesX * tilesY
	if tileCount <= 0 {
		return nil, nil, nil
	}

	scratch := getScratch(tileCount)
	defer putScratch(scratch)

	ranges := make([]tileRange, len(scn.Shapes))
	for i, sh := range scn.Shapes {
		r := shapeTileRange(scn, &sh, tilesX, tilesY, int(tileSize))
		ranges[i] = r
		if r.empty {
			continue
		}
		for ty := r.minTy; ty <= r.maxTy; ty++ {
			for tx := r.minTx; tx <= r.maxTx; tx++ {
				scratch.counts[ty*tilesX+tx]++
			}
		}
	}

	offsets = make([]uint32, tileCount)
	var total uint32
	for t := 0; t < tileCount; t++ {
		offsets[t] = total
		total += scratch.counts[t]
		scratch.cursors[t] = offsets[t]
	}

	indices = make([]uint32, total)
	for i, r := range ranges {
		if r.empty {
			continue
		}
		for ty := r.minTy; ty <= r.maxTy; ty++ {
			for tx := r.minTx; tx <= r.maxTx; tx++ {
				t := ty*tilesX + tx
				indices[scratch.cursors[t]] = uint32(i)
				scratch.cursors[t]++
			}
		}
	}

	counts = make([]uint32, tileCount)
	copy(counts, scratch.counts)
	return offsets, counts, indices
}

// shapeTileRange computes a shape's AABB over its vCount vertices and
// converts it into a clamped tile range. Shapes with an empty AABB or
// vCount==0 are marked empty and skipped by the caller.
func shapeTileRange(scn *PackedScene, sh *ShapeRecord, tilesX, tilesY, tileSize int) tileRange {
	if sh.VCount == 0 {
		return tileRange{empty: true}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	base := sh.VStart * 2
	for i := uint32(0); i < sh.VCount; i++ {
		x := float64(scn.Verts[base+i*2])
		y := float64(scn.Verts[base+i*2+1])
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	if maxX < minX || maxY < minY {
		return tileRange{empty: true}
	}

	minTx := clampTile(int(math.Floor(minX/float64(tileSize))), tilesX)
	maxTx := clampTile(int(math.Floor(maxX/float64(tileSize))), tilesX)
	minTy := clampTile(int(math.Floor(minY/float64(tileSize))), tilesY)
	maxTy := clampTile(int(math.Floor(maxY/float64(tileSize))), tilesY)
	if maxTx < minTx || maxTy < minTy {
		return tileRange{empty: true}
	}
	return tileRange{minTx: minTx, maxTx: maxTx, minTy: minTy, maxTy: maxTy}
}

func clampTile(v, n int) int {
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
