package vraster

// FillRule selects how the point-in-polygon test interprets edge
// crossings. Even-odd counts parity; non-zero sums signed crossings.
type FillRule uint32

const (
	FillEvenOdd FillRule = 0
	FillNonZero FillRule = 1
)
