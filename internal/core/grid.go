package core

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// Contains reports whether (x, y) lies inside the grid.
func (g *ByteGrid) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// Set writes v at (x, y) and ignores coordinates outside the grid.
func (g *ByteGrid) Set(x, y int, v uint8) {
	if g.Contains(x, y) {
		g.data[g.Index(x, y)] = v
	}
}
