package lattice

import "github.com/shinji-kodama/htse-lattice/internal/model"

// Wrap returns (base + offset) mod n, always in [0, n).
// Go's % keeps the sign of the dividend, so negative sums are shifted back
// into range. Offsets may span any number of periods. n must be positive.
func Wrap(base, offset, n int) int {
	r := (base + offset) % n
	if r < 0 {
		r += n
	}
	return r
}

// WrapCell translates c by offset and wraps each axis independently into
// the block described by dims.
func WrapCell(c model.Cell, offset model.Vector, dims model.Dimensions) model.Cell {
	return model.Cell{
		X: Wrap(c.X, offset.X, dims.Nx),
		Y: Wrap(c.Y, offset.Y, dims.Ny),
		Z: Wrap(c.Z, offset.Z, dims.Nz),
	}
}
