package lattice

import "github.com/shinji-kodama/htse-lattice/internal/model"

// Indexer maps (local spin, cell) pairs to global spin indices.
//
// The spins-per-cell count and the block dimensions are carried explicitly
// so that no numbering helper depends on package-level state.
type Indexer struct {
	// SpinsPerCell is the number of spins in one unit cell.
	SpinsPerCell int

	// Dims is the cell-count vector of the expanded block.
	Dims model.Dimensions
}

// NewIndexer returns an Indexer for nspins spins per cell over dims.
func NewIndexer(nspins int, dims model.Dimensions) Indexer {
	return Indexer{SpinsPerCell: nspins, Dims: dims}
}

// Cell returns the flat index x + Nx*(y + Ny*z) of a cell.
// The same linearization orders both spins and bonds.
func (ix Indexer) Cell(c model.Cell) int {
	return c.X + ix.Dims.Nx*(c.Y+ix.Dims.Ny*c.Z)
}

// Spin returns the global index of local spin s in cell c.
//
// For 0 <= s < SpinsPerCell and c inside Dims the mapping is a bijection
// onto [0, Sites()). Out-of-range input still yields an integer, but it may
// collide with another spin; callers validate templates before expanding.
func (ix Indexer) Spin(s int, c model.Cell) int {
	return s + ix.SpinsPerCell*ix.Cell(c)
}

// Locate inverts Spin: it returns the local spin index and cell of a global
// spin index in [0, Sites()). SpinsPerCell and every axis of Dims must be
// positive; Locate panics with a division by zero otherwise.
func (ix Indexer) Locate(index int) (int, model.Cell) {
	s := index % ix.SpinsPerCell
	flat := index / ix.SpinsPerCell
	c := model.Cell{
		X: flat % ix.Dims.Nx,
		Y: (flat / ix.Dims.Nx) % ix.Dims.Ny,
		Z: flat / (ix.Dims.Nx * ix.Dims.Ny),
	}
	return s, c
}

// Sites returns the number of spins in the expanded block.
func (ix Indexer) Sites() int {
	return ix.SpinsPerCell * ix.Dims.Cells()
}
