package lattice

import (
	"errors"
	"fmt"

	"github.com/shinji-kodama/htse-lattice/internal/model"
)

// MaxBonds bounds both the bond count and the site count of a lattice
// that Build will expand. Expanded bonds are held in memory in full before
// any output is written.
const MaxBonds = 1 << 25

// ErrTooLarge is returned when a lattice exceeds MaxBonds bonds or sites.
var ErrTooLarge = errors.New("lattice too large")

// CheckSize returns an error wrapping ErrTooLarge when expanding
// ntemplates bonds with nspins spins per cell over dims would produce more
// than MaxBonds bonds or sites. Products that overflow int are reported
// the same way. Degenerate dimensions always pass.
func CheckSize(dims model.Dimensions, nspins, ntemplates int) error {
	cells, ok := boundedProduct(MaxBonds, dims.Nx, dims.Ny, dims.Nz)
	if !ok {
		return fmt.Errorf("%w: %s cells exceed the limit of %d", ErrTooLarge, dims, MaxBonds)
	}
	if _, ok := boundedProduct(MaxBonds, cells, ntemplates); !ok {
		return fmt.Errorf("%w: %d cells x %d bonds per cell exceed the limit of %d bonds",
			ErrTooLarge, cells, ntemplates, MaxBonds)
	}
	if _, ok := boundedProduct(MaxBonds, cells, nspins); !ok {
		return fmt.Errorf("%w: %d cells x %d spins per cell exceed the limit of %d sites",
			ErrTooLarge, cells, nspins, MaxBonds)
	}
	return nil
}

// boundedProduct multiplies factors and reports false once the product
// would exceed limit. A non-positive factor makes the product 0.
func boundedProduct(limit int, factors ...int) (int, bool) {
	for _, f := range factors {
		if f <= 0 {
			return 0, true
		}
	}
	p := 1
	for _, f := range factors {
		if p > limit/f {
			return 0, false
		}
		p *= f
	}
	return p, true
}
