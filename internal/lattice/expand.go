package lattice

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/shinji-kodama/htse-lattice/internal/model"
	"github.com/shinji-kodama/htse-lattice/internal/template"
)

// Expand enumerates every bond of the expanded lattice.
//
// Cells are visited z outer, y middle, x inner, which is the order of the
// flat cell index, and each cell emits one bond per template in file order.
// The result holds exactly Cells()*len(templates) bonds whose Index values
// run 0, 1, 2, ... without gaps. Degenerate dimensions yield an empty slice.
//
// Expand does not validate its input: templates referencing spins outside
// [0, nspins) produce colliding indices instead of an error, and sizes are
// not bounded. Build checks sizes with CheckSize first.
func Expand(templates []model.BondTemplate, nspins int, dims model.Dimensions) []model.ExpandedBond {
	bonds := make([]model.ExpandedBond, dims.Cells()*len(templates))
	if len(bonds) == 0 {
		return bonds
	}

	ix := NewIndexer(nspins, dims)
	for z := 0; z < dims.Nz; z++ {
		for y := 0; y < dims.Ny; y++ {
			expandRow(ix, templates, y, z, bonds)
		}
	}
	return bonds
}

// ExpandParallel computes the same bond list as Expand using up to workers
// goroutines. Work is split into rows of constant (y, z); each row writes a
// disjoint region of the preallocated result, so the output is identical to
// Expand regardless of scheduling.
//
// Cancelling ctx stops scheduling new rows and returns ctx.Err(). With
// workers <= 1 the sequential path is used.
func ExpandParallel(ctx context.Context, templates []model.BondTemplate, nspins int, dims model.Dimensions, workers int) ([]model.ExpandedBond, error) {
	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Expand(templates, nspins, dims), nil
	}

	bonds := make([]model.ExpandedBond, dims.Cells()*len(templates))
	if len(bonds) == 0 {
		return bonds, nil
	}

	ix := NewIndexer(nspins, dims)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for z := 0; z < dims.Nz; z++ {
		for y := 0; y < dims.Ny; y++ {
			if egCtx.Err() != nil {
				break
			}
			y, z := y, z
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				expandRow(ix, templates, y, z, bonds)
				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	// A cancellation that landed between the last Go and Wait leaves no
	// task error behind; check the parent explicitly.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return bonds, nil
}

// expandRow writes the bonds of all cells (0..Nx-1, y, z) into out at their
// global bond indices.
func expandRow(ix Indexer, templates []model.BondTemplate, y, z int, out []model.ExpandedBond) {
	n := len(templates)
	for x := 0; x < ix.Dims.Nx; x++ {
		c := model.Cell{X: x, Y: y, Z: z}
		base := ix.Cell(c) * n
		for pos, t := range templates {
			dest := WrapCell(c, t.Offset, ix.Dims)
			out[base+pos] = model.ExpandedBond{
				Index: base + pos,
				I:     ix.Spin(t.SpinI, c),
				J:     ix.Spin(t.SpinJ, dest),
				Name:  t.ExchangeName(),
			}
		}
	}
}

// Build expands templates over dims and bundles the result with the header
// metadata. The spins-per-cell count is derived from the templates
// themselves (1 + the largest spin index). Lattices larger than MaxBonds
// are rejected with ErrTooLarge.
func Build(ctx context.Context, name string, templates []model.BondTemplate, dims model.Dimensions, workers int) (*model.Lattice, error) {
	nspins := template.SpinCount(templates)
	if err := CheckSize(dims, nspins, len(templates)); err != nil {
		return nil, err
	}

	bonds, err := ExpandParallel(ctx, templates, nspins, dims, workers)
	if err != nil {
		return nil, err
	}

	return &model.Lattice{
		Name:         name,
		Dimensions:   dims,
		SpinsPerCell: nspins,
		Templates:    len(templates),
		Bonds:        bonds,
	}, nil
}
