// Package lattice expands a unit-cell bond template into the bond list of a
// finite Nx×Ny×Nz block of replicated cells with periodic boundary
// conditions.
//
// The core numbering is row-major with the spin index varying fastest:
//
//	cell(x, y, z)     = x + Nx*(y + Ny*z)
//	spin(s, x, y, z)  = s + nspins*cell(x, y, z)
//	bond(cell, t)     = cell*len(templates) + t
//
// Indices 0..nspins-1 are therefore exactly the spins of the (0,0,0) cell,
// and every cell's bonds occupy one contiguous index range. The second
// endpoint of each bond is translated by the template offset and wrapped
// back into the block with a non-negative modulo on each axis.
//
// Everything in this package is a pure function of its inputs. Expand is
// sequential; ExpandParallel partitions the same computation by cell over a
// bounded errgroup and returns an identical slice.
package lattice
