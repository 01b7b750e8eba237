// Package template reads bond-template files for the htse-lattice CLI.
//
// A template file lists the exchange bonds of one unit cell, one bond per
// row, as six whitespace-separated integers:
//
//	exchange_index spin_i spin_j Tx Ty Tz
//
// Column 1 is the exchange class (starting from 0), columns 2 and 3 are the
// two spins in the original unit cell, and columns 4-6 give the cell that
// accommodates spin_j, assuming spin_i lives in the (0 0 0) cell. Blank
// lines are ignored and '#' starts a comment. For the kagome lattice:
//
//	0 0 1  0  0  0
//	0 0 2  0  0  0
//	0 1 2  0  0  0
//	0 0 1 -1  0  0
//	0 1 2  1 -1  0
//	0 0 2  0 -1  0
//
// Rows are validated once, here; the expander trusts what this package
// returns. The number of spins per cell is 1 + the largest spin index, and
// gaps in the spin numbering are reported by Summarize but never rejected.
package template
