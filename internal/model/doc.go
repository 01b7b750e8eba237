// Package model defines the domain types and value objects for the
// htse-lattice CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (BondTemplate, Dimensions, ExpandedBond, Lattice, etc.) are
// immutable values computed in one pass from a bond-template file and a
// cell-count vector. Nothing here is persisted.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
