package model

import (
	"fmt"
	"strings"
)

// Vector is a signed integer 3-vector. It is used for cell translations in
// bond templates, where components may be negative or span several cells.
type Vector struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

// Cell is the coordinate of one replicated unit cell inside the expanded
// block. Valid cells satisfy 0 <= X < Nx, 0 <= Y < Ny, 0 <= Z < Nz.
type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

// String renders the cell as "(x,y,z)" for log and error messages.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Dimensions is the number of replicated cells along each axis.
type Dimensions struct {
	Nx int `json:"nx" yaml:"nx"`
	Ny int `json:"ny" yaml:"ny"`
	Nz int `json:"nz" yaml:"nz"`
}

// NewDimensions builds Dimensions from a three-element slice, as produced by
// the --cells flag or the "cells" key of a config file.
func NewDimensions(cells []int) (Dimensions, error) {
	if len(cells) != 3 {
		return Dimensions{}, fmt.Errorf("expected 3 cell counts, got %d", len(cells))
	}
	return Dimensions{Nx: cells[0], Ny: cells[1], Nz: cells[2]}, nil
}

// Cells returns Nx*Ny*Nz, or 0 when the dimensions are degenerate.
func (d Dimensions) Cells() int {
	if d.IsDegenerate() {
		return 0
	}
	return d.Nx * d.Ny * d.Nz
}

// IsDegenerate reports whether any axis has a non-positive cell count.
// Expanding over degenerate dimensions yields an empty bond list.
func (d Dimensions) IsDegenerate() bool {
	return d.Nx <= 0 || d.Ny <= 0 || d.Nz <= 0
}

// Contains reports whether c lies inside the block.
func (d Dimensions) Contains(c Cell) bool {
	return c.X >= 0 && c.X < d.Nx &&
		c.Y >= 0 && c.Y < d.Ny &&
		c.Z >= 0 && c.Z < d.Nz
}

// String returns the "NxxNyxNz" form used in the HTSE header.
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%dx%d", d.Nx, d.Ny, d.Nz)
}

// BondTemplate is one row of the bond-template file: an exchange bond
// between two spins of the origin cell, where the SpinJ endpoint lives in
// the cell translated by Offset.
type BondTemplate struct {
	// Exchange identifies the exchange class (0 = nearest neighbour, ...).
	// Templates sharing a class share an exchange name in the output.
	Exchange int `json:"exchange" yaml:"exchange"`

	// SpinI is the first endpoint, a spin index of the origin cell.
	SpinI int `json:"spinI" yaml:"spinI"`

	// SpinJ is the second endpoint, a spin index of the cell at Offset.
	SpinJ int `json:"spinJ" yaml:"spinJ"`

	// Offset is the cell translation of SpinJ relative to SpinI's cell.
	Offset Vector `json:"offset" yaml:"offset"`
}

// ExchangeName returns the 1-based label of the exchange class:
// 0 -> "j1", 1 -> "j2" and so on.
func ExchangeName(exchange int) string {
	return fmt.Sprintf("j%d", 1+exchange)
}

// ExchangeName returns the label of the template's exchange class.
func (t BondTemplate) ExchangeName() string {
	return ExchangeName(t.Exchange)
}

// ExpandedBond is one bond of the expanded lattice.
type ExpandedBond struct {
	// Index is the global bond index, dense over [0, cells*templates).
	Index int `json:"index" yaml:"index"`

	// I is the global spin index of the first endpoint.
	I int `json:"i" yaml:"i"`

	// J is the global spin index of the second endpoint after wrapping.
	J int `json:"j" yaml:"j"`

	// Name is the exchange label, e.g. "j1".
	Name string `json:"name" yaml:"name"`
}

// Lattice bundles the result of an expansion with the metadata the
// formatters need for the header.
type Lattice struct {
	// Name is the free-form label printed in the header comment.
	Name string

	// Dimensions is the cell-count vector the lattice was expanded over.
	Dimensions Dimensions

	// SpinsPerCell is the number of spins in one unit cell.
	SpinsPerCell int

	// Templates is the number of bond templates per cell.
	Templates int

	// Bonds is the full ordered bond list.
	Bonds []ExpandedBond
}

// Sites returns the total number of spins in the expanded lattice.
func (l *Lattice) Sites() int {
	return l.Dimensions.Cells() * l.SpinsPerCell
}

// CentralCellSites returns the global indices of the spins of the (0,0,0)
// cell, which are exactly 0..SpinsPerCell-1.
func (l *Lattice) CentralCellSites() []int {
	sites := make([]int, l.SpinsPerCell)
	for i := range sites {
		sites[i] = i
	}
	return sites
}

// OutputFormat selects how the expanded lattice is rendered.
type OutputFormat string

const (
	// FormatHTSE is the line-oriented text format read by the HTSE solver.
	FormatHTSE OutputFormat = "htse"

	// FormatYAML renders the lattice as a YAML document.
	FormatYAML OutputFormat = "yaml"

	// FormatJSON renders the lattice as indented JSON.
	FormatJSON OutputFormat = "json"
)

// String returns the string representation of OutputFormat.
func (f OutputFormat) String() string {
	return string(f)
}

// IsValid checks whether the OutputFormat value is one of the
// predefined formats.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatHTSE, FormatYAML, FormatJSON:
		return true
	default:
		return false
	}
}

// ParseOutputFormat converts a string to an OutputFormat.
// Returns an error if the string does not match any valid format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(s))
	if !format.IsValid() {
		return "", fmt.Errorf("invalid output format: %q (valid: htse, yaml, json)", s)
	}
	return format, nil
}
