// Package format renders an expanded lattice for output.
//
// The HTSE format is the line-oriented text read by the high-temperature
// series expansion code of A. Lohmann and J. Richter; its header lines and
// field order must be kept for the solver to accept the file. YAML and JSON
// renderings carry the same data for scripting and inspection.
package format
