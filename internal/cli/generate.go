// Package cli — generate.go implements lattice generation, the action of
// the root "htse-lattice" command.
//
// Orchestration steps:
//  1. Merge the optional --config file with explicitly set flags
//  2. Validate the merged options (cell counts, format, workers)
//  3. Load and validate the bond-template file
//  4. Expand the template over the requested block of cells
//  5. Render the lattice and write it to stdout or the --output file
package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/htse-lattice/internal/config"
	"github.com/shinji-kodama/htse-lattice/internal/format"
	"github.com/shinji-kodama/htse-lattice/internal/lattice"
	"github.com/shinji-kodama/htse-lattice/internal/model"
	"github.com/shinji-kodama/htse-lattice/internal/template"
)

// defaultLatticeName is the header label used when none is given.
const defaultLatticeName = "some lattice"

// cellAxes is the number of values --cells takes.
const cellAxes = 3

// generateFlags holds the flag values for lattice generation.
// These are bound to cobra flags in registerGenerateFlags.
type generateFlags struct {
	cells   []int  // --cells: number of cells along the three axes
	lattice string // --lattice: label printed in the header
	format  string // --format: htse, yaml or json
	workers int    // --workers: expansion goroutines (0 = all CPUs)
	output  string // --output: destination file instead of stdout
	config  string // --config: run-configuration file
}

// generateOptions is the result of merging config file values and flags.
type generateOptions struct {
	template string
	dims     model.Dimensions
	lattice  string
	format   model.OutputFormat
	workers  int
	output   string
}

// registerGenerateFlags binds the generation flags to the root command.
func registerGenerateFlags(cmd *cobra.Command, flags *generateFlags) {
	cmd.Flags().IntSliceVarP(&flags.cells, "cells", "c", nil,
		"The number of cells along three dimensions, e.g. 3 3 1 or 3,3,1 (required unless set in --config)")
	cmd.Flags().StringVarP(&flags.lattice, "lattice", "l", defaultLatticeName,
		"The name of the lattice printed in the header")
	cmd.Flags().StringVar(&flags.format, "format", string(model.FormatHTSE),
		"Output format: htse, yaml, json (--json implies json)")
	cmd.Flags().IntVar(&flags.workers, "workers", 1,
		"Goroutines used for expansion; 0 uses all CPUs")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Write the lattice to this file instead of stdout")
	cmd.Flags().StringVar(&flags.config, "config", "",
		"Run-configuration file (.json, .jsonc, .yaml, .yml, .toml)")
}

// generateArgs accepts at most one positional argument, the template file.
// Whether the template is actually present is checked after the config
// file has been merged.
func generateArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return model.NewCLIError(model.ExitInvalidArguments,
			fmt.Sprintf("expected one template file, got %d arguments", len(args)))
	}
	return nil
}

// normalizeCellsArgs rewrites "-c Nx Ny Nz" and "--cells Nx Ny Nz" into
// "-c Nx,Ny,Nz" so that pflag's slice parser sees a single value. The comma
// and repeated forms pass through unchanged, as does everything after "--".
func normalizeCellsArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		out = append(out, arg)
		if arg != "-c" && arg != "--cells" {
			continue
		}
		if i+cellAxes < len(args) && allIntegers(args[i+1:i+1+cellAxes]) {
			out = append(out, strings.Join(args[i+1:i+1+cellAxes], ","))
			i += cellAxes
		}
	}
	return out
}

// allIntegers reports whether every value parses as a base-10 int.
func allIntegers(values []string) bool {
	for _, v := range values {
		if _, err := strconv.Atoi(v); err != nil {
			return false
		}
	}
	return true
}

// runGenerate is the main orchestration function for lattice generation.
func runGenerate(cmd *cobra.Command, args []string, flags *generateFlags) error {
	// Step 1: Merge config file and flags.
	opts, err := resolveGenerateOptions(cmd, args, flags)
	if err != nil {
		return err
	}
	logger.Debug("Resolved options",
		zap.String("template", opts.template),
		zap.Stringer("cells", opts.dims),
		zap.String("lattice", opts.lattice),
		zap.Stringer("format", opts.format),
		zap.Int("workers", opts.workers))

	// Step 2: Load the bond templates. Every row is validated here; the
	// expander trusts its input.
	templates, err := template.Load(opts.template)
	if err != nil {
		return err
	}
	summary := template.Summarize(templates)
	VerboseLog("Loaded %d bond templates with %d spins per cell", summary.Templates, summary.SpinsPerCell)
	warnMissingSpins(opts.template, summary)
	if err := lattice.CheckSize(opts.dims, summary.SpinsPerCell, len(templates)); err != nil {
		return model.WrapCLIError(model.ExitInvalidArguments, "invalid --cells", err)
	}

	// Step 3: Expand. Formatting starts only after the whole bond list
	// exists, so a failure here never leaves partial output behind.
	l, err := lattice.Build(cmd.Context(), opts.lattice, templates, opts.dims, opts.workers)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "lattice expansion failed", err)
	}
	VerboseLog("Expanded %d cells into %d sites and %d bonds", opts.dims.Cells(), l.Sites(), len(l.Bonds))

	// Step 4: Render into memory, then write in one go.
	var buf bytes.Buffer
	if err := format.Write(&buf, opts.format, l); err != nil {
		return model.WrapCLIError(model.ExitOutputFailed, "failed to render lattice", err)
	}
	return writeOutput(cmd.OutOrStdout(), opts.output, buf.Bytes())
}

// resolveGenerateOptions merges defaults, the config file and flags.
// Precedence: explicitly set flag > config file > flag default.
func resolveGenerateOptions(cmd *cobra.Command, args []string, flags *generateFlags) (*generateOptions, error) {
	cfg := &config.Config{}
	if flags.config != "" {
		loaded, err := config.Load(flags.config)
		if err != nil {
			return nil, err
		}
		if errs := loaded.Validate(); len(errs) > 0 {
			return nil, model.WrapCLIError(model.ExitConfigInvalid,
				fmt.Sprintf("invalid config file %s", flags.config), &errs[0])
		}
		cfg = loaded
		VerboseLog("Loaded config file %s", flags.config)
	}

	changed := cmd.Flags().Changed

	templatePath := cfg.Template
	if len(args) == 1 {
		templatePath = args[0]
	}
	if templatePath == "" {
		return nil, model.NewCLIError(model.ExitInvalidArguments,
			"the template file is required (positional argument or \"template\" in --config)")
	}

	cells := cfg.Cells
	if changed("cells") {
		cells = flags.cells
	}
	if cells == nil {
		return nil, model.NewCLIError(model.ExitInvalidArguments,
			"the cell counts are required (--cells Nx Ny Nz or \"cells\" in --config)")
	}
	dims, err := model.NewDimensions(cells)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidArguments, "invalid --cells", err)
	}
	if dims.IsDegenerate() {
		return nil, model.NewCLIError(model.ExitInvalidArguments,
			fmt.Sprintf("cell counts must be positive, got %s", dims))
	}

	name := flags.lattice
	if !changed("lattice") && cfg.Lattice != "" {
		name = cfg.Lattice
	}

	formatName := flags.format
	switch {
	case changed("format"):
	case cfg.Format != "":
		formatName = cfg.Format
	case IsJSONOutput():
		formatName = string(model.FormatJSON)
	}
	outFormat, err := model.ParseOutputFormat(formatName)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidArguments, "invalid --format", err)
	}

	workers := flags.workers
	if !changed("workers") && cfg.Workers != nil {
		workers = *cfg.Workers
	}
	if workers < 0 {
		return nil, model.NewCLIError(model.ExitInvalidArguments,
			fmt.Sprintf("--workers must not be negative, got %d", workers))
	}
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	output := flags.output
	if !changed("output") && cfg.Output != "" {
		output = cfg.Output
	}

	return &generateOptions{
		template: templatePath,
		dims:     dims,
		lattice:  name,
		format:   outFormat,
		workers:  workers,
		output:   output,
	}, nil
}

// warnMissingSpins logs one warning per spin index that no bond touches.
// The spin count still follows 1 + max index; gaps are not an error.
func warnMissingSpins(path string, s template.Summary) {
	for _, spin := range s.MissingSpins {
		logger.Warn("Spin index not referenced by any bond",
			zap.String("template", path),
			zap.Int("spin", spin),
			zap.Int("spinsPerCell", s.SpinsPerCell))
	}
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		if _, err := stdout.Write(data); err != nil {
			return model.WrapCLIError(model.ExitOutputFailed, "failed to write lattice", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return model.WrapCLIError(model.ExitOutputFailed,
			fmt.Sprintf("failed to write lattice to %s", path), err)
	}
	VerboseLog("Wrote lattice to %s", path)
	return nil
}
