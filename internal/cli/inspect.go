// Package cli — inspect.go implements the "htse-lattice inspect" command.
//
// The inspect command loads a bond-template file and reports what the
// expander would derive from it (spins per cell, exchange classes, offsets)
// without expanding anything. Spins that no bond references are listed,
// since they usually point at a typo in the template.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/htse-lattice/internal/model"
	"github.com/shinji-kodama/htse-lattice/internal/template"
)

// NewInspectCommand creates the "inspect" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <template-file>",
		Short: "Summarize a bond-template file",
		Long: `Summarize a bond-template file without expanding it.

Reports the number of bonds, the number of spins per unit cell, the exchange
classes with their bond counts, the largest cell offset along each axis and
any spin index that no bond references.

Examples:
  htse-lattice inspect kagome.dat
  htse-lattice inspect kagome.dat --json`,

		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return model.NewCLIError(model.ExitInvalidArguments,
					fmt.Sprintf("expected one template file, got %d arguments", len(args)))
			}
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

// runInspect loads the template at path and prints its summary.
func runInspect(w io.Writer, path string) error {
	templates, err := template.Load(path)
	if err != nil {
		return err
	}

	summary := template.Summarize(templates)
	warnMissingSpins(path, summary)

	if IsJSONOutput() {
		return printInspectResultJSON(w, path, summary)
	}
	printInspectResultText(w, path, summary)
	return nil
}

// printInspectResultJSON outputs the summary as indented JSON.
func printInspectResultJSON(w io.Writer, path string, s template.Summary) error {
	result := struct {
		File string `json:"file"`
		template.Summary
	}{File: path, Summary: s}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitOutputFailed, "failed to encode summary", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printInspectResultText outputs the summary as aligned key/value lines:
//
//	File:            kagome.dat
//	Bonds per cell:  6
//	Spins per cell:  3
//	Exchanges:       j1 (6)
//	Max offset:      1 1 0
//	Missing spins:   -
func printInspectResultText(w io.Writer, path string, s template.Summary) {
	fmt.Fprintf(w, "%-16s %s\n", "File:", path)
	fmt.Fprintf(w, "%-16s %d\n", "Bonds per cell:", s.Templates)
	fmt.Fprintf(w, "%-16s %d\n", "Spins per cell:", s.SpinsPerCell)
	fmt.Fprintf(w, "%-16s %s\n", "Exchanges:", FormatExchanges(s))
	fmt.Fprintf(w, "%-16s %d %d %d\n", "Max offset:", s.MaxOffset.X, s.MaxOffset.Y, s.MaxOffset.Z)
	fmt.Fprintf(w, "%-16s %s\n", "Missing spins:", FormatSpinList(s.MissingSpins))
}

// FormatExchanges renders exchange names with their bond counts in class
// order, e.g. "j1 (2), j2 (2)".
func FormatExchanges(s template.Summary) string {
	if len(s.Exchanges) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(s.Exchanges))
	for _, name := range s.Exchanges {
		parts = append(parts, fmt.Sprintf("%s (%d)", name, s.BondsPerExchange[name]))
	}
	return strings.Join(parts, ", ")
}

// FormatSpinList converts spin indices into a comma-separated string.
// Returns "-" for an empty list.
func FormatSpinList(spins []int) string {
	if len(spins) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(spins))
	for _, s := range spins {
		parts = append(parts, fmt.Sprint(s))
	}
	return strings.Join(parts, ",")
}
