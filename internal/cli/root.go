// Package cli implements the cobra-based CLI commands for htse-lattice.
//
// The root command generates an HTSE lattice file from a bond template;
// the inspect subcommand summarises a template without expanding it. This
// file defines the root command, the global flags, logging setup and the
// translation of errors into exit codes.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shinji-kodama/htse-lattice/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput switches command output and error reports to JSON.
	jsonOutput bool

	// verbose lowers the log level to debug.
	verbose bool
)

// logger is replaced in PersistentPreRunE. The no-op default keeps helpers
// safe to call from tests that bypass the root command.
var logger = zap.NewNop()

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself performs the lattice generation; see
// generate.go for its flags and runner.
func NewRootCommand() *cobra.Command {
	flags := &generateFlags{}

	rootCmd := &cobra.Command{
		Use:   "htse-lattice <template-file> -c Nx Ny Nz",
		Short: "Constructs an input file for the HTSE code by A. Lohmann and J. Richter",
		Long: `htse-lattice expands a unit-cell bond template into the bond list of a
finite Nx x Ny x Nz block of cells with periodic boundary conditions, and
writes it in the lattice format read by the high-temperature series
expansion (HTSE) code by A. Lohmann and J. Richter.

The template file has six integer columns per bond:

  Column 1:        index of the respective exchange (starting from 0)
  Column 2:        "i"th spin (in the original unit cell)
  Column 3:        "j"th spin
  Columns 4, 5, 6: the index of the cell accommodating the "j"th spin,
                   assuming that the "i"th spin lives in the (0 0 0) cell

Example: for the kagome lattice, the file is

  0 0 1  0  0  0
  0 0 2  0  0  0
  0 1 2  0  0  0
  0 0 1 -1  0  0
  0 1 2  1 -1  0
  0 0 2  0 -1  0

Examples:
  htse-lattice kagome.dat -c 3 3 1 -l kagome
  htse-lattice kagome.dat -c 3,3,1 -l kagome
  htse-lattice kagome.dat -c 6,6,1 --format yaml -o kagome.yaml
  htse-lattice --config run.yaml`,

		Args: generateArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version / -v is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(cmd.ErrOrStderr(), verbose)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, flags)
		},
	}
	rootCmd.SetVersionTemplate("{{.Name}} version {{.Version}}\n")

	// Flag parsing failures (unknown flags, non-integer cell counts) are
	// argument errors, not general failures.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return model.WrapCLIError(model.ExitInvalidArguments, "invalid arguments", err)
	})

	// PersistentFlags are inherited by all subcommands. No -v shorthand
	// for --verbose: cobra assigns -v to --version.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging on stderr")

	registerGenerateFlags(rootCmd, flags)

	rootCmd.AddCommand(NewInspectCommand())

	return rootCmd
}

// Execute runs the root command and exits with the code of the failure,
// if any. This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	if code := execute(rootCmd, os.Args[1:]); code != model.ExitSuccess {
		os.Exit(int(code))
	}
}

// execute runs rootCmd with args, reports any error on its error stream and
// returns the exit code. CLIError values carry their own exit codes; other
// errors map to ExitGeneralError.
func execute(rootCmd *cobra.Command, args []string) model.ExitCode {
	rootCmd.SetArgs(normalizeCellsArgs(args))
	err := rootCmd.Execute()
	if err == nil {
		return model.ExitSuccess
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(rootCmd.ErrOrStderr(), cliErr.Message, cliErr.Err)
		return cliErr.Code
	}

	printError(rootCmd.ErrOrStderr(), err.Error(), nil)
	return model.ExitGeneralError
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout carries the lattice.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// newLogger builds a production-style JSON logger writing to w. Only
// warnings and errors are shown unless debug is set.
func newLogger(w io.Writer, debug bool) *zap.Logger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core)
}

// VerboseLog emits a debug-level message; it is visible only with
// --verbose.
func VerboseLog(format string, args ...interface{}) {
	logger.Sugar().Debugf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
