// Package cli — cli_test.go runs the cobra commands end to end against the
// fixtures in tests/testdata, capturing stdout and stderr in buffers.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/htse-lattice/internal/model"
)

// testdataPath returns the absolute path to a fixture under tests/testdata.
func testdataPath(t *testing.T, elem ...string) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed to return file info")

	parts := append([]string{filepath.Dir(filename), "..", "..", "tests", "testdata"}, elem...)
	return filepath.Join(parts...)
}

// runCLI executes a fresh root command with args and returns stdout,
// stderr and the exit code.
func runCLI(t *testing.T, args ...string) (string, string, model.ExitCode) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	code := execute(cmd, args)
	return stdout.String(), stderr.String(), code
}

// bondLines returns the bond rows of an HTSE document.
func bondLines(t *testing.T, out string) []string {
	t.Helper()

	_, body, ok := strings.Cut(out, "# Bond s1 s2\n")
	require.True(t, ok, "missing bond section in:\n%s", out)
	body, _, ok = strings.Cut(body, "# end of file")
	require.True(t, ok, "missing end marker in:\n%s", out)

	return strings.Split(strings.TrimSuffix(body, "\n"), "\n")
}

// TestGenerate_KagomeGolden verifies the HTSE output byte for byte.
func TestGenerate_KagomeGolden(t *testing.T) {
	want, err := os.ReadFile(testdataPath(t, "golden", "kagome-1x1x1.htse"))
	require.NoError(t, err)

	stdout, stderr, code := runCLI(t, testdataPath(t, "templates", "kagome.dat"), "-c", "1,1,1", "-l", "kagome")
	require.Equal(t, model.ExitSuccess, code, stderr)
	assert.Equal(t, string(want), stdout)
	assert.Empty(t, stderr)
}

// TestGenerate_RepeatedCellsFlag verifies the "-c 2 -c 1 -c 1" form and
// the wrap of cell (1,0,0) back to (0,0,0).
func TestGenerate_RepeatedCellsFlag(t *testing.T) {
	stdout, stderr, code := runCLI(t, testdataPath(t, "templates", "kagome.dat"), "-c", "2", "-c", "1", "-c", "1")
	require.Equal(t, model.ExitSuccess, code, stderr)

	assert.True(t, strings.HasPrefix(stdout, "# some lattice N=6, lattice 2x1x1,periodic boundary conditions\n"))
	assert.Contains(t, stdout, "\n  6  12  3\n")

	lines := bondLines(t, stdout)
	require.Len(t, lines, 12)
	assert.Equal(t, "  3  0  4 j1", lines[3])
	assert.Equal(t, "  9  3  1 j1", lines[9])
}

// TestGenerate_SpaceSeparatedCells verifies the "-c Nx Ny Nz" form with
// the flag on either side of the template path.
func TestGenerate_SpaceSeparatedCells(t *testing.T) {
	kagome := testdataPath(t, "templates", "kagome.dat")

	tests := []struct {
		name string
		args []string
	}{
		{"flag after template", []string{kagome, "-c", "2", "1", "1"}},
		{"flag before template", []string{"-c", "2", "1", "1", kagome}},
		{"long flag", []string{"--cells", "2", "1", "1", kagome}},
		{"followed by flags", []string{kagome, "-c", "2", "1", "1", "-l", "some lattice"}},
		{"comma form", []string{kagome, "-c", "2,1,1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCLI(t, tt.args...)
			require.Equal(t, model.ExitSuccess, code, stderr)

			assert.True(t, strings.HasPrefix(stdout, "# some lattice N=6, lattice 2x1x1,"), stdout)
			lines := bondLines(t, stdout)
			require.Len(t, lines, 12)
			assert.Equal(t, "  9  3  1 j1", lines[9])
		})
	}
}

// TestNormalizeCellsArgs verifies which argument lists are rewritten.
func TestNormalizeCellsArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"short", []string{"t.dat", "-c", "2", "1", "1"}, []string{"t.dat", "-c", "2,1,1"}},
		{"long", []string{"--cells", "3", "3", "1", "t.dat"}, []string{"--cells", "3,3,1", "t.dat"}},
		{"negative", []string{"-c", "-1", "2", "2"}, []string{"-c", "-1,2,2"}},
		{"comma", []string{"-c", "2,1,1", "t.dat"}, []string{"-c", "2,1,1", "t.dat"}},
		{"repeated", []string{"-c", "2", "-c", "1", "-c", "1"}, []string{"-c", "2", "-c", "1", "-c", "1"}},
		{"two values", []string{"t.dat", "-c", "2", "1"}, []string{"t.dat", "-c", "2", "1"}},
		{"non-integer", []string{"-c", "2", "1", "t.dat"}, []string{"-c", "2", "1", "t.dat"}},
		{"after terminator", []string{"--", "-c", "2", "1", "1"}, []string{"--", "-c", "2", "1", "1"}},
		{"other flag", []string{"-l", "2", "1", "1"}, []string{"-l", "2", "1", "1"}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeCellsArgs(tt.args))
		})
	}
}

// TestGenerate_ArgumentErrors verifies that boundary validation maps to
// the invalid-arguments exit code and an "Error:" line on stderr.
func TestGenerate_ArgumentErrors(t *testing.T) {
	kagome := testdataPath(t, "templates", "kagome.dat")

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"missing cells", []string{kagome}, "cell counts are required"},
		{"two cells", []string{kagome, "-c", "2,2"}, "expected 3 cell counts, got 2"},
		{"zero cells", []string{kagome, "-c", "2,0,1"}, "cell counts must be positive"},
		{"non-integer cells", []string{kagome, "-c", "a,b,c"}, "invalid arguments"},
		{"missing template", []string{"-c", "1,1,1"}, "template file is required"},
		{"two templates", []string{kagome, kagome, "-c", "1,1,1"}, "expected one template file, got 2"},
		{"unknown format", []string{kagome, "-c", "1,1,1", "--format", "xml"}, "invalid output format"},
		{"negative workers", []string{kagome, "-c", "1,1,1", "--workers", "-2"}, "must not be negative"},
		{"unknown flag", []string{kagome, "-c", "1,1,1", "--periodic"}, "unknown flag"},
		{"cells overflow", []string{kagome, "-c", "3037000500,3037000500,2"}, "lattice too large"},
		{"too many bonds", []string{kagome, "-c", "4096", "4096", "1"}, "bonds per cell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCLI(t, tt.args...)
			assert.Equal(t, model.ExitInvalidArguments, code)
			assert.Empty(t, stdout)
			assert.True(t, strings.HasPrefix(stderr, "Error: "), stderr)
			assert.Contains(t, stderr, tt.message)
		})
	}
}

// TestGenerate_TemplateErrors verifies the template exit codes.
func TestGenerate_TemplateErrors(t *testing.T) {
	_, stderr, code := runCLI(t, testdataPath(t, "templates", "missing.dat"), "-c", "1,1,1")
	assert.Equal(t, model.ExitTemplateNotFound, code)
	assert.Contains(t, stderr, "template file not found")

	stdout, stderr, code := runCLI(t, testdataPath(t, "templates", "bad-columns.dat"), "-c", "1,1,1")
	assert.Equal(t, model.ExitTemplateInvalid, code)
	assert.Empty(t, stdout, "no partial output on invalid input")
	assert.Contains(t, stderr, "line 2: expected 6 columns, got 5")
}

// TestGenerate_JSONError verifies the JSON error object on stderr.
func TestGenerate_JSONError(t *testing.T) {
	_, stderr, code := runCLI(t, testdataPath(t, "templates", "missing.dat"), "-c", "1,1,1", "--json")
	assert.Equal(t, model.ExitTemplateNotFound, code)

	var errObj struct {
		Error struct {
			Message string `json:"message"`
			Detail  string `json:"detail"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stderr), &errObj))
	assert.Contains(t, errObj.Error.Message, "template file not found")
	assert.NotEmpty(t, errObj.Error.Detail)
}

// TestGenerate_StructuredFormats verifies --format yaml and --json.
func TestGenerate_StructuredFormats(t *testing.T) {
	kagome := testdataPath(t, "templates", "kagome.dat")

	stdout, stderr, code := runCLI(t, kagome, "-c", "2,2,1", "--format", "yaml", "-l", "kagome")
	require.Equal(t, model.ExitSuccess, code, stderr)

	var doc struct {
		Lattice string `yaml:"lattice"`
		Sites   int    `yaml:"sites"`
		Bonds   []model.ExpandedBond
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "kagome", doc.Lattice)
	assert.Equal(t, 12, doc.Sites)
	assert.Len(t, doc.Bonds, 24)

	stdout, stderr, code = runCLI(t, kagome, "-c", "2,2,1", "--json")
	require.Equal(t, model.ExitSuccess, code, stderr)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &raw))
	assert.Equal(t, float64(12), raw["sites"])

	// An explicit --format wins over --json.
	stdout, stderr, code = runCLI(t, kagome, "-c", "1,1,1", "--json", "--format", "htse")
	require.Equal(t, model.ExitSuccess, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "# some lattice"))
}

// TestGenerate_ParallelMatchesSequential verifies --workers does not change
// a single byte of output.
func TestGenerate_ParallelMatchesSequential(t *testing.T) {
	kagome := testdataPath(t, "templates", "kagome.dat")

	sequential, _, code := runCLI(t, kagome, "-c", "4,3,2")
	require.Equal(t, model.ExitSuccess, code)

	for _, workers := range []string{"0", "3", "16"} {
		parallel, stderr, code := runCLI(t, kagome, "-c", "4,3,2", "--workers", workers)
		require.Equal(t, model.ExitSuccess, code, stderr)
		assert.Equal(t, sequential, parallel, "workers=%s", workers)
	}
}

// TestGenerate_Config verifies config-file driven runs and that explicit
// flags override config values.
func TestGenerate_Config(t *testing.T) {
	cfg := testdataPath(t, "config", "run.toml")

	stdout, stderr, code := runCLI(t, "--config", cfg)
	require.Equal(t, model.ExitSuccess, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "# kagome chain N=6, lattice 2x1x1,"))
	assert.Len(t, bondLines(t, stdout), 12)

	stdout, stderr, code = runCLI(t, "--config", cfg, "-c", "1,1,1", "-l", "override")
	require.Equal(t, model.ExitSuccess, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "# override N=3, lattice 1x1x1,"))

	// The positional template replaces the configured one.
	stdout, stderr, code = runCLI(t, "--config", cfg, testdataPath(t, "templates", "square-j1j2.dat"))
	require.Equal(t, model.ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "\n  2   8  1\n")
}

// TestGenerate_ConfigAllCPUs verifies that "workers = 0" in a config file
// selects every CPU instead of falling back to the flag default.
func TestGenerate_ConfigAllCPUs(t *testing.T) {
	sequential, _, code := runCLI(t, testdataPath(t, "templates", "kagome.dat"), "-c", "4,3,2")
	require.Equal(t, model.ExitSuccess, code)

	stdout, stderr, code := runCLI(t, "--config", testdataPath(t, "config", "all-cpus.toml"), "--verbose")
	require.Equal(t, model.ExitSuccess, code, stderr)
	assert.Equal(t, sequential, stdout)
	assert.Contains(t, stderr, fmt.Sprintf(`"workers":%d`, runtime.GOMAXPROCS(0)))
}

// TestGenerate_ConfigErrors verifies invalid configs map to
// ExitConfigInvalid.
func TestGenerate_ConfigErrors(t *testing.T) {
	_, stderr, code := runCLI(t, "--config", testdataPath(t, "config", "invalid.yaml"))
	assert.Equal(t, model.ExitConfigInvalid, code)
	assert.Contains(t, stderr, "cells")

	_, _, code = runCLI(t, "--config", testdataPath(t, "config", "unknown-key.json"))
	assert.Equal(t, model.ExitConfigInvalid, code)
}

// TestGenerate_OutputFile verifies -o writes the file and leaves stdout
// empty.
func TestGenerate_OutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "square.htse")

	stdout, stderr, code := runCLI(t,
		"--config", testdataPath(t, "config", "run.yaml"),
		"-o", out,
	)
	require.Equal(t, model.ExitSuccess, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# square J1-J2 N=16, lattice 4x4x1,"))
	assert.Len(t, bondLines(t, string(data)), 64)
}

// TestGenerate_MissingSpinWarning verifies that a gap in the spin numbering
// is logged but does not fail the run.
func TestGenerate_MissingSpinWarning(t *testing.T) {
	stdout, stderr, code := runCLI(t, testdataPath(t, "templates", "gap.dat"), "-c", "1,1,1")
	require.Equal(t, model.ExitSuccess, code)

	assert.Contains(t, stdout, "\n  3   2  3\n")
	assert.Contains(t, stderr, "Spin index not referenced by any bond")
	assert.Contains(t, stderr, `"spin":1`)
}

// TestGenerate_Verbose verifies debug logs appear only with --verbose.
func TestGenerate_Verbose(t *testing.T) {
	kagome := testdataPath(t, "templates", "kagome.dat")

	_, stderr, code := runCLI(t, kagome, "-c", "1,1,1")
	require.Equal(t, model.ExitSuccess, code)
	assert.Empty(t, stderr)

	_, stderr, code = runCLI(t, kagome, "-c", "1,1,1", "--verbose")
	require.Equal(t, model.ExitSuccess, code)
	assert.Contains(t, stderr, "Loaded 6 bond templates with 3 spins per cell")
	assert.Contains(t, stderr, `"level":"debug"`)
}

// TestVersion verifies the --version output.
func TestVersion(t *testing.T) {
	stdout, _, code := runCLI(t, "--version")
	require.Equal(t, model.ExitSuccess, code)
	assert.Equal(t, "htse-lattice version dev (commit: none, built: unknown)\n", stdout)

	stdout, _, code = runCLI(t, "-v")
	require.Equal(t, model.ExitSuccess, code)
	assert.Contains(t, stdout, "version dev")
}
