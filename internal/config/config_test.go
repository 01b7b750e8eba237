package config

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/htse-lattice/internal/model"
)

// testdataDir returns the absolute path to the config fixtures.
func testdataDir(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed to return file info")

	return filepath.Join(filepath.Dir(filename), "..", "..", "tests", "testdata", "config")
}

// TestLoad_JSONC verifies comment and trailing-comma stripping and the
// resolution of the template path against the config directory.
func TestLoad_JSONC(t *testing.T) {
	dir := testdataDir(t)

	cfg, err := Load(filepath.Join(dir, "run.jsonc"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "..", "templates", "kagome.dat"), cfg.Template)
	assert.Equal(t, []int{3, 3, 1}, cfg.Cells)
	assert.Equal(t, "kagome", cfg.Lattice)
	assert.Equal(t, "yaml", cfg.Format)
	require.NotNil(t, cfg.Workers)
	assert.Equal(t, 4, *cfg.Workers)
	assert.Empty(t, cfg.Output)
	assert.Empty(t, cfg.Validate())
}

// TestLoad_YAML verifies YAML decoding including the output path.
func TestLoad_YAML(t *testing.T) {
	dir := testdataDir(t)

	cfg, err := Load(filepath.Join(dir, "run.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "..", "templates", "square-j1j2.dat"), cfg.Template)
	assert.Equal(t, []int{4, 4, 1}, cfg.Cells)
	assert.Equal(t, "square J1-J2", cfg.Lattice)
	assert.Equal(t, "htse", cfg.Format)
	assert.Equal(t, filepath.Join(dir, "square.htse"), cfg.Output)
	assert.Nil(t, cfg.Workers, "workers is unset")
}

// TestLoad_TOML verifies TOML decoding.
func TestLoad_TOML(t *testing.T) {
	dir := testdataDir(t)

	cfg, err := Load(filepath.Join(dir, "run.toml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "..", "templates", "kagome.dat"), cfg.Template)
	assert.Equal(t, []int{2, 1, 1}, cfg.Cells)
	assert.Equal(t, "kagome chain", cfg.Lattice)
	require.NotNil(t, cfg.Workers)
	assert.Equal(t, 2, *cfg.Workers)
}

// TestLoad_ExplicitZeroWorkers verifies that "workers = 0" is kept apart
// from an absent key.
func TestLoad_ExplicitZeroWorkers(t *testing.T) {
	cfg, err := Load(filepath.Join(testdataDir(t), "all-cpus.toml"))
	require.NoError(t, err)

	require.NotNil(t, cfg.Workers)
	assert.Equal(t, 0, *cfg.Workers)
	assert.Empty(t, cfg.Validate())
}

// TestLoad_Errors verifies that every failure maps to ExitConfigInvalid.
func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"missing file", "does-not-exist.yaml"},
		{"unknown key", "unknown-key.json"},
		{"unsupported extension", "../templates/kagome.dat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(filepath.Join(testdataDir(t), tt.file))
			require.Error(t, err)

			var cliErr *model.CLIError
			require.True(t, errors.As(err, &cliErr))
			assert.Equal(t, model.ExitConfigInvalid, cliErr.Code)
		})
	}
}

// TestDecode_AbsolutePathsUntouched verifies resolve leaves absolute and
// stdout paths alone.
func TestDecode_AbsolutePathsUntouched(t *testing.T) {
	assert.Equal(t, "/abs/kagome.dat", resolve("/etc", "/abs/kagome.dat"))
	assert.Equal(t, "-", resolve("/etc", "-"))
	assert.Equal(t, "", resolve("/etc", ""))
	assert.Equal(t, filepath.Join("/etc", "k.dat"), resolve("/etc", "k.dat"))
}

// TestValidate checks the rules applied to values that are set.
func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(testdataDir(t), "invalid.yaml"))
	require.NoError(t, err)

	errs := cfg.Validate()
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"cells", "format", "workers"}, fields)

	cfg = &Config{Cells: []int{2, 0, -1}}
	errs = cfg.Validate()
	require.Len(t, errs, 2)
	assert.Equal(t, "cells[1]", errs[0].Field)
	assert.Equal(t, "cells[2]", errs[1].Field)
	assert.Contains(t, errs[1].Error(), "must be positive")

	assert.Empty(t, (&Config{}).Validate())
}
