// Package config loads optional run-configuration files for the
// htse-lattice CLI.
//
// A run configuration names the template file, the cell counts and the
// output options so that a lattice can be regenerated with a single
// --config flag. Three encodings are accepted, chosen by file extension:
//
//   - .json / .jsonc: JSON with comments, stripped via github.com/tidwall/jsonc
//   - .yaml / .yml:   gopkg.in/yaml.v3
//   - .toml:          github.com/pelletier/go-toml
//
// Flags given on the command line always take precedence over values read
// from a configuration file; the merge happens in the cli package.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/htse-lattice/internal/model"
)

// Config is the decoded run configuration. Zero values mean "not set".
type Config struct {
	// Template is the path of the bond-template file. Relative paths are
	// resolved against the directory of the configuration file.
	Template string `json:"template" yaml:"template" toml:"template"`

	// Cells holds the three cell counts (Nx, Ny, Nz).
	Cells []int `json:"cells" yaml:"cells" toml:"cells"`

	// Lattice is the label printed in the output header.
	Lattice string `json:"lattice" yaml:"lattice" toml:"lattice"`

	// Format is the output format: htse, yaml or json.
	Format string `json:"format" yaml:"format" toml:"format"`

	// Workers bounds the number of goroutines used for expansion; 0 means
	// all CPUs. Nil when the file does not set it.
	Workers *int `json:"workers" yaml:"workers" toml:"workers"`

	// Output is the path to write the lattice to instead of stdout.
	// Relative paths are resolved like Template.
	Output string `json:"output" yaml:"output" toml:"output"`
}

// Load reads the configuration file at path, decoding it according to its
// extension, and resolves relative paths against the file's directory.
//
// Returns a CLIError with ExitConfigInvalid for unreadable files, unknown
// extensions and decode failures.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitConfigInvalid,
				fmt.Sprintf("config file not found: %s", path),
				err,
			)
		}
		return nil, model.WrapCLIError(model.ExitConfigInvalid, "failed to read config file", err)
	}

	cfg, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitConfigInvalid,
			fmt.Sprintf("failed to parse config file %s", path),
			err,
		)
	}

	dir := filepath.Dir(path)
	cfg.Template = resolve(dir, cfg.Template)
	cfg.Output = resolve(dir, cfg.Output)

	return cfg, nil
}

// Decode parses data using the decoder registered for ext (including the
// leading dot, case-insensitive).
func Decode(data []byte, ext string) (*Config, error) {
	var cfg Config

	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		// Strip // and /* */ comments and trailing commas first.
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config extension %q (valid: .json, .jsonc, .yaml, .yml, .toml)", ext)
	}

	return &cfg, nil
}

// resolve makes p relative to dir unless it is empty, absolute or "-".
func resolve(dir, p string) string {
	if p == "" || p == "-" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
