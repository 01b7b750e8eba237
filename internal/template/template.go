package template

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shinji-kodama/htse-lattice/internal/model"
)

// columns is the number of integer fields in every template row.
const columns = 6

// ErrNoTemplates indicates the file contained no bond rows at all.
var ErrNoTemplates = errors.New("template file contains no bonds")

// ParseError describes a malformed row of a template file.
type ParseError struct {
	// Line is the 1-based line number of the offending row.
	Line int

	// Message describes what's wrong with the row.
	Message string
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Parse reads bond templates from r in row order. Row order is significant:
// it fixes each template's position and thus the bond numbering.
func Parse(r io.Reader) ([]model.BondTemplate, error) {
	var templates []model.BondTemplate

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		tmpl, err := parseRow(fields)
		if err != nil {
			return nil, &ParseError{Line: line, Message: err.Error()}
		}
		templates = append(templates, tmpl)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read template rows: %w", err)
	}

	if len(templates) == 0 {
		return nil, ErrNoTemplates
	}
	return templates, nil
}

// parseRow converts the six fields of one row into a BondTemplate.
func parseRow(fields []string) (model.BondTemplate, error) {
	if len(fields) != columns {
		return model.BondTemplate{}, fmt.Errorf("expected %d columns, got %d", columns, len(fields))
	}

	var v [columns]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return model.BondTemplate{}, fmt.Errorf("column %d: %q is not an integer", i+1, f)
		}
		v[i] = n
	}

	switch {
	case v[0] < 0:
		return model.BondTemplate{}, fmt.Errorf("exchange index %d must not be negative", v[0])
	case v[1] < 0:
		return model.BondTemplate{}, fmt.Errorf("spin_i %d must not be negative", v[1])
	case v[2] < 0:
		return model.BondTemplate{}, fmt.Errorf("spin_j %d must not be negative", v[2])
	}

	return model.BondTemplate{
		Exchange: v[0],
		SpinI:    v[1],
		SpinJ:    v[2],
		Offset:   model.Vector{X: v[3], Y: v[4], Z: v[5]},
	}, nil
}

// Load reads and parses the template file at path.
//
// Returns a CLIError with ExitTemplateNotFound if the file does not exist
// and ExitTemplateInvalid if it cannot be read or contains a bad row.
func Load(path string) ([]model.BondTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitTemplateNotFound,
				fmt.Sprintf("template file not found: %s", path),
				err,
			)
		}
		return nil, model.WrapCLIError(model.ExitTemplateInvalid, "failed to open template file", err)
	}
	defer func() { _ = f.Close() }()

	templates, err := Parse(f)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitTemplateInvalid,
			fmt.Sprintf("invalid template file %s", path),
			err,
		)
	}
	return templates, nil
}

// SpinCount returns the number of spins per unit cell, 1 + the largest spin
// index referenced by any template. It does not check that every smaller
// index is referenced too. An empty template set has zero spins.
func SpinCount(templates []model.BondTemplate) int {
	if len(templates) == 0 {
		return 0
	}
	highest := 0
	for _, t := range templates {
		highest = max(highest, t.SpinI, t.SpinJ)
	}
	return highest + 1
}
