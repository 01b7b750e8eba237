package config

import (
	"fmt"

	"github.com/shinji-kodama/htse-lattice/internal/model"
)

// ValidationError represents a specific validation failure in a run
// configuration.
type ValidationError struct {
	// Field is the configuration key that failed validation.
	Field string

	// Message describes what's wrong with the value.
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// Validate checks the values that are set. Unset fields are not errors,
// since flags may still supply them. An empty result means valid.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Cells != nil {
		if len(c.Cells) != 3 {
			errs = append(errs, ValidationError{
				Field:   "cells",
				Message: fmt.Sprintf("expected 3 cell counts, got %d", len(c.Cells)),
			})
		} else {
			for i, n := range c.Cells {
				if n <= 0 {
					errs = append(errs, ValidationError{
						Field:   fmt.Sprintf("cells[%d]", i),
						Message: fmt.Sprintf("cell count must be positive, got %d", n),
					})
				}
			}
		}
	}

	if c.Format != "" {
		if _, err := model.ParseOutputFormat(c.Format); err != nil {
			errs = append(errs, ValidationError{Field: "format", Message: err.Error()})
		}
	}

	if c.Workers != nil && *c.Workers < 0 {
		errs = append(errs, ValidationError{
			Field:   "workers",
			Message: fmt.Sprintf("must not be negative, got %d", *c.Workers),
		})
	}

	return errs
}
