package seo

import (
	"fmt"
	"strings"
)

// ConfigError reports missing or malformed site configuration. It is fatal at
// startup; there is nothing to retry.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("seo: config %s: %s", e.Field, e.Reason)
}

// ValidationError reports a merge that would produce an invalid metadata
// record. The merge fails closed: no partial result is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "seo: invalid metadata: " + strings.Join(e.Fields, ", ")
}

// Violation is a single structured-data rule failure at a field path,
// e.g. "contactPoint[1].telephone".
type Violation struct {
	Path   string
	Reason string
}

// SchemaError carries every violation found in a structured-data input.
// Validation is exhaustive, not fail-fast, so callers see the complete set.
type SchemaError struct {
	Violations []Violation
}

func (e *SchemaError) Error() string {
	paths := e.Paths()
	return fmt.Sprintf("seo: schema invalid (%d): %s", len(paths), strings.Join(paths, ", "))
}

// Paths returns the violated field paths in input order.
func (e *SchemaError) Paths() []string {
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.Path)
	}
	return out
}

func (e *SchemaError) orNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

func (e *SchemaError) add(path, reason string) {
	e.Violations = append(e.Violations, Violation{Path: path, Reason: reason})
}
