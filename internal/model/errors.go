package model

import "fmt"

// ConfigError reports a malformed or missing mapping configuration. Fatal:
// the run aborts before any section is processed.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("mapping config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("mapping config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// SourceNotFoundError reports a section whose declared tabular source does
// not exist. Fatal for the section; other sections still run.
type SourceNotFoundError struct {
	Section string
	Path    string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("section %q: source %q not found", e.Section, e.Path)
}

// MissingColumnError reports a template or property binding that references
// a column absent from the row. Row- or field-scoped: the offending row or
// field is skipped with a diagnostic and the run continues.
type MissingColumnError struct {
	Column   string
	Template string
}

func (e *MissingColumnError) Error() string {
	if e.Template != "" {
		return fmt.Sprintf("column %q referenced by %q not present in row", e.Column, e.Template)
	}
	return fmt.Sprintf("column %q not present in row", e.Column)
}

// CanonicalizationError reports a pattern match whose canonicalization rule
// could not reduce it to a usable identifier fragment. The mention is
// dropped; never fatal.
type CanonicalizationError struct {
	Concept string
	Surface string
}

func (e *CanonicalizationError) Error() string {
	return fmt.Sprintf("cannot canonicalize %s mention %q", e.Concept, e.Surface)
}
