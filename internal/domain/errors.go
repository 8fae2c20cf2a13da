package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrArtifactLoad   = errors.New("artifact load failed")
)

// SchemaError reports expected columns absent from an input table.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing columns [%s]", e.Table, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }

// LoadError reports a classifier or vectorizer artifact that is missing or unusable.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrArtifactLoad, e.Err}
	}
	return []error{ErrArtifactLoad}
}
