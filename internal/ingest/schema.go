package ingest

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns missing from an upload. It is fatal:
// the pipeline must not run any later stage once it is returned.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("upload is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ValidateSchema checks that every required column is present in the table.
// All missing columns are collected into a single SchemaError so the caller
// can report the complete cause at once.
func ValidateSchema(t *Table, required []string) error {
	var missing []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
