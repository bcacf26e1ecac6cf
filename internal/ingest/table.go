package ingest

// Row is one record of an uploaded table, keyed by column header.
type Row map[string]string

// Table is an uploaded tabular dataset after decoding, before any cleaning.
type Table struct {
	Headers []string
	Rows    []Row
}

// HasColumn reports whether the table carries the given column header.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Get returns the value of a column for a row, or "" when absent.
func (r Row) Get(name string) string {
	return r[name]
}
