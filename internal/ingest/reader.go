package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadTable decodes an uploaded file into a Table. The format is chosen by
// file extension: .xlsx is read as a workbook (first sheet), everything else
// (.csv, .txt) as delimiter-separated text. Text inputs may be UTF-8 (with or
// without BOM), UTF-16, or Latin-1; the reader normalizes all of them to
// UTF-8 before parsing.
func ReadTable(r io.Reader, filename string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return readWorkbook(r)
	}
	return readDelimited(r)
}

func readDelimited(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	text, err := normalizeEncoding(raw)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Headers: headers, Rows: make([]Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		table.Rows = append(table.Rows, rowFromRecord(headers, rec))
	}
	return table, nil
}

func readWorkbook(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Headers: headers, Rows: make([]Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		table.Rows = append(table.Rows, rowFromRecord(headers, rec))
	}
	return table, nil
}

func rowFromRecord(headers, record []string) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if i < len(record) {
			row[h] = strings.TrimSpace(record[i])
		} else {
			row[h] = ""
		}
	}
	return row
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// normalizeEncoding converts raw upload bytes to plain UTF-8. A BOM selects
// UTF-8 or UTF-16 directly; BOM-less input that is not valid UTF-8 falls back
// to Latin-1, which accepts any byte sequence.
func normalizeEncoding(raw []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8), bytes.HasPrefix(raw, bomUTF16LE), bytes.HasPrefix(raw, bomUTF16BE):
		bomAware := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		decoded, _, err := transform.Bytes(bomAware, raw)
		if err != nil {
			return nil, fmt.Errorf("decode upload text: %w", err)
		}
		return decoded, nil

	case utf8.Valid(raw):
		return raw, nil

	default:
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("decode upload text: %w", err)
		}
		return decoded, nil
	}
}
