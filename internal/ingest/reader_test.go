package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sampleCSV = "ORDER_NUMBER,CUSTOMER_NUMBER,SERVICE_CATEGORY\nT001,C001,NET\nT002,C002,KAV\n"

func TestReadTable_CSV(t *testing.T) {
	t.Run("parses headers and rows", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader(sampleCSV), "tickets.csv")
		require.NoError(t, err)

		assert.Equal(t, []string{"ORDER_NUMBER", "CUSTOMER_NUMBER", "SERVICE_CATEGORY"}, table.Headers)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "T001", table.Rows[0].Get("ORDER_NUMBER"))
		assert.Equal(t, "KAV", table.Rows[1].Get("SERVICE_CATEGORY"))
	})

	t.Run("txt extension is parsed as delimited text", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader(sampleCSV), "tickets.txt")
		require.NoError(t, err)
		assert.Len(t, table.Rows, 2)
	})

	t.Run("short rows are padded with empty values", func(t *testing.T) {
		csv := "A,B,C\n1,2\n"
		table, err := ReadTable(strings.NewReader(csv), "data.csv")
		require.NoError(t, err)

		require.Len(t, table.Rows, 1)
		assert.Equal(t, "2", table.Rows[0].Get("B"))
		assert.Equal(t, "", table.Rows[0].Get("C"))
	})

	t.Run("empty input yields an empty table", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader(""), "empty.csv")
		require.NoError(t, err)
		assert.Empty(t, table.Headers)
		assert.Empty(t, table.Rows)
	})
}

func TestReadTable_Encodings(t *testing.T) {
	t.Run("utf-8 BOM is stripped", func(t *testing.T) {
		input := append([]byte{0xEF, 0xBB, 0xBF}, []byte(sampleCSV)...)

		table, err := ReadTable(bytes.NewReader(input), "tickets.csv")
		require.NoError(t, err)
		assert.Equal(t, "ORDER_NUMBER", table.Headers[0])
	})

	t.Run("utf-16 little endian is decoded", func(t *testing.T) {
		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		encoded, _, err := transform.Bytes(enc, []byte(sampleCSV))
		require.NoError(t, err)

		table, err := ReadTable(bytes.NewReader(encoded), "tickets.csv")
		require.NoError(t, err)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "T001", table.Rows[0].Get("ORDER_NUMBER"))
	})

	t.Run("latin-1 bytes fall back cleanly", func(t *testing.T) {
		latin1 := "ORDER_NUMBER,NOTE_MAXIMUM\nT001,Störung behoben\n"
		encoded, _, err := transform.Bytes(charmap.ISO8859_1.NewEncoder(), []byte(latin1))
		require.NoError(t, err)

		table, err := ReadTable(bytes.NewReader(encoded), "tickets.csv")
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Störung behoben", table.Rows[0].Get("NOTE_MAXIMUM"))
	})
}

func TestReadTable_XLSX(t *testing.T) {
	buildWorkbook := func(t *testing.T, rows [][]any) *bytes.Buffer {
		t.Helper()
		f := excelize.NewFile()
		defer f.Close()

		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
		}

		buf, err := f.WriteToBuffer()
		require.NoError(t, err)
		return buf
	}

	t.Run("reads the first sheet", func(t *testing.T) {
		buf := buildWorkbook(t, [][]any{
			{"ORDER_NUMBER", "CUSTOMER_NUMBER"},
			{"T001", "C001"},
			{"T002", "C002"},
		})

		table, err := ReadTable(buf, "tickets.xlsx")
		require.NoError(t, err)

		assert.Equal(t, []string{"ORDER_NUMBER", "CUSTOMER_NUMBER"}, table.Headers)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "C002", table.Rows[1].Get("CUSTOMER_NUMBER"))
	})

	t.Run("rejects corrupt workbooks", func(t *testing.T) {
		_, err := ReadTable(strings.NewReader("not a zip archive"), "tickets.xlsx")
		assert.Error(t, err)
	})
}
