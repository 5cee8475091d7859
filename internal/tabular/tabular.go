// Package tabular reads and writes the spreadsheet files used for bulk grade
// import and export. Header names are normalized so lookups are case-insensitive.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported file format: expected .xlsx or .csv")

// Row is one data row keyed by normalized header name.
// Number is the 1-based line number in the source file, header included.
type Row struct {
	Number int
	Cells  map[string]string
}

// Get returns the cell under the given column, or "" if absent.
func (r Row) Get(column string) string {
	return r.Cells[Normalize(column)]
}

// Table is a parsed sheet: normalized header plus data rows in file order.
type Table struct {
	Header []string
	Rows   []Row
}

// HasColumn reports whether the header contains name, compared case-insensitively.
func (t *Table) HasColumn(name string) bool {
	n := Normalize(name)
	for _, h := range t.Header {
		if h == n {
			return true
		}
	}
	return false
}

// Normalize trims whitespace and a UTF-8 BOM, then lowercases a header name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}

// Read parses r according to the filename's extension.
func Read(filename string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ReadXLSX parses the first worksheet of an Excel workbook. Cells are read
// as stored, ignoring number formats, so a styled score keeps its decimals.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return fromRecords(records), nil
}

// ReadCSV parses comma-separated input. Rows may have a ragged number of fields.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRecords(records), nil
}

func fromRecords(records [][]string) *Table {
	t := &Table{}
	if len(records) == 0 {
		return t
	}

	t.Header = make([]string, len(records[0]))
	for i, h := range records[0] {
		t.Header[i] = Normalize(h)
	}

	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		cells := make(map[string]string, len(t.Header))
		for j, h := range t.Header {
			if h == "" {
				continue
			}
			if j < len(rec) {
				cells[h] = rec[j]
			} else {
				cells[h] = ""
			}
		}
		t.Rows = append(t.Rows, Row{Number: i + 2, Cells: cells})
	}
	return t
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
