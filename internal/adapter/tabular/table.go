package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrMissingColumn is returned when a table lacks a required header.
var ErrMissingColumn = errors.New("missing required column")

// table is a header-indexed grid of string cells.
type table struct {
	name   string
	header map[string]int
	rows   []row
}

// row is one data record. Index counts data records from zero, including
// delimiter-only records that are not kept, so that positional corrections
// line up with the file.
type row struct {
	index int
	cells []string
}

// readTable reads path as an Excel workbook when it ends in .xlsx and as
// comma-separated text otherwise. The first non-blank row is the header.
func readTable(ctx context.Context, name, path string) (*table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		records [][]string
		err     error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		records, err = readXLSX(path)
	} else {
		records, err = readCSV(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s table: %w", name, err)
	}

	t := &table{name: name}
	next := 0
	for _, rec := range records {
		if isBlankLine(rec) {
			continue
		}
		if t.header == nil {
			if !isEmptyRecord(rec) {
				t.header = indexHeader(rec)
			}
			continue
		}
		if !isEmptyRecord(rec) {
			t.rows = append(t.rows, row{index: next, cells: rec})
		}
		next++
	}
	if t.header == nil {
		return nil, fmt.Errorf("read %s table: %s has no header row", name, path)
	}
	return t, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// readXLSX returns the rows of the workbook's first sheet.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func indexHeader(rec []string) map[string]int {
	header := make(map[string]int, len(rec))
	for i, col := range rec {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if col == "" {
			continue
		}
		if _, dup := header[col]; !dup {
			header[col] = i
		}
	}
	return header
}

// isBlankLine reports a line with no delimiters and no content. It does not
// count as a data record.
func isBlankLine(rec []string) bool {
	return len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "")
}

// isEmptyRecord reports a record whose cells are all empty, such as ",,,,".
// It counts as a data record but carries nothing to read.
func isEmptyRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// require fails with ErrMissingColumn naming the first absent column.
func (t *table) require(cols ...string) error {
	for _, col := range cols {
		if _, ok := t.header[col]; !ok {
			return fmt.Errorf("%s table: %w %q", t.name, ErrMissingColumn, col)
		}
	}
	return nil
}

// cell returns the value of col in row, or "" when the row is short.
func (t *table) cell(r row, col string) string {
	i, ok := t.header[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}
