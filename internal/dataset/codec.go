package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat indicates a file extension the codec cannot handle.
var ErrUnsupportedFormat = errors.New("dataset: unsupported file format")

const defaultSheet = "Sheet1"

// Load reads a CSV or Excel file into a Table. The first row is the header;
// column order follows the file exactly.
func Load(path string) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return loadCSV(path)
	case ".xlsx", ".xlsm":
		return loadExcel(path)
	default:
		return nil, fmt.Errorf("%w: %s (supported: .csv, .xlsx, .xlsm)", ErrUnsupportedFormat, ext)
	}
}

// Save writes the table back to path in the format implied by its extension.
// The write is atomic: content goes to a temp file in the same directory,
// then renames over the target, so a concurrent reader never observes a
// partially-written file.
func Save(t *Table, path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return saveAtomic(path, func(w io.Writer) error { return writeCSV(t, w) })
	case ".xlsx", ".xlsm":
		return saveAtomic(path, func(w io.Writer) error { return writeExcel(t, w) })
	default:
		return fmt.Errorf("%w: %s (supported: .csv, .xlsx, .xlsm)", ErrUnsupportedFormat, ext)
	}
}

func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	// Tolerate ragged exports: short rows pad with Missing, long rows drop
	// their extra cells.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read csv header from %s: %w", path, err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}
	t, err := New(cols)
	if err != nil {
		return nil, err
	}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read csv row: %w", err)
		}
		row := make([]Value, len(cols))
		for i := range cols {
			if i < len(record) {
				row[i] = Parse(strings.TrimSpace(record[i]))
			} else {
				row[i] = Missing()
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func loadExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		sheet = defaultSheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("dataset: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset: %s has no header row", path)
	}
	cols := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		cols[i] = strings.TrimSpace(h)
	}
	t, err := New(cols)
	if err != nil {
		return nil, err
	}
	for _, rec := range rows[1:] {
		row := make([]Value, len(cols))
		for i := range cols {
			if i < len(rec) {
				row[i] = Parse(strings.TrimSpace(rec[i]))
			} else {
				row[i] = Missing()
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func writeCSV(t *Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeExcel(t *Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(defaultSheet, "A1", &header); err != nil {
		return err
	}
	for ri, row := range t.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			switch v.Kind() {
			case KindNumber:
				cells[i], _ = v.AsFloat()
			case KindMissing:
				cells[i] = nil
			default:
				cells[i] = v.String()
			}
		}
		addr, err := excelize.CoordinatesToCellName(1, ri+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(defaultSheet, addr, &cells); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func saveAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("dataset: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("dataset: write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("dataset: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("dataset: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("dataset: rename %s over %s: %w", tmpName, path, err)
	}
	return nil
}
