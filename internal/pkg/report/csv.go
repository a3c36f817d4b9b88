package report

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/jake-scott/switchbot-cli/internal/pkg/jsonvalue"
)

// Spreadsheet applications use this to detect UTF-8
const byteOrderMark = "\ufeff"

// Columns returns every key used by rows, in the order first seen
func Columns(rows []*jsonvalue.Row) []string {
	seen := make(map[string]bool)
	var columns []string

	for _, row := range rows {
		for _, k := range row.Keys() {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}

	return columns
}

// WriteCSV writes a byte-order mark, a header row and one record per row.
// Fields a row does not have are left blank.
func WriteCSV(w io.Writer, rows []*jsonvalue.Row) error {
	if _, err := io.WriteString(w, byteOrderMark); err != nil {
		return errors.Wrap(err, "writing byte order mark")
	}

	columns := Columns(rows)
	if len(columns) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(columns); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}

	record := make([]string, len(columns))
	for i, row := range rows {
		for c, key := range columns {
			record[c] = ""
			if v, ok := row.Get(key); ok {
				record[c] = v.Text()
			}
		}

		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "writing CSV record %d", i)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing CSV output")
}

// WriteCSVFile creates or truncates fileName and writes rows to it
func WriteCSVFile(fileName string, rows []*jsonvalue.Row) (err error) {
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "opening %s for write", fileName)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "closing %s", fileName)
		}
	}()

	if err := WriteCSV(file, rows); err != nil {
		return errors.Wrapf(err, "exporting to %s", fileName)
	}

	return nil
}
