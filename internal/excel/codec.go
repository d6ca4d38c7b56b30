// Package excel reads and writes xlsx workbooks for bulk import and export.
package excel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet name used for generated workbooks.
const DefaultSheet = "Sheet1"

// Row is one data line keyed by its header cell.
type Row map[string]string

// Decode parses the first sheet of an xlsx workbook. The first row is the
// header; every following row becomes a Row keyed by the header cells.
// Rows whose cells are all empty are skipped. It returns the data rows and
// the header order.
func Decode(data []byte) ([]Row, []string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	headers := make([]string, 0, len(rows[0]))
	for _, cell := range rows[0] {
		headers = append(headers, strings.TrimSpace(cell))
	}

	out := make([]Row, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row := make(Row, len(headers))
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if i < len(cells) {
				value = strings.TrimSpace(cells[i])
			}
			if value != "" {
				empty = false
			}
			row[header] = value
		}
		if empty {
			continue
		}
		out = append(out, row)
	}
	return out, headers, nil
}

// Encode writes rows under the given headers into a single-sheet workbook.
func Encode(headers []string, rows []Row) ([]byte, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("encode requires at least one header")
	}

	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(headers))
		for j, h := range headers {
			cells[j] = row[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row coordinate: %w", err)
		}
		if err := f.SetSheetRow(DefaultSheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
