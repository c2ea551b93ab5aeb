// Package sheet decodes uploaded spreadsheet files into ordered row-objects.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/excelvision/excelvision/internal/models"
)

// ErrParse is returned when the byte buffer is not a decodable workbook.
// It is never accompanied by partial rows.
var ErrParse = errors.New("not a decodable workbook")

var (
	zipMagic = []byte{0x50, 0x4b, 0x03, 0x04}
	oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0}
)

// Parse decodes a workbook and converts its first sheet to row-objects.
// The first row supplies the column names; subsequent rows become one entry
// each, wholly empty rows are skipped and blank cells are omitted. Numeric
// cells become int64 or float64, everything else stays a string.
//
// XLSX and CSV are supported. The whole buffer is decoded in memory before
// any row is returned; there is no size cap at this layer.
func Parse(data []byte) ([]models.Row, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return parseXLSX(data)
	case bytes.HasPrefix(data, oleMagic):
		// Legacy BIFF .xls is not supported.
		return nil, fmt.Errorf("%w: legacy .xls format", ErrParse)
	case looksLikeText(data):
		return parseCSV(data)
	default:
		return nil, ErrParse
	}
}

func parseXLSX(data []byte) ([]models.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrParse)
	}

	// Only the first sheet, by declared sheet order.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return toRowObjects(rows), nil
}

func parseCSV(data []byte) ([]models.Row, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		rows = append(rows, record)
	}
	return toRowObjects(rows), nil
}

// toRowObjects applies the header row as keys over the remaining rows.
func toRowObjects(rows [][]string) []models.Row {
	if len(rows) == 0 {
		return []models.Row{}
	}

	header := rows[0]
	out := make([]models.Row, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		obj := models.Row{}
		for i, cell := range cells {
			if i >= len(header) || header[i] == "" || cell == "" {
				continue
			}
			obj[header[i]] = coerce(cell)
		}
		if len(obj) == 0 {
			continue // wholly empty row
		}
		out = append(out, obj)
	}
	return out
}

// coerce parses a cell as int64, then float64, then falls back to string.
func coerce(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// looksLikeText reports whether the buffer is plausible CSV input: valid
// UTF-8 with no NUL bytes. Binary garbage fails here instead of being fed
// to the CSV reader, which would accept almost anything.
func looksLikeText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return utf8.Valid(data) && !bytes.ContainsRune(data, 0)
}
