package importer

// csv.go turns an uploaded CSV file into import rows. It handles the messy
// reality of operator-exported spreadsheets: invalid UTF-8, BOMs, Excel
// formula prefixes (="value"), ragged rows, and stray quoting.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// RowsFromCSV parses CSV file data into rows. The first non-empty record is
// the header; its cells become the row field keys (cleaned and lowercased).
// Data rows are numbered 1-based from the first line after the header,
// counting blank lines so numbers line up with the spreadsheet.
//
// A field key is present in a row exactly when the file has that column, so
// an empty cell under a header is a present-empty value, not an absent one.
func RowsFromCSV(data []byte) ([]Row, error) {
	r := csv.NewReader(bytes.NewReader(sanitizeUTF8(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var keys []string
	headerLine := 0
	var rows []Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isEmptyRow(rec) {
			continue
		}

		// The reader skips blank lines before we see them, so row numbers
		// come from the record's source line, not from a record index.
		line, _ := r.FieldPos(0)

		if keys == nil {
			keys = make([]string, len(rec))
			for i, h := range rec {
				keys[i] = strings.ToLower(cleanCell(h))
			}
			headerLine = line
			continue
		}

		fields := make(map[string]string, len(keys))
		for j, key := range keys {
			if key == "" || j >= len(rec) {
				continue
			}
			fields[key] = cleanCell(rec[j])
		}
		rows = append(rows, Row{Number: line - headerLine, Fields: fields})
	}

	if keys == nil {
		return nil, errors.New("empty file")
	}

	return rows, nil
}

// sanitizeUTF8 replaces invalid byte sequences with the replacement rune.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// cleanCell removes common CSV artifacts from a cell value: surrounding
// whitespace, the Excel formula prefix, surrounding quotes, and a BOM.
func cleanCell(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	} else {
		s = strings.TrimPrefix(s, "=")
	}

	return strings.Trim(s, `"'`)
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
