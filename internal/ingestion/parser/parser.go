// Package parser turns uploaded CSV and XLSX files into numbered rows keyed
// by header name.
package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"credhub/internal/ingestion/models"
	dErrors "credhub/pkg/domain-errors"
)

const utf8BOM = "\uFEFF"

// ErrMalformedInput reports an upload whose structure cannot be read. It
// matches every error returned by this package through errors.Is.
var ErrMalformedInput = dErrors.New(dErrors.CodeBadRequest, "file must contain a header row and at least one data row")

type record struct {
	line  int
	cells []string
}

// ParseCSV reads text as a header line followed by data lines. Quoted
// fields may contain commas, newlines and "" escapes. Stray quotes are kept
// as literal text and a quote left open runs to the end of the input.
// Blank lines are skipped and missing trailing cells read as "".
func ParseCSV(text string) ([]models.Row, error) {
	text = strings.TrimPrefix(text, utf8BOM)

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var records []record
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed("malformed csv: "+err.Error(), err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
	return buildRows(records)
}

// ParseXLSX reads the first worksheet of an .xlsx workbook with the same
// row semantics as ParseCSV.
func ParseXLSX(data []byte) ([]models.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, malformed("malformed xlsx: "+err.Error(), err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrMalformedInput
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, malformed("malformed xlsx: "+err.Error(), err)
	}

	records := make([]record, 0, len(rows))
	for i, cells := range rows {
		records = append(records, record{line: i + 1, cells: cells})
	}
	return buildRows(records)
}

// Parse dispatches on the file extension. Files without an extension are
// read as CSV.
func Parse(filename string, data []byte) ([]models.Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ParseXLSX(data)
	case ".csv", ".txt", "":
		return ParseCSV(string(data))
	default:
		return nil, malformed("unsupported file type "+filepath.Ext(filename)+"; upload a .csv or .xlsx file", nil)
	}
}

func buildRows(records []record) ([]models.Row, error) {
	records = dropBlank(records)
	if len(records) < 2 {
		return nil, ErrMalformedInput
	}

	header := make([]string, len(records[0].cells))
	for i, name := range records[0].cells {
		header[i] = strings.TrimSpace(name)
	}

	rows := make([]models.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if i < len(rec.cells) {
				value = strings.TrimSpace(rec.cells[i])
			}
			fields[name] = value
		}
		rows = append(rows, models.Row{Number: rec.line, Fields: fields})
	}
	return rows, nil
}

func dropBlank(records []record) []record {
	kept := records[:0]
	for _, rec := range records {
		if !isBlank(rec.cells) {
			kept = append(kept, rec)
		}
	}
	return kept
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func malformed(msg string, err error) error {
	return &dErrors.Error{Code: dErrors.CodeBadRequest, Message: msg, Err: err}
}
