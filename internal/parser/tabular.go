// Package parser decodes uploaded files into the shapes the engines consume:
// spreadsheets and delimited text into typed-row tables, PDFs into
// page-tagged plain text.
package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

// DecodeTabular decodes an uploaded file into a column/row table based on
// its extension: .csv comma-delimited, .tsv/.txt tab-delimited, .xlsx/.xls
// spreadsheet (first sheet). The first row is the header.
func DecodeTabular(filename string, data []byte) (entity.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return decodeDelimited(data, ',')
	case ".tsv", ".txt":
		return decodeDelimited(data, '\t')
	case ".xlsx", ".xls":
		return decodeSpreadsheet(data)
	default:
		return entity.Table{}, fmt.Errorf("%w: %s (use CSV, Excel, or TXT)", entity.ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func decodeDelimited(data []byte, comma rune) (entity.Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1 // ragged rows are padded at load time

	records, err := r.ReadAll()
	if err != nil {
		return entity.Table{}, fmt.Errorf("%w: %v", entity.ErrProcessing, err)
	}
	if len(records) == 0 {
		return entity.Table{}, fmt.Errorf("%w: file has no rows", entity.ErrProcessing)
	}

	return entity.Table{
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}

func decodeSpreadsheet(data []byte) (entity.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return entity.Table{}, fmt.Errorf("%w: %v", entity.ErrProcessing, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return entity.Table{}, fmt.Errorf("%w: workbook has no sheets", entity.ErrProcessing)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return entity.Table{}, fmt.Errorf("%w: %v", entity.ErrProcessing, err)
	}
	if len(rows) == 0 {
		return entity.Table{}, fmt.Errorf("%w: sheet %q has no rows", entity.ErrProcessing, sheets[0])
	}

	return entity.Table{
		Columns: rows[0],
		Rows:    rows[1:],
	}, nil
}

// TableNameFromFilename derives the upload's table name from its filename:
// the base name without extension. Sanitization to a valid identifier
// happens at load time.
func TableNameFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
