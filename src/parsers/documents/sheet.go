// Package documents decodes uploaded files into the inputs the extractors
// work on: sheets of cells for sales exports, plain text for bank statements.
package documents

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/username/finassist/backend/src/logger"
	"github.com/username/finassist/backend/src/parsers/sales"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Kind is the detected format of an uploaded document.
type Kind string

const (
	KindXLSX Kind = "xlsx"
	KindCSV  Kind = "csv"
	KindPDF  Kind = "pdf"
	KindText Kind = "text"
)

// ErrUnsupportedKind is returned when a document can't be decoded into the requested shape.
var ErrUnsupportedKind = errors.New("unsupported document kind")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeSheet reads the first worksheet of an xlsx workbook, or a delimited
// text file, into a sales sheet.
func DecodeSheet(data []byte, kind Kind) (sales.Sheet, error) {
	switch kind {
	case KindXLSX:
		return decodeXLSX(data)
	case KindCSV, KindText:
		return decodeCSV(data)
	}
	return sales.Sheet{}, fmt.Errorf("%w: %s cannot hold a sales sheet", ErrUnsupportedKind, kind)
}

func decodeXLSX(data []byte) (sales.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return sales.Sheet{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return sales.Sheet{}, fmt.Errorf("workbook has no worksheets")
	}
	name := sheets[0]

	// Raw values keep numbers (and date serials) unformatted.
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return sales.Sheet{}, fmt.Errorf("read worksheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return sales.Sheet{}, nil
	}

	sheet := sales.Sheet{Header: rows[0]}
	for i, row := range rows[1:] {
		excelRow := i + 2
		cells := make([]any, len(row))
		for j, raw := range row {
			cells[j] = xlsxCellValue(f, name, j+1, excelRow, raw)
		}
		sheet.Rows = append(sheet.Rows, cells)
	}
	logger.L.Debug("Workbook decoded", "sheet", name, "rows", len(sheet.Rows))
	return sheet, nil
}

// xlsxCellValue returns strings for text cells and float64 for everything
// that reads as a number.
func xlsxCellValue(f *excelize.File, sheet string, col, row int, raw string) any {
	if raw == "" {
		return nil
	}
	cellName, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	cellType, err := f.GetCellType(sheet, cellName)
	if err != nil {
		return raw
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool, excelize.CellTypeError:
		return raw
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

func decodeCSV(data []byte) (sales.Sheet, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	text, err := charmapDecodeIfNeeded(data)
	if err != nil {
		return sales.Sheet{}, fmt.Errorf("decode delimited file: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return sales.Sheet{}, fmt.Errorf("read delimited file: %w", err)
	}
	if len(records) == 0 {
		return sales.Sheet{}, nil
	}

	sheet := sales.Sheet{Header: records[0]}
	for _, record := range records[1:] {
		cells := make([]any, len(record))
		for j, v := range record {
			if strings.TrimSpace(v) != "" {
				cells[j] = v
			}
		}
		sheet.Rows = append(sheet.Rows, cells)
	}
	return sheet, nil
}

// charmapDecodeIfNeeded returns data as UTF-8. Bytes that are not valid UTF-8
// are read as Windows-1252, the usual encoding of older PT exports.
func charmapDecodeIfNeeded(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// sniffDelimiter picks the separator used on the header line. Semicolons win
// because PT-PT numbers use the comma as decimal separator.
func sniffDelimiter(data []byte) rune {
	firstLine := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		firstLine = data[:idx]
	}
	switch {
	case bytes.Count(firstLine, []byte(";")) > 0:
		return ';'
	case bytes.Count(firstLine, []byte("\t")) > 0:
		return '\t'
	}
	return ','
}
