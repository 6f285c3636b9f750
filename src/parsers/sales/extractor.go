// Package sales turns a tabular PT-PT sales export into canonical sales.
package sales

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/username/finassist/backend/src/locale"
	"github.com/username/finassist/backend/src/logger"
	"github.com/username/finassist/backend/src/models"
)

var hundred = decimal.NewFromInt(100)

// Sheet is the first worksheet of a sales export: a header row followed by
// data rows. Cells hold strings, float64 numbers, dates or nil.
type Sheet struct {
	Header []string
	Rows   [][]any
}

// Result is the outcome of extracting a sheet.
type Result struct {
	Sales         []models.CanonicalSale
	Month         string           // dominant "YYYY-MM", "" when no sale was kept
	RowsProcessed int              // number of emitted sales
	Raw           []map[string]any // non-empty input rows keyed by original header
}

// Extractor converts sheets into canonical sales.
type Extractor struct{}

// NewExtractor creates a new sales Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract maps headers to canonical fields, drops empty or undated rows and
// derives missing net, VAT and gross amounts. It never fails; unusable rows
// are skipped.
func (e *Extractor) Extract(sheet Sheet) Result {
	fields := make([]string, len(sheet.Header))
	for i, h := range sheet.Header {
		fields[i] = NormalizeHeader(h)
	}

	var (
		sales   []models.CanonicalSale
		dates   []civil.Date
		raw     []map[string]any
		skipped int
	)

	for rowIdx, row := range sheet.Rows {
		if isEmptyRow(row) {
			continue
		}

		rawRow := make(map[string]any, len(sheet.Header))
		mapped := make(map[string]any, len(fields))
		for i, field := range fields {
			var value any
			if i < len(row) {
				value = row[i]
			}
			rawRow[sheet.Header[i]] = value
			mapped[field] = value // a later column with the same field wins
		}
		raw = append(raw, rawRow)

		date, ok := locale.ParseDate(mapped[FieldDate])
		if !ok {
			skipped++
			logger.L.Debug("Skipping sales row without a valid date", "row", rowIdx+2, "value", mapped[FieldDate])
			continue
		}

		sale := buildSale(date, mapped)
		sales = append(sales, sale)
		dates = append(dates, date)
	}

	if skipped > 0 {
		logger.L.Info("Sales rows dropped during extraction", "skipped", skipped, "kept", len(sales))
	}

	return Result{
		Sales:         sales,
		Month:         locale.DominantMonth(dates),
		RowsProcessed: len(sales),
		Raw:           raw,
	}
}

func buildSale(date civil.Date, mapped map[string]any) models.CanonicalSale {
	quantity := locale.ParseNumber(mapped[FieldQuantity])
	unitPrice := locale.ParseNumber(mapped[FieldUnitPriceNet])
	vatRate := locale.ParseNumber(mapped[FieldVATRate])
	net := locale.ParseNumber(mapped[FieldNetAmount])
	vat := locale.ParseNumber(mapped[FieldVATAmount])
	gross := locale.ParseNumber(mapped[FieldGrossAmount])

	// Backfill, in this order: net, then VAT from net, then gross from both.
	if net.IsZero() && quantity.IsPositive() && unitPrice.IsPositive() {
		net = quantity.Mul(unitPrice)
	}
	if vat.IsZero() && net.IsPositive() && vatRate.IsPositive() {
		vat = net.Mul(vatRate).Div(hundred)
	}
	if gross.IsZero() && net.IsPositive() {
		gross = net.Add(vat)
	}

	return models.CanonicalSale{
		Date:          date,
		InvoiceNumber: cellString(mapped[FieldInvoiceNumber]),
		Customer:      cellString(mapped[FieldCustomer]),
		Product:       cellString(mapped[FieldProduct]),
		Quantity:      quantity,
		UnitPriceNet:  unitPrice,
		VATRate:       vatRate,
		NetAmount:     net,
		VATAmount:     vat,
		GrossAmount:   gross,
		PaymentMethod: cellString(mapped[FieldPaymentMethod]),
	}
}

func isEmptyRow(row []any) bool {
	for _, v := range row {
		if !isEmptyCell(v) {
			return false
		}
	}
	return true
}

func isEmptyCell(v any) bool {
	switch c := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(c) == ""
	}
	return false
}

// cellString renders a cell as trimmed text.
func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case decimal.Decimal:
		return c.String()
	case civil.Date:
		return c.String()
	case time.Time:
		return c.Format("2006-01-02")
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
