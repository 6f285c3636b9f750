package models

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// CanonicalSale is one line of a sales export after header normalization.
// Net, VAT and gross are expected to satisfy net*rate/100 = vat and
// net+vat = gross; the anomaly scanner reports rows that don't.
type CanonicalSale struct {
	ID            int64           `json:"id,omitempty"` // Database primary key
	Date          civil.Date      `json:"date"`
	InvoiceNumber string          `json:"invoice_number"`
	Customer      string          `json:"customer"`
	Product       string          `json:"product"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPriceNet  decimal.Decimal `json:"unit_price_net"`
	VATRate       decimal.Decimal `json:"vat_rate"` // percentage, e.g. 14
	NetAmount     decimal.Decimal `json:"net_amount"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	PaymentMethod string          `json:"payment_method"`
}
