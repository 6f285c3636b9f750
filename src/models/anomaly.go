package models

import "github.com/shopspring/decimal"

// AnomalyKind identifies a sales data-quality check.
type AnomalyKind string

const (
	AnomalyInconsistentTotal AnomalyKind = "inconsistent_total"
	AnomalyInvalidDate       AnomalyKind = "invalid_date"
	AnomalyNegative          AnomalyKind = "negative"
	AnomalyDuplicate         AnomalyKind = "duplicate"
)

// Severity of an anomaly.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// AnomalyRecord points at the sale(s) an anomaly was raised for.
type AnomalyRecord struct {
	Date        string           `json:"date,omitempty"`
	Invoice     string           `json:"invoice"`
	Product     string           `json:"product"`
	NetAmount   *decimal.Decimal `json:"net_amount,omitempty"`
	VATRate     *decimal.Decimal `json:"vat_rate,omitempty"`
	VATAmount   *decimal.Decimal `json:"vat_amount,omitempty"`
	GrossAmount *decimal.Decimal `json:"gross_amount,omitempty"`
	Expected    *decimal.Decimal `json:"expected,omitempty"`
	Actual      *decimal.Decimal `json:"actual,omitempty"`
	Delta       *decimal.Decimal `json:"delta,omitempty"`
	Count       int              `json:"count,omitempty"`
	Dates       []string         `json:"dates,omitempty"`
}

// Anomaly is a computed, never persisted, data-quality finding.
type Anomaly struct {
	Kind     AnomalyKind   `json:"type"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Record   AnomalyRecord `json:"record"`
}

// AnomalySummary counts anomalies by severity.
type AnomalySummary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// AnomalyReport is the result of scanning one month of sales.
type AnomalyReport struct {
	Month     string         `json:"month"`
	Anomalies []Anomaly      `json:"anomalies"`
	Summary   AnomalySummary `json:"summary"`
}
