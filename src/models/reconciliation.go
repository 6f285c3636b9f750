package models

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ReconciliationDay compares one day's card sales with the bank settlements
// (and fees) booked on that day or the next. (Month, Date) is unique.
type ReconciliationDay struct {
	Month          string          `json:"month"`
	Date           civil.Date      `json:"date"`
	SalesCard      decimal.Decimal `json:"sales_card"`
	BankSettlement decimal.Decimal `json:"bank_settlement"`
	Fees           decimal.Decimal `json:"fees"`
	Delta          decimal.Decimal `json:"delta"`
	DeltaPercent   decimal.Decimal `json:"delta_percent"`
	Pass           bool            `json:"pass"`
}

// ReconciliationSummary aggregates a month of ReconciliationDay records.
type ReconciliationSummary struct {
	TotalDays   int     `json:"total_days"`
	PassedDays  int     `json:"passed_days"`
	PassRate    float64 `json:"pass_rate"` // percentage, 2 decimals
	OverallPass bool    `json:"overall_pass"`
}

// ReconciliationDayView is the API shape of a ReconciliationDay, rounded to cents.
type ReconciliationDayView struct {
	Date           civil.Date `json:"date"`
	SalesCard      float64    `json:"sales_card"`
	BankSettlement float64    `json:"bank_settlement"`
	Fees           float64    `json:"fees"`
	Delta          float64    `json:"delta"`
	DeltaPercent   float64    `json:"delta_percent"`
	Pass           bool       `json:"pass"`
}

// ReconciliationReport is the response of the card reconciliation endpoint.
type ReconciliationReport struct {
	Month   string                  `json:"month"`
	Daily   []ReconciliationDayView `json:"daily"`
	Summary ReconciliationSummary   `json:"summary"`
}
