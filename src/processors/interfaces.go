package processors

import (
	"cloud.google.com/go/civil"
	"github.com/username/finassist/backend/src/models"
)

// ReconProcessor matches card sales against bank settlements day by day.
type ReconProcessor interface {
	// ReconcileDay computes one day from that day's sales and the bank
	// transactions already narrowed to its settlement window.
	ReconcileDay(month string, date civil.Date, sales []models.CanonicalSale, settlements, fees []models.CanonicalBankTransaction) models.ReconciliationDay
	// Reconcile computes every sale date of the month from in-memory records.
	Reconcile(month string, sales []models.CanonicalSale, txs []models.CanonicalBankTransaction) []models.ReconciliationDay
	IsCardSale(sale models.CanonicalSale) bool
}

// AnomalyProcessor runs the sales data-quality checks.
type AnomalyProcessor interface {
	Scan(month string, sales []models.CanonicalSale) models.AnomalyReport
}

// KPIProcessor aggregates sales into dashboard figures.
type KPIProcessor interface {
	Summary(month string, sales []models.CanonicalSale) models.KPISummary
	Daily(month string, sales []models.CanonicalSale) models.DailySeries
	TopCustomers(sales []models.CanonicalSale, limit int) []models.CustomerRevenue
	TopProducts(sales []models.CanonicalSale, limit int) []models.ProductRevenue
}

// VATProcessor groups sales by day and VAT rate.
type VATProcessor interface {
	Report(month string, sales []models.CanonicalSale) models.VATReport
}

// FeeProcessor lists bank fee lines.
type FeeProcessor interface {
	Process(txs []models.CanonicalBankTransaction) []models.FeeDetail
}
