// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/username/finassist/backend/src/models"
)

// Define common service errors
var (
	ErrParsingFailed       = errors.New("document parsing failed")
	ErrUnsupportedDocument = errors.New("unsupported document")
	ErrNoFiles             = errors.New("no files uploaded")
)

const (
	DefaultCacheExpiration = 5 * time.Minute
	CacheCleanupInterval   = 10 * time.Minute
)

// Store is the persistence the services need. Months are "YYYY-MM".
type Store interface {
	SaveSalesUpload(ctx context.Context, file *models.UploadedFile, sales []models.CanonicalSale) error
	SaveBankUpload(ctx context.Context, file *models.UploadedFile, txs []models.CanonicalBankTransaction) error
	UpdateUploadDuration(ctx context.Context, id int64, durationMs int64) error
	UpsertReconciliationDay(ctx context.Context, d models.ReconciliationDay) error
	SalesForMonth(ctx context.Context, month string) ([]models.CanonicalSale, error)
	TransactionsForMonth(ctx context.Context, month string) ([]models.CanonicalBankTransaction, error)
	// TransactionsInWindow returns the month's bank lines dated within [start, end].
	TransactionsInWindow(ctx context.Context, month string, start, end civil.Date, filter models.TxFilter) ([]models.CanonicalBankTransaction, error)
	ReconciliationForMonth(ctx context.Context, month string) ([]models.ReconciliationDay, error)
	LatestMonth(ctx context.Context) (string, error)
	DeleteMonth(ctx context.Context, month string) (int64, error)
}

// UploadFile is one file of an upload request, already read into memory.
type UploadFile struct {
	Filename string
	Data     []byte
}

// UploadResult is returned by ProcessUpload.
type UploadResult struct {
	Success       bool                   `json:"success"`
	InferredMonth string                 `json:"inferred_month"`
	Results       []models.UploadMetrics `json:"results"`
}

// UploadService ingests sales exports and bank statements.
type UploadService interface {
	// ProcessUpload stores whichever files are non-nil, infers the month
	// (sales first, else bank) and reconciles it.
	ProcessUpload(ctx context.Context, salesFile, bankFile *UploadFile) (*UploadResult, error)
}

// ReconciliationService recomputes and stores the card reconciliation of a month.
type ReconciliationService interface {
	// ComputeReconciliation upserts one record per distinct sale date. A failing
	// day is logged and skipped; the joined per-day errors are returned.
	ComputeReconciliation(ctx context.Context, month string) ([]models.ReconciliationDay, error)
}

// ReportService serves the read side, cached per month.
type ReportService interface {
	CardReconciliation(ctx context.Context, month string) (models.ReconciliationReport, error)
	Fees(ctx context.Context, month string) ([]models.FeeDetail, error)
	Anomalies(ctx context.Context, month string) (models.AnomalyReport, error)
	KPISummary(ctx context.Context, month string) (models.KPISummary, error)
	DailyRevenue(ctx context.Context, month string) (models.DailySeries, error)
	TopCustomers(ctx context.Context, month string, limit int) ([]models.CustomerRevenue, error)
	TopProducts(ctx context.Context, month string, limit int) ([]models.ProductRevenue, error)
	VATReport(ctx context.Context, month string) (models.VATReport, error)
	Sales(ctx context.Context, month string) ([]models.CanonicalSale, error)
	BankTransactions(ctx context.Context, month string) ([]models.CanonicalBankTransaction, error)
	LatestMonth(ctx context.Context) (string, error)
	DeleteMonth(ctx context.Context, month string) (int64, error)
	InvalidateMonth(month string)
}
