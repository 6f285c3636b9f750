// backend/src/services/upload_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/finassist/backend/src/logger"
	"github.com/username/finassist/backend/src/models"
	"github.com/username/finassist/backend/src/parsers/bank"
	"github.com/username/finassist/backend/src/parsers/documents"
	"github.com/username/finassist/backend/src/parsers/sales"
	"github.com/username/finassist/backend/src/security/validation"
)

type uploadServiceImpl struct {
	store          Store
	salesExtractor *sales.Extractor
	bankExtractor  *bank.Extractor
	reconService   ReconciliationService
	reportCache    *cache.Cache
}

func NewUploadService(
	store Store,
	salesExtractor *sales.Extractor,
	bankExtractor *bank.Extractor,
	reconService ReconciliationService,
	reportCache *cache.Cache,
) UploadService {
	return &uploadServiceImpl{
		store:          store,
		salesExtractor: salesExtractor,
		bankExtractor:  bankExtractor,
		reconService:   reconService,
		reportCache:    reportCache,
	}
}

func (s *uploadServiceImpl) ProcessUpload(ctx context.Context, salesFile, bankFile *UploadFile) (*UploadResult, error) {
	if salesFile == nil && bankFile == nil {
		return nil, ErrNoFiles
	}
	log := logger.FromContext(ctx)
	overallStartTime := time.Now()
	log.Info("ProcessUpload START", "hasSales", salesFile != nil, "hasBank", bankFile != nil)

	// Both files are decoded and extracted before anything is stored, so a bad
	// bank file does not leave the sales half of the upload behind.
	var pending []*pendingUpload
	if salesFile != nil {
		p, err := s.prepareSales(salesFile)
		if err != nil {
			log.Warn("Sales file rejected", "filename", salesFile.Filename, "error", err)
			return nil, err
		}
		pending = append(pending, p)
	}
	if bankFile != nil {
		p, err := s.prepareBank(bankFile)
		if err != nil {
			log.Warn("Bank file rejected", "filename", bankFile.Filename, "error", err)
			return nil, err
		}
		pending = append(pending, p)
	}

	result := &UploadResult{Results: []models.UploadMetrics{}}
	var salesMonth, bankMonth string
	var saveErr error
	for _, p := range pending {
		if err := p.save(ctx); err != nil {
			log.Error("Failed to store upload", "filename", p.file.Filename, "fileType", p.file.FileType, "error", err)
			saveErr = err
			break
		}
		if p.file.FileType == models.FileTypeSales {
			salesMonth = p.file.Month
		} else {
			bankMonth = p.file.Month
		}
		result.Results = append(result.Results, s.finish(ctx, p.file, p.start))
	}

	result.InferredMonth = salesMonth
	if result.InferredMonth == "" {
		result.InferredMonth = bankMonth
	}

	// Whatever was stored is reconciled and its reports dropped, even when a
	// later file of the same upload failed to save.
	if result.InferredMonth != "" {
		reconStart := time.Now()
		days, err := s.reconService.ComputeReconciliation(ctx, result.InferredMonth)
		if err != nil {
			// the upload itself is stored; failed days can be recomputed later
			log.Warn("Reconciliation finished with errors", "month", result.InferredMonth, "error", err)
		}
		log.Info("Reconciliation after upload", "month", result.InferredMonth, "days", len(days), "duration", time.Since(reconStart))
	} else {
		log.Info("No month inferred from upload, skipping reconciliation")
	}

	invalidateMonthCache(s.reportCache, salesMonth)
	invalidateMonthCache(s.reportCache, bankMonth)

	if saveErr != nil {
		return nil, saveErr
	}

	result.Success = true
	log.Info("ProcessUpload END", "inferredMonth", result.InferredMonth, "duration", time.Since(overallStartTime))
	return result, nil
}

// pendingUpload is an extracted file waiting to be stored.
type pendingUpload struct {
	file  *models.UploadedFile
	start time.Time
	save  func(ctx context.Context) error
}

func (s *uploadServiceImpl) prepareSales(f *UploadFile) (*pendingUpload, error) {
	start := time.Now()

	kind, err := validation.DetectDocumentKind(f.Data, f.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedDocument, err)
	}
	if kind == documents.KindText {
		kind = documents.KindCSV
	}

	sheet, err := documents.DecodeSheet(f.Data, kind)
	if err != nil {
		return nil, decodeError(err)
	}

	res := s.salesExtractor.Extract(sheet)
	for i := range res.Sales {
		sanitizeSale(&res.Sales[i])
	}

	raw, err := json.Marshal(res.Raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode raw rows: %w", err)
	}

	file := &models.UploadedFile{
		Filename:   validation.SanitizeText(f.Filename),
		FileType:   models.FileTypeSales,
		Month:      res.Month,
		RowsRead:   res.RowsProcessed,
		RawContent: string(raw),
	}
	return &pendingUpload{
		file:  file,
		start: start,
		save: func(ctx context.Context) error {
			if err := s.store.SaveSalesUpload(ctx, file, res.Sales); err != nil {
				return fmt.Errorf("failed to save sales upload: %w", err)
			}
			return nil
		},
	}, nil
}

func (s *uploadServiceImpl) prepareBank(f *UploadFile) (*pendingUpload, error) {
	start := time.Now()

	kind, err := validation.DetectDocumentKind(f.Data, f.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedDocument, err)
	}

	text, err := documents.DecodeStatementText(f.Data, kind)
	if err != nil {
		return nil, decodeError(err)
	}

	res := s.bankExtractor.Extract(text)
	for i := range res.Transactions {
		res.Transactions[i].Description = validation.SanitizeText(res.Transactions[i].Description)
	}

	file := &models.UploadedFile{
		Filename:   validation.SanitizeText(f.Filename),
		FileType:   models.FileTypeBank,
		Month:      res.Month,
		RowsRead:   res.LinesMatched,
		RawContent: res.RawText,
	}
	return &pendingUpload{
		file:  file,
		start: start,
		save: func(ctx context.Context) error {
			if err := s.store.SaveBankUpload(ctx, file, res.Transactions); err != nil {
				return fmt.Errorf("failed to save bank upload: %w", err)
			}
			return nil
		},
	}, nil
}

// finish records the processing time of a stored upload.
func (s *uploadServiceImpl) finish(ctx context.Context, file *models.UploadedFile, start time.Time) models.UploadMetrics {
	file.DurationMs = time.Since(start).Milliseconds()
	if err := s.store.UpdateUploadDuration(ctx, file.ID, file.DurationMs); err != nil {
		logger.FromContext(ctx).Warn("Failed to store upload duration", "uploadID", file.ID, "error", err)
	}
	logger.FromContext(ctx).Info("File processed",
		"filename", file.Filename, "fileType", file.FileType, "month", file.Month,
		"rowsRead", file.RowsRead, "durationMs", file.DurationMs)

	return models.UploadMetrics{
		Filename:   file.Filename,
		FileType:   file.FileType,
		Month:      file.Month,
		RowsRead:   file.RowsRead,
		DurationMs: file.DurationMs,
	}
}

func decodeError(err error) error {
	if errors.Is(err, documents.ErrUnsupportedKind) {
		return fmt.Errorf("%w: %v", ErrUnsupportedDocument, err)
	}
	return fmt.Errorf("%w: %v", ErrParsingFailed, err)
}

func sanitizeSale(s *models.CanonicalSale) {
	s.InvoiceNumber = validation.SanitizeText(s.InvoiceNumber)
	s.Customer = validation.SanitizeText(s.Customer)
	s.Product = validation.SanitizeText(s.Product)
	s.PaymentMethod = validation.SanitizeText(s.PaymentMethod)
}
