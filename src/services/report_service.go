package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/patrickmn/go-cache"
	"github.com/username/finassist/backend/src/logger"
	"github.com/username/finassist/backend/src/models"
	"github.com/username/finassist/backend/src/processors"
)

// Cache keys are prefixed with the month so a month can be invalidated as a whole.
const (
	ckCardRecon    = "%s:card_recon"
	ckFees         = "%s:fees"
	ckAnomalies    = "%s:anomalies"
	ckKPISummary   = "%s:kpi_summary"
	ckDailyRevenue = "%s:kpi_daily"
	ckTopCustomers = "%s:top_customers_%d"
	ckTopProducts  = "%s:top_products_%d"
	ckVATReport    = "%s:vat_report"
)

type reportServiceImpl struct {
	store            Store
	feeProcessor     processors.FeeProcessor
	anomalyProcessor processors.AnomalyProcessor
	kpiProcessor     processors.KPIProcessor
	vatProcessor     processors.VATProcessor
	reportCache      *cache.Cache
}

func NewReportService(
	store Store,
	feeProcessor processors.FeeProcessor,
	anomalyProcessor processors.AnomalyProcessor,
	kpiProcessor processors.KPIProcessor,
	vatProcessor processors.VATProcessor,
	reportCache *cache.Cache,
) ReportService {
	return &reportServiceImpl{
		store:            store,
		feeProcessor:     feeProcessor,
		anomalyProcessor: anomalyProcessor,
		kpiProcessor:     kpiProcessor,
		vatProcessor:     vatProcessor,
		reportCache:      reportCache,
	}
}

// cached returns the value stored under key, or loads and stores it.
func cached[T any](ctx context.Context, c *cache.Cache, key string, load func() (T, error)) (T, error) {
	if v, found := c.Get(key); found {
		logger.FromContext(ctx).Debug("Report cache hit", "key", key)
		return v.(T), nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v, cache.DefaultExpiration)
	return v, nil
}

func invalidateMonthCache(c *cache.Cache, month string) {
	if month == "" {
		return
	}
	prefix := month + ":"
	for key := range c.Items() {
		if strings.HasPrefix(key, prefix) {
			c.Delete(key)
		}
	}
}

func (s *reportServiceImpl) InvalidateMonth(month string) {
	invalidateMonthCache(s.reportCache, month)
}

func (s *reportServiceImpl) CardReconciliation(ctx context.Context, month string) (models.ReconciliationReport, error) {
	return cached(ctx, s.reportCache, fmt.Sprintf(ckCardRecon, month), func() (models.ReconciliationReport, error) {
		days, err := s.store.ReconciliationForMonth(ctx, month)
		if err != nil {
			return models.ReconciliationReport{}, fmt.Errorf("failed to load reconciliation for %s: %w", month, err)
		}
		daily := make([]models.ReconciliationDayView, 0, len(days))
		for _, d := range days {
			daily = append(daily, processors.ToView(d))
		}
		return models.ReconciliationReport{
			Month:   month,
			Daily:   daily,
			Summary: processors.Summarize(days),
		}, nil
	})
}

func (s *reportServiceImpl) Fees(ctx context.Context, month string) ([]models.FeeDetail, error) {
	return cached(ctx, s.reportCache, fmt.Sprintf(ckFees, month), func() ([]models.FeeDetail, error) {
		txs, err := s.store.TransactionsForMonth(ctx, month)
		if err != nil {
			return nil, fmt.Errorf("failed to load bank transactions for %s: %w", month, err)
		}
		return s.feeProcessor.Process(txs), nil
	})
}

func (s *reportServiceImpl) Anomalies(ctx context.Context, month string) (models.AnomalyReport, error) {
	return cached(ctx, s.reportCache, fmt.Sprintf(ckAnomalies, month), func() (models.AnomalyReport, error) {
		sales, err := s.salesForMonth(ctx, month)
		if err != nil {
			return models.AnomalyReport{}, err
		}
		return s.anomalyProcessor.Scan(month, sales), nil
	})
}

func (s *reportServiceImpl) KPISummary(ctx context.Context, month string) (models.KPISummary, error) {
	return cached(ctx, s.reportCache, fmt.Sprintf(ckKPISummary, month), func() (models.KPISummary, error) {
		sales, err := s.salesForMonth(ctx, month)
		if err != nil {
			return models.KPISummary{}, err
		}
		return s.kpiProcessor.Summary(month, sales), nil
	})
}

func (s *reportServiceImpl) DailyRevenue(ctx context.Context, month string) (models.DailySeries, error) {
	return cached(ctx, s.reportCache, fmt.Sprintf(ckDailyRevenue, month), func() (models.DailySeries, error) {
		sales, err := s.salesForMonth(ctx, month)
		if err != nil {
			return models.DailySeries{}, err
		}
		return s.kpiProcessor.Daily(month, sales), nil
	})
}

func (s *reportServiceImpl) TopCustomers(ctx context.Context, month string, limit int) ([]models.CustomerRevenue, error) {
	return cached(ctx, s.reportCache, fmt.Sprintf(ckTopCustomers, month, limit), func() ([]models.CustomerRevenue, error) {
		sales, err := s.salesForMonth(ctx, month)
		if err != nil {
			return nil, err
		}
		return s.kpiProcessor.TopCustomers(sales, limit), nil
	})
}

func (s *reportServiceImpl) TopProducts(ctx context.Context, month string, limit int) ([]models.ProductRevenue, error) {
	return cached(ctx, s.reportCache, fmt.Sprintf(ckTopProducts, month, limit), func() ([]models.ProductRevenue, error) {
		sales, err := s.salesForMonth(ctx, month)
		if err != nil {
			return nil, err
		}
		return s.kpiProcessor.TopProducts(sales, limit), nil
	})
}

func (s *reportServiceImpl) VATReport(ctx context.Context, month string) (models.VATReport, error) {
	return cached(ctx, s.reportCache, fmt.Sprintf(ckVATReport, month), func() (models.VATReport, error) {
		sales, err := s.salesForMonth(ctx, month)
		if err != nil {
			return models.VATReport{}, err
		}
		return s.vatProcessor.Report(month, sales), nil
	})
}

func (s *reportServiceImpl) Sales(ctx context.Context, month string) ([]models.CanonicalSale, error) {
	return s.salesForMonth(ctx, month)
}

func (s *reportServiceImpl) BankTransactions(ctx context.Context, month string) ([]models.CanonicalBankTransaction, error) {
	txs, err := s.store.TransactionsForMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank transactions for %s: %w", month, err)
	}
	return txs, nil
}

func (s *reportServiceImpl) LatestMonth(ctx context.Context) (string, error) {
	return s.store.LatestMonth(ctx)
}

func (s *reportServiceImpl) DeleteMonth(ctx context.Context, month string) (int64, error) {
	deleted, err := s.store.DeleteMonth(ctx, month)
	if err != nil {
		return 0, fmt.Errorf("failed to delete data for %s: %w", month, err)
	}
	s.InvalidateMonth(month)
	logger.FromContext(ctx).Info("Month data deleted", "month", month, "uploads", deleted)
	return deleted, nil
}

func (s *reportServiceImpl) salesForMonth(ctx context.Context, month string) ([]models.CanonicalSale, error) {
	sales, err := s.store.SalesForMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales for %s: %w", month, err)
	}
	return sales, nil
}
