package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/username/finassist/backend/src/logger"
	"github.com/username/finassist/backend/src/models"
	"github.com/username/finassist/backend/src/processors"
)

type reconciliationServiceImpl struct {
	store     Store
	processor processors.ReconProcessor
}

func NewReconciliationService(store Store, processor processors.ReconProcessor) ReconciliationService {
	return &reconciliationServiceImpl{store: store, processor: processor}
}

func (s *reconciliationServiceImpl) ComputeReconciliation(ctx context.Context, month string) ([]models.ReconciliationDay, error) {
	log := logger.FromContext(ctx).With("month", month)

	sales, err := s.store.SalesForMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales for %s: %w", month, err)
	}

	days := []models.ReconciliationDay{}
	var errs []error
	for _, date := range processors.DistinctSaleDates(sales) {
		end := date.AddDays(processors.SettlementLagDays)

		settlements, err := s.store.TransactionsInWindow(ctx, month, date, end, models.FilterSettlement)
		if err != nil {
			log.Error("Failed to load settlements", "date", date.String(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", date, err))
			continue
		}
		fees, err := s.store.TransactionsInWindow(ctx, month, date, end, models.FilterFee)
		if err != nil {
			log.Error("Failed to load fees", "date", date.String(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", date, err))
			continue
		}

		day := s.processor.ReconcileDay(month, date, sales, settlements, fees)
		if err := s.store.UpsertReconciliationDay(ctx, day); err != nil {
			log.Error("Failed to save reconciliation day", "date", date.String(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", date, err))
			continue
		}
		days = append(days, day)
	}

	log.Info("Reconciliation computed", "days", len(days), "failedDays", len(errs))
	return days, errors.Join(errs...)
}
