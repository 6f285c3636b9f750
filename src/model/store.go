package model

import (
	"context"
	"database/sql"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/username/finassist/backend/src/models"
)

// SQLStore persists uploads, records and reconciliation results in SQLite.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// withTx runs fn in a transaction, rolling back when fn fails.
func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// SaveSalesUpload stores the upload record and all its sales atomically.
func (s *SQLStore) SaveSalesUpload(ctx context.Context, file *models.UploadedFile, sales []models.CanonicalSale) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := InsertUploadedFile(ctx, tx, file); err != nil {
			return fmt.Errorf("failed to save uploaded file: %w", err)
		}
		for i := range sales {
			if err := SaveSale(ctx, tx, file.ID, file.Month, &sales[i]); err != nil {
				return fmt.Errorf("failed to save sale row %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// SaveBankUpload stores the upload record and all its bank lines atomically.
func (s *SQLStore) SaveBankUpload(ctx context.Context, file *models.UploadedFile, txs []models.CanonicalBankTransaction) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := InsertUploadedFile(ctx, tx, file); err != nil {
			return fmt.Errorf("failed to save uploaded file: %w", err)
		}
		for i := range txs {
			if err := SaveTransaction(ctx, tx, file.ID, file.Month, &txs[i]); err != nil {
				return fmt.Errorf("failed to save bank line %d: %w", i+1, err)
			}
		}
		return nil
	})
}

func (s *SQLStore) UpdateUploadDuration(ctx context.Context, id int64, durationMs int64) error {
	return UpdateUploadDuration(ctx, s.db, id, durationMs)
}

func (s *SQLStore) UpsertReconciliationDay(ctx context.Context, d models.ReconciliationDay) error {
	return UpsertReconciliationDay(ctx, s.db, d)
}

func (s *SQLStore) SalesForMonth(ctx context.Context, month string) ([]models.CanonicalSale, error) {
	return GetSalesByMonth(ctx, s.db, month)
}

func (s *SQLStore) TransactionsForMonth(ctx context.Context, month string) ([]models.CanonicalBankTransaction, error) {
	return GetTransactionsByMonth(ctx, s.db, month)
}

func (s *SQLStore) TransactionsInWindow(ctx context.Context, month string, start, end civil.Date, filter models.TxFilter) ([]models.CanonicalBankTransaction, error) {
	return GetTransactionsInWindow(ctx, s.db, month, start, end, filter)
}

func (s *SQLStore) ReconciliationForMonth(ctx context.Context, month string) ([]models.ReconciliationDay, error) {
	return GetReconciliationByMonth(ctx, s.db, month)
}

func (s *SQLStore) LatestMonth(ctx context.Context) (string, error) {
	return GetLatestMonth(ctx, s.db)
}

// DeleteMonth removes a month's data in one transaction.
func (s *SQLStore) DeleteMonth(ctx context.Context, month string) (int64, error) {
	var deleted int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		deleted, err = DeleteMonthData(ctx, tx, month)
		return err
	})
	return deleted, err
}
