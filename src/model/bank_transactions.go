package model

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/username/finassist/backend/src/models"
)

// SaveTransaction inserts one bank line for the given upload and sets tx.ID.
// Missing debit/credit are stored as NULL.
func SaveTransaction(ctx context.Context, db DBTX, uploadID int64, month string, tx *models.CanonicalBankTransaction) error {
	query := `
		INSERT INTO bank_transactions (upload_id, month, date, description, debit, credit, balance,
			is_settlement, is_fee, is_fee_vat)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, query,
		uploadID, month, tx.Date.String(), tx.Description, tx.Debit, tx.Credit, tx.Balance,
		tx.IsSettlement, tx.IsFee, tx.IsFeeVAT,
	)
	if err != nil {
		return err
	}
	tx.ID, err = res.LastInsertId()
	return err
}

const transactionColumns = `id, date, description, debit, credit, balance, is_settlement, is_fee, is_fee_vat`

// GetTransactionsByMonth lists the month's bank lines in statement order.
func GetTransactionsByMonth(ctx context.Context, db DBTX, month string) ([]models.CanonicalBankTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM bank_transactions WHERE month = ? ORDER BY date ASC, id ASC`
	return queryTransactions(ctx, db, query, month)
}

// GetTransactionsInWindow returns the month's bank lines dated within
// [start, end], both inclusive, that pass filter.
func GetTransactionsInWindow(ctx context.Context, db DBTX, month string, start, end civil.Date, filter models.TxFilter) ([]models.CanonicalBankTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM bank_transactions WHERE month = ? AND date >= ? AND date <= ?`
	switch filter {
	case models.FilterSettlement:
		query += ` AND is_settlement = 1`
	case models.FilterFee:
		query += ` AND (is_fee = 1 OR is_fee_vat = 1)`
	}
	query += ` ORDER BY date ASC, id ASC`
	return queryTransactions(ctx, db, query, month, start.String(), end.String())
}

func queryTransactions(ctx context.Context, db DBTX, query string, args ...any) ([]models.CanonicalBankTransaction, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.CanonicalBankTransaction{}
	for rows.Next() {
		var tx models.CanonicalBankTransaction
		var date string
		if err := rows.Scan(
			&tx.ID, &date, &tx.Description, &tx.Debit, &tx.Credit, &tx.Balance,
			&tx.IsSettlement, &tx.IsFee, &tx.IsFeeVAT,
		); err != nil {
			return nil, err
		}
		if tx.Date, err = parseStoredDate(date); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
