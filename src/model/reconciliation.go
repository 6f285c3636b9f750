package model

import (
	"context"

	"github.com/username/finassist/backend/src/models"
)

// UpsertReconciliationDay writes d, replacing any earlier result for the
// same (month, date).
func UpsertReconciliationDay(ctx context.Context, db DBTX, d models.ReconciliationDay) error {
	query := `
		INSERT INTO daily_reconciliations (month, date, sales_card, bank_settlement, fees, delta, delta_percent, pass)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(month, date) DO UPDATE SET
			sales_card = excluded.sales_card,
			bank_settlement = excluded.bank_settlement,
			fees = excluded.fees,
			delta = excluded.delta,
			delta_percent = excluded.delta_percent,
			pass = excluded.pass`
	_, err := db.ExecContext(ctx, query,
		d.Month, d.Date.String(), d.SalesCard, d.BankSettlement, d.Fees, d.Delta, d.DeltaPercent, d.Pass)
	return err
}

// GetReconciliationByMonth returns the stored days of month in date order.
func GetReconciliationByMonth(ctx context.Context, db DBTX, month string) ([]models.ReconciliationDay, error) {
	query := `
		SELECT month, date, sales_card, bank_settlement, fees, delta, delta_percent, pass
		FROM daily_reconciliations WHERE month = ? ORDER BY date ASC`
	rows, err := db.QueryContext(ctx, query, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []models.ReconciliationDay{}
	for rows.Next() {
		var d models.ReconciliationDay
		var date string
		if err := rows.Scan(&d.Month, &date, &d.SalesCard, &d.BankSettlement, &d.Fees, &d.Delta, &d.DeltaPercent, &d.Pass); err != nil {
			return nil, err
		}
		if d.Date, err = parseStoredDate(date); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
