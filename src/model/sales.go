package model

import (
	"context"

	"github.com/username/finassist/backend/src/models"
)

// SaveSale inserts one sale for the given upload and sets s.ID.
func SaveSale(ctx context.Context, db DBTX, uploadID int64, month string, s *models.CanonicalSale) error {
	query := `
		INSERT INTO sales (upload_id, month, date, invoice_number, customer, product, quantity, unit_price_net,
			vat_rate, net_amount, vat_amount, gross_amount, payment_method)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, query,
		uploadID, month, s.Date.String(), s.InvoiceNumber, s.Customer, s.Product,
		s.Quantity, s.UnitPriceNet, s.VATRate, s.NetAmount, s.VATAmount, s.GrossAmount,
		s.PaymentMethod,
	)
	if err != nil {
		return err
	}
	s.ID, err = res.LastInsertId()
	return err
}

// GetSalesByMonth returns the month's sales ordered by date, then insertion.
func GetSalesByMonth(ctx context.Context, db DBTX, month string) ([]models.CanonicalSale, error) {
	query := `
		SELECT id, date, invoice_number, customer, product, quantity, unit_price_net,
			vat_rate, net_amount, vat_amount, gross_amount, payment_method
		FROM sales WHERE month = ? ORDER BY date ASC, id ASC`
	rows, err := db.QueryContext(ctx, query, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := []models.CanonicalSale{}
	for rows.Next() {
		var s models.CanonicalSale
		var date string
		if err := rows.Scan(
			&s.ID, &date, &s.InvoiceNumber, &s.Customer, &s.Product,
			&s.Quantity, &s.UnitPriceNet, &s.VATRate, &s.NetAmount, &s.VATAmount, &s.GrossAmount,
			&s.PaymentMethod,
		); err != nil {
			return nil, err
		}
		if s.Date, err = parseStoredDate(date); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
