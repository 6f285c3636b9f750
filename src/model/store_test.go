package model

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finassist/backend/src/database"
	"github.com/username/finassist/backend/src/models"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	// a second run is a no-op
	require.NoError(t, database.Migrate(db))
	return NewSQLStore(db)
}

func sep(d int) civil.Date { return civil.Date{Year: 2025, Month: time.September, Day: d} }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSalesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sales := []models.CanonicalSale{
		{Date: sep(2), InvoiceNumber: "F2", Customer: "Loja", Product: "Café", Quantity: dec("2"),
			UnitPriceNet: dec("50"), VATRate: dec("14"), NetAmount: dec("100"), VATAmount: dec("14"),
			GrossAmount: dec("114"), PaymentMethod: "Cartão"},
		{Date: sep(1), InvoiceNumber: "F1", Product: "Pão", GrossAmount: dec("-3.5")},
	}
	file := &models.UploadedFile{Filename: "vendas.xlsx", FileType: models.FileTypeSales, Month: "2025-09", RowsRead: 2}
	require.NoError(t, store.SaveSalesUpload(ctx, file, sales))
	assert.NotZero(t, file.ID)
	assert.NotZero(t, sales[0].ID)

	got, err := store.SalesForMonth(ctx, "2025-09")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "F1", got[0].InvoiceNumber, "ordered by date")
	assert.True(t, got[0].GrossAmount.Equal(dec("-3.5")))
	assert.Equal(t, sep(2), got[1].Date)
	assert.True(t, got[1].VATAmount.Equal(dec("14")))
	assert.Equal(t, "Cartão", got[1].PaymentMethod)

	other, err := store.SalesForMonth(ctx, "2025-10")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestTransactionsInWindow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	txs := []models.CanonicalBankTransaction{
		{Date: sep(1), Description: "Fecho TPA", Credit: decimal.NewNullDecimal(dec("228")), Balance: dec("1228"), IsSettlement: true},
		{Date: sep(2), Description: "Comissão TPA", Debit: decimal.NewNullDecimal(dec("2")), Balance: dec("1226"), IsFee: true},
		{Date: sep(2), Description: "IVA s/Comissão", Debit: decimal.NewNullDecimal(dec("0.46")), Balance: dec("1225.54"), IsFee: true, IsFeeVAT: true},
		{Date: sep(3), Description: "Fecho TPA", Credit: decimal.NewNullDecimal(dec("10")), Balance: dec("1235.54"), IsSettlement: true},
	}
	file := &models.UploadedFile{Filename: "extrato.pdf", FileType: models.FileTypeBank, Month: "2025-09", RowsRead: 4}
	require.NoError(t, store.SaveBankUpload(ctx, file, txs))

	settlements, err := store.TransactionsInWindow(ctx, "2025-09", sep(1), sep(2), models.FilterSettlement)
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	assert.True(t, settlements[0].Credit.Valid)
	assert.True(t, settlements[0].Credit.Decimal.Equal(dec("228")))
	assert.False(t, settlements[0].Debit.Valid)

	fees, err := store.TransactionsInWindow(ctx, "2025-09", sep(1), sep(2), models.FilterFee)
	require.NoError(t, err)
	require.Len(t, fees, 2)
	assert.True(t, fees[1].IsFeeVAT)

	all, err := store.TransactionsInWindow(ctx, "2025-09", sep(2), sep(3), models.FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	listed, err := store.TransactionsForMonth(ctx, "2025-09")
	require.NoError(t, err)
	assert.Len(t, listed, 4)
}

func TestUpsertReconciliationDayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	day := models.ReconciliationDay{
		Month: "2025-09", Date: sep(1), SalesCard: dec("228"), BankSettlement: dec("200"),
		Fees: dec("2"), Delta: dec("26"), DeltaPercent: dec("11.4"), Pass: false,
	}
	require.NoError(t, store.UpsertReconciliationDay(ctx, day))

	day.BankSettlement = dec("228")
	day.Fees = decimal.Zero
	day.Delta = decimal.Zero
	day.DeltaPercent = decimal.Zero
	day.Pass = true
	require.NoError(t, store.UpsertReconciliationDay(ctx, day))
	require.NoError(t, store.UpsertReconciliationDay(ctx, day))

	days, err := store.ReconciliationForMonth(ctx, "2025-09")
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.True(t, days[0].Pass)
	assert.True(t, days[0].BankSettlement.Equal(dec("228")))
	assert.Equal(t, sep(1), days[0].Date)
}

func TestLatestMonthAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	month, err := store.LatestMonth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", month)

	base := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSalesUpload(ctx, &models.UploadedFile{
		Filename: "a.xlsx", FileType: models.FileTypeSales, Month: "2025-08", UploadedAt: base,
	}, []models.CanonicalSale{{Date: civil.Date{Year: 2025, Month: 8, Day: 3}, GrossAmount: dec("1")}}))
	require.NoError(t, store.SaveSalesUpload(ctx, &models.UploadedFile{
		Filename: "b.xlsx", FileType: models.FileTypeSales, Month: "2025-09", UploadedAt: base.Add(time.Hour),
	}, []models.CanonicalSale{{Date: sep(3), GrossAmount: dec("1")}}))
	require.NoError(t, store.SaveBankUpload(ctx, &models.UploadedFile{
		Filename: "empty.txt", FileType: models.FileTypeBank, Month: "", UploadedAt: base.Add(2 * time.Hour),
	}, nil))
	require.NoError(t, store.UpsertReconciliationDay(ctx, models.ReconciliationDay{Month: "2025-09", Date: sep(3), Pass: true}))

	month, err = store.LatestMonth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-09", month)

	deleted, err := store.DeleteMonth(ctx, "2025-09")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	sales, err := store.SalesForMonth(ctx, "2025-09")
	require.NoError(t, err)
	assert.Empty(t, sales)
	days, err := store.ReconciliationForMonth(ctx, "2025-09")
	require.NoError(t, err)
	assert.Empty(t, days)

	month, err = store.LatestMonth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-08", month)
}
