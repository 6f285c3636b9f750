package processors

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finassist/backend/src/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(d int) civil.Date { return civil.Date{Year: 2025, Month: time.September, Day: d} }

func sale(date civil.Date, invoice, product, gross, method string) models.CanonicalSale {
	return models.CanonicalSale{
		Date:          date,
		InvoiceNumber: invoice,
		Product:       product,
		GrossAmount:   dec(gross),
		PaymentMethod: method,
	}
}

func settlement(date civil.Date, credit string) models.CanonicalBankTransaction {
	return models.CanonicalBankTransaction{
		Date:         date,
		Description:  "Fecho TPA",
		Credit:       decimal.NewNullDecimal(dec(credit)),
		IsSettlement: true,
	}
}

func fee(date civil.Date, debit string) models.CanonicalBankTransaction {
	return models.CanonicalBankTransaction{
		Date:        date,
		Description: "Comissão TPA",
		Debit:       decimal.NewNullDecimal(dec(debit)),
		IsFee:       true,
	}
}

func TestIsCardSale(t *testing.T) {
	p := NewReconProcessor([]string{"Cartão", "cartao", "card"})
	assert.True(t, p.IsCardSale(models.CanonicalSale{PaymentMethod: "Cartão Multicaixa"}))
	assert.True(t, p.IsCardSale(models.CanonicalSale{PaymentMethod: "CARTAO"}))
	assert.True(t, p.IsCardSale(models.CanonicalSale{PaymentMethod: "Credit Card"}))
	assert.False(t, p.IsCardSale(models.CanonicalSale{PaymentMethod: "Numerário"}))
	assert.False(t, p.IsCardSale(models.CanonicalSale{PaymentMethod: ""}))
}

func TestReconcile_NextDaySettlementPasses(t *testing.T) {
	p := NewReconProcessor([]string{"cartão"})
	sales := []models.CanonicalSale{
		sale(day(1), "F1", "Item", "200", "Cartão"),
		sale(day(1), "F2", "Item", "28", "Cartão"),
		sale(day(1), "F3", "Item", "50", "Numerário"),
	}
	txs := []models.CanonicalBankTransaction{settlement(day(2), "228")}

	days := p.Reconcile("2025-09", sales, txs)
	require.Len(t, days, 1)

	d := days[0]
	assert.Equal(t, day(1), d.Date)
	assert.True(t, d.SalesCard.Equal(dec("228")))
	assert.True(t, d.BankSettlement.Equal(dec("228")))
	assert.True(t, d.Fees.IsZero())
	assert.True(t, d.Delta.IsZero())
	assert.True(t, d.DeltaPercent.IsZero())
	assert.True(t, d.Pass)
}

func TestReconcile_FeesAndTolerance(t *testing.T) {
	p := NewReconProcessor([]string{"cartão"})
	sales := []models.CanonicalSale{
		sale(day(3), "F1", "Item", "100", "Cartão"),
		sale(day(5), "F2", "Item", "100", "Cartão"),
	}
	txs := []models.CanonicalBankTransaction{
		settlement(day(3), "92"),
		fee(day(4), "3"),
		// outside day 3's window
		settlement(day(5), "80"),
		{Date: day(5), Description: "IVA s/Comissão", Debit: decimal.NewNullDecimal(dec("1")), IsFee: true, IsFeeVAT: true},
	}

	days := p.Reconcile("2025-09", sales, txs)
	require.Len(t, days, 2)

	// 100 - 92 - 3 = 5 -> exactly 5% passes
	assert.True(t, days[0].Delta.Equal(dec("5")))
	assert.True(t, days[0].DeltaPercent.Equal(dec("5")))
	assert.True(t, days[0].Pass)

	// 100 - 80 - 1 = 19 -> 19% fails
	assert.True(t, days[1].Fees.Equal(dec("1")))
	assert.True(t, days[1].Delta.Equal(dec("19")))
	assert.False(t, days[1].Pass)
}

func TestReconcile_NoCardSalesMeansZeroPercent(t *testing.T) {
	p := NewReconProcessor([]string{"cartão"})
	sales := []models.CanonicalSale{sale(day(7), "F1", "Item", "40", "Numerário")}
	txs := []models.CanonicalBankTransaction{settlement(day(7), "50")}

	days := p.Reconcile("2025-09", sales, txs)
	require.Len(t, days, 1)
	assert.True(t, days[0].Delta.Equal(dec("-50")))
	assert.True(t, days[0].DeltaPercent.IsZero())
	assert.True(t, days[0].Pass)
}

func TestReconcile_IsDeterministic(t *testing.T) {
	p := NewReconProcessor([]string{"cartão"})
	sales := []models.CanonicalSale{
		sale(day(2), "F2", "Item", "33.33", "Cartão"),
		sale(day(1), "F1", "Item", "10", "Cartão"),
	}
	txs := []models.CanonicalBankTransaction{settlement(day(2), "30"), fee(day(3), "0.5")}

	first := p.Reconcile("2025-09", sales, txs)
	second := p.Reconcile("2025-09", sales, txs)
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, day(1), first[0].Date, "days come out in date order")
}

func TestSummarize(t *testing.T) {
	days := make([]models.ReconciliationDay, 10)
	for i := range days {
		days[i].Pass = i != 0
	}
	s := Summarize(days)
	assert.Equal(t, 10, s.TotalDays)
	assert.Equal(t, 9, s.PassedDays)
	assert.Equal(t, 90.0, s.PassRate)
	assert.True(t, s.OverallPass)

	days[1].Pass = false
	s = Summarize(days)
	assert.Equal(t, 80.0, s.PassRate)
	assert.False(t, s.OverallPass)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.TotalDays)
	assert.False(t, empty.OverallPass)
}

func TestToView_RoundsToCents(t *testing.T) {
	v := ToView(models.ReconciliationDay{
		Date:         day(1),
		SalesCard:    dec("33.333"),
		DeltaPercent: dec("4.9999"),
		Pass:         true,
	})
	assert.Equal(t, 33.33, v.SalesCard)
	assert.Equal(t, 5.0, v.DeltaPercent)
}
