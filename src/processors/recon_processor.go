package processors

import (
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/username/finassist/backend/src/models"
	"github.com/username/finassist/backend/src/utils"
)

var (
	// a day passes when |delta%| <= DayTolerancePercent
	DayTolerancePercent = decimal.NewFromInt(5)
	// a month passes when at least MonthPassRatePercent of its days pass
	MonthPassRatePercent = 90.0

	hundred = decimal.NewFromInt(100)
)

// SettlementLagDays is how many days after a sale its settlement may be booked.
const SettlementLagDays = 1

// reconProcessorImpl implements the ReconProcessor interface.
type reconProcessorImpl struct {
	cardTokens []string
}

// NewReconProcessor creates a ReconProcessor. A sale counts as a card sale when
// its payment method contains any of cardTokens, ignoring case.
func NewReconProcessor(cardTokens []string) ReconProcessor {
	tokens := make([]string, 0, len(cardTokens))
	for _, t := range cardTokens {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tokens = append(tokens, t)
		}
	}
	return &reconProcessorImpl{cardTokens: tokens}
}

func (p *reconProcessorImpl) IsCardSale(sale models.CanonicalSale) bool {
	method := strings.ToLower(sale.PaymentMethod)
	for _, token := range p.cardTokens {
		if strings.Contains(method, token) {
			return true
		}
	}
	return false
}

func (p *reconProcessorImpl) ReconcileDay(month string, date civil.Date, sales []models.CanonicalSale, settlements, fees []models.CanonicalBankTransaction) models.ReconciliationDay {
	salesCard := decimal.Zero
	for _, s := range sales {
		if s.Date == date && p.IsCardSale(s) {
			salesCard = salesCard.Add(s.GrossAmount)
		}
	}

	bankSettlement := decimal.Zero
	for _, tx := range settlements {
		if tx.IsSettlement {
			bankSettlement = bankSettlement.Add(tx.CreditOrZero())
		}
	}

	totalFees := decimal.Zero
	for _, tx := range fees {
		if tx.IsFee || tx.IsFeeVAT {
			totalFees = totalFees.Add(tx.DebitOrZero())
		}
	}

	delta := salesCard.Sub(bankSettlement).Sub(totalFees)
	deltaPercent := decimal.Zero
	if !salesCard.IsZero() {
		deltaPercent = delta.Div(salesCard).Mul(hundred)
	}

	return models.ReconciliationDay{
		Month:          month,
		Date:           date,
		SalesCard:      salesCard,
		BankSettlement: bankSettlement,
		Fees:           totalFees,
		Delta:          delta,
		DeltaPercent:   deltaPercent,
		Pass:           deltaPercent.Abs().LessThanOrEqual(DayTolerancePercent),
	}
}

func (p *reconProcessorImpl) Reconcile(month string, sales []models.CanonicalSale, txs []models.CanonicalBankTransaction) []models.ReconciliationDay {
	var days []models.ReconciliationDay
	for _, date := range DistinctSaleDates(sales) {
		end := date.AddDays(SettlementLagDays)
		var settlements, fees []models.CanonicalBankTransaction
		for _, tx := range txs {
			if tx.Date.Before(date) || tx.Date.After(end) {
				continue
			}
			if models.FilterSettlement.Matches(tx) {
				settlements = append(settlements, tx)
			}
			if models.FilterFee.Matches(tx) {
				fees = append(fees, tx)
			}
		}
		days = append(days, p.ReconcileDay(month, date, sales, settlements, fees))
	}
	return days
}

// DistinctSaleDates returns the dates that have at least one sale, ascending.
func DistinctSaleDates(sales []models.CanonicalSale) []civil.Date {
	seen := make(map[civil.Date]bool)
	var dates []civil.Date
	for _, s := range sales {
		if !seen[s.Date] {
			seen[s.Date] = true
			dates = append(dates, s.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Summarize computes the month-level pass rate of reconciled days.
func Summarize(days []models.ReconciliationDay) models.ReconciliationSummary {
	passed := 0
	for _, d := range days {
		if d.Pass {
			passed++
		}
	}
	passRate := 0.0
	if len(days) > 0 {
		passRate = float64(passed) * 100 / float64(len(days))
	}
	return models.ReconciliationSummary{
		TotalDays:   len(days),
		PassedDays:  passed,
		PassRate:    utils.RoundFloat(passRate, 2),
		OverallPass: passRate >= MonthPassRatePercent,
	}
}

// ToView rounds a reconciliation day for API responses.
func ToView(d models.ReconciliationDay) models.ReconciliationDayView {
	return models.ReconciliationDayView{
		Date:           d.Date,
		SalesCard:      utils.RoundMoney(d.SalesCard),
		BankSettlement: utils.RoundMoney(d.BankSettlement),
		Fees:           utils.RoundMoney(d.Fees),
		Delta:          utils.RoundMoney(d.Delta),
		DeltaPercent:   utils.RoundMoney(d.DeltaPercent),
		Pass:           d.Pass,
	}
}
