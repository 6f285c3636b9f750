package processors

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/username/finassist/backend/src/models"
	"github.com/username/finassist/backend/src/utils"
)

// vatProcessorImpl implements the VATProcessor interface.
type vatProcessorImpl struct{}

// NewVATProcessor creates a new instance of VATProcessor.
func NewVATProcessor() VATProcessor {
	return &vatProcessorImpl{}
}

type vatSums struct {
	base, vat, gross decimal.Decimal
}

func (s *vatSums) add(sale models.CanonicalSale) {
	s.base = s.base.Add(sale.NetAmount)
	s.vat = s.vat.Add(sale.VATAmount)
	s.gross = s.gross.Add(sale.GrossAmount)
}

func (s *vatSums) totals() models.VATTotals {
	return models.VATTotals{
		TaxableBase: utils.RoundMoney(s.base),
		VATAmount:   utils.RoundMoney(s.vat),
		GrossAmount: utils.RoundMoney(s.gross),
	}
}

// rateGroups keeps per-rate sums in first-seen rate order.
type rateGroups struct {
	sums  map[string]*vatSums
	order []string
}

func newRateGroups() *rateGroups {
	return &rateGroups{sums: make(map[string]*vatSums)}
}

func (g *rateGroups) add(sale models.CanonicalSale) {
	key := RateLabel(sale.VATRate)
	s, ok := g.sums[key]
	if !ok {
		s = &vatSums{}
		g.sums[key] = s
		g.order = append(g.order, key)
	}
	s.add(sale)
}

func (g *rateGroups) list() []models.VATRateTotal {
	out := make([]models.VATRateTotal, 0, len(g.order))
	for _, rate := range g.order {
		out = append(out, models.VATRateTotal{Rate: rate, VATTotals: g.sums[rate].totals()})
	}
	return out
}

// Report aggregates the month's sales per day and VAT rate.
func (p *vatProcessorImpl) Report(month string, sales []models.CanonicalSale) models.VATReport {
	byDay := make(map[civil.Date]*rateGroups)
	overall := newRateGroups()
	grand := &vatSums{}

	for _, s := range sales {
		day, ok := byDay[s.Date]
		if !ok {
			day = newRateGroups()
			byDay[s.Date] = day
		}
		day.add(s)
		overall.add(s)
		grand.add(s)
	}

	daily := make([]models.VATDay, 0, len(byDay))
	for _, date := range DistinctSaleDates(sales) {
		daily = append(daily, models.VATDay{Date: date, ByRate: byDay[date].list()})
	}

	return models.VATReport{
		Month:        month,
		Daily:        daily,
		TotalsByRate: overall.list(),
		GrandTotal:   grand.totals(),
	}
}

// RateLabel formats a VAT rate as shown in reports, e.g. "14%".
func RateLabel(rate decimal.Decimal) string {
	return rate.String() + "%"
}
